package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/provision"
	"github.com/hostfolk/pveforge/pkg/proxmox"
)

func newFlagTestCmd(f *createFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "create", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)
	cmd.Flags().StringVar(&f.template, "template", "", "")
	cmd.Flags().BoolVar(&f.privileged, "privileged", false, "")
	return cmd
}

func TestBuildRequestDefaultsFromConfig(t *testing.T) {
	f := &createFlags{}
	cmd := newFlagTestCmd(f)
	require.NoError(t, cmd.Flags().Parse([]string{"--id", "100"}))

	cfg := config.NewConfig()
	cfg.DefaultStorage = "tank"
	cfg.DefaultBridge = "vmbr2"

	req, err := f.buildRequest(cmd, cfg)
	require.NoError(t, err)

	assert.Equal(t, 100, req.ID)
	assert.Equal(t, "tank", req.Storage)
	assert.Equal(t, "vmbr2", req.Bridge)
	assert.Equal(t, 2, req.Cores, "untouched fields keep the built-in defaults")
	assert.True(t, req.Unprivileged)
}

func TestBuildRequestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PVEFORGE_CORES", "8")
	t.Setenv("PVEFORGE_HOSTNAME", "from-env")

	f := &createFlags{}
	cmd := newFlagTestCmd(f)
	require.NoError(t, cmd.Flags().Parse([]string{"--id", "100", "--cores", "4"}))

	req, err := f.buildRequest(cmd, config.NewConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, req.Cores, "an explicit flag beats the environment")
	assert.Equal(t, "from-env", req.Hostname, "env still applies where no flag was set")
}

func TestBuildRequestPrivilegedFlag(t *testing.T) {
	f := &createFlags{}
	cmd := newFlagTestCmd(f)
	require.NoError(t, cmd.Flags().Parse([]string{"--id", "100", "--privileged"}))

	req, err := f.buildRequest(cmd, config.NewConfig())
	require.NoError(t, err)
	assert.False(t, req.Unprivileged)
}

func TestBuildRequestRejectsUnknownReusePolicy(t *testing.T) {
	f := &createFlags{}
	cmd := newFlagTestCmd(f)
	require.NoError(t, cmd.Flags().Parse([]string{"--id", "100", "--reuse", "maybe"}))

	_, err := f.buildRequest(cmd, config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown reuse policy")
}

func TestBuildRequestReusePolicies(t *testing.T) {
	for _, policy := range []string{"prompt", "always", "never"} {
		f := &createFlags{}
		cmd := newFlagTestCmd(f)
		require.NoError(t, cmd.Flags().Parse([]string{"--id", "100", "--reuse", policy}))

		req, err := f.buildRequest(cmd, config.NewConfig())
		require.NoError(t, err)
		assert.Equal(t, provision.ReusePolicy(policy), req.Reuse)
	}
}

// nextIDRunner answers the cluster next-ID query and counts calls.
type nextIDRunner struct {
	calls int
}

func (r *nextIDRunner) Run(_ context.Context, _ string, _ ...string) (string, error) {
	r.calls++
	return "105\n", nil
}

func (r *nextIDRunner) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func TestAllocateIDWhenOptedIn(t *testing.T) {
	runner := &nextIDRunner{}
	storage := proxmox.NewStorageClientWithRunner(runner)

	f := &createFlags{autoID: true}
	req := provision.DefaultRequest()

	require.NoError(t, f.allocateID(context.Background(), &req, storage))
	assert.Equal(t, 105, req.ID)
	assert.Equal(t, 1, runner.calls)
}

func TestAllocateIDKeepsExplicitID(t *testing.T) {
	runner := &nextIDRunner{}
	storage := proxmox.NewStorageClientWithRunner(runner)

	f := &createFlags{autoID: true}
	req := provision.DefaultRequest()
	req.ID = 100

	require.NoError(t, f.allocateID(context.Background(), &req, storage))
	assert.Equal(t, 100, req.ID, "an explicit ID wins over allocation")
	assert.Zero(t, runner.calls)
}

func TestAllocateIDRequiresOptIn(t *testing.T) {
	runner := &nextIDRunner{}
	storage := proxmox.NewStorageClientWithRunner(runner)

	f := &createFlags{}
	req := provision.DefaultRequest()

	require.NoError(t, f.allocateID(context.Background(), &req, storage))
	assert.Zero(t, req.ID, "without --auto-id a missing ID stays missing")
	assert.Zero(t, runner.calls)
}

func TestBuildRequestStaticNetworkFlags(t *testing.T) {
	f := &createFlags{}
	cmd := newFlagTestCmd(f)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--id", "100",
		"--ip", "192.168.1.50/24",
		"--gw", "192.168.1.1",
		"--tags", "vault,prod",
	}))

	req, err := f.buildRequest(cmd, config.NewConfig())
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50/24", req.IPCIDR)
	assert.Equal(t, "192.168.1.1", req.Gateway)
	assert.Equal(t, []string{"vault", "prod"}, req.Tags)
}
