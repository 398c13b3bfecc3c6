package provision

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// recordingRunner captures every command line passed to the hypervisor CLI.
type recordingRunner struct {
	lines []string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.lines = append(r.lines, name+" "+strings.Join(args, " "))
	return "", nil
}

func (r *recordingRunner) LookPath(file string) (string, error) {
	return "/usr/sbin/" + file, nil
}

func TestCTBackendCreateArgv(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewCTBackend(proxmox.NewCTClientWithRunner(runner))

	req := validRequest()
	req.DiskSize = "32G"
	req.IPCIDR = "192.168.1.50/24"
	req.Gateway = "192.168.1.1"
	req.Password = "secret"
	req.Tags = []string{"metabase", "prod"}
	req.Nesting = true

	err := backend.Create(context.Background(), &req, "local:vztmpl/debian-12.tar.zst")
	require.NoError(t, err)

	require.Len(t, runner.lines, 1)
	line := runner.lines[0]

	assert.True(t, strings.HasPrefix(line, "pct create 100 local:vztmpl/debian-12.tar.zst"), line)
	assert.Contains(t, line, "--cores 2")
	assert.Contains(t, line, "--memory 2048")
	assert.Contains(t, line, "--swap 512")
	assert.Contains(t, line, "--rootfs local-lvm:32", "rootfs wants the bare number")
	assert.Contains(t, line, "--net0 name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1")
	assert.Contains(t, line, "--hostname metabase")
	assert.Contains(t, line, "--unprivileged 1")
	assert.Contains(t, line, "--features nesting=1")
	assert.Contains(t, line, "--password secret")
	assert.Contains(t, line, "--tags metabase;prod")
	assert.True(t, strings.HasSuffix(line, "--start 0"), "creation never auto-starts")
}

func TestCTBackendCreateDHCPOmitsStaticFragments(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewCTBackend(proxmox.NewCTClientWithRunner(runner))

	req := validRequest()
	err := backend.Create(context.Background(), &req, "local:vztmpl/debian-12.tar.zst")
	require.NoError(t, err)

	line := runner.lines[0]
	assert.Contains(t, line, "--net0 name=eth0,bridge=vmbr0,ip=dhcp")
	assert.NotContains(t, line, "gw=")
	assert.NotContains(t, line, "--features")
	assert.NotContains(t, line, "--tags")
}

func TestCTBackendCreatePrivileged(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewCTBackend(proxmox.NewCTClientWithRunner(runner))

	req := validRequest()
	req.Unprivileged = false

	err := backend.Create(context.Background(), &req, "local:vztmpl/debian-12.tar.zst")
	require.NoError(t, err)
	assert.Contains(t, runner.lines[0], "--unprivileged 0")
}

func TestVMBackendCreateArgv(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewVMBackend(proxmox.NewVMClientWithRunner(runner))

	req := validRequest()
	req.DiskSize = "32G"
	req.IPCIDR = "10.0.0.5/24"
	req.Gateway = "10.0.0.1"
	req.Password = "secret"

	err := backend.Create(context.Background(), &req, "/var/lib/vz/images/debian-12-genericcloud.qcow2")
	require.NoError(t, err)

	require.Len(t, runner.lines, 2, "create then resize")
	create, resize := runner.lines[0], runner.lines[1]

	assert.True(t, strings.HasPrefix(create, "qm create 100"), create)
	assert.Contains(t, create, "--net0 virtio,bridge=vmbr0")
	assert.Contains(t, create, "--ipconfig0 ip=10.0.0.5/24,gw=10.0.0.1")
	assert.Contains(t, create, "--scsi0 local-lvm:0,import-from=/var/lib/vz/images/debian-12-genericcloud.qcow2")
	assert.Contains(t, create, "--ide2 local-lvm:cloudinit")
	assert.Contains(t, create, "--boot order=scsi0")
	assert.Contains(t, create, "--agent 1")
	assert.Contains(t, create, "--name metabase")
	assert.Contains(t, create, "--cipassword secret")

	assert.Equal(t, "qm resize 100 scsi0 32G", resize, "resize keeps the unit suffix")
}

func TestVMBackendCreateDHCP(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewVMBackend(proxmox.NewVMClientWithRunner(runner))

	req := validRequest()
	req.DiskSize = ""

	err := backend.Create(context.Background(), &req, "/tmp/img.qcow2")
	require.NoError(t, err)

	require.Len(t, runner.lines, 1, "no resize without a disk size")
	assert.Contains(t, runner.lines[0], "--ipconfig0 ip=dhcp")
}

func TestVMIPConfig(t *testing.T) {
	req := validRequest()
	assert.Equal(t, "ip=dhcp", vmIPConfig(&req))

	req.IPCIDR = "10.0.0.5/24"
	assert.Equal(t, "ip=10.0.0.5/24", vmIPConfig(&req))

	req.Gateway = "10.0.0.1"
	assert.Equal(t, "ip=10.0.0.5/24,gw=10.0.0.1", vmIPConfig(&req))
}
