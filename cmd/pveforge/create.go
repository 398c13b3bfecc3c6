package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/apps"
	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/credentials"
	"github.com/hostfolk/pveforge/pkg/provision"
	"github.com/hostfolk/pveforge/pkg/proxmox"
	"github.com/hostfolk/pveforge/pkg/ui"
)

// createFlags holds the flag values for create and create-vm. Flags only
// override the request when explicitly set, so the precedence stays
// defaults < config file < environment < flags.
type createFlags struct {
	id       int
	autoID   bool
	hostname string

	cores    int
	memoryMB int
	swapMB   int
	diskSize string

	storage  string
	template string

	bridge  string
	ipCIDR  string
	gateway string

	password   string
	sshKeyPath string

	tags       []string
	privileged bool
	nesting    bool

	reuse    string
	rollback bool

	app     string
	plain   bool
	verbose bool
}

func (f *createFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.id, "id", 0, "Instance ID (required unless PVEFORGE_CTID is set)")
	cmd.Flags().BoolVar(&f.autoID, "auto-id", false, "Allocate the next free instance ID when --id is omitted")
	cmd.Flags().StringVar(&f.hostname, "hostname", "", "Guest hostname")
	cmd.Flags().IntVar(&f.cores, "cores", 0, "CPU cores")
	cmd.Flags().IntVar(&f.memoryMB, "memory", 0, "Memory in MB")
	cmd.Flags().IntVar(&f.swapMB, "swap", -1, "Swap in MB")
	cmd.Flags().StringVar(&f.diskSize, "disk", "", "Disk size with unit suffix, e.g. 8G")
	cmd.Flags().StringVar(&f.storage, "storage", "", "Storage pool for the root disk")
	cmd.Flags().StringVar(&f.bridge, "bridge", "", "Network bridge")
	cmd.Flags().StringVar(&f.ipCIDR, "ip", "", "Static IP in CIDR form, e.g. 192.168.1.50/24 (default DHCP)")
	cmd.Flags().StringVar(&f.gateway, "gw", "", "Gateway for static IP")
	cmd.Flags().StringVar(&f.password, "password", "", "Root password (generated when empty)")
	cmd.Flags().StringVar(&f.sshKeyPath, "ssh-key", "", "Path to an SSH public key to authorize")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "Tags to set on the instance")
	cmd.Flags().BoolVar(&f.nesting, "nesting", false, "Enable container nesting (required for docker/supabase)")
	cmd.Flags().StringVar(&f.reuse, "reuse", "", "Reuse policy when the ID exists: prompt, always, never")
	cmd.Flags().BoolVar(&f.rollback, "rollback", false, "Destroy a partially created instance on failure")
	cmd.Flags().StringVar(&f.app, "app", "", "Application to install (docker, metabase, vault, supabase)")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Plain log output instead of the interactive view")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Enable verbose output")
}

// buildRequest assembles the request in precedence order.
func (f *createFlags) buildRequest(cmd *cobra.Command, cfg *config.Config) (provision.Request, error) {
	req := provision.DefaultRequest()
	req.Storage = cfg.DefaultStorage
	req.Bridge = cfg.DefaultBridge

	if err := config.ApplyEnv(&req); err != nil {
		return req, err
	}

	flags := cmd.Flags()
	if flags.Changed("id") {
		req.ID = f.id
	}
	if flags.Changed("hostname") {
		req.Hostname = f.hostname
	}
	if flags.Changed("cores") {
		req.Cores = f.cores
	}
	if flags.Changed("memory") {
		req.MemoryMB = f.memoryMB
	}
	if flags.Changed("swap") {
		req.SwapMB = f.swapMB
	}
	if flags.Changed("disk") {
		req.DiskSize = f.diskSize
	}
	if flags.Changed("storage") {
		req.Storage = f.storage
	}
	if flags.Changed("template") {
		req.Template = f.template
	}
	if flags.Changed("bridge") {
		req.Bridge = f.bridge
	}
	if flags.Changed("ip") {
		req.IPCIDR = f.ipCIDR
	}
	if flags.Changed("gw") {
		req.Gateway = f.gateway
	}
	if flags.Changed("password") {
		req.Password = f.password
	}
	if flags.Changed("ssh-key") {
		req.SSHPublicKey = f.sshKeyPath
	}
	if flags.Changed("tags") {
		req.Tags = f.tags
	}
	if flags.Changed("privileged") {
		req.Unprivileged = !f.privileged
	}
	if flags.Changed("nesting") {
		req.Nesting = f.nesting
	}
	if flags.Changed("rollback") {
		req.Rollback = f.rollback
	}
	if flags.Changed("reuse") {
		switch provision.ReusePolicy(f.reuse) {
		case provision.ReusePrompt, provision.ReuseAlways, provision.ReuseNever:
			req.Reuse = provision.ReusePolicy(f.reuse)
		default:
			return req, fmt.Errorf("unknown reuse policy %q (want prompt, always or never)", f.reuse)
		}
	}

	return req, nil
}

// allocateID asks the cluster for the next free instance ID. Only runs
// when --auto-id is set and no ID was given, so an omitted ID still
// fails validation instead of silently picking one.
func (f *createFlags) allocateID(ctx context.Context, req *provision.Request, storage *proxmox.StorageClient) error {
	if !f.autoID || req.ID != 0 {
		return nil
	}
	id, err := storage.NextID(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate instance ID: %w", err)
	}
	req.ID = id
	return nil
}

// installer looks up the requested application, or returns nil when no
// app was requested.
func (f *createFlags) installer() (provision.Installer, error) {
	if f.app == "" {
		return nil, nil
	}
	return apps.DefaultRegistry().Get(f.app)
}

// newCreateCmd creates the create subcommand for LXC containers
func newCreateCmd() *cobra.Command {
	f := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and start an LXC container",
		Long: `Create an LXC container via pct, start it, wait for network
readiness and optionally install an application into it.

The container template is auto-selected from the template storage pool
when --template is not given. A root password is generated and appended
to the credentials log when none is supplied.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.template, "template", "", "Template reference or partial name (auto-selected when empty)")
	cmd.Flags().BoolVar(&f.privileged, "privileged", false, "Create a privileged container")

	return cmd
}

func runCreate(cmd *cobra.Command, f *createFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req, err := f.buildRequest(cmd, cfg)
	if err != nil {
		return err
	}

	installer, err := f.installer()
	if err != nil {
		return err
	}

	client := proxmox.NewCTClient()
	storage := proxmox.NewStorageClient()
	if err := f.allocateID(cmd.Context(), &req, storage); err != nil {
		return err
	}
	seq := provision.NewSequencer(
		provision.NewCTBackend(client),
		provision.NewTemplateResolver(storage, cfg.TemplateStorage),
	)

	return runSequencer(cmd, f, cfg, seq, req, installer,
		fmt.Sprintf("Creating container %d", req.ID))
}

// runSequencer executes the pipeline with the right view and prints the
// final report.
func runSequencer(cmd *cobra.Command, f *createFlags, cfg *config.Config, seq *provision.Sequencer, req provision.Request, installer provision.Installer, title string) error {
	logger := ui.NewLogger(cmd.OutOrStdout())
	logger.SetVerbose(f.verbose)

	interactive := !f.plain && isTerminal()
	if interactive {
		seq.SetConfirm(func(id int) (bool, error) {
			return ui.Confirm(
				fmt.Sprintf("Instance %d already exists", id),
				"Reuse the existing instance instead of creating a new one?",
				"Reuse", "Abort")
		})
	}

	run := func(progress provision.ProgressCallback) (*provision.Result, error) {
		return seq.Run(cmd.Context(), req, installer, progress)
	}

	var result *provision.Result
	var err error
	if interactive {
		result, err = ui.RunWithProgress(title, run)
	} else {
		result, err = ui.RunPlain(logger, run)
	}
	if err != nil {
		return err
	}

	reportResult(logger, cfg, result)
	return nil
}

// reportResult prints the final access block and persists credentials.
func reportResult(logger *ui.Logger, cfg *config.Config, result *provision.Result) {
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d is running\n\n", result.Kind, result.ID)
	if result.Hostname != "" {
		fmt.Fprintf(&b, "Hostname:  %s\n", result.Hostname)
	}
	fmt.Fprintf(&b, "Address:   %s\n", result.Address)
	fmt.Fprintf(&b, "Username:  %s\n", result.Username)
	if result.Password != "" {
		fmt.Fprintf(&b, "Password:  %s\n", result.Password)
	} else {
		fmt.Fprintf(&b, "Password:  (unchanged)\n")
	}
	fmt.Fprintf(&b, "Elapsed:   %s", result.Duration.Round(time.Second))
	for _, note := range result.AccessNotes {
		fmt.Fprintf(&b, "\n%s", note)
	}

	fmt.Println(ui.BoxStyle.Render(b.String()))

	// A reused instance keeps its existing credentials; there is nothing
	// new to record.
	if result.Password == "" {
		return
	}
	if err := persistCredentials(cfg, result); err != nil {
		logger.Warn("failed to record credentials: %v", err)
	} else {
		logger.Info("credentials appended to %s", cfg.CredentialsLog)
	}
}

// persistCredentials appends the guest's credentials to the log file.
func persistCredentials(cfg *config.Config, result *provision.Result) error {
	log := credentials.NewLog(cfg.CredentialsLog)
	return log.Append(credentials.Entry{
		ID:       result.ID,
		Hostname: result.Hostname,
		User:     result.Username,
		Password: result.Password,
	})
}

// isTerminal reports whether stdout is a TTY.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
