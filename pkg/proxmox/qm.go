package proxmox

import (
	"context"
	"fmt"
	"strconv"
)

// VMClient provides access to QEMU virtual machines via qm.
type VMClient struct {
	runner Runner
}

// NewVMClient creates a qm client using the real executor.
func NewVMClient() *VMClient {
	return &VMClient{runner: ExecRunner{}}
}

// NewVMClientWithRunner creates a qm client with a custom runner (for testing).
func NewVMClientWithRunner(r Runner) *VMClient {
	return &VMClient{runner: r}
}

// Exists reports whether a VM with the given ID is known to the hypervisor.
func (c *VMClient) Exists(ctx context.Context, id int) (bool, error) {
	_, err := c.runner.Run(ctx, "qm", "status", strconv.Itoa(id))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("qm status %d: %w", id, err)
	}
	return true, nil
}

// Status returns the VM status string ("running", "stopped").
func (c *VMClient) Status(ctx context.Context, id int) (string, error) {
	out, err := c.runner.Run(ctx, "qm", "status", strconv.Itoa(id))
	if err != nil {
		return "", fmt.Errorf("qm status %d: %w", id, err)
	}
	return ParseStatus(out), nil
}

// Create issues the single creation call with the assembled option list.
func (c *VMClient) Create(ctx context.Context, id int, options []string) error {
	args := append([]string{"create", strconv.Itoa(id)}, options...)
	if _, err := c.runner.Run(ctx, "qm", args...); err != nil {
		return fmt.Errorf("qm create %d: %w", id, err)
	}
	return nil
}

// ResizeDisk grows a VM disk. Size keeps its unit suffix ("32G"); qm
// wants the unit, unlike the pct rootfs spec.
func (c *VMClient) ResizeDisk(ctx context.Context, id int, disk, size string) error {
	if _, err := c.runner.Run(ctx, "qm", "resize", strconv.Itoa(id), disk, size); err != nil {
		return fmt.Errorf("qm resize %d %s: %w", id, disk, err)
	}
	return nil
}

// Start starts a VM.
func (c *VMClient) Start(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "qm", "start", strconv.Itoa(id)); err != nil {
		return fmt.Errorf("qm start %d: %w", id, err)
	}
	return nil
}

// Stop stops a VM immediately.
func (c *VMClient) Stop(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "qm", "stop", strconv.Itoa(id)); err != nil {
		return fmt.Errorf("qm stop %d: %w", id, err)
	}
	return nil
}

// Destroy removes a VM and its disks.
func (c *VMClient) Destroy(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "qm", "destroy", strconv.Itoa(id), "--purge"); err != nil {
		return fmt.Errorf("qm destroy %d: %w", id, err)
	}
	return nil
}

// Exec runs a command inside the guest through the QEMU guest agent.
// The agent must be installed and running in the guest.
func (c *VMClient) Exec(ctx context.Context, id int, command ...string) (string, error) {
	args := append([]string{"guest", "exec", strconv.Itoa(id), "--"}, command...)
	out, err := c.runner.Run(ctx, "qm", args...)
	if err != nil {
		return out, fmt.Errorf("qm guest exec %d: %w", id, err)
	}
	return ParseGuestExecOutput(out), nil
}

// Config returns the VM configuration as key/value pairs.
func (c *VMClient) Config(ctx context.Context, id int) (map[string]string, error) {
	out, err := c.runner.Run(ctx, "qm", "config", strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("qm config %d: %w", id, err)
	}
	return ParseKeyValue(out), nil
}

// List returns all VMs on the node.
func (c *VMClient) List(ctx context.Context) ([]Instance, error) {
	out, err := c.runner.Run(ctx, "qm", "list")
	if err != nil {
		return nil, fmt.Errorf("qm list: %w", err)
	}
	return ParseInstanceList(out), nil
}
