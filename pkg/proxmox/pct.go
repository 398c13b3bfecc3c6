package proxmox

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CTClient provides access to LXC containers via pct.
type CTClient struct {
	runner Runner
}

// NewCTClient creates a pct client using the real executor.
func NewCTClient() *CTClient {
	return &CTClient{runner: ExecRunner{}}
}

// NewCTClientWithRunner creates a pct client with a custom runner (for testing).
func NewCTClientWithRunner(r Runner) *CTClient {
	return &CTClient{runner: r}
}

// Exists reports whether a container with the given ID is known to the
// hypervisor, running or not.
func (c *CTClient) Exists(ctx context.Context, id int) (bool, error) {
	_, err := c.runner.Run(ctx, "pct", "status", strconv.Itoa(id))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("pct status %d: %w", id, err)
	}
	return true, nil
}

// Status returns the container status string ("running", "stopped").
func (c *CTClient) Status(ctx context.Context, id int) (string, error) {
	out, err := c.runner.Run(ctx, "pct", "status", strconv.Itoa(id))
	if err != nil {
		return "", fmt.Errorf("pct status %d: %w", id, err)
	}
	return ParseStatus(out), nil
}

// Create issues the single creation call. The template reference and the
// option list are passed through verbatim; building the list is the
// sequencer's job.
func (c *CTClient) Create(ctx context.Context, id int, template string, options []string) error {
	args := append([]string{"create", strconv.Itoa(id), template}, options...)
	if _, err := c.runner.Run(ctx, "pct", args...); err != nil {
		return fmt.Errorf("pct create %d: %w", id, err)
	}
	return nil
}

// Start starts a container.
func (c *CTClient) Start(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "pct", "start", strconv.Itoa(id)); err != nil {
		return fmt.Errorf("pct start %d: %w", id, err)
	}
	return nil
}

// Stop stops a container immediately.
func (c *CTClient) Stop(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "pct", "stop", strconv.Itoa(id)); err != nil {
		return fmt.Errorf("pct stop %d: %w", id, err)
	}
	return nil
}

// Destroy removes a container and its volumes.
func (c *CTClient) Destroy(ctx context.Context, id int) error {
	if _, err := c.runner.Run(ctx, "pct", "destroy", strconv.Itoa(id), "--purge"); err != nil {
		return fmt.Errorf("pct destroy %d: %w", id, err)
	}
	return nil
}

// Exec runs a command inside the container and returns its output.
func (c *CTClient) Exec(ctx context.Context, id int, command ...string) (string, error) {
	args := append([]string{"exec", strconv.Itoa(id), "--"}, command...)
	out, err := c.runner.Run(ctx, "pct", args...)
	if err != nil {
		return out, fmt.Errorf("pct exec %d: %w", id, err)
	}
	return out, nil
}

// Config returns the container configuration as key/value pairs.
func (c *CTClient) Config(ctx context.Context, id int) (map[string]string, error) {
	out, err := c.runner.Run(ctx, "pct", "config", strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("pct config %d: %w", id, err)
	}
	return ParseKeyValue(out), nil
}

// List returns all containers on the node.
func (c *CTClient) List(ctx context.Context) ([]Instance, error) {
	out, err := c.runner.Run(ctx, "pct", "list")
	if err != nil {
		return nil, fmt.Errorf("pct list: %w", err)
	}
	return ParseInstanceList(out), nil
}

// isNotFound recognizes the pct/qm error for an unknown instance ID.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such") ||
		strings.Contains(msg, "not found")
}
