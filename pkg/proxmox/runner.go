// Package proxmox wraps the Proxmox VE command line tools (pct, qm,
// pvesm, pveam, pvesh) behind typed clients. Every invocation passes an
// ordered argument list to the process, never a shell string.
package proxmox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes hypervisor CLI commands. It exists so clients can be
// tested without a Proxmox host.
type Runner interface {
	// Run executes name with args and returns stdout. On a non-zero
	// exit the returned error includes trimmed stderr.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports where an executable lives, or an error when it
	// is not installed.
	LookPath(file string) (string, error)
}

// ExecRunner is the default Runner backed by os/exec.
type ExecRunner struct{}

// Run executes the command and captures stdout. Stderr is folded into
// the error so callers get the hypervisor's own message.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.String(), fmt.Errorf("%s %s failed: %s", name, strings.Join(args, " "), msg)
		}
		return stdout.String(), fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// LookPath finds the path to an executable.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
