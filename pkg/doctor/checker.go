package doctor

import (
	"context"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// Checker runs the preflight checks.
type Checker struct {
	runner      proxmox.Runner
	storage     *proxmox.StorageClient
	rootStorage string
	tmplStorage string
}

// NewChecker creates a Checker using the real executor.
func NewChecker(rootStorage, tmplStorage string) *Checker {
	runner := proxmox.ExecRunner{}
	return &Checker{
		runner:      runner,
		storage:     proxmox.NewStorageClientWithRunner(runner),
		rootStorage: rootStorage,
		tmplStorage: tmplStorage,
	}
}

// NewCheckerWithRunner creates a Checker with a custom runner (for testing).
func NewCheckerWithRunner(r proxmox.Runner, rootStorage, tmplStorage string) *Checker {
	return &Checker{
		runner:      r,
		storage:     proxmox.NewStorageClientWithRunner(r),
		rootStorage: rootStorage,
		tmplStorage: tmplStorage,
	}
}

// CheckAll runs every applicable check in order.
func (c *Checker) CheckAll(ctx context.Context) []Check {
	var checks []Check

	toolsOK := true
	for _, tc := range toolChecks {
		check := checkTool(ctx, c.runner, tc.id, tc.name, tc.desc, tc.versionArgs)
		if check.Status == StatusMissing {
			toolsOK = false
		}
		checks = append(checks, check)
	}

	// Storage checks need pvesm; skip them on a machine without it.
	if toolsOK {
		checks = append(checks,
			checkStoragePool(ctx, c.storage, IDRootStorage, c.rootStorage, proxmox.ContentRootDir),
			checkStoragePool(ctx, c.storage, IDTmplStorage, c.tmplStorage, proxmox.ContentTemplate),
		)
	}

	return checks
}

// HasFailures reports whether any check is missing or errored.
func HasFailures(checks []Check) bool {
	for _, check := range checks {
		if check.Status == StatusMissing || check.Status == StatusError {
			return true
		}
	}
	return false
}
