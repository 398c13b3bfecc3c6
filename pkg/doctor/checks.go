package doctor

import (
	"context"
	"strings"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// toolChecks describes the Proxmox binaries pveforge shells out to.
var toolChecks = []struct {
	id, name, desc string
	versionArgs    []string
}{
	{IDPct, "pct", "LXC container management", []string{"version"}},
	{IDQm, "qm", "QEMU VM management", []string{"version"}},
	{IDPvesm, "pvesm", "storage pool management", []string{"apiinfo"}},
	{IDPveam, "pveam", "template image management", []string{"help"}},
	{IDPvesh, "pvesh", "cluster API access", []string{"get", "/version"}},
}

// checkTool verifies a binary is on PATH and answers a trivial query.
func checkTool(ctx context.Context, runner proxmox.Runner, id, name, desc string, args []string) Check {
	check := Check{ID: id, Name: name, Description: desc}

	path, err := runner.LookPath(name)
	if err != nil {
		check.Status = StatusMissing
		check.Message = name + " is not installed; is this a Proxmox VE node?"
		return check
	}

	out, err := runner.Run(ctx, name, args...)
	if err != nil {
		check.Status = StatusWarning
		check.Message = name + " is installed but not answering: " + err.Error()
		return check
	}

	check.Status = StatusOK
	check.Message = path
	if line := firstLine(out); line != "" {
		check.Message = line
	}
	return check
}

// checkStoragePool verifies a pool is active for a content type.
func checkStoragePool(ctx context.Context, storage *proxmox.StorageClient, id, pool, content string) Check {
	check := Check{
		ID:          id,
		Name:        pool,
		Description: "storage pool for " + content + " content",
	}

	ok, err := storage.HasPool(ctx, pool, content)
	if err != nil {
		check.Status = StatusError
		check.Message = err.Error()
		return check
	}
	if !ok {
		check.Status = StatusMissing
		check.Message = "pool " + pool + " is not active for content type " + content
		return check
	}

	check.Status = StatusOK
	check.Message = "pool " + pool + " is active"
	return check
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
