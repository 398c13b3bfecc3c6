package provision

import (
	"context"
	"fmt"
	"strings"
)

// Guest is a handle to a running instance, passed to installers after
// the sequencer has brought the instance up.
type Guest struct {
	ID       int
	Hostname string
	Address  string // UnknownAddress when discovery timed out

	backend Backend
}

// Exec runs a command inside the guest and returns its output.
func (g *Guest) Exec(ctx context.Context, command ...string) (string, error) {
	return g.backend.Exec(ctx, g.ID, command...)
}

// RunScript runs a shell script inside the guest. The script travels as
// a single argv token; nothing on the host re-parses it.
func (g *Guest) RunScript(ctx context.Context, script string) (string, error) {
	return g.Exec(ctx, "sh", "-c", script)
}

// WriteFile writes content to a file inside the guest via a quoted
// heredoc, so the content is taken literally.
func (g *Guest) WriteFile(ctx context.Context, path, content string) error {
	script := fmt.Sprintf("mkdir -p %s && cat > %s << 'PVEFORGE_EOF'\n%s\nPVEFORGE_EOF",
		dirOf(path), path, strings.TrimRight(content, "\n"))
	if _, err := g.RunScript(ctx, script); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func dirOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

// Installer is the application-specific post-provisioning step. Callers
// register one explicitly; there is no implicit hook discovery.
type Installer interface {
	// Name returns the registry key, e.g. "metabase".
	Name() string

	// Description returns a one-line summary for listings.
	Description() string

	// NeedsNesting reports whether the installer runs a nested
	// container runtime inside the guest. The sequencer rejects the
	// request up front when the flag is missing, before anything is
	// created.
	NeedsNesting() bool

	// Install configures the application inside the running guest.
	Install(ctx context.Context, g *Guest) error

	// AccessNotes returns operator-facing lines for the final report:
	// URLs, ports, management hints.
	AccessNotes(g *Guest) []string
}
