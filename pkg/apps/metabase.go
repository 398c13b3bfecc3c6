package apps

import (
	"context"
	"fmt"

	"github.com/hostfolk/pveforge/pkg/provision"
	"github.com/hostfolk/pveforge/pkg/systemd"
)

// metabaseVersion is the release the installer pins.
const metabaseVersion = "0.50.26"

// Metabase installs the Metabase analytics server as a plain JVM
// service on port 3000.
type Metabase struct{}

// NewMetabase creates the metabase installer.
func NewMetabase() *Metabase { return &Metabase{} }

// Name returns "metabase".
func (m *Metabase) Name() string { return "metabase" }

// Description returns the listing line.
func (m *Metabase) Description() string {
	return "Metabase analytics server (OpenJDK + systemd unit, port 3000)"
}

// NeedsNesting is false: the JVM runs directly in the guest.
func (m *Metabase) NeedsNesting() bool { return false }

// Install downloads the Metabase jar and wires it up as a systemd
// service owned by a dedicated user.
func (m *Metabase) Install(ctx context.Context, g *provision.Guest) error {
	steps := []string{
		"export DEBIAN_FRONTEND=noninteractive && apt-get update -qq",
		"apt-get install -y -qq openjdk-17-jre-headless wget",
		"id metabase >/dev/null 2>&1 || useradd --system --home /opt/metabase --shell /usr/sbin/nologin metabase",
		"mkdir -p /opt/metabase",
		fmt.Sprintf("wget -q https://downloads.metabase.com/v%s/metabase.jar -O /opt/metabase/metabase.jar", metabaseVersion),
		"chown -R metabase:metabase /opt/metabase",
	}
	for _, step := range steps {
		if _, err := g.RunScript(ctx, step); err != nil {
			return fmt.Errorf("metabase setup step failed: %w", err)
		}
	}

	unit := systemd.Unit{
		Description: "Metabase analytics server",
		User:        "metabase",
		WorkingDir:  "/opt/metabase",
		Environment: []string{"MB_JETTY_HOST=0.0.0.0", "MB_JETTY_PORT=3000"},
		ExecStart:   "/usr/bin/java -jar /opt/metabase/metabase.jar",
		Restart:     "on-failure",
		Hardening:   true,
	}
	content, err := unit.Render()
	if err != nil {
		return fmt.Errorf("failed to render metabase unit: %w", err)
	}
	if err := g.WriteFile(ctx, "/etc/systemd/system/metabase.service", content); err != nil {
		return err
	}

	if _, err := g.RunScript(ctx, "systemctl daemon-reload && systemctl enable --now metabase"); err != nil {
		return fmt.Errorf("failed to enable metabase service: %w", err)
	}

	return nil
}

// AccessNotes returns the access URL; Metabase can take a minute to
// come up the first time.
func (m *Metabase) AccessNotes(g *provision.Guest) []string {
	host := g.Address
	if host == provision.UnknownAddress {
		host = "<container-ip>"
	}
	return []string{
		fmt.Sprintf("Metabase UI: http://%s:3000 (first start takes a minute)", host),
		fmt.Sprintf("Service status: pct exec %d -- systemctl status metabase", g.ID),
	}
}
