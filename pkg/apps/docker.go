package apps

import (
	"context"
	"fmt"

	"github.com/hostfolk/pveforge/pkg/provision"
)

// Docker installs Docker Engine and the compose plugin inside the
// guest. Running a container runtime inside an LXC guest requires
// nesting, which the upstream vendor recommends against in favor of a
// full VM; the sequencer makes that an explicit opt-in rather than a
// silent default.
type Docker struct{}

// NewDocker creates the docker installer.
func NewDocker() *Docker { return &Docker{} }

// Name returns "docker".
func (d *Docker) Name() string { return "docker" }

// Description returns the listing line.
func (d *Docker) Description() string {
	return "Docker Engine with the compose plugin, for generic container workloads"
}

// NeedsNesting is true: dockerd is itself a container runtime.
func (d *Docker) NeedsNesting() bool { return true }

// Install sets up the Docker apt repository and installs the engine.
func (d *Docker) Install(ctx context.Context, g *provision.Guest) error {
	steps := []string{
		"export DEBIAN_FRONTEND=noninteractive && apt-get update -qq",
		"apt-get install -y -qq ca-certificates curl gnupg",
		"install -m 0755 -d /etc/apt/keyrings",
		"curl -fsSL https://download.docker.com/linux/debian/gpg -o /etc/apt/keyrings/docker.asc",
		`echo "deb [signed-by=/etc/apt/keyrings/docker.asc] https://download.docker.com/linux/debian $(. /etc/os-release && echo $VERSION_CODENAME) stable" > /etc/apt/sources.list.d/docker.list`,
		"apt-get update -qq",
		"apt-get install -y -qq docker-ce docker-ce-cli containerd.io docker-compose-plugin",
		"systemctl enable --now docker",
	}

	for _, step := range steps {
		if _, err := g.RunScript(ctx, step); err != nil {
			return fmt.Errorf("docker setup step failed: %w", err)
		}
	}

	return nil
}

// AccessNotes returns operator hints.
func (d *Docker) AccessNotes(g *provision.Guest) []string {
	return []string{
		fmt.Sprintf("Run workloads with: pct exec %d -- docker run ...", g.ID),
		fmt.Sprintf("Compose projects: pct exec %d -- docker compose up -d", g.ID),
	}
}
