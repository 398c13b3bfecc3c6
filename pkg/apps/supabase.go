package apps

import (
	"context"
	"fmt"

	"github.com/hostfolk/pveforge/pkg/credentials"
	"github.com/hostfolk/pveforge/pkg/provision"
)

// Supabase installs the self-hosted Supabase stack as a Docker compose
// project. It depends on the docker installer's engine setup and
// therefore needs nesting like docker does.
type Supabase struct {
	docker *Docker
}

// NewSupabase creates the supabase installer.
func NewSupabase() *Supabase {
	return &Supabase{docker: NewDocker()}
}

// Name returns "supabase".
func (s *Supabase) Name() string { return "supabase" }

// Description returns the listing line.
func (s *Supabase) Description() string {
	return "Self-hosted Supabase stack via Docker compose (API 8000, Postgres 5432)"
}

// NeedsNesting is true: the stack runs under dockerd.
func (s *Supabase) NeedsNesting() bool { return true }

// Install installs Docker first, then checks out the upstream compose
// project with generated secrets and brings it up.
func (s *Supabase) Install(ctx context.Context, g *provision.Guest) error {
	if err := s.docker.Install(ctx, g); err != nil {
		return err
	}

	pgPassword, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		return fmt.Errorf("failed to generate postgres password: %w", err)
	}
	jwtSecret, err := credentials.GeneratePassword(40)
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	dashboardPassword, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard password: %w", err)
	}

	steps := []string{
		"apt-get install -y -qq git",
		"test -d /opt/supabase || git clone --depth 1 https://github.com/supabase/supabase /opt/supabase",
		"cp /opt/supabase/docker/.env.example /opt/supabase/docker/.env",
	}
	for _, step := range steps {
		if _, err := g.RunScript(ctx, step); err != nil {
			return fmt.Errorf("supabase setup step failed: %w", err)
		}
	}

	// Swap the example secrets for generated ones. sed runs inside the
	// guest; the values are alphanumeric so no escaping is needed.
	for key, value := range map[string]string{
		"POSTGRES_PASSWORD":  pgPassword,
		"JWT_SECRET":         jwtSecret,
		"DASHBOARD_PASSWORD": dashboardPassword,
	} {
		script := fmt.Sprintf("sed -i 's|^%s=.*|%s=%s|' /opt/supabase/docker/.env", key, key, value)
		if _, err := g.RunScript(ctx, script); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	if _, err := g.RunScript(ctx,
		"cd /opt/supabase/docker && docker compose pull -q && docker compose up -d"); err != nil {
		return fmt.Errorf("failed to start supabase stack: %w", err)
	}

	return nil
}

// AccessNotes returns the stack endpoints and where the secrets live.
func (s *Supabase) AccessNotes(g *provision.Guest) []string {
	host := g.Address
	if host == provision.UnknownAddress {
		host = "<container-ip>"
	}
	return []string{
		fmt.Sprintf("Supabase Studio/API: http://%s:8000", host),
		fmt.Sprintf("Postgres: %s:5432 (user postgres)", host),
		"Generated secrets are in /opt/supabase/docker/.env inside the guest",
	}
}
