package apps

import (
	"context"
	"fmt"

	"github.com/hostfolk/pveforge/pkg/provision"
	"github.com/hostfolk/pveforge/pkg/systemd"
)

// vaultConfig is the file storage server configuration written into the
// guest. TLS stays off; the UI and API listen on 8200.
const vaultConfig = `ui = true

storage "file" {
  path = "/opt/vault/data"
}

listener "tcp" {
  address     = "0.0.0.0:8200"
  tls_disable = 1
}
`

// Vault installs HashiCorp Vault from the vendor apt repository with a
// hardened systemd unit.
type Vault struct{}

// NewVault creates the vault installer.
func NewVault() *Vault { return &Vault{} }

// Name returns "vault".
func (v *Vault) Name() string { return "vault" }

// Description returns the listing line.
func (v *Vault) Description() string {
	return "HashiCorp Vault secrets manager (file storage backend, port 8200)"
}

// NeedsNesting is false.
func (v *Vault) NeedsNesting() bool { return false }

// Install adds the HashiCorp repository, installs the package, writes
// the server configuration, and starts the service.
func (v *Vault) Install(ctx context.Context, g *provision.Guest) error {
	steps := []string{
		"export DEBIAN_FRONTEND=noninteractive && apt-get update -qq",
		"apt-get install -y -qq gpg wget",
		"wget -qO- https://apt.releases.hashicorp.com/gpg | gpg --dearmor > /usr/share/keyrings/hashicorp-archive-keyring.gpg",
		`echo "deb [signed-by=/usr/share/keyrings/hashicorp-archive-keyring.gpg] https://apt.releases.hashicorp.com $(. /etc/os-release && echo $VERSION_CODENAME) main" > /etc/apt/sources.list.d/hashicorp.list`,
		"apt-get update -qq",
		"apt-get install -y -qq vault",
		"mkdir -p /opt/vault/data && chown -R vault:vault /opt/vault",
	}
	for _, step := range steps {
		if _, err := g.RunScript(ctx, step); err != nil {
			return fmt.Errorf("vault setup step failed: %w", err)
		}
	}

	if err := g.WriteFile(ctx, "/etc/vault.d/vault.hcl", vaultConfig); err != nil {
		return err
	}

	unit := systemd.Unit{
		Description: "HashiCorp Vault secrets manager",
		User:        "vault",
		Environment: []string{"VAULT_ADDR=http://127.0.0.1:8200"},
		ExecStart:   "/usr/bin/vault server -config=/etc/vault.d/vault.hcl",
		Restart:     "on-failure",
		Hardening:   true,
	}
	content, err := unit.Render()
	if err != nil {
		return fmt.Errorf("failed to render vault unit: %w", err)
	}
	if err := g.WriteFile(ctx, "/etc/systemd/system/vault.service", content); err != nil {
		return err
	}

	if _, err := g.RunScript(ctx, "systemctl daemon-reload && systemctl enable --now vault"); err != nil {
		return fmt.Errorf("failed to enable vault service: %w", err)
	}

	return nil
}

// AccessNotes returns the access URL and the initialization reminder.
func (v *Vault) AccessNotes(g *provision.Guest) []string {
	host := g.Address
	if host == provision.UnknownAddress {
		host = "<container-ip>"
	}
	return []string{
		fmt.Sprintf("Vault UI: http://%s:8200", host),
		fmt.Sprintf("Initialize with: pct exec %d -- vault operator init", g.ID),
		"Vault starts sealed; store the unseal keys somewhere safe",
	}
}
