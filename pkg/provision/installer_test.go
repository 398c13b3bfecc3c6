package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestRunScriptIsSingleToken(t *testing.T) {
	backend := newFakeBackend()
	guest := &Guest{ID: 100, backend: backend}

	_, err := guest.RunScript(context.Background(), "apt-get update && apt-get install -y curl")
	require.NoError(t, err)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, "exec 100 sh -c apt-get update && apt-get install -y curl", backend.calls[0])
}

func TestGuestWriteFileUsesQuotedHeredoc(t *testing.T) {
	backend := newFakeBackend()
	guest := &Guest{ID: 100, backend: backend}

	err := guest.WriteFile(context.Background(), "/etc/vault.d/vault.hcl", "ui = true\n")
	require.NoError(t, err)

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	assert.Contains(t, call, "mkdir -p /etc/vault.d")
	assert.Contains(t, call, "cat > /etc/vault.d/vault.hcl << 'PVEFORGE_EOF'")
	assert.Contains(t, call, "ui = true")
	assert.Contains(t, call, "\nPVEFORGE_EOF")
}

func TestDirOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/etc/vault.d/vault.hcl", "/etc/vault.d"},
		{"/etc/hostname", "/etc"},
		{"/hostname", "/"},
		{"hostname", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dirOf(tt.path), "dirOf(%q)", tt.path)
	}
}
