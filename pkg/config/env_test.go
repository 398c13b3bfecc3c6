package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolk/pveforge/pkg/provision"
)

func TestApplyEnvOverlaysValues(t *testing.T) {
	t.Setenv("PVEFORGE_CTID", "205")
	t.Setenv("PVEFORGE_HOSTNAME", "vault")
	t.Setenv("PVEFORGE_CORES", "4")
	t.Setenv("PVEFORGE_MEMORY_MB", "4096")
	t.Setenv("PVEFORGE_DISK_SIZE", "32G")
	t.Setenv("PVEFORGE_IP_CIDR", "192.168.1.50/24")
	t.Setenv("PVEFORGE_GATEWAY", "192.168.1.1")
	t.Setenv("PVEFORGE_NESTING", "true")
	t.Setenv("PVEFORGE_REUSE", "always")
	t.Setenv("PVEFORGE_TAGS", "vault, prod;infra")

	req := provision.DefaultRequest()
	require.NoError(t, ApplyEnv(&req))

	assert.Equal(t, 205, req.ID)
	assert.Equal(t, "vault", req.Hostname)
	assert.Equal(t, 4, req.Cores)
	assert.Equal(t, 4096, req.MemoryMB)
	assert.Equal(t, "32G", req.DiskSize)
	assert.Equal(t, "192.168.1.50/24", req.IPCIDR)
	assert.Equal(t, "192.168.1.1", req.Gateway)
	assert.True(t, req.Nesting)
	assert.Equal(t, provision.ReuseAlways, req.Reuse)
	assert.Equal(t, []string{"vault", "prod", "infra"}, req.Tags)
}

func TestApplyEnvLeavesUnsetAlone(t *testing.T) {
	req := provision.DefaultRequest()
	req.ID = 100
	req.Hostname = "keepme"

	require.NoError(t, ApplyEnv(&req))

	assert.Equal(t, 100, req.ID)
	assert.Equal(t, "keepme", req.Hostname)
	assert.Equal(t, 2, req.Cores)
}

func TestApplyEnvRejectsMalformedInt(t *testing.T) {
	t.Setenv("PVEFORGE_CORES", "many")

	req := provision.DefaultRequest()
	err := ApplyEnv(&req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PVEFORGE_CORES")
}

func TestApplyEnvRejectsMalformedBool(t *testing.T) {
	t.Setenv("PVEFORGE_NESTING", "yep")

	req := provision.DefaultRequest()
	err := ApplyEnv(&req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PVEFORGE_NESTING")
}

func TestApplyEnvRejectsUnknownReusePolicy(t *testing.T) {
	t.Setenv("PVEFORGE_REUSE", "maybe")

	req := provision.DefaultRequest()
	err := ApplyEnv(&req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown reuse policy")
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{"a;b", []string{"a", "b"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitTags(tt.in), "splitTags(%q)", tt.in)
	}
}
