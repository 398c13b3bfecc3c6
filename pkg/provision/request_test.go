package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRequest(t *testing.T) {
	req := DefaultRequest()

	assert.Equal(t, 2, req.Cores)
	assert.Equal(t, 2048, req.MemoryMB)
	assert.Equal(t, 512, req.SwapMB)
	assert.Equal(t, "8G", req.DiskSize)
	assert.Equal(t, "local-lvm", req.Storage)
	assert.Equal(t, "vmbr0", req.Bridge)
	assert.True(t, req.Unprivileged)
	assert.Equal(t, ReusePrompt, req.Reuse)
	assert.Empty(t, req.IPCIDR, "default networking is DHCP")
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{
			name:   "defaults with ID are valid",
			mutate: func(r *Request) { r.ID = 100 },
		},
		{
			name:    "missing ID",
			mutate:  func(r *Request) {},
			wantErr: "instance ID is required",
		},
		{
			name:    "negative ID",
			mutate:  func(r *Request) { r.ID = -5 },
			wantErr: "instance ID is required",
		},
		{
			name: "zero cores",
			mutate: func(r *Request) {
				r.ID = 100
				r.Cores = 0
			},
			wantErr: "cores must be positive",
		},
		{
			name: "zero memory",
			mutate: func(r *Request) {
				r.ID = 100
				r.MemoryMB = 0
			},
			wantErr: "memory must be positive",
		},
		{
			name: "negative swap",
			mutate: func(r *Request) {
				r.ID = 100
				r.SwapMB = -1
			},
			wantErr: "swap must not be negative",
		},
		{
			name: "garbage disk size",
			mutate: func(r *Request) {
				r.ID = 100
				r.DiskSize = "huge"
			},
			wantErr: "invalid disk size",
		},
		{
			name: "gateway without static IP",
			mutate: func(r *Request) {
				r.ID = 100
				r.Gateway = "192.168.1.1"
			},
			wantErr: "gateway 192.168.1.1 given without a static IP",
		},
		{
			name: "static IP without gateway is accepted",
			mutate: func(r *Request) {
				r.ID = 100
				r.IPCIDR = "192.168.1.50/24"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRequestValidateMissingIDIsSentinel(t *testing.T) {
	req := DefaultRequest()
	err := req.Validate()
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestStaticWithoutGateway(t *testing.T) {
	req := DefaultRequest()
	assert.False(t, req.StaticWithoutGateway())

	req.IPCIDR = "10.0.0.5/24"
	assert.True(t, req.StaticWithoutGateway())

	req.Gateway = "10.0.0.1"
	assert.False(t, req.StaticWithoutGateway())
}

func TestNetSpec(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		gateway string
		want    string
	}{
		{
			name: "dhcp",
			want: "name=eth0,bridge=vmbr0,ip=dhcp",
		},
		{
			name:    "static with gateway",
			ip:      "192.168.1.50/24",
			gateway: "192.168.1.1",
			want:    "name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1",
		},
		{
			name: "static without gateway omits gw fragment",
			ip:   "192.168.1.50/24",
			want: "name=eth0,bridge=vmbr0,ip=192.168.1.50/24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			req.IPCIDR = tt.ip
			req.Gateway = tt.gateway

			assert.Equal(t, tt.want, req.NetSpec())
		})
	}
}

func TestNetSpecCustomBridge(t *testing.T) {
	req := DefaultRequest()
	req.Bridge = "vmbr1"

	assert.Equal(t, "name=eth0,bridge=vmbr1,ip=dhcp", req.NetSpec())
}

func TestRootFS(t *testing.T) {
	req := DefaultRequest()
	req.DiskSize = "32G"

	assert.Equal(t, "local-lvm:32", req.RootFS(), "rootfs takes the bare number")

	req.Storage = "tank"
	req.DiskSize = "8G"
	assert.Equal(t, "tank:8", req.RootFS())
}

func TestTagString(t *testing.T) {
	req := DefaultRequest()
	assert.Equal(t, "", req.TagString())

	req.Tags = []string{"metabase", "prod"}
	assert.Equal(t, "metabase;prod", req.TagString())
}

func TestSizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"32G", "32"},
		{"8G", "8"},
		{"120", "120"},
		{"1T", "1"},
		{"G", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SizeNumber(tt.in), "SizeNumber(%q)", tt.in)
	}
}
