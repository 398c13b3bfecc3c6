package proxmox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"running", "status: running\n", "running"},
		{"stopped", "status: stopped", "stopped"},
		{"bare word fallback", "running", "running"},
		{"multi line", "some: noise\nstatus: running\n", "running"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.output))
		})
	}
}

func TestParseKeyValue(t *testing.T) {
	output := `arch: amd64
cores: 2
hostname: metabase
memory: 2048
net0: name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1
rootfs: local-lvm:vm-100-disk-0,size=8G
unprivileged: 1
`
	kv := ParseKeyValue(output)

	assert.Equal(t, "2", kv["cores"])
	assert.Equal(t, "metabase", kv["hostname"])
	assert.Equal(t, "name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1", kv["net0"])
	assert.Equal(t, "local-lvm:vm-100-disk-0,size=8G", kv["rootfs"])
	assert.Equal(t, "1", kv["unprivileged"])
}

func TestParseInstanceList(t *testing.T) {
	output := `VMID       Status     Lock         Name
100        running                 metabase
101        stopped                 vault
`
	instances := ParseInstanceList(output)

	require.Len(t, instances, 2)
	assert.Equal(t, Instance{ID: 100, Status: "running", Name: "metabase"}, instances[0])
	assert.Equal(t, Instance{ID: 101, Status: "stopped", Name: "vault"}, instances[1])
}

func TestParseInstanceListEmpty(t *testing.T) {
	assert.Empty(t, ParseInstanceList("VMID       Status     Lock         Name\n"))
	assert.Empty(t, ParseInstanceList(""))
}

func TestParsePools(t *testing.T) {
	output := `Name        Type     Status           Total     Used     Available        %
local        dir     active        98497780  1295422      80493340   13.15%
local-lvm    lvmthin active       150929408 10565058     140364349    7.00%
broken       dir     inactive             0        0             0    0.00%
`
	pools := ParsePools(output)

	require.Len(t, pools, 3)
	assert.Equal(t, Pool{Name: "local", Type: "dir", Active: true}, pools[0])
	assert.Equal(t, Pool{Name: "local-lvm", Type: "lvmthin", Active: true}, pools[1])
	assert.False(t, pools[2].Active)
}

func TestParseTemplateList(t *testing.T) {
	output := `NAME                                                    SIZE
local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst    120.21MB
local:vztmpl/ubuntu-24.04-standard_24.04-2_amd64.tar.zst 131.48MB
`
	refs := ParseTemplateList(output)

	require.Len(t, refs, 2)
	assert.Equal(t, "local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst", refs[0])
}

func TestParseAvailable(t *testing.T) {
	output := `system          debian-12-standard_12.7-1_amd64.tar.zst
system          ubuntu-24.04-standard_24.04-2_amd64.tar.zst
`
	names := ParseAvailable(output)

	require.Len(t, names, 2)
	assert.Equal(t, "debian-12-standard_12.7-1_amd64.tar.zst", names[0])
}

func TestParseGuestExecOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "json document",
			output: `{"exitcode": 0, "out-data": "192.168.1.60 \n", "err-data": ""}`,
			want:   "192.168.1.60 \n",
		},
		{
			name:   "plain output passes through",
			output: "192.168.1.60\n",
			want:   "192.168.1.60\n",
		},
		{
			name:   "malformed json passes through",
			output: "{not json",
			want:   "{not json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGuestExecOutput(tt.output))
		})
	}
}
