// Package inventory scans the node's containers and serializes them to
// JSON and CSV snapshot files.
package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// Container is one scanned container in a snapshot.
type Container struct {
	CTID         int    `json:"ctid"`
	Hostname     string `json:"hostname"`
	IPAddress    string `json:"ip_address"` // empty string when unreachable, never null
	Status       string `json:"status"`
	MemoryMB     int    `json:"memory_mb"`
	CPUCores     int    `json:"cpu_cores"`
	Storage      string `json:"storage"`
	Tags         string `json:"tags"`
	Unprivileged bool   `json:"unprivileged"`
	LastUpdated  string `json:"last_updated"`
}

// Summary counts containers by state.
type Summary struct {
	Running int `json:"running"`
	Stopped int `json:"stopped"`
}

// Snapshot is the full inventory document. Output files are rewritten
// on every scan; nothing is merged.
type Snapshot struct {
	SnapshotID      string      `json:"snapshot_id"`
	GeneratedAt     string      `json:"generated_at"`
	GeneratedBy     string      `json:"generated_by"`
	TotalContainers int         `json:"total_containers"`
	Containers      []Container `json:"containers"`
	Summary         Summary     `json:"summary"`
}

// Scanner builds snapshots from pct list / pct config output.
type Scanner struct {
	client *proxmox.CTClient
	now    func() time.Time
}

// NewScanner creates a scanner over the given container client.
func NewScanner(client *proxmox.CTClient) *Scanner {
	return &Scanner{client: client, now: time.Now}
}

// Scan lists all containers and reads each one's configuration. Every
// listed container appears exactly once in the result; per-container
// read failures degrade that entry instead of aborting the scan.
func (s *Scanner) Scan(ctx context.Context, generatedBy string) (*Snapshot, error) {
	instances, err := s.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339)
	snap := &Snapshot{
		SnapshotID:  uuid.New().String(),
		GeneratedAt: now,
		GeneratedBy: generatedBy,
		Containers:  make([]Container, 0, len(instances)),
	}

	for _, inst := range instances {
		c := Container{
			CTID:        inst.ID,
			Hostname:    inst.Name,
			Status:      inst.Status,
			LastUpdated: now,
		}

		if cfg, err := s.client.Config(ctx, inst.ID); err == nil {
			fillFromConfig(&c, cfg)
		}

		// Static IPs come from the config; DHCP guests are asked
		// directly. Either path failing leaves the field empty.
		if c.IPAddress == "" && inst.Status == "running" {
			if out, err := s.client.Exec(ctx, inst.ID, "hostname", "-I"); err == nil {
				c.IPAddress = firstField(out)
			}
		}

		snap.Containers = append(snap.Containers, c)

		switch inst.Status {
		case "running":
			snap.Summary.Running++
		case "stopped":
			snap.Summary.Stopped++
		}
	}

	snap.TotalContainers = len(snap.Containers)
	return snap, nil
}

// fillFromConfig populates container fields from pct config key/values.
func fillFromConfig(c *Container, cfg map[string]string) {
	if v := cfg["hostname"]; v != "" {
		c.Hostname = v
	}
	if v, err := strconv.Atoi(cfg["memory"]); err == nil {
		c.MemoryMB = v
	}
	if v, err := strconv.Atoi(cfg["cores"]); err == nil {
		c.CPUCores = v
	}
	c.Tags = cfg["tags"]
	c.Unprivileged = cfg["unprivileged"] == "1"

	// rootfs: local-lvm:vm-100-disk-0,size=8G
	if rootfs := cfg["rootfs"]; rootfs != "" {
		if i := strings.Index(rootfs, ":"); i > 0 {
			c.Storage = rootfs[:i]
		}
	}

	// net0: name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1
	if net := cfg["net0"]; net != "" {
		for _, part := range strings.Split(net, ",") {
			if addr, ok := strings.CutPrefix(part, "ip="); ok && addr != "dhcp" {
				if i := strings.Index(addr, "/"); i > 0 {
					addr = addr[:i]
				}
				c.IPAddress = addr
			}
		}
	}
}

// firstField returns the first whitespace-separated token.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
