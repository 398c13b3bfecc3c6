// Package provision turns a provisioning request into a running,
// network-reachable Proxmox instance and hands off to an application
// installer.
package provision

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the kind of instance being provisioned.
type Kind string

const (
	KindContainer Kind = "container"
	KindVM        Kind = "vm"
)

// ReusePolicy controls what happens when the requested instance ID
// already exists on the hypervisor.
type ReusePolicy string

const (
	// ReusePrompt asks the operator interactively.
	ReusePrompt ReusePolicy = "prompt"
	// ReuseAlways skips creation and reuses the existing instance.
	ReuseAlways ReusePolicy = "always"
	// ReuseNever aborts when the ID is taken.
	ReuseNever ReusePolicy = "never"
)

// ErrMissingID is returned when no instance ID was supplied.
var ErrMissingID = errors.New("instance ID is required")

// Request is the full configuration for one container or VM.
// It is constructed once, validated once, and consumed exactly once
// by the creation call.
type Request struct {
	ID       int
	Hostname string

	// Resource shape
	Cores    int
	MemoryMB int
	SwapMB   int
	DiskSize string // quantity with unit suffix, e.g. "8G"

	// Placement
	Storage  string // storage pool for the root filesystem
	Template string // "pool:path" template reference, empty to auto-select

	// Network; empty IPCIDR and Gateway mean DHCP
	Bridge  string
	IPCIDR  string // e.g. "192.168.1.50/24"
	Gateway string

	// Security
	Password     string // generated when empty
	SSHPublicKey string // path to or content of an authorized key

	// Metadata
	Tags         []string
	Unprivileged bool
	Nesting      bool

	// Behavior
	Reuse    ReusePolicy
	Rollback bool // destroy a partially created instance on failure
}

// DefaultRequest returns a Request with the fixed defaults applied:
// 2 cores, 2048 MB RAM, 512 MB swap, 8G disk, DHCP networking on vmbr0,
// unprivileged isolation, prompt-on-reuse.
func DefaultRequest() Request {
	return Request{
		Cores:        2,
		MemoryMB:     2048,
		SwapMB:       512,
		DiskSize:     "8G",
		Storage:      "local-lvm",
		Bridge:       "vmbr0",
		Unprivileged: true,
		Reuse:        ReusePrompt,
	}
}

// Validate checks the request before any hypervisor command is issued.
// A static IP without a gateway is deliberately not an error; the
// sequencer surfaces it as a warning because routing is merely undefined,
// not broken.
func (r *Request) Validate() error {
	if r.ID <= 0 {
		return ErrMissingID
	}
	if r.Cores <= 0 {
		return fmt.Errorf("cores must be positive, got %d", r.Cores)
	}
	if r.MemoryMB <= 0 {
		return fmt.Errorf("memory must be positive, got %d MB", r.MemoryMB)
	}
	if r.SwapMB < 0 {
		return fmt.Errorf("swap must not be negative, got %d MB", r.SwapMB)
	}
	if r.DiskSize != "" && SizeNumber(r.DiskSize) == "" {
		return fmt.Errorf("invalid disk size %q", r.DiskSize)
	}
	if r.Gateway != "" && r.IPCIDR == "" {
		return fmt.Errorf("gateway %s given without a static IP", r.Gateway)
	}
	return nil
}

// StaticWithoutGateway reports whether a static IP was supplied without
// a gateway.
func (r *Request) StaticWithoutGateway() bool {
	return r.IPCIDR != "" && r.Gateway == ""
}

// NetSpec builds the net0 option value. With a static IP it is
// "name=eth0,bridge=<BRIDGE>,ip=<IP>,gw=<GATEWAY>" (gw omitted when not
// set); without one it falls back to DHCP with no ip=/gw= fragments.
func (r *Request) NetSpec() string {
	parts := []string{"name=eth0", "bridge=" + r.Bridge}
	if r.IPCIDR != "" {
		parts = append(parts, "ip="+r.IPCIDR)
		if r.Gateway != "" {
			parts = append(parts, "gw="+r.Gateway)
		}
	} else {
		parts = append(parts, "ip=dhcp")
	}
	return strings.Join(parts, ",")
}

// RootFS builds the rootfs option value "pool:size" where size is the
// bare number of gigabytes. pct wants "local-lvm:8", not "local-lvm:8G".
func (r *Request) RootFS() string {
	return r.Storage + ":" + SizeNumber(r.DiskSize)
}

// TagString joins the tags into the semicolon-separated form the
// hypervisor expects.
func (r *Request) TagString() string {
	return strings.Join(r.Tags, ";")
}

// SizeNumber strips the unit suffix from a size like "32G" and returns
// the numeric part ("32"). Consumers that want the unit keep the
// original string; the two forms must never be conflated. Returns ""
// when the input has no leading digits.
func SizeNumber(size string) string {
	i := 0
	for i < len(size) && size[i] >= '0' && size[i] <= '9' {
		i++
	}
	return size[:i]
}
