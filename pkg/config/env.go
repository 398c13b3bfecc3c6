package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hostfolk/pveforge/pkg/provision"
)

// EnvPrefix namespaces every environment variable pveforge reads.
const EnvPrefix = "PVEFORGE_"

// Environment variable names, without the prefix.
const (
	EnvID           = "CTID"
	EnvHostname     = "HOSTNAME"
	EnvCores        = "CORES"
	EnvMemoryMB     = "MEMORY_MB"
	EnvSwapMB       = "SWAP_MB"
	EnvDiskSize     = "DISK_SIZE"
	EnvStorage      = "STORAGE"
	EnvTemplate     = "TEMPLATE"
	EnvBridge       = "BRIDGE"
	EnvIPCIDR       = "IP_CIDR"
	EnvGateway      = "GATEWAY"
	EnvPassword     = "PASSWORD"
	EnvSSHPublicKey = "SSH_PUBKEY"
	EnvTags         = "TAGS"
	EnvUnprivileged = "UNPRIVILEGED"
	EnvNesting      = "NESTING"
	EnvReuse        = "REUSE"
	EnvRollback     = "ROLLBACK"
)

// ApplyEnv overlays PVEFORGE_* environment variables onto the request.
// Unset variables leave the current value alone; malformed values are
// errors rather than silent defaults.
func ApplyEnv(req *provision.Request) error {
	if err := envInt(EnvID, &req.ID); err != nil {
		return err
	}
	envString(EnvHostname, &req.Hostname)
	if err := envInt(EnvCores, &req.Cores); err != nil {
		return err
	}
	if err := envInt(EnvMemoryMB, &req.MemoryMB); err != nil {
		return err
	}
	if err := envInt(EnvSwapMB, &req.SwapMB); err != nil {
		return err
	}
	envString(EnvDiskSize, &req.DiskSize)
	envString(EnvStorage, &req.Storage)
	envString(EnvTemplate, &req.Template)
	envString(EnvBridge, &req.Bridge)
	envString(EnvIPCIDR, &req.IPCIDR)
	envString(EnvGateway, &req.Gateway)
	envString(EnvPassword, &req.Password)
	envString(EnvSSHPublicKey, &req.SSHPublicKey)

	if v, ok := lookup(EnvTags); ok {
		req.Tags = splitTags(v)
	}
	if err := envBool(EnvUnprivileged, &req.Unprivileged); err != nil {
		return err
	}
	if err := envBool(EnvNesting, &req.Nesting); err != nil {
		return err
	}
	if err := envBool(EnvRollback, &req.Rollback); err != nil {
		return err
	}

	if v, ok := lookup(EnvReuse); ok {
		switch provision.ReusePolicy(v) {
		case provision.ReusePrompt, provision.ReuseAlways, provision.ReuseNever:
			req.Reuse = provision.ReusePolicy(v)
		default:
			return fmt.Errorf("%s%s: unknown reuse policy %q", EnvPrefix, EnvReuse, v)
		}
	}

	return nil
}

// splitTags splits a comma- or semicolon-separated tag list.
func splitTags(v string) []string {
	var tags []string
	for _, tag := range strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: expected integer, got %q", EnvPrefix, name, v)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: expected boolean, got %q", EnvPrefix, name, v)
	}
	*dst = b
	return nil
}
