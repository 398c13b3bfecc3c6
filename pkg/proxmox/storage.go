package proxmox

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Content types used when querying storage pools. Root filesystems and
// template images may live on different pools.
const (
	ContentRootDir  = "rootdir"
	ContentTemplate = "vztmpl"
	ContentImages   = "images"
)

// StorageClient wraps pvesm, pveam and pvesh for storage and template
// operations.
type StorageClient struct {
	runner Runner
}

// NewStorageClient creates a storage client using the real executor.
func NewStorageClient() *StorageClient {
	return &StorageClient{runner: ExecRunner{}}
}

// NewStorageClientWithRunner creates a storage client with a custom runner.
func NewStorageClientWithRunner(r Runner) *StorageClient {
	return &StorageClient{runner: r}
}

// Pools lists active storage pools that can hold the given content type.
func (c *StorageClient) Pools(ctx context.Context, content string) ([]Pool, error) {
	out, err := c.runner.Run(ctx, "pvesm", "status", "--content", content)
	if err != nil {
		return nil, fmt.Errorf("pvesm status: %w", err)
	}
	return ParsePools(out), nil
}

// HasPool reports whether the named pool is active for the content type.
func (c *StorageClient) HasPool(ctx context.Context, name, content string) (bool, error) {
	pools, err := c.Pools(ctx, content)
	if err != nil {
		return false, err
	}
	for _, p := range pools {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Templates lists template images already downloaded to a storage pool.
// Each entry is a full "pool:path" reference.
func (c *StorageClient) Templates(ctx context.Context, storage string) ([]string, error) {
	out, err := c.runner.Run(ctx, "pveam", "list", storage)
	if err != nil {
		return nil, fmt.Errorf("pveam list %s: %w", storage, err)
	}
	return ParseTemplateList(out), nil
}

// Available lists template images downloadable from the Proxmox mirrors,
// restricted to the system section.
func (c *StorageClient) Available(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, "pveam", "available", "--section", "system")
	if err != nil {
		return nil, fmt.Errorf("pveam available: %w", err)
	}
	return ParseAvailable(out), nil
}

// Download fetches a template image into a storage pool.
func (c *StorageClient) Download(ctx context.Context, storage, template string) error {
	if _, err := c.runner.Run(ctx, "pveam", "download", storage, template); err != nil {
		return fmt.Errorf("pveam download %s %s: %w", storage, template, err)
	}
	return nil
}

// NextID asks the cluster for the next free instance ID.
func (c *StorageClient) NextID(ctx context.Context) (int, error) {
	out, err := c.runner.Run(ctx, "pvesh", "get", "/cluster/nextid")
	if err != nil {
		return 0, fmt.Errorf("pvesh get /cluster/nextid: %w", err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected nextid output %q: %w", strings.TrimSpace(out), err)
	}
	return id, nil
}
