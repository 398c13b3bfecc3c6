package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// ErrNoTemplate is returned when no usable template image exists.
var ErrNoTemplate = errors.New("no usable template image found")

// TemplateResolver resolves container template references against the
// images a storage pool actually holds.
type TemplateResolver struct {
	storage         *proxmox.StorageClient
	templateStorage string // pool holding vztmpl content, e.g. "local"
}

// NewTemplateResolver creates a resolver reading from templateStorage.
func NewTemplateResolver(storage *proxmox.StorageClient, templateStorage string) *TemplateResolver {
	if templateStorage == "" {
		templateStorage = "local"
	}
	return &TemplateResolver{storage: storage, templateStorage: templateStorage}
}

// Resolve verifies the requested template exists, or auto-selects the
// first match when the request names a partial template or none at all.
func (r *TemplateResolver) Resolve(ctx context.Context, req *Request) (string, error) {
	refs, err := r.storage.Templates(ctx, r.templateStorage)
	if err != nil {
		return "", fmt.Errorf("failed to list templates: %w", err)
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%w in storage %q; download one with: pveam download %s <template>",
			ErrNoTemplate, r.templateStorage, r.templateStorage)
	}

	want := req.Template

	// Full "pool:path" reference: must exist verbatim.
	if strings.Contains(want, ":") {
		for _, ref := range refs {
			if ref == want {
				return ref, nil
			}
		}
		return "", fmt.Errorf("%w: %q not present in storage %q", ErrNoTemplate, want, r.templateStorage)
	}

	// Partial name: first match wins.
	if want != "" {
		for _, ref := range refs {
			if strings.Contains(ref, want) {
				return ref, nil
			}
		}
		return "", fmt.Errorf("%w matching %q in storage %q", ErrNoTemplate, want, r.templateStorage)
	}

	// Nothing requested: auto-select the first available image.
	return refs[0], nil
}

// ImageFileResolver resolves VM cloud images, which are plain files the
// storage backend must be able to read before creation is attempted.
type ImageFileResolver struct{}

// Resolve checks the image file exists.
func (ImageFileResolver) Resolve(_ context.Context, req *Request) (string, error) {
	if req.Template == "" {
		return "", fmt.Errorf("%w: a cloud image path is required for VMs", ErrNoTemplate)
	}
	if _, err := os.Stat(req.Template); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: image %s does not exist", ErrNoTemplate, req.Template)
		}
		return "", fmt.Errorf("failed to read image %s: %w", req.Template, err)
	}
	return req.Template, nil
}
