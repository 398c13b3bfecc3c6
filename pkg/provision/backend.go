package provision

import (
	"context"
	"strconv"

	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// Backend abstracts the hypervisor CLI for one instance kind, so the
// sequencer runs unchanged against containers, VMs, or a test fake.
type Backend interface {
	Kind() Kind
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, req *Request, template string) error
	Start(ctx context.Context, id int) error
	Destroy(ctx context.Context, id int) error
	Exec(ctx context.Context, id int, command ...string) (string, error)
}

// ImageResolver verifies or selects the template image before creation
// is attempted.
type ImageResolver interface {
	// Resolve returns the full "pool:path" template reference for the
	// request, or an error when nothing usable exists.
	Resolve(ctx context.Context, req *Request) (string, error)
}

// CTBackend provisions LXC containers through pct.
type CTBackend struct {
	client *proxmox.CTClient
}

// NewCTBackend creates a container backend.
func NewCTBackend(client *proxmox.CTClient) *CTBackend {
	return &CTBackend{client: client}
}

// Kind returns KindContainer.
func (b *CTBackend) Kind() Kind { return KindContainer }

// Exists reports whether the container ID is taken.
func (b *CTBackend) Exists(ctx context.Context, id int) (bool, error) {
	return b.client.Exists(ctx, id)
}

// Create issues the single pct create call with the assembled option
// list. Options are discrete tokens end to end; nothing is ever joined
// into a shell string.
func (b *CTBackend) Create(ctx context.Context, req *Request, template string) error {
	options := []string{
		"--cores", strconv.Itoa(req.Cores),
		"--memory", strconv.Itoa(req.MemoryMB),
		"--swap", strconv.Itoa(req.SwapMB),
		"--rootfs", req.RootFS(),
		"--net0", req.NetSpec(),
	}

	if req.Hostname != "" {
		options = append(options, "--hostname", req.Hostname)
	}
	if req.Unprivileged {
		options = append(options, "--unprivileged", "1")
	} else {
		options = append(options, "--unprivileged", "0")
	}
	if req.Nesting {
		options = append(options, "--features", "nesting=1")
	}
	if req.Password != "" {
		options = append(options, "--password", req.Password)
	}
	if req.SSHPublicKey != "" {
		options = append(options, "--ssh-public-keys", req.SSHPublicKey)
	}
	if len(req.Tags) > 0 {
		options = append(options, "--tags", req.TagString())
	}
	options = append(options, "--start", "0")

	return b.client.Create(ctx, req.ID, template, options)
}

// Start starts the container.
func (b *CTBackend) Start(ctx context.Context, id int) error {
	return b.client.Start(ctx, id)
}

// Destroy removes the container.
func (b *CTBackend) Destroy(ctx context.Context, id int) error {
	return b.client.Destroy(ctx, id)
}

// Exec runs a command inside the container.
func (b *CTBackend) Exec(ctx context.Context, id int, command ...string) (string, error) {
	return b.client.Exec(ctx, id, command...)
}

// VMBackend provisions QEMU VMs through qm. Guests need the QEMU guest
// agent for exec and address discovery.
type VMBackend struct {
	client *proxmox.VMClient
}

// NewVMBackend creates a VM backend.
func NewVMBackend(client *proxmox.VMClient) *VMBackend {
	return &VMBackend{client: client}
}

// Kind returns KindVM.
func (b *VMBackend) Kind() Kind { return KindVM }

// Exists reports whether the VM ID is taken.
func (b *VMBackend) Exists(ctx context.Context, id int) (bool, error) {
	return b.client.Exists(ctx, id)
}

// Create issues the qm create call. The template is a cloud image
// imported as the boot disk, then the disk is grown to the requested
// size. qm resize takes the size with its unit suffix, unlike the pct
// rootfs spec.
func (b *VMBackend) Create(ctx context.Context, req *Request, template string) error {
	options := []string{
		"--cores", strconv.Itoa(req.Cores),
		"--memory", strconv.Itoa(req.MemoryMB),
		"--net0", "virtio,bridge=" + req.Bridge,
		"--ipconfig0", vmIPConfig(req),
		"--scsihw", "virtio-scsi-pci",
		"--scsi0", req.Storage + ":0,import-from=" + template,
		"--ide2", req.Storage + ":cloudinit",
		"--boot", "order=scsi0",
		"--serial0", "socket",
		"--agent", "1",
	}

	if req.Hostname != "" {
		options = append(options, "--name", req.Hostname)
	}
	if req.Password != "" {
		options = append(options, "--cipassword", req.Password)
	}
	if req.SSHPublicKey != "" {
		options = append(options, "--sshkeys", req.SSHPublicKey)
	}
	if len(req.Tags) > 0 {
		options = append(options, "--tags", req.TagString())
	}

	if err := b.client.Create(ctx, req.ID, options); err != nil {
		return err
	}

	if req.DiskSize != "" {
		return b.client.ResizeDisk(ctx, req.ID, "scsi0", req.DiskSize)
	}
	return nil
}

// vmIPConfig builds the cloud-init ipconfig0 value.
func vmIPConfig(req *Request) string {
	if req.IPCIDR == "" {
		return "ip=dhcp"
	}
	if req.Gateway == "" {
		return "ip=" + req.IPCIDR
	}
	return "ip=" + req.IPCIDR + ",gw=" + req.Gateway
}

// Start starts the VM.
func (b *VMBackend) Start(ctx context.Context, id int) error {
	return b.client.Start(ctx, id)
}

// Destroy removes the VM.
func (b *VMBackend) Destroy(ctx context.Context, id int) error {
	return b.client.Destroy(ctx, id)
}

// Exec runs a command inside the VM through the guest agent.
func (b *VMBackend) Exec(ctx context.Context, id int, command ...string) (string, error) {
	return b.client.Exec(ctx, id, command...)
}
