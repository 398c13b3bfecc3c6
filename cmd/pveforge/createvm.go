package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/provision"
	"github.com/hostfolk/pveforge/pkg/proxmox"
)

// newCreateVMCmd creates the create-vm subcommand for QEMU VMs
func newCreateVMCmd() *cobra.Command {
	f := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create-vm",
		Short: "Create and start a QEMU VM from a cloud image",
		Long: `Create a QEMU VM via qm from a cloud image, start it, wait for
network readiness and optionally install an application into it.

The image is imported as the boot disk and grown to the requested size.
Networking and credentials are applied through cloud-init, so the image
must ship the QEMU guest agent for in-guest command execution.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateVM(cmd, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.template, "image", "", "Path to the cloud image to import (required)")
	if err := cmd.MarkFlagRequired("image"); err != nil {
		panic(err)
	}

	return cmd
}

func runCreateVM(cmd *cobra.Command, f *createFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req, err := f.buildRequest(cmd, cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("image") {
		req.Template = f.template
	}

	installer, err := f.installer()
	if err != nil {
		return err
	}

	if err := f.allocateID(cmd.Context(), &req, proxmox.NewStorageClient()); err != nil {
		return err
	}

	seq := provision.NewSequencer(
		provision.NewVMBackend(proxmox.NewVMClient()),
		provision.ImageFileResolver{},
	)

	return runSequencer(cmd, f, cfg, seq, req, installer,
		fmt.Sprintf("Creating VM %d", req.ID))
}
