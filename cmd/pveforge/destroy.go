package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/proxmox"
	"github.com/hostfolk/pveforge/pkg/ui"
)

// newDestroyCmd creates the destroy subcommand
func newDestroyCmd() *cobra.Command {
	var vm, force bool

	cmd := &cobra.Command{
		Use:   "destroy <id>",
		Short: "Stop and destroy an instance",
		Long: `Stop a container (or VM with --vm) and destroy it with its disks.

Asks for confirmation unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid instance ID %q", args[0])
			}
			return runDestroy(cmd, id, vm, force)
		},
	}

	cmd.Flags().BoolVar(&vm, "vm", false, "Destroy a VM instead of a container")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation")

	return cmd
}

func runDestroy(cmd *cobra.Command, id int, vm, force bool) error {
	logger := ui.NewLogger(cmd.OutOrStdout())
	ctx := cmd.Context()

	kind := "container"
	if vm {
		kind = "VM"
	}

	if !force {
		ok, err := ui.Confirm(
			fmt.Sprintf("Destroy %s %d?", kind, id),
			"The instance and its disks will be removed. This cannot be undone.",
			"Destroy", "Cancel")
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("destroy cancelled")
			return nil
		}
	}

	if vm {
		c := proxmox.NewVMClient()
		exists, err := c.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("VM %d does not exist", id)
		}
		if status, err := c.Status(ctx, id); err == nil && status == "running" {
			logger.Info("stopping VM %d...", id)
			if err := c.Stop(ctx, id); err != nil {
				return err
			}
		}
		if err := c.Destroy(ctx, id); err != nil {
			return err
		}
	} else {
		c := proxmox.NewCTClient()
		exists, err := c.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("container %d does not exist", id)
		}
		if status, err := c.Status(ctx, id); err == nil && status == "running" {
			logger.Info("stopping container %d...", id)
			if err := c.Stop(ctx, id); err != nil {
				return err
			}
		}
		if err := c.Destroy(ctx, id); err != nil {
			return err
		}
	}

	logger.OK("%s %d destroyed", kind, id)
	return nil
}
