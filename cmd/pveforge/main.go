// Package main provides the pveforge CLI for provisioning Proxmox
// containers and VMs with applications preinstalled.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for pveforge
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pveforge",
		Short: "Proxmox VE provisioning tool",
		Long: `pveforge provisions LXC containers and QEMU VMs on a Proxmox VE
node and installs applications into them in a single run.

It supports:
  - Container creation via pct with static or DHCP networking
  - VM creation via qm from cloud images
  - Application installers (docker, metabase, vault, supabase)
  - Inventory snapshots of the node's containers (JSON + CSV)`,
		Version: version,
	}

	rootCmd.AddCommand(
		newCreateCmd(),
		newCreateVMCmd(),
		newDestroyCmd(),
		newInventoryCmd(),
		newTemplatesCmd(),
		newDoctorCmd(),
	)

	return rootCmd
}
