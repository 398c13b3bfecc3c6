package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/inventory"
	"github.com/hostfolk/pveforge/pkg/proxmox"
	"github.com/hostfolk/pveforge/pkg/ui"
)

// newInventoryCmd creates the inventory subcommand
func newInventoryCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Snapshot the node's containers to JSON and CSV",
		Long: `Scan every container on the node and write inventory.json and
inventory.csv snapshot files. Output files are rewritten on each run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInventory(cmd, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from config)")

	return cmd
}

func runInventory(cmd *cobra.Command, outDir string) error {
	logger := ui.NewLogger(cmd.OutOrStdout())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.InventoryDir
	}

	scanner := inventory.NewScanner(proxmox.NewCTClient())
	snap, err := scanner.Scan(cmd.Context(), "pveforge "+version)
	if err != nil {
		return err
	}

	jsonPath := filepath.Join(outDir, "inventory.json")
	csvPath := filepath.Join(outDir, "inventory.csv")

	if err := snap.WriteJSON(jsonPath); err != nil {
		return err
	}
	if err := snap.WriteCSV(csvPath); err != nil {
		return err
	}

	logger.OK("scanned %d containers (%d running, %d stopped)",
		snap.TotalContainers, snap.Summary.Running, snap.Summary.Stopped)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", jsonPath, csvPath)
	return nil
}
