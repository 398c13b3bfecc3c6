package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/proxmox"
	"github.com/hostfolk/pveforge/pkg/ui"
)

// newTemplatesCmd creates the templates subcommand
func newTemplatesCmd() *cobra.Command {
	var available bool
	var download string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List or download container templates",
		Long: `List container templates downloaded to the template storage pool.

With --available the downloadable system templates are listed instead;
--download fetches one into the pool.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplates(cmd, available, download)
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "List templates available for download")
	cmd.Flags().StringVar(&download, "download", "", "Download the named template")

	return cmd
}

func runTemplates(cmd *cobra.Command, available bool, download string) error {
	logger := ui.NewLogger(cmd.OutOrStdout())
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	storage := proxmox.NewStorageClient()

	if download != "" {
		logger.Info("downloading %s to %s...", download, cfg.TemplateStorage)
		if err := storage.Download(ctx, cfg.TemplateStorage, download); err != nil {
			return err
		}
		logger.OK("downloaded %s", download)
		return nil
	}

	if available {
		templates, err := storage.Available(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Available system templates:\n\n")
		for _, t := range templates {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
		}
		return nil
	}

	templates, err := storage.Templates(ctx, cfg.TemplateStorage)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		logger.Warn("no templates in storage %q; run: pveforge templates --available", cfg.TemplateStorage)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Templates in %s:\n\n", cfg.TemplateStorage)
	for _, t := range templates {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
	}
	return nil
}
