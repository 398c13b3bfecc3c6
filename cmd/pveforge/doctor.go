package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostfolk/pveforge/pkg/config"
	"github.com/hostfolk/pveforge/pkg/doctor"
	"github.com/hostfolk/pveforge/pkg/ui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the node for required Proxmox tooling",
		Long: `Verify that the Proxmox CLIs pveforge shells out to are installed
and answering, and that the configured storage pools are active.`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	checker := doctor.NewChecker(cfg.DefaultStorage, cfg.TemplateStorage)
	checks := checker.CheckAll(cmd.Context())

	fmt.Fprintln(out, ui.TitleStyle.Render("pveforge doctor"))
	for _, check := range checks {
		var badge string
		switch check.Status {
		case doctor.StatusOK:
			badge = ui.SuccessStyle.Render("[OK]")
		case doctor.StatusWarning:
			badge = ui.WarningStyle.Render("[WARN]")
		default:
			badge = ui.ErrorStyle.Render("[FAIL]")
		}
		fmt.Fprintf(out, "%s %s: %s\n", badge, check.Name, check.Message)
	}

	if doctor.HasFailures(checks) {
		return fmt.Errorf("doctor found problems; fix them before provisioning")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.SuccessStyle.Render("All checks passed."))
	return nil
}
