package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"borg-link/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd repairs items missing from the database or storage.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair items between the contract, database and storage",
	Long: `Plans and applies repairs: imports borgs the contract produced but the database lacks,
and republishes images missing from any resolution container.

Examples:
  # Report only
  reconcile --dry-run

  # Apply with interactive confirmation
  reconcile

  # Apply with auto-confirm (non-interactive)
  reconcile --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		l := a.logger
		svc := a.integrity.Service()

		l.Info("Planning reconciliation...")
		report, err := svc.CheckItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to plan reconciliation: %w", err)
		}
		printReconcileReport(l, report)

		if len(report.Actions) == 0 {
			l.Info("No actions required.")
			return nil
		}
		if dryRunReconcile {
			l.Info("Dry-run mode: No changes were made.")
			return nil
		}
		if !confirmAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		l.Info("Applying actions...")
		fixed, err := svc.FixItems(ctx)
		if err != nil {
			executed := 0
			if fixed != nil {
				executed = fixed.Executed
			}
			return fmt.Errorf("failed after %d actions: %w", executed, err)
		}
		l.Info("Successfully executed actions", zap.Int("count", fixed.Executed))
		return nil
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Report only, never repair")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm repairs (non-interactive)")
	RootCmd.AddCommand(reconcileCmd)
}

// printReconcileReport logs the summary and a sample of the planned actions.
func printReconcileReport(l *zap.Logger, report *integrity.ItemsReport) {
	s := report.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("missing_db", s.MissingDB),
		zap.Int("missing_storage", s.MissingStorage),
		zap.Int("orphaned", s.Orphaned),
	)

	if len(report.Actions) == 0 {
		return
	}
	l.Info("Planned actions",
		zap.Int("import_actions", s.ImportActions),
		zap.Int("republish_actions", s.RepublishActions),
		zap.Int("total_actions", len(report.Actions)),
	)

	maxShow := min(5, len(report.Actions))
	for _, action := range report.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.Int("id", action.ID),
			zap.String("reason", action.Reason),
		)
	}
	if len(report.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(report.Actions)-maxShow))
	}
}

// confirmAction prompts the user for confirmation or uses the --yes flag.
func confirmAction() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm repairs: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
