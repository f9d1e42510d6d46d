package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Checks that the bucket has one image container per resolution and that the catalog tables match the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix image containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the catalog database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

// itemsCmd reports item presence across chain, database and storage.
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Report items missing from the database or storage",
	Long:  `Compares the contract, the database and every image container. Outputs metrics by default or a JSON file of the planned repairs with --json. Use "reconcile" to apply repairs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.logger.Info("Checking items (this lists the whole bucket)...")
		report, err := a.integrity.Service().CheckItems(ctx)
		if err != nil {
			return fmt.Errorf("item integrity check failed: %w", err)
		}

		if jsonOutput {
			filename := fmt.Sprintf("integrity_items_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report.Actions, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			a.logger.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("actions", len(report.Actions)))
		}

		s := report.Summary
		fmt.Println("\n=== Item Integrity Metrics ===")
		fmt.Printf("Total Items: %d\n", s.TotalItems)
		fmt.Printf("DB Missing: %d\n", s.MissingDB)
		fmt.Printf("Storage Missing: %d\n", s.MissingStorage)
		fmt.Printf("Orphaned: %d\n", s.Orphaned)
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, itemsCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing containers")
	itemsCmd.Flags().Bool("json", false, "Save the planned repairs as JSON")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSchema bool) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	logg := a.logger
	svc := a.integrity.Service()

	if runStructure {
		logg.Info("Checking image containers...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runSchema {
		logg.Info("Checking database schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Database schema matches the models.")
			return nil
		}
		logg.Warn("Database schema mismatches found")
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if tbl.Status == "missing" {
				logg.Warn("Missing Table", zap.String("table", table))
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
	return nil
}
