package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ersonp/lingo-core/internal/application/handlers"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

type importFlags struct {
	branchID   string
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import translations from JSON or CSV",
		Long:  "Imports translations from a structured file into one branch in a single transaction.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.branchID, "branch", "b", "", "Target branch id (required)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Existing values (skip, overwrite)")
	_ = cmd.MarkFlagRequired("branch")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if !slices.Contains(validConflicts, flags.onConflict) {
		return fmt.Errorf("invalid --on-conflict value %q (valid: %v)", flags.onConflict, validConflicts)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.ImportHandler.Handle(ctx, flags.branchID, filePath, handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: services.ConflictStrategy(flags.onConflict),
		})
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		if globalJSON {
			return printJSON(out, result)
		}

		if len(result.Errors) > 0 {
			fmt.Fprintf(out, "Validation errors (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s\n", e.Error())
			}
			fmt.Fprintln(out)
		}

		if flags.dryRun {
			fmt.Fprintf(out, "Dry run: %d translations would be imported", result.Imported)
		} else {
			fmt.Fprintf(out, "Imported: %d translations", result.Imported)
		}
		if result.KeysCreated > 0 {
			fmt.Fprintf(out, ", %d new keys", result.KeysCreated)
		}
		if result.Skipped > 0 {
			fmt.Fprintf(out, ", %d skipped (already set)", result.Skipped)
		}
		if len(result.Errors) > 0 {
			fmt.Fprintf(out, ", %d errors", len(result.Errors))
		}
		fmt.Fprintln(out)

		return nil
	})
}
