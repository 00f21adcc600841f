package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	branchID string
	format   string
	output   string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the translations of a branch",
		Long:  "Exports every translation of a branch as JSON or CSV. The output can be imported again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.branchID, "branch", "b", "", "Branch id (required)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("branch")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) (err error) {
		var w io.Writer = cmd.OutOrStdout()

		if flags.output != "" {
			f, ferr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if ferr != nil {
				return fmt.Errorf("creating file: %w", ferr)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing file: %w", cerr)
				}
			}()
			w = f
		}

		n, err := d.ExportHandler.Handle(ctx, flags.branchID, w, flags.format)
		if err != nil {
			return fmt.Errorf("exporting branch: %w", err)
		}

		if flags.output != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d translations to %s\n", n, flags.output)
		}

		return nil
	})
}
