package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSpaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "Manage spaces",
	}

	cmd.AddCommand(
		newSpaceCreateCmd(),
		newSpaceBranchesCmd(),
		newSpaceActivityCmd(),
	)

	return cmd
}

func newSpaceCreateCmd() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a space with a main branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				space, err := d.Spaces.Create(ctx, projectID, args[0], globalActor)
				if err != nil {
					return fmt.Errorf("creating space: %w", err)
				}

				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, space)
				}
				fmt.Fprintf(out, "Created space %s (%s)\n", space.Name, space.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project id (required)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSpaceBranchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branches <space-id>",
		Short: "List the branches of a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				branches, err := d.Spaces.ListBranches(ctx, args[0])
				if err != nil {
					return fmt.Errorf("listing branches: %w", err)
				}
				return printBranches(cmd.OutOrStdout(), branches)
			})
		},
	}
}

func newSpaceActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity <space-id>",
		Short: "Show recent branch operations of a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, func(d *internalDeps) error {
				if _, err := d.Spaces.Get(ctx, args[0]); err != nil {
					return err
				}

				entries, err := d.repo.ListActivity(ctx, args[0], limit)
				if err != nil {
					return fmt.Errorf("listing activity: %w", err)
				}

				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No activity recorded.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tACTION\tBRANCH\tACTOR")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.BranchID, e.ActorID)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultActivityLimit, "Maximum number of entries to show")

	return cmd
}
