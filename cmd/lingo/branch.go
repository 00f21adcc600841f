package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lingo-core/internal/application/handlers"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Create, compare, merge and delete branches",
	}

	cmd.AddCommand(
		newBranchCreateCmd(),
		newBranchListCmd(),
		newBranchDeleteCmd(),
		newBranchDiffCmd(),
		newBranchMergeCmd(),
	)

	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	var spaceID, from string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Copy a branch",
		Long:  "Creates a branch as a full copy of another branch (the default branch unless --from is given).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				source := from
				if source == "" {
					def, err := d.Spaces.DefaultBranch(ctx, spaceID)
					if err != nil {
						return err
					}
					source = def.ID
				}

				branch, err := d.Branches.Create(ctx, services.CreateBranchInput{
					SpaceID:        spaceID,
					Name:           args[0],
					SourceBranchID: source,
					ActorID:        globalActor,
				})
				if err != nil {
					return fmt.Errorf("creating branch: %w", err)
				}

				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, branch)
				}
				fmt.Fprintf(out, "Created branch %s (%s)\n", branch.Name, branch.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&spaceID, "space", "s", "", "Space id (required)")
	cmd.Flags().StringVar(&from, "from", "", "Source branch id (default: the space's default branch)")
	_ = cmd.MarkFlagRequired("space")

	return cmd
}

func newBranchListCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the branches of a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				branches, err := d.Branches.List(ctx, spaceID)
				if err != nil {
					return fmt.Errorf("listing branches: %w", err)
				}
				return printBranches(cmd.OutOrStdout(), branches)
			})
		},
	}

	cmd.Flags().StringVarP(&spaceID, "space", "s", "", "Space id (required)")
	_ = cmd.MarkFlagRequired("space")

	return cmd
}

func newBranchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <branch-id>",
		Short: "Delete a branch and all of its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				if err := d.Branches.Delete(ctx, args[0], globalActor); err != nil {
					return fmt.Errorf("deleting branch: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted branch %s\n", args[0])
				return nil
			})
		},
	}
}

func newBranchDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <source-id> <target-id>",
		Short: "Compare a source branch against a target branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				diff, err := d.Diffs.Diff(ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("comparing branches: %w", err)
				}
				return printDiff(cmd.OutOrStdout(), diff)
			})
		},
	}
}

func newBranchMergeCmd() *cobra.Command {
	var resolve []string

	cmd := &cobra.Command{
		Use:   "merge <source-id> <target-id>",
		Short: "Merge a source branch into a target branch",
		Long: `Applies the changes of the source branch to the target branch.
Conflicting keys must be resolved with --resolve, e.g.
  --resolve greeting=source --resolve buttons:save=target

A key of the default namespace that contains a colon takes a leading one:
  --resolve :errors:404=source`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				result, err := d.MergeHandler.Handle(ctx, handlers.MergeRequest{
					SourceBranchID: args[0],
					TargetBranchID: args[1],
					Resolve:        resolve,
					ActorID:        globalActor,
				})
				if err != nil {
					return fmt.Errorf("merging branches: %w", err)
				}
				if err := printMergeResult(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("merge blocked by %d conflicts", len(result.Conflicts))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&resolve, "resolve", "r", nil, "Conflict resolution as [namespace:]key=source|target (repeatable)")

	return cmd
}
