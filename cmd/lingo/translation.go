package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

func newTranslationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "translation",
		Aliases: []string{"tr"},
		Short:   "Edit and list the translations of a branch",
	}

	cmd.AddCommand(
		newTranslationSetCmd(),
		newTranslationListCmd(),
		newTranslationDeleteCmd(),
	)

	return cmd
}

func newTranslationSetCmd() *cobra.Command {
	var namespace, status, description string

	cmd := &cobra.Command{
		Use:   "set <branch-id> <key> <language> <value>",
		Short: "Set the value of a key in one language",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !slices.Contains(validStatuses, status) {
				return fmt.Errorf("invalid --status value %q (valid: %v)", status, validStatuses)
			}

			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				tr, err := d.Translations.Set(ctx, args[0], services.SetTranslationInput{
					Key:         args[1],
					Namespace:   namespace,
					Language:    args[2],
					Value:       args[3],
					Status:      entities.TranslationStatus(status),
					Description: description,
				})
				if err != nil {
					return fmt.Errorf("setting translation: %w", err)
				}

				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, tr)
				}
				fmt.Fprintf(out, "Set %s [%s] = %q\n", entities.NaturalKey{Name: args[1], Namespace: namespace}, tr.Language, tr.Value)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Key namespace")
	cmd.Flags().StringVar(&status, "status", "", "Translation status (pending, translated, approved)")
	cmd.Flags().StringVar(&description, "description", "", "Key description, used when the key is created")

	return cmd
}

func newTranslationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <branch-id>",
		Short: "List the keys and translations of a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				keys, err := d.Translations.List(ctx, args[0])
				if err != nil {
					return fmt.Errorf("listing translations: %w", err)
				}

				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, keys)
				}
				if len(keys) == 0 {
					fmt.Fprintln(out, "No keys found.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tLANGUAGE\tSTATUS\tVALUE")
				for i := range keys {
					name := keys[i].NaturalKey().String()
					if len(keys[i].Translations) == 0 {
						fmt.Fprintf(tw, "%s\t-\t-\t\n", name)
					}
					for _, t := range keys[i].Translations {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, t.Language, t.Status, t.Value)
					}
				}
				return tw.Flush()
			})
		},
	}
}

func newTranslationDeleteCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "delete <branch-id> <key>",
		Short: "Delete a key and all of its translations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				if err := d.Translations.DeleteKey(ctx, args[0], args[1], namespace); err != nil {
					return fmt.Errorf("deleting key: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", entities.NaturalKey{Name: args[1], Namespace: namespace})
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Key namespace")

	return cmd
}
