package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBranches(w io.Writer, branches []entities.Branch) error {
	if globalJSON {
		return printJSON(w, branches)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDEFAULT\tSOURCE")
	for i := range branches {
		b := &branches[i]
		isDefault := ""
		if b.IsDefault {
			isDefault = "yes"
		}
		source := ""
		if b.SourceBranchID != nil {
			source = *b.SourceBranchID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Name, isDefault, source)
	}
	return tw.Flush()
}

func printDiff(w io.Writer, diff *entities.DiffResult) error {
	if globalJSON {
		return printJSON(w, diff)
	}

	if diff.IsEmpty() {
		fmt.Fprintln(w, "Branches are identical.")
		return nil
	}

	for _, k := range diff.Added {
		fmt.Fprintf(w, "+ %s (%d languages)\n", k.NaturalKey, len(k.Translations))
	}
	for _, c := range diff.Modified {
		fmt.Fprintf(w, "~ %s [%s] %q -> %q\n", c.NaturalKey, c.Language, c.Target, c.Source)
	}
	for _, k := range diff.Deleted {
		fmt.Fprintf(w, "- %s (only in target, kept on merge)\n", k.NaturalKey)
	}
	for _, c := range diff.Conflicts {
		fmt.Fprintf(w, "! %s [%s] source %q, target %q\n", c.NaturalKey, c.Language, c.Source, c.Target)
	}

	fmt.Fprintf(w, "\n%d added, %d modified, %d only in target, %d conflicts\n",
		len(diff.Added), len(diff.Modified), len(diff.Deleted), len(diff.Conflicts))
	return nil
}

func printMergeResult(w io.Writer, result *entities.MergeResult) error {
	if globalJSON {
		return printJSON(w, result)
	}

	if !result.Success {
		fmt.Fprintf(w, "Merge blocked by %d conflicts:\n", len(result.Conflicts))
		for _, c := range result.Conflicts {
			fmt.Fprintf(w, "  %s [%s] source %q, target %q\n", c.NaturalKey, c.Language, c.Source, c.Target)
		}
		fmt.Fprintln(w, "\nResolve with --resolve <key>=source|target")
		return nil
	}

	fmt.Fprintf(w, "Merged %d keys", result.MergedCount)
	if result.ConflictsResolved > 0 {
		fmt.Fprintf(w, ", %d conflicts resolved", result.ConflictsResolved)
	}
	fmt.Fprintln(w)
	return nil
}
