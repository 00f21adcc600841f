package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lingo-core/internal/application/handlers"
	"github.com/ersonp/lingo-core/internal/domain/ports"
	"github.com/ersonp/lingo-core/internal/infrastructure/config"
	"github.com/ersonp/lingo-core/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new lingo project",
		Long:  "Creates a .lingo directory with default configuration and an empty database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	basePath, err := projectDir()
	if err != nil {
		return err
	}

	handler := handlers.NewInitHandler(openSQLite)

	result, err := handler.Handle(cmd.Context(), basePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created database %s\n", result.DatabasePath)
	fmt.Fprintln(out, "Lingo initialized successfully!")

	return nil
}

func openSQLite(path string) (ports.Store, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
