package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/lingo-core/internal/infrastructure/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the branch API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	return withInternalDeps(ctx, func(d *internalDeps) error {
		handler := httpapi.NewHandler(httpapi.Services{
			Spaces:       d.Spaces,
			Branches:     d.Branches,
			Diffs:        d.Diffs,
			Merges:       d.Merges,
			Translations: d.Translations,
			Activity:     d.repo,
		}, d.Logger, cmd.OutOrStdout())

		serverCfg := d.Config.Server
		if addr != "" {
			serverCfg.Addr = addr
		}
		srv := httpapi.NewServer(serverCfg, handler)

		d.Logger.Info("listening", "addr", serverCfg.Addr, "database", d.repo.Path())
		if err := httpapi.ListenAndServe(ctx, srv); err != nil {
			return err
		}
		d.Logger.Info("server stopped")
		return nil
	})
}
