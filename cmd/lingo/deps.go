package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/lingo-core/internal/application/handlers"
	"github.com/ersonp/lingo-core/internal/domain/services"
	"github.com/ersonp/lingo-core/internal/infrastructure/config"
	"github.com/ersonp/lingo-core/internal/infrastructure/events"
	"github.com/ersonp/lingo-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	Config       *config.Config
	Logger       *slog.Logger
	Spaces       *services.SpaceService
	Branches     *services.BranchService
	Diffs        *services.DiffService
	Merges       *services.MergeService
	Translations *services.TranslationService

	ImportHandler *handlers.ImportHandler
	ExportHandler *handlers.ExportHandler
	MergeHandler  *handlers.MergeHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	repo *sqlite.Repository
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including the
// repository, for commands that read the activity log or serve HTTP.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	basePath, err := projectDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DatabasePath(basePath)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	bus := events.NewBus(logger, events.ActivitySubscriptions(repo)...)

	translations := services.NewTranslationService(repo)
	merges := services.NewMergeService(repo, bus, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config: cfg,
			Logger: logger,
			Spaces: services.NewSpaceService(repo, bus, logger),
			Branches: services.NewBranchService(repo, bus,
				services.WithCopyBatchSize(cfg.Branch.CopyBatchSize),
				services.WithBranchLogger(logger),
			),
			Diffs:         services.NewDiffService(repo, logger),
			Merges:        merges,
			Translations:  translations,
			ImportHandler: handlers.NewImportHandler(services.NewImportService(repo)),
			ExportHandler: handlers.NewExportHandler(translations),
			MergeHandler:  handlers.NewMergeHandler(merges),
		},
		repo: repo,
	}

	return fn(deps)
}
