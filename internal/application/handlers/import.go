package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/lingo-core/internal/domain/services"
	"github.com/ersonp/lingo-core/internal/infrastructure/parsers"
)

// ImportHandler handles importing translation files into a branch.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing values
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported    int                    `json:"imported"`
	Skipped     int                    `json:"skipped"`
	KeysCreated int                    `json:"keysCreated"`
	Errors      []services.ImportError `json:"errors,omitempty"`
}

// Handle imports translations from a file into the given branch.
func (h *ImportHandler) Handle(ctx context.Context, branchID, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raw, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(raw) == 0 {
		return &ImportResult{}, nil
	}

	serviceResult, err := h.service.Import(ctx, branchID, raw, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported:    serviceResult.Imported,
		Skipped:     serviceResult.Skipped,
		KeysCreated: serviceResult.KeysCreated,
		Errors:      serviceResult.Errors,
	}, nil
}
