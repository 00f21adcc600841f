package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/services"
	"github.com/ersonp/lingo-core/internal/infrastructure/parsers"
)

// ExportFormats lists the formats Handle can write. Both can be read back
// by the import handler.
var ExportFormats = []string{"json", "csv"}

var csvHeader = []string{"key", "namespace", "language", "value", "status", "source_file", "description"}

// ExportHandler handles writing the content of a branch to a file.
type ExportHandler struct {
	service *services.TranslationService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service *services.TranslationService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Handle writes every translation of the branch to w and returns the
// number of rows written. Keys without translations are not exported.
func (h *ExportHandler) Handle(ctx context.Context, branchID string, w io.Writer, format string) (int, error) {
	format = strings.ToLower(format)
	if format != "json" && format != "csv" {
		return 0, fmt.Errorf("%w: unknown export format %q", entities.ErrInvalidInput, format)
	}

	keys, err := h.service.List(ctx, branchID)
	if err != nil {
		return 0, fmt.Errorf("listing translations: %w", err)
	}

	rows := flatten(keys)

	switch format {
	case "csv":
		err = writeCSV(w, rows)
	default:
		err = writeJSON(w, rows)
	}
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", format, err)
	}

	return len(rows), nil
}

func flatten(keys []entities.KeyWithTranslations) []parsers.RawTranslation {
	rows := make([]parsers.RawTranslation, 0, len(keys))
	for _, k := range keys {
		for _, t := range k.Translations {
			rows = append(rows, parsers.RawTranslation{
				Key:         k.Name,
				Namespace:   k.Namespace,
				Language:    t.Language,
				Value:       t.Value,
				Status:      string(t.Status),
				SourceFile:  k.SourceFile,
				Description: k.Description,
			})
		}
	}
	return rows
}

func writeJSON(w io.Writer, rows []parsers.RawTranslation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeCSV(w io.Writer, rows []parsers.RawTranslation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Key, r.Namespace, r.Language, r.Value, r.Status, r.SourceFile, r.Description}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
