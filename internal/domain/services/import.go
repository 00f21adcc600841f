package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
	"github.com/ersonp/lingo-core/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle existing translations during import.
type ConflictStrategy string

const (
	// ConflictSkip keeps translations that already exist in the branch.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing translations with the imported value.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// IsValid reports whether c is a known strategy.
func (c ConflictStrategy) IsValid() bool {
	return c == ConflictSkip || c == ConflictOverwrite
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing translations
}

// ImportError represents an error for a specific translation during import.
type ImportError struct {
	Line    int    `json:"line,omitempty"`  // Line number (1-indexed, 0 if unknown)
	Field   string `json:"field"`           // Which field has the error
	Value   string `json:"value,omitempty"` // The invalid value
	Message string `json:"message"`         // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported    int
	Skipped     int
	KeysCreated int
	Errors      []ImportError
}

// ImportService handles importing translations from external files.
type ImportService struct {
	store ports.Store
}

// NewImportService creates a new import service.
func NewImportService(store ports.Store) *ImportService {
	return &ImportService{
		store: store,
	}
}

// Import validates raw translations and writes the valid ones into a branch
// in a single transaction. Invalid rows are reported in the result and do
// not abort the import.
func (s *ImportService) Import(ctx context.Context, branchID string, raw []parsers.RawTranslation, opts ImportOptions) (*ImportResult, error) {
	if opts.OnConflict == "" {
		opts.OnConflict = ConflictSkip
	}
	if !opts.OnConflict.IsValid() {
		return nil, fmt.Errorf("%w: unknown conflict strategy %q", entities.ErrInvalidInput, opts.OnConflict)
	}

	result := &ImportResult{}

	valid, validationErrors := validateTranslations(raw)
	result.Errors = validationErrors

	if len(valid) == 0 {
		if _, err := requireBranch(ctx, s.store, branchID); err != nil {
			return nil, err
		}
		return result, nil
	}

	err := s.store.WithTx(ctx, func(tx ports.Tx) error {
		if _, err := requireBranch(ctx, tx, branchID); err != nil {
			return err
		}
		content, err := loadBranchContent(ctx, tx, branchID)
		if err != nil {
			return err
		}

		imported, skipped, created, err := s.saveWithConflictHandling(ctx, tx, branchID, content, valid, opts)
		if err != nil {
			return fmt.Errorf("saving translations: %w", err)
		}
		result.Imported = imported
		result.Skipped = skipped
		result.KeysCreated = created

		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, err
	}

	return result, nil
}

// errDryRun rolls back the import transaction after counting.
var errDryRun = errors.New("dry run")

// validateTranslations validates raw rows and returns valid ones with any errors.
func validateTranslations(raw []parsers.RawTranslation) ([]parsers.RawTranslation, []ImportError) {
	valid := make([]parsers.RawTranslation, 0, len(raw))
	var importErrors []ImportError

	for i := range raw {
		r := &raw[i]
		lineNum := r.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if err := validateRawTranslation(r, lineNum); err != nil {
			importErrors = append(importErrors, *err)
			continue
		}

		valid = append(valid, *r)
	}

	return valid, importErrors
}

// validateRawTranslation validates a single raw row and returns an error if invalid.
func validateRawTranslation(r *parsers.RawTranslation, lineNum int) *ImportError {
	r.Key = strings.TrimSpace(r.Key)
	r.Namespace = strings.TrimSpace(r.Namespace)
	r.Language = strings.TrimSpace(r.Language)

	if r.Key == "" {
		return &ImportError{Line: lineNum, Field: "key", Message: "missing required field: key"}
	}
	if r.Language == "" {
		return &ImportError{Line: lineNum, Field: "language", Message: "missing required field: language"}
	}
	if r.Status != "" && !entities.TranslationStatus(r.Status).IsValid() {
		return &ImportError{
			Line:    lineNum,
			Field:   "status",
			Value:   r.Status,
			Message: fmt.Sprintf("invalid status %q (valid: pending, translated, approved)", r.Status),
		}
	}

	return nil
}

// saveWithConflictHandling writes rows into the branch, creating missing keys.
func (s *ImportService) saveWithConflictHandling(ctx context.Context, tx ports.Tx, branchID string, content branchContent, rows []parsers.RawTranslation, opts ImportOptions) (imported, skipped, created int, err error) {
	for i := range rows {
		r := &rows[i]
		nk := entities.NaturalKey{Name: r.Key, Namespace: r.Namespace}

		kc, exists := content[nk]
		if !exists {
			key, err := ensureKey(ctx, tx, branchID, r.Key, r.Namespace, r.SourceFile, r.Description)
			if err != nil {
				return 0, 0, 0, err
			}
			kc = &keyContent{key: *key, values: make(map[string]entities.Translation)}
			content[nk] = kc
			created++
		}

		if _, has := kc.values[r.Language]; has && opts.OnConflict == ConflictSkip {
			skipped++
			continue
		}

		status := entities.TranslationStatus(r.Status)
		if status == "" {
			status = entities.StatusTranslated
		}
		tr := entities.Translation{
			ID:        uuid.New().String(),
			KeyID:     kc.key.ID,
			Language:  r.Language,
			Value:     r.Value,
			Status:    status,
			UpdatedAt: timeNow(),
		}
		if err := tx.UpsertTranslation(ctx, &tr); err != nil {
			return 0, 0, 0, err
		}
		kc.values[r.Language] = tr
		imported++
	}

	return imported, skipped, created, nil
}
