package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// SetTranslationInput is a single edit of one key in one language.
type SetTranslationInput struct {
	Key         string
	Namespace   string
	Language    string
	Value       string
	Status      entities.TranslationStatus
	SourceFile  string
	Description string
}

// TranslationService edits the content of a single branch.
type TranslationService struct {
	store ports.Store
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(store ports.Store) *TranslationService {
	return &TranslationService{
		store: store,
	}
}

// Set writes a translation, creating the key when the branch lacks it.
func (s *TranslationService) Set(ctx context.Context, branchID string, input SetTranslationInput) (*entities.Translation, error) {
	if err := validateTranslationInput(&input); err != nil {
		return nil, err
	}

	var saved *entities.Translation
	err := s.store.WithTx(ctx, func(tx ports.Tx) error {
		if _, err := requireBranch(ctx, tx, branchID); err != nil {
			return err
		}
		key, err := ensureKey(ctx, tx, branchID, input.Key, input.Namespace, input.SourceFile, input.Description)
		if err != nil {
			return err
		}

		tr := &entities.Translation{
			ID:        uuid.New().String(),
			KeyID:     key.ID,
			Language:  input.Language,
			Value:     input.Value,
			Status:    input.Status,
			UpdatedAt: timeNow(),
		}
		if err := tx.UpsertTranslation(ctx, tr); err != nil {
			return fmt.Errorf("saving translation: %w", err)
		}
		saved = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteKey removes a key and all of its translations from a branch.
func (s *TranslationService) DeleteKey(ctx context.Context, branchID, name, namespace string) error {
	nk := entities.NaturalKey{Name: name, Namespace: namespace}
	return s.store.WithTx(ctx, func(tx ports.Tx) error {
		key, err := tx.FindKey(ctx, branchID, nk)
		if err != nil {
			return fmt.Errorf("finding key: %w", err)
		}
		if key == nil {
			return fmt.Errorf("key %q: %w", nk.String(), entities.ErrNotFound)
		}
		if err := tx.DeleteKey(ctx, key.ID); err != nil {
			return fmt.Errorf("deleting key: %w", err)
		}
		return nil
	})
}

// List returns every key of a branch with its translations, ordered by
// namespace and name.
func (s *TranslationService) List(ctx context.Context, branchID string) ([]entities.KeyWithTranslations, error) {
	if _, err := requireBranch(ctx, s.store, branchID); err != nil {
		return nil, err
	}
	content, err := loadBranchContent(ctx, s.store, branchID)
	if err != nil {
		return nil, err
	}

	result := make([]entities.KeyWithTranslations, 0, len(content))
	for _, nk := range sortedKeys(content) {
		kc := content[nk]
		item := entities.KeyWithTranslations{
			TranslationKey: kc.key,
			Translations:   make([]entities.Translation, 0, len(kc.values)),
		}
		for _, lang := range sortedLanguages(kc) {
			item.Translations = append(item.Translations, kc.values[lang])
		}
		result = append(result, item)
	}
	return result, nil
}

// validateTranslationInput normalizes and checks an edit.
func validateTranslationInput(input *SetTranslationInput) error {
	input.Key = strings.TrimSpace(input.Key)
	input.Namespace = strings.TrimSpace(input.Namespace)
	input.Language = strings.TrimSpace(input.Language)

	if input.Key == "" {
		return fmt.Errorf("%w: key is required", entities.ErrInvalidInput)
	}
	if input.Language == "" {
		return fmt.Errorf("%w: language is required", entities.ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = entities.StatusTranslated
	}
	if !input.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q (valid: pending, translated, approved)", entities.ErrInvalidInput, input.Status)
	}
	return nil
}

// ensureKey returns the key of a branch, creating it when missing.
func ensureKey(ctx context.Context, tx ports.Tx, branchID, name, namespace, sourceFile, description string) (*entities.TranslationKey, error) {
	nk := entities.NaturalKey{Name: name, Namespace: namespace}
	key, err := tx.FindKey(ctx, branchID, nk)
	if err != nil {
		return nil, fmt.Errorf("finding key: %w", err)
	}
	if key != nil {
		return key, nil
	}

	key = &entities.TranslationKey{
		ID:          uuid.New().String(),
		BranchID:    branchID,
		Name:        name,
		Namespace:   namespace,
		SourceFile:  sourceFile,
		Description: description,
		CreatedAt:   timeNow(),
	}
	if err := tx.InsertKeys(ctx, []entities.TranslationKey{*key}); err != nil {
		return nil, fmt.Errorf("creating key: %w", err)
	}
	return key, nil
}
