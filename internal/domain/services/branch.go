package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// DefaultCopyBatchSize is the number of keys inserted per batch when copying a branch.
const DefaultCopyBatchSize = 100

// CreateBranchInput describes a branch copy.
type CreateBranchInput struct {
	SpaceID        string
	Name           string
	SourceBranchID string
	ActorID        string
}

// BranchService creates, lists and deletes branches.
type BranchService struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *slog.Logger
	batchSize int
}

// BranchOption configures a BranchService.
type BranchOption func(*BranchService)

// WithCopyBatchSize sets how many keys are inserted per batch when copying.
func WithCopyBatchSize(n int) BranchOption {
	return func(s *BranchService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithBranchLogger sets the logger of the service.
func WithBranchLogger(logger *slog.Logger) BranchOption {
	return func(s *BranchService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBranchService creates a new BranchService. A nil publisher discards events.
func NewBranchService(store ports.Store, publisher ports.EventPublisher, opts ...BranchOption) *BranchService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	s := &BranchService{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		batchSize: DefaultCopyBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create copies a branch. The new branch gets its own rows for every key and
// translation of the source plus a baseline recording the copied values.
func (s *BranchService) Create(ctx context.Context, input CreateBranchInput) (*entities.Branch, error) {
	name := entities.NormalizeBranchName(input.Name)
	if err := entities.ValidateBranchName(name); err != nil {
		return nil, err
	}

	space, err := requireSpace(ctx, s.store, input.SpaceID)
	if err != nil {
		return nil, err
	}
	source, err := requireBranch(ctx, s.store, input.SourceBranchID)
	if err != nil {
		return nil, fmt.Errorf("loading source branch: %w", err)
	}
	if source.SpaceID != space.ID {
		return nil, fmt.Errorf("source branch %s in space %s: %w", source.ID, space.ID, entities.ErrNotFound)
	}

	existing, err := s.store.FindBranchByName(ctx, space.ID, name)
	if err != nil {
		return nil, fmt.Errorf("checking branch name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("branch %q: %w", name, entities.ErrDuplicateBranchName)
	}

	now := timeNow()
	sourceID := source.ID
	branch := &entities.Branch{
		ID:             uuid.New().String(),
		SpaceID:        space.ID,
		Name:           name,
		SourceBranchID: &sourceID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var keysCopied int
	err = s.store.WithTx(ctx, func(tx ports.Tx) error {
		content, err := loadBranchContent(ctx, tx, source.ID)
		if err != nil {
			return fmt.Errorf("loading source content: %w", err)
		}
		if err := tx.CreateBranch(ctx, branch); err != nil {
			return fmt.Errorf("creating branch: %w", err)
		}
		if err := s.copyContent(ctx, tx, branch, content); err != nil {
			return err
		}
		keysCopied = len(content)
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateBranchName) {
			return nil, fmt.Errorf("branch %q: %w", name, entities.ErrDuplicateBranchName)
		}
		return nil, err
	}

	s.publisher.Publish(ctx, entities.BranchCreated{
		Branch:           *branch,
		SourceBranchID:   source.ID,
		SourceBranchName: source.Name,
		ProjectID:        space.ProjectID,
		KeysCopied:       keysCopied,
		ActorID:          input.ActorID,
		OccurredAt:       now,
	})
	s.logger.InfoContext(ctx, "created branch",
		"branch", branch.ID,
		"name", branch.Name,
		"source", source.ID,
		"keys", keysCopied,
	)

	return branch, nil
}

// copyContent inserts a copy of content into branch in batches of keys.
func (s *BranchService) copyContent(ctx context.Context, tx ports.Tx, branch *entities.Branch, content branchContent) error {
	order := sortedKeys(content)
	for _, batch := range chunk(order, s.batchSize) {
		keys := make([]entities.TranslationKey, 0, len(batch))
		var translations []entities.Translation
		var entries []entities.BaselineEntry

		for _, nk := range batch {
			kc := content[nk]
			key := kc.key
			key.ID = uuid.New().String()
			key.BranchID = branch.ID
			key.CreatedAt = branch.CreatedAt
			keys = append(keys, key)

			for _, lang := range sortedLanguages(kc) {
				tr := kc.values[lang]
				tr.ID = uuid.New().String()
				tr.KeyID = key.ID
				translations = append(translations, tr)
				entries = append(entries, entities.BaselineEntry{
					BranchID:     branch.ID,
					BaseBranchID: *branch.SourceBranchID,
					Name:         nk.Name,
					Namespace:    nk.Namespace,
					Language:     lang,
					Value:        tr.Value,
				})
			}
		}

		if err := tx.InsertKeys(ctx, keys); err != nil {
			return fmt.Errorf("copying keys: %w", err)
		}
		if len(translations) == 0 {
			continue
		}
		if err := tx.InsertTranslations(ctx, translations); err != nil {
			return fmt.Errorf("copying translations: %w", err)
		}
		if err := tx.UpsertBaseline(ctx, entries); err != nil {
			return fmt.Errorf("recording baseline: %w", err)
		}
	}
	return nil
}

// Get returns a branch by ID.
func (s *BranchService) Get(ctx context.Context, branchID string) (*entities.Branch, error) {
	return requireBranch(ctx, s.store, branchID)
}

// List returns the branches of a space, oldest first.
func (s *BranchService) List(ctx context.Context, spaceID string) ([]entities.Branch, error) {
	if _, err := requireSpace(ctx, s.store, spaceID); err != nil {
		return nil, err
	}
	branches, err := s.store.ListBranches(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	return branches, nil
}

// Delete removes a branch with all of its keys, translations and baseline
// rows. Copies of the branch are handed to its own source together with the
// baseline it held against that source, so they keep a merge base. The last
// branch of a space cannot be deleted. Deleting the default branch promotes
// the oldest remaining branch.
func (s *BranchService) Delete(ctx context.Context, branchID, actorID string) error {
	branch, err := requireBranch(ctx, s.store, branchID)
	if err != nil {
		return err
	}

	var space *entities.Space
	err = s.store.WithTx(ctx, func(tx ports.Tx) error {
		sp, err := requireSpace(ctx, tx, branch.SpaceID)
		if err != nil {
			return err
		}
		space = sp

		count, err := tx.CountBranches(ctx, branch.SpaceID)
		if err != nil {
			return fmt.Errorf("counting branches: %w", err)
		}
		if count <= 1 {
			return fmt.Errorf("branch %q: %w", branch.Name, entities.ErrLastBranch)
		}

		// Re-read inside the transaction; a concurrent delete may have won.
		current, err := requireBranch(ctx, tx, branchID)
		if err != nil {
			return err
		}
		if err := tx.ReparentBranches(ctx, branchID, current.SourceBranchID); err != nil {
			return fmt.Errorf("reparenting copies: %w", err)
		}
		if err := tx.DeleteBranch(ctx, branchID); err != nil {
			return fmt.Errorf("deleting branch: %w", err)
		}
		if !current.IsDefault {
			return nil
		}

		remaining, err := tx.ListBranches(ctx, branch.SpaceID)
		if err != nil {
			return fmt.Errorf("listing remaining branches: %w", err)
		}
		if err := tx.SetDefaultBranch(ctx, branch.SpaceID, remaining[0].ID); err != nil {
			return fmt.Errorf("promoting default branch: %w", err)
		}
		s.logger.InfoContext(ctx, "promoted default branch", "space", branch.SpaceID, "branch", remaining[0].ID)
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, entities.BranchDeleted{
		Branch:     *branch,
		ProjectID:  space.ProjectID,
		ActorID:    actorID,
		OccurredAt: timeNow(),
	})
	s.logger.InfoContext(ctx, "deleted branch", "branch", branch.ID, "name", branch.Name)

	return nil
}
