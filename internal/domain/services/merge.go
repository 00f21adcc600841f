package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// MergeInput describes a merge of SourceBranchID into TargetBranchID.
type MergeInput struct {
	SourceBranchID string
	TargetBranchID string
	Resolutions    []entities.ConflictResolution
	ActorID        string
}

// MergeService applies the changes of one branch to another.
type MergeService struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewMergeService creates a new MergeService. A nil publisher discards events.
func NewMergeService(store ports.Store, publisher ports.EventPublisher, logger *slog.Logger) *MergeService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MergeService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Merge computes the diff of source against target and applies it to target
// in one transaction. When a conflicting key has no resolution the merge is
// blocked: nothing is written and the conflicts are returned with
// Success=false. Blocked merges can be retried with resolutions.
func (s *MergeService) Merge(ctx context.Context, input MergeInput) (*entities.MergeResult, error) {
	resolutions, err := indexResolutions(input.Resolutions)
	if err != nil {
		return nil, err
	}

	var (
		result *entities.MergeResult
		event  entities.BranchesMerged
	)
	err = s.store.WithTx(ctx, func(tx ports.Tx) error {
		d, err := diffBranches(ctx, tx, input.SourceBranchID, input.TargetBranchID)
		if err != nil {
			return err
		}

		conflictKeys := d.result.ConflictKeys()
		for nk := range resolutions {
			if !conflictKeys[nk] {
				return fmt.Errorf("%w: key %q has no conflict", entities.ErrInvalidResolution, nk.String())
			}
		}
		for nk := range conflictKeys {
			if _, ok := resolutions[nk]; !ok {
				result = &entities.MergeResult{
					Success:   false,
					State:     entities.MergeBlocked,
					Conflicts: d.result.Conflicts,
					Deleted:   d.result.Deleted,
				}
				return nil
			}
		}

		merged, err := applyDiff(ctx, tx, d, resolutions)
		if err != nil {
			return fmt.Errorf("applying merge: %w", err)
		}

		space, err := requireSpace(ctx, tx, d.source.SpaceID)
		if err != nil {
			return err
		}

		result = &entities.MergeResult{
			Success:           true,
			State:             entities.MergeCompleted,
			MergedCount:       merged,
			ConflictsResolved: len(conflictKeys),
			Deleted:           d.result.Deleted,
		}
		event = entities.BranchesMerged{
			SpaceID:           space.ID,
			ProjectID:         space.ProjectID,
			SourceBranchID:    d.source.ID,
			SourceBranchName:  d.source.Name,
			TargetBranchID:    d.target.ID,
			TargetBranchName:  d.target.Name,
			MergedCount:       merged,
			ConflictsResolved: len(conflictKeys),
			ActorID:           input.ActorID,
			OccurredAt:        timeNow(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrConcurrentModification) {
			s.logger.WarnContext(ctx, "merge lost a concurrent write",
				"source", input.SourceBranchID, "target", input.TargetBranchID)
		}
		return nil, err
	}

	if !result.Success {
		s.logger.InfoContext(ctx, "merge blocked by conflicts",
			"source", input.SourceBranchID,
			"target", input.TargetBranchID,
			"conflicts", len(result.Conflicts),
		)
		return result, nil
	}

	s.publisher.Publish(ctx, event)
	s.logger.InfoContext(ctx, "merged branches",
		"source", input.SourceBranchID,
		"target", input.TargetBranchID,
		"merged", result.MergedCount,
		"conflicts_resolved", result.ConflictsResolved,
	)
	return result, nil
}

// indexResolutions validates resolutions and indexes them by key.
func indexResolutions(resolutions []entities.ConflictResolution) (map[entities.NaturalKey]entities.Resolution, error) {
	index := make(map[entities.NaturalKey]entities.Resolution, len(resolutions))
	for _, r := range resolutions {
		if r.Key == "" {
			return nil, fmt.Errorf("%w: resolution is missing a key", entities.ErrInvalidResolution)
		}
		if !r.Resolution.IsValid() {
			return nil, fmt.Errorf("%w: key %q: resolution must be %q or %q, got %q",
				entities.ErrInvalidResolution, r.Key, entities.ResolutionSource, entities.ResolutionTarget, r.Resolution)
		}
		nk := r.NaturalKey()
		if _, dup := index[nk]; dup {
			return nil, fmt.Errorf("%w: duplicate resolution for key %q", entities.ErrInvalidResolution, nk.String())
		}
		index[nk] = r.Resolution
	}
	return index, nil
}

// applyDiff writes a diff into its target branch and refreshes the pair's
// baseline. It returns the number of distinct keys written.
func applyDiff(ctx context.Context, tx ports.Tx, d *branchDiff, resolutions map[entities.NaturalKey]entities.Resolution) (int, error) {
	now := timeNow()
	written := make(map[entities.NaturalKey]bool)
	var refreshed []entities.BaselineEntry

	rebase := func(nk entities.NaturalKey, language, value string) {
		refreshed = append(refreshed, entities.BaselineEntry{
			BranchID:     d.pair.branchID,
			BaseBranchID: d.pair.baseBranchID,
			Name:         nk.Name,
			Namespace:    nk.Namespace,
			Language:     language,
			Value:        value,
		})
	}

	// Added keys are created in the target with the source metadata.
	keys := make([]entities.TranslationKey, 0, len(d.result.Added))
	var translations []entities.Translation
	for _, added := range d.result.Added {
		sk := d.src[added.NaturalKey]
		key := sk.key
		key.ID = uuid.New().String()
		key.BranchID = d.target.ID
		key.CreatedAt = now
		keys = append(keys, key)

		for _, lang := range sortedLanguages(sk) {
			tr := sk.values[lang]
			tr.ID = uuid.New().String()
			tr.KeyID = key.ID
			tr.UpdatedAt = now
			translations = append(translations, tr)
			rebase(added.NaturalKey, lang, tr.Value)
		}
		written[added.NaturalKey] = true
	}
	if len(keys) > 0 {
		if err := tx.InsertKeys(ctx, keys); err != nil {
			return 0, fmt.Errorf("inserting added keys: %w", err)
		}
	}
	if len(translations) > 0 {
		if err := tx.InsertTranslations(ctx, translations); err != nil {
			return 0, fmt.Errorf("inserting added translations: %w", err)
		}
	}

	for _, change := range d.result.Modified {
		if err := upsertFromSource(ctx, tx, d, change, now); err != nil {
			return 0, err
		}
		written[change.NaturalKey] = true
		rebase(change.NaturalKey, change.Language, change.Source)
	}

	for _, change := range d.result.Conflicts {
		if resolutions[change.NaturalKey] == entities.ResolutionSource {
			if err := upsertFromSource(ctx, tx, d, change, now); err != nil {
				return 0, err
			}
			written[change.NaturalKey] = true
		}
		// The source value becomes the merge base for both resolutions, so
		// a target-resolved conflict is not reported again.
		rebase(change.NaturalKey, change.Language, change.Source)
	}

	if len(refreshed) > 0 {
		if err := tx.UpsertBaseline(ctx, refreshed); err != nil {
			return 0, fmt.Errorf("refreshing baseline: %w", err)
		}
	}

	return len(written), nil
}

// upsertFromSource writes the source value of a change into the target key.
func upsertFromSource(ctx context.Context, tx ports.Tx, d *branchDiff, change entities.ValueChange, now time.Time) error {
	tk := d.dst[change.NaturalKey]
	tr := d.src[change.NaturalKey].values[change.Language]

	update := entities.Translation{
		ID:        uuid.New().String(),
		KeyID:     tk.key.ID,
		Language:  change.Language,
		Value:     tr.Value,
		Status:    tr.Status,
		UpdatedAt: now,
	}
	if existing, ok := tk.values[change.Language]; ok {
		update.ID = existing.ID
	}
	if err := tx.UpsertTranslation(ctx, &update); err != nil {
		return fmt.Errorf("writing %s/%s: %w", change.NaturalKey.String(), change.Language, err)
	}
	return nil
}

// nopPublisher discards events.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entities.Event) {}
