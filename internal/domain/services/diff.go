package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// DiffService compares two branches of a space.
type DiffService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewDiffService creates a new DiffService.
func NewDiffService(store ports.Store, logger *slog.Logger) *DiffService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiffService{
		store:  store,
		logger: logger,
	}
}

// Diff computes the three-way diff of source against target. It only reads.
func (s *DiffService) Diff(ctx context.Context, sourceBranchID, targetBranchID string) (*entities.DiffResult, error) {
	d, err := diffBranches(ctx, s.store, sourceBranchID, targetBranchID)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "computed branch diff",
		"source", sourceBranchID,
		"target", targetBranchID,
		"added", len(d.result.Added),
		"modified", len(d.result.Modified),
		"deleted", len(d.result.Deleted),
		"conflicts", len(d.result.Conflicts),
	)
	return d.result, nil
}

// branchDiff is a diff together with the state it was computed from. The
// merge executor applies it without reading the branches again.
type branchDiff struct {
	source *entities.Branch
	target *entities.Branch
	pair   branchPair
	src    branchContent
	dst    branchContent
	result *entities.DiffResult
}

// diffBranches validates the branch pair, loads both branches and their
// baseline through r, and classifies every difference.
func diffBranches(ctx context.Context, r ports.Reader, sourceBranchID, targetBranchID string) (*branchDiff, error) {
	if sourceBranchID == targetBranchID {
		return nil, fmt.Errorf("%w: cannot compare a branch with itself", entities.ErrInvalidInput)
	}

	source, err := requireBranch(ctx, r, sourceBranchID)
	if err != nil {
		return nil, fmt.Errorf("loading source branch: %w", err)
	}
	target, err := requireBranch(ctx, r, targetBranchID)
	if err != nil {
		return nil, fmt.Errorf("loading target branch: %w", err)
	}
	if source.SpaceID != target.SpaceID {
		return nil, fmt.Errorf("%w: branches belong to different spaces", entities.ErrInvalidInput)
	}

	src, err := loadBranchContent(ctx, r, source.ID)
	if err != nil {
		return nil, fmt.Errorf("loading source content: %w", err)
	}
	dst, err := loadBranchContent(ctx, r, target.ID)
	if err != nil {
		return nil, fmt.Errorf("loading target content: %w", err)
	}
	pair, base, err := loadBaseline(ctx, r, source, target)
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}

	return &branchDiff{
		source: source,
		target: target,
		pair:   pair,
		src:    src,
		dst:    dst,
		result: computeDiff(source.ID, target.ID, src, dst, base),
	}, nil
}

// computeDiff classifies the differences between two branches.
//
// For a key present on both sides, each language with a source value is
// compared as follows, where s, t and b are the source, target and
// baseline values and absence is a value of its own:
//
//	s == t  no entry
//	s == b  no entry (only the target changed)
//	t == b  modified
//	else    conflict
//
// Languages that only the target has are never reported.
func computeDiff(sourceID, targetID string, src, dst branchContent, base baseline) *entities.DiffResult {
	result := entities.NewDiffResult(sourceID, targetID)

	for _, nk := range sortedKeys(src) {
		sk := src[nk]
		tk, ok := dst[nk]
		if !ok {
			result.Added = append(result.Added, entities.AddedKey{
				NaturalKey:   nk,
				Translations: valueMap(sk),
			})
			continue
		}

		for _, lang := range sortedLanguages(sk) {
			s := sk.values[lang].Value
			t, hasT := tk.values[lang]
			if hasT && t.Value == s {
				continue
			}
			b, hasB := base[baselineKey{key: nk, language: lang}]
			if hasB && b == s {
				continue
			}

			change := entities.ValueChange{
				NaturalKey:    nk,
				Language:      lang,
				Source:        s,
				Target:        t.Value,
				TargetMissing: !hasT,
			}
			if hasT == hasB && t.Value == b {
				result.Modified = append(result.Modified, change)
			} else {
				result.Conflicts = append(result.Conflicts, change)
			}
		}
	}

	for _, nk := range sortedKeys(dst) {
		if _, ok := src[nk]; !ok {
			result.Deleted = append(result.Deleted, entities.DeletedKey{
				NaturalKey:   nk,
				Translations: valueMap(dst[nk]),
			})
		}
	}

	return result
}

func sortedKeys(c branchContent) []entities.NaturalKey {
	keys := make([]entities.NaturalKey, 0, len(c))
	for nk := range c {
		keys = append(keys, nk)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func sortedLanguages(kc *keyContent) []string {
	langs := make([]string, 0, len(kc.values))
	for lang := range kc.values {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func valueMap(kc *keyContent) map[string]string {
	values := make(map[string]string, len(kc.values))
	for lang, tr := range kc.values {
		values[lang] = tr.Value
	}
	return values
}
