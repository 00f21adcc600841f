package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// keyContent is a key together with its translations indexed by language.
type keyContent struct {
	key    entities.TranslationKey
	values map[string]entities.Translation
}

// branchContent indexes a branch's keys by natural identity.
type branchContent map[entities.NaturalKey]*keyContent

// loadBranchContent reads every key and translation of a branch into a
// lookup table. Two queries are issued regardless of branch size.
func loadBranchContent(ctx context.Context, r ports.Reader, branchID string) (branchContent, error) {
	keys, err := r.ListKeys(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	translations, err := r.ListTranslations(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}

	content := make(branchContent, len(keys))
	byID := make(map[string]*keyContent, len(keys))
	for i := range keys {
		kc := &keyContent{key: keys[i], values: make(map[string]entities.Translation)}
		content[keys[i].NaturalKey()] = kc
		byID[keys[i].ID] = kc
	}
	for i := range translations {
		if kc, ok := byID[translations[i].KeyID]; ok {
			kc.values[translations[i].Language] = translations[i]
		}
	}

	return content, nil
}

// translationCount returns the number of translations across all keys.
func (c branchContent) translationCount() int {
	var n int
	for _, kc := range c {
		n += len(kc.values)
	}
	return n
}

// baselineKey identifies one baseline value of a branch pair.
type baselineKey struct {
	key      entities.NaturalKey
	language string
}

// baseline holds the merge base of a branch pair. A missing entry means the
// value was absent when the branches diverged.
type baseline map[baselineKey]string

// branchPair names the orientation under which a pair's baseline is stored.
type branchPair struct {
	branchID     string
	baseBranchID string
}

// mergePair returns the orientation that holds the baseline rows written
// for two branches. A copy and its source use the copy-time orientation;
// any other pair stores rows under (younger, older).
func mergePair(a, b *entities.Branch) branchPair {
	switch {
	case a.CopiedFrom(b.ID):
		return branchPair{branchID: a.ID, baseBranchID: b.ID}
	case b.CopiedFrom(a.ID):
		return branchPair{branchID: b.ID, baseBranchID: a.ID}
	case olderThan(a, b):
		return branchPair{branchID: b.ID, baseBranchID: a.ID}
	default:
		return branchPair{branchID: a.ID, baseBranchID: b.ID}
	}
}

func olderThan(a, b *entities.Branch) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// lineage returns the IDs of b and its ancestors, nearest first.
func lineage(branches map[string]*entities.Branch, b *entities.Branch) []string {
	chain := []string{b.ID}
	seen := map[string]bool{b.ID: true}
	for cur := b; cur.SourceBranchID != nil; {
		parent, ok := branches[*cur.SourceBranchID]
		if !ok || seen[parent.ID] {
			break
		}
		chain = append(chain, parent.ID)
		seen[parent.ID] = true
		cur = parent
	}
	return chain
}

// ancestorHop finds the nearest common ancestor of two branches and returns
// the copy hop into it whose baseline is their merge base. When both
// branches descend from the ancestor through different children, the hop
// that forked first wins.
func ancestorHop(branches map[string]*entities.Branch, source, target *entities.Branch) (branchPair, bool) {
	srcChain := lineage(branches, source)
	dstChain := lineage(branches, target)
	dstIndex := make(map[string]int, len(dstChain))
	for i, id := range dstChain {
		dstIndex[id] = i
	}

	for i, id := range srcChain {
		j, ok := dstIndex[id]
		if !ok {
			continue
		}
		var hops []branchPair
		if i > 0 {
			hops = append(hops, branchPair{branchID: srcChain[i-1], baseBranchID: id})
		}
		if j > 0 {
			hops = append(hops, branchPair{branchID: dstChain[j-1], baseBranchID: id})
		}
		if len(hops) == 0 {
			return branchPair{}, false
		}
		hop := hops[0]
		if len(hops) == 2 && olderThan(branches[hops[1].branchID], branches[hops[0].branchID]) {
			hop = hops[1]
		}
		return hop, true
	}
	return branchPair{}, false
}

// loadBaseline reads the merge base of two branches. The baseline of the
// copy hop into their nearest common ancestor is overlaid with the rows
// the pair itself has recorded through merges.
func loadBaseline(ctx context.Context, r ports.Reader, source, target *entities.Branch) (branchPair, baseline, error) {
	list, err := r.ListBranches(ctx, source.SpaceID)
	if err != nil {
		return branchPair{}, nil, fmt.Errorf("listing branches: %w", err)
	}
	branches := make(map[string]*entities.Branch, len(list))
	for i := range list {
		branches[list[i].ID] = &list[i]
	}
	branches[source.ID] = source
	branches[target.ID] = target

	pair := mergePair(source, target)
	base := make(baseline)
	if hop, ok := ancestorHop(branches, source, target); ok && hop != pair {
		if err := readBaseline(ctx, r, hop, base); err != nil {
			return branchPair{}, nil, err
		}
	}
	if err := readBaseline(ctx, r, pair, base); err != nil {
		return branchPair{}, nil, err
	}
	return pair, base, nil
}

// readBaseline adds the rows of a pair to base, replacing existing values.
func readBaseline(ctx context.Context, r ports.Reader, pair branchPair, base baseline) error {
	entries, err := r.ListBaseline(ctx, pair.branchID, pair.baseBranchID)
	if err != nil {
		return fmt.Errorf("listing baseline: %w", err)
	}
	for i := range entries {
		base[baselineKey{key: entries[i].NaturalKey(), language: entries[i].Language}] = entries[i].Value
	}
	return nil
}

// requireBranch loads a branch and returns ErrNotFound when it is missing.
func requireBranch(ctx context.Context, r ports.Reader, branchID string) (*entities.Branch, error) {
	branch, err := r.FindBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("finding branch: %w", err)
	}
	if branch == nil {
		return nil, fmt.Errorf("branch %s: %w", branchID, entities.ErrNotFound)
	}
	return branch, nil
}

// requireSpace loads a space and returns ErrNotFound when it is missing.
func requireSpace(ctx context.Context, r ports.Reader, spaceID string) (*entities.Space, error) {
	space, err := r.FindSpace(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("finding space: %w", err)
	}
	if space == nil {
		return nil, fmt.Errorf("space %s: %w", spaceID, entities.ErrNotFound)
	}
	return space, nil
}

// chunk splits items into consecutive slices of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]T
	for size > 0 && len(items) > 0 {
		n := min(size, len(items))
		chunks = append(chunks, items[:n])
		items = items[n:]
	}
	return chunks
}
