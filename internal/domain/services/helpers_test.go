package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/mocks"
)

// fixture is a space with a default branch backed by an in-memory store.
type fixture struct {
	store        *mocks.Store
	publisher    *mocks.Publisher
	spaces       *SpaceService
	branches     *BranchService
	diffs        *DiffService
	merges       *MergeService
	translations *TranslationService
	space        *entities.Space
	main         *entities.Branch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:     mocks.NewStore(),
		publisher: &mocks.Publisher{},
	}
	f.spaces = NewSpaceService(f.store, f.publisher, nil)
	f.branches = NewBranchService(f.store, f.publisher)
	f.diffs = NewDiffService(f.store, nil)
	f.merges = NewMergeService(f.store, f.publisher, nil)
	f.translations = NewTranslationService(f.store)

	space, err := f.spaces.Create(ctx, "proj-1", "web", "user-1")
	require.NoError(t, err)
	f.space = space

	main, err := f.spaces.DefaultBranch(ctx, space.ID)
	require.NoError(t, err)
	f.main = main

	return f
}

// set writes a translation in the default namespace.
func (f *fixture) set(t *testing.T, branchID, key, lang, value string) {
	t.Helper()
	_, err := f.translations.Set(context.Background(), branchID, SetTranslationInput{
		Key:      key,
		Language: lang,
		Value:    value,
	})
	require.NoError(t, err)
}

// branch copies the default branch.
func (f *fixture) branch(t *testing.T, name string) *entities.Branch {
	t.Helper()
	return f.branchFrom(t, name, f.main.ID)
}

func (f *fixture) branchFrom(t *testing.T, name, sourceID string) *entities.Branch {
	t.Helper()
	b, err := f.branches.Create(context.Background(), CreateBranchInput{
		SpaceID:        f.space.ID,
		Name:           name,
		SourceBranchID: sourceID,
		ActorID:        "user-1",
	})
	require.NoError(t, err)
	return b
}

// values returns key -> language -> value for a branch.
func (f *fixture) values(t *testing.T, branchID string) map[string]map[string]string {
	t.Helper()
	keys, err := f.translations.List(context.Background(), branchID)
	require.NoError(t, err)

	out := make(map[string]map[string]string, len(keys))
	for _, k := range keys {
		langs := make(map[string]string, len(k.Translations))
		for _, tr := range k.Translations {
			langs[tr.Language] = tr.Value
		}
		out[k.NaturalKey().String()] = langs
	}
	return out
}
