package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/mocks"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

type fixture struct {
	store        *mocks.Store
	branches     *services.BranchService
	translations *services.TranslationService
	main         *entities.Branch
	spaceID      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	spaces := services.NewSpaceService(store, nil, nil)
	space, err := spaces.Create(t.Context(), "proj-1", "web", "user-1")
	require.NoError(t, err)
	main, err := spaces.DefaultBranch(t.Context(), space.ID)
	require.NoError(t, err)

	return &fixture{
		store:        store,
		branches:     services.NewBranchService(store, nil),
		translations: services.NewTranslationService(store),
		main:         main,
		spaceID:      space.ID,
	}
}

func (f *fixture) set(t *testing.T, branchID, key, lang, value string) {
	t.Helper()
	_, err := f.translations.Set(t.Context(), branchID, services.SetTranslationInput{
		Key:      key,
		Language: lang,
		Value:    value,
	})
	require.NoError(t, err)
}

func (f *fixture) branch(t *testing.T, name string) *entities.Branch {
	t.Helper()
	b, err := f.branches.Create(t.Context(), services.CreateBranchInput{
		SpaceID:        f.spaceID,
		Name:           name,
		SourceBranchID: f.main.ID,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) values(t *testing.T, branchID string) map[string]string {
	t.Helper()
	keys, err := f.translations.List(t.Context(), branchID)
	require.NoError(t, err)

	out := make(map[string]string)
	for _, k := range keys {
		for _, tr := range k.Translations {
			out[k.NaturalKey().String()+"/"+tr.Language] = tr.Value
		}
	}
	return out
}
