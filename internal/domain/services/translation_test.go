package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

func TestTranslationService_Set(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.translations.Set(ctx, f.main.ID, SetTranslationInput{Key: "greeting", Language: "en", Value: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusTranslated, first.Status)

	second, err := f.translations.Set(ctx, f.main.ID, SetTranslationInput{
		Key: "greeting", Language: "en", Value: "Hello", Status: entities.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, first.KeyID, second.KeyID)

	keys, err := f.translations.List(ctx, f.main.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Len(t, keys[0].Translations, 1)
	assert.Equal(t, "Hello", keys[0].Translations[0].Value)
	assert.Equal(t, entities.StatusApproved, keys[0].Translations[0].Status)
}

func TestTranslationService_Set_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name     string
		branchID string
		input    SetTranslationInput
		err      error
	}{
		{name: "missing key", branchID: f.main.ID, input: SetTranslationInput{Language: "en"}, err: entities.ErrInvalidInput},
		{name: "missing language", branchID: f.main.ID, input: SetTranslationInput{Key: "a"}, err: entities.ErrInvalidInput},
		{name: "invalid status", branchID: f.main.ID, input: SetTranslationInput{Key: "a", Language: "en", Status: "done"}, err: entities.ErrInvalidInput},
		{name: "missing branch", branchID: "missing", input: SetTranslationInput{Key: "a", Language: "en"}, err: entities.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.translations.Set(ctx, tt.branchID, tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslationService_DeleteKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "en", "Hi")
	f.set(t, f.main.ID, "greeting", "de", "Hallo")

	require.NoError(t, f.translations.DeleteKey(ctx, f.main.ID, "greeting", ""))
	assert.Empty(t, f.values(t, f.main.ID))

	translations, err := f.store.ListTranslations(ctx, f.main.ID)
	require.NoError(t, err)
	assert.Empty(t, translations)

	err = f.translations.DeleteKey(ctx, f.main.ID, "greeting", "")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestTranslationService_List_Namespaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, ns := range []string{"web", "", "app"} {
		_, err := f.translations.Set(ctx, f.main.ID, SetTranslationInput{Key: "title", Namespace: ns, Language: "en", Value: ns})
		require.NoError(t, err)
	}

	keys, err := f.translations.List(ctx, f.main.ID)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "", keys[0].Namespace)
	assert.Equal(t, "app", keys[1].Namespace)
	assert.Equal(t, "web", keys[2].Namespace)
}
