package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/mocks"
)

func TestBranchService_Create_CopiesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "en", "Hi")
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	f.set(t, f.main.ID, "farewell", "en", "Bye")
	_, err := f.translations.Set(ctx, f.main.ID, SetTranslationInput{
		Key: "title", Namespace: "web", Language: "en", Value: "Title", Status: entities.StatusApproved,
	})
	require.NoError(t, err)

	feature := f.branch(t, "feature")

	assert.Equal(t, "feature", feature.Name)
	assert.False(t, feature.IsDefault)
	assert.True(t, feature.CopiedFrom(f.main.ID))
	assert.Equal(t, f.values(t, f.main.ID), f.values(t, feature.ID))

	mainKeys, err := f.translations.List(ctx, f.main.ID)
	require.NoError(t, err)
	featureKeys, err := f.translations.List(ctx, feature.ID)
	require.NoError(t, err)
	require.Len(t, featureKeys, len(mainKeys))
	for i := range featureKeys {
		assert.NotEqual(t, mainKeys[i].ID, featureKeys[i].ID, "copied keys get fresh ids")
		assert.Equal(t, feature.ID, featureKeys[i].BranchID)
		for j := range featureKeys[i].Translations {
			assert.Equal(t, featureKeys[i].ID, featureKeys[i].Translations[j].KeyID)
			assert.Equal(t, mainKeys[i].Translations[j].Status, featureKeys[i].Translations[j].Status)
		}
	}

	entries, err := f.store.ListBaseline(ctx, feature.ID, f.main.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	events := f.publisher.OfType(entities.EventBranchCreated)
	require.Len(t, events, 1)
	created := events[0].(entities.BranchCreated)
	assert.Equal(t, feature.ID, created.Branch.ID)
	assert.Equal(t, f.main.ID, created.SourceBranchID)
	assert.Equal(t, "main", created.SourceBranchName)
	assert.Equal(t, "proj-1", created.ProjectID)
	assert.Equal(t, 3, created.KeysCopied)
	assert.Equal(t, "user-1", created.ActorID)
}

func TestBranchService_Create_Independent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	f.set(t, f.main.ID, "farewell", "de", "Tschüss")
	feature := f.branch(t, "feature")

	f.set(t, feature.ID, "greeting", "de", "Servus")
	f.set(t, feature.ID, "feature_only", "de", "Neu")
	require.NoError(t, f.translations.DeleteKey(ctx, feature.ID, "farewell", ""))

	assert.Equal(t, map[string]map[string]string{
		"greeting": {"de": "Hallo"},
		"farewell": {"de": "Tschüss"},
	}, f.values(t, f.main.ID))

	f.set(t, f.main.ID, "greeting", "de", "Moin")
	assert.Equal(t, "Servus", f.values(t, feature.ID)["greeting"]["de"])
}

func TestBranchService_Create_Batches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.set(t, f.main.ID, fmt.Sprintf("key_%02d", i), "en", fmt.Sprintf("value %d", i))
	}

	branches := NewBranchService(f.store, f.publisher, WithCopyBatchSize(3))
	feature, err := branches.Create(ctx, CreateBranchInput{SpaceID: f.space.ID, Name: "feature", SourceBranchID: f.main.ID})
	require.NoError(t, err)

	assert.Equal(t, f.values(t, f.main.ID), f.values(t, feature.ID))
}

func TestBranchService_Create_EmptySource(t *testing.T) {
	f := newFixture(t)
	feature := f.branch(t, "feature")

	keys, err := f.translations.List(context.Background(), feature.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBranchService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other, err := f.spaces.Create(ctx, "proj-1", "mobile", "")
	require.NoError(t, err)
	otherMain, err := f.spaces.DefaultBranch(ctx, other.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input CreateBranchInput
		err   error
	}{
		{
			name:  "empty name",
			input: CreateBranchInput{SpaceID: f.space.ID, Name: "   ", SourceBranchID: f.main.ID},
			err:   entities.ErrInvalidInput,
		},
		{
			name:  "invalid characters",
			input: CreateBranchInput{SpaceID: f.space.ID, Name: "my branch!", SourceBranchID: f.main.ID},
			err:   entities.ErrInvalidInput,
		},
		{
			name:  "missing space",
			input: CreateBranchInput{SpaceID: "missing", Name: "feature", SourceBranchID: f.main.ID},
			err:   entities.ErrNotFound,
		},
		{
			name:  "missing source",
			input: CreateBranchInput{SpaceID: f.space.ID, Name: "feature", SourceBranchID: "missing"},
			err:   entities.ErrNotFound,
		},
		{
			name:  "source in another space",
			input: CreateBranchInput{SpaceID: f.space.ID, Name: "feature", SourceBranchID: otherMain.ID},
			err:   entities.ErrNotFound,
		},
		{
			name:  "duplicate name",
			input: CreateBranchInput{SpaceID: f.space.ID, Name: "main", SourceBranchID: f.main.ID},
			err:   entities.ErrDuplicateBranchName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.branches.Create(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	branches, err := f.branches.List(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 1)
}

func TestBranchService_Create_NamesAreCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.branch(t, "Feature")
	f.branch(t, "feature")

	branches, err := f.branches.List(context.Background(), f.space.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 3)
}

func TestBranchService_Create_DuplicateAtCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Simulates a concurrent writer that inserted the same name after the pre-check.
	f.store.FailOn["CreateBranch"] = entities.ErrDuplicateBranchName

	_, err := f.branches.Create(ctx, CreateBranchInput{SpaceID: f.space.ID, Name: "feature", SourceBranchID: f.main.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrDuplicateBranchName)
	assert.Empty(t, f.publisher.OfType(entities.EventBranchCreated))
}

func TestBranchService_Create_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	f.store.FailOn["UpsertBaseline"] = errors.New("disk full")

	_, err := f.branches.Create(ctx, CreateBranchInput{SpaceID: f.space.ID, Name: "feature", SourceBranchID: f.main.ID})
	require.Error(t, err)

	branch, err := f.store.FindBranchByName(ctx, f.space.ID, "feature")
	require.NoError(t, err)
	assert.Nil(t, branch)
}

func TestBranchService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	feature := f.branch(t, "feature")
	child := f.branchFrom(t, "child", feature.ID)

	require.NoError(t, f.branches.Delete(ctx, feature.ID, "user-3"))

	_, err := f.branches.Get(ctx, feature.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	keys, err := f.store.ListKeys(ctx, feature.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
	translations, err := f.store.ListTranslations(ctx, feature.ID)
	require.NoError(t, err)
	assert.Empty(t, translations)
	entries, err := f.store.ListBaseline(ctx, feature.ID, f.main.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other branches keep their content; copies move to the deleted branch's source.
	assert.Equal(t, "Hallo", f.values(t, f.main.ID)["greeting"]["de"])
	remaining, err := f.branches.Get(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining.SourceBranchID)
	assert.Equal(t, f.main.ID, *remaining.SourceBranchID)
	assert.Equal(t, "Hallo", f.values(t, child.ID)["greeting"]["de"])

	events := f.publisher.OfType(entities.EventBranchDeleted)
	require.Len(t, events, 1)
	deleted := events[0].(entities.BranchDeleted)
	assert.Equal(t, feature.ID, deleted.Branch.ID)
	assert.Equal(t, "user-3", deleted.ActorID)
}

func TestBranchService_Delete_CopiesKeepMergeBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	f.set(t, f.main.ID, "farewell", "de", "Tschüss")
	feature := f.branch(t, "feature")
	f.set(t, feature.ID, "farewell", "de", "Ciao")
	sub := f.branchFrom(t, "feature/sub", feature.ID)
	f.set(t, sub.ID, "greeting", "de", "Servus")

	require.NoError(t, f.branches.Delete(ctx, feature.ID, "user-1"))

	// The copy inherits the baseline the deleted branch held against main,
	// so both the inherited and the own edit are plain modifications.
	entries, err := f.store.ListBaseline(ctx, sub.ID, f.main.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	diff, err := f.diffs.Diff(ctx, sub.ID, f.main.ID)
	require.NoError(t, err)
	assert.Empty(t, diff.Conflicts)
	require.Len(t, diff.Modified, 2)
	assert.Equal(t, "farewell", diff.Modified[0].Name)
	assert.Equal(t, "Ciao", diff.Modified[0].Source)
	assert.Equal(t, "greeting", diff.Modified[1].Name)
	assert.Equal(t, "Servus", diff.Modified[1].Source)

	result, err := f.merges.Merge(ctx, MergeInput{SourceBranchID: sub.ID, TargetBranchID: f.main.ID})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Servus", f.values(t, f.main.ID)["greeting"]["de"])
}

func TestBranchService_Delete_KeepsOwnBaselineRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(t, f.main.ID, "greeting", "de", "Hallo")
	feature := f.branch(t, "feature")
	sub := f.branchFrom(t, "feature/sub", feature.ID)
	f.set(t, sub.ID, "greeting", "de", "Servus")

	// Merging sub straight into main records the pair's own baseline.
	_, err := f.merges.Merge(ctx, MergeInput{SourceBranchID: sub.ID, TargetBranchID: f.main.ID})
	require.NoError(t, err)

	require.NoError(t, f.branches.Delete(ctx, feature.ID, "user-1"))
	f.set(t, f.main.ID, "greeting", "de", "Moin")

	// Only main changed since the merge, so there is nothing to bring over.
	diff, err := f.diffs.Diff(ctx, sub.ID, f.main.ID)
	require.NoError(t, err)
	assert.True(t, diff.IsEmpty())
}

func TestBranchService_Delete_RootClearsLineage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	feature := f.branch(t, "feature")

	require.NoError(t, f.branches.Delete(ctx, f.main.ID, "user-1"))

	remaining, err := f.branches.Get(ctx, feature.ID)
	require.NoError(t, err)
	assert.Nil(t, remaining.SourceBranchID)
	assert.True(t, remaining.IsDefault)
}

func TestBranchService_Delete_LastBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.branches.Delete(ctx, f.main.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrLastBranch)

	_, err = f.branches.Get(ctx, f.main.ID)
	require.NoError(t, err)
	assert.Empty(t, f.publisher.OfType(entities.EventBranchDeleted))
}

func TestBranchService_Delete_PromotesDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	feature := f.branch(t, "feature")
	f.branch(t, "later")

	require.NoError(t, f.branches.Delete(ctx, f.main.ID, ""))

	promoted, err := f.spaces.DefaultBranch(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, feature.ID, promoted.ID)
}

func TestBranchService_Delete_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.branches.Delete(context.Background(), "missing", "")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestBranchService_List_MissingSpace(t *testing.T) {
	branches := NewBranchService(mocks.NewStore(), nil)

	_, err := branches.List(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		items    []int
		size     int
		expected [][]int
	}{
		{name: "empty", items: nil, size: 3, expected: nil},
		{name: "exact", items: []int{1, 2, 3, 4}, size: 2, expected: [][]int{{1, 2}, {3, 4}}},
		{name: "remainder", items: []int{1, 2, 3}, size: 2, expected: [][]int{{1, 2}, {3}}},
		{name: "zero size means one chunk", items: []int{1, 2, 3}, size: 0, expected: [][]int{{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chunk(tt.items, tt.size))
		})
	}
}
