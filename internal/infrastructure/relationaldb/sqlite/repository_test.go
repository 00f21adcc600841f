package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
	"github.com/ersonp/lingo-core/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

// seedSpace creates a space with a default branch.
func seedSpace(t *testing.T, repo *Repository) (*entities.Space, *entities.Branch) {
	t.Helper()
	now := time.Now().UTC()
	space := &entities.Space{ID: "space-1", ProjectID: "proj-1", Name: "web", CreatedAt: now}
	main := &entities.Branch{ID: "main", SpaceID: space.ID, Name: "main", IsDefault: true, CreatedAt: now, UpdatedAt: now}

	err := repo.WithTx(context.Background(), func(tx ports.Tx) error {
		if err := tx.CreateSpace(context.Background(), space); err != nil {
			return err
		}
		return tx.CreateBranch(context.Background(), main)
	})
	require.NoError(t, err)
	return space, main
}

// seedBranch creates a branch copied from sourceID.
func seedBranch(t *testing.T, repo *Repository, id, name, sourceID string, createdAt time.Time) *entities.Branch {
	t.Helper()
	src := sourceID
	branch := &entities.Branch{ID: id, SpaceID: "space-1", Name: name, SourceBranchID: &src, CreatedAt: createdAt, UpdatedAt: createdAt}
	err := repo.WithTx(context.Background(), func(tx ports.Tx) error {
		return tx.CreateBranch(context.Background(), branch)
	})
	require.NoError(t, err)
	return branch
}

// seedKey creates a key with translations (language -> value).
func seedKey(t *testing.T, repo *Repository, branchID, id, name, namespace string, values map[string]string) {
	t.Helper()
	now := time.Now().UTC()
	err := repo.WithTx(context.Background(), func(tx ports.Tx) error {
		key := entities.TranslationKey{ID: id, BranchID: branchID, Name: name, Namespace: namespace, CreatedAt: now}
		if err := tx.InsertKeys(context.Background(), []entities.TranslationKey{key}); err != nil {
			return err
		}
		var translations []entities.Translation
		for lang, v := range values {
			translations = append(translations, entities.Translation{
				ID: id + "-" + lang, KeyID: id, Language: lang, Value: v, Status: entities.StatusTranslated, UpdatedAt: now,
			})
		}
		return tx.InsertTranslations(context.Background(), translations)
	})
	require.NoError(t, err)
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	tables := []string{"spaces", "branches", "translation_keys", "translations", "branch_baselines", "activity_log"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Branches(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	space, main := seedSpace(t, repo)
	feature := seedBranch(t, repo, "feature", "feature", main.ID, main.CreatedAt.Add(time.Second))

	found, err := repo.FindSpace(ctx, space.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "proj-1", found.ProjectID)

	branch, err := repo.FindBranch(ctx, feature.ID)
	require.NoError(t, err)
	require.NotNil(t, branch)
	assert.Equal(t, "feature", branch.Name)
	assert.False(t, branch.IsDefault)
	require.NotNil(t, branch.SourceBranchID)
	assert.Equal(t, main.ID, *branch.SourceBranchID)

	byName, err := repo.FindBranchByName(ctx, space.ID, "main")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.True(t, byName.IsDefault)
	assert.Nil(t, byName.SourceBranchID)

	// Names are case-sensitive.
	upper, err := repo.FindBranchByName(ctx, space.ID, "MAIN")
	require.NoError(t, err)
	assert.Nil(t, upper)

	branches, err := repo.ListBranches(ctx, space.ID)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "main", branches[0].Name)
	assert.Equal(t, "feature", branches[1].Name)

	count, err := repo.CountBranches(ctx, space.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	missing, err := repo.FindBranch(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_CreateBranch_Duplicate(t *testing.T) {
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)

	err := repo.WithTx(context.Background(), func(tx ports.Tx) error {
		return tx.CreateBranch(context.Background(), &entities.Branch{
			ID: "other", SpaceID: main.SpaceID, Name: "main", CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrDuplicateBranchName)
}

func TestRepository_SetDefaultBranch(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	space, main := seedSpace(t, repo)
	feature := seedBranch(t, repo, "feature", "feature", main.ID, main.CreatedAt.Add(time.Second))

	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.SetDefaultBranch(ctx, space.ID, feature.ID)
	})
	require.NoError(t, err)

	branches, err := repo.ListBranches(ctx, space.ID)
	require.NoError(t, err)
	assert.False(t, branches[0].IsDefault)
	assert.True(t, branches[1].IsDefault)

	err = repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.SetDefaultBranch(ctx, space.ID, "missing")
	})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_KeysAndTranslations(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	seedKey(t, repo, main.ID, "k-2", "title", "web", map[string]string{"en": "Title"})
	seedKey(t, repo, main.ID, "k-1", "greeting", "", map[string]string{"en": "Hi", "de": "Hallo"})

	keys, err := repo.ListKeys(ctx, main.ID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "greeting", keys[0].Name)
	assert.Equal(t, "web", keys[1].Namespace)

	key, err := repo.FindKey(ctx, main.ID, entities.NaturalKey{Name: "title", Namespace: "web"})
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "k-2", key.ID)

	none, err := repo.FindKey(ctx, main.ID, entities.NaturalKey{Name: "title"})
	require.NoError(t, err)
	assert.Nil(t, none)

	translations, err := repo.ListTranslations(ctx, main.ID)
	require.NoError(t, err)
	require.Len(t, translations, 3)
	assert.Equal(t, "de", translations[0].Language)
	assert.Equal(t, "Hallo", translations[0].Value)
	assert.Equal(t, entities.StatusTranslated, translations[0].Status)
}

func TestRepository_UpsertTranslation(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	seedKey(t, repo, main.ID, "k-1", "greeting", "", map[string]string{"de": "Hallo"})

	update := &entities.Translation{
		ID: "new-id", KeyID: "k-1", Language: "de", Value: "Servus", Status: entities.StatusApproved, UpdatedAt: time.Now(),
	}
	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.UpsertTranslation(ctx, update)
	})
	require.NoError(t, err)
	assert.Equal(t, "k-1-de", update.ID, "existing row id is kept")

	translations, err := repo.ListTranslations(ctx, main.ID)
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, "Servus", translations[0].Value)
	assert.Equal(t, entities.StatusApproved, translations[0].Status)
}

func TestRepository_InsertKeys_ConflictIsConcurrentModification(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	seedKey(t, repo, main.ID, "k-1", "greeting", "", nil)

	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.InsertKeys(ctx, []entities.TranslationKey{
			{ID: "k-2", BranchID: main.ID, Name: "greeting", CreatedAt: time.Now()},
		})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrConcurrentModification)
}

func TestRepository_InsertKeys_LargeBatch(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)

	keys := make([]entities.TranslationKey, 1234)
	for i := range keys {
		keys[i] = entities.TranslationKey{
			ID:        fmt.Sprintf("k-%d", i),
			BranchID:  main.ID,
			Name:      fmt.Sprintf("key.%04d", i),
			CreatedAt: time.Now(),
		}
	}
	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.InsertKeys(ctx, keys)
	})
	require.NoError(t, err)

	listed, err := repo.ListKeys(ctx, main.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1234)
}

func TestRepository_Baseline(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	feature := seedBranch(t, repo, "feature", "feature", main.ID, main.CreatedAt.Add(time.Second))

	entries := []entities.BaselineEntry{
		{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "de", Value: "Hallo"},
		{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "en", Value: "Hi"},
	}
	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		if err := tx.UpsertBaseline(ctx, entries); err != nil {
			return err
		}
		return tx.UpsertBaseline(ctx, []entities.BaselineEntry{
			{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "de", Value: "Servus"},
		})
	})
	require.NoError(t, err)

	got, err := repo.ListBaseline(ctx, feature.ID, main.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Servus", got[0].Value)
	assert.Equal(t, "Hi", got[1].Value)

	reverse, err := repo.ListBaseline(ctx, main.ID, feature.ID)
	require.NoError(t, err)
	assert.Empty(t, reverse)
}

func TestRepository_ReparentBranches(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	feature := seedBranch(t, repo, "feature", "feature", main.ID, main.CreatedAt.Add(time.Second))
	child := seedBranch(t, repo, "child", "child", feature.ID, main.CreatedAt.Add(2*time.Second))
	other := seedBranch(t, repo, "other", "other", main.ID, main.CreatedAt.Add(3*time.Second))

	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		if err := tx.UpsertBaseline(ctx, []entities.BaselineEntry{
			{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "de", Value: "Hallo"},
			{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "en", Value: "Hi"},
			{BranchID: child.ID, BaseBranchID: feature.ID, Name: "greeting", Language: "de", Value: "Moin"},
			{BranchID: child.ID, BaseBranchID: main.ID, Name: "greeting", Language: "de", Value: "Servus"},
		}); err != nil {
			return err
		}
		if err := tx.ReparentBranches(ctx, feature.ID, &main.ID); err != nil {
			return err
		}
		return tx.DeleteBranch(ctx, feature.ID)
	})
	require.NoError(t, err)

	remaining, err := repo.FindBranch(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining.SourceBranchID)
	assert.Equal(t, main.ID, *remaining.SourceBranchID)

	// Rows the child already had against main win over inherited ones.
	inherited, err := repo.ListBaseline(ctx, child.ID, main.ID)
	require.NoError(t, err)
	require.Len(t, inherited, 2)
	assert.Equal(t, "Servus", inherited[0].Value)
	assert.Equal(t, "Hi", inherited[1].Value)

	untouched, err := repo.FindBranch(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, main.ID, *untouched.SourceBranchID)
	otherBaseline, err := repo.ListBaseline(ctx, other.ID, main.ID)
	require.NoError(t, err)
	assert.Empty(t, otherBaseline)

	err = repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.ReparentBranches(ctx, main.ID, nil)
	})
	require.NoError(t, err)
	orphan, err := repo.FindBranch(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.SourceBranchID)
}

func TestRepository_DeleteBranch_Cascades(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)
	feature := seedBranch(t, repo, "feature", "feature", main.ID, main.CreatedAt.Add(time.Second))
	child := seedBranch(t, repo, "child", "child", feature.ID, main.CreatedAt.Add(2*time.Second))
	seedKey(t, repo, feature.ID, "fk-1", "greeting", "", map[string]string{"de": "Hallo"})
	seedKey(t, repo, main.ID, "mk-1", "greeting", "", map[string]string{"de": "Hallo"})

	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		if err := tx.UpsertBaseline(ctx, []entities.BaselineEntry{
			{BranchID: feature.ID, BaseBranchID: main.ID, Name: "greeting", Language: "de", Value: "Hallo"},
			{BranchID: child.ID, BaseBranchID: feature.ID, Name: "greeting", Language: "de", Value: "Hallo"},
		}); err != nil {
			return err
		}
		return tx.DeleteBranch(ctx, feature.ID)
	})
	require.NoError(t, err)

	for _, table := range []string{"translation_keys", "branch_baselines"} {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE branch_id = ?`, feature.ID).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "%s rows of the deleted branch", table)
	}
	var orphans int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM translations WHERE key_id = 'fk-1'`).Scan(&orphans))
	assert.Zero(t, orphans)

	childBaseline, err := repo.ListBaseline(ctx, child.ID, feature.ID)
	require.NoError(t, err)
	assert.Empty(t, childBaseline)

	remaining, err := repo.FindBranch(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Nil(t, remaining.SourceBranchID)

	mainTranslations, err := repo.ListTranslations(ctx, main.ID)
	require.NoError(t, err)
	assert.Len(t, mainTranslations, 1)

	err = repo.WithTx(ctx, func(tx ports.Tx) error {
		return tx.DeleteBranch(ctx, feature.ID)
	})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_WithTx_RollsBack(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx ports.Tx) error {
		if err := tx.InsertKeys(ctx, []entities.TranslationKey{
			{ID: "k-1", BranchID: main.ID, Name: "greeting", CreatedAt: time.Now()},
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	keys, err := repo.ListKeys(ctx, main.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRepository_WithTx_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	_, main := seedSpace(t, repo)

	assert.Panics(t, func() {
		_ = repo.WithTx(ctx, func(tx ports.Tx) error {
			_ = tx.InsertKeys(ctx, []entities.TranslationKey{
				{ID: "k-1", BranchID: main.ID, Name: "greeting", CreatedAt: time.Now()},
			})
			panic("boom")
		})
	})

	keys, err := repo.ListKeys(ctx, main.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRepository_ActivityLog(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	for i, action := range []string{"branch.created", "branches.merged", "branch.deleted"} {
		entry := &entities.ActivityEntry{
			Action:   action,
			SpaceID:  "space-1",
			BranchID: "b-1",
			ActorID:  "user-1",
			Details:  map[string]any{"mergedCount": i},
		}
		require.NoError(t, repo.LogActivity(ctx, entry))
		assert.NotZero(t, entry.ID)
	}
	require.NoError(t, repo.LogActivity(ctx, &entities.ActivityEntry{Action: "space.created", SpaceID: "space-2"}))

	entries, err := repo.ListActivity(ctx, "space-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "branch.deleted", entries[0].Action)
	assert.Equal(t, "branches.merged", entries[1].Action)
	assert.Equal(t, float64(1), entries[1].Details["mergedCount"])
	assert.Equal(t, "user-1", entries[1].ActorID)

	all, err := repo.ListActivity(ctx, "space-2", 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].Details)
	assert.Empty(t, all[0].BranchID)
}
