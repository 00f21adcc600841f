package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

const keyColumns = `id, branch_id, name, namespace, source_file, description, created_at`

// ListKeys lists all keys of a branch ordered by namespace and name.
func (q queries) ListKeys(ctx context.Context, branchID string) ([]entities.TranslationKey, error) {
	keys := []entities.TranslationKey{}
	err := sqlx.SelectContext(ctx, q.ext, &keys,
		`SELECT `+keyColumns+` FROM translation_keys WHERE branch_id = ? ORDER BY namespace, name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", translateError(err))
	}
	return keys, nil
}

// FindKey finds a key of a branch by its natural identity.
func (q queries) FindKey(ctx context.Context, branchID string, key entities.NaturalKey) (*entities.TranslationKey, error) {
	var found entities.TranslationKey
	err := sqlx.GetContext(ctx, q.ext, &found,
		`SELECT `+keyColumns+` FROM translation_keys WHERE branch_id = ? AND namespace = ? AND name = ?`,
		branchID, key.Namespace, key.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning key: %w", translateError(err))
	}
	return &found, nil
}

// ListTranslations lists all translations of all keys of a branch.
func (q queries) ListTranslations(ctx context.Context, branchID string) ([]entities.Translation, error) {
	translations := []entities.Translation{}
	err := sqlx.SelectContext(ctx, q.ext, &translations, `
		SELECT t.id, t.key_id, t.language, t.value, t.status, t.updated_at
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		WHERE k.branch_id = ?
		ORDER BY t.key_id, t.language
	`, branchID)
	if err != nil {
		return nil, fmt.Errorf("querying translations: %w", translateError(err))
	}
	return translations, nil
}

// InsertKeys inserts a batch of keys.
func (t *Tx) InsertKeys(ctx context.Context, keys []entities.TranslationKey) error {
	columns := []string{"id", "branch_id", "name", "namespace", "source_file", "description", "created_at"}
	err := insertBatched(ctx, t.queries, "translation_keys", columns, keys, func(k *entities.TranslationKey) []any {
		return []any{k.ID, k.BranchID, k.Name, k.Namespace, k.SourceFile, k.Description, k.CreatedAt}
	})
	if err != nil {
		return fmt.Errorf("inserting keys: %w", err)
	}
	return nil
}

// DeleteKey deletes a key and its translations.
func (t *Tx) DeleteKey(ctx context.Context, keyID string) error {
	result, err := t.ext.ExecContext(ctx, `DELETE FROM translation_keys WHERE id = ?`, keyID)
	if err != nil {
		return fmt.Errorf("deleting key: %w", translateError(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("key %s: %w", keyID, entities.ErrNotFound)
	}
	return nil
}

// InsertTranslations inserts a batch of translations.
func (t *Tx) InsertTranslations(ctx context.Context, translations []entities.Translation) error {
	columns := []string{"id", "key_id", "language", "value", "status", "updated_at"}
	err := insertBatched(ctx, t.queries, "translations", columns, translations, func(tr *entities.Translation) []any {
		return []any{tr.ID, tr.KeyID, tr.Language, tr.Value, string(tr.Status), tr.UpdatedAt}
	})
	if err != nil {
		return fmt.Errorf("inserting translations: %w", err)
	}
	return nil
}

// UpsertTranslation inserts or replaces the translation of a key in one
// language. The ID of an existing row is kept and written back.
func (t *Tx) UpsertTranslation(ctx context.Context, translation *entities.Translation) error {
	query, args, err := sq.Insert("translations").
		Columns("id", "key_id", "language", "value", "status", "updated_at").
		Values(translation.ID, translation.KeyID, translation.Language, translation.Value,
			string(translation.Status), translation.UpdatedAt).
		Suffix(`ON CONFLICT(key_id, language) DO UPDATE SET
			value = excluded.value,
			status = excluded.status,
			updated_at = excluded.updated_at
		RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if err := t.ext.QueryRowxContext(ctx, query, args...).Scan(&translation.ID); err != nil {
		return fmt.Errorf("saving translation: %w", translateError(err))
	}
	return nil
}
