package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// ListBaseline lists the baseline recorded when branchID diverged from baseBranchID.
func (q queries) ListBaseline(ctx context.Context, branchID, baseBranchID string) ([]entities.BaselineEntry, error) {
	entries := []entities.BaselineEntry{}
	err := sqlx.SelectContext(ctx, q.ext, &entries, `
		SELECT branch_id, base_branch_id, name, namespace, language, value
		FROM branch_baselines
		WHERE branch_id = ? AND base_branch_id = ?
		ORDER BY namespace, name, language
	`, branchID, baseBranchID)
	if err != nil {
		return nil, fmt.Errorf("querying baseline: %w", translateError(err))
	}
	return entries, nil
}

// UpsertBaseline inserts or replaces baseline entries.
func (t *Tx) UpsertBaseline(ctx context.Context, entries []entities.BaselineEntry) error {
	for start := 0; start < len(entries); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(entries))
		stmt := sq.Insert("branch_baselines").
			Columns("branch_id", "base_branch_id", "namespace", "name", "language", "value").
			Suffix(`ON CONFLICT(branch_id, base_branch_id, namespace, name, language) DO UPDATE SET value = excluded.value`)
		for i := start; i < end; i++ {
			e := &entries[i]
			stmt = stmt.Values(e.BranchID, e.BaseBranchID, e.Namespace, e.Name, e.Language, e.Value)
		}
		if err := t.exec(ctx, stmt); err != nil {
			return fmt.Errorf("saving baseline: %w", err)
		}
	}
	return nil
}
