package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

const branchColumns = `id, space_id, name, is_default, source_branch_id, created_at, updated_at`

// FindSpace finds a space by its ID.
func (q queries) FindSpace(ctx context.Context, spaceID string) (*entities.Space, error) {
	var space entities.Space
	err := sqlx.GetContext(ctx, q.ext, &space,
		`SELECT id, project_id, name, created_at FROM spaces WHERE id = ?`, spaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning space: %w", translateError(err))
	}
	return &space, nil
}

// FindBranch finds a branch by its ID.
func (q queries) FindBranch(ctx context.Context, branchID string) (*entities.Branch, error) {
	return q.getBranch(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = ?`, branchID)
}

// FindBranchByName finds a branch by its exact name within a space.
func (q queries) FindBranchByName(ctx context.Context, spaceID, name string) (*entities.Branch, error) {
	return q.getBranch(ctx, `SELECT `+branchColumns+` FROM branches WHERE space_id = ? AND name = ?`, spaceID, name)
}

func (q queries) getBranch(ctx context.Context, query string, args ...any) (*entities.Branch, error) {
	var branch entities.Branch
	err := sqlx.GetContext(ctx, q.ext, &branch, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning branch: %w", translateError(err))
	}
	return &branch, nil
}

// ListBranches lists the branches of a space, oldest first.
func (q queries) ListBranches(ctx context.Context, spaceID string) ([]entities.Branch, error) {
	branches := []entities.Branch{}
	err := sqlx.SelectContext(ctx, q.ext, &branches,
		`SELECT `+branchColumns+` FROM branches WHERE space_id = ? ORDER BY created_at, name`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("querying branches: %w", translateError(err))
	}
	return branches, nil
}

// CountBranches returns the number of branches in a space.
func (q queries) CountBranches(ctx context.Context, spaceID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q.ext, &count, `SELECT COUNT(*) FROM branches WHERE space_id = ?`, spaceID)
	if err != nil {
		return 0, fmt.Errorf("counting branches: %w", translateError(err))
	}
	return count, nil
}

// CreateSpace inserts a space.
func (t *Tx) CreateSpace(ctx context.Context, space *entities.Space) error {
	_, err := t.ext.ExecContext(ctx,
		`INSERT INTO spaces (id, project_id, name, created_at) VALUES (?, ?, ?, ?)`,
		space.ID, space.ProjectID, space.Name, space.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving space: %w", translateError(err))
	}
	return nil
}

// CreateBranch inserts a branch. A name collision returns entities.ErrDuplicateBranchName.
func (t *Tx) CreateBranch(ctx context.Context, branch *entities.Branch) error {
	_, err := sqlx.NamedExecContext(ctx, t.ext, `
		INSERT INTO branches (`+branchColumns+`)
		VALUES (:id, :space_id, :name, :is_default, :source_branch_id, :created_at, :updated_at)
	`, branch)
	if isUniqueViolation(err) {
		return fmt.Errorf("saving branch %q: %w", branch.Name, entities.ErrDuplicateBranchName)
	}
	if err != nil {
		return fmt.Errorf("saving branch: %w", translateError(err))
	}
	return nil
}

// SetDefaultBranch marks branchID as the only default branch of its space.
func (t *Tx) SetDefaultBranch(ctx context.Context, spaceID, branchID string) error {
	now := timeNow()
	if _, err := t.ext.ExecContext(ctx,
		`UPDATE branches SET is_default = 0, updated_at = ? WHERE space_id = ? AND is_default = 1`,
		now, spaceID,
	); err != nil {
		return fmt.Errorf("clearing default branch: %w", translateError(err))
	}

	result, err := t.ext.ExecContext(ctx,
		`UPDATE branches SET is_default = 1, updated_at = ? WHERE space_id = ? AND id = ?`,
		now, spaceID, branchID,
	)
	if err != nil {
		return fmt.Errorf("setting default branch: %w", translateError(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("branch %s: %w", branchID, entities.ErrNotFound)
	}
	return nil
}

// DeleteBranch deletes a branch. Keys, translations and baselines cascade.
func (t *Tx) DeleteBranch(ctx context.Context, branchID string) error {
	result, err := t.ext.ExecContext(ctx, `DELETE FROM branches WHERE id = ?`, branchID)
	if err != nil {
		return fmt.Errorf("deleting branch: %w", translateError(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("branch %s: %w", branchID, entities.ErrNotFound)
	}
	return nil
}

// ReparentBranches points the copies of branchID at parentID and hands them
// the baseline branchID recorded against parentID.
func (t *Tx) ReparentBranches(ctx context.Context, branchID string, parentID *string) error {
	if parentID != nil {
		if _, err := t.ext.ExecContext(ctx, `
			INSERT INTO branch_baselines (branch_id, base_branch_id, namespace, name, language, value)
			SELECT c.id, b.base_branch_id, b.namespace, b.name, b.language, b.value
			FROM branches c
			JOIN branch_baselines b ON b.branch_id = c.source_branch_id
			WHERE c.source_branch_id = ? AND b.base_branch_id = ?
			ON CONFLICT(branch_id, base_branch_id, namespace, name, language) DO NOTHING
		`, branchID, *parentID); err != nil {
			return fmt.Errorf("inheriting baseline: %w", translateError(err))
		}
	}

	if _, err := t.ext.ExecContext(ctx,
		`UPDATE branches SET source_branch_id = ?, updated_at = ? WHERE source_branch_id = ?`,
		parentID, timeNow(), branchID,
	); err != nil {
		return fmt.Errorf("reparenting branches: %w", translateError(err))
	}
	return nil
}
