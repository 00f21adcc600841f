package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// LogActivity appends an entry to the activity log.
func (r *Repository) LogActivity(ctx context.Context, entry *entities.ActivityEntry) error {
	var detailsJSON sql.NullString
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (action, space_id, branch_id, actor_id, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Action,
		nullString(entry.SpaceID),
		nullString(entry.BranchID),
		nullString(entry.ActorID),
		detailsJSON,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("logging activity: %w", translateError(err))
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListActivity lists the most recent entries of a space, newest first.
func (r *Repository) ListActivity(ctx context.Context, spaceID string, limit int) ([]entities.ActivityEntry, error) {
	stmt := sq.Select("id", "action", "space_id", "branch_id", "actor_id", "details", "created_at").
		From("activity_log").
		Where(sq.Eq{"space_id": spaceID}).
		OrderBy("id DESC")
	if limit > 0 {
		stmt = stmt.Limit(uint64(limit))
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity log: %w", translateError(err))
	}
	defer rows.Close()

	entries := make([]entities.ActivityEntry, 0, max(limit, 0))
	for rows.Next() {
		var entry entities.ActivityEntry
		var space, branch, actor, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&space,
			&branch,
			&actor,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}

		entry.SpaceID = space.String
		entry.BranchID = branch.String
		entry.ActorID = actor.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity log: %w", err)
	}
	return entries, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
