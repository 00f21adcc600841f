// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/lingo-core/internal/domain/ports"
	"github.com/ersonp/lingo-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// maxRowsPerInsert bounds multi-row INSERT statements well below SQLite's
// host parameter limit.
const maxRowsPerInsert = 500

var (
	_ ports.Store       = (*Repository)(nil)
	_ ports.ActivityLog = (*Repository)(nil)
	_ ports.Tx          = (*Tx)(nil)
)

// Repository implements ports.Store and ports.ActivityLog using SQLite.
type Repository struct {
	queries
	db   *sqlx.DB
	path string
}

// queries holds the statements shared by the repository and transactions.
type queries struct {
	ext sqlx.ExtContext
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: write transactions are serialized and an in-memory
	// database is shared by every query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys for referential integrity and cascades
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		queries: queries{ext: db},
		db:      db,
		path:    cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Spaces (containers of branches)
	CREATE TABLE IF NOT EXISTS spaces (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_spaces_project ON spaces(project_id);

	-- Branches (independently mutable copies of a space's content)
	CREATE TABLE IF NOT EXISTS branches (
		id TEXT PRIMARY KEY,
		space_id TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0,
		source_branch_id TEXT REFERENCES branches(id) ON DELETE SET NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(space_id, name)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_branches_default ON branches(space_id) WHERE is_default = 1;
	CREATE INDEX IF NOT EXISTS idx_branches_source ON branches(source_branch_id);

	-- Translation keys (scoped to one branch, identified by namespace + name)
	CREATE TABLE IF NOT EXISTS translation_keys (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		namespace TEXT NOT NULL DEFAULT '',
		source_file TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(branch_id, namespace, name)
	);

	-- Translations (one value per key and language)
	CREATE TABLE IF NOT EXISTS translations (
		id TEXT PRIMARY KEY,
		key_id TEXT NOT NULL REFERENCES translation_keys(id) ON DELETE CASCADE,
		language TEXT NOT NULL,
		value TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'translated',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(key_id, language)
	);

	-- Branch baselines (merge base of a branch pair)
	CREATE TABLE IF NOT EXISTS branch_baselines (
		branch_id TEXT NOT NULL REFERENCES branches(id) ON DELETE CASCADE,
		base_branch_id TEXT NOT NULL REFERENCES branches(id) ON DELETE CASCADE,
		namespace TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		language TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (branch_id, base_branch_id, namespace, name, language)
	);
	CREATE INDEX IF NOT EXISTS idx_branch_baselines_base ON branch_baselines(base_branch_id);

	-- Activity log (history of branch operations; survives deletes)
	CREATE TABLE IF NOT EXISTS activity_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		space_id TEXT,
		branch_id TEXT,
		actor_id TEXT,
		details TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_activity_log_space ON activity_log(space_id, id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Tx is a SQLite transaction implementing ports.Tx.
type Tx struct {
	queries
}

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back otherwise.
func (r *Repository) WithTx(ctx context.Context, fn func(tx ports.Tx) error) (err error) {
	sqlTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", translateError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{queries: queries{ext: sqlTx}}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", translateError(err))
	}
	return nil
}

// exec builds and executes a squirrel statement.
func (q queries) exec(ctx context.Context, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := q.ext.ExecContext(ctx, query, args...); err != nil {
		return translateError(err)
	}
	return nil
}

// insertBatched inserts rows with one multi-row statement per chunk.
func insertBatched[T any](ctx context.Context, q queries, table string, columns []string, rows []T, values func(*T) []any) error {
	for start := 0; start < len(rows); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(rows))
		stmt := sq.Insert(table).Columns(columns...)
		for i := start; i < end; i++ {
			stmt = stmt.Values(values(&rows[i])...)
		}
		if err := q.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
