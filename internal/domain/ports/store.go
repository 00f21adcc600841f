// Package ports defines interfaces for storage and event delivery.
package ports

import (
	"context"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// Reader defines read access to spaces, branches and branch content.
// Find methods return (nil, nil) when the row does not exist.
type Reader interface {
	// FindSpace finds a space by its ID.
	FindSpace(ctx context.Context, spaceID string) (*entities.Space, error)

	// FindBranch finds a branch by its ID.
	FindBranch(ctx context.Context, branchID string) (*entities.Branch, error)

	// FindBranchByName finds a branch by its exact (case-sensitive) name within a space.
	FindBranchByName(ctx context.Context, spaceID, name string) (*entities.Branch, error)

	// ListBranches lists the branches of a space, oldest first.
	ListBranches(ctx context.Context, spaceID string) ([]entities.Branch, error)

	// CountBranches returns the number of branches in a space.
	CountBranches(ctx context.Context, spaceID string) (int, error)

	// ListKeys lists all keys of a branch ordered by namespace and name.
	ListKeys(ctx context.Context, branchID string) ([]entities.TranslationKey, error)

	// FindKey finds a key of a branch by its natural identity.
	FindKey(ctx context.Context, branchID string, key entities.NaturalKey) (*entities.TranslationKey, error)

	// ListTranslations lists all translations of all keys of a branch.
	ListTranslations(ctx context.Context, branchID string) ([]entities.Translation, error)

	// ListBaseline lists the baseline recorded when branchID diverged from baseBranchID.
	ListBaseline(ctx context.Context, branchID, baseBranchID string) ([]entities.BaselineEntry, error)
}

// Writer defines mutations. Writers are only handed out inside a transaction.
type Writer interface {
	// CreateSpace inserts a space.
	CreateSpace(ctx context.Context, space *entities.Space) error

	// CreateBranch inserts a branch. A name collision within the space
	// returns entities.ErrDuplicateBranchName.
	CreateBranch(ctx context.Context, branch *entities.Branch) error

	// SetDefaultBranch marks branchID as the only default branch of its space.
	SetDefaultBranch(ctx context.Context, spaceID, branchID string) error

	// ReparentBranches points the copies of branchID at parentID. When
	// parentID is set, each copy inherits the baseline branchID recorded
	// against parentID for every value it has no baseline row of its own.
	// A nil parentID clears the copies' lineage.
	ReparentBranches(ctx context.Context, branchID string, parentID *string) error

	// DeleteBranch deletes a branch. Keys, translations and baseline rows cascade.
	DeleteBranch(ctx context.Context, branchID string) error

	// InsertKeys inserts a batch of keys.
	InsertKeys(ctx context.Context, keys []entities.TranslationKey) error

	// DeleteKey deletes a key and its translations.
	DeleteKey(ctx context.Context, keyID string) error

	// InsertTranslations inserts a batch of translations.
	InsertTranslations(ctx context.Context, translations []entities.Translation) error

	// UpsertTranslation inserts or replaces the translation of a key in one language.
	UpsertTranslation(ctx context.Context, translation *entities.Translation) error

	// UpsertBaseline inserts or replaces baseline entries.
	UpsertBaseline(ctx context.Context, entries []entities.BaselineEntry) error
}

// Tx is a unit of work. Everything done through it commits or rolls back together.
type Tx interface {
	Reader
	Writer
}

// Store is the transactional relational store backing the branch engine.
type Store interface {
	Reader

	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise. Lost races surface as entities.ErrConcurrentModification.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
