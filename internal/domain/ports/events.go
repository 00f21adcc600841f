package ports

import (
	"context"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// EventPublisher delivers domain events to subscribers.
// Publishing is fire-and-forget: subscriber failures never reach the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event entities.Event)
}

// ActivityLog stores the history of branch operations.
type ActivityLog interface {
	// LogActivity appends an entry to the activity log.
	LogActivity(ctx context.Context, entry *entities.ActivityEntry) error

	// ListActivity lists the most recent entries of a space, newest first.
	ListActivity(ctx context.Context, spaceID string, limit int) ([]entities.ActivityEntry, error)
}
