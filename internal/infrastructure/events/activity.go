package events

import (
	"context"
	"fmt"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// ActivitySubscriptions returns subscriptions that record every branch
// operation in the activity log.
func ActivitySubscriptions(log ports.ActivityLog) []Subscription {
	handler := func(ctx context.Context, event entities.Event) error {
		entry, ok := activityEntry(event)
		if !ok {
			return nil
		}
		if err := log.LogActivity(ctx, entry); err != nil {
			return fmt.Errorf("logging activity: %w", err)
		}
		return nil
	}

	return []Subscription{
		{Name: "activity", Type: entities.EventSpaceCreated, Handler: handler},
		{Name: "activity", Type: entities.EventBranchCreated, Handler: handler},
		{Name: "activity", Type: entities.EventBranchDeleted, Handler: handler},
		{Name: "activity", Type: entities.EventBranchesMerged, Handler: handler},
	}
}

// activityEntry converts an event into a log entry.
func activityEntry(event entities.Event) (*entities.ActivityEntry, bool) {
	switch e := event.(type) {
	case entities.SpaceCreated:
		return &entities.ActivityEntry{
			Action:   string(e.Type()),
			SpaceID:  e.Space.ID,
			BranchID: e.DefaultBranch.ID,
			ActorID:  e.ActorID,
			Details: map[string]any{
				"projectId": e.Space.ProjectID,
				"name":      e.Space.Name,
			},
			CreatedAt: e.OccurredAt,
		}, true
	case entities.BranchCreated:
		return &entities.ActivityEntry{
			Action:   string(e.Type()),
			SpaceID:  e.Branch.SpaceID,
			BranchID: e.Branch.ID,
			ActorID:  e.ActorID,
			Details: map[string]any{
				"projectId":        e.ProjectID,
				"name":             e.Branch.Name,
				"sourceBranchId":   e.SourceBranchID,
				"sourceBranchName": e.SourceBranchName,
				"keysCopied":       e.KeysCopied,
			},
			CreatedAt: e.OccurredAt,
		}, true
	case entities.BranchDeleted:
		return &entities.ActivityEntry{
			Action:   string(e.Type()),
			SpaceID:  e.Branch.SpaceID,
			BranchID: e.Branch.ID,
			ActorID:  e.ActorID,
			Details: map[string]any{
				"projectId": e.ProjectID,
				"name":      e.Branch.Name,
			},
			CreatedAt: e.OccurredAt,
		}, true
	case entities.BranchesMerged:
		return &entities.ActivityEntry{
			Action:   string(e.Type()),
			SpaceID:  e.SpaceID,
			BranchID: e.TargetBranchID,
			ActorID:  e.ActorID,
			Details: map[string]any{
				"projectId":         e.ProjectID,
				"sourceBranchId":    e.SourceBranchID,
				"sourceBranchName":  e.SourceBranchName,
				"targetBranchName":  e.TargetBranchName,
				"mergedCount":       e.MergedCount,
				"conflictsResolved": e.ConflictsResolved,
			},
			CreatedAt: e.OccurredAt,
		}, true
	default:
		return nil, false
	}
}
