package entities

import "time"

// EventType names a domain event.
type EventType string

const (
	EventSpaceCreated   EventType = "space.created"
	EventBranchCreated  EventType = "branch.created"
	EventBranchDeleted  EventType = "branch.deleted"
	EventBranchesMerged EventType = "branches.merged"
)

// Event is a domain event published after a successful commit.
type Event interface {
	Type() EventType
}

// SpaceCreated is published when a space and its default branch are created.
type SpaceCreated struct {
	Space         Space     `json:"space"`
	DefaultBranch Branch    `json:"defaultBranch"`
	ActorID       string    `json:"actorId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Type implements Event.
func (SpaceCreated) Type() EventType { return EventSpaceCreated }

// BranchCreated is published when a branch has been copied from a source.
type BranchCreated struct {
	Branch           Branch    `json:"branch"`
	SourceBranchID   string    `json:"sourceBranchId"`
	SourceBranchName string    `json:"sourceBranchName"`
	ProjectID        string    `json:"projectId"`
	KeysCopied       int       `json:"keysCopied"`
	ActorID          string    `json:"actorId,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Type implements Event.
func (BranchCreated) Type() EventType { return EventBranchCreated }

// BranchDeleted is published after a branch and its content were removed.
type BranchDeleted struct {
	Branch     Branch    `json:"branch"`
	ProjectID  string    `json:"projectId"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Type implements Event.
func (BranchDeleted) Type() EventType { return EventBranchDeleted }

// BranchesMerged is published after a merge has been applied.
type BranchesMerged struct {
	SpaceID           string    `json:"spaceId"`
	ProjectID         string    `json:"projectId"`
	SourceBranchID    string    `json:"sourceBranchId"`
	SourceBranchName  string    `json:"sourceBranchName"`
	TargetBranchID    string    `json:"targetBranchId"`
	TargetBranchName  string    `json:"targetBranchName"`
	MergedCount       int       `json:"mergedCount"`
	ConflictsResolved int       `json:"conflictsResolved"`
	ActorID           string    `json:"actorId,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// Type implements Event.
func (BranchesMerged) Type() EventType { return EventBranchesMerged }
