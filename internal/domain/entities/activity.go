package entities

import "time"

// ActivityEntry is a logged branch operation.
type ActivityEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	SpaceID   string         `json:"spaceId,omitempty"`
	BranchID  string         `json:"branchId,omitempty"`
	ActorID   string         `json:"actorId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
