// Package entities contains core domain data structures.
package entities

import "time"

// DefaultBranchName is the name of the branch created together with a space.
const DefaultBranchName = "main"

// Space is a named container that owns one or more branches.
// A space always has exactly one default branch.
type Space struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"projectId" db:"project_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
