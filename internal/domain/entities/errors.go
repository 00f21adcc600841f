package entities

import "errors"

// Sentinel errors shared by services and adapters. Wrap them with context
// and test with errors.Is.
var (
	// ErrNotFound means a referenced space, branch or key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBranchName means the space already has a branch with that name.
	ErrDuplicateBranchName = errors.New("branch name already exists in space")

	// ErrLastBranch means the branch is the only one left in its space.
	ErrLastBranch = errors.New("cannot delete the last branch of a space")

	// ErrInvalidResolution means merge resolutions do not match the conflict set.
	ErrInvalidResolution = errors.New("invalid merge resolution")

	// ErrInvalidInput means a request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConcurrentModification means a transaction lost a race with another
	// writer. The whole operation may be retried.
	ErrConcurrentModification = errors.New("concurrent modification")
)
