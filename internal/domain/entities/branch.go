package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxBranchNameLength is the longest accepted branch name.
const MaxBranchNameLength = 100

// validBranchNameRegex allows the characters commonly used in branch names
// (feature/x, release-1.2, fix_typo).
var validBranchNameRegex = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// Branch is an independently mutable copy of a space's keys and translations.
type Branch struct {
	ID        string `json:"id" db:"id"`
	SpaceID   string `json:"spaceId" db:"space_id"`
	Name      string `json:"name" db:"name"`
	IsDefault bool   `json:"isDefault" db:"is_default"`
	// SourceBranchID is the branch this one was copied from. Nil for the
	// default branch and for branches whose source has been deleted.
	SourceBranchID *string   `json:"sourceBranchId,omitempty" db:"source_branch_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// CopiedFrom reports whether b was created as a copy of the given branch.
func (b *Branch) CopiedFrom(branchID string) bool {
	return b.SourceBranchID != nil && *b.SourceBranchID == branchID
}

// NormalizeBranchName trims surrounding whitespace. Names are otherwise
// compared case-sensitively.
func NormalizeBranchName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateBranchName checks that a normalized branch name is acceptable.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: branch name is required", ErrInvalidInput)
	}
	if len(name) > MaxBranchNameLength {
		return fmt.Errorf("%w: branch name exceeds %d characters", ErrInvalidInput, MaxBranchNameLength)
	}
	if !validBranchNameRegex.MatchString(name) {
		return fmt.Errorf("%w: branch name %q may only contain letters, digits, '.', '_', '/' and '-'", ErrInvalidInput, name)
	}
	return nil
}
