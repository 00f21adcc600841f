package entities

// AddedKey is a key that exists only in the source branch.
type AddedKey struct {
	NaturalKey
	Translations map[string]string `json:"translations"`
}

// DeletedKey is a key that exists only in the target branch.
type DeletedKey struct {
	NaturalKey
	Translations map[string]string `json:"translations"`
}

// ValueChange describes one (key, language) whose value differs between
// the source and target branch. It is used for both modified entries and
// conflicts.
type ValueChange struct {
	NaturalKey
	Language string `json:"language"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	// TargetMissing is set when the target branch has no translation for
	// the language. Target is then empty.
	TargetMissing bool `json:"targetMissing,omitempty"`
}

// DiffResult is the categorized comparison of a source branch against a
// target branch. All slices are non-nil.
type DiffResult struct {
	SourceBranchID string        `json:"sourceBranchId"`
	TargetBranchID string        `json:"targetBranchId"`
	Added          []AddedKey    `json:"added"`
	Modified       []ValueChange `json:"modified"`
	Deleted        []DeletedKey  `json:"deleted"`
	Conflicts      []ValueChange `json:"conflicts"`
}

// NewDiffResult returns an empty result with all categories initialized.
func NewDiffResult(sourceBranchID, targetBranchID string) *DiffResult {
	return &DiffResult{
		SourceBranchID: sourceBranchID,
		TargetBranchID: targetBranchID,
		Added:          []AddedKey{},
		Modified:       []ValueChange{},
		Deleted:        []DeletedKey{},
		Conflicts:      []ValueChange{},
	}
}

// HasConflicts reports whether any (key, language) diverged on both sides.
func (d *DiffResult) HasConflicts() bool {
	return len(d.Conflicts) > 0
}

// ConflictKeys returns the set of keys that have at least one conflict.
func (d *DiffResult) ConflictKeys() map[NaturalKey]bool {
	keys := make(map[NaturalKey]bool, len(d.Conflicts))
	for i := range d.Conflicts {
		keys[d.Conflicts[i].NaturalKey] = true
	}
	return keys
}

// IsEmpty reports whether the two branches have nothing to merge and no
// keys unique to the target.
func (d *DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0 && len(d.Conflicts) == 0
}
