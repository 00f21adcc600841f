package entities

// Resolution selects which side's value wins for a conflicting key.
type Resolution string

const (
	ResolutionSource Resolution = "source"
	ResolutionTarget Resolution = "target"
)

// IsValid reports whether r is a known resolution.
func (r Resolution) IsValid() bool {
	return r == ResolutionSource || r == ResolutionTarget
}

// ConflictResolution is the caller's choice for one conflicting key. It
// applies to every conflicting language of that key.
type ConflictResolution struct {
	Key        string     `json:"key"`
	Namespace  string     `json:"namespace,omitempty"`
	Resolution Resolution `json:"resolution"`
}

// NaturalKey returns the key the resolution refers to.
func (r ConflictResolution) NaturalKey() NaturalKey {
	return NaturalKey{Name: r.Key, Namespace: r.Namespace}
}

// MergeState is the state of a single merge attempt.
type MergeState string

const (
	MergeComputing MergeState = "computing"
	MergeBlocked   MergeState = "blocked"
	MergeApplying  MergeState = "applying"
	MergeCompleted MergeState = "completed"
)

// MergeResult is the outcome of a merge attempt. A blocked merge is not an
// error: Success is false and Conflicts lists what needs resolving.
type MergeResult struct {
	Success           bool          `json:"success"`
	State             MergeState    `json:"state"`
	MergedCount       int           `json:"mergedCount"`
	ConflictsResolved int           `json:"conflictsResolved"`
	Conflicts         []ValueChange `json:"conflicts,omitempty"`
	// Deleted lists keys that exist only in the target. Merges never remove them.
	Deleted []DeletedKey `json:"deleted,omitempty"`
}
