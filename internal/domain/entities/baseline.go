package entities

// BaselineEntry is the value a (key, language) had when BranchID diverged
// from BaseBranchID. It is the merge base for three-way diffs between the two.
type BaselineEntry struct {
	BranchID     string `json:"branchId" db:"branch_id"`
	BaseBranchID string `json:"baseBranchId" db:"base_branch_id"`
	Name         string `json:"name" db:"name"`
	Namespace    string `json:"namespace" db:"namespace"`
	Language     string `json:"language" db:"language"`
	Value        string `json:"value" db:"value"`
}

// NaturalKey returns the key the entry belongs to.
func (b *BaselineEntry) NaturalKey() NaturalKey {
	return NaturalKey{Name: b.Name, Namespace: b.Namespace}
}
