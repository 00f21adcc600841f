package entities

import "time"

// NaturalKey identifies "the same logical key" across branches.
// Row ids change on every copy; (name, namespace) does not.
type NaturalKey struct {
	Name      string `json:"key"`
	Namespace string `json:"namespace,omitempty"`
}

// String returns "namespace:name", or just the name for the default namespace.
func (k NaturalKey) String() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + ":" + k.Name
}

// Less orders natural keys by namespace, then name.
func (k NaturalKey) Less(other NaturalKey) bool {
	if k.Namespace != other.Namespace {
		return k.Namespace < other.Namespace
	}
	return k.Name < other.Name
}

// TranslationKey is a translatable unit scoped to one branch.
type TranslationKey struct {
	ID          string    `json:"id" db:"id"`
	BranchID    string    `json:"branchId" db:"branch_id"`
	Name        string    `json:"name" db:"name"`
	Namespace   string    `json:"namespace" db:"namespace"`
	SourceFile  string    `json:"sourceFile,omitempty" db:"source_file"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// NaturalKey returns the branch-independent identity of the key.
func (k *TranslationKey) NaturalKey() NaturalKey {
	return NaturalKey{Name: k.Name, Namespace: k.Namespace}
}
