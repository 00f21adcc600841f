package entities

import "time"

// TranslationStatus is the approval state of a translation.
type TranslationStatus string

const (
	StatusPending    TranslationStatus = "pending"
	StatusTranslated TranslationStatus = "translated"
	StatusApproved   TranslationStatus = "approved"
)

// IsValid reports whether s is a known status.
func (s TranslationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusTranslated, StatusApproved:
		return true
	default:
		return false
	}
}

// Translation is the value of a key in one language.
type Translation struct {
	ID        string            `json:"id" db:"id"`
	KeyID     string            `json:"keyId" db:"key_id"`
	Language  string            `json:"language" db:"language"`
	Value     string            `json:"value" db:"value"`
	Status    TranslationStatus `json:"status" db:"status"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// KeyWithTranslations is a key together with all of its translations.
type KeyWithTranslations struct {
	TranslationKey
	Translations []Translation `json:"translations"`
}
