package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalKey_String(t *testing.T) {
	assert.Equal(t, "greeting", NaturalKey{Name: "greeting"}.String())
	assert.Equal(t, "checkout:title", NaturalKey{Name: "title", Namespace: "checkout"}.String())
}

func TestNaturalKey_Less(t *testing.T) {
	tests := []struct {
		name     string
		a, b     NaturalKey
		expected bool
	}{
		{
			name:     "same namespace ordered by name",
			a:        NaturalKey{Name: "a"},
			b:        NaturalKey{Name: "b"},
			expected: true,
		},
		{
			name:     "namespace wins over name",
			a:        NaturalKey{Name: "z", Namespace: "app"},
			b:        NaturalKey{Name: "a", Namespace: "web"},
			expected: true,
		},
		{
			name:     "equal keys are not less",
			a:        NaturalKey{Name: "a", Namespace: "x"},
			b:        NaturalKey{Name: "a", Namespace: "x"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Less(tt.b))
		})
	}
}

func TestTranslationStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusTranslated.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.False(t, TranslationStatus("").IsValid())
	assert.False(t, TranslationStatus("done").IsValid())
}
