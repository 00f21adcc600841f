package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses translations from a JSON array of objects.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed translations.
func (p *JSONParser) Parse(r io.Reader) ([]RawTranslation, error) {
	var translations []RawTranslation

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&translations); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1
	for i := range translations {
		translations[i].LineNum = i + 1
	}

	return translations, nil
}
