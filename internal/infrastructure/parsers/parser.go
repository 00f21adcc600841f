// Package parsers provides parsers for importing translations from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawTranslation represents one (key, language) value parsed from an
// external source before validation.
type RawTranslation struct {
	Key         string `json:"key"`
	Namespace   string `json:"namespace,omitempty"`
	Language    string `json:"language"`
	Value       string `json:"value"`
	Status      string `json:"status,omitempty"`
	SourceFile  string `json:"source_file,omitempty"`
	Description string `json:"description,omitempty"`
	LineNum     int    `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing translations from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawTranslation, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
