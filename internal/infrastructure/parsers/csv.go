package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses translations from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed translations.
// Expected columns: key, language, value, plus optional namespace, status,
// source_file and description.
func (p *CSVParser) Parse(r io.Reader) ([]RawTranslation, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"key", "language", "value"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	// Rows may omit trailing optional columns.
	reader.FieldsPerRecord = -1

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawTranslations.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawTranslation, error) {
	var translations []RawTranslation
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		translations = append(translations, RawTranslation{
			Key:         getColumn(record, colIndex, "key"),
			Namespace:   getColumn(record, colIndex, "namespace"),
			Language:    getColumn(record, colIndex, "language"),
			Value:       getColumn(record, colIndex, "value"),
			Status:      getColumn(record, colIndex, "status"),
			SourceFile:  getColumn(record, colIndex, "source_file"),
			Description: getColumn(record, colIndex, "description"),
			LineNum:     lineNum,
		})
	}

	return translations, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
