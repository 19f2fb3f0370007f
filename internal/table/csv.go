package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ParseCSV parses CSV bytes into a table. The first record is the header.
// Rows with a column count different from the header are padded or truncated
// and reported as warnings; rows the reader cannot parse are skipped with a warning.
func ParseCSV(source string, data []byte, delimiter rune) (*Table, error) {
	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var (
		records  [][]string
		lines    []int
		warnings []Warning
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			warnings = append(warnings, Warning{
				Source:  source,
				Row:     line,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}
		if isBlank(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	t := newTable(source, header, records, lines, true)
	t.Warnings = append(t.Warnings, warnings...)
	return t, nil
}

// isBlank reports whether every field of rec is empty.
func isBlank(rec []string) bool {
	for _, f := range rec {
		if trimSpace(f) != "" {
			return false
		}
	}
	return true
}
