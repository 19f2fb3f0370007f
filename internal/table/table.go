package table

import "fmt"

// Row maps a column header to its cell text. Empty cells are not stored.
type Row map[string]string

// Get returns the cell for col and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set stores a cell, or removes it when value is empty.
func (r Row) Set(col, value string) {
	if value == "" {
		delete(r, col)
		return
	}
	r[col] = value
}

// Warning is a non-fatal issue found while loading a file.
type Warning struct {
	Source  string
	Row     int
	Message string
}

// String renders source:row: message, or source: message for file-level
// warnings, which have no row.
func (w Warning) String() string {
	if w.Row <= 0 {
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	}
	return fmt.Sprintf("%s:%d: %s", w.Source, w.Row, w.Message)
}

// Table is an ordered set of rows sharing a header.
type Table struct {
	// Source is the path the table was loaded from.
	Source   string
	Columns  []string
	Rows     []Row
	Warnings []Warning

	// Checksum is the SHA-256 of the file bytes and ContentChecksum that of
	// the parsed cells. Both are empty for tables not read from a file.
	Checksum        string
	ContentChecksum string
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Records returns the rows as cell slices in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = row[col]
		}
		out[i] = rec
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// newTable builds a table from a header and raw records, padding short
// records and truncating long ones. lines holds the source line of each record.
func newTable(source string, header []string, records [][]string, lines []int, warn bool) *Table {
	columns := uniqueHeaders(header)
	t := &Table{
		Source:  source,
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
	}

	for i, rec := range records {
		line := lines[i]
		if len(rec) != len(columns) && warn {
			msg := fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(rec), len(columns))
			if len(rec) > len(columns) {
				msg = fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(rec), len(columns))
			}
			t.Warnings = append(t.Warnings, Warning{Source: source, Row: line, Message: msg})
		}

		row := make(Row, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				row.Set(col, trimSpace(rec[j]))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// uniqueHeaders trims headers and renames repeats to "name.1", "name.2", ...
func uniqueHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = trimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s.%d", h, n+1)
			continue
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}
