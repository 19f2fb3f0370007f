package table

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of a workbook. Spreadsheet rows are
// ragged by nature, so short rows are padded without a warning.
func ParseXLSX(source string, data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet %q: no header row found", sheets[0])
	}

	var (
		records [][]string
		lines   []int
	)
	for i, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rec) > len(rows[0]) {
			rec = rec[:len(rows[0])]
		}
		records = append(records, rec)
		lines = append(lines, i+2)
	}

	return newTable(source, rows[0], records, lines, false), nil
}
