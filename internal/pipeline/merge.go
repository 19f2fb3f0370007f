package pipeline

import (
	"fmt"

	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
)

// MergeStats counts what the merge stage did to the rows.
type MergeStats struct {
	RowsRead        int
	KeptByProfessor int // matched on the professor's sector
	KeptByAdminRole int // matched on admin role code plus sector
	Backfilled      int
	DroppedNoName   int
	RowsKept        int
}

// Merge concatenates tables in order and applies the sector filter,
// professor-sector backfill and surname drop. The result keeps input-file
// and within-file row order.
func Merge(tables []*table.Table) (*table.Table, MergeStats, error) {
	var stats MergeStats
	if len(tables) == 0 {
		return nil, stats, teachload.ErrNoInputSelected
	}

	for _, col := range teachload.FilterColumns {
		if !anyHasColumn(tables, col) {
			return nil, stats, fmt.Errorf("column %q not found in any input: %w", col, teachload.ErrMalformedRow)
		}
	}

	unified := &table.Table{Source: "merged", Columns: unionColumns(tables)}
	for _, t := range tables {
		unified.Warnings = append(unified.Warnings, t.Warnings...)
		for _, row := range t.Rows {
			stats.RowsRead++

			keep, byAdmin := matchesSector(row)
			if !keep {
				continue
			}
			if byAdmin {
				stats.KeptByAdminRole++
			} else {
				stats.KeptByProfessor++
			}

			out := make(table.Row, len(row))
			for k, v := range row {
				out[k] = v
			}
			if _, ok := out.Get(teachload.ColProfessorSector); !ok {
				out.Set(teachload.ColProfessorSector, teachload.TargetSector)
				stats.Backfilled++
			}
			if _, ok := out.Get(teachload.ColSurname); !ok {
				stats.DroppedNoName++
				continue
			}
			unified.Rows = append(unified.Rows, out)
		}
	}
	stats.RowsKept = len(unified.Rows)
	return unified, stats, nil
}

// matchesSector reports whether row belongs to the target sector, and whether
// it matched through the admin role branch only.
func matchesSector(row table.Row) (keep, byAdmin bool) {
	if v, ok := row.Get(teachload.ColProfessorSector); ok && v == teachload.TargetSector {
		return true, false
	}
	role, _ := row.Get(teachload.ColRoleCode)
	sector, _ := row.Get(teachload.ColSector)
	if role == teachload.AdminRoleCode && sector == teachload.TargetSector {
		return true, true
	}
	return false, false
}

func anyHasColumn(tables []*table.Table, col string) bool {
	for _, t := range tables {
		if t.HasColumn(col) {
			return true
		}
	}
	return false
}

// unionColumns lists every column in first-seen order.
func unionColumns(tables []*table.Table) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}
