package pipeline

import (
	"errors"
	"testing"

	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FilterCorrectness(t *testing.T) {
	rows := []table.Row{
		assignmentRow(1, nil), // professor sector matches
		assignmentRow(2, map[string]string{ // admin role with sector
			teachload.ColProfessorSector: "", teachload.ColRoleCode: "0000",
		}),
		assignmentRow(3, map[string]string{ // admin role, other sector
			teachload.ColProfessorSector: "", teachload.ColRoleCode: "0000", teachload.ColSector: "ICAR/15",
		}),
		assignmentRow(4, map[string]string{ // other professor sector
			teachload.ColProfessorSector: "ICAR/15",
		}),
		assignmentRow(5, map[string]string{ // sector matches but role is not admin
			teachload.ColProfessorSector: "", teachload.ColRoleCode: "PO",
		}),
		assignmentRow(6, map[string]string{ // professor sector wins even with other role data
			teachload.ColRoleCode: "0000", teachload.ColSector: "ICAR/14",
		}),
	}

	unified, stats, err := Merge([]*table.Table{newTestTable("a.csv", rows...)})
	require.NoError(t, err)

	var ids []string
	for _, r := range unified.Rows {
		id, _ := r.Get(teachload.ColAssignmentID)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"1", "2", "6"}, ids)
	assert.Equal(t, 6, stats.RowsRead)
	assert.Equal(t, 2, stats.KeptByProfessor)
	assert.Equal(t, 1, stats.KeptByAdminRole)
	assert.Equal(t, 3, stats.RowsKept)
}

func TestMerge_Backfill(t *testing.T) {
	row := assignmentRow(1, map[string]string{
		teachload.ColProfessorSector: "", teachload.ColRoleCode: "0000",
	})

	unified, stats, err := Merge([]*table.Table{newTestTable("a.csv", row)})
	require.NoError(t, err)
	require.Len(t, unified.Rows, 1)

	v, ok := unified.Rows[0].Get(teachload.ColProfessorSector)
	assert.True(t, ok)
	assert.Equal(t, "ICAR/17", v)
	assert.Equal(t, 1, stats.Backfilled)

	_, ok = row.Get(teachload.ColProfessorSector)
	assert.False(t, ok, "input rows are not mutated")
}

func TestMerge_DropsRowsWithoutSurname(t *testing.T) {
	rows := []table.Row{
		assignmentRow(1, map[string]string{teachload.ColSurname: ""}),
		assignmentRow(2, nil),
	}

	unified, stats, err := Merge([]*table.Table{newTestTable("a.csv", rows...)})
	require.NoError(t, err)
	require.Len(t, unified.Rows, 1)
	assert.Equal(t, 1, stats.DroppedNoName)
	for _, r := range unified.Rows {
		_, ok := r.Get(teachload.ColSurname)
		assert.True(t, ok)
	}
}

func TestMerge_PreservesOrderAcrossFiles(t *testing.T) {
	a := newTestTable("a.csv", assignmentRow(1, nil), assignmentRow(2, nil))
	b := newTestTable("b.csv", assignmentRow(3, nil))

	unified, _, err := Merge([]*table.Table{a, b})
	require.NoError(t, err)

	var ids []string
	for _, r := range unified.Rows {
		id, _ := r.Get(teachload.ColAssignmentID)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestMerge_ColumnMissingFromOneFile(t *testing.T) {
	a := newTestTable("a.csv", assignmentRow(1, nil))
	b := &table.Table{
		Source:  "b.csv",
		Columns: []string{teachload.ColSurname, teachload.ColRoleCode, teachload.ColSector},
		Rows: []table.Row{{
			teachload.ColSurname: "Neri", teachload.ColRoleCode: "0000", teachload.ColSector: "ICAR/17",
		}},
	}

	unified, stats, err := Merge([]*table.Table{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsKept)
	assert.Equal(t, 1, stats.Backfilled)
	assert.Equal(t, exportColumns, unified.Columns)
}

func TestMerge_Errors(t *testing.T) {
	_, _, err := Merge(nil)
	assert.True(t, errors.Is(err, teachload.ErrNoInputSelected))

	bad := &table.Table{Source: "x.csv", Columns: []string{"Foo"}, Rows: []table.Row{{"Foo": "bar"}}}
	_, _, err = Merge([]*table.Table{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, teachload.ErrMalformedRow))
	assert.Contains(t, err.Error(), teachload.ColProfessorSector)
}

func TestMerge_ZeroRows(t *testing.T) {
	unified, stats, err := Merge([]*table.Table{newTestTable("empty.csv")})
	require.NoError(t, err)
	assert.Equal(t, 0, unified.Len())
	assert.Equal(t, 0, stats.RowsRead)
}
