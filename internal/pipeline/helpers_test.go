package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
)

// exportColumns is the full header of a teaching-assignment export.
var exportColumns = []string{
	teachload.ColAssignmentID, teachload.ColYear,
	teachload.ColDepartmentCode, teachload.ColDepartmentName,
	teachload.ColProgramCode, teachload.ColProgramName, teachload.ColProgramType,
	teachload.ColExamCode, teachload.ColExamTitle, teachload.ColExamCredits,
	teachload.ColSector, teachload.ColProfessorSector, teachload.ColRoleCode,
	teachload.ColRegistration, teachload.ColSurname, teachload.ColName, teachload.ColFiscalCode,
	teachload.ColAssignmentType, teachload.ColAssignedCredits, teachload.ColAssignedHours,
	teachload.ColStudentPartition,
}

// assignmentRow returns a complete ICAR/17 row; overrides replace cells and
// an empty override removes the cell.
func assignmentRow(id int, overrides map[string]string) table.Row {
	row := table.Row{
		teachload.ColAssignmentID:     fmt.Sprint(id),
		teachload.ColYear:             "2023",
		teachload.ColDepartmentCode:   "DICAR",
		teachload.ColDepartmentName:   "Architettura",
		teachload.ColProgramCode:      "L17",
		teachload.ColProgramName:      "Scienze dell'Architettura",
		teachload.ColProgramType:      "L",
		teachload.ColExamCode:         fmt.Sprintf("E%d", id),
		teachload.ColExamTitle:        fmt.Sprintf("Disegno %d", id),
		teachload.ColExamCredits:      "6",
		teachload.ColSector:           "ICAR/17",
		teachload.ColProfessorSector:  "ICAR/17",
		teachload.ColRoleCode:         "PA",
		teachload.ColRegistration:     "100",
		teachload.ColSurname:          "Verdi",
		teachload.ColName:             "Anna",
		teachload.ColFiscalCode:       "VRDNNA80A01H501U",
		teachload.ColAssignmentType:   "AFF",
		teachload.ColAssignedCredits:  "6",
		teachload.ColAssignedHours:    "48",
		teachload.ColStudentPartition: "A-L",
	}
	for k, v := range overrides {
		row.Set(k, v)
	}
	return row
}

func newTestTable(source string, rows ...table.Row) *table.Table {
	return &table.Table{Source: source, Columns: exportColumns, Rows: rows}
}

// fakeLoader serves prebuilt tables by path.
type fakeLoader map[string]*table.Table

func (l fakeLoader) Load(path string) (*table.Table, error) {
	t, ok := l[path]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: no such file", path)
	}
	return t, nil
}

// recordingSink remembers every call in order.
type recordingSink struct {
	mu      sync.Mutex
	calls   []teachload.Record
	schemas int
}

func (s *recordingSink) Upsert(_ context.Context, rec teachload.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, rec)
	return true, nil
}

func (s *recordingSink) EnsureSchema(context.Context) error {
	s.schemas++
	return nil
}

// cancellingSink cancels the run after n successful upserts.
type cancellingSink struct {
	n      int
	cancel context.CancelFunc
	calls  int
}

func (s *cancellingSink) Upsert(ctx context.Context, _ teachload.Record) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.calls++
	if s.calls == s.n {
		s.cancel()
	}
	return true, nil
}
