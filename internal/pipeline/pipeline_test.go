package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icar17/teachload/internal/logging"
	"github.com/icar17/teachload/internal/store"
	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name string, rows ...map[string]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, ",") + "\n")
	for _, row := range rows {
		cells := make([]string, len(exportColumns))
		for i, col := range exportColumns {
			cells[i] = row[col]
		}
		b.WriteString(strings.Join(cells, ",") + "\n")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRun_RossiBianchi(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", map[string]string{
		teachload.ColRoleCode:     "0000",
		teachload.ColSector:       "ICAR/17",
		teachload.ColSurname:      "Rossi",
		teachload.ColRegistration: "123.0",
	})
	b := writeCSV(t, dir, "b.csv", map[string]string{
		teachload.ColProfessorSector: "ICAR/15",
		teachload.ColSurname:         "Bianchi",
		teachload.ColRegistration:    "456",
	})

	sink := store.NewMemorySink()
	p := New(table.NewFileLoader(table.Options{}), sink, logging.NewNullLogger())

	summary, err := p.Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Merge.RowsRead)
	assert.Equal(t, 1, summary.Merge.RowsKept)
	assert.Equal(t, []string{"123"}, sink.Keys(teachload.EntityStaffMember))

	rec, ok := sink.Get(teachload.EntityStaffMember, "123")
	require.True(t, ok)
	staff := rec.(teachload.StaffMember)
	assert.Equal(t, "Rossi", staff.Surname)
	require.NotNil(t, staff.SectorCode)
	assert.Equal(t, "ICAR/17", *staff.SectorCode, "backfilled professor sector")

	for _, e := range teachload.Entities {
		for _, key := range sink.Keys(e) {
			assert.NotEqual(t, "456", key)
			r, _ := sink.Get(e, key)
			if m, ok := r.(teachload.StaffMember); ok {
				assert.NotEqual(t, "Bianchi", m.Surname)
			}
		}
	}
	assert.Zero(t, sink.Count(teachload.EntityAssignment))
	assert.NotEmpty(t, summary.RunID)
}

func TestRun_Idempotent(t *testing.T) {
	loader := fakeLoader{
		"a.csv": newTestTable("a.csv", assignmentRow(1, nil), assignmentRow(2, nil)),
		"b.csv": newTestTable("b.csv", assignmentRow(2, nil), assignmentRow(3, map[string]string{teachload.ColRegistration: "200"})),
	}
	sink := store.NewMemorySink(store.WithReferenceChecks())
	p := New(loader, sink, logging.NewNullLogger())

	first, err := p.Run(context.Background(), []string{"a.csv", "b.csv"})
	require.NoError(t, err)

	counts := map[teachload.Entity]int{}
	for _, s := range first.Entities {
		assert.Equal(t, s.Distinct, s.Inserted, "%s", s.Entity)
		counts[s.Entity] = sink.Count(s.Entity)
	}
	assert.Equal(t, 3, counts[teachload.EntityAssignment])
	assert.Equal(t, 2, counts[teachload.EntityStaffMember])

	second, err := p.Run(context.Background(), []string{"a.csv", "b.csv"})
	require.NoError(t, err)

	for _, s := range second.Entities {
		assert.Zero(t, s.Inserted, "%s", s.Entity)
		assert.Equal(t, s.Distinct, s.Existing, "%s", s.Entity)
		assert.Equal(t, counts[s.Entity], sink.Count(s.Entity))
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

// examDroppingSink behaves as if the exam with the given code never reached the database.
type examDroppingSink struct {
	*store.MemorySink
	drop string
}

func (s *examDroppingSink) Upsert(ctx context.Context, rec teachload.Record) (bool, error) {
	if e, ok := rec.(teachload.Exam); ok && e.Code == s.drop {
		return false, nil
	}
	return s.MemorySink.Upsert(ctx, rec)
}

func TestRun_DanglingExamIsolated(t *testing.T) {
	loader := fakeLoader{
		"a.csv": newTestTable("a.csv", assignmentRow(1, nil), assignmentRow(2, nil), assignmentRow(3, nil)),
	}
	sink := &examDroppingSink{MemorySink: store.NewMemorySink(store.WithReferenceChecks()), drop: "E2"}
	p := New(loader, sink, logging.NewNullLogger())

	summary, err := p.Run(context.Background(), []string{"a.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, teachload.ErrUpsertFailures))
	assert.Equal(t, teachload.ExitUpsertFailures, teachload.ExitCodeForError(err))

	require.Len(t, summary.Failures, 1)
	failure := summary.Failures[0]
	assert.Equal(t, "Assignment", failure.Entity)
	assert.Equal(t, "2", failure.Key)
	assert.True(t, errors.Is(failure, teachload.ErrConstraintViolation))

	assert.Equal(t, []string{"1", "3"}, sink.Keys(teachload.EntityAssignment))

	last := summary.Entities[len(summary.Entities)-1]
	assert.Equal(t, teachload.EntityAssignment, last.Entity)
	assert.Equal(t, 3, last.Distinct)
	assert.Equal(t, 2, last.Inserted)
	assert.Equal(t, 1, last.Failed)
}

func TestRun_CoercionLeavesSinkUntouched(t *testing.T) {
	loader := fakeLoader{
		"a.csv": newTestTable("a.csv",
			assignmentRow(1, nil),
			assignmentRow(2, map[string]string{teachload.ColAssignedHours: "n/a"}),
		),
	}
	sink := &recordingSink{}
	p := New(loader, sink, logging.NewNullLogger())

	_, err := p.Run(context.Background(), []string{"a.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, teachload.ErrCoercion))
	assert.Empty(t, sink.calls)
	assert.Zero(t, sink.schemas)
}

func TestRun_PersistsInEntityOrder(t *testing.T) {
	loader := fakeLoader{"a.csv": newTestTable("a.csv", assignmentRow(1, nil), assignmentRow(2, nil))}
	sink := &recordingSink{}
	p := New(loader, sink, logging.NewNullLogger())

	_, err := p.Run(context.Background(), []string{"a.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, sink.schemas)

	last := teachload.EntityDepartment
	for _, rec := range sink.calls {
		assert.GreaterOrEqual(t, rec.Entity(), last)
		last = rec.Entity()
	}
}

func TestRun_NoInput(t *testing.T) {
	sink := &recordingSink{}
	p := New(fakeLoader{}, sink, logging.NewNullLogger())

	_, err := p.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, teachload.ErrNoInputSelected))
	assert.Equal(t, teachload.ExitSuccess, teachload.ExitCodeForError(err))
	assert.Zero(t, sink.schemas)
}

func TestRun_LoadError(t *testing.T) {
	sink := &recordingSink{}
	p := New(fakeLoader{}, sink, logging.NewNullLogger())

	_, err := p.Run(context.Background(), []string{"missing.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
	assert.Empty(t, sink.calls)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := fakeLoader{"a.csv": newTestTable("a.csv", assignmentRow(1, nil), assignmentRow(2, nil))}
	sink := &cancellingSink{n: 3, cancel: cancel}
	p := New(loader, sink, logging.NewNullLogger())

	summary, err := p.Run(ctx, []string{"a.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 3, sink.calls)
	assert.Empty(t, summary.Failures)
}

func TestNew_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { New(nil, &recordingSink{}, logging.NewNullLogger()) })
	assert.Panics(t, func() { New(fakeLoader{}, nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { New(fakeLoader{}, &recordingSink{}, nil) })
}

func TestRun_DuplicateInputWarns(t *testing.T) {
	dir := t.TempDir()
	row := map[string]string(assignmentRow(1, nil))
	a := writeCSV(t, dir, "a.csv", row)
	b := writeCSV(t, dir, "copy.csv", row)

	sink := store.NewMemorySink()
	p := New(table.NewFileLoader(table.Options{}), sink, logging.NewNullLogger())

	summary, err := p.Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	require.Len(t, summary.Files, 2)
	assert.Equal(t, 1, summary.Files[1].Rows)
	assert.Equal(t, summary.Files[0].ContentChecksum, summary.Files[1].ContentChecksum)

	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, b, summary.Warnings[0].Source)
	assert.Contains(t, summary.Warnings[0].Message, "same content as "+a)
	assert.Equal(t, 1, sink.Count(teachload.EntityAssignment))
}

func TestDuplicateInputs_SkipsUnchecksummedTables(t *testing.T) {
	warnings := duplicateInputs([]InputFile{{Path: "a"}, {Path: "b"}})
	assert.Empty(t, warnings)
}
