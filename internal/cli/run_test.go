package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icar17/teachload/internal/tui"
	"github.com/icar17/teachload/pkg/teachload"
)

var exportHeader = []string{
	teachload.ColAssignmentID, teachload.ColYear,
	teachload.ColDepartmentCode, teachload.ColDepartmentName,
	teachload.ColProgramCode, teachload.ColProgramName, teachload.ColProgramType,
	teachload.ColExamCode, teachload.ColExamTitle, teachload.ColExamCredits,
	teachload.ColSector, teachload.ColProfessorSector, teachload.ColRoleCode,
	teachload.ColRegistration, teachload.ColSurname, teachload.ColName, teachload.ColFiscalCode,
	teachload.ColAssignmentType, teachload.ColAssignedCredits, teachload.ColAssignedHours,
	teachload.ColStudentPartition,
}

// exportRow renders one ICAR/17 row in header order.
func exportRow(id, year, exam string) []string {
	return []string{
		id, year,
		"DICAR", "Architettura",
		"L17", "Scienze Architettura", "L",
		exam, "Disegno", "6",
		"ICAR/17", "ICAR/17", "PA",
		"100", "Verdi", "Anna", "VRDNNA80A01H501U",
		"AFF", "6", "48",
		"A-L",
	}
}

func writeExport(t *testing.T, dir, name string, sep string, rows ...[]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, sep) + "\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r, sep) + "\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// execute runs a fresh command tree and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(tui.NonInteractiveEnv, "1")
	for _, env := range []string{"TEACHLOAD_CONNECTION_STRING", "DATABASE_URL", "PGHOST", "PGPORT", "PGDATABASE"} {
		t.Setenv(env, "")
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ",", exportRow("1", "2023", "E1"), exportRow("2", "2023", "E2"))

	out, err := execute(t, "run", a, "--dry-run", "--config-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "dry run, nothing written")
	assert.Contains(t, out, "Dipartimenti")
	assert.Contains(t, out, "Affidamenti")
	assert.Contains(t, out, "2 read, 2 kept")
}

func TestRun_DelimiterFlag(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ";", exportRow("1", "2023", "E1"))

	out, err := execute(t, "run", a, "--dry-run", "--delimiter", ";", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 read, 1 kept")
}

func TestRun_GlobExpansion(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "2022.csv", ",", exportRow("1", "2022", "E1"))
	writeExport(t, dir, "2023.csv", ",", exportRow("2", "2023", "E2"))

	out, err := execute(t, "run", filepath.Join(dir, "*.csv"), "--dry-run", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 file(s)")
}

func TestRun_InputsFromProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a.csv", ";", exportRow("1", "2023", "E1"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teachload.yaml"),
		[]byte("inputs:\n  - a.csv\ndelimiter: \";\"\n"), 0o644))

	out, err := execute(t, "run", "--dry-run", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s)")
	assert.Contains(t, out, "1 read, 1 kept")
}

func TestRun_NoInputSelected(t *testing.T) {
	out, err := execute(t, "run", "--dry-run", "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No files selected.")
}

func TestRun_NoInputIgnoresConnectionConflict(t *testing.T) {
	out, err := execute(t, "run",
		"--connection", "postgresql://localhost/teaching", "-h", "db",
		"--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No files selected.")
}

func TestRun_InputErrorsReportedBeforeConnecting(t *testing.T) {
	dir := t.TempDir()
	unreachable := "postgresql://nobody@127.0.0.1:1/teaching?sslmode=disable&connect_timeout=2"

	coercion := writeExport(t, dir, "a.csv", ",", exportRow("1", "later", "E1"))
	_, err := execute(t, "run", coercion, "--connection", unreachable, "--config-dir", dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, teachload.ErrConnectionFailed)
	assert.Equal(t, teachload.ExitCoercionFailed, teachload.ExitCodeForError(err))

	malformed := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(malformed, []byte("foo,bar\n1,2\n"), 0o644))
	_, err = execute(t, "run", malformed, "--connection", unreachable, "--config-dir", dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, teachload.ErrConnectionFailed)
	assert.Equal(t, teachload.ExitConfigError, teachload.ExitCodeForError(err))
}

func TestRun_GlobWithoutMatch(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", filepath.Join(dir, "*.csv"), "--dry-run", "--config-dir", dir)
	require.Error(t, err)
	assert.Equal(t, teachload.ExitConfigError, teachload.ExitCodeForError(err))
}

func TestRun_CoercionFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ",", exportRow("1", "later", "E1"))

	_, err := execute(t, "run", a, "--dry-run", "--config-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, teachload.ErrCoercion)
	assert.Equal(t, teachload.ExitCoercionFailed, teachload.ExitCodeForError(err))
}

func TestRun_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644))

	_, err := execute(t, "run", path, "--dry-run", "--config-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, teachload.ErrMalformedRow)
}

func TestRun_BadDelimiter(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ",", exportRow("1", "2023", "E1"))

	_, err := execute(t, "run", a, "--dry-run", "--delimiter", "ab", "--config-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, teachload.ErrInvalidConfig)
}

func TestRun_ConnectionAndGranularFlagsConflict(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ",", exportRow("1", "2023", "E1"))

	_, err := execute(t, "run", a, "--connection", "postgresql://localhost/teaching", "-h", "db", "--config-dir", dir)
	require.Error(t, err)
	assert.Equal(t, teachload.ExitConfigError, teachload.ExitCodeForError(err))
}

func TestRun_ConnectionRefused(t *testing.T) {
	if testing.Short() {
		t.Skip("opens a TCP connection")
	}
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", ",", exportRow("1", "2023", "E1"))

	_, err := execute(t, "run", a,
		"--connection", "postgresql://nobody@127.0.0.1:1/teaching?sslmode=disable&connect_timeout=2",
		"--timeout", "10s", "--config-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, teachload.ErrConnectionFailed)
}

func TestRun_UnknownFlagIsUsageError(t *testing.T) {
	_, err := execute(t, "run", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, teachload.ExitUsageError, teachload.ExitCodeForError(err))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "teachload "), out)
}

func TestSchemaCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "schema", "extra")
	require.Error(t, err)
}
