package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
)

// extractor derives one entity from the unified table.
type extractor struct {
	entity teachload.Entity
	keyCol string
	// columns are projected besides keyCol and must exist in the table.
	columns []string
	// key normalizes the raw key cell. Records are grouped on its result.
	key   func(raw string) (string, error)
	build func(key string, row table.Row) (teachload.Record, error)
}

var extractors = []extractor{
	{
		entity:  teachload.EntityDepartment,
		keyCol:  teachload.ColDepartmentCode,
		columns: []string{teachload.ColDepartmentName},
		build: func(key string, row table.Row) (teachload.Record, error) {
			return teachload.Department{
				Code: key,
				Name: text(row, teachload.ColDepartmentName),
			}, nil
		},
	},
	{
		entity:  teachload.EntityDegreeProgram,
		keyCol:  teachload.ColProgramCode,
		columns: []string{teachload.ColProgramName, teachload.ColProgramType, teachload.ColDepartmentCode},
		build: func(key string, row table.Row) (teachload.Record, error) {
			return teachload.DegreeProgram{
				Code:           key,
				Name:           text(row, teachload.ColProgramName),
				DegreeType:     text(row, teachload.ColProgramType),
				DepartmentCode: text(row, teachload.ColDepartmentCode),
			}, nil
		},
	},
	{
		entity:  teachload.EntitySector,
		keyCol:  teachload.ColSector,
		columns: []string{teachload.ColDepartmentCode},
		build: func(key string, row table.Row) (teachload.Record, error) {
			return teachload.Sector{
				Code:           key,
				DepartmentCode: text(row, teachload.ColDepartmentCode),
			}, nil
		},
	},
	{
		entity:  teachload.EntityExam,
		keyCol:  teachload.ColExamCode,
		columns: []string{teachload.ColProgramCode, teachload.ColExamTitle, teachload.ColExamCredits, teachload.ColSector},
		build: func(key string, row table.Row) (teachload.Record, error) {
			return teachload.Exam{
				Code:        key,
				ProgramCode: text(row, teachload.ColProgramCode),
				Title:       text(row, teachload.ColExamTitle),
				Credits:     text(row, teachload.ColExamCredits),
				SectorCode:  text(row, teachload.ColSector),
			}, nil
		},
	},
	{
		entity:  teachload.EntityStaffMember,
		keyCol:  teachload.ColRegistration,
		columns: []string{teachload.ColSurname, teachload.ColName, teachload.ColFiscalCode, teachload.ColProfessorSector},
		key:     registrationKey,
		build: func(key string, row table.Row) (teachload.Record, error) {
			m := teachload.StaffMember{
				Registration: key,
				Surname:      text(row, teachload.ColSurname),
				FiscalCode:   text(row, teachload.ColFiscalCode),
				Name:         text(row, teachload.ColName),
			}
			if v, ok := row.Get(teachload.ColProfessorSector); ok {
				m.SectorCode = &v
			}
			return m, nil
		},
	},
	{
		entity: teachload.EntityAssignmentType,
		keyCol: teachload.ColAssignmentType,
		build: func(key string, _ table.Row) (teachload.Record, error) {
			return teachload.AssignmentType{Code: key}, nil
		},
	},
	{
		entity: teachload.EntityContractType,
		keyCol: teachload.ColRoleCode,
		build: func(key string, _ table.Row) (teachload.Record, error) {
			return teachload.ContractType{Code: key}, nil
		},
	},
	{
		entity: teachload.EntityAssignment,
		keyCol: teachload.ColAssignmentID,
		columns: []string{
			teachload.ColYear, teachload.ColRegistration, teachload.ColRoleCode, teachload.ColExamCode,
			teachload.ColAssignedCredits, teachload.ColAssignedHours, teachload.ColAssignmentType,
			teachload.ColStudentPartition, teachload.ColProgramCode,
		},
		key: func(raw string) (string, error) {
			id, err := parseInt(raw)
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(id, 10), nil
		},
		build: buildAssignment,
	},
}

func buildAssignment(key string, row table.Row) (teachload.Record, error) {
	id, _ := strconv.ParseInt(key, 10, 64)
	a := teachload.Assignment{
		ID:               id,
		StaffCode:        stripFloatSuffix(text(row, teachload.ColRegistration)),
		ContractTypeCode: text(row, teachload.ColRoleCode),
		ExamCode:         text(row, teachload.ColExamCode),
		TypeCode:         text(row, teachload.ColAssignmentType),
		StudentPartition: text(row, teachload.ColStudentPartition),
		ProgramCode:      text(row, teachload.ColProgramCode),
	}

	raw := text(row, teachload.ColYear)
	year, err := parseInt(raw)
	if err != nil {
		return nil, coercionError(teachload.EntityAssignment, key, teachload.ColYear, raw, "integer", err)
	}
	a.Year = int(year)

	if a.Credits, err = parseFloat(row, teachload.ColAssignedCredits); err != nil {
		return nil, coercionError(teachload.EntityAssignment, key, teachload.ColAssignedCredits,
			text(row, teachload.ColAssignedCredits), "float", err)
	}
	if a.Hours, err = parseFloat(row, teachload.ColAssignedHours); err != nil {
		return nil, coercionError(teachload.EntityAssignment, key, teachload.ColAssignedHours,
			text(row, teachload.ColAssignedHours), "float", err)
	}
	return a, nil
}

// Extract derives every entity from the unified table. Distinct keys are
// taken in first-occurrence order and the first row carrying a key supplies
// all of its attributes. Rows without a key contribute nothing to that entity.
func Extract(unified *table.Table) (*teachload.RecordSet, error) {
	for _, ex := range extractors {
		for _, col := range append([]string{ex.keyCol}, ex.columns...) {
			if !unified.HasColumn(col) {
				return nil, fmt.Errorf("%s needs column %q: %w", ex.entity, col, teachload.ErrMalformedRow)
			}
		}
	}

	set := &teachload.RecordSet{}
	for _, ex := range extractors {
		if err := ex.extract(unified, set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (ex extractor) extract(unified *table.Table, set *teachload.RecordSet) error {
	seen := make(map[string]bool)
	for _, row := range unified.Rows {
		raw, ok := row.Get(ex.keyCol)
		if !ok {
			continue
		}

		key := raw
		if ex.key != nil {
			var err error
			if key, err = ex.key(raw); err != nil {
				return coercionError(ex.entity, raw, ex.keyCol, raw, "integer", err)
			}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		rec, err := ex.build(key, row)
		if err != nil {
			return err
		}
		set.Add(rec)
	}
	return nil
}

func text(row table.Row, col string) string {
	v, _ := row.Get(col)
	return v
}

// registrationKey strips the ".0" left behind when a spreadsheet stored the
// registration number as a float.
func registrationKey(raw string) (string, error) {
	return stripFloatSuffix(raw), nil
}

func stripFloatSuffix(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// parseInt accepts plain integers and integral floats such as "2023.0".
func parseInt(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("%q is not an integral number", s)
	}
	return int64(f), nil
}

// parseFloat returns zero for an absent cell.
func parseFloat(row table.Row, col string) (float64, error) {
	v, ok := row.Get(col)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", v)
	}
	return f, nil
}

func coercionError(e teachload.Entity, key, col, value, target string, err error) error {
	return &teachload.CoercionError{
		Entity: e.String(),
		Key:    key,
		Column: col,
		Value:  value,
		Target: target,
		Err:    err,
	}
}
