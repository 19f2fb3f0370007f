package teachload

import (
	"fmt"
	"strconv"
)

// Entity identifies one of the eight derived tables.
// The declaration order is the order records are persisted in, so every
// foreign key points at an entity written earlier.
type Entity int

const (
	EntityDepartment Entity = iota
	EntityDegreeProgram
	EntitySector
	EntityExam
	EntityStaffMember
	EntityAssignmentType
	EntityContractType
	EntityAssignment
)

// Entities lists every entity in persistence order.
var Entities = []Entity{
	EntityDepartment,
	EntityDegreeProgram,
	EntitySector,
	EntityExam,
	EntityStaffMember,
	EntityAssignmentType,
	EntityContractType,
	EntityAssignment,
}

// String returns the entity name used in logs and reports.
func (e Entity) String() string {
	switch e {
	case EntityDepartment:
		return "Department"
	case EntityDegreeProgram:
		return "DegreeProgram"
	case EntitySector:
		return "Sector"
	case EntityExam:
		return "Exam"
	case EntityStaffMember:
		return "StaffMember"
	case EntityAssignmentType:
		return "AssignmentType"
	case EntityContractType:
		return "ContractType"
	case EntityAssignment:
		return "Assignment"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// Table returns the target table name.
func (e Entity) Table() string {
	switch e {
	case EntityDepartment:
		return "Dipartimenti"
	case EntityDegreeProgram:
		return "CdL"
	case EntitySector:
		return "SSD"
	case EntityExam:
		return "Esami"
	case EntityStaffMember:
		return "PersonaleStrutturato"
	case EntityAssignmentType:
		return "TipologiaAffidamento"
	case EntityContractType:
		return "TipologiaContratti"
	case EntityAssignment:
		return "Affidamenti"
	default:
		return ""
	}
}

// Record is a derived row ready for the sink.
type Record interface {
	Entity() Entity
	// Key returns the primary key rendered as text.
	Key() string
}

// Department is keyed by department code.
type Department struct {
	Code string
	Name string
}

func (Department) Entity() Entity { return EntityDepartment }
func (d Department) Key() string { return d.Code }

// DegreeProgram is a course of study belonging to one department.
type DegreeProgram struct {
	Code           string
	Name           string
	DegreeType     string
	DepartmentCode string
}

func (DegreeProgram) Entity() Entity { return EntityDegreeProgram }
func (p DegreeProgram) Key() string { return p.Code }

// Sector is a scientific-disciplinary sector.
type Sector struct {
	Code           string
	DepartmentCode string
}

func (Sector) Entity() Entity { return EntitySector }
func (s Sector) Key() string { return s.Code }

// Exam is a teaching activity. Credits keep the source text as is.
type Exam struct {
	Code        string
	ProgramCode string
	Title       string
	Credits     string
	SectorCode  string
}

func (Exam) Entity() Entity { return EntityExam }
func (e Exam) Key() string { return e.Code }

// StaffMember is keyed by registration number.
type StaffMember struct {
	Registration string
	Surname      string
	FiscalCode   string
	Name         string
	SectorCode   *string
}

func (StaffMember) Entity() Entity { return EntityStaffMember }
func (m StaffMember) Key() string { return m.Registration }

// AssignmentType carries placeholder attributes that are always empty.
type AssignmentType struct {
	Code        string
	Description string
	Note        string
}

func (AssignmentType) Entity() Entity { return EntityAssignmentType }
func (t AssignmentType) Key() string { return t.Code }

// ContractType carries placeholder attributes that are always empty.
type ContractType struct {
	Code        string
	Description string
	Note        string
}

func (ContractType) Entity() Entity { return EntityContractType }
func (t ContractType) Key() string { return t.Code }

// Assignment is the fact record linking staff, exam and degree program for a year.
type Assignment struct {
	ID               int64
	Year             int
	StaffCode        string
	ContractTypeCode string
	ExamCode         string
	Credits          float64
	Hours            float64
	TypeCode         string
	StudentPartition string
	ProgramCode      string
}

func (Assignment) Entity() Entity { return EntityAssignment }
func (a Assignment) Key() string { return strconv.FormatInt(a.ID, 10) }

// RecordSet holds every record extracted in one run.
type RecordSet struct {
	Departments     []Department
	DegreePrograms  []DegreeProgram
	Sectors         []Sector
	Exams           []Exam
	StaffMembers    []StaffMember
	AssignmentTypes []AssignmentType
	ContractTypes   []ContractType
	Assignments     []Assignment
}

// Records returns the records of one entity in extraction order.
func (s *RecordSet) Records(e Entity) []Record {
	var out []Record
	switch e {
	case EntityDepartment:
		for _, r := range s.Departments {
			out = append(out, r)
		}
	case EntityDegreeProgram:
		for _, r := range s.DegreePrograms {
			out = append(out, r)
		}
	case EntitySector:
		for _, r := range s.Sectors {
			out = append(out, r)
		}
	case EntityExam:
		for _, r := range s.Exams {
			out = append(out, r)
		}
	case EntityStaffMember:
		for _, r := range s.StaffMembers {
			out = append(out, r)
		}
	case EntityAssignmentType:
		for _, r := range s.AssignmentTypes {
			out = append(out, r)
		}
	case EntityContractType:
		for _, r := range s.ContractTypes {
			out = append(out, r)
		}
	case EntityAssignment:
		for _, r := range s.Assignments {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records across all entities.
func (s *RecordSet) Len() int {
	return len(s.Departments) + len(s.DegreePrograms) + len(s.Sectors) + len(s.Exams) +
		len(s.StaffMembers) + len(s.AssignmentTypes) + len(s.ContractTypes) + len(s.Assignments)
}

// Add appends rec to the collection of its entity.
func (s *RecordSet) Add(rec Record) {
	switch r := rec.(type) {
	case Department:
		s.Departments = append(s.Departments, r)
	case DegreeProgram:
		s.DegreePrograms = append(s.DegreePrograms, r)
	case Sector:
		s.Sectors = append(s.Sectors, r)
	case Exam:
		s.Exams = append(s.Exams, r)
	case StaffMember:
		s.StaffMembers = append(s.StaffMembers, r)
	case AssignmentType:
		s.AssignmentTypes = append(s.AssignmentTypes, r)
	case ContractType:
		s.ContractTypes = append(s.ContractTypes, r)
	case Assignment:
		s.Assignments = append(s.Assignments, r)
	}
}
