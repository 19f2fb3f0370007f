package teachload

// Reference is a foreign key held by a record.
type Reference struct {
	Column string // column in the referencing table
	Target Entity
	Value  string
}

// References returns the foreign keys of rec. A nil StaffMember sector is
// not a reference.
func References(rec Record) []Reference {
	switch r := rec.(type) {
	case DegreeProgram:
		return []Reference{{"dipartimento", EntityDepartment, r.DepartmentCode}}
	case Sector:
		return []Reference{{"dipartimento", EntityDepartment, r.DepartmentCode}}
	case Exam:
		return []Reference{
			{"cdl_codice", EntityDegreeProgram, r.ProgramCode},
			{"ssd_aff", EntitySector, r.SectorCode},
		}
	case StaffMember:
		if r.SectorCode == nil {
			return nil
		}
		return []Reference{{"ssd_doc", EntitySector, *r.SectorCode}}
	case Assignment:
		return []Reference{
			{"docente", EntityStaffMember, r.StaffCode},
			{"docente_cat", EntityContractType, r.ContractTypeCode},
			{"corso", EntityExam, r.ExamCode},
			{"tip_aff", EntityAssignmentType, r.TypeCode},
			{"cdl", EntityDegreeProgram, r.ProgramCode},
		}
	}
	return nil
}
