package teachload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed (or no input was selected)
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or input schema mismatch
	ExitConnectionError = 11 // Failed to connect to database
	ExitUpsertFailures  = 12 // Run finished but some keys were not persisted
	ExitCoercionFailed  = 13 // A source value could not be converted
)

// TargetSector is the scientific-disciplinary sector the exports are filtered on.
// Rows admitted through the role-code branch without a professor sector
// are backfilled with this value.
const TargetSector = "ICAR/17"

// AdminRoleCode is the role code marking rows without a professor sector
// that belong to the target sector through the course sector instead.
const AdminRoleCode = "0000"

const (
	// DefaultTimeout bounds a whole run, load to last upsert.
	DefaultTimeout = 10 * time.Minute

	// DefaultDelimiter is the field separator assumed for CSV inputs.
	DefaultDelimiter = ','

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"
)

// Source column headers of the teaching-assignment exports.
const (
	ColProfessorSector  = "Cod. Settore Docente"
	ColRoleCode         = "Cod. Ruolo"
	ColSector           = "Settore"
	ColSurname          = "Cognome"
	ColName             = "Nome"
	ColFiscalCode       = "Cod. Fiscale"
	ColRegistration     = "Matricola"
	ColDepartmentCode   = "Cod. Dipartimento"
	ColDepartmentName   = "Des. Dipartimento"
	ColProgramCode      = "Cod. Corso di Studio"
	ColProgramName      = "Des. Corso di Studio"
	ColProgramType      = "Cod. Tipo Corso"
	ColExamCode         = "Cod. Att. Form."
	ColExamTitle        = "Des. Insegnamento"
	ColExamCredits      = "Peso Insegnamento"
	ColAssignmentType   = "Cod. Tipo Coper."
	ColAssignmentID     = "Id. Copertura"
	ColYear             = "Anno Offerta"
	ColAssignedCredits  = "Peso"
	ColAssignedHours    = "Ore Coper."
	ColStudentPartition = "Cod. Partizione Studenti"
)

// FilterColumns are the columns the merge step cannot work without.
// At least one loaded table must carry each of them.
var FilterColumns = []string{
	ColProfessorSector,
	ColRoleCode,
	ColSector,
	ColSurname,
}
