package store

import (
	"context"
	"fmt"

	"github.com/icar17/teachload/internal/pgerr"
	"github.com/icar17/teachload/pkg/teachload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertDepartment = `INSERT INTO "Dipartimenti" (codice, nome)
VALUES ($1, $2) ON CONFLICT (codice) DO NOTHING`

	insertDegreeProgram = `INSERT INTO "CdL" (codice, nome, laurea, dipartimento)
VALUES ($1, $2, $3, $4) ON CONFLICT (codice) DO NOTHING`

	insertSector = `INSERT INTO "SSD" (codice, dipartimento)
VALUES ($1, $2) ON CONFLICT (codice) DO NOTHING`

	insertExam = `INSERT INTO "Esami" (codice, cdl_codice, insegnamento, cfu, ssd_aff)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (codice) DO NOTHING`

	insertStaffMember = `INSERT INTO "PersonaleStrutturato" (matricola, cognome, cod_fisc, nome, ssd_doc)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (matricola) DO NOTHING`

	insertAssignmentType = `INSERT INTO "TipologiaAffidamento" (codice, descrizione, note)
VALUES ($1, $2, $3) ON CONFLICT (codice) DO NOTHING`

	insertContractType = `INSERT INTO "TipologiaContratti" (codice, descrizione, note)
VALUES ($1, $2, $3) ON CONFLICT (codice) DO NOTHING`

	insertAssignment = `INSERT INTO "Affidamenti"
    (id_copertura, anno, docente, docente_cat, corso, cfu_copertura, ore_copertura, tip_aff, lettere, cdl)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (id_copertura) DO NOTHING`
)

// txBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink writes records to PostgreSQL. Every Upsert commits its own
// transaction, so a failure on one key never rolls back another.
type PostgresSink struct {
	pool   *pgxpool.Pool
	db     txBeginner
	logger teachload.Logger
}

// NewPostgresSink creates a sink over pool. The caller owns the pool.
func NewPostgresSink(pool *pgxpool.Pool, logger teachload.Logger) *PostgresSink {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PostgresSink{pool: pool, db: pool, logger: logger}
}

// EnsureSchema applies the embedded schema migration.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	return ApplySchema(ctx, s.pool, s.logger)
}

// Upsert inserts rec unless its primary key exists. Database errors are
// classified so errors.Is matches teachload.ErrConstraintViolation or
// teachload.ErrConnectionFailed.
func (s *PostgresSink) Upsert(ctx context.Context, rec teachload.Record) (bool, error) {
	query, args, err := insertStatement(rec)
	if err != nil {
		return false, err
	}

	var inserted bool
	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, pgerr.Classify(err)
	}

	if !inserted {
		s.logger.Verbose("%s %q already present", rec.Entity(), rec.Key())
	}
	return inserted, nil
}

func insertStatement(rec teachload.Record) (string, []any, error) {
	switch r := rec.(type) {
	case teachload.Department:
		return insertDepartment, []any{r.Code, r.Name}, nil
	case teachload.DegreeProgram:
		return insertDegreeProgram, []any{r.Code, r.Name, r.DegreeType, r.DepartmentCode}, nil
	case teachload.Sector:
		return insertSector, []any{r.Code, r.DepartmentCode}, nil
	case teachload.Exam:
		return insertExam, []any{r.Code, r.ProgramCode, r.Title, r.Credits, r.SectorCode}, nil
	case teachload.StaffMember:
		return insertStaffMember, []any{r.Registration, r.Surname, r.FiscalCode, r.Name, r.SectorCode}, nil
	case teachload.AssignmentType:
		return insertAssignmentType, []any{r.Code, r.Description, r.Note}, nil
	case teachload.ContractType:
		return insertContractType, []any{r.Code, r.Description, r.Note}, nil
	case teachload.Assignment:
		return insertAssignment, []any{
			r.ID, r.Year, r.StaffCode, r.ContractTypeCode, r.ExamCode,
			r.Credits, r.Hours, r.TypeCode, r.StudentPartition, r.ProgramCode,
		}, nil
	}
	return "", nil, fmt.Errorf("unsupported record type %T", rec)
}
