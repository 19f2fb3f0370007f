package pgerr

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/icar17/teachload/pkg/teachload"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the loader reacts to.
const (
	// Class 23 - Integrity Constraint Violation
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"

	// Class 22 - Data Exception
	CodeStringTooLong = "22001"

	// Class 57 - Operator Intervention
	CodeAdminShutdown    = "57P01"
	CodeCrashShutdown    = "57P02"
	CodeCannotConnectNow = "57P03"
)

// Code returns the SQLSTATE of err, or "" when err carries none.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsConstraintViolation reports whether the server rejected a row because of
// an integrity constraint (class 23) or a value that does not fit its column (class 22).
func IsConstraintViolation(err error) bool {
	code := Code(err)
	return strings.HasPrefix(code, "23") || strings.HasPrefix(code, "22")
}

// IsConnectionLoss reports whether err means the server can no longer be reached.
func IsConnectionLoss(err error) bool {
	if err == nil {
		return false
	}

	if code := Code(err); code != "" {
		switch {
		case strings.HasPrefix(code, "08"):
			return true
		case code == CodeAdminShutdown, code == CodeCrashShutdown, code == CodeCannotConnectNow:
			return true
		}
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionLossPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var connectionLossPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"server closed the connection",
	"unexpected eof",
	"conn closed",
}

// Classify wraps err with the matching teachload sentinel so callers can use
// errors.Is. Unrecognized errors are returned unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsConstraintViolation(err):
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return fmt.Errorf("%w: %s: %w", teachload.ErrConstraintViolation, describe(pgErr), err)
	case IsConnectionLoss(err):
		return fmt.Errorf("%w: %w", teachload.ErrConnectionFailed, err)
	}
	return err
}

func describe(pgErr *pgconn.PgError) string {
	switch pgErr.Code {
	case CodeForeignKeyViolation:
		return "referenced key is missing"
	case CodeNotNullViolation:
		return fmt.Sprintf("column %s cannot be null", pgErr.ColumnName)
	case CodeUniqueViolation:
		return "duplicate key"
	case CodeStringTooLong:
		return "value too long for column"
	default:
		return "constraint violation"
	}
}
