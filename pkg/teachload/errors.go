package teachload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := p.Run(ctx)
//	if errors.Is(err, teachload.ErrNoInputSelected) {
//	    // Nothing to load, not a failure
//	}
var (
	// ErrNoInputSelected indicates no input file was chosen. The run stops
	// before touching the database and is not treated as a failure.
	ErrNoInputSelected = errors.New("no input selected")

	// ErrMalformedRow indicates the loaded tables lack columns the run needs,
	// so no row could ever be filtered or projected.
	ErrMalformedRow = errors.New("malformed input schema")

	// ErrCoercion indicates a source value could not be converted to its target type.
	ErrCoercion = errors.New("value coercion failed")

	// ErrConstraintViolation indicates the database rejected a row, typically
	// because a referenced key is missing.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrUpsertFailures indicates the run completed but some keys were not persisted.
	ErrUpsertFailures = errors.New("some records were not persisted")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// CoercionError describes a projected value that could not be converted.
type CoercionError struct {
	Entity string // entity being extracted, e.g. "Assignment"
	Key    string // natural key of the offending record
	Column string // source column header
	Value  string // raw cell text
	Target string // "integer", "float", ...
	Err    error  // underlying parse error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s %q: column %q value %q is not a valid %s: %v",
		e.Entity, e.Key, e.Column, e.Value, e.Target, e.Err)
}

// Unwrap lets errors.Is match both ErrCoercion and the parse error.
func (e *CoercionError) Unwrap() []error {
	return []error{ErrCoercion, e.Err}
}

// UpsertError reports a failed write of a single record.
type UpsertError struct {
	Entity string
	Key    string
	Err    error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert %s %q: %v", e.Entity, e.Key, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors and for ErrNoInputSelected,
// semantic codes for known errors, and ExitGeneralError (1) otherwise.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrNoInputSelected):
		return ExitSuccess
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMalformedRow):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrCoercion):
		return ExitCoercionFailed
	case errors.Is(err, ErrUpsertFailures):
		return ExitUpsertFailures
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// usageErrorPatterns match the messages cobra and pflag produce for bad invocations.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}
