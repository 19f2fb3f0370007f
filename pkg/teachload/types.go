package teachload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunConfig contains all parameters needed for one load run.
type RunConfig struct {
	// Inputs are the export files in the order they are concatenated.
	Inputs []string

	// ConnectionString is the PostgreSQL connection string (URI format after CLI resolution).
	// Ignored when DryRun is set.
	ConnectionString string

	// Delimiter separates fields in CSV inputs.
	Delimiter rune

	// DryRun runs the whole pipeline against an in-memory sink.
	DryRun bool

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
// An empty Inputs list is reported as ErrNoInputSelected on its own,
// since that case is not a failure.
func (c *RunConfig) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputSelected
	}

	var errs []error

	if !c.DryRun && c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	switch c.Delimiter {
	case 0, '\r', '\n', '"', 0xFFFD:
		errs = append(errs, fmt.Errorf("delimiter %q is not usable: %w", c.Delimiter, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string
}

// Connector establishes database connections.
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// Sink persists derived records with insert-if-absent semantics.
type Sink interface {
	// Upsert inserts the record unless a row with the same primary key exists.
	// inserted reports whether a row was written. Each call is its own unit of work.
	Upsert(ctx context.Context, rec Record) (inserted bool, err error)
}

// SourcePicker obtains the ordered list of input files.
// An empty result means the user selected nothing or cancelled.
type SourcePicker interface {
	Pick(ctx context.Context) ([]string, error)
}
