package store

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/icar17/teachload/pkg/teachload"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// ApplySchema creates the teaching tables when they do not exist yet.
// It is safe to call on every run.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, logger teachload.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Verbose("Schema at version %d", version)
	return nil
}

// gooseLogger routes goose output to the verbose log.
type gooseLogger struct {
	logger teachload.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Verbose(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(format, v...)
}
