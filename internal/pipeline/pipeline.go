package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/pkg/teachload"
)

// SchemaEnsurer is implemented by sinks that must prepare their storage
// before the first write.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// EntityStats counts upsert outcomes for one entity.
type EntityStats struct {
	Entity   teachload.Entity
	Distinct int
	Inserted int
	Existing int
	Failed   int
}

// InputFile describes one loaded input.
type InputFile struct {
	Path            string
	Rows            int
	Checksum        string
	ContentChecksum string
}

// Summary describes a completed or aborted run.
type Summary struct {
	RunID    string
	Inputs   []string
	Files    []InputFile
	Merge    MergeStats
	Entities []EntityStats
	Warnings []table.Warning
	Dangling []DanglingRef
	Failures []*teachload.UpsertError
	Duration time.Duration
}

// Failed returns the number of records that were not persisted.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// Pipeline holds everything a run needs.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Pipeline struct {
	loader table.Loader
	sink   teachload.Sink
	logger teachload.Logger
}

// New creates a Pipeline. It panics on nil dependencies.
func New(loader table.Loader, sink teachload.Sink, logger teachload.Logger) *Pipeline {
	if loader == nil {
		panic("loader cannot be nil")
	}
	if sink == nil {
		panic("sink cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Pipeline{loader: loader, sink: sink, logger: logger}
}

// Run loads inputs, derives all records and persists them.
//
// Load, merge and extraction errors abort before any write. A failed upsert
// is logged and counted and the run moves on to the next key; if any key
// failed, Run returns an error wrapping teachload.ErrUpsertFailures together
// with the full summary. Context cancellation or a lost connection stops the
// run at the current key.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID:  uuid.NewString(),
		Inputs: inputs,
	}
	defer func() { summary.Duration = time.Since(start) }()

	if len(inputs) == 0 {
		return summary, teachload.ErrNoInputSelected
	}

	p.logger.Verbose("Run %s: loading %d file(s)", summary.RunID, len(inputs))

	tables := make([]*table.Table, 0, len(inputs))
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		t, err := p.loader.Load(path)
		if err != nil {
			return summary, err
		}
		p.logger.Verbose("Loaded %s: %d rows, %d columns", path, t.Len(), len(t.Columns))
		tables = append(tables, t)
		summary.Files = append(summary.Files, InputFile{
			Path:            path,
			Rows:            t.Len(),
			Checksum:        t.Checksum,
			ContentChecksum: t.ContentChecksum,
		})
	}
	duplicates := duplicateInputs(summary.Files)

	unified, stats, err := Merge(tables)
	if err != nil {
		return summary, err
	}
	summary.Merge = stats
	summary.Warnings = append(unified.Warnings, duplicates...)
	for _, w := range unified.Warnings {
		p.logger.Info("Warning: %s", w)
	}
	p.logger.Verbose("Merged %d rows: kept %d (%d by professor sector, %d by admin role), backfilled %d, dropped %d without surname",
		stats.RowsRead, stats.RowsKept, stats.KeptByProfessor, stats.KeptByAdminRole, stats.Backfilled, stats.DroppedNoName)

	set, err := Extract(unified)
	if err != nil {
		return summary, err
	}
	for _, e := range teachload.Entities {
		p.logger.Verbose("Extracted %d %s record(s)", len(set.Records(e)), e)
	}

	summary.Dangling = CheckReferences(set)
	for _, d := range summary.Dangling {
		p.logger.Info("Warning: unresolved reference: %s", d)
	}

	if s, ok := p.sink.(SchemaEnsurer); ok {
		if err := s.EnsureSchema(ctx); err != nil {
			return summary, fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	if err := p.persist(ctx, set, summary); err != nil {
		return summary, err
	}

	if n := summary.Failed(); n > 0 {
		return summary, fmt.Errorf("%d of %d record(s) failed: %w", n, set.Len(), teachload.ErrUpsertFailures)
	}
	return summary, nil
}

// persist writes every record in entity order. Only cancellation and a lost
// connection abort.
func (p *Pipeline) persist(ctx context.Context, set *teachload.RecordSet, summary *Summary) error {
	for _, e := range teachload.Entities {
		records := set.Records(e)
		stats := EntityStats{Entity: e, Distinct: len(records)}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				summary.Entities = append(summary.Entities, stats)
				return err
			}

			inserted, err := p.sink.Upsert(ctx, rec)
			if err != nil {
				if isFatal(err) {
					summary.Entities = append(summary.Entities, stats)
					return err
				}
				ue := &teachload.UpsertError{Entity: e.String(), Key: rec.Key(), Err: err}
				summary.Failures = append(summary.Failures, ue)
				stats.Failed++
				p.logger.Error("%v", ue)
				continue
			}

			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}

		summary.Entities = append(summary.Entities, stats)
		p.logger.Verbose("%s: %d inserted, %d already present, %d failed", e, stats.Inserted, stats.Existing, stats.Failed)
	}
	return nil
}

func isFatal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, teachload.ErrConnectionFailed)
}

// duplicateInputs warns about inputs whose cells match an earlier input.
// Their rows add nothing, since the first occurrence of every key wins.
func duplicateInputs(files []InputFile) []table.Warning {
	var out []table.Warning
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if f.ContentChecksum == "" {
			continue
		}
		if first, ok := seen[f.ContentChecksum]; ok {
			out = append(out, table.Warning{
				Source:  f.Path,
				Message: fmt.Sprintf("same content as %s", first),
			})
			continue
		}
		seen[f.ContentChecksum] = f.Path
	}
	return out
}
