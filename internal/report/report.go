// Package report renders run summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/icar17/teachload/internal/checksum"
	"github.com/icar17/teachload/internal/pipeline"
)

// MaxListed caps how many warnings, dangling references and failures are
// printed one per line. The rest are counted.
const MaxListed = 20

// Options control what Render prints.
type Options struct {
	// DryRun marks the counts as coming from the in-memory sink.
	DryRun bool
	// Verbose lists every warning and failure instead of the first MaxListed.
	Verbose bool
}

// Render writes the summary of one run to w.
func Render(w io.Writer, s *pipeline.Summary, opts Options) {
	if s == nil {
		return
	}

	title := "Load summary"
	if opts.DryRun {
		title += " (dry run, nothing written)"
	}
	_, _ = fmt.Fprintf(w, "%s\n", title)
	_, _ = fmt.Fprintf(w, "Run %s, %d file(s), %s\n", s.RunID, len(s.Inputs), s.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(w, "Rows: %d read, %d kept (%d by professor sector, %d by admin role), %d backfilled, %d dropped without surname\n",
		s.Merge.RowsRead, s.Merge.RowsKept, s.Merge.KeptByProfessor, s.Merge.KeptByAdminRole,
		s.Merge.Backfilled, s.Merge.DroppedNoName)

	for _, f := range s.Files {
		line := fmt.Sprintf("  %s: %d row(s)", f.Path, f.Rows)
		if f.Checksum != "" {
			line += ", sha256 " + checksum.Short(f.Checksum)
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if len(s.Entities) > 0 {
		renderEntities(w, s.Entities)
	}

	limit := MaxListed
	if opts.Verbose {
		limit = -1
	}

	warnings := make([]string, len(s.Warnings))
	for i, warn := range s.Warnings {
		warnings[i] = warn.String()
	}
	renderList(w, "Load warnings", warnings, limit)

	dangling := make([]string, len(s.Dangling))
	for i, d := range s.Dangling {
		dangling[i] = d.String()
	}
	renderList(w, "Unresolved references", dangling, limit)

	failures := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		failures[i] = f.Error()
	}
	renderList(w, "Failed records", failures, limit)
}

func renderEntities(w io.Writer, stats []pipeline.EntityStats) {
	t := pretty.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(pretty.StyleLight)
	t.AppendHeader(pretty.Row{"Entity", "Table", "Distinct", "Inserted", "Existing", "Failed"})

	var total pipeline.EntityStats
	for _, st := range stats {
		t.AppendRow(pretty.Row{st.Entity.String(), st.Entity.Table(), st.Distinct, st.Inserted, st.Existing, st.Failed})
		total.Distinct += st.Distinct
		total.Inserted += st.Inserted
		total.Existing += st.Existing
		total.Failed += st.Failed
	}
	t.AppendFooter(pretty.Row{"Total", "", total.Distinct, total.Inserted, total.Existing, total.Failed})
	t.SetColumnConfigs([]pretty.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// renderList prints up to limit items under a heading. A negative limit prints all.
func renderList(w io.Writer, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s (%d):\n", heading, len(items))
	for i, item := range items {
		if limit >= 0 && i >= limit {
			_, _ = fmt.Fprintf(w, "  ... and %d more (use --verbose to list all)\n", len(items)-limit)
			break
		}
		_, _ = fmt.Fprintf(w, "  %s\n", item)
	}
}
