package picker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icar17/teachload/internal/config"
	"github.com/icar17/teachload/internal/table"
	"github.com/icar17/teachload/internal/tui"
	"github.com/icar17/teachload/internal/tui/components"
	"github.com/icar17/teachload/pkg/teachload"
)

// Compile-time interface checks.
var (
	_ teachload.SourcePicker = (*ListPicker)(nil)
	_ teachload.SourcePicker = (*InteractivePicker)(nil)
	_ teachload.SourcePicker = (*ChainPicker)(nil)
)

// ListPicker returns a fixed list of paths, expanding glob patterns.
type ListPicker struct {
	patterns []string
}

// NewArgsPicker picks the files named on the command line.
func NewArgsPicker(args []string) *ListPicker {
	return &ListPicker{patterns: args}
}

// NewConfigPicker picks the inputs listed in the project config.
func NewConfigPicker(cfg *config.ProjectConfig) *ListPicker {
	if cfg == nil {
		return &ListPicker{}
	}
	return &ListPicker{patterns: cfg.Inputs}
}

// Pick implements teachload.SourcePicker.
func (p *ListPicker) Pick(ctx context.Context) ([]string, error) {
	return ExpandPatterns(p.patterns)
}

// ExpandPatterns replaces each glob pattern by its sorted matches and keeps
// plain paths as given. A pattern that matches nothing is an error, as is
// a malformed one.
func ExpandPatterns(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if !isGlob(p) {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", p)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// ProgramRunner runs a bubbletea model to completion and returns its final state.
type ProgramRunner func(m tea.Model) (tea.Model, error)

func runProgram(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// InteractivePicker lets the user choose files from a directory.
type InteractivePicker struct {
	dir string
	run ProgramRunner
}

// NewInteractivePicker lists the supported files of dir. A nil run uses a
// full-screen bubbletea program.
func NewInteractivePicker(dir string, run ProgramRunner) *InteractivePicker {
	if dir == "" {
		dir = "."
	}
	if run == nil {
		run = runProgram
	}
	return &InteractivePicker{dir: dir, run: run}
}

// Pick implements teachload.SourcePicker. Cancelling returns an empty list.
func (p *InteractivePicker) Pick(ctx context.Context) ([]string, error) {
	items, err := ListFiles(p.dir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Select export files in %s", p.dir)
	final, err := p.run(components.NewFileList(title, items))
	if err != nil {
		return nil, fmt.Errorf("file picker failed: %w", err)
	}
	list, ok := final.(components.FileList)
	if !ok {
		return nil, fmt.Errorf("file picker returned unexpected model %T", final)
	}
	return list.Selected(), nil
}

// ListFiles returns the loadable files directly inside dir, sorted by name.
func ListFiles(dir string) ([]components.FileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var items []components.FileItem
	for _, e := range entries {
		if e.IsDir() || !table.SupportedExtension(e.Name()) {
			continue
		}
		item := components.FileItem{
			Label: e.Name(),
			Path:  filepath.Join(dir, e.Name()),
		}
		if info, err := e.Info(); err == nil {
			item.Description = humanSize(info.Size())
		}
		items = append(items, item)
	}
	// os.ReadDir already sorts by filename
	return items, nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// ChainPicker asks each picker in turn and returns the first non-empty result.
type ChainPicker struct {
	pickers []teachload.SourcePicker
	logger  teachload.Logger
}

// NewChainPicker creates a chain. Nil pickers are skipped.
func NewChainPicker(logger teachload.Logger, pickers ...teachload.SourcePicker) *ChainPicker {
	var ps []teachload.SourcePicker
	for _, p := range pickers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &ChainPicker{pickers: ps, logger: logger}
}

// Pick implements teachload.SourcePicker. An error from any picker stops the chain.
func (c *ChainPicker) Pick(ctx context.Context) ([]string, error) {
	for i, p := range c.pickers {
		paths, err := p.Pick(ctx)
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			if c.logger != nil {
				c.logger.Verbose("Source %d of %d selected %d file(s)", i+1, len(c.pickers), len(paths))
			}
			return paths, nil
		}
	}
	return nil, nil
}

// Options configure the default source chain.
type Options struct {
	Args    []string
	Project *config.ProjectConfig
	Dir     string
	// Interactive enables the terminal picker. Defaults to tui.IsInteractive().
	Interactive *bool
}

// Default builds the chain args → project config → interactive picker.
func Default(opts Options, logger teachload.Logger) *ChainPicker {
	interactive := tui.IsInteractive()
	if opts.Interactive != nil {
		interactive = *opts.Interactive
	}

	var tty teachload.SourcePicker
	if interactive {
		tty = NewInteractivePicker(opts.Dir, nil)
	}
	return NewChainPicker(logger,
		NewArgsPicker(opts.Args),
		NewConfigPicker(opts.Project),
		tty,
	)
}
