package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/icar17/teachload/internal/checksum"
)

// Options control how input files are parsed.
type Options struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
}

// Loader loads a single input file into a table.
type Loader interface {
	Load(path string) (*Table, error)
}

// FileLoader reads tables from the local filesystem.
type FileLoader struct {
	opts Options
	calc checksum.Calculator
}

// NewFileLoader creates a loader with the given options.
func NewFileLoader(opts Options) *FileLoader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &FileLoader{opts: opts, calc: checksum.New()}
}

// Load reads path and parses it according to its extension.
func (l *FileLoader) Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		t, err = ParseXLSX(path, data)
	case ".csv", ".txt", "":
		t, err = ParseCSV(path, data, l.opts.Delimiter)
	default:
		return nil, fmt.Errorf("unsupported file type %q for %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	t.Checksum = l.calc.CalculateRaw(data)
	t.ContentChecksum = l.calc.CalculateContent(t.Columns, t.Records())
	return t, nil
}

// SupportedExtension reports whether path has an extension the loader accepts.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".xlsx", ".xlsm":
		return true
	}
	return false
}
