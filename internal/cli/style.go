// Package cli implements the errgrid command-line operations: styling
// existing workbooks from an errors file and converting column labels.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"

	"github.com/JonMunkholm/errgrid/internal/core"
	"github.com/JonMunkholm/errgrid/internal/highlight"
	"github.com/JonMunkholm/errgrid/internal/xlsxstyle"
)

// DefaultConcurrency is the number of workbooks styled in parallel.
const DefaultConcurrency = 4

var (
	// ErrNoWorkbooks is returned when no pattern matches a file.
	ErrNoWorkbooks = errors.New("no workbooks matched")

	// ErrOutputCollision is returned when two inputs map to one output file.
	ErrOutputCollision = errors.New("output collision")
)

// StyleOptions configures StyleWorkbooks.
type StyleOptions struct {
	// ErrorsFile holds either a JSON array of error records or an object
	// with an "errors" array, such as a report payload.
	ErrorsFile string

	// Patterns are doublestar globs, e.g. "exports/**/*.xlsx".
	Patterns []string

	// OutDir receives the styled copies, laid out by each input's path
	// below its pattern's base directory. Empty styles in place.
	OutDir string

	Sheet       string
	HeaderRows  int
	PaletteFile string
	Concurrency int

	Logger *slog.Logger
}

// StyleResult is the outcome for one workbook.
type StyleResult struct {
	Path    string
	Output  string
	Summary xlsxstyle.Summary
	Err     error
}

// LoadErrors reads error records from path.
func LoadErrors(path string) ([]highlight.ErrorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read errors file: %w", err)
	}
	defer f.Close()

	data, err := core.ReadPayload(f)
	if err != nil {
		return nil, fmt.Errorf("read errors file %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []highlight.ErrorRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse errors file %s: %w", path, err)
		}
		return records, nil
	}

	var wrapper struct {
		Errors []highlight.ErrorRecord `json:"errors"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse errors file %s: %w", path, err)
	}
	return wrapper.Errors, nil
}

// ExpandPatterns resolves globs to a sorted, de-duplicated file list.
func ExpandPatterns(patterns []string) ([]string, error) {
	matches, err := expandMatches(patterns)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = m.path
	}
	return files, nil
}

// match is a workbook found by a pattern. rel is its path below the
// pattern's static base, e.g. "a/r.xlsx" for "in/**/*.xlsx".
type match struct {
	path string
	rel  string
}

func expandMatches(patterns []string) ([]match, error) {
	var matches []match
	for _, p := range patterns {
		paths, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		base = filepath.FromSlash(base)
		for _, path := range paths {
			rel, err := filepath.Rel(base, path)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				rel = filepath.Base(path)
			}
			matches = append(matches, match{path: path, rel: rel})
		}
	}

	// A file matched by several patterns keeps its first relative path.
	slices.SortStableFunc(matches, func(a, b match) int { return strings.Compare(a.path, b.path) })
	matches = slices.CompactFunc(matches, func(a, b match) bool { return a.path == b.path })
	if len(matches) == 0 {
		return nil, ErrNoWorkbooks
	}
	return matches, nil
}

// planOutputs assigns every match its output path and rejects two inputs
// that would be written to the same file.
func planOutputs(matches []match, outDir string) (map[string]string, error) {
	outputs := make(map[string]string, len(matches))
	writers := make(map[string]string, len(matches))
	for _, m := range matches {
		out := m.path
		if outDir != "" {
			out = filepath.Join(outDir, m.rel)
		}
		if prev, dup := writers[out]; dup {
			return nil, fmt.Errorf("%w: %s would be written by both %s and %s", ErrOutputCollision, out, prev, m.path)
		}
		writers[out] = m.path
		outputs[m.path] = out
	}
	return outputs, nil
}

// StyleWorkbooks styles every workbook matched by opts.Patterns with the
// outcomes of the records in opts.ErrorsFile. Per-workbook failures are
// reported in the results; the error covers setup problems only.
func StyleWorkbooks(ctx context.Context, opts StyleOptions) ([]StyleResult, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	records, err := LoadErrors(opts.ErrorsFile)
	if err != nil {
		return nil, err
	}
	ix, diags := highlight.Build(records)
	for _, d := range diags {
		log.Warn("error record not indexed", "position", d.Position, "error", d.Err)
	}
	resolver := highlight.NewResolver(ix)

	palette := xlsxstyle.DefaultPalette()
	if opts.PaletteFile != "" {
		if palette, err = xlsxstyle.LoadPalette(opts.PaletteFile); err != nil {
			return nil, err
		}
	}

	matches, err := expandMatches(opts.Patterns)
	if err != nil {
		return nil, err
	}
	outputs, err := planOutputs(matches, opts.OutDir)
	if err != nil {
		return nil, err
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	p := pool.NewWithResults[StyleResult]().WithMaxGoroutines(workers)
	for _, m := range matches {
		p.Go(func() StyleResult {
			res := StyleResult{Path: m.path, Output: outputs[m.path]}
			if err := ctx.Err(); err != nil {
				res.Err = err
				return res
			}
			res.Summary, res.Err = styleFile(m.path, res.Output, resolver, palette, opts, log)
			return res
		})
	}

	results := p.Wait()
	slices.SortFunc(results, func(a, b StyleResult) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
	return results, nil
}

func styleFile(path, output string, src xlsxstyle.OutcomeSource, palette xlsxstyle.Palette, opts StyleOptions, log *slog.Logger) (xlsxstyle.Summary, error) {
	wb, err := xlsxstyle.OpenWorkbook(path, opts.Sheet)
	if err != nil {
		return xlsxstyle.Summary{}, err
	}
	defer wb.Close()

	reg, err := xlsxstyle.Register(wb, palette)
	if err != nil {
		return xlsxstyle.Summary{}, fmt.Errorf("%s: %w", path, err)
	}

	styler := xlsxstyle.NewStyler(src, reg,
		xlsxstyle.WithHeaderRows(opts.HeaderRows),
		xlsxstyle.WithLogger(log.With("workbook", path)),
	)
	sum, err := styler.Apply(wb)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", path, err)
	}

	if output == path {
		err = wb.File().Save()
	} else if err = os.MkdirAll(filepath.Dir(output), 0o755); err == nil {
		err = wb.File().SaveAs(output)
	}
	if err != nil {
		return sum, fmt.Errorf("save %s: %w", output, err)
	}
	return sum, nil
}
