package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/errgrid/internal/highlight"
	"github.com/JonMunkholm/errgrid/internal/xlsxstyle"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	wb, err := xlsxstyle.BuildWorkbook("Samples",
		[]string{"depth", "units"},
		[][]string{{"1.5", "m"}, {"x", "ft"}},
	)
	require.NoError(t, err)
	defer wb.Close()
	require.NoError(t, wb.File().SaveAs(path))
}

func writeErrors(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	records := []highlight.ErrorRecord{
		highlight.CellError(1, 0, highlight.SeverityError, "bad"),
		highlight.RowError(1, highlight.SeverityWarning, "dup"),
	}

	arrayPath := filepath.Join(dir, "array.json")
	writeErrors(t, arrayPath, records)
	got, err := LoadErrors(arrayPath)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	reportPath := filepath.Join(dir, "report.json")
	writeErrors(t, reportPath, map[string]any{"columns": []string{"a"}, "errors": records})
	got, err = LoadErrors(reportPath)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0o644))
	_, err = LoadErrors(badPath)
	assert.Error(t, err)
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "nested/b.xlsx", "nested/deep/c.xlsx", "notes.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	files, err := ExpandPatterns([]string{
		filepath.Join(dir, "**", "*.xlsx"),
		filepath.Join(dir, "a.xlsx"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "nested", "b.xlsx"),
		filepath.Join(dir, "nested", "deep", "c.xlsx"),
	}, files)

	_, err = ExpandPatterns([]string{filepath.Join(dir, "*.csv")})
	assert.ErrorIs(t, err, ErrNoWorkbooks)
}

func TestStyleWorkbooks(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writeWorkbook(t, filepath.Join(in, "one.xlsx"))
	writeWorkbook(t, filepath.Join(in, "two.xlsx"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("not a zip"), 0o644))

	errorsPath := filepath.Join(dir, "errors.json")
	writeErrors(t, errorsPath, []highlight.ErrorRecord{
		highlight.CellError(1, 0, highlight.SeverityError, "bad units"),
		highlight.ColumnError(0, highlight.SeverityWarning, "mixed"),
		{Severity: highlight.SeverityError, Message: "unscoped"},
	})

	results, err := StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile:  errorsPath,
		Patterns:    []string{filepath.Join(in, "*.xlsx")},
		OutDir:      out,
		HeaderRows:  1,
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(in, "broken.xlsx"), results[0].Path)
	assert.Error(t, results[0].Err)

	for _, r := range results[1:] {
		require.NoError(t, r.Err, r.Path)
		assert.Equal(t, filepath.Join(out, filepath.Base(r.Path)), r.Output)
		assert.Equal(t, 3, r.Summary.Styled)
		assert.Equal(t, 1, r.Summary.Outcomes[highlight.OutcomeErrorCell])
		assert.Equal(t, 2, r.Summary.Outcomes[highlight.OutcomeWarningAxis])

		wb, err := xlsxstyle.OpenWorkbook(r.Output, "")
		require.NoError(t, err)
		fills := map[string]string{}
		for _, ref := range []string{"A1", "A2", "A3", "B2", "B3"} {
			fills[ref], err = wb.StyleFill(ref)
			require.NoError(t, err)
		}
		require.NoError(t, wb.Close())

		assert.Equal(t, map[string]string{
			"A1": "",
			"A2": "FFEFAC",
			"A3": "FFEFAC",
			"B2": "D2232A",
			"B3": "",
		}, fills)
	}

	summary := FormatResults(results)
	assert.Contains(t, summary, "2 workbook(s), 6 cell(s) styled, 1 failed")
	assert.Contains(t, summary, "broken.xlsx")
}

func TestStyleWorkbooks_SetupErrors(t *testing.T) {
	dir := t.TempDir()
	errorsPath := filepath.Join(dir, "errors.json")
	writeErrors(t, errorsPath, []highlight.ErrorRecord{})

	_, err := StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile: filepath.Join(dir, "missing.json"),
		Patterns:   []string{"*.xlsx"},
	})
	assert.Error(t, err)

	_, err = StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile: errorsPath,
		Patterns:   []string{filepath.Join(dir, "*.xlsx")},
	})
	assert.ErrorIs(t, err, ErrNoWorkbooks)
}

func TestConvertLetters(t *testing.T) {
	convs, err := ConvertLetters([]string{"0", "25", "26", "AA", "zz"})
	require.NoError(t, err)

	got := make([]string, len(convs))
	for i, c := range convs {
		got[i] = c.Output
	}
	assert.Equal(t, []string{"A", "Z", "AA", "26", "701"}, got)

	_, err = ConvertLetters([]string{"-1"})
	assert.Error(t, err)
	_, err = ConvertLetters([]string{"A1"})
	assert.ErrorIs(t, err, highlight.ErrInvalidLabel)

	assert.True(t, strings.Contains(FormatConversions(convs), "AA"))
}

func TestStyleWorkbooks_KeepsNestedLayout(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(in, sub), 0o755))
		writeWorkbook(t, filepath.Join(in, sub, "r.xlsx"))
	}

	errorsPath := filepath.Join(dir, "errors.json")
	writeErrors(t, errorsPath, []highlight.ErrorRecord{
		highlight.CellError(1, 0, highlight.SeverityError, "bad units"),
	})

	results, err := StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile: errorsPath,
		Patterns:   []string{filepath.Join(in, "**", "*.xlsx")},
		OutDir:     out,
		HeaderRows: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(out, "a", "r.xlsx"), results[0].Output)
	assert.Equal(t, filepath.Join(out, "b", "r.xlsx"), results[1].Output)
	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
		assert.Equal(t, 1, r.Summary.Styled)
		assert.FileExists(t, r.Output)
	}
}

func TestStyleWorkbooks_OutputCollision(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(in, sub), 0o755))
		writeWorkbook(t, filepath.Join(in, sub, "r.xlsx"))
	}

	errorsPath := filepath.Join(dir, "errors.json")
	writeErrors(t, errorsPath, []highlight.ErrorRecord{})

	_, err := StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile: errorsPath,
		Patterns: []string{
			filepath.Join(in, "a", "*.xlsx"),
			filepath.Join(in, "b", "*.xlsx"),
		},
		OutDir: out,
	})
	require.ErrorIs(t, err, ErrOutputCollision)
	assert.Contains(t, err.Error(), filepath.Join(out, "r.xlsx"))
	assert.NoDirExists(t, out)

	results, err := StyleWorkbooks(context.Background(), StyleOptions{
		ErrorsFile: errorsPath,
		Patterns: []string{
			filepath.Join(in, "a", "*.xlsx"),
			filepath.Join(in, "b", "*.xlsx"),
		},
	})
	require.NoError(t, err, "styling in place never collides")
	assert.Len(t, results, 2)
}
