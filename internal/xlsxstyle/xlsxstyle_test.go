package xlsxstyle

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeTable struct {
	fills []string
	fail  bool
}

func (t *fakeTable) AppendSolidFill(rgb string) (int, error) {
	if t.fail {
		return 0, errors.New("style table is read-only")
	}
	t.fills = append(t.fills, rgb)
	return 100 + len(t.fills), nil
}

type fakeSheet struct {
	refs   []string
	styles map[string]int
	fail   string
}

func newFakeSheet(refs ...string) *fakeSheet {
	return &fakeSheet{refs: refs, styles: make(map[string]int)}
}

func (s *fakeSheet) CellRefs() ([]string, error) { return s.refs, nil }

func (s *fakeSheet) SetCellStyle(ref string, id int) error {
	if ref == s.fail {
		return errors.New("write failed")
	}
	s.styles[ref] = id
	return nil
}

func sampleResolver() *highlight.Resolver {
	ix, _ := highlight.Build([]highlight.ErrorRecord{
		highlight.CellError(1, 2, highlight.SeverityError, "bad value"),
		highlight.ColumnError(1, highlight.SeverityWarning, "mixed units"),
		highlight.RowError(2, highlight.SeverityWarning, "duplicate"),
		highlight.ColumnError(3, highlight.SeverityError, "missing"),
	})
	return highlight.NewResolver(ix)
}

func TestRegister(t *testing.T) {
	table := &fakeTable{}
	reg, err := Register(table, DefaultPalette())
	require.NoError(t, err)

	assert.Equal(t, len(highlight.Outcomes), reg.Len())
	assert.Equal(t, []string{"D2232A", "FFD200", "F6D3D4", "FFEFAC", "FBE1C0"}, table.fills)

	id, ok := reg.StyleID(highlight.OutcomeErrorCell)
	assert.True(t, ok)
	assert.Equal(t, 101, id)
	id, ok = reg.StyleID(highlight.OutcomeCrossAxis)
	assert.True(t, ok)
	assert.Equal(t, 105, id)

	_, ok = reg.StyleID(highlight.OutcomeNone)
	assert.False(t, ok)
}

func TestRegister_Errors(t *testing.T) {
	_, err := Register(&fakeTable{fail: true}, DefaultPalette())
	assert.Error(t, err)

	bad := DefaultPalette()
	bad[highlight.OutcomeErrorAxis] = "red"
	_, err = Register(&fakeTable{}, bad)
	assert.Error(t, err)
}

func TestParseCellRef(t *testing.T) {
	col, row, err := ParseCellRef("B12")
	require.NoError(t, err)
	assert.Equal(t, 1, col)
	assert.Equal(t, 12, row)

	col, _, err = ParseCellRef("AA1")
	require.NoError(t, err)
	assert.Equal(t, 26, col)

	for _, ref := range []string{"", "12", "B", "b12", "B0", "B-1", "$B$2", "B2:C3"} {
		_, _, err := ParseCellRef(ref)
		assert.ErrorIs(t, err, ErrMalformedCellAddress, ref)
	}
}

func TestStyler_Apply(t *testing.T) {
	table := &fakeTable{}
	reg, err := Register(table, DefaultPalette())
	require.NoError(t, err)

	// header row 1, data rows start at sheet row 2
	sheet := newFakeSheet("A1", "B1", "A2", "B2", "B4", "A4", "D4", "C4", "D2", "C2", "bad", "B3")
	s := NewStyler(sampleResolver(), reg, WithHeaderRows(1), WithLogger(quiet))

	sum, err := s.Apply(sheet)
	require.NoError(t, err)

	want := map[string]highlight.Outcome{
		"B2": highlight.OutcomeWarningAxis, // column warning
		"B4": highlight.OutcomeErrorCell,   // data row 2, column 1
		"A4": highlight.OutcomeWarningAxis, // row warning
		"D4": highlight.OutcomeCrossAxis,   // row warning, column error
		"C4": highlight.OutcomeWarningAxis,
		"D2": highlight.OutcomeErrorAxis,
		"B3": highlight.OutcomeWarningAxis,
	}
	for ref, outcome := range want {
		id, _ := reg.StyleID(outcome)
		assert.Equal(t, id, sheet.styles[ref], ref)
	}
	assert.NotContains(t, sheet.styles, "A1")
	assert.NotContains(t, sheet.styles, "B1")
	assert.NotContains(t, sheet.styles, "A2")
	assert.NotContains(t, sheet.styles, "C2")

	assert.Equal(t, 12, sum.Cells)
	assert.Equal(t, len(want), sum.Styled)
	assert.Equal(t, []string{"bad"}, sum.Malformed)
	assert.Equal(t, 4, sum.Outcomes[highlight.OutcomeWarningAxis])
}

func TestStyler_Idempotent(t *testing.T) {
	reg, err := Register(&fakeTable{}, DefaultPalette())
	require.NoError(t, err)
	s := NewStyler(sampleResolver(), reg, WithHeaderRows(1), WithLogger(quiet))

	sheet := newFakeSheet("B2", "B4", "D4", "A1")
	_, err = s.Apply(sheet)
	require.NoError(t, err)
	first := maps(sheet.styles)

	_, err = s.Apply(sheet)
	require.NoError(t, err)
	assert.Equal(t, first, sheet.styles)
}

func TestStyler_WriteFailure(t *testing.T) {
	reg, err := Register(&fakeTable{}, DefaultPalette())
	require.NoError(t, err)
	s := NewStyler(sampleResolver(), reg, WithLogger(quiet))

	sheet := newFakeSheet("B3")
	sheet.fail = "B3"
	_, err = s.Apply(sheet)
	assert.Error(t, err)
}

func TestStyler_MissingRegistration(t *testing.T) {
	s := NewStyler(sampleResolver(), Registry{}, WithLogger(quiet))
	_, err := s.Apply(newFakeSheet("B3"))
	assert.Error(t, err)
}

func TestLoadPalette(t *testing.T) {
	p, err := LoadPalette("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette(), p)

	dir := t.TempDir()
	path := filepath.Join(dir, "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("error-cell: \"#ff0000\"\ncross-axis: 00FF00\n"), 0o600))

	p, err = LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, "FF0000", p.Color(highlight.OutcomeErrorCell))
	assert.Equal(t, "00FF00", p.Color(highlight.OutcomeCrossAxis))
	assert.Equal(t, "FFD200", p.Color(highlight.OutcomeWarningCell))

	require.NoError(t, os.WriteFile(path, []byte("purple-cell: 800080\n"), 0o600))
	_, err = LoadPalette(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("error-cell: 12345\n"), 0o600))
	_, err = LoadPalette(path)
	assert.Error(t, err)

	_, err = LoadPalette(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkbook_EndToEnd(t *testing.T) {
	wb, err := BuildWorkbook("", []string{"depth", "units", "site", "notes"}, [][]string{
		{"1.5", "m", "north", ""},
		{"2.0", "ft", "south", "x"},
		{"x", "", "east", ""},
	})
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, DefaultSheet, wb.Sheet())

	refs, err := wb.CellRefs()
	require.NoError(t, err)
	assert.Len(t, refs, 16)
	assert.Equal(t, "A1", refs[0])
	assert.Equal(t, "D4", refs[len(refs)-1])

	reg, err := Register(wb, DefaultPalette())
	require.NoError(t, err)
	s := NewStyler(sampleResolver(), reg, WithHeaderRows(HeaderRows), WithLogger(quiet))

	sum, err := s.Apply(wb)
	require.NoError(t, err)
	assert.Empty(t, sum.Malformed)

	fill, err := wb.StyleFill("B4")
	require.NoError(t, err)
	assert.Equal(t, "D2232A", fill)

	fill, err = wb.StyleFill("D4")
	require.NoError(t, err)
	assert.Equal(t, "FBE1C0", fill)

	fill, err = wb.StyleFill("B1")
	require.NoError(t, err)
	assert.Empty(t, fill)

	// blank cells inside the table are styled too
	fill, err = wb.StyleFill("D2")
	require.NoError(t, err)
	assert.Equal(t, "F6D3D4", fill)

	again, err := s.Apply(wb)
	require.NoError(t, err)
	assert.Equal(t, sum.Styled, again.Styled)
	fill, err = wb.StyleFill("B4")
	require.NoError(t, err)
	assert.Equal(t, "D2232A", fill)
}

func TestWorkbook_RoundTripFile(t *testing.T) {
	wb, err := BuildWorkbook("Report", []string{"a", "b"}, [][]string{{"1", "2"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, wb.File().SaveAs(path))
	require.NoError(t, wb.Close())

	opened, err := OpenWorkbook(path, "")
	require.NoError(t, err)
	defer opened.Close()
	assert.Equal(t, "Report", opened.Sheet())

	_, err = OpenWorkbook(path, "Nope")
	assert.Error(t, err)
}

func maps(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestWorkbook_CellRefsIgnoresDeclaredDimension(t *testing.T) {
	wb, err := BuildWorkbook("", []string{"a", "b"}, [][]string{{"1", "2"}})
	require.NoError(t, err)
	defer wb.Close()
	wb.SetMaxCells(MaxCellRefs)

	require.NoError(t, wb.File().SetSheetDimension(wb.Sheet(), "A1:XFD1048576"))

	refs, err := wb.CellRefs()
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "A2", "B2"}, refs)
}

func TestWorkbook_CellRefsRangeTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "far.xlsx")
	built, err := BuildWorkbook("", []string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)
	require.NoError(t, built.File().SetCellValue(built.Sheet(), "XFD1048576", "far"))
	require.NoError(t, built.File().SaveAs(path))
	require.NoError(t, built.Close())

	wb, err := OpenWorkbook(path, "")
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.CellRefs()
	require.ErrorIs(t, err, ErrRangeTooLarge)
	assert.Contains(t, err.Error(), "A1:XFD1048576")

	reg, err := Register(wb, DefaultPalette())
	require.NoError(t, err)
	_, err = NewStyler(sampleResolver(), reg, WithLogger(quiet)).Apply(wb)
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	wb.SetMaxCells(1)
	_, err = wb.CellRefs()
	assert.ErrorIs(t, err, ErrRangeTooLarge)
}

func TestWorkbook_CellRefsEmptySheet(t *testing.T) {
	wb, err := BuildWorkbook("", nil, nil)
	require.NoError(t, err)
	defer wb.Close()

	refs, err := wb.CellRefs()
	require.NoError(t, err)
	assert.Empty(t, refs)
}
