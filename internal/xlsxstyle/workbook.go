package xlsxstyle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook adapts one sheet of an excelize file to StyleTable and Worksheet.
type Workbook struct {
	file     *excelize.File
	sheet    string
	maxCells int
}

// NewWorkbook wraps sheet of f. An empty sheet name selects the first sheet.
func NewWorkbook(f *excelize.File, sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return &Workbook{file: f, sheet: sheet, maxCells: MaxCellRefs}, nil
}

// OpenWorkbook opens the spreadsheet at path.
func OpenWorkbook(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb, err := NewWorkbook(f, sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wb, nil
}

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File { return w.file }

// Sheet returns the wrapped sheet's name.
func (w *Workbook) Sheet() string { return w.sheet }

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.file.Close() }

// AppendSolidFill registers a cell format with a solid pattern fill of rgb.
// excelize keeps the fill and cellXfs counts in step with the new entries.
func (w *Workbook) AppendSolidFill(rgb string) (int, error) {
	return w.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#" + strings.TrimPrefix(rgb, "#")},
		},
	})
}

// MaxCellRefs is the default bound on the used range CellRefs enumerates.
const MaxCellRefs = 5_000_000

// ErrRangeTooLarge is returned by CellRefs when the used range exceeds the
// workbook's cell limit.
var ErrRangeTooLarge = errors.New("used range too large")

// SetMaxCells changes the CellRefs bound. n <= 0 removes it.
func (w *Workbook) SetMaxCells(n int) { w.maxCells = n }

// CellRefs lists every cell of the sheet's used range, row by row. The range
// is the rectangle from A1 to the last row and column holding a value, so
// blank cells inside the table are included. The declared sheet dimension is
// ignored; it is often stale or inflated.
func (w *Workbook) CellRefs() ([]string, error) {
	maxCol, maxRow, err := w.extent()
	if err != nil {
		return nil, err
	}
	if n := maxCol * maxRow; w.maxCells > 0 && n > w.maxCells {
		last, _ := excelize.CoordinatesToCellName(maxCol, maxRow)
		return nil, fmt.Errorf("%w: A1:%s spans %d cells, limit is %d", ErrRangeTooLarge, last, n, w.maxCells)
	}

	refs := make([]string, 0, maxCol*maxRow)
	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			ref, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (w *Workbook) extent() (maxCol, maxRow int, err error) {
	rows, err := w.file.Rows(w.sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("read rows: %w", err)
	}
	defer rows.Close()

	for r := 1; rows.Next(); r++ {
		cols, err := rows.Columns()
		if err != nil {
			return 0, 0, fmt.Errorf("read row %d: %w", r, err)
		}
		// Styled but empty trailing cells do not extend the range.
		last := len(cols)
		for last > 0 && cols[last-1] == "" {
			last--
		}
		if last == 0 {
			continue
		}
		maxRow = max(maxRow, r)
		maxCol = max(maxCol, last)
	}
	if err := rows.Error(); err != nil {
		return 0, 0, err
	}
	return maxCol, maxRow, nil
}

// SetCellStyle points ref at style id.
func (w *Workbook) SetCellStyle(ref string, id int) error {
	return w.file.SetCellStyle(w.sheet, ref, ref, id)
}

// StyleFill returns the fill colour of cell ref, or "" when it has none.
func (w *Workbook) StyleFill(ref string) (string, error) {
	id, err := w.file.GetCellStyle(w.sheet, ref)
	if err != nil {
		return "", err
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return "", err
	}
	if len(style.Fill.Color) == 0 {
		return "", nil
	}
	c := normalizeHex(style.Fill.Color[0])
	if len(c) == 8 {
		c = c[2:] // ARGB
	}
	return c, nil
}
