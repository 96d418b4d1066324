package grid

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// IndexColumnTitle is the header of the synthetic row-number column.
const IndexColumnTitle = "•"

// Cell is one rendered grid cell.
type Cell struct {
	Value   string   `json:"value"`
	Classes []string `json:"classes,omitempty"`
}

// Row is one rendered grid row. Cells[0] is the row-number cell.
type Row struct {
	Cells []Cell `json:"cells"`
}

func (r *Row) Len() int { return len(r.Cells) }

func (r *Row) Value(column int) string {
	if column < 0 || column >= len(r.Cells) {
		return ""
	}
	return r.Cells[column].Value
}

// AddClass tags a cell. Adding a class the cell already has is a no-op.
func (r *Row) AddClass(column int, class string) {
	if column < 0 || column >= len(r.Cells) {
		return
	}
	c := &r.Cells[column]
	if !slices.Contains(c.Classes, class) {
		c.Classes = append(c.Classes, class)
	}
}

// Number returns the displayed 1-based row number, or "" for padding rows.
func (r *Row) Number() string {
	return r.Value(0)
}

// DataValues returns the row's values without the row-number cell.
func (r *Row) DataValues() []string {
	out := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells[min(1, len(r.Cells)):] {
		out = append(out, c.Value)
	}
	return out
}

// BuildRows turns samples into display rows. positions holds the zero-based
// data-row position of each sample and must be strictly increasing; gaps are
// filled with blank rows so every sample lands at its original position. A
// nil positions slice means the samples are contiguous from row 0.
func BuildRows(samples [][]string, positions []int) ([]*Row, error) {
	if positions != nil && len(positions) != len(samples) {
		return nil, fmt.Errorf("row positions: got %d, want %d", len(positions), len(samples))
	}

	rows := make([]*Row, 0, len(samples))
	prev := -1
	for i, sample := range samples {
		pos := i
		if positions != nil {
			pos = positions[i]
		}
		if pos <= prev {
			return nil, fmt.Errorf("row positions must be strictly increasing: position %d at sample %d", pos, i)
		}
		prev = pos

		for len(rows) < pos {
			rows = append(rows, blankRow(len(sample)+1))
		}

		r := &Row{Cells: make([]Cell, 0, len(sample)+1)}
		r.Cells = append(r.Cells, Cell{Value: strconv.Itoa(pos + 1)})
		for _, v := range sample {
			r.Cells = append(r.Cells, Cell{Value: v})
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func blankRow(width int) *Row {
	return &Row{Cells: make([]Cell, width)}
}

// Column describes one grid column.
type Column struct {
	Data  int    `json:"data"`
	Title string `json:"title"`
}

// Columns returns the synthetic index column followed by the data columns.
func Columns(names []string) []Column {
	cols := make([]Column, 0, len(names)+1)
	cols = append(cols, Column{Data: 0, Title: IndexColumnTitle})
	for i, name := range names {
		cols = append(cols, Column{Data: i + 1, Title: name})
	}
	return cols
}

// LetterHeader returns the spreadsheet-style header labels for n grid
// columns, the first being the blank label of the index column.
func LetterHeader(n int) []string {
	labels := make([]string, n)
	for i := 1; i < n; i++ {
		labels[i] = highlight.IndexToLetters(i - 1)
	}
	return labels
}
