// Package grid prepares the interactive grid view: it reshapes sparse sample
// rows into display rows and tags each rendered cell with error marker
// classes.
package grid

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// RowAdapter is a rendered table row. Column 0 holds the 1-based row number;
// data columns start at 1.
type RowAdapter interface {
	Len() int
	Value(column int) string
	AddClass(column int, class string)
}

// MarkerSource resolves independent-axis markers for a location.
type MarkerSource interface {
	Markers(q highlight.Query) highlight.Markers
}

// Annotator tags rendered rows with marker classes.
type Annotator struct {
	markers MarkerSource
}

// NewAnnotator returns an annotator backed by src.
func NewAnnotator(src MarkerSource) *Annotator {
	return &Annotator{markers: src}
}

// AnnotateRow adds the markers of every data cell in row. A row whose number
// cell is blank or not a number (padding rows) has no row coordinate, so only
// column-scoped markers can apply to it. Existing classes are never removed.
func (a *Annotator) AnnotateRow(row RowAdapter) {
	rowIdx, hasRow := rowIndex(row.Value(0))

	for i := 1; i < row.Len(); i++ {
		col := i - 1
		q := highlight.AtColumn(col)
		if hasRow {
			q = highlight.At(col, rowIdx)
		}
		for _, class := range a.markers.Markers(q).Classes() {
			row.AddClass(i, class)
		}
	}
}

// AnnotateRows annotates each row in turn.
func AnnotateRows[R RowAdapter](a *Annotator, rows []R) {
	for _, r := range rows {
		a.AnnotateRow(r)
	}
}

func rowIndex(number string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
