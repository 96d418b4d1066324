package selection

import (
	"strings"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// IndexColumn is the widget column holding the synthetic row numbers.
const IndexColumn = 0

// EventKind distinguishes selection from deselection.
type EventKind string

const (
	Select   EventKind = "select"
	Deselect EventKind = "deselect"
)

// TypeCell is the only event type that affects the key set.
const TypeCell = "cell"

// CellIndex addresses a cell in the widget's own index space: Row is the
// display row position and Column 0 is the synthetic row-number column.
type CellIndex struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Event is a widget selection change.
type Event struct {
	Kind    EventKind   `json:"kind"`
	Type    string      `json:"type"`
	Indexes []CellIndex `json:"indexes"`
}

// RowNumbers reads the displayed row number of a display row. Padding rows
// return "".
type RowNumbers interface {
	RowNumber(row int) string
}

// RowNumberFunc adapts a function to RowNumbers.
type RowNumberFunc func(row int) string

func (f RowNumberFunc) RowNumber(row int) string { return f(row) }

// LocationKeys returns the keys a selected data cell contributes: column
// label, row number and cell address. The synthetic column yields none, and
// a blank row number only yields the column label.
func LocationKeys(idx CellIndex, rows RowNumbers) []string {
	if idx.Column == IndexColumn {
		return nil
	}
	label := highlight.IndexToLetters(idx.Column - 1)
	number := strings.TrimSpace(rows.RowNumber(idx.Row))
	if number == "" {
		return []string{label}
	}
	return []string{label, number, label + number}
}

// Reduce folds ev into keys. For selections it also returns the synthetic
// column cells that must be deselected again. Events of other types leave
// the set unchanged.
func Reduce(keys KeySet, ev Event, rows RowNumbers) (KeySet, []CellIndex) {
	if ev.Type != TypeCell {
		return keys, nil
	}

	var revert []CellIndex
	var derived []string
	for _, idx := range ev.Indexes {
		if idx.Column == IndexColumn {
			if ev.Kind == Select {
				revert = append(revert, idx)
			}
			continue
		}
		derived = append(derived, LocationKeys(idx, rows)...)
	}

	switch ev.Kind {
	case Select:
		return keys.Add(derived...), revert
	case Deselect:
		return keys.Remove(derived...), nil
	default:
		return keys, nil
	}
}

// FilterExpression derives the detail filter from keys: an anchored
// alternation of every key, or "" (match everything) for an empty set.
func FilterExpression(keys KeySet) string {
	if keys.Len() == 0 {
		return ""
	}
	return "^(" + strings.Join(keys.keys, "|") + ")$"
}
