// Package detail is the secondary error listing shown next to the grid. Each
// error becomes one row keyed by its location, and rows can be filtered per
// column with regular expressions.
package detail

import (
	"fmt"
	"regexp"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// Column identifies a detail view column.
type Column int

const (
	ColumnLocation Column = iota
	ColumnSeverity
	ColumnMessage
	ColumnSample
	ColumnKey
	numColumns
)

// Titles holds the header label of each column.
var Titles = [...]string{
	ColumnLocation: "Location",
	ColumnSeverity: "Severity",
	ColumnMessage:  "Message",
	ColumnSample:   "Sample",
	ColumnKey:      "Field",
}

// Row is one listed error.
type Row struct {
	Location string             `json:"location"`
	Severity highlight.Severity `json:"severity"`
	Message  string             `json:"message"`
	Sample   string             `json:"sample,omitempty"`
	Key      string             `json:"key,omitempty"`
}

func (r Row) field(c Column) string {
	switch c {
	case ColumnLocation:
		return r.Location
	case ColumnSeverity:
		return string(r.Severity)
	case ColumnMessage:
		return r.Message
	case ColumnSample:
		return r.Sample
	case ColumnKey:
		return r.Key
	}
	return ""
}

// View holds the listed errors and the active per-column filters.
type View struct {
	rows    []Row
	filters map[Column]*regexp.Regexp
}

// NewView lists records in order. Unscoped records are listed with an empty
// location.
func NewView(records []highlight.ErrorRecord) *View {
	rows := make([]Row, len(records))
	for i, r := range records {
		key := r.Key
		if r.Subkey != "" {
			key = r.Key + "." + r.Subkey
		}
		rows[i] = Row{
			Location: highlight.LocationKey(r),
			Severity: r.Severity,
			Message:  r.Message,
			Sample:   r.SampleName,
			Key:      key,
		}
	}
	return &View{rows: rows, filters: make(map[Column]*regexp.Regexp)}
}

// Search filters column with expr. Matching is case-sensitive and must cover
// the whole field. An empty expression clears the column's filter.
func (v *View) Search(column int, expr string) error {
	c := Column(column)
	if c < 0 || c >= numColumns {
		return fmt.Errorf("unknown detail column %d", column)
	}
	if expr == "" {
		delete(v.filters, c)
		return nil
	}

	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}
	v.filters[c] = re
	return nil
}

// Rows returns the rows passing every active filter.
func (v *View) Rows() []Row {
	out := make([]Row, 0, len(v.rows))
	for _, r := range v.rows {
		if v.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Total returns the number of rows before filtering.
func (v *View) Total() int { return len(v.rows) }

func (v *View) matches(r Row) bool {
	for c, re := range v.filters {
		if !re.MatchString(r.field(c)) {
			return false
		}
	}
	return true
}
