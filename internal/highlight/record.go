package highlight

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnscopedError is reported for records that carry neither a column nor a
// row. Such records cannot be reached by any lookup and are dropped.
var ErrUnscopedError = errors.New("error record has neither column nor row")

// Severity classifies an error record. The zero value means "no errors" and
// only appears as the result of [Aggregate].
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the severities a record may carry.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning
}

// ErrorRecord is a single pre-computed validation error. Column and Row are
// zero-based and optional; which of them is present decides the record's
// scope. The descriptive fields are carried through to the detail view
// untouched.
type ErrorRecord struct {
	Column   *int     `json:"column,omitempty"`
	Row      *int     `json:"row,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	SampleName string `json:"sample_name,omitempty"`
	Node       string `json:"node,omitempty"`
	Key        string `json:"key,omitempty"`
	Subkey     string `json:"subkey,omitempty"`
}

// CellError returns a cell-scoped record.
func CellError(column, row int, sev Severity, msg string) ErrorRecord {
	return ErrorRecord{Column: &column, Row: &row, Severity: sev, Message: msg}
}

// ColumnError returns a column-scoped record.
func ColumnError(column int, sev Severity, msg string) ErrorRecord {
	return ErrorRecord{Column: &column, Severity: sev, Message: msg}
}

// RowError returns a row-scoped record.
func RowError(row int, sev Severity, msg string) ErrorRecord {
	return ErrorRecord{Row: &row, Severity: sev, Message: msg}
}

// ScopeKind is the locational breadth of an error.
type ScopeKind uint8

const (
	ScopeCell ScopeKind = iota + 1
	ScopeColumn
	ScopeRow
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeCell:
		return "cell"
	case ScopeColumn:
		return "column"
	case ScopeRow:
		return "row"
	default:
		return "unscoped"
	}
}

// Scope is the classified location of a record. Column is meaningful for
// ScopeCell and ScopeColumn, Row for ScopeCell and ScopeRow.
type Scope struct {
	Kind   ScopeKind
	Column int
	Row    int
}

// ScopeOf classifies a record. It fails with ErrUnscopedError when the record
// has neither coordinate.
func ScopeOf(r ErrorRecord) (Scope, error) {
	switch {
	case r.Column != nil && r.Row != nil:
		return Scope{Kind: ScopeCell, Column: *r.Column, Row: *r.Row}, nil
	case r.Column != nil:
		return Scope{Kind: ScopeColumn, Column: *r.Column}, nil
	case r.Row != nil:
		return Scope{Kind: ScopeRow, Row: *r.Row}, nil
	default:
		return Scope{}, ErrUnscopedError
	}
}

// Key returns the location key for the scope as shown to users and used by
// the detail filter: "B" for column 1, "3" for row 2, "B3" for the cell.
// Row keys are 1-based display numbers.
func (s Scope) Key() string {
	switch s.Kind {
	case ScopeCell:
		return IndexToLetters(s.Column) + strconv.Itoa(s.Row+1)
	case ScopeColumn:
		return IndexToLetters(s.Column)
	case ScopeRow:
		return strconv.Itoa(s.Row + 1)
	default:
		return ""
	}
}

func (s Scope) String() string {
	return fmt.Sprintf("%s %s", s.Kind, s.Key())
}

// LocationKey is a shorthand for ScopeOf(r).Key(); unscoped records yield "".
func LocationKey(r ErrorRecord) string {
	s, err := ScopeOf(r)
	if err != nil {
		return ""
	}
	return s.Key()
}
