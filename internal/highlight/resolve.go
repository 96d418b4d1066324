package highlight

// Aggregate collapses a sequence of records to its worst severity: error if
// any member is an error, warning otherwise, none when empty.
func Aggregate(records []ErrorRecord) Severity {
	if len(records) == 0 {
		return SeverityNone
	}
	for _, r := range records {
		if r.Severity == SeverityError {
			return SeverityError
		}
	}
	return SeverityWarning
}

// Markers is the independent-axis resolution used by the grid view. Each
// field holds the aggregate of one mapping; SeverityNone means no marker.
type Markers struct {
	Cell   Severity `json:"cell,omitempty"`
	Row    Severity `json:"row,omitempty"`
	Column Severity `json:"column,omitempty"`
}

// Markers applies the independent-axis policy to a query result.
func (r Result) Markers() Markers {
	return Markers{
		Cell:   Aggregate(r.CellErrors),
		Row:    Aggregate(r.RowErrors),
		Column: Aggregate(r.ColumnErrors),
	}
}

// Classes returns the marker class names in cell, row, column order,
// skipping axes without errors.
func (m Markers) Classes() []string {
	classes := make([]string, 0, 3)
	if m.Cell != SeverityNone {
		classes = append(classes, string(m.Cell)+"-cell")
	}
	if m.Row != SeverityNone {
		classes = append(classes, string(m.Row)+"-row")
	}
	if m.Column != SeverityNone {
		classes = append(classes, string(m.Column)+"-column")
	}
	return classes
}

// Outcome is the single style a spreadsheet cell resolves to.
type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeErrorCell   Outcome = "error-cell"
	OutcomeWarningCell Outcome = "warning-cell"
	OutcomeErrorAxis   Outcome = "error-axis"
	OutcomeWarningAxis Outcome = "warning-axis"
	OutcomeCrossAxis   Outcome = "cross-axis"
)

// Outcomes lists every styled outcome in registration order.
var Outcomes = []Outcome{
	OutcomeErrorCell,
	OutcomeWarningCell,
	OutcomeErrorAxis,
	OutcomeWarningAxis,
	OutcomeCrossAxis,
}

func cellOutcome(s Severity) Outcome {
	switch s {
	case SeverityError:
		return OutcomeErrorCell
	case SeverityWarning:
		return OutcomeWarningCell
	}
	return OutcomeNone
}

func axisOutcome(s Severity) Outcome {
	switch s {
	case SeverityError:
		return OutcomeErrorAxis
	case SeverityWarning:
		return OutcomeWarningAxis
	}
	return OutcomeNone
}

// Outcome applies the single-winner policy to a query result. Cell-scoped
// errors take precedence regardless of severity; otherwise the row and
// column axes combine, and axes that disagree resolve to OutcomeCrossAxis.
func (r Result) Outcome() Outcome {
	if len(r.CellErrors) > 0 {
		return cellOutcome(Aggregate(r.CellErrors))
	}

	row := axisOutcome(Aggregate(r.RowErrors))
	col := axisOutcome(Aggregate(r.ColumnErrors))
	switch {
	case row == OutcomeNone:
		return col
	case col == OutcomeNone, row == col:
		return row
	default:
		return OutcomeCrossAxis
	}
}

// Resolver answers highlight decisions for coordinates of one index.
type Resolver struct {
	index *Index
}

// NewResolver returns a resolver over ix. A nil index resolves every
// location to "no highlight".
func NewResolver(ix *Index) *Resolver {
	return &Resolver{index: ix}
}

// Query forwards to the underlying index.
func (r *Resolver) Query(q Query) Result {
	return r.index.Query(q)
}

// Markers resolves q with the independent-axis policy.
func (r *Resolver) Markers(q Query) Markers {
	return r.index.Query(q).Markers()
}

// Outcome resolves q with the single-winner policy.
func (r *Resolver) Outcome(q Query) Outcome {
	return r.index.Query(q).Outcome()
}
