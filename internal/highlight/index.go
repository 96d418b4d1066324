package highlight

import (
	"fmt"
	"slices"
)

type cellKey struct {
	column int
	row    int
}

// Index is the location lookup built from one error collection. It is never
// mutated after Build returns.
type Index struct {
	cells   map[cellKey][]ErrorRecord
	columns map[int][]ErrorRecord
	rows    map[int][]ErrorRecord
	size    int
}

// Diagnostic describes a record that Build could not index.
type Diagnostic struct {
	Position int // index of the record in the input slice
	Record   ErrorRecord
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("error record %d: %v", d.Position, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Build classifies each record by scope and indexes it in a single pass.
// Records keep their input order within each location. Unscoped records are
// left out of the index and reported as diagnostics.
func Build(records []ErrorRecord) (*Index, []Diagnostic) {
	ix := &Index{
		cells:   make(map[cellKey][]ErrorRecord),
		columns: make(map[int][]ErrorRecord),
		rows:    make(map[int][]ErrorRecord),
	}

	var diags []Diagnostic
	for i, r := range records {
		scope, err := ScopeOf(r)
		if err != nil {
			diags = append(diags, Diagnostic{Position: i, Record: r, Err: err})
			continue
		}

		switch scope.Kind {
		case ScopeCell:
			k := cellKey{column: scope.Column, row: scope.Row}
			ix.cells[k] = append(ix.cells[k], r)
		case ScopeColumn:
			ix.columns[scope.Column] = append(ix.columns[scope.Column], r)
		case ScopeRow:
			ix.rows[scope.Row] = append(ix.rows[scope.Row], r)
		}
		ix.size++
	}

	return ix, diags
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Query selects the coordinates to look up. Either coordinate may be absent;
// an absent coordinate short-circuits every mapping that needs it.
type Query struct {
	column, row       int
	hasColumn, hasRow bool
}

// At queries a concrete cell.
func At(column, row int) Query {
	return Query{column: column, row: row, hasColumn: true, hasRow: true}
}

// AtRow queries only the row axis.
func AtRow(row int) Query {
	return Query{row: row, hasRow: true}
}

// AtColumn queries only the column axis.
func AtColumn(column int) Query {
	return Query{column: column, hasColumn: true}
}

// Column returns the queried column and whether it is present.
func (q Query) Column() (int, bool) { return q.column, q.hasColumn }

// Row returns the queried row and whether it is present.
func (q Query) Row() (int, bool) { return q.row, q.hasRow }

// Result holds every error relevant to one location, partitioned by the
// mapping it came from.
type Result struct {
	CellErrors   []ErrorRecord `json:"cellErrors"`
	RowErrors    []ErrorRecord `json:"rowErrors"`
	ColumnErrors []ErrorRecord `json:"colErrors"`
}

// Empty reports whether no errors apply.
func (r Result) Empty() bool {
	return len(r.CellErrors) == 0 && len(r.RowErrors) == 0 && len(r.ColumnErrors) == 0
}

// Query returns the errors applying to q. It never fails: unknown
// coordinates, absent coordinates and a nil index all yield empty sequences.
// The returned slices are copies and may be modified by the caller.
func (ix *Index) Query(q Query) Result {
	res := Result{
		CellErrors:   []ErrorRecord{},
		RowErrors:    []ErrorRecord{},
		ColumnErrors: []ErrorRecord{},
	}
	if ix == nil {
		return res
	}

	if q.hasColumn && q.hasRow {
		if errs, ok := ix.cells[cellKey{column: q.column, row: q.row}]; ok {
			res.CellErrors = slices.Clone(errs)
		}
	}
	if q.hasColumn {
		if errs, ok := ix.columns[q.column]; ok {
			res.ColumnErrors = slices.Clone(errs)
		}
	}
	if q.hasRow {
		if errs, ok := ix.rows[q.row]; ok {
			res.RowErrors = slices.Clone(errs)
		}
	}
	return res
}
