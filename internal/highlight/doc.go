// Package highlight indexes validation errors by location and decides how each
// location of a table should be highlighted.
//
// Errors arrive as a flat list of [ErrorRecord] values. Each record is scoped
// to exactly one of:
//
//   - a single cell (column and row present)
//   - a whole column (column present, row absent)
//   - a whole row (row present, column absent)
//
// [Build] classifies every record once and stores it in one of three lookup
// tables. The resulting [Index] is immutable and safe to share between
// goroutines without locking.
//
// # Resolution Policies
//
// Two renderings consume the index and they resolve overlaps differently:
//
//   - [Markers] (grid view) keeps the cell, row and column aggregates
//     independent, so a single cell may carry up to three marker classes.
//   - [Outcome] (spreadsheet export) collapses everything to a single style
//     because a worksheet cell can reference only one style. Cell-scoped
//     errors win; disagreeing row and column axes resolve to [OutcomeCrossAxis].
//
// # Coordinates
//
// Columns and rows are zero-based data-space indices: column 0 is the first
// data column (the synthetic row-number column is not counted) and row 0 is
// the first data row (the header is not counted). Column labels use the
// spreadsheet convention produced by [IndexToLetters].
package highlight
