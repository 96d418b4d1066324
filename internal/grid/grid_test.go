package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

func TestBuildRows_PadsGaps(t *testing.T) {
	rows, err := BuildRows([][]string{{"a", "b"}, {"c", "d"}}, []int{0, 3})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "1", rows[0].Number())
	assert.Equal(t, []string{"a", "b"}, rows[0].DataValues())
	assert.Equal(t, "", rows[1].Number())
	assert.Equal(t, []string{"", ""}, rows[1].DataValues())
	assert.Equal(t, "", rows[2].Number())
	assert.Equal(t, "4", rows[3].Number())
	assert.Equal(t, []string{"c", "d"}, rows[3].DataValues())
}

func TestBuildRows_Contiguous(t *testing.T) {
	rows, err := BuildRows([][]string{{"x"}, {"y"}}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[1].Number())
}

func TestBuildRows_Errors(t *testing.T) {
	_, err := BuildRows([][]string{{"x"}}, []int{0, 1})
	assert.Error(t, err)

	_, err = BuildRows([][]string{{"x"}, {"y"}}, []int{2, 2})
	assert.Error(t, err)
}

func TestColumnsAndLetterHeader(t *testing.T) {
	cols := Columns([]string{"name", "depth"})
	require.Len(t, cols, 3)
	assert.Equal(t, Column{Data: 0, Title: IndexColumnTitle}, cols[0])
	assert.Equal(t, Column{Data: 2, Title: "depth"}, cols[2])

	assert.Equal(t, []string{"", "A", "B"}, LetterHeader(3))
}

func TestAnnotateRow(t *testing.T) {
	ix, _ := highlight.Build([]highlight.ErrorRecord{
		highlight.CellError(0, 0, highlight.SeverityWarning, "cell"),
		highlight.RowError(0, highlight.SeverityError, "row"),
		highlight.ColumnError(1, highlight.SeverityWarning, "col"),
	})
	a := NewAnnotator(highlight.NewResolver(ix))

	rows, err := BuildRows([][]string{{"a", "b"}, {"c", "d"}}, []int{0, 2})
	require.NoError(t, err)
	AnnotateRows(a, rows)

	// row 0
	assert.Empty(t, rows[0].Cells[0].Classes, "row-number cell is never tagged")
	assert.Equal(t, []string{"warning-cell", "error-row"}, rows[0].Cells[1].Classes)
	assert.Equal(t, []string{"error-row", "warning-column"}, rows[0].Cells[2].Classes)

	// padding row: no row coordinate, column markers only
	assert.Empty(t, rows[1].Cells[1].Classes)
	assert.Equal(t, []string{"warning-column"}, rows[1].Cells[2].Classes)

	// row 2
	assert.Empty(t, rows[2].Cells[1].Classes)
	assert.Equal(t, []string{"warning-column"}, rows[2].Cells[2].Classes)
}

func TestAnnotateRow_Additive(t *testing.T) {
	ix, _ := highlight.Build([]highlight.ErrorRecord{
		highlight.ColumnError(0, highlight.SeverityError, "col"),
	})
	a := NewAnnotator(highlight.NewResolver(ix))

	row := &Row{Cells: []Cell{{Value: "1"}, {Value: "v", Classes: []string{"selected"}}}}
	a.AnnotateRow(row)
	a.AnnotateRow(row)

	assert.Equal(t, []string{"selected", "error-column"}, row.Cells[1].Classes)
}
