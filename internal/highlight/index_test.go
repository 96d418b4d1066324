package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Scenario(t *testing.T) {
	ix, diags := Build([]ErrorRecord{
		CellError(1, 2, SeverityError, "bad value"),
		ColumnError(1, SeverityWarning, "odd column"),
	})
	require.Empty(t, diags)
	assert.Equal(t, 2, ix.Len())

	res := ix.Query(At(1, 2))
	require.Len(t, res.CellErrors, 1)
	require.Len(t, res.ColumnErrors, 1)
	assert.Empty(t, res.RowErrors)
	assert.Equal(t, "bad value", res.CellErrors[0].Message)
	assert.Equal(t, "odd column", res.ColumnErrors[0].Message)
	assert.Equal(t, OutcomeErrorCell, res.Outcome())
}

func TestBuild_Empty(t *testing.T) {
	ix, diags := Build(nil)
	assert.Empty(t, diags)
	assert.Zero(t, ix.Len())

	res := ix.Query(At(0, 0))
	assert.True(t, res.Empty())
	assert.NotNil(t, res.CellErrors)
	assert.NotNil(t, res.RowErrors)
	assert.NotNil(t, res.ColumnErrors)
}

func TestBuild_DropsUnscoped(t *testing.T) {
	ix, diags := Build([]ErrorRecord{
		RowError(0, SeverityError, "row"),
		{Severity: SeverityError, Message: "nowhere"},
	})

	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Position)
	assert.ErrorIs(t, diags[0], ErrUnscopedError)
	assert.Equal(t, 1, ix.Len())
}

func TestBuild_PreservesInsertionOrder(t *testing.T) {
	ix, _ := Build([]ErrorRecord{
		RowError(4, SeverityWarning, "first"),
		CellError(0, 4, SeverityWarning, "cell"),
		RowError(4, SeverityError, "second"),
		RowError(4, SeverityWarning, "third"),
	})

	res := ix.Query(AtRow(4))
	require.Len(t, res.RowErrors, 3)
	assert.Equal(t, "first", res.RowErrors[0].Message)
	assert.Equal(t, "second", res.RowErrors[1].Message)
	assert.Equal(t, "third", res.RowErrors[2].Message)
	assert.Empty(t, res.CellErrors, "row-only query must not see cell errors")
}

func TestQuery_PartialCoordinates(t *testing.T) {
	ix, _ := Build([]ErrorRecord{
		CellError(2, 3, SeverityError, "cell"),
		ColumnError(2, SeverityWarning, "col"),
		RowError(3, SeverityWarning, "row"),
	})

	colOnly := ix.Query(AtColumn(2))
	assert.Empty(t, colOnly.CellErrors)
	assert.Len(t, colOnly.ColumnErrors, 1)
	assert.Empty(t, colOnly.RowErrors)

	rowOnly := ix.Query(AtRow(3))
	assert.Empty(t, rowOnly.CellErrors)
	assert.Empty(t, rowOnly.ColumnErrors)
	assert.Len(t, rowOnly.RowErrors, 1)

	full := ix.Query(At(2, 3))
	assert.Len(t, full.CellErrors, 1)
	assert.Len(t, full.ColumnErrors, 1)
	assert.Len(t, full.RowErrors, 1)
}

func TestQuery_NilIndex(t *testing.T) {
	var ix *Index
	assert.True(t, ix.Query(At(3, 3)).Empty())
	assert.Zero(t, ix.Len())
}

func TestQuery_ReturnsCopies(t *testing.T) {
	ix, _ := Build([]ErrorRecord{RowError(1, SeverityWarning, "orig")})

	res := ix.Query(AtRow(1))
	res.RowErrors[0].Message = "changed"
	res.RowErrors = append(res.RowErrors, RowError(1, SeverityError, "extra"))

	again := ix.Query(AtRow(1))
	require.Len(t, again.RowErrors, 1)
	assert.Equal(t, "orig", again.RowErrors[0].Message)
}

// Every indexed record must be reachable from the query of its own scope.
func TestIndex_Totality(t *testing.T) {
	records := []ErrorRecord{
		CellError(0, 0, SeverityError, "a"),
		CellError(0, 0, SeverityWarning, "b"),
		CellError(7, 3, SeverityWarning, "c"),
		ColumnError(7, SeverityError, "d"),
		ColumnError(0, SeverityWarning, "e"),
		RowError(3, SeverityWarning, "f"),
		RowError(100, SeverityError, "g"),
	}
	ix, diags := Build(records)
	require.Empty(t, diags)

	for _, r := range records {
		scope, err := ScopeOf(r)
		require.NoError(t, err)

		var found []ErrorRecord
		switch scope.Kind {
		case ScopeCell:
			found = ix.Query(At(scope.Column, scope.Row)).CellErrors
		case ScopeColumn:
			found = ix.Query(AtColumn(scope.Column)).ColumnErrors
		case ScopeRow:
			found = ix.Query(AtRow(scope.Row)).RowErrors
		}
		assert.Contains(t, found, r, "record %q unreachable", r.Message)
	}

	// Unmatched coordinates stay total.
	for col := -2; col < 10; col++ {
		for row := -2; row < 10; row++ {
			_ = ix.Query(At(col, row))
		}
	}
}

func TestScope_Key(t *testing.T) {
	tests := []struct {
		rec  ErrorRecord
		want string
	}{
		{CellError(1, 2, SeverityError, ""), "B3"},
		{ColumnError(1, SeverityError, ""), "B"},
		{RowError(2, SeverityError, ""), "3"},
		{CellError(26, 0, SeverityError, ""), "AA1"},
		{ErrorRecord{Severity: SeverityError}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocationKey(tt.rec))
	}
}

func TestSeverity_Valid(t *testing.T) {
	assert.True(t, SeverityError.Valid())
	assert.True(t, SeverityWarning.Valid())
	assert.False(t, SeverityNone.Valid())
	assert.False(t, Severity("fatal").Valid())
}
