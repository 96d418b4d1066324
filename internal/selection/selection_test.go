package selection

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidget struct {
	numbers    map[int]string
	deselected []CellIndex
}

func (w *fakeWidget) RowNumber(row int) string { return w.numbers[row] }

func (w *fakeWidget) Deselect(cells []CellIndex) {
	w.deselected = append(w.deselected, cells...)
}

type fakeDetail struct {
	column int
	exprs  []string
	err    error
}

func (d *fakeDetail) Search(column int, expr string) error {
	d.column = column
	d.exprs = append(d.exprs, expr)
	return d.err
}

func (d *fakeDetail) last() string {
	if len(d.exprs) == 0 {
		return "<none>"
	}
	return d.exprs[len(d.exprs)-1]
}

// widget row r shows row number r+1, like a grid without padding rows.
func contiguousRows() RowNumberFunc {
	return func(row int) string { return strconv.Itoa(row + 1) }
}

func TestKeySet_Idempotent(t *testing.T) {
	s := NewKeySet("B", "3")
	s = s.Add("B", "", "B3")
	assert.Equal(t, []string{"B", "3", "B3"}, s.Keys())

	s = s.Remove("X").Remove("3").Remove("3")
	assert.Equal(t, []string{"B", "B3"}, s.Keys())
	assert.True(t, s.Contains("B3"))
	assert.False(t, s.Contains("3"))
}

func TestKeySet_ValueSemantics(t *testing.T) {
	a := NewKeySet("A")
	b := a.Add("B")
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestLocationKeys(t *testing.T) {
	rows := RowNumberFunc(func(row int) string {
		if row == 5 {
			return ""
		}
		return strconv.Itoa(row + 1)
	})

	assert.Equal(t, []string{"B", "3", "B3"}, LocationKeys(CellIndex{Row: 2, Column: 2}, rows))
	assert.Equal(t, []string{"A"}, LocationKeys(CellIndex{Row: 5, Column: 1}, rows))
	assert.Nil(t, LocationKeys(CellIndex{Row: 2, Column: IndexColumn}, rows))
}

func TestFilterExpression(t *testing.T) {
	assert.Equal(t, "", FilterExpression(KeySet{}))
	assert.Equal(t, "^(B|3|B3)$", FilterExpression(NewKeySet("B", "3", "B3")))
}

func TestReduce_IgnoresOtherTypes(t *testing.T) {
	keys := NewKeySet("A")
	next, revert := Reduce(keys, Event{Kind: Select, Type: "row", Indexes: []CellIndex{{Row: 0, Column: 2}}}, contiguousRows())
	assert.Equal(t, keys.Keys(), next.Keys())
	assert.Nil(t, revert)
}

func TestSynchronizer_SelectThenDeselect(t *testing.T) {
	w := &fakeWidget{numbers: map[int]string{2: "3"}}
	d := &fakeDetail{}
	s := NewSynchronizer(w, d, 0)

	// data column 1 is widget column 2
	cell := CellIndex{Row: 2, Column: 2}
	require.NoError(t, s.Handle(Event{Kind: Select, Type: TypeCell, Indexes: []CellIndex{cell}}))
	assert.Equal(t, []string{"B", "3", "B3"}, s.Keys().Keys())
	assert.Equal(t, "^(B|3|B3)$", d.last())

	require.NoError(t, s.Handle(Event{Kind: Deselect, Type: TypeCell, Indexes: []CellIndex{cell}}))
	assert.Zero(t, s.Keys().Len())
	assert.Equal(t, "", d.last())
	assert.Equal(t, "", s.Expression())
}

func TestSynchronizer_RevertsIndexColumn(t *testing.T) {
	w := &fakeWidget{numbers: map[int]string{0: "1"}}
	d := &fakeDetail{}
	s := NewSynchronizer(w, d, 0)

	ev := Event{Kind: Select, Type: TypeCell, Indexes: []CellIndex{
		{Row: 0, Column: IndexColumn},
		{Row: 0, Column: 1},
	}}
	require.NoError(t, s.Handle(ev))

	assert.Equal(t, []CellIndex{{Row: 0, Column: IndexColumn}}, w.deselected)
	assert.Equal(t, []string{"A", "1", "A1"}, s.Keys().Keys())

	// the widget echoes the revert as a deselect event; it must not touch keys
	require.NoError(t, s.Handle(Event{Kind: Deselect, Type: TypeCell, Indexes: w.deselected}))
	assert.Equal(t, []string{"A", "1", "A1"}, s.Keys().Keys())
}

func TestSynchronizer_RepeatedSelectIsNoop(t *testing.T) {
	w := &fakeWidget{numbers: map[int]string{0: "1"}}
	d := &fakeDetail{}
	s := NewSynchronizer(w, d, 3)

	ev := Event{Kind: Select, Type: TypeCell, Indexes: []CellIndex{{Row: 0, Column: 1}}}
	require.NoError(t, s.Handle(ev))
	require.NoError(t, s.Handle(ev))

	assert.Equal(t, 3, s.Keys().Len())
	assert.Equal(t, 3, d.column)
	assert.Equal(t, d.exprs[0], d.exprs[1])
}

func TestSynchronizer_DetailError(t *testing.T) {
	w := &fakeWidget{numbers: map[int]string{0: "1"}}
	d := &fakeDetail{err: errors.New("boom")}
	s := NewSynchronizer(w, d, 0)

	err := s.Handle(Event{Kind: Select, Type: TypeCell, Indexes: []CellIndex{{Row: 0, Column: 1}}})
	assert.ErrorContains(t, err, "boom")
}

func TestSynchronizer_IgnoresNonCellEvents(t *testing.T) {
	d := &fakeDetail{}
	s := NewSynchronizer(&fakeWidget{}, d, 0)

	require.NoError(t, s.Handle(Event{Kind: Select, Type: "column"}))
	assert.Empty(t, d.exprs)
}
