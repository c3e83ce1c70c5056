package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrail_BacktrackRestoresWrites(t *testing.T) {
	tr := NewTrail()
	cell := NewRevInt(5)

	mark := tr.Mark()
	cell.SetValue(tr, 7)
	cell.SetValue(tr, 9)
	require.Equal(t, 9, cell.Value())

	tr.BacktrackTo(mark)
	require.Equal(t, 5, cell.Value())
	require.Equal(t, 0, tr.Len())
}

func TestTrail_NestedMarksUnwindInOrder(t *testing.T) {
	tr := NewTrail()
	a := NewRevInt(1)
	b := NewRevInt(10)

	outer := tr.Mark()
	a.SetValue(tr, 2)
	inner := tr.Mark()
	b.SetValue(tr, 20)
	a.SetValue(tr, 3)

	tr.BacktrackTo(inner)
	require.Equal(t, 2, a.Value())
	require.Equal(t, 10, b.Value())

	tr.BacktrackTo(outer)
	require.Equal(t, 1, a.Value())
	require.Equal(t, 10, b.Value())
}

func TestRevInt_NoOpWriteRecordsNothing(t *testing.T) {
	tr := NewTrail()
	cell := NewRevInt(4)

	cell.SetValue(tr, 4)
	require.Equal(t, 0, tr.Len())

	cell.SetValue(tr, 5)
	require.Equal(t, 1, tr.Len())
	cell.SetValue(tr, 5)
	require.Equal(t, 1, tr.Len())
}

func TestRevBool_Backtrack(t *testing.T) {
	tr := NewTrail()
	cell := NewRevBool(true)

	mark := tr.Mark()
	cell.SetValue(tr, false)
	require.False(t, cell.Value())

	tr.BacktrackTo(mark)
	require.True(t, cell.Value())
}
