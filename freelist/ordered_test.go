package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/natemwilson/heap-manager/chunk"
)

func TestOrderedListInsertSortedKeepsAddressOrder(t *testing.T) {
	a := newTestArena(t, 10*chunk.UnitBase)
	chunks := chunk.NewBase(a)
	l := NewOrderedList(chunks)

	base := a.End() - chunk.Addr(10*chunk.UnitBase)
	c0 := base
	c1 := base + chunk.Addr(2*chunk.UnitBase)
	c2 := base + chunk.Addr(4*chunk.UnitBase)
	for _, c := range []chunk.Addr{c0, c1, c2} {
		chunks.SetUnits(c, chunk.MinUnitsBase)
	}

	// Insert out of order; list must come out address-ordered.
	l.InsertSorted(c2)
	l.InsertSorted(c0)
	l.InsertSorted(c1)

	require.Equal(t, c0, l.Head())
	require.Equal(t, c1, l.Next(c0))
	require.Equal(t, c2, l.Next(c1))
	require.Equal(t, chunk.Null, l.Next(c2))
}

func TestOrderedListFindFirstFit(t *testing.T) {
	a := newTestArena(t, 10*chunk.UnitBase)
	chunks := chunk.NewBase(a)
	l := NewOrderedList(chunks)

	base := a.End() - chunk.Addr(10*chunk.UnitBase)
	small := base
	big := base + chunk.Addr(3*chunk.UnitBase)
	chunks.SetUnits(small, chunk.MinUnitsBase)
	chunks.SetUnits(big, 5)
	l.InsertSorted(small)
	l.InsertSorted(big)

	prev, found, ok := l.Find(5)
	require.True(t, ok)
	require.Equal(t, big, found)
	require.Equal(t, small, prev)

	_, _, ok = l.Find(100)
	require.False(t, ok)
}

func TestOrderedListRemove(t *testing.T) {
	a := newTestArena(t, 10*chunk.UnitBase)
	chunks := chunk.NewBase(a)
	l := NewOrderedList(chunks)

	base := a.End() - chunk.Addr(10*chunk.UnitBase)
	c0 := base
	c1 := base + chunk.Addr(2*chunk.UnitBase)
	chunks.SetUnits(c0, chunk.MinUnitsBase)
	chunks.SetUnits(c1, chunk.MinUnitsBase)
	l.InsertSorted(c0)
	l.InsertSorted(c1)

	l.Remove(chunk.Null, c0)
	require.Equal(t, c1, l.Head())
	require.True(t, !l.Empty())

	l.Remove(chunk.Null, c1)
	require.True(t, l.Empty())
}
