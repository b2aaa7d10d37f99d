package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/natemwilson/heap-manager/arena"
)

func newTestArena(t *testing.T, n uintptr) *arena.Arena {
	t.Helper()
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	_, err = a.Grow(n)
	require.NoError(t, err)
	return a
}

func TestBaseBytesToUnitsNeverBelowMinimum(t *testing.T) {
	b := NewBase(newTestArena(t, UnitBase*8))
	require.Equal(t, uintptr(MinUnitsBase), b.BytesToUnits(1))
}

func TestBasePayloadRoundTrip(t *testing.T) {
	b := NewBase(newTestArena(t, UnitBase*8))
	c := Addr(0)
	require.Equal(t, c, b.FromPayload(b.ToPayload(c)))
}

func TestBaseUnitsAndNextInListRoundTrip(t *testing.T) {
	b := NewBase(newTestArena(t, UnitBase*8))
	c := Addr(0)
	b.SetUnits(c, 5)
	require.Equal(t, uintptr(5), b.Units(c))

	b.SetNextInList(c, 42)
	require.Equal(t, Addr(42), b.NextInList(c))
}

func TestBaseNextInMemReachesHeapEnd(t *testing.T) {
	b := NewBase(newTestArena(t, UnitBase*8))
	heapEnd := Addr(UnitBase * 8)
	c := Addr(0)
	b.SetUnits(c, 8)
	require.Equal(t, Null, b.NextInMem(c, heapEnd))
}

func TestBaseIsValidRejectsOutOfBoundsAndUndersized(t *testing.T) {
	b := NewBase(newTestArena(t, UnitBase*8))
	heapStart, heapEnd := Addr(0), Addr(UnitBase*8)

	c := Addr(0)
	b.SetUnits(c, 8)
	require.True(t, b.IsValid(c, heapStart, heapEnd))

	require.False(t, b.IsValid(heapEnd, heapStart, heapEnd))

	b.SetUnits(c, MinUnitsBase-1)
	require.False(t, b.IsValid(c, heapStart, heapEnd))

	b.SetUnits(c, 100)
	require.False(t, b.IsValid(c, heapStart, heapEnd))
}

func TestFullBytesToUnitsNeverBelowMinimum(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*8))
	require.Equal(t, uintptr(MinUnitsFull), f.BytesToUnits(1))
}

func TestFullSetUnitsWritesHeaderAndFooter(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*8))
	c := Addr(0)
	f.SetUnits(c, 6)
	require.Equal(t, uintptr(6), f.Units(c))

	footer := c + Addr(f.UnitsToBytes(6)) - UnitFull
	require.Equal(t, uintptr(6), f.Units(footer))
}

func TestFullStatusRoundTrip(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*8))
	c := Addr(0)
	f.SetUnits(c, 6)
	f.SetStatus(c, InUse)
	require.Equal(t, InUse, f.Status(c))
	f.SetStatus(c, Free)
	require.Equal(t, Free, f.Status(c))
}

func TestFullListLinksRoundTrip(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*8))
	c := Addr(0)
	f.SetUnits(c, 6)

	f.SetNextInList(c, 123)
	require.Equal(t, Addr(123), f.NextInList(c))

	f.SetPrevInList(c, 77)
	require.Equal(t, Addr(77), f.PrevInList(c))
}

func TestFullNextAndPrevInMemAreInverses(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*16))
	heapStart := Addr(0)
	heapEnd := Addr(UnitFull * 16)

	a := heapStart
	f.SetUnits(a, 5)
	b := f.NextInMem(a, heapEnd)
	require.NotEqual(t, Null, b)
	f.SetUnits(b, 5)

	require.Equal(t, a, f.PrevInMem(b, heapStart))
	require.Equal(t, Null, f.PrevInMem(a, heapStart))
}

func TestFullIsValidRejectsOutOfBoundsAndUndersized(t *testing.T) {
	f := NewFull(newTestArena(t, UnitFull*8))
	heapStart, heapEnd := Addr(0), Addr(UnitFull*8)

	c := Addr(0)
	f.SetUnits(c, 5)
	require.True(t, f.IsValid(c, heapStart, heapEnd))

	f.SetUnits(c, MinUnitsFull-1)
	require.False(t, f.IsValid(c, heapStart, heapEnd))

	f.SetUnits(c, 100)
	require.False(t, f.IsValid(c, heapStart, heapEnd))
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "free", Free.String())
	require.Equal(t, "in-use", InUse.String())
}
