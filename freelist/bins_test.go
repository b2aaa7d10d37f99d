package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/natemwilson/heap-manager/chunk"
)

func TestBinsAddAndSearchExactFit(t *testing.T) {
	a := newTestArena(t, 10*chunk.UnitFull)
	chunks := chunk.NewFull(a)
	b := NewBins(chunks)

	base := a.End() - chunk.Addr(10*chunk.UnitFull)
	c := base
	chunks.SetUnits(c, chunk.MinUnitsFull+2)
	b.Add(c)

	require.Equal(t, c, b.Bin(BinIndex(chunk.MinUnitsFull+2)))

	found, ok := b.Search(chunk.MinUnitsFull + 2)
	require.True(t, ok)
	require.Equal(t, c, found)
}

func TestBinsSearchFallsBackToSpillBin(t *testing.T) {
	a := newTestArena(t, (BinCount+50)*chunk.UnitFull)
	chunks := chunk.NewFull(a)
	b := NewBins(chunks)

	base := a.End() - chunk.Addr((BinCount+50)*chunk.UnitFull)
	huge := base
	chunks.SetUnits(huge, uintptr(BinCount)+50)
	b.Add(huge)

	require.Equal(t, huge, b.Bin(BinCount-1))

	found, ok := b.Search(chunk.MinUnitsFull + 1)
	require.True(t, ok)
	require.Equal(t, huge, found)
}

func TestBinsRemove(t *testing.T) {
	a := newTestArena(t, 10*chunk.UnitFull)
	chunks := chunk.NewFull(a)
	b := NewBins(chunks)

	base := a.End() - chunk.Addr(10*chunk.UnitFull)
	c := base
	chunks.SetUnits(c, chunk.MinUnitsFull)
	b.Add(c)
	b.Remove(c)

	_, ok := b.Search(chunk.MinUnitsFull)
	require.False(t, ok)
}

func TestBinIndexClampsToSpillBin(t *testing.T) {
	require.Equal(t, 0, BinIndex(0))
	require.Equal(t, chunk.MinUnitsFull, BinIndex(uintptr(chunk.MinUnitsFull)))
	require.Equal(t, BinCount-1, BinIndex(uintptr(BinCount)+50))
}
