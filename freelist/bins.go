package freelist

import "github.com/natemwilson/heap-manager/chunk"

// BinCount is the number of size-class bins. Bins 0..BinCount-2 hold
// chunks of exactly their own index in units; the last bin is a spill
// bin holding every chunk at or above that size.
const BinCount = 1024

// Bins is the V2 free-list index: an array of doubly-linked size-class
// bins, each an exact-fit list except the last, which spills every chunk
// too large for its own class.
type Bins struct {
	chunks chunk.Full
	bins   [BinCount]chunk.Addr
}

// NewBins returns an empty Bins using chunks for chunk field access.
func NewBins(chunks chunk.Full) *Bins {
	return &Bins{chunks: chunks}
}

// BinIndex returns the bin a chunk of uUnits units belongs to: its unit
// count, ceiled at BinCount-1 (the spill bin). Grounded on
// original_source/heapmgr2.c's HeapMgr_addToList indexing.
func BinIndex(uUnits uintptr) int {
	if uUnits > BinCount-1 {
		return BinCount - 1
	}
	return int(uUnits)
}

// Bin returns the head of bin i, for the checker's per-bin walk.
func (b *Bins) Bin(i int) chunk.Addr { return b.bins[i] }

// Add inserts c into the bin matching its current unit count. Pre: c's
// status and units are already set correctly.
func (b *Bins) Add(c chunk.Addr) {
	idx := BinIndex(b.chunks.Units(c))
	addFront(b.chunks, &b.bins[idx], c)
}

// Remove splices c out of the bin matching its current unit count.
func (b *Bins) Remove(c chunk.Addr) {
	idx := BinIndex(b.chunks.Units(c))
	removeNode(b.chunks, &b.bins[idx], c)
}

// Search returns a chunk of at least requiredUnits units. It starts at
// requiredUnits' own bin and advances to the next nonempty bin (every
// bin short of the spill bin holds only exact-fit chunks, so the first
// nonempty one found this way is always big enough), then first-fits
// within that bin — a within-bin scan only matters for the spill bin,
// where chunks vary in size. Grounded on original_source/heapmgr2.c's
// HeapMgr_malloc.
func (b *Bins) Search(requiredUnits uintptr) (chunk.Addr, bool) {
	idx := BinIndex(requiredUnits)
	for idx < BinCount-1 && b.bins[idx] == chunk.Null {
		idx++
	}
	for c := b.bins[idx]; c != chunk.Null; c = b.chunks.NextInList(c) {
		if b.chunks.Units(c) < requiredUnits {
			continue
		}
		return c, true
	}
	return chunk.Null, false
}
