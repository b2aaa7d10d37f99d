package heap

import (
	"unsafe"

	"github.com/natemwilson/heap-manager/arena"
	"github.com/natemwilson/heap-manager/checker"
	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// V2 is the binned engine: the same header+footer chunks and
// boundary-tag coalescing as V1, but size-class bins in place of one
// unordered list, so a fit can usually be found without a linear scan.
// Grounded on original_source/heapmgr2.c.
type V2 struct {
	cfg       Config
	arena     *arena.Arena
	chunks    chunk.Full
	bins      *freelist.Bins
	heapStart chunk.Addr
	started   bool
}

// NewV2 builds a V2 engine.
func NewV2(cfg Config) (*V2, error) {
	cfg = cfg.withDefaults()
	a, err := arena.New(cfg.ReserveBytes)
	if err != nil {
		return nil, err
	}
	chunks := chunk.NewFull(a)
	return &V2{
		cfg:    cfg,
		arena:  a,
		chunks: chunks,
		bins:   freelist.NewBins(chunks),
	}, nil
}

func (e *V2) ensureStarted() {
	if !e.started {
		e.heapStart = e.arena.End()
		e.started = true
	}
}

func (e *V2) checkValid(op string) {
	if !e.cfg.CheckEveryOp {
		return
	}
	if checker.V2(e.cfg.Logger, e.chunks, e.heapStart, e.arena.End(), e.bins) {
		return
	}
	panic("heap: v2 checker detected a corrupted heap during " + op)
}

// Valid runs the V2 checker once, on demand.
func (e *V2) Valid() bool {
	e.ensureStarted()
	return checker.V2(e.cfg.Logger, e.chunks, e.heapStart, e.arena.End(), e.bins)
}

// Allocate returns a payload pointer of at least nBytes, or nil if
// nBytes is zero or the arena is exhausted. Grounded on
// HeapMgr_malloc in heapmgr2.c.
func (e *V2) Allocate(nBytes uintptr) unsafe.Pointer {
	if nBytes == 0 {
		return nil
	}
	e.ensureStarted()
	e.checkValid("allocate (entry)")

	uUnits := e.chunks.BytesToUnits(nBytes)

	if c, ok := e.bins.Search(uUnits); ok {
		result := e.takeChunk(c, uUnits)
		e.checkValid("allocate (exit)")
		return e.arena.PointerAt(e.chunks.ToPayload(result))
	}

	newChunk, ok := e.getMoreMemory(uUnits)
	if !ok {
		e.checkValid("allocate (exit)")
		return nil
	}
	e.chunks.SetStatus(newChunk, chunk.Free)
	e.bins.Add(newChunk)

	if prevC := e.chunks.PrevInMem(newChunk, e.heapStart); prevC != chunk.Null && e.chunks.Status(prevC) == chunk.Free {
		newChunk = e.coalesceBackward(newChunk)
	}

	result := e.takeChunk(newChunk, uUnits)
	e.checkValid("allocate (exit)")
	return e.arena.PointerAt(e.chunks.ToPayload(result))
}

// takeChunk removes c from its bin and either splits off its tail (if
// the leftover clears SplitThreshold) or allocates it whole.
func (e *V2) takeChunk(c chunk.Addr, uUnits uintptr) chunk.Addr {
	e.bins.Remove(c)
	if e.chunks.Units(c)-uUnits >= e.cfg.SplitThreshold {
		tail := e.splitGetTail(c, uUnits)
		e.chunks.SetStatus(tail, chunk.Free)
		e.bins.Add(tail)
	}
	e.chunks.SetStatus(c, chunk.InUse)
	return c
}

// splitGetTail carves a uUnits-unit head off of c, leaving the
// remainder as a new, independently valid chunk at the tail end, and
// returns the tail.
func (e *V2) splitGetTail(c chunk.Addr, uUnits uintptr) chunk.Addr {
	total := e.chunks.Units(c)
	tail := c + chunk.Addr(e.chunks.UnitsToBytes(uUnits))
	e.chunks.SetUnits(tail, total-uUnits)
	e.chunks.SetUnits(c, uUnits)
	return tail
}

// getMoreMemory grows the arena by at least uUnits (rounded up to
// MinUnitsFromOS) and returns the new chunk, status and links
// undefined.
func (e *V2) getMoreMemory(uUnits uintptr) (chunk.Addr, bool) {
	if uUnits < e.cfg.MinUnitsFromOS {
		uUnits = e.cfg.MinUnitsFromOS
	}
	uBytes := e.chunks.UnitsToBytes(uUnits)
	c, err := e.arena.Grow(uBytes)
	if err != nil {
		if e.cfg.Logger != nil {
			e.cfg.Logger.Warn().Err(err).Uint64("units", uint64(uUnits)).Msg("heap: arena growth failed")
		}
		return chunk.Null, false
	}
	e.chunks.SetUnits(c, uUnits)
	return c, true
}

// coalesceForward merges c with its free successor in memory, removing
// both from their bins and re-adding the merged chunk to its new bin.
func (e *V2) coalesceForward(c chunk.Addr) chunk.Addr {
	next := e.chunks.NextInMem(c, e.arena.End())
	total := e.chunks.Units(c) + e.chunks.Units(next)

	e.bins.Remove(c)
	e.bins.Remove(next)

	e.chunks.SetUnits(c, total)
	e.chunks.SetStatus(c, chunk.Free)
	e.bins.Add(c)
	return c
}

// coalesceBackward merges c with its free predecessor in memory,
// returning the predecessor's address as the merged chunk.
func (e *V2) coalesceBackward(c chunk.Addr) chunk.Addr {
	prev := e.chunks.PrevInMem(c, e.heapStart)
	total := e.chunks.Units(c) + e.chunks.Units(prev)

	e.bins.Remove(c)
	e.bins.Remove(prev)

	merged := prev
	e.chunks.SetUnits(merged, total)
	e.chunks.SetStatus(merged, chunk.Free)
	e.bins.Add(merged)
	return merged
}

// Release returns the chunk owning p to its size-class bin, coalescing
// with any memory-adjacent free neighbors in either direction. A nil p
// is a tolerated no-op. Grounded on HeapMgr_free in heapmgr2.c.
func (e *V2) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	e.ensureStarted()
	e.checkValid("release (entry)")

	off, ok := e.arena.OffsetOf(p)
	if !ok {
		return
	}
	c := e.chunks.FromPayload(off)

	e.chunks.SetStatus(c, chunk.Free)
	e.bins.Add(c)

	if n := e.chunks.NextInMem(c, e.arena.End()); n != chunk.Null && e.chunks.Status(n) == chunk.Free {
		c = e.coalesceForward(c)
	}
	if prevC := e.chunks.PrevInMem(c, e.heapStart); prevC != chunk.Null && e.chunks.Status(prevC) == chunk.Free {
		c = e.coalesceBackward(c)
	}

	e.checkValid("release (exit)")
}
