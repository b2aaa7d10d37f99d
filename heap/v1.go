package heap

import (
	"unsafe"

	"github.com/natemwilson/heap-manager/arena"
	"github.com/natemwilson/heap-manager/checker"
	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// V1 is the advanced engine: header+footer chunks with an explicit
// status bit, coalesced by boundary tag rather than list position, kept
// in one unordered, front-inserting, doubly-linked free list. Grounded
// on original_source/heapmgr1.c.
type V1 struct {
	cfg       Config
	arena     *arena.Arena
	chunks    chunk.Full
	list      *freelist.List
	heapStart chunk.Addr
	started   bool
}

// NewV1 builds a V1 engine.
func NewV1(cfg Config) (*V1, error) {
	cfg = cfg.withDefaults()
	a, err := arena.New(cfg.ReserveBytes)
	if err != nil {
		return nil, err
	}
	chunks := chunk.NewFull(a)
	return &V1{
		cfg:    cfg,
		arena:  a,
		chunks: chunks,
		list:   freelist.NewList(chunks),
	}, nil
}

func (e *V1) ensureStarted() {
	if !e.started {
		e.heapStart = e.arena.End()
		e.started = true
	}
}

func (e *V1) checkValid(op string) {
	if !e.cfg.CheckEveryOp {
		return
	}
	if checker.V1(e.cfg.Logger, e.chunks, e.heapStart, e.arena.End(), e.list) {
		return
	}
	panic("heap: v1 checker detected a corrupted heap during " + op)
}

// Valid runs the V1 checker once, on demand.
func (e *V1) Valid() bool {
	e.ensureStarted()
	return checker.V1(e.cfg.Logger, e.chunks, e.heapStart, e.arena.End(), e.list)
}

// Allocate returns a payload pointer of at least nBytes, or nil if
// nBytes is zero or the arena is exhausted.
func (e *V1) Allocate(nBytes uintptr) unsafe.Pointer {
	if nBytes == 0 {
		return nil
	}
	e.ensureStarted()
	e.checkValid("allocate (entry)")

	uUnits := e.chunks.BytesToUnits(nBytes)

	for c := e.list.Head(); c != chunk.Null; c = e.list.Next(c) {
		if e.chunks.Units(c) < uUnits {
			continue
		}
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
	e.list.Add(newChunk)

	if p := e.chunks.PrevInMem(newChunk, e.heapStart); p != chunk.Null && e.chunks.Status(p) == chunk.Free {
		newChunk = e.coalesceBackward(newChunk)
	}

	result := e.takeChunk(newChunk, uUnits)
	e.checkValid("allocate (exit)")
	return e.arena.PointerAt(e.chunks.ToPayload(result))
}

// takeChunk removes c from the free list and either splits off its
// tail (if the leftover clears SplitThreshold) or allocates it whole,
// marking the returned chunk in use. Grounded on the split/no-split
// branches of HeapMgr_malloc.
func (e *V1) takeChunk(c chunk.Addr, uUnits uintptr) chunk.Addr {
	e.list.Remove(c)
	if e.chunks.Units(c)-uUnits >= e.cfg.SplitThreshold {
		tail := e.splitGetTail(c, uUnits)
		e.chunks.SetStatus(tail, chunk.Free)
		e.list.Add(tail)
	}
	e.chunks.SetStatus(c, chunk.InUse)
	return c
}

// splitGetTail carves a uUnits-unit head off of c, leaving the
// remainder as a new, independently valid chunk at the tail end, and
// returns the tail. Grounded on HeapMgr_splitGetTail.
func (e *V1) splitGetTail(c chunk.Addr, uUnits uintptr) chunk.Addr {
	total := e.chunks.Units(c)
	tail := c + chunk.Addr(e.chunks.UnitsToBytes(uUnits))
	e.chunks.SetUnits(tail, total-uUnits)
	e.chunks.SetUnits(c, uUnits)
	return tail
}

// getMoreMemory grows the arena by at least uUnits (rounded up to
// MinUnitsFromOS) and returns the new chunk, status and links
// undefined. Grounded on HeapMgr_getMoreMemory.
func (e *V1) getMoreMemory(uUnits uintptr) (chunk.Addr, bool) {
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
// both from the list and re-adding the merged chunk. Grounded on
// HeapMgr_coalesceForward.
func (e *V1) coalesceForward(c chunk.Addr) chunk.Addr {
	next := e.chunks.NextInMem(c, e.arena.End())
	total := e.chunks.Units(c) + e.chunks.Units(next)

	e.list.Remove(c)
	e.list.Remove(next)

	e.chunks.SetUnits(c, total)
	e.chunks.SetStatus(c, chunk.Free)
	e.list.Add(c)
	return c
}

// coalesceBackward merges c with its free predecessor in memory,
// returning the predecessor's address as the merged chunk. Grounded on
// HeapMgr_coalesceBackward.
func (e *V1) coalesceBackward(c chunk.Addr) chunk.Addr {
	prev := e.chunks.PrevInMem(c, e.heapStart)
	total := e.chunks.Units(c) + e.chunks.Units(prev)

	e.list.Remove(c)
	e.list.Remove(prev)

	merged := prev
	e.chunks.SetUnits(merged, total)
	e.chunks.SetStatus(merged, chunk.Free)
	e.list.Add(merged)
	return merged
}

// Release returns the chunk owning p to the free list, coalescing with
// any memory-adjacent free neighbors in either direction. A nil p is a
// tolerated no-op. Grounded on HeapMgr_free.
func (e *V1) Release(p unsafe.Pointer) {
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
	e.list.Add(c)

	if n := e.chunks.NextInMem(c, e.arena.End()); n != chunk.Null && e.chunks.Status(n) == chunk.Free {
		c = e.coalesceForward(c)
	}
	if prevC := e.chunks.PrevInMem(c, e.heapStart); prevC != chunk.Null && e.chunks.Status(prevC) == chunk.Free {
		c = e.coalesceBackward(c)
	}

	e.checkValid("release (exit)")
}
