package heap

import (
	"unsafe"

	"github.com/natemwilson/heap-manager/arena"
	"github.com/natemwilson/heap-manager/checker"
	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// Baseline is the V1-baseline engine: header-only chunks with no status
// bit (free-ness is list membership), kept in one address-ordered
// singly-linked free list. Grounded on original_source/heapmgrbase.c.
type Baseline struct {
	cfg       Config
	arena     *arena.Arena
	chunks    chunk.Base
	list      *freelist.OrderedList
	heapStart chunk.Addr
	started   bool
}

// NewBaseline builds a Baseline engine. The arena is reserved but
// uncommitted until the first Allocate call, mirroring sbrk(0)'s
// deferred initialization in original_source/heapmgrbase.c.
func NewBaseline(cfg Config) (*Baseline, error) {
	cfg = cfg.withDefaults()
	a, err := arena.New(cfg.ReserveBytes)
	if err != nil {
		return nil, err
	}
	chunks := chunk.NewBase(a)
	return &Baseline{
		cfg:    cfg,
		arena:  a,
		chunks: chunks,
		list:   freelist.NewOrderedList(chunks),
	}, nil
}

func (b *Baseline) ensureStarted() {
	if !b.started {
		b.heapStart = b.arena.End()
		b.started = true
	}
}

func (b *Baseline) checkValid(op string) {
	if !b.cfg.CheckEveryOp {
		return
	}
	if checker.Baseline(b.cfg.Logger, b.chunks, b.heapStart, b.arena.End(), b.list) {
		return
	}
	panic("heap: baseline checker detected a corrupted heap during " + op)
}

// Valid runs the Baseline checker once, on demand.
func (b *Baseline) Valid() bool {
	b.ensureStarted()
	return checker.Baseline(b.cfg.Logger, b.chunks, b.heapStart, b.arena.End(), b.list)
}

// Allocate returns a payload pointer of at least nBytes, or nil if
// nBytes is zero or the arena is exhausted.
func (b *Baseline) Allocate(nBytes uintptr) unsafe.Pointer {
	if nBytes == 0 {
		return nil
	}
	b.ensureStarted()
	b.checkValid("allocate (entry)")

	uUnits := b.chunks.BytesToUnits(nBytes)

	var prevPrev, prev chunk.Addr = chunk.Null, chunk.Null
	for c := b.list.Head(); c != chunk.Null; c = b.list.Next(c) {
		if b.chunks.Units(c) >= uUnits {
			result := b.useChunk(c, prev, uUnits)
			b.checkValid("allocate (exit)")
			return b.arena.PointerAt(b.chunks.ToPayload(result))
		}
		prevPrev, prev = prev, c
	}

	newChunk, ok := b.getMoreMemory(prev, uUnits)
	if !ok {
		b.checkValid("allocate (exit)")
		return nil
	}
	if newChunk == prev {
		prev = prevPrev
	}
	result := b.useChunk(newChunk, prev, uUnits)
	b.checkValid("allocate (exit)")
	return b.arena.PointerAt(b.chunks.ToPayload(result))
}

// Release returns the chunk owning p to the free list, coalescing with
// address-adjacent free neighbors. A nil p is a tolerated no-op.
func (b *Baseline) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	b.ensureStarted()
	b.checkValid("release (entry)")

	off, ok := b.arena.OffsetOf(p)
	if !ok {
		return
	}
	c := b.chunks.FromPayload(off)

	prev, next := b.list.InsertSorted(c)

	if next != chunk.Null && b.chunks.NextInMem(c, b.arena.End()) == next {
		b.chunks.SetUnits(c, b.chunks.Units(c)+b.chunks.Units(next))
		b.chunks.SetNextInList(c, b.chunks.NextInList(next))
	}
	if prev != chunk.Null && b.chunks.NextInMem(prev, b.arena.End()) == c {
		b.chunks.SetUnits(prev, b.chunks.Units(prev)+b.chunks.Units(c))
		b.chunks.SetNextInList(prev, b.chunks.NextInList(c))
	}

	b.checkValid("release (exit)")
}

// useChunk either splices c whole out of the free list (if its leftover
// after uUnits is too small to be worth splitting) or shrinks c in
// place and carves the returned tail end off of it, requiring no list
// surgery for the split case at all. Grounded on HeapMgr_useChunk.
func (b *Baseline) useChunk(c, prev chunk.Addr, uUnits uintptr) chunk.Addr {
	units := b.chunks.Units(c)
	if units < uUnits+chunk.MinUnitsBase {
		b.list.Remove(prev, c)
		return c
	}
	b.chunks.SetUnits(c, units-uUnits)
	tail := b.chunks.NextInMem(c, b.arena.End())
	b.chunks.SetUnits(tail, uUnits)
	return tail
}

// getMoreMemory grows the arena by at least uUnits (rounded up to
// MinUnitsFromOS), appends the new chunk after prev (the tail reached
// during the caller's failed free-list scan), and coalesces it with
// prev in place if they are memory-adjacent. Grounded on
// HeapMgr_getMoreMemory.
func (b *Baseline) getMoreMemory(prev chunk.Addr, uUnits uintptr) (chunk.Addr, bool) {
	if uUnits < b.cfg.MinUnitsFromOS {
		uUnits = b.cfg.MinUnitsFromOS
	}
	uBytes := b.chunks.UnitsToBytes(uUnits)
	c, err := b.arena.Grow(uBytes)
	if err != nil {
		if b.cfg.Logger != nil {
			b.cfg.Logger.Warn().Err(err).Uint64("units", uint64(uUnits)).Msg("heap: arena growth failed")
		}
		return chunk.Null, false
	}
	b.chunks.SetUnits(c, uUnits)
	b.list.AppendTail(prev, c)

	if prev != chunk.Null && b.chunks.NextInMem(prev, b.arena.End()) == c {
		b.chunks.SetUnits(prev, b.chunks.Units(prev)+uUnits)
		b.chunks.SetNextInList(prev, chunk.Null)
		c = prev
	}
	return c, true
}
