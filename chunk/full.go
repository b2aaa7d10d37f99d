package chunk

import "github.com/natemwilson/heap-manager/arena"

// UnitFull is the size, in bytes, of one unit in the Full (header+footer)
// layout: three uint64 fields. The header uses all three (units, status,
// next-in-list); the footer, one unit away at the chunk's far end, uses
// only the first and third (units, prev-in-list), leaving the middle
// field unused.
const UnitFull = 24

// MinUnitsFull is the minimum number of units a Full chunk may contain:
// one unit of header, one of payload, one of footer.
const MinUnitsFull = 3

const (
	fullUnitsOff  = 0
	fullStatusOff = 8
	fullNextOff   = 16
	// The footer reuses the unit's first field for its own unit count and
	// its last field for the previous-in-list link; its middle field is
	// unused.
	fullFooterPrevOff = 16
)

// Full is the header+footer chunk accessor used by the V1 and V2
// engines. Footers duplicate the unit count so PrevInMem is O(1); status
// lives only in the header and may be stale in the footer's slot.
type Full struct {
	a *arena.Arena
}

// NewFull returns a Full accessor bound to a.
func NewFull(a *arena.Arena) Full { return Full{a: a} }

// BytesToUnits returns the smallest unit count covering nBytes of payload
// plus a header and footer, never less than MinUnitsFull. nBytes must be
// positive; the zero-byte request is rejected by the engine before this
// is called.
func (f Full) BytesToUnits(nBytes uintptr) uintptr {
	units := (nBytes-1)/UnitFull + 1 // payload units
	units += 2                       // header + footer
	if units < MinUnitsFull {
		units = MinUnitsFull
	}
	return units
}

// UnitsToBytes returns the exact byte span of uUnits units.
func (f Full) UnitsToBytes(uUnits uintptr) uintptr { return uUnits * UnitFull }

// ToPayload returns the payload address of the chunk at c.
func (f Full) ToPayload(c Addr) Addr { return c + UnitFull }

// FromPayload returns the chunk owning the payload at p.
func (f Full) FromPayload(p Addr) Addr { return p - UnitFull }

// Status returns the chunk's status, read from the header.
func (f Full) Status(c Addr) Status { return Status(f.a.Uint64(c + fullStatusOff)) }

// SetStatus sets the chunk's status in the header.
func (f Full) SetStatus(c Addr, s Status) { f.a.SetUint64(c+fullStatusOff, uint64(s)) }

// Units returns the chunk's unit count, read from the header.
func (f Full) Units(c Addr) uintptr { return uintptr(f.a.Uint64(c + fullUnitsOff)) }

// footerOf returns the address of c's footer unit, which sits at c's far
// end and moves whenever c's unit count changes.
func (f Full) footerOf(c Addr) Addr {
	return c + Addr(f.UnitsToBytes(f.Units(c))) - UnitFull
}

// SetUnits sets the chunk's unit count, writing both the header and the
// footer (the footer address moves whenever the unit count changes). Any
// existing prev-in-list link, which lives in the old footer, is lost —
// callers must set the unit count before (re-)linking a chunk into a free
// list.
func (f Full) SetUnits(c Addr, uUnits uintptr) {
	f.a.SetUint64(c+fullUnitsOff, uint64(uUnits))
	footer := c + Addr(f.UnitsToBytes(uUnits)) - UnitFull
	f.a.SetUint64(footer+fullUnitsOff, uint64(uUnits))
}

// NextInList returns the chunk's next free-list link, or Null. The link
// lives in the header.
func (f Full) NextInList(c Addr) Addr { return Addr(f.a.Uint64(c + fullNextOff)) }

// SetNextInList sets the chunk's next free-list link, in the header.
func (f Full) SetNextInList(c Addr, next Addr) { f.a.SetUint64(c+fullNextOff, uint64(next)) }

// PrevInList returns the chunk's previous free-list link, or Null. The
// link lives in the chunk's footer, per original_source/chunk.h.
func (f Full) PrevInList(c Addr) Addr {
	return Addr(f.a.Uint64(f.footerOf(c) + fullFooterPrevOff))
}

// SetPrevInList sets the chunk's previous free-list link, in the footer.
func (f Full) SetPrevInList(c Addr, prev Addr) {
	f.a.SetUint64(f.footerOf(c)+fullFooterPrevOff, uint64(prev))
}

// NextInMem returns the chunk physically following c, or Null if c is the
// last chunk before heapEnd.
func (f Full) NextInMem(c Addr, heapEnd Addr) Addr {
	next := c + Addr(f.UnitsToBytes(f.Units(c)))
	if next == heapEnd {
		return Null
	}
	return next
}

// PrevInMem returns the chunk physically preceding c, read via c's
// footer-image neighbor, or Null if c is heapStart.
func (f Full) PrevInMem(c Addr, heapStart Addr) Addr {
	if c == heapStart {
		return Null
	}
	footer := c - UnitFull
	prevUnits := uintptr(f.a.Uint64(footer + fullUnitsOff))
	return c - Addr(f.UnitsToBytes(prevUnits))
}

// IsValid reports whether c satisfies invariant 3 of SPEC_FULL.md §3:
// in-bounds, non-overlapping with heapEnd, and at least MinUnitsFull
// units.
func (f Full) IsValid(c, heapStart, heapEnd Addr) bool {
	if c < heapStart || c >= heapEnd {
		return false
	}
	units := f.Units(c)
	if units < MinUnitsFull {
		return false
	}
	if c+Addr(f.UnitsToBytes(units)) > heapEnd {
		return false
	}
	return true
}
