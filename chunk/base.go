package chunk

import "github.com/natemwilson/heap-manager/arena"

// UnitBase is the size, in bytes, of one unit in the Base (header-only)
// layout: one uint64 for the unit count, one uint64 for the next-in-list
// link. It is large enough to align any primitive Go value.
const UnitBase = 16

// MinUnitsBase is the minimum number of units a Base chunk may contain:
// one unit of header plus at least one unit of payload.
const MinUnitsBase = 2

const (
	baseUnitsOff = 0
	baseNextOff  = 8
)

// Base is the header-only chunk accessor used by the V1-baseline engine.
// It carries no status bit and no footer; "in use" is whatever is not
// reachable from the owning free list.
type Base struct {
	a *arena.Arena
}

// NewBase returns a Base accessor bound to a.
func NewBase(a *arena.Arena) Base { return Base{a: a} }

// BytesToUnits returns the smallest unit count covering nBytes of payload
// plus a header, never less than MinUnitsBase. nBytes must be positive;
// the zero-byte request is rejected by the engine before this is called.
func (b Base) BytesToUnits(nBytes uintptr) uintptr {
	units := (nBytes-1)/UnitBase + 1
	units++ // room for the header
	if units < MinUnitsBase {
		units = MinUnitsBase
	}
	return units
}

// UnitsToBytes returns the exact byte span of uUnits units.
func (b Base) UnitsToBytes(uUnits uintptr) uintptr { return uUnits * UnitBase }

// ToPayload returns the payload address of the chunk at c.
func (b Base) ToPayload(c Addr) Addr { return c + UnitBase }

// FromPayload returns the chunk owning the payload at p.
func (b Base) FromPayload(p Addr) Addr { return p - UnitBase }

// Units returns the chunk's unit count.
func (b Base) Units(c Addr) uintptr { return uintptr(b.a.Uint64(c + baseUnitsOff)) }

// SetUnits sets the chunk's unit count. uUnits must be >= MinUnitsBase.
func (b Base) SetUnits(c Addr, uUnits uintptr) {
	b.a.SetUint64(c+baseUnitsOff, uint64(uUnits))
}

// NextInList returns the chunk's next free-list link, or Null.
func (b Base) NextInList(c Addr) Addr { return Addr(b.a.Uint64(c + baseNextOff)) }

// SetNextInList sets the chunk's next free-list link.
func (b Base) SetNextInList(c Addr, next Addr) {
	b.a.SetUint64(c+baseNextOff, uint64(next))
}

// NextInMem returns the chunk physically following c, or Null if c is the
// last chunk before heapEnd.
func (b Base) NextInMem(c Addr, heapEnd Addr) Addr {
	next := c + Addr(b.UnitsToBytes(b.Units(c)))
	if next == heapEnd {
		return Null
	}
	return next
}

// IsValid reports whether c satisfies invariant 3 of SPEC_FULL.md §3:
// in-bounds, non-overlapping with heapEnd, and at least MinUnitsBase
// units.
func (b Base) IsValid(c, heapStart, heapEnd Addr) bool {
	if c < heapStart || c >= heapEnd {
		return false
	}
	units := b.Units(c)
	if units < MinUnitsBase {
		return false
	}
	if c+Addr(b.UnitsToBytes(units)) > heapEnd {
		return false
	}
	return true
}
