package arena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Addr is an offset into an Arena, relative to its base. Offset zero is
// always the heap start; a chunk's "address" throughout this module is one
// of these offsets rather than a raw OS pointer.
type Addr uintptr

// Null is the sentinel used for "no chunk" in free-list links and in
// NextInMem/PrevInMem results, distinct from the valid offset zero.
const Null Addr = ^Addr(0)

// ErrExhausted is returned by Grow when the request would exceed the
// Arena's reserved virtual range.
var ErrExhausted = errors.New("arena: reservation exhausted")

// Arena is a fixed-capacity, growable byte region backed by a single
// anonymous mmap reservation. Bytes beyond End() are reserved but not
// committed; Grow commits additional pages as needed.
type Arena struct {
	mem       []byte
	end       Addr // logical heap_end, relative to base; monotonically non-decreasing
	committed uintptr
	pageSize  uintptr
}

// New reserves a private anonymous mapping of reserveBytes, uncommitted.
func New(reserveBytes uintptr) (*Arena, error) {
	if reserveBytes == 0 {
		return nil, errors.New("arena: reserveBytes must be positive")
	}
	mem, err := unix.Mmap(-1, 0, int(reserveBytes), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap reservation: %w", err)
	}
	return &Arena{
		mem:      mem,
		pageSize: uintptr(unix.Getpagesize()),
	}, nil
}

// Close releases the underlying mapping. Not part of the allocator's public
// surface (the allocator never returns memory to the OS); it exists so
// tests can avoid exhausting address space across many Arenas.
func (a *Arena) Close() error {
	if a.mem == nil {
		return nil
	}
	err := unix.Munmap(a.mem)
	a.mem = nil
	return err
}

// Len returns the reserved capacity in bytes.
func (a *Arena) Len() uintptr { return uintptr(len(a.mem)) }

// End returns the current logical heap_end offset.
func (a *Arena) End() Addr { return a.end }

// Grow extends the logical end of the arena by n bytes, committing
// whatever additional pages that requires, and returns the offset at
// which the newly available region begins (the old End()).
func (a *Arena) Grow(n uintptr) (Addr, error) {
	newEnd := a.end + Addr(n)
	if newEnd < a.end {
		return 0, errors.New("arena: overflow")
	}
	if uintptr(newEnd) > a.Len() {
		return 0, ErrExhausted
	}
	required := roundUp(uintptr(newEnd), a.pageSize)
	if required > a.committed {
		if err := unix.Mprotect(a.mem[:required], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("arena: mprotect: %w", err)
		}
		a.committed = required
	}
	old := a.end
	a.end = newEnd
	return old, nil
}

func roundUp(n, multiple uintptr) uintptr {
	if multiple == 0 {
		return n
	}
	rem := n % multiple
	if rem == 0 {
		return n
	}
	return n + multiple - rem
}

// Base returns a pointer to the first byte of the arena, for translating
// offsets to unsafe.Pointer at the allocator's public API boundary.
func (a *Arena) Base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(a.mem))
}

// PointerAt translates an in-bounds offset to an unsafe.Pointer.
func (a *Arena) PointerAt(at Addr) unsafe.Pointer {
	return unsafe.Add(a.Base(), at)
}

// OffsetOf translates a pointer previously returned via PointerAt back to
// an offset, reporting false if p does not fall within the arena.
func (a *Arena) OffsetOf(p unsafe.Pointer) (Addr, bool) {
	base := uintptr(a.Base())
	addr := uintptr(p)
	if addr < base || addr >= base+a.Len() {
		return 0, false
	}
	return Addr(addr - base), true
}

// Uint64 reads a little-endian uint64 at offset at.
func (a *Arena) Uint64(at Addr) uint64 {
	return binary.LittleEndian.Uint64(a.mem[at : at+8])
}

// SetUint64 writes a little-endian uint64 at offset at.
func (a *Arena) SetUint64(at Addr, v uint64) {
	binary.LittleEndian.PutUint64(a.mem[at:at+8], v)
}
