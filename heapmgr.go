// Package heapmgr is the public entry point for the allocator: a
// default, lazily-initialized instance plus package-level Allocate and
// Release wrapping it, matching the "public API wraps a default
// instance" convention SPEC_FULL.md §9 carries over from spec.md's
// design notes. Most callers never need more than this file; building
// an isolated instance (for tests, or to run more than one variant
// side by side) goes through NewAllocator.
package heapmgr

import (
	"fmt"
	"unsafe"

	"github.com/natemwilson/heap-manager/heap"
)

// Variant selects which of the three engines an Allocator runs.
type Variant int

const (
	// V1 is the advanced single-list engine: header+footer chunks,
	// boundary-tag coalescing, one unordered doubly-linked free list.
	V1 Variant = iota
	// V2 is the binned engine: the same chunk layout as V1, indexed by
	// a fixed array of size-class bins instead of one list.
	V2
	// Baseline is the header-only, address-ordered single-list engine.
	Baseline
)

func (v Variant) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case Baseline:
		return "baseline"
	default:
		return "unknown"
	}
}

// Allocator is one running instance of the heap manager, wrapping
// whichever engine its Variant selects. The zero value is not usable;
// construct one with NewAllocator.
type Allocator struct {
	variant Variant
	engine  heap.Engine
}

// NewAllocator builds an Allocator running the given variant. cfg's
// zero value is valid and fills in SPEC_FULL.md's documented defaults.
func NewAllocator(variant Variant, cfg heap.Config) (*Allocator, error) {
	var (
		engine heap.Engine
		err    error
	)
	switch variant {
	case V1:
		engine, err = heap.NewV1(cfg)
	case V2:
		engine, err = heap.NewV2(cfg)
	case Baseline:
		engine, err = heap.NewBaseline(cfg)
	default:
		return nil, fmt.Errorf("heapmgr: unknown variant %d", variant)
	}
	if err != nil {
		return nil, fmt.Errorf("heapmgr: %s: %w", variant, err)
	}
	return &Allocator{variant: variant, engine: engine}, nil
}

// Variant reports which engine a backs.
func (a *Allocator) Variant() Variant { return a.variant }

// Allocate returns a payload pointer of at least nBytes usable bytes,
// or nil on a zero-byte request or arena exhaustion. Per spec.md §7
// this is the only surface for allocate's recoverable error cases;
// there is no error return to check.
func (a *Allocator) Allocate(nBytes uintptr) unsafe.Pointer {
	return a.engine.Allocate(nBytes)
}

// Release returns p's chunk to the free-list index, coalescing with
// any free memory-adjacent neighbors. p must have come from this same
// Allocator's Allocate and not yet have been released; nil is a
// tolerated no-op (SPEC_FULL.md §9's resolution of spec.md's
// release(null) open question). Release is infallible from the
// caller's perspective: misuse is undefined behavior, detectable only
// by the checker in debug mode (CheckEveryOp).
func (a *Allocator) Release(p unsafe.Pointer) {
	a.engine.Release(p)
}

// Valid runs this Allocator's heap checker once, on demand, regardless
// of whether CheckEveryOp is set. Intended for tests and diagnostics,
// not the allocation hot path.
func (a *Allocator) Valid() bool {
	return a.engine.Valid()
}

// defaultAllocator is the lazily-initialized instance package-level
// Allocate/Release delegate to. There is no mutex guarding it: per
// spec.md §5 the allocator is strictly single-threaded, and
// SPEC_FULL.md carries that model forward unchanged.
var defaultAllocator *Allocator

// Default returns the package-level default Allocator, building one
// running V2 with a zero Config (SPEC_FULL.md's documented defaults)
// on first use. Panics only if that construction fails, which happens
// only when the host cannot satisfy the initial virtual-memory
// reservation.
func Default() *Allocator {
	if defaultAllocator == nil {
		a, err := NewAllocator(V2, heap.Config{})
		if err != nil {
			panic(err)
		}
		defaultAllocator = a
	}
	return defaultAllocator
}

// SetDefault replaces the package-level default Allocator used by
// Allocate/Release. Intended for tests that need a fresh instance or
// callers that want a non-default Variant/Config as the package-level
// one.
func SetDefault(a *Allocator) {
	defaultAllocator = a
}

// Allocate delegates to Default().Allocate.
func Allocate(nBytes uintptr) unsafe.Pointer {
	return Default().Allocate(nBytes)
}

// Release delegates to Default().Release.
func Release(p unsafe.Pointer) {
	Default().Release(p)
}
