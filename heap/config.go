package heap

import "github.com/rs/zerolog"

// Config holds the tunables every engine shares. There is no
// CLI/env/file configuration surface (SPEC_FULL.md §10 carries forward
// spec.md's Non-goals on that point); callers build a Config literal
// and pass it to NewBaseline/NewV1/NewV2.
type Config struct {
	// ReserveBytes is the size of the virtual address range the engine's
	// arena reserves up front. Growth beyond it fails closed (Allocate
	// returns nil) rather than remapping, matching brk's single
	// contiguous-region behavior. Zero means DefaultReserveBytes.
	ReserveBytes uintptr

	// MinUnitsFromOS is the minimum number of units requested from the
	// arena on each growth, batching small requests the way sbrk(2)
	// calls are batched in original_source/heapmgr1.c. Zero means
	// DefaultMinUnitsFromOS.
	MinUnitsFromOS uintptr

	// SplitThreshold is the minimum leftover unit count that makes
	// splitting a found chunk worthwhile, for the V1 and V2 engines
	// (the Baseline engine's split threshold is a structural constant,
	// chunk.MinUnitsBase, per original_source/chunkbase.c). Zero means
	// DefaultSplitThreshold.
	SplitThreshold uintptr

	// CheckEveryOp runs the matching checker.* validator at the entry
	// and exit of every Allocate/Release call, mirroring the
	// assert(Checker_isValid(...)) calls bracketing every operation in
	// the original C engines. A violation is treated as a fatal
	// corruption and panics, just as the C assertions would abort.
	CheckEveryOp bool

	// Logger receives structured diagnostics (growth, checker failures).
	// Nil is a safe no-op, not an error.
	Logger *zerolog.Logger
}

const (
	// DefaultReserveBytes is 1 GiB of reserved virtual address space.
	DefaultReserveBytes uintptr = 1 << 30
	// DefaultMinUnitsFromOS matches MIN_UNITS_FROM_OS in every original_source engine.
	DefaultMinUnitsFromOS uintptr = 512
	// DefaultSplitThreshold matches SPLIT_THRESHOLD in heapmgr1.c/heapmgr2.c.
	DefaultSplitThreshold uintptr = 3
)

func (c Config) withDefaults() Config {
	if c.ReserveBytes == 0 {
		c.ReserveBytes = DefaultReserveBytes
	}
	if c.MinUnitsFromOS == 0 {
		c.MinUnitsFromOS = DefaultMinUnitsFromOS
	}
	if c.SplitThreshold == 0 {
		c.SplitThreshold = DefaultSplitThreshold
	}
	return c
}
