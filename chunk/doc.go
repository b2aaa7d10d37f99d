// Package chunk implements the header/footer record layout chunks use
// inside an arena.Arena, and the address arithmetic for navigating
// between a chunk's payload and its neighbors in memory.
//
// Two layouts are provided, mirroring the two chunk records in
// original_source/chunk.h and original_source/chunkbase.h:
//
//   - Base: a 2-unit-minimum, header-only record (units, next-in-list).
//     Used by the V1-baseline engine, which tracks no status bit and
//     coalesces by walking an address-ordered list instead of boundary
//     tags.
//   - Full: a 3-unit-minimum, header+footer record (units, status,
//     next-in-list in the header; units, prev-in-list in the footer).
//     Used by the V1 and V2 engines for O(1) boundary-tag coalescing.
//
// Both layouts address chunks as arena.Addr offsets rather than typed
// pointers, per the design note that recommends index-arithmetic helpers
// over a byte buffer for memory-safe-language rewrites.
package chunk
