// Package checker implements the heap checker described in SPEC_FULL.md
// §4: independent, read-only validators that walk a heap's memory and
// free-list structures and report whether every invariant in §3 holds.
//
// Three validators mirror the three engines: Baseline walks the
// singly-linked, address-ordered free list of the V1-baseline engine;
// V1 walks the unordered doubly-linked free list of the V1 engine,
// checking both forward and backward traversals and both directions of
// the memory chain; V2 repeats V1's free-list checks independently for
// every size-class bin of the V2 engine.
//
// Grounded on original_source/checkerbase.c and original_source/checker1.c.
// original_source/checker2.c was not present in the retrieved pack
// (only checker2.h); V2's validator is inferred from checker1.c's shape,
// applied once per bin.
package checker
