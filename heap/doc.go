// Package heap implements the three heap-manager engines described in
// SPEC_FULL.md §4: Baseline (header-only chunks, one address-ordered
// free list), V1 (header+footer chunks, one unordered doubly-linked
// free list), and V2 (header+footer chunks, an array of size-class
// bins). Each engine owns an arena.Arena standing in for the process
// break and exposes the same Allocate/Release/Valid surface.
//
// Grounded on original_source/heapmgrbase.c, heapmgr1.c, and heapmgr2.c.
package heap
