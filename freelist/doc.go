// Package freelist implements the three free-chunk indexes used by the
// heap engines: an address-ordered singly-linked list (V1-baseline), an
// unordered doubly-linked list (V1), and a fixed array of doubly-linked
// size-class bins with a spill bin for the largest class (V2).
package freelist
