package freelist

import "github.com/natemwilson/heap-manager/chunk"

// OrderedList is the V1-baseline free-list index: one singly-linked list,
// kept in strictly ascending address order, so boundary-free coalescing
// can be done purely from list position (see SPEC_FULL.md §9, "Boundary
// tags vs list-ordered coalescing").
type OrderedList struct {
	chunks chunk.Base
	head   chunk.Addr
}

// NewOrderedList returns an empty OrderedList using chunks for chunk
// field access.
func NewOrderedList(chunks chunk.Base) *OrderedList {
	return &OrderedList{chunks: chunks, head: chunk.Null}
}

// Head returns the first (lowest-address) chunk in the list, or
// chunk.Null if it is empty.
func (l *OrderedList) Head() chunk.Addr { return l.head }

// Empty reports whether the list has no chunks.
func (l *OrderedList) Empty() bool { return l.head == chunk.Null }

// Next returns the list successor of c.
func (l *OrderedList) Next(c chunk.Addr) chunk.Addr { return l.chunks.NextInList(c) }

// InsertSorted inserts c at its address-ordered position and returns its
// new neighbors, so callers (the heap engine) can immediately attempt
// forward/backward coalescing without a second traversal.
func (l *OrderedList) InsertSorted(c chunk.Addr) (prev, next chunk.Addr) {
	prev = chunk.Null
	next = l.head
	for next != chunk.Null && next < c {
		prev = next
		next = l.chunks.NextInList(next)
	}
	if prev == chunk.Null {
		l.head = c
	} else {
		l.chunks.SetNextInList(prev, c)
	}
	l.chunks.SetNextInList(c, next)
	return prev, next
}

// AppendTail links newly grown chunk c in after prev (or as the new
// head if prev is chunk.Null), without re-scanning for its position.
// Callers must only use this for a chunk at the highest address in the
// heap, appended after the list's last chunk (the one a full, failed
// first-fit scan ends on) — the one case where the address-ordered
// position is already known without a scan.
func (l *OrderedList) AppendTail(prev, c chunk.Addr) {
	if prev == chunk.Null {
		l.head = c
	} else {
		l.chunks.SetNextInList(prev, c)
	}
	l.chunks.SetNextInList(c, chunk.Null)
}

// Remove splices c out of the list. prev must be c's current list
// predecessor (chunk.Null if c is the head).
func (l *OrderedList) Remove(prev, c chunk.Addr) {
	next := l.chunks.NextInList(c)
	if prev == chunk.Null {
		l.head = next
	} else {
		l.chunks.SetNextInList(prev, next)
	}
}

// Find performs address-ordered first-fit search, returning the
// predecessor and address of the first chunk whose unit count is at
// least requiredUnits.
func (l *OrderedList) Find(requiredUnits uintptr) (prev, found chunk.Addr, ok bool) {
	prev = chunk.Null
	for c := l.head; c != chunk.Null; c = l.chunks.NextInList(c) {
		if l.chunks.Units(c) >= requiredUnits {
			return prev, c, true
		}
		prev = c
	}
	return chunk.Null, chunk.Null, false
}

// Predecessor returns the list predecessor of target, or chunk.Null if
// target is the head or is not present, for a caller that already holds
// a chunk address and needs to splice relative to it without re-running
// InsertSorted. The heap engines do not call it.
func (l *OrderedList) Predecessor(target chunk.Addr) chunk.Addr {
	prev := chunk.Null
	for c := l.head; c != chunk.Null; c = l.chunks.NextInList(c) {
		if c == target {
			return prev
		}
		prev = c
	}
	return chunk.Null
}
