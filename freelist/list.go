package freelist

import "github.com/natemwilson/heap-manager/chunk"

// addFront links c in at the head of the list rooted at *head, clearing
// its own links first. Shared by List (V1) and each bin of Bins (V2).
func addFront(chunks chunk.Full, head *chunk.Addr, c chunk.Addr) {
	chunks.SetNextInList(c, chunk.Null)
	chunks.SetPrevInList(c, chunk.Null)

	old := *head
	*head = c
	if old == chunk.Null {
		return
	}
	chunks.SetNextInList(c, old)
	chunks.SetPrevInList(old, c)
}

// removeNode splices c out of the list rooted at *head.
func removeNode(chunks chunk.Full, head *chunk.Addr, c chunk.Addr) {
	prev := chunks.PrevInList(c)
	next := chunks.NextInList(c)

	if prev == chunk.Null {
		*head = next
	} else {
		chunks.SetNextInList(prev, next)
	}
	if next != chunk.Null {
		chunks.SetPrevInList(next, prev)
	}

	chunks.SetNextInList(c, chunk.Null)
	chunks.SetPrevInList(c, chunk.Null)
}

// List is the V1 free-list index: one unordered, doubly-linked list with
// front insertion, relying on footer boundary tags (not list position)
// for coalescing.
type List struct {
	chunks chunk.Full
	head   chunk.Addr
}

// NewList returns an empty List using chunks for chunk field access.
func NewList(chunks chunk.Full) *List {
	return &List{chunks: chunks, head: chunk.Null}
}

// Head returns the current front of the list, or chunk.Null if empty.
func (l *List) Head() chunk.Addr { return l.head }

// Next returns the list successor of c.
func (l *List) Next(c chunk.Addr) chunk.Addr { return l.chunks.NextInList(c) }

// Add inserts c at the front of the list. Pre: c's status and units are
// already set correctly.
func (l *List) Add(c chunk.Addr) { addFront(l.chunks, &l.head, c) }

// Remove splices c out of the list.
func (l *List) Remove(c chunk.Addr) { removeNode(l.chunks, &l.head, c) }

// Search returns the first chunk in the list (in no particular order)
// whose unit count is at least requiredUnits.
func (l *List) Search(requiredUnits uintptr) (chunk.Addr, bool) {
	for c := l.head; c != chunk.Null; c = l.chunks.NextInList(c) {
		if l.chunks.Units(c) >= requiredUnits {
			return c, true
		}
	}
	return chunk.Null, false
}
