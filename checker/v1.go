package checker

import (
	"github.com/rs/zerolog"

	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// V1 validates a V1 heap: header+footer chunks and one unordered,
// doubly-linked free list. Grounded on original_source/checker1.c.
func V1(log *zerolog.Logger, chunks chunk.Full, heapStart, heapEnd chunk.Addr, list *freelist.List) bool {
	fail := func(msg string) bool {
		if log != nil {
			log.Error().Str("check", "v1").Msg(msg)
		}
		return false
	}

	if heapStart == heapEnd {
		if list.Head() == chunk.Null {
			return true
		}
		return fail("the heap is empty, but the free list is not")
	}

	if !checkMemoryChain(log, "v1", chunks, heapStart, heapEnd) {
		return false
	}

	if !checkFullList(log, "v1", chunks, heapStart, heapEnd, list.Head(), list.Next) {
		return false
	}

	if !everyFreeChunkIn(chunks, heapStart, heapEnd, list.Head(), list.Next) {
		if log != nil {
			log.Error().Str("check", "v1").Msg("a free chunk is not present in the free list")
		}
		return false
	}

	return true
}

// checkMemoryChain walks the physical chunk chain both forward and
// backward, validating every chunk it visits.
func checkMemoryChain(log *zerolog.Logger, tag string, chunks chunk.Full, heapStart, heapEnd chunk.Addr) bool {
	fail := func(msg string) bool {
		if log != nil {
			log.Error().Str("check", tag).Msg(msg)
		}
		return false
	}
	for c := heapStart; c != chunk.Null; c = chunks.NextInMem(c, heapEnd) {
		if !chunks.IsValid(c, heapStart, heapEnd) {
			return fail("traversing memory forward detected a bad chunk")
		}
	}
	for c := chunks.PrevInMem(heapEnd, heapStart); c != chunk.Null; c = chunks.PrevInMem(c, heapStart) {
		if !chunks.IsValid(c, heapStart, heapEnd) {
			return fail("traversing memory backward detected a bad chunk")
		}
	}
	return true
}

// checkFullList runs the free-list-side checks of checker1.c against a
// single header+footer free list, identified only by its head and
// next-walker (so V2 can reuse it once per bin, after checkMemoryChain
// has already run once for the whole heap).
func checkFullList(log *zerolog.Logger, tag string, chunks chunk.Full, heapStart, heapEnd, head chunk.Addr, next func(chunk.Addr) chunk.Addr) bool {
	fail := func(msg string) bool {
		if log != nil {
			log.Error().Str("check", tag).Msg(msg)
		}
		return false
	}
	valid := func(c chunk.Addr) bool { return chunks.IsValid(c, heapStart, heapEnd) }

	cycle, corrupt, end := floydForward(head, next, valid)
	if corrupt {
		return fail("a forward free-list link is corrupted")
	}
	if cycle {
		return fail("the free list has a forward cycle")
	}

	cycle, corrupt = floydBackward(end, chunks.PrevInList, valid)
	if corrupt {
		return fail("a backward free-list link is corrupted")
	}
	if cycle {
		return fail("the free list has a backward cycle")
	}

	for c := head; c != chunk.Null; c = next(c) {
		if !valid(c) {
			return fail("traversing the free list detected a bad chunk")
		}
		if chunks.Status(c) != chunk.Free {
			return fail("a chunk in the free list is marked in use")
		}
		if p := chunks.PrevInMem(c, heapStart); p != chunk.Null && chunks.Status(p) == chunk.Free {
			return fail("the heap contains contiguous free chunks (predecessor)")
		}
		if n := chunks.NextInMem(c, heapEnd); n != chunk.Null && chunks.Status(n) == chunk.Free {
			return fail("the heap contains contiguous free chunks (successor)")
		}
	}

	for c := head; c != chunk.Null; c = next(c) {
		if c != head {
			if p := chunks.PrevInList(c); p != chunk.Null && next(p) != c {
				return fail("next-of-previous is not the current node")
			}
		}
		if n := next(c); n != chunk.Null && chunks.PrevInList(n) != c {
			return fail("previous-of-next is not the current node")
		}
	}

	return true
}

// everyFreeChunkIn reports whether every Free-status chunk in the
// heapStart..heapEnd memory chain is reachable from head via next. Only
// meaningful against a free-list index that owns every free chunk (V1's
// single list); V2 must instead check each chunk against its own bin
// (see V2 in v2.go).
func everyFreeChunkIn(chunks chunk.Full, heapStart, heapEnd, head chunk.Addr, next func(chunk.Addr) chunk.Addr) bool {
	for c := heapStart; c != chunk.Null; c = chunks.NextInMem(c, heapEnd) {
		if chunks.Status(c) != chunk.Free {
			continue
		}
		found := false
		for f := head; f != chunk.Null; f = next(f) {
			if f == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
