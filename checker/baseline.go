package checker

import (
	"github.com/rs/zerolog"

	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// Baseline validates a V1-baseline heap: a plain header layout and a
// single address-ordered, singly-linked free list. Grounded on
// original_source/checkerbase.c.
func Baseline(log *zerolog.Logger, chunks chunk.Base, heapStart, heapEnd chunk.Addr, list *freelist.OrderedList) bool {
	fail := func(msg string) bool {
		if log != nil {
			log.Error().Str("check", "baseline").Msg(msg)
		}
		return false
	}

	if heapStart == heapEnd {
		if list.Empty() {
			return true
		}
		return fail("the heap is empty, but the free list is not")
	}

	for c := heapStart; c != chunk.Null; c = chunks.NextInMem(c, heapEnd) {
		if !chunks.IsValid(c, heapStart, heapEnd) {
			return fail("traversing memory detected a bad chunk")
		}
	}

	if cycle, _, _ := floydForward(list.Head(), list.Next, func(chunk.Addr) bool { return true }); cycle {
		return fail("the free list has a cycle")
	}

	var prev chunk.Addr = chunk.Null
	for c := list.Head(); c != chunk.Null; c = list.Next(c) {
		if !chunks.IsValid(c, heapStart, heapEnd) {
			return fail("traversing the free list detected a bad chunk")
		}
		if prev != chunk.Null && prev >= c {
			return fail("the free list is not address-ordered")
		}
		if prev != chunk.Null && chunks.NextInMem(prev, heapEnd) == c {
			return fail("the heap contains contiguous free chunks")
		}
		prev = c
	}

	return true
}
