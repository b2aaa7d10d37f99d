package checker

import (
	"github.com/rs/zerolog"

	"github.com/natemwilson/heap-manager/chunk"
	"github.com/natemwilson/heap-manager/freelist"
)

// V2 validates a V2 heap: header+footer chunks and a fixed array of
// size-class bins. original_source/checker2.c was not present in the
// retrieved pack (only checker2.h); this validator is inferred from
// checker1.c's shape, run independently for every bin, with one added
// cross-check checker1.c has no equivalent for: a free chunk must sit
// in the bin matching its own size, not merely in some bin.
func V2(log *zerolog.Logger, chunks chunk.Full, heapStart, heapEnd chunk.Addr, bins *freelist.Bins) bool {
	fail := func(msg string) bool {
		if log != nil {
			log.Error().Str("check", "v2").Msg(msg)
		}
		return false
	}

	if heapStart == heapEnd {
		for i := 0; i < freelist.BinCount; i++ {
			if bins.Bin(i) != chunk.Null {
				return fail("the heap is empty, but a bin is not")
			}
		}
		return true
	}

	if !checkMemoryChain(log, "v2", chunks, heapStart, heapEnd) {
		return false
	}

	for i := 0; i < freelist.BinCount; i++ {
		if !checkFullList(log, "v2", chunks, heapStart, heapEnd, bins.Bin(i), chunks.NextInList) {
			return false
		}
	}

	for c := heapStart; c != chunk.Null; c = chunks.NextInMem(c, heapEnd) {
		if chunks.Status(c) != chunk.Free {
			continue
		}
		want := freelist.BinIndex(chunks.Units(c))
		found := false
		for f := bins.Bin(want); f != chunk.Null; f = chunks.NextInList(f) {
			if f == c {
				found = true
				break
			}
		}
		if !found {
			return fail("a free chunk is not present in the bin matching its size")
		}
	}

	return true
}
