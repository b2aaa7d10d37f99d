package chunk

import "github.com/natemwilson/heap-manager/arena"

// Addr is a chunk address: an offset into the backing arena.
type Addr = arena.Addr

// Null is the address used for "no chunk" (list terminators, missing
// neighbors).
const Null = arena.Null

// Status records whether a chunk is on a free list or owned by a caller.
// Only the Full layout stores this explicitly; Base chunks carry no status
// bit, matching original_source/chunkbase.c, where "in use" is simply "not
// reachable from the free list".
type Status uint64

const (
	Free Status = iota
	InUse
)

func (s Status) String() string {
	if s == Free {
		return "free"
	}
	return "in-use"
}
