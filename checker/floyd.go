package checker

import "github.com/natemwilson/heap-manager/chunk"

// floydForward runs Floyd's cycle-detection (tortoise and hare) over the
// sequence produced by repeatedly applying next starting at start,
// validating every node the hare visits along the way. It returns
// whether a cycle was found, whether a visited node failed valid, and
// the last node the hare reached (the free-list tail, used as the
// starting point for a subsequent backward traversal).
func floydForward(start chunk.Addr, next func(chunk.Addr) chunk.Addr, valid func(chunk.Addr) bool) (cycle, corrupt bool, end chunk.Addr) {
	tortoise := start
	hare := start
	end = chunk.Null
	if hare != chunk.Null {
		end = hare
		hare = next(hare)
	}
	for hare != chunk.Null {
		end = hare
		if tortoise == hare {
			return true, false, end
		}
		if !valid(hare) {
			return false, true, end
		}
		tortoise = next(tortoise)
		hare = next(hare)
		if hare != chunk.Null {
			if !valid(hare) {
				return false, true, end
			}
			end = hare
			hare = next(hare)
		}
	}
	return false, false, end
}

// floydBackward mirrors floydForward walking prev from start (normally
// the tail returned by floydForward). The walk ends when the hare
// reaches the Null prev link of the list head.
func floydBackward(start chunk.Addr, prev func(chunk.Addr) chunk.Addr, valid func(chunk.Addr) bool) (cycle, corrupt bool) {
	tortoise := start
	hare := start
	if hare != chunk.Null {
		if !valid(hare) {
			return false, true
		}
		hare = prev(hare)
	}
	for hare != chunk.Null {
		if tortoise == hare {
			return true, false
		}
		tortoise = prev(tortoise)
		if !valid(hare) {
			return false, true
		}
		hare = prev(hare)
		if hare != chunk.Null {
			if !valid(hare) {
				return false, true
			}
			hare = prev(hare)
		}
	}
	return false, false
}
