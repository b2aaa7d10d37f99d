package heap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func newTestConfig() Config {
	return Config{ReserveBytes: 1 << 24, CheckEveryOp: true}
}

func allEngines(t *testing.T) map[string]Engine {
	t.Helper()
	baseline, err := NewBaseline(newTestConfig())
	require.NoError(t, err)
	v1, err := NewV1(newTestConfig())
	require.NoError(t, err)
	v2, err := NewV2(newTestConfig())
	require.NoError(t, err)
	return map[string]Engine{"baseline": baseline, "v1": v1, "v2": v2}
}

func writePattern(p unsafe.Pointer, n uintptr, b byte) {
	s := unsafe.Slice((*byte)(p), n)
	for i := range s {
		s[i] = b
	}
}

func checkPattern(t *testing.T, p unsafe.Pointer, n uintptr, b byte) {
	t.Helper()
	s := unsafe.Slice((*byte)(p), n)
	for i := range s {
		require.Equalf(t, b, s[i], "byte %d corrupted", i)
	}
}

func TestEmptyReleaseIsNoOp(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() { e.Release(nil) })
			require.True(t, e.Valid())
		})
	}
}

func TestZeroByteAllocateReturnsNil(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			require.Nil(t, e.Allocate(0))
		})
	}
}

// testLifoFixed allocates and releases count chunks of size bytes in
// last-in-first-out order, verifying content survives and the heap
// stays valid at every step. Grounded on
// original_source/testheapmgr.c's testLifoFixed.
func testLifoFixed(t *testing.T, e Engine, count int, size uintptr) {
	t.Helper()
	ptrs := make([]unsafe.Pointer, count)
	for i := 0; i < count; i++ {
		p := e.Allocate(size)
		require.NotNil(t, p)
		writePattern(p, size, byte(i))
		ptrs[i] = p
		require.True(t, e.Valid())
	}
	for i := count - 1; i >= 0; i-- {
		checkPattern(t, ptrs[i], size, byte(i))
		e.Release(ptrs[i])
		require.True(t, e.Valid())
	}
}

// testFifoFixed is testLifoFixed's first-in-first-out counterpart.
func testFifoFixed(t *testing.T, e Engine, count int, size uintptr) {
	t.Helper()
	ptrs := make([]unsafe.Pointer, count)
	for i := 0; i < count; i++ {
		p := e.Allocate(size)
		require.NotNil(t, p)
		writePattern(p, size, byte(i))
		ptrs[i] = p
		require.True(t, e.Valid())
	}
	for i := 0; i < count; i++ {
		checkPattern(t, ptrs[i], size, byte(i))
		e.Release(ptrs[i])
		require.True(t, e.Valid())
	}
}

func TestLifoFixedAllThreeEngines(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			testLifoFixed(t, e, 200, 64)
		})
	}
}

func TestFifoFixedAllThreeEngines(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			testFifoFixed(t, e, 200, 64)
		})
	}
}

// TestRandomFixedContentSurvives allocates a batch of same-size chunks,
// releases every third one, reallocates that many, and confirms every
// still-live chunk's content is untouched by neighboring churn.
// Grounded on testheapmgr.c's testRandomFixed, with a fixed,
// deterministic interleaving in place of random choices.
func TestRandomFixedContentSurvives(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			const n = 64
			const size = 48
			ptrs := make([]unsafe.Pointer, n)
			for i := 0; i < n; i++ {
				ptrs[i] = e.Allocate(size)
				require.NotNil(t, ptrs[i])
				writePattern(ptrs[i], size, byte(i))
			}
			require.True(t, e.Valid())

			// Release every third chunk, then reallocate that many.
			var released []int
			for i := 0; i < n; i += 3 {
				e.Release(ptrs[i])
				released = append(released, i)
				ptrs[i] = nil
			}
			require.True(t, e.Valid())
			for _, i := range released {
				ptrs[i] = e.Allocate(size)
				require.NotNil(t, ptrs[i])
				writePattern(ptrs[i], size, byte(100+i))
			}
			require.True(t, e.Valid())

			for i := 0; i < n; i++ {
				want := byte(i)
				for _, r := range released {
					if r == i {
						want = byte(100 + i)
					}
				}
				checkPattern(t, ptrs[i], size, want)
			}
		})
	}
}

// TestWorstCaseSingleList allocates pairs and frees the first of each
// pair immediately, then frees the kept second halves, loosely after
// original_source/testheapmgr.c's testWorst. Under Baseline's
// address-ordered first-fit each new pair is carved from the large
// chunk at the list head, so the freed chunks pile up as small free
// chunks between in-use ones; V1 and V2 hand the just-freed chunk back
// out for the next pair's first allocation. All three engines must
// stay valid throughout.
func TestWorstCaseSingleList(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			const n = 100
			const size = 32
			var kept []unsafe.Pointer
			for i := 0; i < n; i++ {
				a := e.Allocate(size)
				b := e.Allocate(size)
				require.NotNil(t, a)
				require.NotNil(t, b)
				e.Release(a)
				kept = append(kept, b)
			}
			require.True(t, e.Valid())
			for _, p := range kept {
				e.Release(p)
			}
			require.True(t, e.Valid())
		})
	}
}

func TestSplitAndCoalesceRoundTrip(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			big := e.Allocate(4096)
			require.NotNil(t, big)
			e.Release(big)
			require.True(t, e.Valid())

			small := e.Allocate(16)
			require.NotNil(t, small)
			e.Release(small)
			require.True(t, e.Valid())
		})
	}
}

// TestV2BinBoundary exercises the V2 engine's exact-fit bins around
// the spill-bin boundary (freelist.BinCount), where a request lands in
// the last bin and must fall back to a first-fit scan rather than an
// exact-fit hit. Grounded on original_source/heapmgr2.c's bin indexing.
func TestV2BinBoundary(t *testing.T) {
	e, err := NewV2(newTestConfig())
	require.NoError(t, err)

	huge := e.Allocate(64 * 1024)
	require.NotNil(t, huge)
	e.Release(huge)
	require.True(t, e.Valid())

	small := e.Allocate(8)
	require.NotNil(t, small)
	require.True(t, e.Valid())
}
