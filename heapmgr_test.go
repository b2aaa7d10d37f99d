package heapmgr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/natemwilson/heap-manager/heap"
)

func newAllocator(t *testing.T, v Variant) *Allocator {
	t.Helper()
	a, err := NewAllocator(v, heap.Config{ReserveBytes: 1 << 24, CheckEveryOp: true})
	require.NoError(t, err)
	return a
}

func TestNewAllocatorAllThreeVariants(t *testing.T) {
	for _, v := range []Variant{V1, V2, Baseline} {
		t.Run(v.String(), func(t *testing.T) {
			a := newAllocator(t, v)
			require.Equal(t, v, a.Variant())
			require.True(t, a.Valid())
		})
	}
}

func TestUnknownVariantErrors(t *testing.T) {
	_, err := NewAllocator(Variant(99), heap.Config{})
	require.Error(t, err)
}

func TestAllocatorAllocateReleaseRoundTrip(t *testing.T) {
	for _, v := range []Variant{V1, V2, Baseline} {
		t.Run(v.String(), func(t *testing.T) {
			a := newAllocator(t, v)

			p := a.Allocate(32)
			require.NotNil(t, p)
			s := unsafe.Slice((*byte)(p), 32)
			for i := range s {
				s[i] = byte(i)
			}
			require.True(t, a.Valid())

			a.Release(p)
			require.True(t, a.Valid())

			require.Nil(t, a.Allocate(0))
			require.NotPanics(t, func() { a.Release(nil) })
		})
	}
}

func TestDefaultIsLazyAndStable(t *testing.T) {
	SetDefault(nil)
	first := Default()
	require.NotNil(t, first)
	require.Same(t, first, Default())
}

func TestPackageLevelAllocateRelease(t *testing.T) {
	SetDefault(newAllocator(t, V2))

	p := Allocate(16)
	require.NotNil(t, p)
	Release(p)
	require.True(t, Default().Valid())
}
