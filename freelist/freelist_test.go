package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/natemwilson/heap-manager/arena"
	"github.com/natemwilson/heap-manager/chunk"
)

// newTestArena returns an arena with n bytes already committed, for tests
// that lay out chunks by hand at fixed offsets.
func newTestArena(t *testing.T, n uintptr) *arena.Arena {
	t.Helper()
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	_, err = a.Grow(n)
	require.NoError(t, err)
	return a
}
