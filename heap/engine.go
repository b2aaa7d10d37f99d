package heap

import "unsafe"

// Engine is the common surface of the three heap-manager variants.
// Allocate returns nil on a zero-byte request or on exhaustion of the
// engine's reserved arena, mirroring HeapMgr_malloc's NULL return —
// there is no error channel on the allocation path itself. Release is
// infallible and tolerates a nil pointer as a no-op.
type Engine interface {
	Allocate(nBytes uintptr) unsafe.Pointer
	Release(p unsafe.Pointer)
	Valid() bool
}
