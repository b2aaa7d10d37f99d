// Package arena models the contiguous region of process memory the heap
// engine carves chunks from, and the break adapter that grows it.
//
// Rather than wrapping the real process program break — which the design
// notes in SPEC_FULL.md call out as unsafe to share with the Go runtime's
// own allocator — Arena reserves one private anonymous mapping up front
// with mmap(PROT_NONE) and grows the logical "break" by mprotect-ing
// additional pages to PROT_READ|PROT_WRITE on demand. The reservation is
// virtual only: the OS does not back PROT_NONE pages with physical memory,
// so reserving a large address range costs nothing until it is grown into.
package arena
