// Package arena provides a generic bump allocator used by core.CommandList
// to store command payloads and their inline-copied pointer data (spec.md
// §3 "CommandList ... backed by a paged allocator", §4.1, §8 property 1
// "Arena disjointness").
//
// An Arena[T] hands out pointers and slices into one growable backing
// slice. Allocations are never individually freed; the whole arena is
// reset at once, which reuses rather than discards the backing storage so
// that replaying the same sequence of allocation sizes after a reset
// yields the same addresses (spec.md §8 property 1).
package arena

// Arena is a bump allocator over a slice of T.
type Arena[T any] struct {
	buf []T
}

// New creates an arena with initial capacity for `capacity` elements.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{buf: make([]T, 0, capacity)}
}

// Alloc appends one value and returns a pointer into the arena's backing
// storage. The pointer is valid until the next Reset.
func (a *Arena[T]) Alloc(v T) *T {
	a.buf = append(a.buf, v)
	return &a.buf[len(a.buf)-1]
}

// AllocSlice copies src into the arena and returns a slice viewing the
// copy, so the command that embeds it no longer points at caller-owned
// memory (spec.md §4.1 "buffers/slices embedded by pointer are copied into
// the arena so the command is self-contained"). Returns nil for an empty
// source, matching append's behavior on a nil slice.
func (a *Arena[T]) AllocSlice(src []T) []T {
	if len(src) == 0 {
		return nil
	}
	start := len(a.buf)
	a.buf = append(a.buf, src...)
	return a.buf[start : start+len(src) : start+len(src)]
}

// At returns a pointer to the i'th allocation (0-indexed, in allocation
// order). Unlike a pointer returned by Alloc, the index i itself stays
// valid across later Alloc calls even if they grow the backing array, so
// callers that need to mutate an earlier allocation after making new ones
// (e.g. linking a singly linked list through the arena) should keep the
// index rather than the pointer.
func (a *Arena[T]) At(i int) *T {
	return &a.buf[i]
}

// Len returns the number of elements allocated since the last Reset.
func (a *Arena[T]) Len() int {
	return len(a.buf)
}

// Cap returns the backing storage's current capacity.
func (a *Arena[T]) Cap() int {
	return cap(a.buf)
}

// Reset releases all allocations at once without shrinking the backing
// array, so a replay of the same allocation sizes returns the same
// addresses (spec.md §8 property 1).
func (a *Arena[T]) Reset() {
	clear(a.buf)
	a.buf = a.buf[:0]
}
