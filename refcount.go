package rhi

import (
	"fmt"
	"sync/atomic"
)

// Releasable is implemented by every resource this package returns: a
// wrapper destroys its underlying GPU object only once its reference
// count drops to zero, mirroring the COM AddRef/Release contract rather
// than a plain one-shot Close.
type Releasable interface {
	AddRef() int32
	Release()
	RefCount() int32
}

// QueryInterfacer lets a wrapper expose a differently-typed view onto the
// same underlying resource, analogous to COM's QueryInterface. name
// identifies the requested view; ok is false if this resource does not
// support it. Each wrapper documents the names it accepts alongside its
// QueryInterface method.
type QueryInterfacer interface {
	QueryInterface(name string) (any, bool)
}

// RefCounted implements the AddRef/Release bookkeeping every wrapper type
// in this package embeds, so reference-count bookkeeping lives in one
// place instead of being hand-rolled per type.
//
// A zero-value RefCounted is inert; construct one with initRefCounted to
// set the starting count to 1 (the reference returned by whatever Create
// call produced the wrapper) and record the function to invoke exactly
// once, when the count reaches zero.
type RefCounted struct {
	refs    atomic.Int32
	destroy func()
}

// initRefCounted builds a RefCounted with a starting count of 1 and
// destroy as its zero-count callback. destroy may be nil for resources
// with nothing to tear down beyond bookkeeping.
func initRefCounted(destroy func()) RefCounted {
	rc := RefCounted{destroy: destroy}
	rc.refs.Store(1)
	return rc
}

// AddRef increments the reference count and returns the new count. Call
// this when handing the same resource to a second owner that will also
// call Release.
func (r *RefCounted) AddRef() int32 {
	return r.refs.Add(1)
}

// Release decrements the reference count, invoking the destroy callback
// exactly once when it reaches zero. Calling Release more times than
// AddRef (plus the implicit first reference) indicates a caller bug, and
// panics rather than silently tolerating a double-free.
func (r *RefCounted) Release() {
	n := r.refs.Add(-1)
	if n < 0 {
		panic(fmt.Sprintf("rhi: Release called on a resource with refcount already %d", n+1))
	}
	if n == 0 && r.destroy != nil {
		r.destroy()
	}
}

// RefCount returns the current reference count.
func (r *RefCounted) RefCount() int32 {
	return r.refs.Load()
}

// IsReleased reports whether the reference count has reached zero, i.e.
// whether the resource's underlying GPU object has been (or is about to
// be) destroyed.
func (r *RefCounted) IsReleased() bool {
	return r.refs.Load() <= 0
}
