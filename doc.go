// Package rhi provides a safe, ergonomic rendering hardware interface for
// Go applications, spanning the native graphics backends hal/ exposes.
//
// This package wraps the lower-level hal/ and core/ packages into a
// user-friendly API. Every resource it returns implements a COM-like
// AddRef/Release/QueryInterface contract (see RefCounted): a resource is
// destroyed when its reference count reaches zero, not merely when the
// caller that created it calls Release once, so a resource may be shared
// by taking an extra reference with AddRef.
//
// # Quick Start
//
// Import this package and a backend registration package:
//
//	import (
//	    "github.com/gogpu/rhi"
//	    _ "github.com/gogpu/rhi/hal/noop"
//	)
//
//	instance, err := rhi.CreateInstance(nil)
//	// ...
//
// # Resource Lifecycle
//
// All GPU resources must be explicitly released with Release(). Resources
// are reference-counted internally via RefCounted; the underlying GPU
// object is destroyed exactly once, when the count reaches zero. Methods
// called on a released Instance, Device or Surface return ErrReleased.
//
// # Backend Registration
//
// Backends are registered via blank imports:
//
//	_ "github.com/gogpu/rhi/hal/noop" // no-op backend, for testing
//
// hal/noop is the only backend package in this module.
//
// # Thread Safety
//
// Instance, Adapter, and Device are safe for concurrent use.
// Encoders (CommandEncoder, RenderPassEncoder, ComputePassEncoder) are NOT thread-safe.
package rhi
