package rhi

import (
	"github.com/gogpu/rhi/core"
	"github.com/gogpu/rhi/hal"
)

// Buffer represents a GPU buffer.
type Buffer struct {
	RefCounted
	core   *core.Buffer
	device *Device
}

// newBuffer wraps a core.Buffer behind RefCounted bookkeeping.
func newBuffer(coreBuffer *core.Buffer, device *Device) *Buffer {
	b := &Buffer{core: coreBuffer, device: device}
	b.RefCounted = initRefCounted(func() { b.core.Destroy() })
	return b
}

// QueryInterface exposes the buffer's underlying *core.Buffer under the
// name "core.Buffer".
func (b *Buffer) QueryInterface(name string) (any, bool) {
	if name == "core.Buffer" {
		return b.core, true
	}
	return nil, false
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.core.Size() }

// Usage returns the buffer's usage flags.
func (b *Buffer) Usage() BufferUsage { return b.core.Usage() }

// Label returns the buffer's debug label.
func (b *Buffer) Label() string { return b.core.Label() }

// coreBuffer returns the underlying core.Buffer.
func (b *Buffer) coreBuffer() *core.Buffer { return b.core }

// halBuffer returns the underlying HAL buffer.
func (b *Buffer) halBuffer() hal.Buffer {
	if b.core == nil || b.device == nil {
		return nil
	}
	if !b.core.HasHAL() {
		return nil
	}
	guard := b.device.core.SnatchLock().Read()
	defer guard.Release()
	return b.core.Raw(guard)
}
