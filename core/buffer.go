package core

import (
	"errors"

	"github.com/gogpu/rhi/core/track"
	"github.com/gogpu/rhi/hal"
	"github.com/gogpu/rhi/types"
)

// TrackerIndex is the dense per-resource-type index used by usage
// tracking. Re-exported from core/track for callers that only need the
// core package.
type TrackerIndex = track.TrackerIndex

// InvalidTrackerIndex marks a resource that has not been assigned a
// tracker index.
const InvalidTrackerIndex = track.InvalidTrackerIndex

// TrackingData is the per-resource state a usage tracker keys on.
type TrackingData struct {
	index TrackerIndex
}

// NewTrackingData creates tracking data with no assigned index yet.
func NewTrackingData() *TrackingData {
	return &TrackingData{index: InvalidTrackerIndex}
}

// Index returns the resource's tracker index.
func (t *TrackingData) Index() TrackerIndex {
	return t.index
}

// BufferMapState is the lifecycle state of a buffer's CPU mapping.
type BufferMapState uint8

const (
	BufferMapStateIdle BufferMapState = iota
	BufferMapStatePending
	BufferMapStateMapped
)

// bufferInitChunkSize is the granularity at which lazy buffer
// zero-initialization is tracked.
const bufferInitChunkSize = 4096

// BufferInitTracker records which byte ranges of a buffer have been
// written, at chunk granularity, so a device can lazily clear the rest
// before it becomes visible to a shader. A nil tracker behaves as if
// everything is initialized (matches an HAL-less placeholder buffer).
type BufferInitTracker struct {
	chunks []bool
}

// NewBufferInitTracker allocates a tracker covering size bytes.
func NewBufferInitTracker(size uint64) *BufferInitTracker {
	n := (size + bufferInitChunkSize - 1) / bufferInitChunkSize
	return &BufferInitTracker{chunks: make([]bool, n)}
}

// IsInitialized reports whether every chunk touching [offset, offset+size)
// has been marked initialized.
func (t *BufferInitTracker) IsInitialized(offset, size uint64) bool {
	if t == nil || size == 0 {
		return true
	}
	start := offset / bufferInitChunkSize
	end := (offset + size - 1) / bufferInitChunkSize
	for i := start; i <= end && i < uint64(len(t.chunks)); i++ {
		if !t.chunks[i] {
			return false
		}
	}
	return true
}

// MarkInitialized marks every chunk touching [offset, offset+size) as
// initialized.
func (t *BufferInitTracker) MarkInitialized(offset, size uint64) {
	if t == nil || size == 0 {
		return
	}
	start := offset / bufferInitChunkSize
	end := (offset + size - 1) / bufferInitChunkSize
	for i := start; i <= end && i < uint64(len(t.chunks)); i++ {
		t.chunks[i] = true
	}
}

// errNilBufferDescriptor is returned by Device.CreateBuffer for a nil
// descriptor; it predates the typed CreateBufferError variants and isn't
// one of them since no request data exists to report.
var errNilBufferDescriptor = errors.New("core: buffer descriptor must not be nil")

// validBufferUsageMask covers every BufferUsage bit defined in types.
const validBufferUsageMask = types.BufferUsageMapRead |
	types.BufferUsageMapWrite |
	types.BufferUsageCopySrc |
	types.BufferUsageCopyDst |
	types.BufferUsageIndex |
	types.BufferUsageVertex |
	types.BufferUsageUniform |
	types.BufferUsageStorage |
	types.BufferUsageIndirect |
	types.BufferUsageQueryResolve |
	types.BufferUsageAccelerationStructure |
	types.BufferUsageShaderTable

// alignUp4 rounds size up to the next multiple of 4, the minimum buffer
// alignment every backend requires.
func alignUp4(size uint64) uint64 {
	return (size + 3) &^ 3
}

// Buffer is a breakable reference to a HAL buffer: reads go through
// Raw(guard), destruction happens at most once via Destroy.
type Buffer struct {
	hal    hal.Buffer
	raw    *Snatchable[hal.Buffer]
	device *Device

	usage types.BufferUsage
	size  uint64
	label string

	mapState     BufferMapState
	initTracker  *BufferInitTracker
	trackingData *TrackingData
}

// NewBuffer wraps a HAL buffer behind the breakable-reference pattern.
func NewBuffer(halBuffer hal.Buffer, device *Device, usage types.BufferUsage, size uint64, label string) *Buffer {
	return &Buffer{
		hal:          halBuffer,
		raw:          NewSnatchable(halBuffer),
		device:       device,
		usage:        usage,
		size:         size,
		label:        label,
		mapState:     BufferMapStateIdle,
		initTracker:  NewBufferInitTracker(size),
		trackingData: NewTrackingData(),
	}
}

// HasHAL reports whether this buffer wraps a real HAL buffer.
func (b *Buffer) HasHAL() bool { return b.hal != nil }

// Device returns the owning device, or nil for a placeholder buffer.
func (b *Buffer) Device() *Device { return b.device }

// Usage returns the buffer's usage flags.
func (b *Buffer) Usage() types.BufferUsage { return b.usage }

// Size returns the buffer's requested size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Label returns the buffer's debug label.
func (b *Buffer) Label() string { return b.label }

// Raw returns the underlying HAL buffer, or nil once destroyed.
func (b *Buffer) Raw(guard *SnatchGuard) hal.Buffer {
	if b.raw == nil {
		return nil
	}
	v := b.raw.Get(guard)
	if v == nil {
		return nil
	}
	return *v
}

// IsDestroyed reports whether Destroy has taken the HAL buffer.
func (b *Buffer) IsDestroyed() bool {
	if b.raw == nil {
		return true
	}
	return b.raw.IsSnatched()
}

// Destroy retires the HAL buffer. Safe to call multiple times and on a
// placeholder buffer with no HAL backing.
func (b *Buffer) Destroy() {
	if b.raw == nil {
		return
	}
	var guard *ExclusiveSnatchGuard
	if b.device != nil && b.device.snatchLock != nil {
		guard = b.device.snatchLock.Write()
		defer guard.Release()
	}
	v := b.raw.Snatch(guard)
	if v != nil {
		(*v).Destroy()
	}
}

// MapState returns the buffer's current CPU-mapping state.
func (b *Buffer) MapState() BufferMapState { return b.mapState }

// SetMapState updates the buffer's CPU-mapping state.
func (b *Buffer) SetMapState(s BufferMapState) { b.mapState = s }

// IsInitialized reports whether [offset, offset+size) has been written.
func (b *Buffer) IsInitialized(offset, size uint64) bool {
	return b.initTracker.IsInitialized(offset, size)
}

// MarkInitialized records [offset, offset+size) as written.
func (b *Buffer) MarkInitialized(offset, size uint64) {
	b.initTracker.MarkInitialized(offset, size)
}

// TrackingData returns the buffer's usage-tracker state, allocating it on
// first use.
func (b *Buffer) TrackingData() *TrackingData {
	if b.trackingData == nil {
		b.trackingData = NewTrackingData()
	}
	return b.trackingData
}

// CreateBuffer validates desc against the device's limits and the
// buffer-usage invariants, then creates a HAL buffer and wraps it.
func (d *Device) CreateBuffer(desc *types.BufferDescriptor) (*Buffer, error) {
	if err := d.checkValid(); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errNilBufferDescriptor
	}
	if desc.Size == 0 {
		return nil, &CreateBufferError{Kind: CreateBufferErrorZeroSize, Label: desc.Label}
	}
	if d.Limits.MaxBufferSize != 0 && desc.Size > d.Limits.MaxBufferSize {
		return nil, &CreateBufferError{
			Kind:          CreateBufferErrorMaxBufferSize,
			Label:         desc.Label,
			RequestedSize: desc.Size,
			MaxSize:       d.Limits.MaxBufferSize,
		}
	}
	if desc.Usage == 0 {
		return nil, &CreateBufferError{Kind: CreateBufferErrorEmptyUsage, Label: desc.Label}
	}
	if desc.Usage&^validBufferUsageMask != 0 {
		return nil, &CreateBufferError{Kind: CreateBufferErrorInvalidUsage, Label: desc.Label}
	}
	if desc.Usage&types.BufferUsageMapRead != 0 && desc.Usage&types.BufferUsageMapWrite != 0 {
		return nil, &CreateBufferError{Kind: CreateBufferErrorMapReadWriteExclusive, Label: desc.Label}
	}

	halBuffer, err := d.hal.CreateBuffer(&hal.BufferDescriptor{
		Label:            desc.Label,
		Size:             alignUp4(desc.Size),
		Usage:            desc.Usage,
		MappedAtCreation: desc.MappedAtCreation,
	})
	if err != nil {
		return nil, &CreateBufferError{Kind: CreateBufferErrorHAL, Label: desc.Label, HALError: err}
	}

	buffer := NewBuffer(halBuffer, d, desc.Usage, desc.Size, desc.Label)
	if desc.MappedAtCreation {
		buffer.SetMapState(BufferMapStateMapped)
		buffer.MarkInitialized(0, desc.Size)
	}
	return buffer, nil
}
