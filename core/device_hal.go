package core

import (
	"github.com/gogpu/rhi/core/track"
	"github.com/gogpu/rhi/hal"
	"github.com/gogpu/rhi/types"
)

// NewDevice wraps a HAL device behind the breakable-reference pattern:
// the HAL handle lives in a Snatchable so Destroy can retire it exactly
// once while concurrent readers hold a SnatchGuard from SnatchLock.
func NewDevice(halDevice hal.Device, adapter *Adapter, features types.Features, limits types.Limits, label string) *Device {
	return &Device{
		Label:                  label,
		Features:               features,
		Limits:                 limits,
		hal:                    halDevice,
		raw:                    NewSnatchable(halDevice),
		adapterRef:             adapter,
		snatchLock:             NewSnatchLock(),
		trackerIndexAllocators: track.NewTrackerIndexAllocators(),
	}
}

// HasHAL reports whether this device wraps a real HAL device, as opposed
// to a plain Hub-registered record from the legacy ID-based API.
func (d *Device) HasHAL() bool {
	return d.hal != nil
}

// SnatchLock returns the device's snatch lock, or nil for a device that
// was never constructed via NewDevice.
func (d *Device) SnatchLock() *SnatchLock {
	return d.snatchLock
}

// Raw returns the underlying HAL device, or nil if it has been destroyed.
func (d *Device) Raw(guard *SnatchGuard) hal.Device {
	if d.raw == nil {
		return nil
	}
	v := d.raw.Get(guard)
	if v == nil {
		return nil
	}
	return *v
}

// IsValid reports whether the device has not been destroyed. A device
// never constructed via NewDevice is always considered valid.
func (d *Device) IsValid() bool {
	if d.raw == nil {
		return true
	}
	return !d.raw.IsSnatched()
}

// checkValid returns ErrDeviceDestroyed if the device has been destroyed.
func (d *Device) checkValid() error {
	if !d.IsValid() {
		return ErrDeviceDestroyed
	}
	return nil
}

// Destroy retires the HAL device. Safe to call multiple times.
func (d *Device) Destroy() {
	if d.raw == nil || d.snatchLock == nil {
		return
	}
	guard := d.snatchLock.Write()
	defer guard.Release()
	v := d.raw.Snatch(guard)
	if v != nil {
		(*v).Destroy()
	}
}

// AssociatedQueue returns the queue created alongside this device, or nil
// if none has been set.
func (d *Device) AssociatedQueue() *Queue {
	return d.associatedQueue
}

// SetAssociatedQueue records the queue created alongside this device.
func (d *Device) SetAssociatedQueue(q *Queue) {
	d.associatedQueue = q
}

// TrackerIndexAllocators returns the device's per-resource-type tracker
// index allocators, creating them lazily for legacy (non-HAL) devices.
func (d *Device) TrackerIndexAllocators() *track.TrackerIndexAllocators {
	if d.trackerIndexAllocators == nil {
		d.trackerIndexAllocators = track.NewTrackerIndexAllocators()
	}
	return d.trackerIndexAllocators
}

// ShaderCache returns the device's pipeline specialization cache, creating
// it lazily with no persistent-cache backing.
func (d *Device) ShaderCache() *ShaderCache {
	if d.shaderCache == nil {
		d.shaderCache = NewShaderCache(nil)
	}
	return d.shaderCache
}

// SetPersistentCache replaces the device's shader cache with a new, empty
// one backed by persistent. Concrete pipelines already cached in memory are
// discarded along with the previous cache.
func (d *Device) SetPersistentCache(persistent PersistentCache) {
	d.shaderCache = NewShaderCache(persistent)
}
