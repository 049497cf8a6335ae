package rhi

import (
	"fmt"

	"github.com/gogpu/rhi/types"
	"github.com/gogpu/rhi/core"
)

// DeviceDescriptor configures device creation.
type DeviceDescriptor struct {
	Label            string
	RequiredFeatures Features
	RequiredLimits   Limits
}

// Adapter represents a physical GPU.
type Adapter struct {
	RefCounted
	id       core.AdapterID
	core     *core.Adapter
	info     AdapterInfo
	features Features
	limits   Limits
	instance *Instance
}

// newAdapter wraps a core.Adapter behind RefCounted bookkeeping. An
// adapter has no backend resource of its own to tear down; releasing it
// only retires the wrapper.
func newAdapter(id core.AdapterID, coreAdapter *core.Adapter, info AdapterInfo, features Features, limits Limits, instance *Instance) *Adapter {
	a := &Adapter{
		id:       id,
		core:     coreAdapter,
		info:     info,
		features: features,
		limits:   limits,
		instance: instance,
	}
	a.RefCounted = initRefCounted(nil)
	return a
}

// QueryInterface exposes the adapter's underlying *core.Adapter under the
// name "core.Adapter".
func (a *Adapter) QueryInterface(name string) (any, bool) {
	if name == "core.Adapter" {
		return a.core, true
	}
	return nil, false
}

// Info returns adapter metadata.
func (a *Adapter) Info() AdapterInfo { return a.info }

// Features returns supported features.
func (a *Adapter) Features() Features { return a.features }

// Limits returns the adapter's resource limits.
func (a *Adapter) Limits() Limits { return a.limits }

// RequestDevice creates a logical device from this adapter.
// If desc is nil, default features and limits are used.
func (a *Adapter) RequestDevice(desc *DeviceDescriptor) (*Device, error) {
	if a.IsReleased() {
		return nil, ErrReleased
	}

	if a.core.HasHAL() {
		return a.requestDeviceHAL(desc)
	}

	return a.requestDeviceCore(desc)
}

func (a *Adapter) requestDeviceHAL(desc *DeviceDescriptor) (*Device, error) {
	var features types.Features
	var limits types.Limits
	var label string

	if desc != nil {
		features = desc.RequiredFeatures
		limits = desc.RequiredLimits
		label = desc.Label
	} else {
		limits = types.DefaultLimits()
	}

	openDevice, err := a.core.HALAdapter().Open(features, limits)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to open device: %w", err)
	}

	coreDevice := core.NewDevice(openDevice.Device, a.core, features, limits, label)

	fence, err := openDevice.Device.CreateFence()
	if err != nil {
		coreDevice.Destroy()
		return nil, fmt.Errorf("rhi: failed to create fence: %w", err)
	}

	queue := &Queue{
		hal:       openDevice.Queue,
		halDevice: openDevice.Device,
		fence:     fence,
	}

	coreDevice.SetAssociatedQueue(&core.Queue{Label: label + " Queue"})

	device := newDevice(coreDevice)
	device.queue = queue
	queue.device = device

	return device, nil
}

func (a *Adapter) requestDeviceCore(desc *DeviceDescriptor) (*Device, error) {
	var gpuDesc *types.DeviceDescriptor
	if desc != nil {
		gpuDesc = &types.DeviceDescriptor{
			Label:          desc.Label,
			RequiredLimits: desc.RequiredLimits,
		}
	}

	_, err := core.RequestDevice(a.id, gpuDesc)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to create device: %w", err)
	}

	coreDevice := &core.Device{
		Label:    "",
		Features: 0,
		Limits:   types.DefaultLimits(),
	}
	if desc != nil {
		coreDevice.Label = desc.Label
	}

	return newDevice(coreDevice), nil
}
