package rhi

import (
	"fmt"

	"github.com/gogpu/rhi/types"
	"github.com/gogpu/rhi/core"
)

// InstanceDescriptor configures instance creation.
type InstanceDescriptor struct {
	Backends Backends
}

// Instance is the entry point for GPU operations.
//
// Instance methods are safe for concurrent use, except Release() which
// must not be called concurrently with other methods.
type Instance struct {
	RefCounted
	core *core.Instance
}

// CreateInstance creates a new GPU instance.
// If desc is nil, all available backends are used.
func CreateInstance(desc *InstanceDescriptor) (*Instance, error) {
	var gpuDesc *types.InstanceDescriptor
	if desc != nil {
		d := types.DefaultInstanceDescriptor()
		d.Backends = desc.Backends
		gpuDesc = &d
	}

	coreInstance := core.NewInstance(gpuDesc)

	inst := &Instance{core: coreInstance}
	inst.RefCounted = initRefCounted(func() { inst.core.Destroy() })
	return inst, nil
}

// QueryInterface exposes the instance's underlying *core.Instance under
// the name "core.Instance".
func (i *Instance) QueryInterface(name string) (any, bool) {
	if name == "core.Instance" {
		return i.core, true
	}
	return nil, false
}

// RequestAdapter requests a GPU adapter matching the options.
// If opts is nil, the best available adapter is returned.
func (i *Instance) RequestAdapter(opts *RequestAdapterOptions) (*Adapter, error) {
	if i.IsReleased() {
		return nil, ErrReleased
	}

	adapterID, err := i.core.RequestAdapter(opts)
	if err != nil {
		return nil, err
	}

	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to get adapter info: %w", err)
	}
	features, err := core.GetAdapterFeatures(adapterID)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to get adapter features: %w", err)
	}
	limits, err := core.GetAdapterLimits(adapterID)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to get adapter limits: %w", err)
	}

	hub := core.GetGlobal().Hub()
	coreAdapter, err := hub.GetAdapter(adapterID)
	if err != nil {
		return nil, fmt.Errorf("rhi: failed to get adapter: %w", err)
	}

	return newAdapter(adapterID, &coreAdapter, info, features, limits, i), nil
}
