package rhi

import "github.com/gogpu/rhi/hal"

// BindGroupLayout defines the structure of resource bindings for shaders.
type BindGroupLayout struct {
	RefCounted
	hal    hal.BindGroupLayout
	device *Device
}

// newBindGroupLayout wraps a HAL bind group layout behind RefCounted bookkeeping.
func newBindGroupLayout(halLayout hal.BindGroupLayout, device *Device) *BindGroupLayout {
	l := &BindGroupLayout{hal: halLayout, device: device}
	l.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyBindGroupLayout(l.hal)
		}
	})
	return l
}

// QueryInterface exposes the layout's underlying hal.BindGroupLayout under
// the name "hal.BindGroupLayout".
func (l *BindGroupLayout) QueryInterface(name string) (any, bool) {
	if name == "hal.BindGroupLayout" {
		return l.hal, true
	}
	return nil, false
}

// PipelineLayout defines the resource layout for a pipeline.
type PipelineLayout struct {
	RefCounted
	hal    hal.PipelineLayout
	device *Device
}

// newPipelineLayout wraps a HAL pipeline layout behind RefCounted bookkeeping.
func newPipelineLayout(halLayout hal.PipelineLayout, device *Device) *PipelineLayout {
	l := &PipelineLayout{hal: halLayout, device: device}
	l.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyPipelineLayout(l.hal)
		}
	})
	return l
}

// QueryInterface exposes the layout's underlying hal.PipelineLayout under
// the name "hal.PipelineLayout".
func (l *PipelineLayout) QueryInterface(name string) (any, bool) {
	if name == "hal.PipelineLayout" {
		return l.hal, true
	}
	return nil, false
}

// BindGroup represents bound GPU resources for shader access.
type BindGroup struct {
	RefCounted
	hal    hal.BindGroup
	device *Device
}

// newBindGroup wraps a HAL bind group behind RefCounted bookkeeping.
func newBindGroup(halGroup hal.BindGroup, device *Device) *BindGroup {
	g := &BindGroup{hal: halGroup, device: device}
	g.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyBindGroup(g.hal)
		}
	})
	return g
}

// QueryInterface exposes the group's underlying hal.BindGroup under the
// name "hal.BindGroup".
func (g *BindGroup) QueryInterface(name string) (any, bool) {
	if name == "hal.BindGroup" {
		return g.hal, true
	}
	return nil, false
}
