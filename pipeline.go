package rhi

import "github.com/gogpu/rhi/hal"

// RenderPipeline represents a configured render pipeline.
type RenderPipeline struct {
	RefCounted
	hal    hal.RenderPipeline
	device *Device
}

// newRenderPipeline wraps a HAL render pipeline behind RefCounted bookkeeping.
func newRenderPipeline(halPipeline hal.RenderPipeline, device *Device) *RenderPipeline {
	p := &RenderPipeline{hal: halPipeline, device: device}
	p.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyRenderPipeline(p.hal)
		}
	})
	return p
}

// QueryInterface exposes the pipeline's underlying hal.RenderPipeline
// under the name "hal.RenderPipeline".
func (p *RenderPipeline) QueryInterface(name string) (any, bool) {
	if name == "hal.RenderPipeline" {
		return p.hal, true
	}
	return nil, false
}

// ComputePipeline represents a configured compute pipeline.
type ComputePipeline struct {
	RefCounted
	hal    hal.ComputePipeline
	device *Device
}

// newComputePipeline wraps a HAL compute pipeline behind RefCounted bookkeeping.
func newComputePipeline(halPipeline hal.ComputePipeline, device *Device) *ComputePipeline {
	p := &ComputePipeline{hal: halPipeline, device: device}
	p.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyComputePipeline(p.hal)
		}
	})
	return p
}

// QueryInterface exposes the pipeline's underlying hal.ComputePipeline
// under the name "hal.ComputePipeline".
func (p *ComputePipeline) QueryInterface(name string) (any, bool) {
	if name == "hal.ComputePipeline" {
		return p.hal, true
	}
	return nil, false
}
