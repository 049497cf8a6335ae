package core

import (
	"github.com/gogpu/rhi/core/track"
	"github.com/gogpu/rhi/hal"
	"github.com/gogpu/rhi/types"
)

// Resource placeholder types - will be properly defined later.
// These types represent the actual WebGPU resources managed by the hub.

// Adapter represents a physical GPU adapter.
type Adapter struct {
	// Info contains information about the adapter.
	Info types.AdapterInfo
	// Features contains the features supported by the adapter.
	Features types.Features
	// Limits contains the resource limits of the adapter.
	Limits types.Limits
	// Backend identifies which graphics backend this adapter uses.
	Backend types.Backend

	// halAdapter is the underlying HAL adapter, nil for a mock adapter.
	halAdapter hal.Adapter
	// halCapabilities is the HAL-reported capability set, nil for a mock adapter.
	halCapabilities *hal.Capabilities
}

// HasHAL reports whether this adapter wraps a real HAL adapter, as
// opposed to a mock adapter used when no backend is available.
func (a *Adapter) HasHAL() bool {
	return a.halAdapter != nil
}

// HALAdapter returns the underlying HAL adapter, or nil for a mock adapter.
func (a *Adapter) HALAdapter() hal.Adapter {
	return a.halAdapter
}

// HALCapabilities returns the HAL-reported capability set, or nil for a
// mock adapter.
func (a *Adapter) HALCapabilities() *hal.Capabilities {
	return a.halCapabilities
}

// Device represents a logical GPU device.
//
// Two construction paths populate it: the legacy ID-based Hub API
// (CreateDevice in device.go) builds plain values with only the fields
// below the blank line filled in; NewDevice builds a HAL-backed device
// usable directly without going through the Hub.
type Device struct {
	// Adapter is the adapter this device was created from.
	Adapter AdapterID
	// Label is a debug label for the device.
	Label string
	// Features contains the features enabled on this device.
	Features types.Features
	// Limits contains the resource limits of this device.
	Limits types.Limits
	// Queue is the device's default queue.
	Queue QueueID

	hal                    hal.Device
	raw                    *Snatchable[hal.Device]
	adapterRef             *Adapter
	snatchLock             *SnatchLock
	trackerIndexAllocators *track.TrackerIndexAllocators
	associatedQueue        *Queue
	shaderCache            *ShaderCache
	slang                  SlangSession
}

// Queue represents a command queue for a device.
type Queue struct {
	// Device is the device this queue belongs to.
	Device DeviceID
	// Label is a debug label for the queue.
	Label string
}

// Buffer is defined in buffer.go (breakable-ref HAL wrapper).

// AccelerationStructure represents a ray tracing acceleration structure.
type AccelerationStructure struct {
	Kind types.AccelerationStructureKind
	Size uint64
}

// Texture represents a GPU texture.
type Texture struct{}

// TextureView represents a view into a texture.
type TextureView struct{}

// Sampler represents a texture sampler.
type Sampler struct{}

// BindGroupLayout represents the layout of a bind group.
type BindGroupLayout struct{}

// PipelineLayout represents the layout of a pipeline.
type PipelineLayout struct{}

// BindGroup represents a collection of resources bound together.
type BindGroup struct{}

// ShaderModule represents a compiled shader module.
type ShaderModule struct{}

// RenderPipeline represents a render pipeline.
type RenderPipeline struct{}

// ComputePipeline represents a compute pipeline.
type ComputePipeline struct {
	// Virtual is the Pipeline/Program pairing this compute pipeline wraps
	// (spec §3, §4.3). Populated by DeviceCreateComputePipeline; nil for a
	// zero-value ComputePipeline such as a test fixture.
	Virtual *Pipeline
}

// CommandEncoder represents a command encoder.
type CommandEncoder struct{}

// CommandBuffer represents a recorded command buffer.
type CommandBuffer struct{}

// QuerySet represents a set of queries.
type QuerySet struct{}

// Surface represents a rendering surface.
type Surface struct{}
