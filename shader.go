package rhi

import "github.com/gogpu/rhi/hal"

// ShaderModule represents a compiled shader module.
type ShaderModule struct {
	RefCounted
	hal    hal.ShaderModule
	device *Device
}

// newShaderModule wraps a HAL shader module behind RefCounted bookkeeping.
func newShaderModule(halModule hal.ShaderModule, device *Device) *ShaderModule {
	m := &ShaderModule{hal: halModule, device: device}
	m.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyShaderModule(m.hal)
		}
	})
	return m
}

// QueryInterface exposes the module's underlying hal.ShaderModule under
// the name "hal.ShaderModule".
func (m *ShaderModule) QueryInterface(name string) (any, bool) {
	if name == "hal.ShaderModule" {
		return m.hal, true
	}
	return nil, false
}
