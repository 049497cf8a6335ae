package rhi

import "github.com/gogpu/rhi/hal"

// Sampler represents a texture sampler.
type Sampler struct {
	RefCounted
	hal    hal.Sampler
	device *Device
}

// newSampler wraps a HAL sampler behind RefCounted bookkeeping.
func newSampler(halSampler hal.Sampler, device *Device) *Sampler {
	s := &Sampler{hal: halSampler, device: device}
	s.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroySampler(s.hal)
		}
	})
	return s
}

// QueryInterface exposes the sampler's underlying hal.Sampler under the
// name "hal.Sampler".
func (s *Sampler) QueryInterface(name string) (any, bool) {
	if name == "hal.Sampler" {
		return s.hal, true
	}
	return nil, false
}
