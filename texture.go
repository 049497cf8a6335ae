package rhi

import "github.com/gogpu/rhi/hal"

// Texture represents a GPU texture.
type Texture struct {
	RefCounted
	hal    hal.Texture
	device *Device
	format TextureFormat
}

// newTexture wraps a HAL texture behind RefCounted bookkeeping.
func newTexture(halTexture hal.Texture, device *Device, format TextureFormat) *Texture {
	t := &Texture{hal: halTexture, device: device, format: format}
	t.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyTexture(t.hal)
		}
	})
	return t
}

// QueryInterface exposes the texture's underlying hal.Texture under the
// name "hal.Texture".
func (t *Texture) QueryInterface(name string) (any, bool) {
	if name == "hal.Texture" {
		return t.hal, true
	}
	return nil, false
}

// Format returns the texture format.
func (t *Texture) Format() TextureFormat { return t.format }

// TextureView represents a view into a texture.
type TextureView struct {
	RefCounted
	hal     hal.TextureView
	device  *Device
	texture *Texture
}

// newTextureView wraps a HAL texture view behind RefCounted bookkeeping.
func newTextureView(halView hal.TextureView, device *Device, texture *Texture) *TextureView {
	v := &TextureView{hal: halView, device: device, texture: texture}
	v.RefCounted = initRefCounted(func() {
		if halDevice := device.halDevice(); halDevice != nil {
			halDevice.DestroyTextureView(v.hal)
		}
	})
	return v
}

// QueryInterface exposes the view's underlying hal.TextureView under the
// name "hal.TextureView".
func (v *TextureView) QueryInterface(name string) (any, bool) {
	if name == "hal.TextureView" {
		return v.hal, true
	}
	return nil, false
}
