package format

import (
	"math"

	"github.com/gogpu/rhi/types"
)

// FloatPack writes up to 4 clamped float components into a format's native
// byte representation. FloatUnpack is its inverse. Both operate on exactly
// Info.BlockBytes bytes for a single uncompressed texel.
type FloatPack func(in [4]float32, out []byte)
type FloatUnpack func(in []byte, out *[4]float32)

// IntPack/IntUnpack are the integer-format counterparts, used for Uint/Sint
// formats where values are truncated rather than quantized (spec.md §8
// property 8 requires bit-exact round trip for integer formats).
type IntPack func(in [4]uint32, out []byte)
type IntUnpack func(in []byte, out *[4]uint32)

type funcs struct {
	packFloat   FloatPack
	unpackFloat FloatUnpack
	packInt     IntPack
	unpackInt   IntUnpack
}

var convTable = map[types.TextureFormat]funcs{
	types.TextureFormatR8Unorm:  {packFloat: packUnorm8(1), unpackFloat: unpackUnorm8(1)},
	types.TextureFormatR8Snorm:  {packFloat: packSnorm8(1), unpackFloat: unpackSnorm8(1)},
	types.TextureFormatR8Uint:   {packInt: packUint8(1), unpackInt: unpackUint8(1)},
	types.TextureFormatR8Sint:   {packInt: packSint8(1), unpackInt: unpackSint8(1)},

	types.TextureFormatRG8Unorm: {packFloat: packUnorm8(2), unpackFloat: unpackUnorm8(2)},
	types.TextureFormatRG8Snorm: {packFloat: packSnorm8(2), unpackFloat: unpackSnorm8(2)},
	types.TextureFormatRG8Uint:  {packInt: packUint8(2), unpackInt: unpackUint8(2)},
	types.TextureFormatRG8Sint:  {packInt: packSint8(2), unpackInt: unpackSint8(2)},

	types.TextureFormatRGBA8Unorm:     {packFloat: packUnorm8(4), unpackFloat: unpackUnorm8(4)},
	types.TextureFormatRGBA8UnormSrgb: {packFloat: packUnorm8(4), unpackFloat: unpackUnorm8(4)},
	types.TextureFormatRGBA8Snorm:     {packFloat: packSnorm8(4), unpackFloat: unpackSnorm8(4)},
	types.TextureFormatRGBA8Uint:      {packInt: packUint8(4), unpackInt: unpackUint8(4)},
	types.TextureFormatRGBA8Sint:      {packInt: packSint8(4), unpackInt: unpackSint8(4)},
	types.TextureFormatBGRA8Unorm:     {packFloat: packUnormBGRA8, unpackFloat: unpackUnormBGRA8},
	types.TextureFormatBGRA8UnormSrgb: {packFloat: packUnormBGRA8, unpackFloat: unpackUnormBGRA8},

	types.TextureFormatR16Uint:  {packInt: packUint16(1), unpackInt: unpackUint16(1)},
	types.TextureFormatR16Sint:  {packInt: packSint16(1), unpackInt: unpackSint16(1)},
	types.TextureFormatR16Float: {packFloat: packFloat16(1), unpackFloat: unpackFloat16(1)},
	types.TextureFormatRG16Uint:  {packInt: packUint16(2), unpackInt: unpackUint16(2)},
	types.TextureFormatRG16Sint:  {packInt: packSint16(2), unpackInt: unpackSint16(2)},
	types.TextureFormatRG16Float: {packFloat: packFloat16(2), unpackFloat: unpackFloat16(2)},
	types.TextureFormatRGBA16Uint:  {packInt: packUint16(4), unpackInt: unpackUint16(4)},
	types.TextureFormatRGBA16Sint:  {packInt: packSint16(4), unpackInt: unpackSint16(4)},
	types.TextureFormatRGBA16Float: {packFloat: packFloat16(4), unpackFloat: unpackFloat16(4)},

	types.TextureFormatR32Uint:   {packInt: packUint32(1), unpackInt: unpackUint32(1)},
	types.TextureFormatR32Sint:   {packInt: packSint32(1), unpackInt: unpackSint32(1)},
	types.TextureFormatR32Float:  {packFloat: packFloat32(1), unpackFloat: unpackFloat32(1)},
	types.TextureFormatRG32Uint:  {packInt: packUint32(2), unpackInt: unpackUint32(2)},
	types.TextureFormatRG32Sint:  {packInt: packSint32(2), unpackInt: unpackSint32(2)},
	types.TextureFormatRG32Float: {packFloat: packFloat32(2), unpackFloat: unpackFloat32(2)},
	types.TextureFormatRGBA32Uint:  {packInt: packUint32(4), unpackInt: unpackUint32(4)},
	types.TextureFormatRGBA32Sint:  {packInt: packSint32(4), unpackInt: unpackSint32(4)},
	types.TextureFormatRGBA32Float: {packFloat: packFloat32(4), unpackFloat: unpackFloat32(4)},

	types.TextureFormatRGB10A2Unorm:  {packFloat: packUnorm1010102, unpackFloat: unpackUnorm1010102},
	types.TextureFormatRGB10A2Uint:   {packInt: packUint1010102, unpackInt: unpackUint1010102},
	types.TextureFormatRG11B10Ufloat: {packFloat: packFloat111110, unpackFloat: unpackFloat111110},
	types.TextureFormatRGB9E5Ufloat:  {packFloat: packFloat9995, unpackFloat: unpackFloat9995},
}

// PackFloat packs in[:Channels] into dst's native byte representation.
// Returns false for formats with no registered float packer (compressed,
// depth/stencil, and pure-integer formats).
func PackFloat(f types.TextureFormat, in [4]float32, dst []byte) bool {
	c, ok := convTable[f]
	if !ok || c.packFloat == nil {
		return false
	}
	c.packFloat(in, dst)
	return true
}

// UnpackFloat is PackFloat's inverse.
func UnpackFloat(f types.TextureFormat, src []byte) ([4]float32, bool) {
	c, ok := convTable[f]
	if !ok || c.unpackFloat == nil {
		return [4]float32{}, false
	}
	var out [4]float32
	c.unpackFloat(src, &out)
	return out, true
}

// PackInt packs in[:Channels] into dst's native byte representation.
func PackInt(f types.TextureFormat, in [4]uint32, dst []byte) bool {
	c, ok := convTable[f]
	if !ok || c.packInt == nil {
		return false
	}
	c.packInt(in, dst)
	return true
}

// UnpackInt is PackInt's inverse.
func UnpackInt(f types.TextureFormat, src []byte) ([4]uint32, bool) {
	c, ok := convTable[f]
	if !ok || c.unpackInt == nil {
		return [4]uint32{}, false
	}
	var out [4]uint32
	c.unpackInt(src, &out)
	return out, true
}

func clampu(v uint32, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func packUint8(n int) IntPack {
	return func(in [4]uint32, out []byte) {
		for i := 0; i < n; i++ {
			out[i] = byte(clampu(in[i], 0, 255))
		}
	}
}
func unpackUint8(n int) IntUnpack {
	return func(in []byte, out *[4]uint32) {
		for i := 0; i < n; i++ {
			out[i] = uint32(in[i])
		}
	}
}
func packSint8(n int) IntPack {
	return func(in [4]uint32, out []byte) {
		for i := 0; i < n; i++ {
			out[i] = byte(in[i] & 0xff)
		}
	}
}
func unpackSint8(n int) IntUnpack {
	return func(in []byte, out *[4]uint32) {
		for i := 0; i < n; i++ {
			out[i] = uint32(int32(int8(in[i])))
		}
	}
}

func packUint16(n int) IntPack {
	return func(in [4]uint32, out []byte) {
		for i := 0; i < n; i++ {
			v := uint16(clampu(in[i], 0, 65535))
			out[i*2] = byte(v)
			out[i*2+1] = byte(v >> 8)
		}
	}
}
func unpackUint16(n int) IntUnpack {
	return func(in []byte, out *[4]uint32) {
		for i := 0; i < n; i++ {
			out[i] = uint32(in[i*2]) | uint32(in[i*2+1])<<8
		}
	}
}
func packSint16(n int) IntPack {
	return func(in [4]uint32, out []byte) {
		for i := 0; i < n; i++ {
			v := uint16(in[i] & 0xffff)
			out[i*2] = byte(v)
			out[i*2+1] = byte(v >> 8)
		}
	}
}
func unpackSint16(n int) IntUnpack {
	return func(in []byte, out *[4]uint32) {
		for i := 0; i < n; i++ {
			v := uint16(in[i*2]) | uint16(in[i*2+1])<<8
			out[i] = uint32(int32(int16(v)))
		}
	}
}

func packUint32(n int) IntPack {
	return func(in [4]uint32, out []byte) {
		for i := 0; i < n; i++ {
			v := in[i]
			out[i*4] = byte(v)
			out[i*4+1] = byte(v >> 8)
			out[i*4+2] = byte(v >> 16)
			out[i*4+3] = byte(v >> 24)
		}
	}
}
func unpackUint32(n int) IntUnpack {
	return func(in []byte, out *[4]uint32) {
		for i := 0; i < n; i++ {
			out[i] = uint32(in[i*4]) | uint32(in[i*4+1])<<8 | uint32(in[i*4+2])<<16 | uint32(in[i*4+3])<<24
		}
	}
}
func packSint32(n int) IntPack { return packUint32(n) }
func unpackSint32(n int) IntUnpack {
	u := unpackUint32(n)
	return func(in []byte, out *[4]uint32) {
		u(in, out)
		for i := 0; i < n; i++ {
			out[i] = uint32(int32(out[i]))
		}
	}
}

func packUnorm8(n int) FloatPack {
	return func(in [4]float32, out []byte) {
		for i := 0; i < n; i++ {
			v := clampf(in[i], 0, 1)
			out[i] = byte(math.Floor(float64(v)*255 + 0.5))
		}
	}
}
func unpackUnorm8(n int) FloatUnpack {
	return func(in []byte, out *[4]float32) {
		for i := 0; i < n; i++ {
			out[i] = float32(in[i]) / 255
		}
	}
}
func packSnorm8(n int) FloatPack {
	return func(in [4]float32, out []byte) {
		for i := 0; i < n; i++ {
			v := clampf(in[i], -1, 1)
			out[i] = byte(int8(math.Floor(float64(v) * 127)))
		}
	}
}
func unpackSnorm8(n int) FloatUnpack {
	return func(in []byte, out *[4]float32) {
		for i := 0; i < n; i++ {
			v := float32(int8(in[i])) / 127
			if v < -1 {
				v = -1
			}
			out[i] = v
		}
	}
}

func packUnormBGRA8(in [4]float32, out []byte) {
	p := packUnorm8(1)
	var b [1]byte
	p([4]float32{in[2]}, b[:])
	out[0] = b[0]
	p([4]float32{in[1]}, b[:])
	out[1] = b[0]
	p([4]float32{in[0]}, b[:])
	out[2] = b[0]
	p([4]float32{in[3]}, b[:])
	out[3] = b[0]
}
func unpackUnormBGRA8(in []byte, out *[4]float32) {
	out[0] = float32(in[2]) / 255
	out[1] = float32(in[1]) / 255
	out[2] = float32(in[0]) / 255
	out[3] = float32(in[3]) / 255
}

func packFloat16(n int) FloatPack {
	return func(in [4]float32, out []byte) {
		for i := 0; i < n; i++ {
			h := floatToHalf(in[i])
			out[i*2] = byte(h)
			out[i*2+1] = byte(h >> 8)
		}
	}
}
func unpackFloat16(n int) FloatUnpack {
	return func(in []byte, out *[4]float32) {
		for i := 0; i < n; i++ {
			h := uint16(in[i*2]) | uint16(in[i*2+1])<<8
			out[i] = halfToFloat(h)
		}
	}
}
func packFloat32(n int) FloatPack {
	return func(in [4]float32, out []byte) {
		for i := 0; i < n; i++ {
			bits := math.Float32bits(in[i])
			out[i*4] = byte(bits)
			out[i*4+1] = byte(bits >> 8)
			out[i*4+2] = byte(bits >> 16)
			out[i*4+3] = byte(bits >> 24)
		}
	}
}
func unpackFloat32(n int) FloatUnpack {
	return func(in []byte, out *[4]float32) {
		for i := 0; i < n; i++ {
			bits := uint32(in[i*4]) | uint32(in[i*4+1])<<8 | uint32(in[i*4+2])<<16 | uint32(in[i*4+3])<<24
			out[i] = math.Float32frombits(bits)
		}
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floatToHalf/halfToFloat implement IEEE-754 binary16 conversion.
func floatToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1f:
		return sign | 0x7c00
	default:
		return sign | uint16(exp)<<10 | uint16(mant>>13)
	}
}

func halfToFloat(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal half -> normalize into a normal float32
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3ff
		return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
	}
}

// packUnorm1010102/unpackUnorm1010102 handle RGB10A2Unorm (10/10/10/2 bits).
func packUnorm1010102(in [4]float32, out []byte) {
	r := uint32(math.Floor(float64(clampf(in[0], 0, 1))*1023 + 0.5))
	g := uint32(math.Floor(float64(clampf(in[1], 0, 1))*1023 + 0.5))
	b := uint32(math.Floor(float64(clampf(in[2], 0, 1))*1023 + 0.5))
	a := uint32(math.Floor(float64(clampf(in[3], 0, 1))*3 + 0.5))
	packed := r | g<<10 | b<<20 | a<<30
	out[0] = byte(packed)
	out[1] = byte(packed >> 8)
	out[2] = byte(packed >> 16)
	out[3] = byte(packed >> 24)
}
func unpackUnorm1010102(in []byte, out *[4]float32) {
	packed := uint32(in[0]) | uint32(in[1])<<8 | uint32(in[2])<<16 | uint32(in[3])<<24
	out[0] = float32(packed&0x3ff) / 1023
	out[1] = float32((packed>>10)&0x3ff) / 1023
	out[2] = float32((packed>>20)&0x3ff) / 1023
	out[3] = float32((packed>>30)&0x3) / 3
}
func packUint1010102(in [4]uint32, out []byte) {
	packed := clampu(in[0], 0, 1023) | clampu(in[1], 0, 1023)<<10 | clampu(in[2], 0, 1023)<<20 | clampu(in[3], 0, 3)<<30
	out[0] = byte(packed)
	out[1] = byte(packed >> 8)
	out[2] = byte(packed >> 16)
	out[3] = byte(packed >> 24)
}
func unpackUint1010102(in []byte, out *[4]uint32) {
	packed := uint32(in[0]) | uint32(in[1])<<8 | uint32(in[2])<<16 | uint32(in[3])<<24
	out[0] = packed & 0x3ff
	out[1] = (packed >> 10) & 0x3ff
	out[2] = (packed >> 20) & 0x3ff
	out[3] = (packed >> 30) & 0x3
}

// packFloat111110/unpackFloat111110 handle RG11B10Ufloat: two 11-bit and one
// 10-bit unsigned mini-floats (5-bit exponent, no sign), packed LSB-first.
func packFloat111110(in [4]float32, out []byte) {
	r := floatToUfloat(in[0], 5, 6)
	g := floatToUfloat(in[1], 5, 6)
	b := floatToUfloat(in[2], 5, 5)
	packed := r | g<<11 | b<<22
	out[0] = byte(packed)
	out[1] = byte(packed >> 8)
	out[2] = byte(packed >> 16)
	out[3] = byte(packed >> 24)
}
func unpackFloat111110(in []byte, out *[4]float32) {
	packed := uint32(in[0]) | uint32(in[1])<<8 | uint32(in[2])<<16 | uint32(in[3])<<24
	out[0] = ufloatToFloat(packed&0x7ff, 5, 6)
	out[1] = ufloatToFloat((packed>>11)&0x7ff, 5, 6)
	out[2] = ufloatToFloat((packed>>22)&0x3ff, 5, 5)
	out[3] = 1
}

// packFloat9995/unpackFloat9995 handle RGB9E5Ufloat: a shared 5-bit exponent
// plus three 9-bit mantissas.
func packFloat9995(in [4]float32, out []byte) {
	const expBias = 15
	const mantBits = 9
	maxV := float64(0)
	for i := 0; i < 3; i++ {
		v := float64(in[i])
		if v < 0 {
			v = 0
		}
		if v > maxV {
			maxV = v
		}
	}
	exp := 0
	if maxV > 0 {
		exp = int(math.Floor(math.Log2(maxV))) + expBias + 1
		if exp < 0 {
			exp = 0
		}
		if exp > 31 {
			exp = 31
		}
	}
	scale := math.Ldexp(1, -(exp - expBias - mantBits))
	enc := func(v float32) uint32 {
		fv := float64(v)
		if fv < 0 {
			fv = 0
		}
		m := uint32(math.Floor(fv*scale + 0.5))
		if m > 511 {
			m = 511
		}
		return m
	}
	r, g, b := enc(in[0]), enc(in[1]), enc(in[2])
	packed := r | g<<9 | b<<18 | uint32(exp)<<27
	out[0] = byte(packed)
	out[1] = byte(packed >> 8)
	out[2] = byte(packed >> 16)
	out[3] = byte(packed >> 24)
}
func unpackFloat9995(in []byte, out *[4]float32) {
	const expBias = 15
	const mantBits = 9
	packed := uint32(in[0]) | uint32(in[1])<<8 | uint32(in[2])<<16 | uint32(in[3])<<24
	exp := int((packed >> 27) & 0x1f)
	scale := math.Ldexp(1, exp-expBias-mantBits)
	out[0] = float32(float64(packed&0x1ff) * scale)
	out[1] = float32(float64((packed>>9)&0x1ff) * scale)
	out[2] = float32(float64((packed>>18)&0x1ff) * scale)
	out[3] = 1
}

// floatToUfloat/ufloatToFloat encode a non-negative value into an unsigned
// mini-float with the given exponent and mantissa bit widths (used by
// RG11B10Ufloat's 6-bit/5-bit mantissa lanes).
func floatToUfloat(v float32, expBits, mantBits uint) uint32 {
	if v <= 0 {
		return 0
	}
	bias := uint32(1)<<(expBits-1) - 1
	maxExp := int32(1)<<expBits - 1
	e := int32(math.Floor(math.Log2(float64(v)))) + int32(bias)
	if e < 0 {
		e = 0
	}
	if e > maxExp-1 {
		e = maxExp - 1
	}
	scale := math.Ldexp(1, int(mantBits)-int(e-int32(bias)))
	m := uint32(math.Floor(float64(v)*scale + 0.5))
	maxMant := uint32(1)<<mantBits - 1
	if m > maxMant {
		m = maxMant
	}
	return uint32(e)<<mantBits | m
}

func ufloatToFloat(bits uint32, expBits, mantBits uint) float32 {
	bias := uint32(1)<<(expBits-1) - 1
	e := bits >> mantBits
	m := bits & (uint32(1)<<mantBits - 1)
	if e == 0 && m == 0 {
		return 0
	}
	scale := math.Ldexp(1, int(e)-int(bias)-int(mantBits))
	return float32(float64(m) * scale)
}
