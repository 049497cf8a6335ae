// Package format holds the per-pixel-format metadata and byte-layout math
// kept out of core per spec.md's "per-backend texture format tables are
// external collaborators": the *shape* of a format (block size, channel
// count, numeric kind) and the subresource-layout law are backend-agnostic
// and live here; actual device-native format enums are a hal concern.
package format

import "github.com/gogpu/rhi/types"

// Kind classifies how a format's bits decode into numeric values.
type Kind uint8

const (
	KindUnorm Kind = iota
	KindSnorm
	KindUint
	KindSint
	KindFloat
	KindUfloatPacked // RGB9E5, RG11B10: shared-exponent or packed-float, non-IEEE half lanes
	KindDepthStencil
	KindCompressed
)

// Info describes one TextureFormat's physical layout.
type Info struct {
	// BlockWidth and BlockHeight are the footprint, in texels, of one
	// block (1x1 for uncompressed formats).
	BlockWidth  uint32
	BlockHeight uint32
	// BlockBytes is the size in bytes of one block.
	BlockBytes uint32
	// Channels is the number of distinct components (1-4).
	Channels uint8
	Kind     Kind
	IsSRGB   bool
	HasDepth   bool
	HasStencil bool
}

// IsCompressed reports whether this format stores multi-texel blocks.
func (i Info) IsCompressed() bool {
	return i.BlockWidth > 1 || i.BlockHeight > 1
}

var table = map[types.TextureFormat]Info{
	types.TextureFormatR8Unorm:  {1, 1, 1, 1, KindUnorm, false, false, false},
	types.TextureFormatR8Snorm:  {1, 1, 1, 1, KindSnorm, false, false, false},
	types.TextureFormatR8Uint:   {1, 1, 1, 1, KindUint, false, false, false},
	types.TextureFormatR8Sint:   {1, 1, 1, 1, KindSint, false, false, false},

	types.TextureFormatR16Uint:  {1, 1, 2, 1, KindUint, false, false, false},
	types.TextureFormatR16Sint:  {1, 1, 2, 1, KindSint, false, false, false},
	types.TextureFormatR16Float: {1, 1, 2, 1, KindFloat, false, false, false},
	types.TextureFormatRG8Unorm: {1, 1, 2, 2, KindUnorm, false, false, false},
	types.TextureFormatRG8Snorm: {1, 1, 2, 2, KindSnorm, false, false, false},
	types.TextureFormatRG8Uint:  {1, 1, 2, 2, KindUint, false, false, false},
	types.TextureFormatRG8Sint:  {1, 1, 2, 2, KindSint, false, false, false},

	types.TextureFormatR32Uint:     {1, 1, 4, 1, KindUint, false, false, false},
	types.TextureFormatR32Sint:     {1, 1, 4, 1, KindSint, false, false, false},
	types.TextureFormatR32Float:    {1, 1, 4, 1, KindFloat, false, false, false},
	types.TextureFormatRG16Uint:    {1, 1, 4, 2, KindUint, false, false, false},
	types.TextureFormatRG16Sint:    {1, 1, 4, 2, KindSint, false, false, false},
	types.TextureFormatRG16Float:   {1, 1, 4, 2, KindFloat, false, false, false},
	types.TextureFormatRGBA8Unorm:     {1, 1, 4, 4, KindUnorm, false, false, false},
	types.TextureFormatRGBA8UnormSrgb: {1, 1, 4, 4, KindUnorm, true, false, false},
	types.TextureFormatRGBA8Snorm:     {1, 1, 4, 4, KindSnorm, false, false, false},
	types.TextureFormatRGBA8Uint:      {1, 1, 4, 4, KindUint, false, false, false},
	types.TextureFormatRGBA8Sint:      {1, 1, 4, 4, KindSint, false, false, false},
	types.TextureFormatBGRA8Unorm:     {1, 1, 4, 4, KindUnorm, false, false, false},
	types.TextureFormatBGRA8UnormSrgb: {1, 1, 4, 4, KindUnorm, true, false, false},

	types.TextureFormatRGB9E5Ufloat:  {1, 1, 4, 3, KindUfloatPacked, false, false, false},
	types.TextureFormatRGB10A2Uint:   {1, 1, 4, 4, KindUint, false, false, false},
	types.TextureFormatRGB10A2Unorm:  {1, 1, 4, 4, KindUnorm, false, false, false},
	types.TextureFormatRG11B10Ufloat: {1, 1, 4, 3, KindUfloatPacked, false, false, false},

	types.TextureFormatRG32Uint:      {1, 1, 8, 2, KindUint, false, false, false},
	types.TextureFormatRG32Sint:      {1, 1, 8, 2, KindSint, false, false, false},
	types.TextureFormatRG32Float:     {1, 1, 8, 2, KindFloat, false, false, false},
	types.TextureFormatRGBA16Uint:    {1, 1, 8, 4, KindUint, false, false, false},
	types.TextureFormatRGBA16Sint:    {1, 1, 8, 4, KindSint, false, false, false},
	types.TextureFormatRGBA16Float:   {1, 1, 8, 4, KindFloat, false, false, false},

	types.TextureFormatRGBA32Uint:  {1, 1, 16, 4, KindUint, false, false, false},
	types.TextureFormatRGBA32Sint:  {1, 1, 16, 4, KindSint, false, false, false},
	types.TextureFormatRGBA32Float: {1, 1, 16, 4, KindFloat, false, false, false},

	types.TextureFormatStencil8:              {1, 1, 1, 1, KindDepthStencil, false, false, true},
	types.TextureFormatDepth16Unorm:           {1, 1, 2, 1, KindDepthStencil, false, true, false},
	types.TextureFormatDepth24Plus:            {1, 1, 4, 1, KindDepthStencil, false, true, false},
	types.TextureFormatDepth24PlusStencil8:    {1, 1, 4, 2, KindDepthStencil, false, true, true},
	types.TextureFormatDepth32Float:           {1, 1, 4, 1, KindDepthStencil, false, true, false},
	types.TextureFormatDepth32FloatStencil8:   {1, 1, 8, 2, KindDepthStencil, false, true, true},

	types.TextureFormatBC1RGBAUnorm:     {4, 4, 8, 4, KindCompressed, false, false, false},
	types.TextureFormatBC1RGBAUnormSrgb: {4, 4, 8, 4, KindCompressed, true, false, false},
	types.TextureFormatBC2RGBAUnorm:     {4, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatBC2RGBAUnormSrgb: {4, 4, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatBC3RGBAUnorm:     {4, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatBC3RGBAUnormSrgb: {4, 4, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatBC4RUnorm:        {4, 4, 8, 1, KindCompressed, false, false, false},
	types.TextureFormatBC4RSnorm:        {4, 4, 8, 1, KindCompressed, false, false, false},
	types.TextureFormatBC5RGUnorm:       {4, 4, 16, 2, KindCompressed, false, false, false},
	types.TextureFormatBC5RGSnorm:       {4, 4, 16, 2, KindCompressed, false, false, false},
	types.TextureFormatBC6HRGBUfloat:    {4, 4, 16, 3, KindCompressed, false, false, false},
	types.TextureFormatBC6HRGBFloat:     {4, 4, 16, 3, KindCompressed, false, false, false},
	types.TextureFormatBC7RGBAUnorm:     {4, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatBC7RGBAUnormSrgb: {4, 4, 16, 4, KindCompressed, true, false, false},

	types.TextureFormatETC2RGB8Unorm:      {4, 4, 8, 3, KindCompressed, false, false, false},
	types.TextureFormatETC2RGB8UnormSrgb:  {4, 4, 8, 3, KindCompressed, true, false, false},
	types.TextureFormatETC2RGB8A1Unorm:     {4, 4, 8, 4, KindCompressed, false, false, false},
	types.TextureFormatETC2RGB8A1UnormSrgb: {4, 4, 8, 4, KindCompressed, true, false, false},
	types.TextureFormatETC2RGBA8Unorm:      {4, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatETC2RGBA8UnormSrgb:  {4, 4, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatEACR11Unorm:         {4, 4, 8, 1, KindCompressed, false, false, false},
	types.TextureFormatEACR11Snorm:         {4, 4, 8, 1, KindCompressed, false, false, false},
	types.TextureFormatEACRG11Unorm:        {4, 4, 16, 2, KindCompressed, false, false, false},
	types.TextureFormatEACRG11Snorm:        {4, 4, 16, 2, KindCompressed, false, false, false},

	types.TextureFormatASTC4x4Unorm:      {4, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC4x4UnormSrgb:  {4, 4, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC5x4Unorm:      {5, 4, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC5x4UnormSrgb:  {5, 4, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC5x5Unorm:      {5, 5, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC5x5UnormSrgb:  {5, 5, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC6x5Unorm:      {6, 5, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC6x5UnormSrgb:  {6, 5, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC6x6Unorm:      {6, 6, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC6x6UnormSrgb:  {6, 6, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC8x5Unorm:      {8, 5, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC8x5UnormSrgb:  {8, 5, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC8x6Unorm:      {8, 6, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC8x6UnormSrgb:  {8, 6, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC8x8Unorm:      {8, 8, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC8x8UnormSrgb:  {8, 8, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC10x5Unorm:     {10, 5, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC10x5UnormSrgb: {10, 5, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC10x6Unorm:     {10, 6, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC10x6UnormSrgb: {10, 6, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC10x8Unorm:     {10, 8, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC10x8UnormSrgb: {10, 8, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC10x10Unorm:     {10, 10, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC10x10UnormSrgb: {10, 10, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC12x10Unorm:     {12, 10, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC12x10UnormSrgb: {12, 10, 16, 4, KindCompressed, true, false, false},
	types.TextureFormatASTC12x12Unorm:     {12, 12, 16, 4, KindCompressed, false, false, false},
	types.TextureFormatASTC12x12UnormSrgb: {12, 12, 16, 4, KindCompressed, true, false, false},
}

// Lookup returns a format's Info. ok is false for TextureFormatUndefined or
// any value not present in the table.
func Lookup(f types.TextureFormat) (Info, bool) {
	info, ok := table[f]
	return info, ok
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}

// Layout computes a subresource's byte layout for upload/readback, per
// spec.md §3's SubresourceLayout contract:
//
//	rowPitch    = alignUp(blocksPerRow*blockBytes, rowAlignment)
//	slicePitch  = rowPitch * rowCount
//	sizeInBytes = slicePitch * depth
func Layout(f types.TextureFormat, extent types.Extent3D, rowAlignment uint64) (types.SubresourceLayout, error) {
	info, ok := table[f]
	if !ok {
		return types.SubresourceLayout{}, errUnknownFormat(f)
	}
	if rowAlignment == 0 {
		rowAlignment = 1
	}

	blocksPerRow := (uint64(extent.Width) + uint64(info.BlockWidth) - 1) / uint64(info.BlockWidth)
	rowCount := (uint64(extent.Height) + uint64(info.BlockHeight) - 1) / uint64(info.BlockHeight)

	rowPitch := alignUp(blocksPerRow*uint64(info.BlockBytes), rowAlignment)
	slicePitch := rowPitch * rowCount
	sizeInBytes := slicePitch * uint64(extent.DepthOrArrayLayers)

	return types.SubresourceLayout{
		RowPitch:    rowPitch,
		SlicePitch:  slicePitch,
		RowCount:    uint32(rowCount),
		SizeInBytes: sizeInBytes,
	}, nil
}
