package types

// ContainerKind classifies how a Slang parameter-group wrapper "unwraps"
// around a shader object's element type (spec §4.5).
type ContainerKind uint8

const (
	// ContainerKindNone means the layout's element type is the node's own type.
	ContainerKindNone ContainerKind = iota
	// ContainerKindStructuredBuffer wraps StructuredBuffer<T>/RWStructuredBuffer<T>.
	ContainerKindStructuredBuffer
	// ContainerKindArray wraps T[N].
	ContainerKindArray
	// ContainerKindParameterBlock wraps ConstantBuffer<T>/ParameterBlock<T>.
	ContainerKindParameterBlock
)

// BindingType classifies one binding range / ResourceSlot kind.
type BindingType uint8

const (
	BindingTypeUnknown BindingType = iota
	BindingTypeBuffer
	BindingTypeBufferWithCounter
	BindingTypeTexture
	BindingTypeSampler
	BindingTypeCombinedTextureSampler
	BindingTypeAccelerationStructure
	BindingTypeExistentialValue
	BindingTypeParameterBlock
	BindingTypeConstantBuffer
	BindingTypeRawBuffer
	BindingTypeMutableRawBuffer
	BindingTypePushConstant
)

// IsSubObject reports whether a range of this binding type holds child
// shader objects rather than leaf resource slots (spec §4.5/§4.4.3).
func (t BindingType) IsSubObject() bool {
	switch t {
	case BindingTypeExistentialValue, BindingTypeParameterBlock, BindingTypeConstantBuffer:
		return true
	default:
		return false
	}
}

// BindingRangeInfo describes one contiguous stretch of a ShaderObjectLayout
// holding one binding kind, optionally arrayed (spec §3 ShaderObjectLayout).
type BindingRangeInfo struct {
	BindingType     BindingType
	Count           uint32
	SlotIndex       uint32
	SubObjectIndex  uint32
	IsSpecializable bool
}

// SubObjectRangeInfo describes a binding range whose elements are
// themselves shader objects (spec §3 ShaderObjectLayout).
type SubObjectRangeInfo struct {
	BindingRangeIndex uint32
	Offset            uint32
	Stride            uint32
}

// BindGroupLayoutHandle/BufferHandle/etc: flat handle types kept for
// backends that expose a descriptor-table view of the same bindings the
// shader-object tree computes (descriptor writes, §4.2 getBindingData).
type (
	BufferHandle      uint64
	SamplerHandle     uint64
	TextureViewHandle uint64
)

// PushConstantRange describes a push-constant byte range and the stages
// that may access it.
type PushConstantRange struct {
	Stages ShaderStages
	Start  uint32
	End    uint32
}
