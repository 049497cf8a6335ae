package types

// ShaderObjectLayout is the reflected shape of one shader-object tree node,
// built once from Slang's TypeLayoutReflection (spec §4.5) and then shared
// by every node instance of that type.
type ShaderObjectLayout struct {
	// TypeName is the Slang type name this layout was reflected from,
	// used as a specialization argument (spec §4.4.3).
	TypeName string

	// Container is how a parameter-group wrapper around the node's type
	// unwraps (ConstantBuffer/ParameterBlock, StructuredBuffer, array).
	Container ContainerKind

	// SlotCount is the total number of leaf resource slots the node's
	// binding ranges span.
	SlotCount uint32

	// SubObjectCount is the number of child shader-object slots.
	SubObjectCount uint32

	// OrdinaryDataSize is the size in bytes of the node's own uniform
	// data block (zero for containers with no uniform body).
	OrdinaryDataSize uint32

	// BindingRanges lists every binding range in declaration order.
	BindingRanges []BindingRangeInfo

	// SubObjectRanges lists the ranges whose elements are child objects.
	SubObjectRanges []SubObjectRangeInfo

	// ElementLayout is the per-element layout for Array/StructuredBuffer
	// containers (nil otherwise).
	ElementLayout *ShaderObjectLayout

	// ExistentialTypeSize is the full byte size of an existential slot's
	// storage (header + payload), used by the payload-fit rule.
	ExistentialTypeSize uint32
}

// ExistentialPayloadBytes is the usable payload capacity of an existential
// slot: the existential header occupies 16 bytes (rtti id + witness-table
// id + 8 bytes of padding/reserved), per spec §4.4.1.
func (l *ShaderObjectLayout) ExistentialPayloadBytes() uint32 {
	if l.ExistentialTypeSize < 16 {
		return 0
	}
	return l.ExistentialTypeSize - 16
}
