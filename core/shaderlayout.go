package core

import "github.com/gogpu/rhi/types"

// TypeReflectionKind classifies the Slang type a TypeLayoutReflection
// describes, driving the container-kind peel of spec §4.5.
type TypeReflectionKind uint8

const (
	TypeReflectionStruct TypeReflectionKind = iota
	TypeReflectionConstantBuffer
	TypeReflectionParameterBlock
	TypeReflectionStructuredBuffer
	TypeReflectionArray
)

// TypeLayoutReflection is the subset of Slang's TypeLayoutReflection this
// package consumes to build a ShaderObjectLayout (spec §4.5's non-goal:
// shader reflection itself is delegated to an external Slang session). A
// real binding populates one of these per reflected type; tests and the
// legacy ID-based path (which has no reflection data) build degenerate
// ones by hand.
type TypeLayoutReflection struct {
	TypeName string
	Kind     TypeReflectionKind

	// ElementType is the wrapped inner type for ConstantBuffer<T> /
	// ParameterBlock<T> / StructuredBuffer<T> / T[N]; nil otherwise.
	ElementType *TypeLayoutReflection

	// ArrayElementCount is N for a fixed-size T[N]; zero for an
	// unbounded/runtime-sized array.
	ArrayElementCount uint32

	// OrdinaryDataSize is this type's own uniform-data footprint in bytes.
	OrdinaryDataSize uint32

	// ExistentialTypeSize is the full existential slot size (header plus
	// payload); meaningful only on a field whose BindingType is
	// ExistentialValue.
	ExistentialTypeSize uint32

	// Fields enumerates the type's binding ranges in declaration order.
	Fields []FieldReflection
}

// FieldReflection is one field of a reflected struct-like type,
// contributing one binding range (and, for a sub-object field, one
// SubObjectRangeInfo) to the ShaderObjectLayout peeled from it.
type FieldReflection struct {
	Name string

	// BindingType classifies the range this field occupies.
	BindingType types.BindingType

	// Count is the field's array length; zero and one both mean a single
	// (non-array) slot.
	Count uint32

	// SpecializationParamCount is Slang's reflected count of generic /
	// interface specialization parameters on this field; nonzero flags the
	// resulting BindingRangeInfo as specializable.
	SpecializationParamCount uint32

	// Type is the field's own reflected type, required when BindingType is
	// a sub-object kind (ExistentialValue, ParameterBlock, ConstantBuffer)
	// so its existential slot size or nested layout can be derived.
	Type *TypeLayoutReflection
}

// peelContainer applies spec §4.5's parameter-group peeling rule,
// returning the layout's ContainerKind and, for a container, the wrapped
// inner type whose fields populate the rest of the layout.
func peelContainer(refl *TypeLayoutReflection) (types.ContainerKind, *TypeLayoutReflection) {
	switch refl.Kind {
	case TypeReflectionConstantBuffer, TypeReflectionParameterBlock:
		return types.ContainerKindParameterBlock, refl.ElementType
	case TypeReflectionStructuredBuffer:
		return types.ContainerKindStructuredBuffer, refl.ElementType
	case TypeReflectionArray:
		return types.ContainerKindArray, refl.ElementType
	default:
		return types.ContainerKindNone, nil
	}
}

// BuildShaderObjectLayout constructs a ShaderObjectLayout from a Slang
// type-layout reflection, peeling ConstantBuffer<T>/ParameterBlock<T> (→
// ParameterBlock), StructuredBuffer<T>/RWStructuredBuffer<T> (→
// StructuredBuffer), and T[N] (→ Array) wrappers, then enumerating binding
// ranges and sub-object ranges with running slot and sub-object indices
// (spec §4.5).
//
// A StructuredBuffer or Array container has no binding ranges of its own:
// every element shares the single ElementLayout. A ParameterBlock
// container's own binding ranges are its wrapped type's fields, forwarded
// directly rather than nested another level, matching
// ShaderObjectLayout.ElementLayout's doc ("per-element layout for
// Array/StructuredBuffer containers (nil otherwise)").
func BuildShaderObjectLayout(refl *TypeLayoutReflection) *types.ShaderObjectLayout {
	container, inner := peelContainer(refl)

	layout := &types.ShaderObjectLayout{
		TypeName:  refl.TypeName,
		Container: container,
	}

	switch container {
	case types.ContainerKindStructuredBuffer, types.ContainerKindArray:
		layout.ElementLayout = BuildShaderObjectLayout(inner)
		return layout
	case types.ContainerKindParameterBlock:
		refl = inner
	}

	layout.OrdinaryDataSize = refl.OrdinaryDataSize

	var slotIndex, subObjectIndex uint32
	for _, f := range refl.Fields {
		count := f.Count
		if count == 0 {
			count = 1
		}
		br := types.BindingRangeInfo{
			BindingType:     f.BindingType,
			Count:           count,
			IsSpecializable: f.SpecializationParamCount > 0,
		}
		if f.BindingType.IsSubObject() {
			br.SubObjectIndex = subObjectIndex
			layout.SubObjectRanges = append(layout.SubObjectRanges, types.SubObjectRangeInfo{
				BindingRangeIndex: uint32(len(layout.BindingRanges)),
				Offset:            subObjectIndex,
				Stride:            1,
			})
			subObjectIndex += count
			if f.BindingType == types.BindingTypeExistentialValue && f.Type != nil {
				layout.ExistentialTypeSize = f.Type.ExistentialTypeSize
			}
		} else {
			br.SlotIndex = slotIndex
			slotIndex += count
		}
		layout.BindingRanges = append(layout.BindingRanges, br)
	}
	layout.SlotCount = slotIndex
	layout.SubObjectCount = subObjectIndex

	return layout
}

// BuildRootShaderObjectLayout builds the root object's layout plus one
// sub-layout per entry point, mirroring spec §4.5's "entry-point
// sub-layouts are created recursively for root layouts" and feeding
// NewRootShaderObject/Device.CreateRootShaderObject directly.
func BuildRootShaderObjectLayout(root *TypeLayoutReflection, entryPoints []*TypeLayoutReflection) (*types.ShaderObjectLayout, []*types.ShaderObjectLayout) {
	rootLayout := BuildShaderObjectLayout(root)
	epLayouts := make([]*types.ShaderObjectLayout, len(entryPoints))
	for i, ep := range entryPoints {
		epLayouts[i] = BuildShaderObjectLayout(ep)
	}
	return rootLayout, epLayouts
}
