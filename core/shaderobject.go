package core

import (
	"errors"
	"fmt"

	"github.com/gogpu/rhi/types"
)

// ErrShaderObjectFinalized is returned by every mutator once finalize has
// latched the node (spec §4.4.1 "finalized is a latch").
var ErrShaderObjectFinalized = errors.New("core: shader object is finalized")

// DynamicSpecializationType is substituted for a binding-array slot whose
// elements disagree on specialization argument, per spec §4.4.3's "array
// uniformity rule".
const DynamicSpecializationType = "__Dynamic"

// SlangSession is the external collaborator that resolves concrete-type
// identity and existential witness tables (spec.md's non-goal: "shader
// compilation itself (delegated to an external Slang session)"). A real
// binding wraps the Slang C API; tests use an in-memory fake.
type SlangSession interface {
	// WitnessTableID returns the sequential witness-table id Slang
	// assigns to (concreteType, existentialType).
	WitnessTableID(concreteType, existentialType string) (uint32, error)
	// ConcreteTypeSize returns a named type's ordinary-data size in bytes.
	ConcreteTypeSize(concreteType string) (uint32, error)
}

// ResourceBindingKind tags the variant stored in a ResourceBinding.
type ResourceBindingKind uint8

const (
	ResourceBindingNone ResourceBindingKind = iota
	ResourceBindingBuffer
	ResourceBindingBufferWithCounter
	ResourceBindingTexture
	ResourceBindingSampler
	ResourceBindingCombinedTextureSampler
	ResourceBindingAccelerationStructure
)

// BufferRange selects a byte range of a buffer for a binding.
type BufferRange struct {
	Offset uint64
	Size   uint64 // 0 means "to the end"
}

// ResourceBinding is the value passed to ShaderObject.SetBinding; exactly
// one field group is meaningful, selected by Kind (spec §4.4.2).
type ResourceBinding struct {
	Kind ResourceBindingKind

	Buffer       *Buffer
	BufferRange  BufferRange
	CounterBuffer *Buffer // only for ResourceBindingBufferWithCounter

	Texture types.TextureViewHandle
	Sampler types.SamplerHandle

	AccelerationStructure *AccelerationStructure
}

// BindingOffset addresses one slot within a node: which binding range, and
// which array element / uniform byte offset within it.
type BindingOffset struct {
	BindingRangeIndex uint32
	BindingArrayIndex uint32
	UniformOffset     uint32
}

// resourceSlot is one leaf binding slot's current value.
type resourceSlot struct {
	kind          ResourceBindingKind
	buffer        *Buffer
	bufferRange   BufferRange
	counterBuffer *Buffer
	texture       types.TextureViewHandle
	sampler       types.SamplerHandle
	accel         *AccelerationStructure
}

// SpecializationArg is one entry of a collected specialization argument
// list: either a concrete type name or DynamicSpecializationType.
type SpecializationArg struct {
	TypeName string
}

// ShaderObject is a mutable binding-tree node mirroring one Slang type
// layout (spec §4.4). Nodes are built and mutated while recording, then
// frozen by Finalize before being read by pipeline resolution or playback.
type ShaderObject struct {
	layout *types.ShaderObjectLayout
	slang  SlangSession

	slots   []resourceSlot
	objects []*ShaderObject
	data    []byte

	version   uint64
	finalized bool

	specOverrides map[uint32]SpecializationArg

	// entryPoints holds one child per entry point; only populated on a
	// root object (spec §4.4.4).
	entryPoints []*ShaderObject
}

// NewShaderObject allocates a node for the given layout, with slots,
// sub-object storage, and ordinary-data storage pre-sized per spec
// §4.4.1's invariant.
func NewShaderObject(layout *types.ShaderObjectLayout, slang SlangSession) *ShaderObject {
	return &ShaderObject{
		layout:        layout,
		slang:         slang,
		slots:         make([]resourceSlot, layout.SlotCount),
		objects:       make([]*ShaderObject, layout.SubObjectCount),
		data:          make([]byte, layout.OrdinaryDataSize),
		specOverrides: make(map[uint32]SpecializationArg),
	}
}

// NewRootShaderObject is NewShaderObject plus one child per entry point in
// the linked program, mirroring spec §4.4.4.
func NewRootShaderObject(layout *types.ShaderObjectLayout, entryPointLayouts []*types.ShaderObjectLayout, slang SlangSession) *ShaderObject {
	root := NewShaderObject(layout, slang)
	root.entryPoints = make([]*ShaderObject, len(entryPointLayouts))
	for i, epLayout := range entryPointLayouts {
		root.entryPoints[i] = NewShaderObject(epLayout, slang)
	}
	return root
}

// Finalized reports whether the node has been latched.
func (o *ShaderObject) Finalized() bool { return o.finalized }

// Version returns the node's monotonic write counter.
func (o *ShaderObject) Version() uint64 { return o.version }

// Finalize latches the node: every subsequent mutator call fails with
// ErrShaderObjectFinalized. Calling Finalize again is a no-op.
func (o *ShaderObject) Finalize() error {
	o.finalized = true
	return nil
}

// GetRawData returns the node's ordinary-data bytes as written so far.
func (o *ShaderObject) GetRawData() []byte {
	return o.data
}

// SetData copies bytes into the node's ordinary-data block starting at
// offset.UniformOffset, silently truncating (not erroring) if it would
// overrun data's capacity (spec §4.4.2).
func (o *ShaderObject) SetData(offset BindingOffset, bytes []byte) error {
	if o.finalized {
		return ErrShaderObjectFinalized
	}
	start := int(offset.UniformOffset)
	if start >= len(o.data) {
		o.version++
		return nil
	}
	copy(o.data[start:], bytes)
	o.version++
	return nil
}

// SetDescriptorHandle writes an 8-byte bindless-handle value directly into
// the node's ordinary-data block. Deliberately overlaps SetData's storage
// (spec §4.4.2).
func (o *ShaderObject) SetDescriptorHandle(offset BindingOffset, handle uint64) error {
	if o.finalized {
		return ErrShaderObjectFinalized
	}
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(handle >> (8 * i))
	}
	return o.SetData(offset, buf)
}

func (o *ShaderObject) bindingRange(index uint32) (*types.BindingRangeInfo, error) {
	if int(index) >= len(o.layout.BindingRanges) {
		return nil, errors.New("core: binding range index out of range")
	}
	return &o.layout.BindingRanges[index], nil
}

// SetBinding resolves offset to slots[bindingRange.SlotIndex +
// BindingArrayIndex] and stores the given resource there. A binding with
// Kind == ResourceBindingNone clears the slot (spec §4.4.2).
func (o *ShaderObject) SetBinding(offset BindingOffset, binding ResourceBinding) error {
	if o.finalized {
		return ErrShaderObjectFinalized
	}
	br, err := o.bindingRange(offset.BindingRangeIndex)
	if err != nil {
		return err
	}
	slotIndex := br.SlotIndex + offset.BindingArrayIndex
	if int(slotIndex) >= len(o.slots) {
		return errors.New("core: binding slot index out of range")
	}

	slot := resourceSlot{kind: binding.Kind}
	switch binding.Kind {
	case ResourceBindingBuffer:
		slot.buffer = binding.Buffer
		slot.bufferRange = resolveBufferRange(binding.Buffer, binding.BufferRange)
	case ResourceBindingBufferWithCounter:
		slot.buffer = binding.Buffer
		slot.counterBuffer = binding.CounterBuffer
		slot.bufferRange = resolveBufferRange(binding.Buffer, binding.BufferRange)
	case ResourceBindingTexture, ResourceBindingCombinedTextureSampler:
		slot.texture = binding.Texture
		slot.sampler = binding.Sampler
	case ResourceBindingSampler:
		slot.sampler = binding.Sampler
	case ResourceBindingAccelerationStructure:
		slot.accel = binding.AccelerationStructure
	}

	o.slots[slotIndex] = slot
	o.version++
	return nil
}

func resolveBufferRange(b *Buffer, r BufferRange) BufferRange {
	if b == nil {
		return r
	}
	if r.Size == 0 {
		r.Size = b.Size() - r.Offset
	}
	return r
}

// SetObject binds a child shader object at offset, per the three cases of
// spec §4.4.2 driven by the node's own container kind and the addressed
// binding range's type.
func (o *ShaderObject) SetObject(offset BindingOffset, sub *ShaderObject) error {
	if o.finalized {
		return ErrShaderObjectFinalized
	}

	switch o.layout.Container {
	case types.ContainerKindArray, types.ContainerKindStructuredBuffer:
		return o.setObjectIntoContainer(offset, sub)
	}

	br, err := o.bindingRange(offset.BindingRangeIndex)
	if err != nil {
		return err
	}

	objIndex := br.SubObjectIndex + offset.BindingArrayIndex
	if int(objIndex) >= len(o.objects) {
		return errors.New("core: sub-object index out of range")
	}

	switch br.BindingType {
	case types.BindingTypeExistentialValue:
		return o.bindExistential(objIndex, sub)
	case types.BindingTypeRawBuffer, types.BindingTypeMutableRawBuffer:
		o.objects[objIndex] = sub
		o.version++
		return nil
	default:
		o.objects[objIndex] = sub
		o.version++
		return nil
	}
}

// setObjectIntoContainer implements the "self is a container" case: grow
// objects/data as needed, store the child, then mirror its ordinary data
// into the element slot.
func (o *ShaderObject) setObjectIntoContainer(offset BindingOffset, sub *ShaderObject) error {
	idx := int(offset.BindingArrayIndex)
	for idx >= len(o.objects) {
		o.objects = append(o.objects, nil)
	}
	o.objects[idx] = sub

	elemSize := 0
	if o.layout.ElementLayout != nil {
		elemSize = int(o.layout.ElementLayout.OrdinaryDataSize)
	}
	if elemSize == 0 {
		o.version++
		return nil
	}
	needed := (idx + 1) * elemSize
	for len(o.data) < needed {
		o.data = append(o.data, 0)
	}
	copy(o.data[idx*elemSize:idx*elemSize+elemSize], sub.data)
	o.version++
	return nil
}

// existentialHeaderSize is rtti id (4) + witness-table id (4) + 8 bytes of
// reserved/padding, per spec §4.4.1.
const existentialHeaderSize = 16

// bindExistential stores the child object, writes the existential header,
// and mirrors the child's ordinary data into the payload region, per the
// payload-fit rule (§4.4.5).
//
// Spec §9 open question 3 asks how writeOrdinaryData should handle a
// concrete value that does not fit the existential payload, since the
// source this package is grounded on has no call site wiring a specialized
// layout's deferred-payload offsets back into the flatten loop. This
// resolves it with option (a): payload-fit is enforced here, at bind time,
// rather than deferred to writeOrdinaryData. A value that does not fit is
// rejected outright, so writeOrdinaryData never has to reconstruct a
// separately allocated region for it.
func (o *ShaderObject) bindExistential(objIndex uint32, sub *ShaderObject) error {
	if sub == nil {
		o.objects[objIndex] = nil
		o.version++
		return nil
	}

	concreteType := sub.layout
	fits := concreteType.OrdinaryDataSize <= o.layout.ExistentialPayloadBytes() && usesOnlyUniform(concreteType)
	if !fits {
		return fmt.Errorf("core: %s does not fit existential payload of %s (%d > %d bytes, or uses non-uniform parameters)",
			concreteType.TypeName, o.layout.TypeName, concreteType.OrdinaryDataSize, o.layout.ExistentialPayloadBytes())
	}

	o.objects[objIndex] = sub

	var witnessID uint32
	var err error
	if o.slang != nil {
		witnessID, err = o.slang.WitnessTableID(concreteType.TypeName, o.layout.TypeName)
		if err != nil {
			return err
		}
	}

	headerOffset := int(objIndex) * int(o.layout.ExistentialTypeSize)
	needed := headerOffset + int(o.layout.ExistentialTypeSize)
	for len(o.data) < needed {
		o.data = append(o.data, 0)
	}
	putU32(o.data[headerOffset:], 0) // rtti id placeholder; resolved at specialize time
	putU32(o.data[headerOffset+4:], witnessID)

	payloadOffset := headerOffset + existentialHeaderSize
	copy(o.data[payloadOffset:payloadOffset+int(concreteType.OrdinaryDataSize)], sub.data)
	o.version++
	return nil
}

func usesOnlyUniform(layout *types.ShaderObjectLayout) bool {
	for _, br := range layout.BindingRanges {
		if br.BindingType != types.BindingTypeUnknown {
			return false
		}
	}
	return true
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// SetSpecializationOverride forces CollectSpecializationArgs to use arg
// for the given binding-range index instead of deriving it from state.
func (o *ShaderObject) SetSpecializationOverride(bindingRangeIndex uint32, arg SpecializationArg) error {
	if o.finalized {
		return ErrShaderObjectFinalized
	}
	o.specOverrides[bindingRangeIndex] = arg
	return nil
}

// CollectSpecializationArgs is a pure function of the node's (layout
// shape, leaf bindings, leaf types, user overrides): spec §8 property 6.
// It recursively walks sub-object ranges per spec §4.4.3.
func (o *ShaderObject) CollectSpecializationArgs() []SpecializationArg {
	var out []SpecializationArg
	o.collectSpecializationArgs(&out)
	return out
}

func (o *ShaderObject) collectSpecializationArgs(out *[]SpecializationArg) {
	for i, br := range o.layout.BindingRanges {
		if !br.IsSpecializable && !br.BindingType.IsSubObject() {
			continue
		}
		if override, ok := o.specOverrides[uint32(i)]; ok {
			*out = append(*out, override)
			continue
		}
		switch br.BindingType {
		case types.BindingTypeExistentialValue:
			*out = append(*out, o.existentialArgsForRange(br)...)
		case types.BindingTypeParameterBlock, types.BindingTypeConstantBuffer:
			if br.IsSpecializable {
				child := o.childAt(br.SubObjectIndex)
				if child != nil {
					*out = append(*out, SpecializationArg{TypeName: child.specializedTypeName()})
				}
			}
			if child := o.childAt(br.SubObjectIndex); child != nil {
				child.collectSpecializationArgs(out)
			}
		}
	}
}

func (o *ShaderObject) childAt(index uint32) *ShaderObject {
	if int(index) >= len(o.objects) {
		return nil
	}
	return o.objects[index]
}

// existentialArgsForRange applies spec §4.4.3's array rule: one
// specialization argument per array position, with
// DynamicSpecializationType substituted at any position whose bound
// concrete type cannot be determined (no child bound there). A non-array
// range (Count <= 1) yields the single-element slice.
func (o *ShaderObject) existentialArgsForRange(br types.BindingRangeInfo) []SpecializationArg {
	count := br.Count
	if count == 0 {
		count = 1
	}
	args := make([]SpecializationArg, count)
	for i := uint32(0); i < count; i++ {
		child := o.childAt(br.SubObjectIndex + i)
		name := DynamicSpecializationType
		if child != nil {
			name = child.specializedTypeName()
		}
		args[i] = SpecializationArg{TypeName: name}
	}
	return args
}

func (o *ShaderObject) specializedTypeName() string {
	return o.layout.TypeName
}

// CollectRootSpecializationArgs concatenates global-scope args followed by
// each entry point's args in order (spec §4.4.4).
func (o *ShaderObject) CollectRootSpecializationArgs() []SpecializationArg {
	out := o.CollectSpecializationArgs()
	for _, ep := range o.entryPoints {
		out = append(out, ep.CollectSpecializationArgs()...)
	}
	return out
}

// EntryPoint returns the root object's per-entry-point child at index.
func (o *ShaderObject) EntryPoint(index int) *ShaderObject {
	if index < 0 || index >= len(o.entryPoints) {
		return nil
	}
	return o.entryPoints[index]
}

// writeOrdinaryData copies the node's ordinary bytes into dst at the
// given offset, recursing into sub-object ranges so a root's whole tree
// can be flattened into one backend-owned constant-buffer allocation
// (spec §4.4.5). Each child's bytes are packed directly after what was
// written before it. It returns the number of bytes written for this node
// and its descendants; nothing is written at or past the offset limit.
//
// Spec §9 open question 3 (existential payload overflow) is resolved by
// bindExistential enforcing the payload-fit rule at bind time (option a):
// SetObject on an existential range rejects a concrete value that does not
// fit, so writeOrdinaryData never encounters a sub-object whose payload
// was deferred. It only recurses into ParameterBlock/ConstantBuffer
// children, whose data always lives in their own region rather than a
// shared existential slot.
func (o *ShaderObject) writeOrdinaryData(dst []byte, offset, limit uint32) uint32 {
	n := uint32(len(o.data))
	if offset >= limit {
		return 0
	}
	if offset+n > limit {
		n = limit - offset
	}
	copy(dst[offset:offset+n], o.data[:n])
	written := n

	for _, br := range o.layout.BindingRanges {
		if br.BindingType != types.BindingTypeParameterBlock && br.BindingType != types.BindingTypeConstantBuffer {
			continue
		}
		child := o.childAt(br.SubObjectIndex)
		if child == nil {
			continue
		}
		written += child.writeOrdinaryData(dst, offset+written, limit)
	}
	return written
}

// writeStructuredBuffer materializes o's ordinary data as a device buffer
// by passing o.data and the given per-element stride to alloc and returning
// its result; the buffer's size, state and usage are whatever alloc chooses.
// SetObject does not call it: its RawBuffer/MutableRawBuffer case only
// stores the sub-object.
//
// alloc is supplied by the caller (typically the device's staging/buffer
// allocation path) rather than called directly, since ShaderObject has no
// HAL dependency of its own.
func (o *ShaderObject) writeStructuredBuffer(elementStride uint32, alloc func(data []byte, stride uint32) (*Buffer, error)) (*Buffer, error) {
	return alloc(o.data, elementStride)
}
