package core

import (
	"github.com/gogpu/rhi/arena"
	"github.com/gogpu/rhi/types"
)

// CommandKind discriminates the variant stored in a CommandSlot's data
// field. Go has no tagged union, so every variant's fields live in one
// flat Command struct and Kind says which are meaningful; this is the
// same flattening CommandBufferMutable already does for buffer/texture
// usage tracking, applied to the command payload itself.
type CommandKind uint8

const (
	CommandUnknown CommandKind = iota
	CommandCopyBuffer
	CommandCopyTexture
	CommandCopyTextureToBuffer
	CommandUploadTextureData
	CommandClearBuffer
	CommandClearTextureFloat
	CommandClearTextureUint
	CommandClearTextureDepthStencil
	CommandResolveQuery
	CommandBeginRenderPass
	CommandEndRenderPass
	CommandSetRenderState
	CommandSetComputeState
	CommandSetRayTracingState
	CommandDraw
	CommandDrawIndexed
	CommandDrawIndirect
	CommandDrawIndexedIndirect
	CommandDrawMeshTasks
	CommandDispatchCompute
	CommandDispatchComputeIndirect
	CommandDispatchRays
	CommandBuildAccelerationStructure
	CommandCopyAccelerationStructure
	CommandSerializeAccelerationStructure
	CommandDeserializeAccelerationStructure
	CommandSetBufferState
	CommandSetTextureState
	CommandGlobalBarrier
	CommandPushDebugGroup
	CommandPopDebugGroup
	CommandInsertDebugMarker
	CommandWriteTimestamp
)

// String returns a human-readable representation of the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandCopyBuffer:
		return "CopyBuffer"
	case CommandCopyTexture:
		return "CopyTexture"
	case CommandCopyTextureToBuffer:
		return "CopyTextureToBuffer"
	case CommandUploadTextureData:
		return "UploadTextureData"
	case CommandClearBuffer:
		return "ClearBuffer"
	case CommandClearTextureFloat:
		return "ClearTextureFloat"
	case CommandClearTextureUint:
		return "ClearTextureUint"
	case CommandClearTextureDepthStencil:
		return "ClearTextureDepthStencil"
	case CommandResolveQuery:
		return "ResolveQuery"
	case CommandBeginRenderPass:
		return "BeginRenderPass"
	case CommandEndRenderPass:
		return "EndRenderPass"
	case CommandSetRenderState:
		return "SetRenderState"
	case CommandSetComputeState:
		return "SetComputeState"
	case CommandSetRayTracingState:
		return "SetRayTracingState"
	case CommandDraw:
		return "Draw"
	case CommandDrawIndexed:
		return "DrawIndexed"
	case CommandDrawIndirect:
		return "DrawIndirect"
	case CommandDrawIndexedIndirect:
		return "DrawIndexedIndirect"
	case CommandDrawMeshTasks:
		return "DrawMeshTasks"
	case CommandDispatchCompute:
		return "DispatchCompute"
	case CommandDispatchComputeIndirect:
		return "DispatchComputeIndirect"
	case CommandDispatchRays:
		return "DispatchRays"
	case CommandBuildAccelerationStructure:
		return "BuildAccelerationStructure"
	case CommandCopyAccelerationStructure:
		return "CopyAccelerationStructure"
	case CommandSerializeAccelerationStructure:
		return "SerializeAccelerationStructure"
	case CommandDeserializeAccelerationStructure:
		return "DeserializeAccelerationStructure"
	case CommandSetBufferState:
		return "SetBufferState"
	case CommandSetTextureState:
		return "SetTextureState"
	case CommandGlobalBarrier:
		return "GlobalBarrier"
	case CommandPushDebugGroup:
		return "PushDebugGroup"
	case CommandPopDebugGroup:
		return "PopDebugGroup"
	case CommandInsertDebugMarker:
		return "InsertDebugMarker"
	case CommandWriteTimestamp:
		return "WriteTimestamp"
	default:
		return "Unknown"
	}
}

// PassKind identifies which of the three pass encoders produced a
// Set*State command, since render/compute/ray-tracing share the same
// SetRenderState/SetComputeState/SetRayTracingState command shape.
type PassKind uint8

const (
	PassKindRender PassKind = iota
	PassKindCompute
	PassKindRayTracing
)

// Command is one POD-layout command variant (spec.md §3 "CommandList").
// Only the fields relevant to Kind are meaningful; everything else is the
// zero value. Pointers either reference an externally retained resource
// (CommandList.retained) or a slice/struct copied into the command list's
// own arena, so a Command never aliases caller-owned memory once write
// returns.
type Command struct {
	Kind CommandKind

	// Generic copy/clear operands, shared across CopyBuffer,
	// CopyTexture, CopyTextureToBuffer, ClearBuffer and ClearTexture*.
	BufferA, BufferB   *Buffer
	TextureA, TextureB *Texture
	OffsetA, OffsetB   uint64
	Size               uint64
	OriginA, OriginB   types.Origin3D
	Extent             types.Extent3D
	Subresources       types.SubresourceRange

	// UploadTextureData.
	StagingLayouts []types.SubresourceLayout

	// ClearTextureFloat / ClearTextureUint / ClearTextureDepthStencil.
	ClearColor   types.Color
	ClearDepth   float32
	ClearStencil uint32

	// ResolveQuery / WriteTimestamp.
	QuerySet   *QuerySet
	QueryIndex uint32
	QueryCount uint32

	// BeginRenderPass.
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment

	// SetRenderState / SetComputeState / SetRayTracingState.
	Pass               PassKind
	Pipeline           any
	RootObject         *ShaderObject
	SpecializationArgs []SpecializationArg
	BindingData        any

	// Draw / DrawIndexed / DrawIndirect / DrawIndexedIndirect / DrawMeshTasks.
	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
	IndexCount                                              uint32
	BaseVertex                                              int32
	IndirectBuffer                                          *Buffer
	IndirectOffset                                          uint64

	// DispatchCompute / DispatchComputeIndirect / DispatchRays / DrawMeshTasks.
	GroupCountX, GroupCountY, GroupCountZ uint32

	// BuildAccelerationStructure / Copy|Serialize|DeserializeAccelerationStructure.
	AccelStructA, AccelStructB *AccelerationStructure
	BuildInputs                *types.AccelerationStructureBuildInputs

	// SetBufferState / SetTextureState / GlobalBarrier.
	NewState types.ResourceState
}

// CommandSlot is one node of the command list's singly linked list
// (spec.md §3 "CommandSlot { id, next, data }"). next is an index into
// the owning CommandList's arena rather than a pointer, since a pointer
// taken before the arena grows is not guaranteed to alias the same memory
// after growth; an index always addresses the same logical element.
type CommandSlot struct {
	id   uint32
	next int32
	data Command
}

// ID returns the slot's sequence number, assigned in write order.
func (s *CommandSlot) ID() uint32 { return s.id }

// Data returns the command payload carried by this slot.
func (s *CommandSlot) Data() *Command { return &s.data }

// CommandList is an ordered sequence of commands backed by a paged
// (arena) allocator, plus the set of resources those commands retain
// (spec.md §3 "CommandList"). Writing a command never performs device
// work; it only captures intent for later playback by resolvePipelines
// and the HAL.
type CommandList struct {
	arena *arena.Arena[CommandSlot]

	// layouts and colorAttachments are auxiliary arenas for variable-
	// length payloads embedded by pointer in a Command (UploadTextureData's
	// SubresourceLayout slice, BeginRenderPass's attachment slice). Kept
	// separate from the CommandSlot arena because Arena[T] is typed per
	// element, and reset together with it so the same replay-reuses-
	// addresses guarantee (spec.md §8 property 1) holds for them too.
	layouts          *arena.Arena[types.SubresourceLayout]
	colorAttachments *arena.Arena[RenderPassColorAttachment]

	nextID   uint32
	headIdx  int32
	tailIdx  int32
	retained []any
}

// NewCommandList creates an empty command list with room for capacity
// commands before its arena needs to grow.
func NewCommandList(capacity int) *CommandList {
	return &CommandList{
		arena:            arena.New[CommandSlot](capacity),
		layouts:          arena.New[types.SubresourceLayout](capacity),
		colorAttachments: arena.New[RenderPassColorAttachment](capacity),
		headIdx:          -1,
		tailIdx:          -1,
	}
}

// Write appends data as a new command slot and returns it. The caller
// must have already retained (via Retain) every resource data's pointers
// reference before calling Write, and must have copied any caller-owned
// slice into the list's arena (via the Alloc* helpers below). The returned
// pointer, like Arena.Alloc's, is only guaranteed to alias the slot until
// the next Write; code that must revisit a slot later (e.g. resolving a
// virtual pipeline to a concrete one) should do so through GetCommands
// instead of holding onto this return value.
func (l *CommandList) Write(data Command) *CommandSlot {
	idx := int32(l.arena.Len())
	slot := l.arena.Alloc(CommandSlot{id: l.nextID, next: -1, data: data})
	l.nextID++

	if l.tailIdx < 0 {
		l.headIdx = idx
	} else {
		l.arena.At(int(l.tailIdx)).next = idx
	}
	l.tailIdx = idx

	return slot
}

// AllocSubresourceLayouts copies src into the command list's layout arena
// so an UploadTextureData command's layout slice is self-contained.
func (l *CommandList) AllocSubresourceLayouts(src []types.SubresourceLayout) []types.SubresourceLayout {
	return l.layouts.AllocSlice(src)
}

// AllocColorAttachments copies src into the command list's attachment
// arena so a BeginRenderPass command's attachment slice is self-contained.
func (l *CommandList) AllocColorAttachments(src []RenderPassColorAttachment) []RenderPassColorAttachment {
	return l.colorAttachments.AllocSlice(src)
}

// Retain adds resource to the list's retained set, keeping it alive and
// guaranteeing every command already written (or written later) may
// safely dereference a pointer to it until Reset.
func (l *CommandList) Retain(resource any) {
	l.retained = append(l.retained, resource)
}

// Retained returns every resource retained since the last Reset.
func (l *CommandList) Retained() []any {
	return l.retained
}

// Len returns the number of commands written since the last Reset.
func (l *CommandList) Len() int {
	return l.arena.Len()
}

// CommandIterator walks a CommandList's linked list in write order.
type CommandIterator struct {
	list *CommandList
	idx  int32
}

// GetCommands returns an iterator positioned at the head of the list.
func (l *CommandList) GetCommands() *CommandIterator {
	return &CommandIterator{list: l, idx: l.headIdx}
}

// Next returns the next slot and advances the iterator, or returns
// ok == false once the list is exhausted.
func (it *CommandIterator) Next() (slot *CommandSlot, ok bool) {
	if it.idx < 0 {
		return nil, false
	}
	slot = it.list.arena.At(int(it.idx))
	it.idx = slot.next
	return slot, true
}

// Reset releases every command and retained resource at once and resets
// the arena, so a replay that writes the same sequence of command sizes
// reuses the same arena storage (spec.md §8 property 1).
func (l *CommandList) Reset() {
	l.arena.Reset()
	l.layouts.Reset()
	l.colorAttachments.Reset()
	l.nextID = 0
	l.headIdx = -1
	l.tailIdx = -1
	l.retained = l.retained[:0]
}
