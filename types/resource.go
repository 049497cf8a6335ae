package types

// ResourceState describes how a resource is currently being used by the
// GPU timeline. Every Buffer/Texture descriptor carries a DefaultState;
// SetBufferState/SetTextureState commands (core/commandlist.go) transition
// a resource between states, emitting backend barriers.
type ResourceState uint32

const (
	ResourceStateUndefined ResourceState = 0
)

const (
	ResourceStateGeneral ResourceState = 1 << iota
	ResourceStateCopySource
	ResourceStateCopyDest
	ResourceStateVertexBuffer
	ResourceStateIndexBuffer
	ResourceStateConstantBuffer
	ResourceStateIndirectArgument
	ResourceStateShaderResource
	ResourceStateUnorderedAccess
	ResourceStateRenderTarget
	ResourceStateDepthWrite
	ResourceStateDepthRead
	ResourceStatePresent
	ResourceStateAccelerationStructure
	ResourceStateResolveSource
	ResourceStateResolveDest
)

// Contains reports whether every bit in other is set in s.
func (s ResourceState) Contains(other ResourceState) bool {
	return s&other == other
}

// kRemainingTextureSize, used in SubresourceRange/extent fields, means
// "everything from the given base to the end of the resource."
const KRemainingTextureSize uint32 = 0xFFFFFFFF

// MemoryType describes the heap a resource's backing memory is allocated
// from, mirroring the upload/device/readback split every backend exposes.
type MemoryType uint8

const (
	// MemoryTypeDevice is fast device-local memory, not CPU visible.
	MemoryTypeDevice MemoryType = iota
	// MemoryTypeUpload is CPU-write, GPU-read staging memory.
	MemoryTypeUpload
	// MemoryTypeReadback is GPU-write, CPU-read staging memory.
	MemoryTypeReadback
)
