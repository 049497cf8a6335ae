package types

// AccelerationStructureKind distinguishes bottom-level (geometry) from
// top-level (instance) acceleration structures.
type AccelerationStructureKind uint8

const (
	AccelerationStructureKindBottomLevel AccelerationStructureKind = iota
	AccelerationStructureKindTopLevel
)

// AccelerationStructureGeometryKind describes one BLAS geometry entry.
type AccelerationStructureGeometryKind uint8

const (
	AccelerationStructureGeometryTriangles AccelerationStructureGeometryKind = iota
	AccelerationStructureGeometryAABBs
)

// AccelerationStructureBuildFlags controls BLAS/TLAS build tradeoffs.
type AccelerationStructureBuildFlags uint8

const (
	AccelerationStructureBuildFlagAllowUpdate AccelerationStructureBuildFlags = 1 << iota
	AccelerationStructureBuildFlagAllowCompaction
	AccelerationStructureBuildFlagPreferFastTrace
	AccelerationStructureBuildFlagPreferFastBuild
	AccelerationStructureBuildFlagMinimizeMemory
)

// AccelerationStructureTriangleDesc describes one triangle-geometry entry
// for a bottom-level build.
type AccelerationStructureTriangleDesc struct {
	VertexFormat TextureFormat
	VertexStride uint64
	VertexCount  uint32
	IndexFormat  IndexFormat
	IndexCount   uint32
	// Opaque hints the backend that any-hit shaders may be skipped.
	Opaque bool
}

// AccelerationStructureGeometryDesc describes one geometry entry of a
// bottom-level build; exactly one of Triangles/AABBCount applies per Kind.
type AccelerationStructureGeometryDesc struct {
	Kind      AccelerationStructureGeometryKind
	Triangles AccelerationStructureTriangleDesc
	AABBCount uint32
}

// AccelerationStructureBuildInputs describes the geometry (BLAS) or
// instance buffer (TLAS) a BuildAccelerationStructure command consumes.
// All buffers referenced here are retained by the command list (spec §4.1).
type AccelerationStructureBuildInputs struct {
	Kind       AccelerationStructureKind
	Flags      AccelerationStructureBuildFlags
	Geometries []AccelerationStructureGeometryDesc
	// InstanceCount is set for top-level builds.
	InstanceCount uint32
}

// AccelerationStructureDescriptor describes the storage for an
// acceleration structure, sized in advance via a backend size query.
type AccelerationStructureDescriptor struct {
	Label string
	Kind  AccelerationStructureKind
	Size  uint64
}

// AccelerationStructureSizes reports the storage an acceleration structure
// build requires, as queried from the backend ahead of the actual build.
type AccelerationStructureSizes struct {
	AccelerationStructureSize uint64
	ScratchSize               uint64
	UpdateScratchSize         uint64
}

// ShaderTableDescriptor describes a ray tracing shader binding table.
type ShaderTableDescriptor struct {
	Label            string
	RayGenEntryCount uint32
	MissEntryCount   uint32
	HitEntryCount    uint32
	CallableEntryCount uint32
}

// QueryType distinguishes the kind of query a QueryPool records.
type QueryType uint8

const (
	QueryTypeOcclusion QueryType = iota
	QueryTypeTimestamp
	QueryTypePipelineStatistics
	QueryTypeAccelerationStructureCompactedSize
)

// QueryPoolDescriptor describes a pool of GPU queries.
type QueryPoolDescriptor struct {
	Label string
	Type  QueryType
	Count uint32
}

// HitGroupKind distinguishes the shapes a hit group can bind.
type HitGroupKind uint8

const (
	HitGroupKindTriangles HitGroupKind = iota
	HitGroupKindProceduralAABB
)

// HitGroupDescriptor names the closest-hit/any-hit/intersection entry
// points that make up one shader binding table hit group.
type HitGroupDescriptor struct {
	Name              string
	Kind              HitGroupKind
	ClosestHitEntry   string
	AnyHitEntry       string
	IntersectionEntry string
}

// RayTracingPipelineDescriptor describes a ray tracing pipeline state,
// the RT analogue of a compute/render pipeline (spec §4.4 "shader object
// tree" binds its root signature; entry points come from Slang reflection).
type RayTracingPipelineDescriptor struct {
	Label              string
	RayGenEntry        string
	MissEntries        []string
	HitGroups          []HitGroupDescriptor
	CallableEntries    []string
	MaxRecursionDepth   uint32
	MaxPayloadSize      uint32
	MaxAttributeSize    uint32
}
