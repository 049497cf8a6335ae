package core

import (
	"fmt"

	"github.com/gogpu/rhi/types"
)

// Program is a linked shader program: the root parameter-block layout plus
// one layout per entry point, mirroring spec.md §3's "LinkedProgram". It is
// the static, backend-independent description a Pipeline specializes
// against; it carries no HAL handle of its own.
type Program struct {
	Name string

	// RootLayout is the top-level parameter block's shader-object layout.
	RootLayout *types.ShaderObjectLayout

	// EntryPointLayouts holds one layout per entry point, in declaration
	// order, mirrored onto a root ShaderObject's entry points (spec §4.4.4).
	EntryPointLayouts []*types.ShaderObjectLayout

	// Specializable reports whether this program contains any existential
	// (interface-typed) binding range, i.e. whether a concrete pipeline can
	// only be produced once its root shader object's bindings are known
	// (spec §3 "isVirtual").
	Specializable bool

	// Base is the backend-specific unspecialized module set (DXIL/SPIR-V/
	// MSL blobs, or an equivalent compiler handle) a SpecializeFunc compiles
	// against the collected specialization arguments.
	Base any
}

// Pipeline is a fixed-function-state-plus-program pairing bound by
// CoreRenderPassEncoder.BindPipeline / CoreComputePassEncoder.BindPipeline
// (spec §4.2, §3 "Pipeline"/"VirtualPipeline"). A Pipeline whose program is
// not specializable already denotes one concrete backend pipeline;
// otherwise it stands for a family of concrete pipelines keyed by
// specialization arguments, resolved lazily when the command list
// containing its draws is resolved.
type Pipeline struct {
	Label string

	// Program is the linked program this pipeline's concrete pipelines are
	// specialized from.
	Program *Program

	// Concrete is the already-compiled backend pipeline handle for a
	// pipeline whose Program is not specializable. Nil for a virtual
	// pipeline, whose concrete handle is resolved per root-object shape
	// instead.
	Concrete any
}

// IsVirtual reports whether p denotes a family of concrete pipelines rather
// than a single one, per spec §3's "isVirtual" predicate: true whenever its
// program carries an existential binding range that participates in
// specialization.
func (p *Pipeline) IsVirtual() bool {
	return p.Program != nil && p.Program.Specializable
}

// NewPipeline wraps program without a precompiled handle. The pipeline is
// virtual (specialized the first time it is bound and drawn against) only
// when program.Specializable is set.
func NewPipeline(label string, program *Program) *Pipeline {
	return &Pipeline{Label: label, Program: program}
}

// NewConcretePipelineHandle wraps an already-compiled, non-specializable
// backend pipeline. Its handle is returned as-is by GetConcretePipeline,
// never touching the shader cache.
func NewConcretePipelineHandle(label string, program *Program, handle any) *Pipeline {
	return &Pipeline{Label: label, Program: program, Concrete: handle}
}

// SetSlangSession installs the Slang collaborator used to resolve
// existential witness tables and concrete-type sizes for shader objects
// this device creates (spec §4.4's "external Slang session" non-goal).
func (d *Device) SetSlangSession(slang SlangSession) {
	d.slang = slang
}

// CreateRootShaderObject allocates the root binding-tree node for program,
// with one child per entry point, ready for SetData/SetBinding/SetObject
// calls before a draw or dispatch (spec §4.2 "bindPipeline(pipeline) ->
// ShaderObject*").
func (d *Device) CreateRootShaderObject(program *Program) *ShaderObject {
	return NewRootShaderObject(program.RootLayout, program.EntryPointLayouts, d.slang)
}

// GetConcretePipeline resolves pipeline to a concrete backend handle for
// args, following spec §4.3's Device.getConcretePipeline contract:
//  1. a non-virtual pipeline's handle is returned directly, bypassing the
//     shader cache entirely;
//  2. otherwise pipeline's own identity (stable across draws that bind the
//     same *Pipeline) and args are combined into a cache key;
//  3. a cache hit returns the memoized handle;
//  4. a miss calls compile, caching (and, with a persistent cache
//     installed, writing through) the result before returning it.
//
// resolvePipelines, which runs once per CommandList at Finish, does not go
// through this method: it calls the ShaderCache directly for every recorded
// draw or dispatch.
func (d *Device) GetConcretePipeline(pipeline *Pipeline, args []SpecializationArg, compile SpecializeFunc) (*ConcretePipeline, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("core: GetConcretePipeline: nil pipeline")
	}
	if !pipeline.IsVirtual() {
		return &ConcretePipeline{Handle: pipeline.Concrete}, nil
	}
	base := pipelineBaseIdentity(pipeline)
	return d.ShaderCache().GetConcretePipeline(base, args, compile)
}
