package types

// ShaderStage represents a shader stage.
type ShaderStage uint16

const (
	// ShaderStageNone represents no shader stage.
	ShaderStageNone ShaderStage = 0
	// ShaderStageVertex is the vertex shader stage.
	ShaderStageVertex ShaderStage = 1 << iota
	// ShaderStageFragment is the fragment shader stage.
	ShaderStageFragment
	// ShaderStageCompute is the compute shader stage.
	ShaderStageCompute
	// ShaderStageRayGeneration is a ray tracing ray-generation stage.
	ShaderStageRayGeneration
	// ShaderStageMiss is a ray tracing miss stage.
	ShaderStageMiss
	// ShaderStageClosestHit is a ray tracing closest-hit stage.
	ShaderStageClosestHit
	// ShaderStageAnyHit is a ray tracing any-hit stage.
	ShaderStageAnyHit
	// ShaderStageIntersection is a ray tracing intersection stage.
	ShaderStageIntersection
	// ShaderStageCallable is a ray tracing callable stage.
	ShaderStageCallable
	// ShaderStageMesh is a mesh-shading mesh stage.
	ShaderStageMesh
	// ShaderStageAmplification is a mesh-shading amplification/task stage.
	ShaderStageAmplification
)

// ShaderStages is a combination of shader stages.
type ShaderStages = ShaderStage

const (
	// ShaderStagesVertexFragment includes vertex and fragment.
	ShaderStagesVertexFragment = ShaderStageVertex | ShaderStageFragment
	// ShaderStagesAll includes every stage this module recognizes.
	ShaderStagesAll = ShaderStageVertex | ShaderStageFragment | ShaderStageCompute |
		ShaderStageRayGeneration | ShaderStageMiss | ShaderStageClosestHit |
		ShaderStageAnyHit | ShaderStageIntersection | ShaderStageCallable |
		ShaderStageMesh | ShaderStageAmplification
	// ShaderStagesRayTracing includes every ray tracing stage.
	ShaderStagesRayTracing = ShaderStageRayGeneration | ShaderStageMiss |
		ShaderStageClosestHit | ShaderStageAnyHit | ShaderStageIntersection | ShaderStageCallable
)

// EntryPointInfo names one entry point exposed by a linked Slang program,
// as reported by Slang reflection (spec §4.5/§6 "Slang session").
type EntryPointInfo struct {
	Name  string
	Stage ShaderStage
	Index uint32
}

// ShaderModuleDescriptor describes a shader module.
type ShaderModuleDescriptor struct {
	// Label is a debug label.
	Label string
	// Source is the shader source (WGSL, SPIR-V, etc.).
	Source ShaderSource
}

// ShaderSource represents shader source code.
type ShaderSource interface {
	shaderSource()
}

// ShaderSourceWGSL is WGSL shader source.
type ShaderSourceWGSL struct {
	// Code is the WGSL source code.
	Code string
}

func (ShaderSourceWGSL) shaderSource() {}

// ShaderSourceSPIRV is SPIR-V shader source.
type ShaderSourceSPIRV struct {
	// Code is the SPIR-V bytecode.
	Code []uint32
}

func (ShaderSourceSPIRV) shaderSource() {}

// ShaderSourceGLSL is GLSL shader source.
type ShaderSourceGLSL struct {
	// Code is the GLSL source code.
	Code string
	// Stage is the shader stage.
	Stage ShaderStage
	// Defines is a map of preprocessor defines.
	Defines map[string]string
}

func (ShaderSourceGLSL) shaderSource() {}

// ProgrammableStage describes a programmable shader stage.
type ProgrammableStage struct {
	// EntryPoint is the entry point function name.
	EntryPoint string
	// Constants are pipeline-overridable constants.
	Constants map[string]float64
}
