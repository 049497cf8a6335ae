// Package types defines the backend-agnostic descriptor and enum types
// shared by every layer of the rendering hardware interface:
//
//   - Backend identity (Backend, Backends, InstanceDescriptor, NativeHandle)
//   - Resource descriptors (BufferDescriptor, TextureDescriptor, SamplerDescriptor)
//   - Pipeline state (VertexState, PrimitiveState, BlendState, RenderPassDescriptor)
//   - Shader-object layout primitives (BindingRangeInfo, SubObjectRangeInfo, ContainerKind)
//   - Ray tracing descriptors (AccelerationStructureBuildInputs, RayTracingPipelineDescriptor)
//
// None of these types carry behavior beyond small, pure helper methods
// (Resolve, Contains, Size): validation and state live in core.
package types
