package core

import "fmt"

// pipelineBaseIdentity returns a stable string identifying a recorded
// pass's pipeline, for use as a ShaderCache base key. The pipeline field
// on Command is an opaque backend handle (spec §4.3 keeps Device free of
// a concrete pipeline type), so identity is taken from its pointer value
// via fmt's %p rather than a typed accessor.
func pipelineBaseIdentity(pipeline any) string {
	return fmt.Sprintf("%p", pipeline)
}

// resolvePipelines walks every recorded draw/dispatch command in list and
// ensures a concrete, specialized pipeline exists in the device's
// ShaderCache for each one's (pipeline, root object binding shape) pair,
// compiling missing ones with compile. This is the deferred counterpart
// to binding resources directly: recording captures the *ShaderObject*
// tree a draw will use, and specialization only happens once, here, when
// the command list is resolved for submission (spec §4.3, §8 property 6).
//
// compile receives the specialization arguments collected from the
// command's root shader object and must return the concrete backend
// pipeline handle, or an error if specialization failed. resolvePipelines
// returns the first such error, aborting the walk.
func (d *Device) resolvePipelines(list *CommandList, compile SpecializeFunc) error {
	if list == nil {
		return nil
	}

	cache := d.ShaderCache()

	it := list.GetCommands()
	for {
		slot, ok := it.Next()
		if !ok {
			break
		}
		cmd := slot.Data()
		if cmd.Pipeline == nil || cmd.RootObject == nil {
			continue
		}
		switch cmd.Kind {
		case CommandDraw, CommandDrawIndexed, CommandDrawIndirect, CommandDrawIndexedIndirect, CommandDrawMeshTasks,
			CommandDispatchCompute, CommandDispatchComputeIndirect, CommandDispatchRays:
		default:
			continue
		}

		args := cmd.RootObject.CollectRootSpecializationArgs()
		base := pipelineBaseIdentity(cmd.Pipeline)

		concrete, err := cache.GetConcretePipeline(base, args, compile)
		if err != nil {
			return fmt.Errorf("resolve pipeline for command %s: %w", cmd.Kind, err)
		}

		cmd.BindingData = concrete
	}

	return nil
}
