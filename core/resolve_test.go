package core

import (
	"fmt"
	"testing"

	"github.com/gogpu/rhi/types"
)

func simpleLayout(typeName string) *types.ShaderObjectLayout {
	return &types.ShaderObjectLayout{TypeName: typeName}
}

func TestResolvePipelines_CompilesDrawAndDispatchOnce(t *testing.T) {
	d := &Device{}

	list := NewCommandList(4)
	root := NewShaderObject(simpleLayout("Material"), nil)

	pipelineA := &struct{ name string }{"pipelineA"}
	list.Write(Command{Kind: CommandDraw, Pipeline: pipelineA, RootObject: root, VertexCount: 3})
	list.Write(Command{Kind: CommandDispatchCompute, Pipeline: pipelineA, RootObject: root, GroupCountX: 1})
	// A non-draw/dispatch command with a pipeline set should be skipped.
	list.Write(Command{Kind: CommandCopyBuffer, Pipeline: pipelineA, RootObject: root})

	var compiles int
	compile := func(args []SpecializationArg) (any, error) {
		compiles++
		return fmt.Sprintf("compiled#%d", compiles), nil
	}

	if err := d.resolvePipelines(list, compile); err != nil {
		t.Fatalf("resolvePipelines: %v", err)
	}

	if compiles != 1 {
		t.Fatalf("compiles = %d, want 1 (draw and dispatch share the same pipeline+root shape)", compiles)
	}

	it := list.GetCommands()
	var seen int
	for {
		slot, ok := it.Next()
		if !ok {
			break
		}
		cmd := slot.Data()
		if cmd.Kind == CommandCopyBuffer {
			if cmd.BindingData != nil {
				t.Error("non-draw/dispatch command should not have been resolved")
			}
			continue
		}
		concrete, ok := cmd.BindingData.(*ConcretePipeline)
		if !ok {
			t.Fatalf("command %s: BindingData = %v, want *ConcretePipeline", cmd.Kind, cmd.BindingData)
		}
		if concrete.Handle != "compiled#1" {
			t.Errorf("command %s: Handle = %v, want compiled#1", cmd.Kind, concrete.Handle)
		}
		seen++
	}
	if seen != 2 {
		t.Fatalf("resolved %d commands, want 2", seen)
	}
}

func TestResolvePipelines_NilListIsNoop(t *testing.T) {
	d := &Device{}
	if err := d.resolvePipelines(nil, func(args []SpecializationArg) (any, error) {
		t.Fatal("compile should not be called for a nil list")
		return nil, nil
	}); err != nil {
		t.Fatalf("resolvePipelines(nil) = %v, want nil", err)
	}
}

func TestResolvePipelines_PropagatesCompileError(t *testing.T) {
	d := &Device{}
	list := NewCommandList(1)
	root := NewShaderObject(simpleLayout("Material"), nil)
	list.Write(Command{Kind: CommandDraw, Pipeline: &struct{}{}, RootObject: root})

	wantErr := fmt.Errorf("compile failed")
	err := d.resolvePipelines(list, func(args []SpecializationArg) (any, error) {
		return nil, wantErr
	})
	if err == nil {
		t.Fatal("expected an error from a failing compile func")
	}
}
