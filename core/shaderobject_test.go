package core

import (
	"errors"
	"testing"

	"github.com/gogpu/rhi/types"
)

// fakeSlangSession is an in-memory SlangSession for tests, assigning
// witness-table ids in first-seen order like the real Slang session would
// within one specialization.
type fakeSlangSession struct {
	ids   map[[2]string]uint32
	sizes map[string]uint32
	next  uint32
}

func newFakeSlangSession() *fakeSlangSession {
	return &fakeSlangSession{ids: make(map[[2]string]uint32), sizes: make(map[string]uint32)}
}

func (s *fakeSlangSession) WitnessTableID(concreteType, existentialType string) (uint32, error) {
	key := [2]string{concreteType, existentialType}
	if id, ok := s.ids[key]; ok {
		return id, nil
	}
	id := s.next
	s.next++
	s.ids[key] = id
	return id, nil
}

func (s *fakeSlangSession) ConcreteTypeSize(concreteType string) (uint32, error) {
	if size, ok := s.sizes[concreteType]; ok {
		return size, nil
	}
	return 0, errors.New("fakeSlangSession: unknown type " + concreteType)
}

func existentialLayout(typeSize uint32) *types.ShaderObjectLayout {
	return &types.ShaderObjectLayout{
		TypeName:       "IMaterial",
		SlotCount:      0,
		SubObjectCount: 4,
		BindingRanges: []types.BindingRangeInfo{
			{BindingType: types.BindingTypeExistentialValue, Count: 4, SubObjectIndex: 0, IsSpecializable: true},
		},
		ExistentialTypeSize: typeSize,
	}
}

func concreteLayout(name string, ordinarySize uint32) *types.ShaderObjectLayout {
	return &types.ShaderObjectLayout{TypeName: name, OrdinaryDataSize: ordinarySize}
}

func TestShaderObject_SetData_Finalize_Latches(t *testing.T) {
	layout := &types.ShaderObjectLayout{OrdinaryDataSize: 16}
	obj := NewShaderObject(layout, nil)

	if err := obj.SetData(BindingOffset{UniformOffset: 0}, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetData before finalize: %v", err)
	}
	if obj.Finalized() {
		t.Fatal("object reports finalized before Finalize is called")
	}

	if err := obj.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !obj.Finalized() {
		t.Fatal("Finalized() false after Finalize")
	}

	// Every mutator must now fail with ErrShaderObjectFinalized.
	if err := obj.SetData(BindingOffset{UniformOffset: 0}, []byte{9}); !errors.Is(err, ErrShaderObjectFinalized) {
		t.Errorf("SetData after finalize = %v, want ErrShaderObjectFinalized", err)
	}
	if err := obj.SetDescriptorHandle(BindingOffset{}, 42); !errors.Is(err, ErrShaderObjectFinalized) {
		t.Errorf("SetDescriptorHandle after finalize = %v, want ErrShaderObjectFinalized", err)
	}
	if err := obj.SetBinding(BindingOffset{}, ResourceBinding{}); !errors.Is(err, ErrShaderObjectFinalized) {
		t.Errorf("SetBinding after finalize = %v, want ErrShaderObjectFinalized", err)
	}
	if err := obj.SetObject(BindingOffset{}, nil); !errors.Is(err, ErrShaderObjectFinalized) {
		t.Errorf("SetObject after finalize = %v, want ErrShaderObjectFinalized", err)
	}
	if err := obj.SetSpecializationOverride(0, SpecializationArg{TypeName: "X"}); !errors.Is(err, ErrShaderObjectFinalized) {
		t.Errorf("SetSpecializationOverride after finalize = %v, want ErrShaderObjectFinalized", err)
	}

	// Calling Finalize again is a no-op, not an error.
	if err := obj.Finalize(); err != nil {
		t.Errorf("second Finalize: %v", err)
	}
}

func TestShaderObject_SetBinding_ResolvesSlotAndTracksVersion(t *testing.T) {
	layout := &types.ShaderObjectLayout{
		SlotCount: 2,
		BindingRanges: []types.BindingRangeInfo{
			{BindingType: types.BindingTypeBuffer, Count: 1, SlotIndex: 0},
			{BindingType: types.BindingTypeTexture, Count: 1, SlotIndex: 1},
		},
	}
	obj := NewShaderObject(layout, nil)
	before := obj.Version()

	buf := &Buffer{}
	err := obj.SetBinding(BindingOffset{BindingRangeIndex: 0}, ResourceBinding{
		Kind:   ResourceBindingBuffer,
		Buffer: buf,
	})
	if err != nil {
		t.Fatalf("SetBinding: %v", err)
	}
	if obj.Version() <= before {
		t.Error("SetBinding did not bump version")
	}

	if err := obj.SetBinding(BindingOffset{BindingRangeIndex: 5}, ResourceBinding{}); err == nil {
		t.Error("expected error for out-of-range binding range index")
	}
}

func TestShaderObject_SetObject_ExistentialBinding_WitnessTableLookup(t *testing.T) {
	slang := newFakeSlangSession()
	root := NewShaderObject(existentialLayout(64), slang)

	// A concrete type whose ordinary data fits the existential payload.
	concrete := NewShaderObject(concreteLayout("SolidColorMaterial", 8), slang)
	if err := concrete.SetData(BindingOffset{UniformOffset: 0}, []byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("SetData on concrete: %v", err)
	}

	if err := root.SetObject(BindingOffset{BindingRangeIndex: 0, BindingArrayIndex: 0}, concrete); err != nil {
		t.Fatalf("SetObject: %v", err)
	}

	if _, ok := slang.ids[[2]string{"SolidColorMaterial", "IMaterial"}]; !ok {
		t.Error("expected a witness-table lookup for (SolidColorMaterial, IMaterial)")
	}

	// Payload-fit rule: 8 bytes fits within the 48-byte payload (64 - 16
	// header), so the concrete data should have been mirrored in.
	payloadOffset := existentialHeaderSize
	if got := root.data[payloadOffset : payloadOffset+8]; string(got) != string(concrete.data) {
		t.Errorf("payload not mirrored: got %v, want %v", got, concrete.data)
	}
}

func TestShaderObject_SetObject_ExistentialBinding_PayloadOverflowRejected(t *testing.T) {
	slang := newFakeSlangSession()
	// Existential slot sized for only 16 bytes of payload (32 total).
	root := NewShaderObject(existentialLayout(32), slang)

	concrete := NewShaderObject(concreteLayout("BigMaterial", 64), slang)
	if err := concrete.SetData(BindingOffset{UniformOffset: 0}, make([]byte, 64)); err != nil {
		t.Fatalf("SetData on concrete: %v", err)
	}

	err := root.SetObject(BindingOffset{BindingRangeIndex: 0, BindingArrayIndex: 0}, concrete)
	if err == nil {
		t.Fatal("expected an error binding a concrete type that overflows the existential payload")
	}

	// Bind-time rejection (spec §9 open question 3, option a) means no
	// witness-table lookup or data growth happened for the rejected bind.
	if len(slang.ids) != 0 {
		t.Errorf("expected no witness-table lookup on a rejected bind, got %d", len(slang.ids))
	}
	if len(root.data) != 0 {
		t.Errorf("root.data grew to %d bytes on a rejected bind, want 0", len(root.data))
	}
}

func TestShaderObject_CollectSpecializationArgs_Deterministic(t *testing.T) {
	slang := newFakeSlangSession()
	layout := existentialLayout(64)
	layout.BindingRanges[0].Count = 1
	layout.SubObjectCount = 1

	build := func() *ShaderObject {
		root := NewShaderObject(layout, slang)
		concrete := NewShaderObject(concreteLayout("SolidColorMaterial", 8), slang)
		_ = root.SetObject(BindingOffset{BindingRangeIndex: 0}, concrete)
		return root
	}

	a := build().CollectSpecializationArgs()
	b := build().CollectSpecializationArgs()

	if len(a) != len(b) || len(a) != 1 {
		t.Fatalf("CollectSpecializationArgs lengths = %d, %d, want 1, 1", len(a), len(b))
	}
	if a[0] != b[0] {
		t.Errorf("CollectSpecializationArgs not deterministic: %v != %v", a[0], b[0])
	}
	if a[0].TypeName != "SolidColorMaterial" {
		t.Errorf("TypeName = %q, want SolidColorMaterial", a[0].TypeName)
	}
}

func TestShaderObject_CollectSpecializationArgs_OverrideWins(t *testing.T) {
	slang := newFakeSlangSession()
	layout := existentialLayout(64)
	layout.BindingRanges[0].Count = 1
	layout.SubObjectCount = 1

	root := NewShaderObject(layout, slang)
	concrete := NewShaderObject(concreteLayout("SolidColorMaterial", 8), slang)
	_ = root.SetObject(BindingOffset{BindingRangeIndex: 0}, concrete)

	if err := root.SetSpecializationOverride(0, SpecializationArg{TypeName: "ForcedType"}); err != nil {
		t.Fatalf("SetSpecializationOverride: %v", err)
	}

	args := root.CollectSpecializationArgs()
	if len(args) != 1 || args[0].TypeName != "ForcedType" {
		t.Errorf("CollectSpecializationArgs = %v, want [{ForcedType}]", args)
	}
}

func TestShaderObject_ExistentialArgsForRange_PerArrayPosition(t *testing.T) {
	slang := newFakeSlangSession()
	layout := existentialLayout(64) // Count: 4, SubObjectCount: 4
	root := NewShaderObject(layout, slang)

	// Bind concrete materials at positions 0 and 2 only; 1 and 3 stay unbound.
	a := NewShaderObject(concreteLayout("MaterialA", 8), slang)
	c := NewShaderObject(concreteLayout("MaterialC", 8), slang)
	if err := root.SetObject(BindingOffset{BindingRangeIndex: 0, BindingArrayIndex: 0}, a); err != nil {
		t.Fatalf("SetObject[0]: %v", err)
	}
	if err := root.SetObject(BindingOffset{BindingRangeIndex: 0, BindingArrayIndex: 2}, c); err != nil {
		t.Fatalf("SetObject[2]: %v", err)
	}

	args := root.CollectSpecializationArgs()
	want := []string{"MaterialA", DynamicSpecializationType, "MaterialC", DynamicSpecializationType}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d: %v", len(args), len(want), args)
	}
	for i, w := range want {
		if args[i].TypeName != w {
			t.Errorf("args[%d].TypeName = %q, want %q", i, args[i].TypeName, w)
		}
	}
}

func TestShaderObject_CollectRootSpecializationArgs_GlobalThenEntryPoints(t *testing.T) {
	slang := newFakeSlangSession()
	globalLayout := existentialLayout(64)
	globalLayout.BindingRanges[0].Count = 1
	globalLayout.SubObjectCount = 1

	epLayout := existentialLayout(64)
	epLayout.BindingRanges[0].Count = 1
	epLayout.SubObjectCount = 1

	root := NewRootShaderObject(globalLayout, []*types.ShaderObjectLayout{epLayout}, slang)

	globalMat := NewShaderObject(concreteLayout("GlobalMaterial", 8), slang)
	if err := root.SetObject(BindingOffset{BindingRangeIndex: 0}, globalMat); err != nil {
		t.Fatalf("SetObject on root: %v", err)
	}

	epMat := NewShaderObject(concreteLayout("EntryPointMaterial", 8), slang)
	ep := root.EntryPoint(0)
	if ep == nil {
		t.Fatal("EntryPoint(0) returned nil")
	}
	if err := ep.SetObject(BindingOffset{BindingRangeIndex: 0}, epMat); err != nil {
		t.Fatalf("SetObject on entry point: %v", err)
	}

	args := root.CollectRootSpecializationArgs()
	if len(args) != 2 {
		t.Fatalf("CollectRootSpecializationArgs returned %d args, want 2", len(args))
	}
	if args[0].TypeName != "GlobalMaterial" {
		t.Errorf("args[0] = %q, want GlobalMaterial (global scope first)", args[0].TypeName)
	}
	if args[1].TypeName != "EntryPointMaterial" {
		t.Errorf("args[1] = %q, want EntryPointMaterial (entry point second)", args[1].TypeName)
	}
}

func TestShaderObject_EntryPoint_OutOfRange(t *testing.T) {
	root := NewRootShaderObject(&types.ShaderObjectLayout{}, nil, nil)
	if ep := root.EntryPoint(0); ep != nil {
		t.Error("EntryPoint(0) on a root with no entry points should be nil")
	}
	if ep := root.EntryPoint(-1); ep != nil {
		t.Error("EntryPoint(-1) should be nil")
	}
}
