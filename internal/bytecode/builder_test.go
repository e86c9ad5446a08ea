package bytecode

import "testing"

func buildGreetModule() *Module {
	mb := NewModuleBuilder("greet")
	greeting := mb.AddString("hello")
	fb := mb.BeginFunction("main")
	fb.Emit(OpStoreConstant, 0, EncodeImmediateOperand(int(greeting)), 0)
	fb.Emit(OpReturn, 0, 0, 0)
	fb.Finish()
	return mb.Build()
}

func TestModuleBuilderFinalizesFunctionEntry(t *testing.T) {
	m := buildGreetModule()

	fn, ok := m.FunctionByName("main")
	if !ok {
		t.Fatalf("expected function %q to be registered", "main")
	}
	if fn.InstructionLength != 2 {
		t.Fatalf("expected 2 instructions, got %d", fn.InstructionLength)
	}
	if m.ConstantString(0) != "hello" {
		t.Fatalf("expected constant 0 to be %q, got %q", "hello", m.ConstantString(0))
	}
}

func TestModuleBuilderInternsRepeatedStrings(t *testing.T) {
	mb := NewModuleBuilder("m")
	a := mb.AddString("x")
	b := mb.AddString("x")
	if a != b {
		t.Fatalf("expected repeated AddString to intern, got indices %d and %d", a, b)
	}
}

func TestFunctionBuilderFinishIsIdempotent(t *testing.T) {
	mb := NewModuleBuilder("m")
	fb := mb.BeginFunction("f")
	fb.Emit(OpReturn, 0, 0, 0)
	fb.Finish()
	fb.Finish()
	m := mb.Build()
	if len(m.Functions) != 1 {
		t.Fatalf("expected exactly one FunctionEntry after repeated Finish, got %d", len(m.Functions))
	}
}

func TestDisassembleRendersOneLinePerInstruction(t *testing.T) {
	out := Disassemble(buildGreetModule())
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
}
