package bytecode

// ModuleBuilder accumulates a Module's four pools incrementally. It
// mirrors the teacher's compiler/builder split: the builder owns
// shared pool state, a FunctionBuilder is a scoped child that commits
// its finalized FunctionEntry back into the module on Finish.
type ModuleBuilder struct {
	name         string
	data         []byte
	constants    []ConstantEntry
	functions    []FunctionEntry
	instructions []Instruction

	stringIndex map[string]uint32
}

// NewModuleBuilder creates an empty builder for a module named name.
func NewModuleBuilder(name string) *ModuleBuilder {
	return &ModuleBuilder{name: name, stringIndex: make(map[string]uint32)}
}

// AddString interns s as a String-kind constant, returning its
// constant-pool index (interning avoids duplicate data-pool entries
// for repeated literals/names).
func (b *ModuleBuilder) AddString(s string) uint32 {
	if idx, ok := b.stringIndex[s]; ok {
		return idx
	}
	offset := uint32(len(b.data))
	b.data = append(b.data, s...)
	idx := uint32(len(b.constants))
	b.constants = append(b.constants, ConstantEntry{Kind: ConstString, Offset: offset, Length: uint32(len(s))})
	b.stringIndex[s] = idx
	return idx
}

// AddFunctionImport registers a FunctionImport constant naming a
// function to be resolved at load time.
func (b *ModuleBuilder) AddFunctionImport(name string) uint32 {
	nameIdx := b.AddString(name)
	idx := uint32(len(b.constants))
	entry := b.constants[nameIdx]
	entry.Kind = ConstFunctionImport
	b.constants = append(b.constants, entry)
	return idx
}

// BeginFunction opens a scoped FunctionBuilder for name, recording the
// instruction pool's current length as the function's start offset.
// Callers must call Finish on the returned builder (typically via
// defer) to commit the FunctionEntry; forgetting to do so leaves the
// function absent from the module's function table.
func (b *ModuleBuilder) BeginFunction(name string) *FunctionBuilder {
	return &FunctionBuilder{
		module:       b,
		nameConstant: b.AddString(name),
		start:        uint32(len(b.instructions)),
	}
}

// Emit appends one packed instruction to the shared instruction pool.
func (b *ModuleBuilder) Emit(op OpCode, a, b2, c byte) {
	b.instructions = append(b.instructions, NewInstruction(op, a, b2, c))
}

// Build finalizes the accumulated pools into an immutable Module.
func (b *ModuleBuilder) Build() *Module {
	return &Module{
		Name:         b.name,
		Data:         b.data,
		Constants:    b.constants,
		Functions:    b.functions,
		Instructions: b.instructions,
	}
}

// FunctionBuilder is a scoped sub-builder for one function body: every
// Emit call lands in the parent module's shared instruction pool, but
// the function's own [offset, offset+length) region is only recorded
// in the function table once Finish runs.
type FunctionBuilder struct {
	module       *ModuleBuilder
	nameConstant uint32
	start        uint32
	finished     bool
}

// Emit appends an instruction to this function's body.
func (f *FunctionBuilder) Emit(op OpCode, a, b, c byte) {
	f.module.Emit(op, a, b, c)
}

// Finish records this function's FunctionEntry. Safe to call more
// than once; only the first call has an effect, so deferring it
// unconditionally is always correct.
func (f *FunctionBuilder) Finish() {
	if f.finished {
		return
	}
	f.finished = true
	end := uint32(len(f.module.instructions))
	f.module.functions = append(f.module.functions, FunctionEntry{
		NameConstant:      f.nameConstant,
		InstructionOffset: f.start,
		InstructionLength: end - f.start,
	})
}
