// Package vm executes Felico bytecode modules: it merges one or more
// compiled modules into contiguous pools, locates "main", and runs a
// fetch-dispatch-advance loop over a flat value stack (spec.md §4.8).
package vm

import (
	"fmt"

	"github.com/felico-lang/felico/internal/bytecode"
)

// Slot is the VM's 64-bit value cell; only the core opcodes that carry
// operational semantics are implemented (StoreConstant,
// StoreConstantLength, StoreFunction, Return), so Slot only needs to
// represent strings, byte-lengths, and function handles today.
type Slot struct {
	Kind     SlotKind
	Str      string
	Int      int64
	FuncName string
}

// SlotKind tags a Slot's active field.
type SlotKind byte

const (
	SlotEmpty SlotKind = iota
	SlotString
	SlotInt
	SlotFunction
)

const defaultStackSlots = 1024

// Frame is one call-stack entry: the index of the function it is
// executing (spec.md §4.8).
type Frame struct {
	FunctionIndex int
	ReturnPC      int
	Base          int
}

// VM holds per-thread execution state: merged constant/instruction
// pools, a name->function-index map, the value stack, and the call
// stack.
type VM struct {
	name      string
	data      []byte
	constants []bytecode.ConstantEntry
	functions []bytecode.FunctionEntry
	code      []bytecode.Instruction
	byName    map[string]int

	stack []Slot
	base  int
	pc    int
	calls []Frame
}

// New creates a VM with an empty program; Load one or more modules
// before calling Run.
func New() *VM {
	return &VM{byName: make(map[string]int), stack: make([]Slot, defaultStackSlots)}
}

// Load merges m's pools into the VM's contiguous pools, rewriting
// constant indices and function-table offsets so instructions copied
// from m keep referring to the same logical constants and functions.
func (v *VM) Load(m *bytecode.Module) error {
	dataBase := uint32(len(v.data))
	v.data = append(v.data, m.Data...)

	constBase := uint32(len(v.constants))
	for _, c := range m.Constants {
		c.Offset += dataBase
		v.constants = append(v.constants, c)
	}

	codeBase := uint32(len(v.code))
	for _, in := range m.Instructions {
		switch in.Op() {
		case bytecode.OpStoreConstant, bytecode.OpStoreConstantLength, bytecode.OpStoreFunction:
			if operand := bytecode.DecodeOperand(in.B()); operand.Immediate {
				idx := operand.Index + int(constBase)
				if idx > 31 {
					return fmt.Errorf("vm: merged constant index %d does not fit an immediate operand", idx)
				}
				in = bytecode.NewInstruction(in.Op(), in.A(), bytecode.EncodeImmediateOperand(idx), in.C())
			}
		}
		v.code = append(v.code, in)
	}

	for _, fn := range m.Functions {
		name := m.ConstantString(fn.NameConstant)
		entry := bytecode.FunctionEntry{
			NameConstant:      fn.NameConstant + constBase,
			InstructionOffset: fn.InstructionOffset + codeBase,
			InstructionLength: fn.InstructionLength,
		}
		idx := len(v.functions)
		v.functions = append(v.functions, entry)
		if _, exists := v.byName[name]; exists {
			return fmt.Errorf("vm: duplicate function %q", name)
		}
		v.byName[name] = idx
	}
	return nil
}

func (v *VM) constantString(index uint32) string {
	c := v.constants[index]
	return string(v.data[c.Offset : c.Offset+c.Length])
}

// Run locates "main" and executes it to completion, returning the
// value left in its base slot or an error describing the first
// failure encountered (spec.md §4.8: unknown function at entry,
// unknown constant index, unimplemented opcode).
func (v *VM) Run() (Slot, error) {
	idx, ok := v.byName["main"]
	if !ok {
		return Slot{}, fmt.Errorf("vm: unknown function %q", "main")
	}
	return v.call(idx)
}

func (v *VM) call(functionIndex int) (Slot, error) {
	fn := v.functions[functionIndex]
	base := v.base
	pc := int(fn.InstructionOffset)
	end := pc + int(fn.InstructionLength)

	for pc < end {
		in := v.code[pc]
		pc++
		switch in.Op() {
		case bytecode.OpStoreConstant:
			dst, operand := int(in.A()), bytecode.DecodeOperand(in.B())
			if !operand.Immediate || operand.Index >= len(v.constants) {
				return Slot{}, fmt.Errorf("vm: unknown constant index %d", operand.Index)
			}
			v.setSlot(base, dst, Slot{Kind: SlotString, Str: v.constantString(uint32(operand.Index))})
		case bytecode.OpStoreConstantLength:
			dst, operand := int(in.A()), bytecode.DecodeOperand(in.B())
			if !operand.Immediate || operand.Index >= len(v.constants) {
				return Slot{}, fmt.Errorf("vm: unknown constant index %d", operand.Index)
			}
			v.setSlot(base, dst, Slot{Kind: SlotInt, Int: int64(v.constants[operand.Index].Length)})
		case bytecode.OpStoreFunction:
			dst, operand := int(in.A()), bytecode.DecodeOperand(in.B())
			if !operand.Immediate || operand.Index >= len(v.constants) {
				return Slot{}, fmt.Errorf("vm: unknown constant index %d", operand.Index)
			}
			v.setSlot(base, dst, Slot{Kind: SlotFunction, FuncName: v.constantString(uint32(operand.Index))})
		case bytecode.OpReturn:
			return v.getSlot(base, 0), nil
		default:
			return Slot{}, fmt.Errorf("vm: opcode not yet implemented: %s", in.Op())
		}
	}
	return v.getSlot(base, 0), nil
}

func (v *VM) setSlot(base, offset int, s Slot) {
	idx := base + offset
	for idx >= len(v.stack) {
		v.stack = append(v.stack, Slot{})
	}
	v.stack[idx] = s
}

func (v *VM) getSlot(base, offset int) Slot {
	idx := base + offset
	if idx >= len(v.stack) {
		return Slot{}
	}
	return v.stack[idx]
}
