package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a Module's function table and instruction pool
// as human-readable text, one function per section and one
// instruction per line, in the module manifest's spirit of a stable
// textual form suitable for golden-file comparison.
func Disassemble(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Module %s\n", m.Name)
	for _, fn := range m.Functions {
		name := m.ConstantString(fn.NameConstant)
		fmt.Fprintf(&sb, "func %s:\n", name)
		end := fn.InstructionOffset + fn.InstructionLength
		for pc := fn.InstructionOffset; pc < end; pc++ {
			in := m.Instructions[pc]
			fmt.Fprintf(&sb, "  %04d %s\n", pc-fn.InstructionOffset, disasmOne(m, in))
		}
	}
	return sb.String()
}

func disasmOne(m *Module, in Instruction) string {
	op, a, b, c := in.Op(), in.A(), in.B(), in.C()
	switch op {
	case OpStoreConstant, OpStoreConstantLength, OpStoreFunction:
		operand := DecodeOperand(b)
		if operand.Immediate && operand.Index < len(m.Constants) {
			return fmt.Sprintf("%-20s r%d, const[%d]", op, a, operand.Index)
		}
		return fmt.Sprintf("%-20s r%d, r%d", op, a, operand.Index)
	case OpCall:
		return fmt.Sprintf("%-20s r%d, argc=%d", op, a, b)
	case OpReturn:
		return fmt.Sprintf("%-20s", op)
	default:
		return fmt.Sprintf("%-20s %d, %d, %d", op, a, b, c)
	}
}
