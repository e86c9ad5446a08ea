package bytecode

import "testing"

func TestInstructionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		op   OpCode
		a    byte
		b    byte
		c    byte
	}{
		{"StoreConstant into slot 2 from const 5", OpStoreConstant, 2, EncodeImmediateOperand(5), 0},
		{"StoreFunction into slot 0", OpStoreFunction, 0, EncodeImmediateOperand(31), 0},
		{"Return carries no operands", OpReturn, 0, 0, 0},
		{"slot-to-slot operand form", OpStoreConstantLength, 10, EncodeSlotOperand(63), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInstruction(tt.op, tt.a, tt.b, tt.c)
			if in.Op() != tt.op || in.A() != tt.a || in.B() != tt.b || in.C() != tt.c {
				t.Fatalf("round trip mismatch: got (%s,%d,%d,%d)", in.Op(), in.A(), in.B(), in.C())
			}
			if NewInstruction(in.Op(), in.A(), in.B(), in.C()).ByteCode() != in.ByteCode() {
				t.Fatalf("Instruction::new(bc).byte_code() != bc for %v", tt.name)
			}
		})
	}
}

func TestDecodeOperand(t *testing.T) {
	slot := DecodeOperand(EncodeSlotOperand(17))
	if slot.Immediate || slot.Index != 17 {
		t.Fatalf("expected slot operand 17, got %+v", slot)
	}

	imm := DecodeOperand(EncodeImmediateOperand(9))
	if !imm.Immediate || imm.Index != 9 {
		t.Fatalf("expected immediate operand 9, got %+v", imm)
	}
}

func TestOpCodeStringIsStable(t *testing.T) {
	names := map[OpCode]string{
		OpStoreImmediate:      "StoreImmediate",
		OpStoreConstant:       "StoreConstant",
		OpStoreConstantLength: "StoreConstantLength",
		OpStoreFunction:       "StoreFunction",
		OpCall:                "Call",
		OpReturn:              "Return",
	}
	for op, want := range names {
		if got := op.String(); got != want {
			t.Errorf("OpCode(%d).String() = %q, want %q", op, got, want)
		}
	}
	if got := opCodeCount.String(); got != "Unknown" {
		t.Errorf("out-of-range OpCode.String() = %q, want %q", got, "Unknown")
	}
}
