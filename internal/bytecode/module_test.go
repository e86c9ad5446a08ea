package bytecode

import "testing"

func TestConstantKindString(t *testing.T) {
	cases := map[ConstantKind]string{
		ConstByteArray:      "ByteArray",
		ConstString:         "String",
		ConstFunctionImport: "FunctionImport",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestConstantEntryLengthWordPacksKindAndLength(t *testing.T) {
	c := ConstantEntry{Kind: ConstString, Length: 5}
	got := c.LengthWord()
	want := uint32(ConstString)<<24 | 5
	if got != want {
		t.Fatalf("LengthWord() = %#x, want %#x", got, want)
	}
}

func TestFunctionByNameMissReturnsFalse(t *testing.T) {
	m := buildGreetModule()
	if _, ok := m.FunctionByName("missing"); ok {
		t.Fatal("FunctionByName of an unregistered name should report false")
	}
}

func TestConstantBytesReadsRawSlice(t *testing.T) {
	mb := NewModuleBuilder("m")
	idx := mb.AddString("payload")
	m := mb.Build()
	if got := string(m.ConstantBytes(idx)); got != "payload" {
		t.Fatalf("ConstantBytes = %q, want %q", got, "payload")
	}
}
