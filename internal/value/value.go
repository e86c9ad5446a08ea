// Package value implements Felico's tree-walking interpreter value
// model: a tagged union plus callables, struct instances, symbol maps,
// and the runtime environment chain (spec.md §3, §4.5).
package value

import (
	"strconv"
	"strings"

	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/types"
)

// Kind tags a Value's active member.
type Kind int

const (
	KindUnit Kind = iota
	KindString
	KindBool
	KindF64
	KindI64
	KindCallable
	KindType
	KindStruct
	KindSymbolMap
	KindReturn
	KindPanic
)

// Value is Felico's tagged runtime value. Only the field matching Kind
// is meaningful.
type Value struct {
	Kind Kind
	Type *types.Type

	Str  string
	Bool bool
	F64  float64
	I64  int64

	Callable  *Callable
	TypeValue *types.Type
	Struct    *StructInstance
	SymbolMap *SymbolMap

	// Return/Panic wrap a control-flow signal as a value (spec.md §9):
	// Inner is the returned value; PanicRecord is the captured stack.
	Inner       *Value
	PanicRecord *diag.PanicRecord
}

func Unit() Value                  { return Value{Kind: KindUnit, Type: types.UnitType} }
func String(s string) Value        { return Value{Kind: KindString, Type: types.StrType, Str: s} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Type: types.BoolType, Bool: b} }
func F64(f float64) Value          { return Value{Kind: KindF64, Type: types.F64Type, F64: f} }
func I64(i int64) Value            { return Value{Kind: KindI64, Type: types.I64Type, I64: i} }
func TypeValue(t *types.Type) Value { return Value{Kind: KindType, Type: types.TypeOfType, TypeValue: t} }

func CallableValue(c *Callable) Value {
	return Value{Kind: KindCallable, Type: c.Type, Callable: c}
}

func StructValue(s *StructInstance) Value {
	return Value{Kind: KindStruct, Type: s.StructType, Struct: s}
}

func SymbolMapValue(m *SymbolMap) Value {
	return Value{Kind: KindSymbolMap, Type: types.Namespace, SymbolMap: m}
}

func ReturnValue(inner Value) Value {
	return Value{Kind: KindReturn, Type: types.Never, Inner: &inner}
}

func PanicValue(rec *diag.PanicRecord) Value {
	return Value{Kind: KindPanic, Type: types.Never, PanicRecord: rec}
}

func (v Value) IsReturn() bool { return v.Kind == KindReturn }
func (v Value) IsPanic() bool  { return v.Kind == KindPanic }

// Truthy reports v's boolean value, used by If/While condition checks
// after the resolver has already required bool.
func (v Value) Truthy() bool { return v.Kind == KindBool && v.Bool }

// formatF64 renders f the way the original interpreter prints floats:
// an integral value keeps an explicit ".0" rather than collapsing to
// its bare digit run (spec.md §8 scenario 2's "F64(3.0)").
func formatF64(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// DebugString renders v the way debug_print displays values, and the
// way runtime type-error messages quote operand values (spec.md §8
// scenario 2's "F64(3.0)", "Bool(true)" form).
func (v Value) DebugString() string {
	switch v.Kind {
	case KindUnit:
		return "Unit"
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		return "Bool(" + strconv.FormatBool(v.Bool) + ")"
	case KindF64:
		return "F64(" + formatF64(v.F64) + ")"
	case KindI64:
		return "I64(" + strconv.FormatInt(v.I64, 10) + ")"
	case KindCallable:
		return "Callable(" + v.Callable.Name + ")"
	case KindType:
		return "Type(" + v.TypeValue.Name + ")"
	case KindStruct:
		return v.Struct.DebugString()
	case KindSymbolMap:
		return "SymbolMap"
	default:
		return "<control>"
	}
}

// Display renders v the way debug_print writes to the print sink: bare
// strings have no surrounding quotes, everything else matches
// DebugString.
func (v Value) Display() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.DebugString()
}

// StructInstance is a constructed struct value: its declared type plus
// a mutable field map (interior mutability permits `Set`, spec.md §5).
type StructInstance struct {
	StructType *types.Type
	Fields     map[string]Value
}

func NewStructInstance(t *types.Type) *StructInstance {
	return &StructInstance{StructType: t, Fields: make(map[string]Value)}
}

func (s *StructInstance) DebugString() string {
	out := s.StructType.Name + " { "
	first := true
	for _, f := range s.StructType.Fields {
		if !first {
			out += ", "
		}
		first = false
		out += f.Name + ": " + s.Fields[f.Name].DebugString()
	}
	return out + " }"
}

// SymbolMap is a name-keyed table of values, the namespace value a
// qualified (`::`) variable path walks through (spec.md §3, §4.5).
// Impl-block methods are not stored here; the interpreter keeps them in
// its own per-struct method tables.
type SymbolMap struct {
	Entries map[string]Value
}

func NewSymbolMap() *SymbolMap {
	return &SymbolMap{Entries: make(map[string]Value)}
}
