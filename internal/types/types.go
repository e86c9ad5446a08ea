// Package types implements Felico's type descriptors: an immutable
// printable name, a declaration span, and a kind (spec.md §3).
package types

import (
	"strings"

	"github.com/felico-lang/felico/internal/source"
)

// Kind classifies a Type. Identity is structural by kind for primitives
// and functions; nominal by declaration name for structs and traits
// (spec.md §3, §9).
type Kind int

const (
	KindUnknown Kind = iota
	KindUnresolved
	KindAny
	KindNever
	KindPrimitive
	KindTypeOfType // the "Type" type: the type of a type expression itself
	KindNamespace
	KindFunction
	KindStruct
	KindTrait
)

// Primitive distinguishes the four primitive kinds plus Unit.
type Primitive int

const (
	Bool Primitive = iota
	I64
	F64
	Str
	Unit
)

func (p Primitive) String() string {
	switch p {
	case Bool:
		return "bool"
	case I64:
		return "i64"
	case F64:
		return "f64"
	case Str:
		return "str"
	case Unit:
		return "unit"
	default:
		return "unknown"
	}
}

// Field is one named, typed field of a Struct type.
type Field struct {
	Name string
	Type *Type
}

// Type is an immutable type descriptor. Two Type values of kind
// Primitive/Function are considered equal structurally (same shape);
// Struct/Trait types are compared nominally by Name.
type Type struct {
	Kind      Kind
	Name      string
	DeclSpan  source.Span
	Primitive Primitive

	// Function
	Params []*Type
	Ret    *Type

	// Struct
	Fields  []Field
	Methods map[string]*Type // method name -> Function-kind type, populated from impl blocks
}

// Singletons for the kinds that need no per-declaration data.
var (
	Unknown    = &Type{Kind: KindUnknown, Name: "unknown"}
	Unresolved = &Type{Kind: KindUnresolved, Name: "unresolved"}
	Any        = &Type{Kind: KindAny, Name: "any"}
	Never      = &Type{Kind: KindNever, Name: "never"}
	TypeOfType = &Type{Kind: KindTypeOfType, Name: "Type"}
	Namespace  = &Type{Kind: KindNamespace, Name: "namespace"}

	BoolType = &Type{Kind: KindPrimitive, Primitive: Bool, Name: "bool"}
	I64Type  = &Type{Kind: KindPrimitive, Primitive: I64, Name: "i64"}
	F64Type  = &Type{Kind: KindPrimitive, Primitive: F64, Name: "f64"}
	StrType  = &Type{Kind: KindPrimitive, Primitive: Str, Name: "str"}
	UnitType = &Type{Kind: KindPrimitive, Primitive: Unit, Name: "unit"}
)

// NewFunction builds a Function-kind type with a printable signature
// name of the form "Fn(T1, T2) -> R", matching the module-manifest
// signature grammar in spec.md §6.
func NewFunction(params []*Type, ret *Type) *Type {
	sigName := func(t *Type) string {
		if t.Kind == KindPrimitive && t.Primitive == Unit {
			return "Unit"
		}
		return t.Name
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = sigName(p)
	}
	name := "Fn(" + strings.Join(names, ", ") + ") -> " + sigName(ret)
	return &Type{Kind: KindFunction, Name: name, Params: params, Ret: ret}
}

// NewStruct builds a Struct-kind type, nominal by name.
func NewStruct(name string, declSpan source.Span, fields []Field) *Type {
	return &Type{Kind: KindStruct, Name: name, DeclSpan: declSpan, Fields: fields, Methods: make(map[string]*Type)}
}

// NewTrait builds a Trait-kind type, nominal by name.
func NewTrait(name string, declSpan source.Span) *Type {
	return &Type{Kind: KindTrait, Name: name, DeclSpan: declSpan}
}

// FieldByName returns the named field of a Struct type, or nil.
func (t *Type) FieldByName(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Equal reports structural equality for primitives/functions and
// nominal (by Name) equality for struct/trait types.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive == other.Primitive
	case KindFunction:
		if len(t.Params) != len(other.Params) || !t.Ret.Equal(other.Ret) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return true
	case KindStruct, KindTrait:
		return t.Name == other.Name
	default:
		return true
	}
}

// AssignableTo implements the assignability rules of spec.md §4.4:
//   - identical ⇒ assignable
//   - source = Never ⇒ assignable to anything
//   - destination = Any ⇒ anything assignable
//   - either side = Unresolved ⇒ treat as assignable
func (src *Type) AssignableTo(dst *Type) bool {
	if src.Equal(dst) {
		return true
	}
	if src.Kind == KindNever {
		return true
	}
	if dst.Kind == KindAny {
		return true
	}
	if src.Kind == KindUnresolved || dst.Kind == KindUnresolved {
		return true
	}
	return false
}

// Signature renders the module-manifest signature form of spec.md §6:
// ❬bool❭, ❬i64❭, ❬f64❭, ❬str❭, ❬Unit❭, ❬Fn(T1, T2) -> R❭, ❬<StructName>❭.
func (t *Type) Signature() string {
	name := t.Name
	if t.Kind == KindPrimitive && t.Primitive == Unit {
		name = "Unit"
	}
	return "❬" + name + "❭"
}
