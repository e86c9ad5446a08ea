package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felico-lang/felico/internal/source"
)

// LiteralKind distinguishes the five literal forms (spec.md §3).
type LiteralKind int

const (
	LitUnit LiteralKind = iota
	LitBool
	LitI64
	LitF64
	LitStr
)

// Literal is a constant value written directly in source.
type Literal struct {
	typeSlot
	Kind LiteralKind
	Bool bool
	I64  int64
	F64  float64
	Str  string
	Sp   source.Span
}

func (*Literal) expressionNode()    {}
func (l *Literal) Span() source.Span { return l.Sp }
func (l *Literal) String() string {
	switch l.Kind {
	case LitUnit:
		return "()"
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitI64:
		return strconv.FormatInt(l.I64, 10)
	case LitF64:
		return formatF64(l.F64)
	case LitStr:
		return strconv.Quote(l.Str)
	default:
		return "<literal>"
	}
}

// formatF64 renders an F64 literal's value with an explicit ".0" for
// integral values, matching how the runtime value model displays floats.
func formatF64(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Variable is a reference to a name, optionally qualified with "::".
// Distance is filled in by the resolver: the number of scope hops from
// this use site to the binding site (spec.md §3, §4.4).
type Variable struct {
	typeSlot
	Parts    []string
	Distance int
	Sp       source.Span
}

func (*Variable) expressionNode()      {}
func (v *Variable) Span() source.Span { return v.Sp }
func (v *Variable) String() string {
	out := v.Parts[0]
	for _, p := range v.Parts[1:] {
		out += "::" + p
	}
	return out
}

// UnaryOp is the operator of a Unary expression.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

func (op UnaryOp) String() string {
	if op == UnaryNot {
		return "!"
	}
	return "-"
}

// Unary is a prefix operator expression: !e or -e.
type Unary struct {
	typeSlot
	Op   UnaryOp
	Expr Expression
	Sp   source.Span
}

func (*Unary) expressionNode()      {}
func (u *Unary) Span() source.Span { return u.Sp }
func (u *Unary) String() string    { return u.Op.String() + u.Expr.String() }

// BinaryOp is the operator of a Binary expression.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

var binaryOpNames = map[BinaryOp]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/",
	BinEq: "==", BinNeq: "!=", BinLt: "<", BinLe: "<=",
	BinGt: ">", BinGe: ">=", BinAnd: "&&", BinOr: "||",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// IsComparison reports whether op always yields bool, per spec.md §4.4.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinEq, BinNeq, BinLt, BinLe, BinGt, BinGe:
		return true
	}
	return false
}

// Binary is a binary operator expression.
type Binary struct {
	typeSlot
	Op          BinaryOp
	Left, Right Expression
	Sp          source.Span
}

func (*Binary) expressionNode()      {}
func (b *Binary) Span() source.Span { return b.Sp }
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

// Assign assigns to a variable at a resolved lexical Distance.
type Assign struct {
	typeSlot
	Name     string
	Distance int
	Value    Expression
	Sp       source.Span
}

func (*Assign) expressionNode()      {}
func (a *Assign) Span() source.Span { return a.Sp }
func (a *Assign) String() string    { return a.Name + " = " + a.Value.String() }

// Call invokes Callee with Args.
type Call struct {
	typeSlot
	Callee Expression
	Args   []Expression
	Sp     source.Span
}

func (*Call) expressionNode()      {}
func (c *Call) Span() source.Span { return c.Sp }
func (c *Call) String() string {
	out := c.Callee.String() + "("
	for i, a := range c.Args {
		if i > 0 {
			out += ", "
		}
		out += a.String()
	}
	return out + ")"
}

// Get reads a named field/member off Object.
type Get struct {
	typeSlot
	Object Expression
	Name   string
	Sp     source.Span
}

func (*Get) expressionNode()      {}
func (g *Get) Span() source.Span { return g.Sp }
func (g *Get) String() string    { return g.Object.String() + "." + g.Name }

// Set assigns to a named field/member on Object.
type Set struct {
	typeSlot
	Object Expression
	Name   string
	Value  Expression
	Sp     source.Span
}

func (*Set) expressionNode()      {}
func (s *Set) Span() source.Span { return s.Sp }
func (s *Set) String() string    { return s.Object.String() + "." + s.Name + " = " + s.Value.String() }

// Block is a brace-delimited sequence of statements with an optional
// tail expression; the block's value is the tail's value (spec.md §4.5).
type Block struct {
	typeSlot
	Statements []Statement
	Tail       Expression // nil if the block ends with a terminated statement
	Sp         source.Span
}

func (*Block) expressionNode()      {}
func (b *Block) Span() source.Span { return b.Sp }
func (b *Block) String() string {
	out := "{ "
	for _, s := range b.Statements {
		out += s.String() + " "
	}
	if b.Tail != nil {
		out += b.Tail.String() + " "
	}
	return out + "}"
}

// If is a conditional expression with an optional else branch.
type If struct {
	typeSlot
	Cond Expression
	Then Expression
	Else Expression // nil if absent
	Sp   source.Span
}

func (*If) expressionNode()      {}
func (i *If) Span() source.Span { return i.Sp }
func (i *If) String() string {
	out := "if (" + i.Cond.String() + ") " + i.Then.String()
	if i.Else != nil {
		out += " else " + i.Else.String()
	}
	return out
}

// Return is `return e;` or `return;` (Value nil for a bare return).
type Return struct {
	typeSlot
	Value Expression
	Sp    source.Span
}

func (*Return) expressionNode()      {}
func (r *Return) Span() source.Span { return r.Sp }
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// FieldInit is one `name: expr` field initializer inside a CreateStruct.
type FieldInit struct {
	Name  string
	Value Expression
}

// CreateStruct constructs a struct instance: TypeExpr{ field: value, ... }.
type CreateStruct struct {
	typeSlot
	TypeExpr *TypeExpr
	Fields   []FieldInit
	Sp       source.Span
}

func (*CreateStruct) expressionNode()      {}
func (c *CreateStruct) Span() source.Span { return c.Sp }
func (c *CreateStruct) String() string {
	out := c.TypeExpr.String() + "{"
	for i, f := range c.Fields {
		if i > 0 {
			out += ", "
		}
		out += f.Name + ": " + f.Value.String()
	}
	return out + "}"
}
