package ast

import (
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/types"
)

// ExprStmt wraps an expression used as a statement (its value is
// discarded).
type ExprStmt struct {
	Expr Expression
	Sp   source.Span
}

func (*ExprStmt) statementNode()    {}
func (e *ExprStmt) Span() source.Span { return e.Sp }
func (e *ExprStmt) String() string    { return e.Expr.String() + ";" }

// LetStmt is `let name: TypeExpr? = init;`.
type LetStmt struct {
	Name     string
	TypeExpr *TypeExpr // nil if the type is to be inferred
	Init     Expression
	Type     *types.Type // filled in by the resolver
	Sp       source.Span
}

func (*LetStmt) statementNode()    {}
func (l *LetStmt) Span() source.Span { return l.Sp }
func (l *LetStmt) String() string {
	out := "let " + l.Name
	if l.TypeExpr != nil {
		out += ": " + l.TypeExpr.String()
	}
	return out + " = " + l.Init.String() + ";"
}

// Param is one function parameter: a name paired with its declared type
// expression.
type Param struct {
	Name     string
	TypeExpr *TypeExpr
	Type     *types.Type // filled in by the resolver
}

// FunDecl is a function declaration: name, ordered parameters, a
// return-type expression, and a body expression (almost always a Block).
type FunDecl struct {
	Name       string
	Params     []Param
	ReturnExpr *TypeExpr
	Body       Expression
	Type       *types.Type // the resolved Function-kind type of this declaration
	Sp         source.Span
}

func (*FunDecl) statementNode()    {}
func (f *FunDecl) Span() source.Span { return f.Sp }
func (f *FunDecl) String() string {
	out := "fun " + f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			out += ", "
		}
		out += p.Name + ": " + p.TypeExpr.String()
	}
	out += ")"
	if f.ReturnExpr != nil {
		out += " -> " + f.ReturnExpr.String()
	}
	return out + " " + f.Body.String()
}

// StructField is one `name: TypeExpr` field of a struct declaration.
type StructField struct {
	Name     string
	TypeExpr *TypeExpr
}

// StructDecl declares a struct type and its ordered fields.
type StructDecl struct {
	Name   string
	Fields []StructField
	Type   *types.Type // filled in by the resolver
	Sp     source.Span
}

func (*StructDecl) statementNode()    {}
func (s *StructDecl) Span() source.Span { return s.Sp }
func (s *StructDecl) String() string {
	out := "struct " + s.Name + " { "
	for _, f := range s.Fields {
		out += f.Name + ": " + f.TypeExpr.String() + ", "
	}
	return out + "}"
}

// TraitDecl declares a (bodyless, in this core) trait.
type TraitDecl struct {
	Name string
	Type *types.Type // filled in by the resolver
	Sp   source.Span
}

func (*TraitDecl) statementNode()    {}
func (t *TraitDecl) Span() source.Span { return t.Sp }
func (t *TraitDecl) String() string    { return "trait " + t.Name }

// ImplDecl is an `impl Target { fun ... }` block.
type ImplDecl struct {
	Target  string
	Methods []*FunDecl
	Sp      source.Span
}

func (*ImplDecl) statementNode()    {}
func (i *ImplDecl) Span() source.Span { return i.Sp }
func (i *ImplDecl) String() string {
	out := "impl " + i.Target + " { "
	for _, m := range i.Methods {
		out += m.String() + " "
	}
	return out + "}"
}

// WhileStmt repeats Body while Cond evaluates to true.
type WhileStmt struct {
	Cond Expression
	Body Expression
	Sp   source.Span
}

func (*WhileStmt) statementNode()    {}
func (w *WhileStmt) Span() source.Span { return w.Sp }
func (w *WhileStmt) String() string    { return "while (" + w.Cond.String() + ") " + w.Body.String() }
