// Package ast defines the Abstract Syntax Tree node types produced by the
// Felico parser. Every node carries a (payload, span, type) triple
// (spec.md §3); Type starts as Unknown and is filled in by the resolver.
package ast

import (
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	Span() source.Span
	String() string
}

// Typed is implemented by every node that carries a resolved type slot.
type Typed interface {
	Node
	Type() *types.Type
	SetType(*types.Type)
}

// typeSlot is embedded by every expression node to provide the mutable
// type annotation filled in during resolution. It is the "controlled
// interior-mutability cell" spec.md §9 calls for: the rest of a node is
// frozen after parsing, only this field changes.
type typeSlot struct {
	typ *types.Type
}

func (t *typeSlot) Type() *types.Type { return t.typ }
func (t *typeSlot) SetType(ty *types.Type) { t.typ = ty }

// Statement is a node that performs an action but does not itself
// produce a value.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that evaluates to a value.
type Expression interface {
	Typed
	expressionNode()
}

// Module is the root node: an ordered sequence of statements plus the
// module's name.
type Module struct {
	Name       string
	Statements []Statement
	Sp         source.Span
}

func (m *Module) Span() source.Span { return m.Sp }
func (m *Module) String() string {
	out := "module " + m.Name + "\n"
	for _, s := range m.Statements {
		out += s.String() + "\n"
	}
	return out
}
