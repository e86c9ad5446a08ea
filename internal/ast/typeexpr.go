package ast

import "github.com/felico-lang/felico/internal/source"

// TypeExpr is a reference to a type by (possibly qualified) name, as it
// appears in a parameter, let-binding, return-type, or field
// declaration, before resolution fills in its Type.
type TypeExpr struct {
	typeSlot
	Parts []string // qualified name segments, joined by "::"
	Sp    source.Span
}

func (t *TypeExpr) Span() source.Span { return t.Sp }
func (t *TypeExpr) String() string {
	out := t.Parts[0]
	for _, p := range t.Parts[1:] {
		out += "::" + p
	}
	return out
}
