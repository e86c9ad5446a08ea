package resolve

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/types"
)

// resolveStmt resolves one statement inside a block scope. Unlike the
// module-level pass, locally-scoped struct/trait/impl/fun declarations
// are registered and checked in the single linear order they appear,
// so forward reference between local declarations is not supported
// (only top-level declarations get the multi-pass treatment).
func (r *Resolver) resolveStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(n.Expr)
	case *ast.LetStmt:
		r.resolveLetStmt(n)
	case *ast.WhileStmt:
		r.resolveWhileStmt(n)
	case *ast.FunDecl:
		n.Type = r.functionType(n)
		if prev, ok := r.scopes.define(&Symbol{Name: n.Name, DeclSpan: n.Sp, IsDefined: true, Type: n.Type}); !ok {
			r.duplicateName(n.Name, n.Sp, prev)
		}
		r.resolveFunBody(n)
	case *ast.StructDecl:
		st := types.NewStruct(n.Name, n.Sp, nil)
		n.Type = st
		if prev, ok := r.scopes.define(&Symbol{Name: n.Name, DeclSpan: n.Sp, IsDefined: true, Type: types.TypeOfType, Value: st}); !ok {
			r.duplicateName(n.Name, n.Sp, prev)
		}
		fields := make([]types.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.Field{Name: f.Name, Type: r.resolveTypeExpr(f.TypeExpr)}
		}
		st.Fields = fields
	case *ast.TraitDecl:
		tt := types.NewTrait(n.Name, n.Sp)
		n.Type = tt
		if prev, ok := r.scopes.define(&Symbol{Name: n.Name, DeclSpan: n.Sp, IsDefined: true, Type: types.TypeOfType, Value: tt}); !ok {
			r.duplicateName(n.Name, n.Sp, prev)
		}
	case *ast.ImplDecl:
		target, ok := r.lookupStruct(n.Target)
		if !ok {
			r.errorf(n.Sp, "Variable '"+n.Target+"' is not defined here")
			return
		}
		for _, m := range n.Methods {
			m.Type = r.functionType(m)
			target.Methods[m.Name] = m.Type
			r.resolveFunBody(m)
		}
	}
}

func (r *Resolver) resolveLetStmt(n *ast.LetStmt) {
	initType := r.resolveExpr(n.Init)
	declared := initType
	if n.TypeExpr != nil {
		declared = r.resolveTypeExpr(n.TypeExpr)
		if initType.Kind != types.KindUnresolved && declared.Kind != types.KindUnresolved && !initType.AssignableTo(declared) {
			r.errorf(n.Sp, "Cannot assign value of type "+initType.Signature()+" to variable '"+n.Name+"' of declared type "+declared.Signature())
			declared = types.Unresolved
		}
	}
	n.Type = declared
	if prev, ok := r.scopes.define(&Symbol{Name: n.Name, DeclSpan: n.Sp, IsDefined: true, Type: declared}); !ok {
		r.duplicateName(n.Name, n.Sp, prev)
	}
}

func (r *Resolver) resolveWhileStmt(n *ast.WhileStmt) {
	cond := r.resolveExpr(n.Cond)
	if cond.Kind != types.KindUnresolved && !cond.Equal(types.BoolType) {
		r.errorf(n.Cond.Span(), "Condition must be of type "+types.BoolType.Signature()+", got "+cond.Signature())
	}
	r.resolveExpr(n.Body)
}
