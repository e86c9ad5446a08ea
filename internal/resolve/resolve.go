// Package resolve implements Felico's single-tree-walk resolver and type
// checker: name binding with lexical distance, type inference/checking,
// and multi-diagnostic collection (spec.md §4.4).
package resolve

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/types"
)

// Resolver performs one tree walk over a Module: binding names, filling
// in lexical distances, inferring/checking types, and collecting every
// diagnostic it finds (it never stops at the first, per spec.md §4.4).
type Resolver struct {
	file   *source.File
	scopes scopeStack
	diags  diag.Bag
}

// New creates a Resolver with the fixed core scope (built-in types and
// callables) already pushed, ready to resolve one Module against file
// for diagnostic rendering.
func New(file *source.File) *Resolver {
	r := &Resolver{file: file}
	r.scopes.push(nil) // core scope
	r.defineCoreBuiltins()
	return r
}

// Resolve runs the resolver over mod and returns the exported module
// manifest (possibly partial, if errors occurred) and every diagnostic
// collected.
func Resolve(file *source.File, mod *ast.Module) (*Manifest, []*diag.Diagnostic) {
	r := New(file)
	r.resolveModule(mod)
	return r.buildManifest(mod), r.diags.Diagnostics()
}

func (r *Resolver) errorf(span source.Span, message string) *diag.Diagnostic {
	d := diag.New(r.file, span, message)
	r.diags.Add(d)
	return d
}

func (r *Resolver) defineCoreBuiltins() {
	for _, t := range []*types.Type{types.BoolType, types.I64Type, types.F64Type, types.StrType, types.UnitType} {
		r.scopes.define(&Symbol{Name: t.Name, IsDefined: true, Type: types.TypeOfType, Value: t})
	}
	builtin := func(name string, params []*types.Type, ret *types.Type) {
		r.scopes.define(&Symbol{
			Name:      name,
			IsDefined: true,
			Type:      types.NewFunction(params, ret),
		})
	}
	builtin("sqrt", []*types.Type{types.F64Type}, types.F64Type)
	builtin("abs", []*types.Type{types.F64Type}, types.F64Type)
	builtin("debug_print", []*types.Type{types.Any}, types.UnitType)
	builtin("panic", []*types.Type{types.StrType}, types.Never)
}

// resolveModule walks mod's declarations in the multi-pass order needed
// to support forward references between sibling functions/structs:
// struct shapes first, then function signatures, then every function
// body and impl block method body.
func (r *Resolver) resolveModule(mod *ast.Module) {
	r.scopes.push(nil) // module scope

	var structs []*ast.StructDecl
	var traits []*ast.TraitDecl
	var funs []*ast.FunDecl
	var impls []*ast.ImplDecl

	for _, stmt := range mod.Statements {
		switch n := stmt.(type) {
		case *ast.StructDecl:
			structs = append(structs, n)
		case *ast.TraitDecl:
			traits = append(traits, n)
		case *ast.FunDecl:
			funs = append(funs, n)
		case *ast.ImplDecl:
			impls = append(impls, n)
		}
	}

	// Pass 1: register struct/trait names so field/param type-exprs can
	// reference any struct regardless of declaration order.
	for _, s := range structs {
		st := types.NewStruct(s.Name, s.Sp, nil)
		s.Type = st
		if prev, ok := r.scopes.define(&Symbol{Name: s.Name, DeclSpan: s.Sp, IsDefined: true, Type: types.TypeOfType, Value: st}); !ok {
			r.duplicateName(s.Name, s.Sp, prev)
		}
	}
	for _, t := range traits {
		tt := types.NewTrait(t.Name, t.Sp)
		t.Type = tt
		if prev, ok := r.scopes.define(&Symbol{Name: t.Name, DeclSpan: t.Sp, IsDefined: true, Type: types.TypeOfType, Value: tt}); !ok {
			r.duplicateName(t.Name, t.Sp, prev)
		}
	}

	// Pass 2: fill in struct field types now that every struct name is
	// visible.
	for _, s := range structs {
		fields := make([]types.Field, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = types.Field{Name: f.Name, Type: r.resolveTypeExpr(f.TypeExpr)}
		}
		s.Type.Fields = fields
	}

	// Pass 3: register function signatures so calls can forward-
	// reference any sibling function (needed for mutual recursion and
	// for simple self-recursion like scenario 1's fib).
	for _, f := range funs {
		ft := r.functionType(f)
		f.Type = ft
		if prev, ok := r.scopes.define(&Symbol{Name: f.Name, DeclSpan: f.Sp, IsDefined: true, Type: ft}); !ok {
			r.duplicateName(f.Name, f.Sp, prev)
		}
	}

	// Pass 4: register impl methods onto their target struct's method
	// table.
	for _, impl := range impls {
		target, ok := r.lookupStruct(impl.Target)
		if !ok {
			r.errorf(impl.Sp, "Variable '"+impl.Target+"' is not defined here")
			continue
		}
		for _, m := range impl.Methods {
			m.Type = r.functionType(m)
			target.Methods[m.Name] = m.Type
		}
	}

	// Top-level lets, in source order, so their types are annotated for
	// the manifest and function bodies can refer to them.
	for _, stmt := range mod.Statements {
		if l, ok := stmt.(*ast.LetStmt); ok {
			r.resolveLetStmt(l)
		}
	}

	// Pass 5: check every function body and impl method body.
	for _, f := range funs {
		r.resolveFunBody(f)
	}
	for _, impl := range impls {
		for _, m := range impl.Methods {
			r.resolveFunBody(m)
		}
	}

	r.scopes.pop() // module scope
}

func (r *Resolver) duplicateName(name string, span source.Span, prev *Symbol) {
	d := r.errorf(span, "The name '"+name+"' already declared")
	if prev != nil {
		d.WithSecondary(prev.DeclSpan, "previous declaration here")
	}
}

func (r *Resolver) lookupStruct(name string) (*types.Type, bool) {
	sym, _, ok := r.scopes.lookup(name)
	if !ok || sym.Type != types.TypeOfType {
		return nil, false
	}
	st, ok := sym.Value.(*types.Type)
	if !ok || st.Kind != types.KindStruct {
		return nil, false
	}
	return st, true
}

func (r *Resolver) functionType(f *ast.FunDecl) *types.Type {
	params := make([]*types.Type, len(f.Params))
	for i, p := range f.Params {
		pt := r.resolveTypeExpr(p.TypeExpr)
		f.Params[i].Type = pt
		params[i] = pt
	}
	ret := types.UnitType
	if f.ReturnExpr != nil {
		ret = r.resolveTypeExpr(f.ReturnExpr)
	}
	return types.NewFunction(params, ret)
}

func (r *Resolver) resolveFunBody(f *ast.FunDecl) {
	ret := f.Type.Ret
	r.scopes.push(ret)
	for i, p := range f.Params {
		if prev, ok := r.scopes.define(&Symbol{Name: p.Name, DeclSpan: f.Sp, IsDefined: true, Type: f.Params[i].Type}); !ok {
			r.duplicateName(p.Name, f.Sp, prev)
		}
	}
	// Only `return e` is checked against ret (resolveReturn); the
	// block's own tail value is not, since a block that always exits
	// through `return` legitimately tails with `unit` (the parser's
	// synthesized tail literal) regardless of the declared return type.
	r.resolveExpr(f.Body)
	r.scopes.pop()
}

// resolveTypeExpr resolves a type-expression's first segment to a
// registered type symbol (spec.md §4.4's implicit type-name lookups).
func (r *Resolver) resolveTypeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return types.UnitType
	}
	sym, _, ok := r.scopes.lookup(te.Parts[0])
	if !ok || sym.Type != types.TypeOfType {
		r.errorf(te.Sp, "Type '"+te.Parts[0]+"' is not defined here")
		te.SetType(types.Unresolved)
		return types.Unresolved
	}
	t, _ := sym.Value.(*types.Type)
	if t == nil {
		t = types.Unresolved
	}
	te.SetType(t)
	return t
}
