package interp

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/value"
)

// execStmt executes one statement for effect, returning a Return or
// Panic signal if one was produced, or Unit otherwise. Callers (block
// evaluation, module declaration) must check IsReturn()/IsPanic() and
// short-circuit when either is set.
func (i *Interpreter) execStmt(s ast.Statement) value.Value {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return i.evalExpr(n.Expr)
	case *ast.LetStmt:
		v := i.evalExpr(n.Init)
		if v.IsReturn() || v.IsPanic() {
			return v
		}
		i.env.Define(n.Name, v)
		return value.Unit()
	case *ast.WhileStmt:
		return i.execWhile(n)
	case *ast.FunDecl:
		i.defineFunction(n)
		return value.Unit()
	case *ast.StructDecl, *ast.TraitDecl:
		// Struct/trait shapes are resolved entirely at compile time;
		// CreateStruct reads the type straight off its resolved
		// TypeExpr, so there is nothing to do at runtime.
		return value.Unit()
	case *ast.ImplDecl:
		i.declareImpl(n)
		return value.Unit()
	default:
		i.abort("unhandled statement node %T", s)
		return value.Unit()
	}
}

func (i *Interpreter) execWhile(n *ast.WhileStmt) value.Value {
	for {
		if i.fuel <= 0 {
			i.abort("Out of fuel! Execution took to many loops/function calls.")
		}
		i.fuel--

		cond := i.evalExpr(n.Cond)
		if cond.IsReturn() || cond.IsPanic() {
			return cond
		}
		if !cond.Truthy() {
			return value.Unit()
		}
		result := i.evalExpr(n.Body)
		if result.IsReturn() || result.IsPanic() {
			return result
		}
	}
}

// declareImpl builds one Callable per method, closing over the
// environment active when the impl block runs, and registers it in
// the interpreter's per-struct method table keyed by struct name and
// method name (spec.md §5's "append to symbol maps built by impl
// blocks").
func (i *Interpreter) declareImpl(n *ast.ImplDecl) {
	methods, ok := i.implMethods[n.Target]
	if !ok {
		methods = make(map[string]*value.Callable)
		i.implMethods[n.Target] = methods
	}
	for _, m := range n.Methods {
		methods[m.Name] = &value.Callable{
			Name: m.Name,
			Type: m.Type,
			Defined: &value.DefinedFunction{
				Decl: m,
				Env:  i.env,
			},
		}
	}
}
