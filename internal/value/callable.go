package value

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/types"
)

// NativeFunc is a built-in routine implemented in Go, invoked with its
// already-evaluated arguments.
type NativeFunc func(args []Value) (Value, error)

// Callable is a Felico function value: either a native routine, or a
// defined function closing over its declaration environment (spec.md
// §3: "{name, arity, function} where function is either native ...
// or defined").
type Callable struct {
	Name string
	Type *types.Type // Function-kind

	Native  NativeFunc
	Defined *DefinedFunction
}

// DefinedFunction pairs a parsed function declaration with the
// environment captured at the point its Callable was constructed,
// giving Felico closures (spec.md §4.5: "construct a Callable
// capturing the current environment").
type DefinedFunction struct {
	Decl *ast.FunDecl
	Env  *Environment
}

func (c *Callable) Arity() int {
	return len(c.Type.Params)
}
