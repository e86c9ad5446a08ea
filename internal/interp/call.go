package interp

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/value"
)

// callExcerpt renders a call-site stack frame generically: the callee
// name followed by "();" when it takes no arguments, or "(...);"
// otherwise (spec.md §8 scenario 6 expects "panic(...)", "p();",
// "x();" — a placeholder excerpt rather than the literal source
// slice, since Felico's panic stack frames are meant to identify the
// call site, not reproduce its exact text).
func callExcerpt(name string, argCount int) string {
	if argCount == 0 {
		return name + "();"
	}
	return name + "(...);"
}

// callCallable invokes c with already-evaluated args, enforcing the
// fuel and depth counters and pushing/popping a call-site frame used
// both for panic-stack capture and depth accounting (spec.md §4.5).
func (i *Interpreter) callCallable(c *value.Callable, args []value.Value, callSpan source.Span) value.Value {
	if i.fuel <= 0 {
		i.abort("Out of fuel! Execution took to many loops/function calls.")
	}
	i.fuel--

	if i.depth >= i.maxDepth {
		i.abort("Stack size exceeded")
	}
	i.depth++
	defer func() { i.depth-- }()

	pos := i.file.Position(callSpan.Start)
	i.callSites = append(i.callSites, diag.Frame{
		FunctionName: c.Name,
		File:         i.file,
		Pos:          pos,
		Excerpt:      callExcerpt(c.Name, len(args)),
	})
	defer func() { i.callSites = i.callSites[:len(i.callSites)-1] }()

	if c.Native != nil {
		v, err := c.Native(args)
		if err != nil {
			i.abort("%s", err.Error())
		}
		return v
	}
	return i.callDefined(c.Defined, args)
}

// callDefined evaluates a defined function's body against a fresh
// child of its captured closure environment with parameters bound,
// unwrapping an explicit Return(v) to v; a Panic propagates unchanged.
func (i *Interpreter) callDefined(fn *value.DefinedFunction, args []value.Value) value.Value {
	savedEnv := i.env
	i.env = value.NewEnvironment(fn.Env)
	for idx, p := range fn.Decl.Params {
		i.env.Define(p.Name, args[idx])
	}
	result := i.evalExpr(fn.Decl.Body)
	i.env = savedEnv

	if result.IsReturn() {
		return *result.Inner
	}
	return result
}

// defineFunction constructs a Callable closing over the current
// environment and binds it in that same environment (spec.md §4.5:
// "construct a Callable capturing the current environment").
func (i *Interpreter) defineFunction(decl *ast.FunDecl) *value.Callable {
	c := &value.Callable{
		Name: decl.Name,
		Type: decl.Type,
		Defined: &value.DefinedFunction{
			Decl: decl,
			Env:  i.env,
		},
	}
	i.env.Define(decl.Name, value.CallableValue(c))
	return c
}
