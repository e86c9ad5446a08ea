// Package interp implements Felico's tree-walking interpreter: closures,
// Return/Panic propagated as values, fuel and depth limits, and a
// host-supplied print sink (spec.md §4.5).
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/value"
)

const (
	defaultFuel     = 1_000_000
	defaultMaxDepth = 512
)

// Interpreter executes a resolved Felico module against a runtime
// environment chain.
type Interpreter struct {
	file   *source.File
	output io.Writer
	env    *value.Environment

	fuel     int
	maxDepth int
	depth    int

	// callSites mirrors the live Go call stack as a list of call-site
	// excerpts, innermost last; captured into a diag.Stack (reversed,
	// innermost first) the moment panic() runs.
	callSites []diag.Frame

	// implMethods maps a struct type's name to its method table,
	// populated by ImplDecl statements.
	implMethods map[string]map[string]*value.Callable
}

// Option configures an Interpreter at construction, following the
// same functional-options shape the facade uses.
type Option func(*Interpreter)

// WithOutput overrides the interpreter's print sink.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.output = w }
}

// WithFuel overrides the initial fuel counter.
func WithFuel(fuel int) Option {
	return func(i *Interpreter) { i.fuel = fuel }
}

// WithMaxDepth overrides the maximum call depth.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) { i.maxDepth = depth }
}

// New creates an Interpreter over file with a fresh global environment
// holding the core built-ins (spec.md §4.1's "core" scope mirrored at
// runtime).
func New(file *source.File, opts ...Option) *Interpreter {
	i := &Interpreter{
		file:        file,
		output:      os.Stdout,
		env:         value.NewEnvironment(nil),
		fuel:        defaultFuel,
		maxDepth:    defaultMaxDepth,
		implMethods: make(map[string]map[string]*value.Callable),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.registerBuiltins()
	// The resolver treats built-ins and module-level declarations as
	// two distinct scopes (core, then module); nest a module
	// environment here so lexical distances recorded by the resolver
	// line up with the runtime environment chain.
	i.env = value.NewEnvironment(i.env)
	return i
}

// runtimeError is raised via panic/recover to unwind the Go call stack
// on a Runtime- or VM-class failure (spec.md §7: "Stage aborts"),
// distinct from a Felico-level panic() value which instead propagates
// as ordinary data until it reaches the program root.
type runtimeError struct{ message string }

func (e *runtimeError) Error() string { return e.message }

func (i *Interpreter) abort(format string, args ...interface{}) {
	panic(&runtimeError{message: fmt.Sprintf(format, args...)})
}

// Run resolves and executes mod's synthesized (or declared) `main`
// function, returning any Runtime/VM-class error or an unhandled
// top-level Panic.
func (i *Interpreter) Run(mod *ast.Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*runtimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()

	i.declareModule(mod)

	mainSym, ok := i.env.Get("main", 0)
	if !ok || mainSym.Kind != value.KindCallable || mainSym.Callable.Defined == nil {
		return fmt.Errorf("no 'main' function defined")
	}
	// main is the program root rather than a call site, so it adds no
	// frame to a captured panic stack.
	result := i.callDefined(mainSym.Callable.Defined, nil)
	if result.IsPanic() {
		return result.PanicRecord
	}
	return nil
}

// Eval evaluates a single expression against the current global
// environment, for the facade's evaluate_expression() entry point
// (spec.md §6). expr is the tail expression of a synthesized `main`,
// so the resolver computed its lexical distances assuming main's own
// param and block scopes sit above the module scope; nest matching
// (empty) environments here rather than calling through main itself.
func (i *Interpreter) Eval(mod *ast.Module, expr ast.Expression) (v value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*runtimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()
	i.declareModule(mod)
	saved := i.env
	i.env = value.NewEnvironment(value.NewEnvironment(i.env))
	v = i.evalExpr(expr)
	i.env = saved
	if v.IsPanic() {
		return value.Value{}, v.PanicRecord
	}
	return v, nil
}

// declareModule runs the statement-registration pass over mod's
// top-level declarations: functions become closures over the global
// environment, impl blocks populate the method table.
func (i *Interpreter) declareModule(mod *ast.Module) {
	for _, stmt := range mod.Statements {
		i.execStmt(stmt)
	}
}
