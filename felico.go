// Package felico is the embedding facade over Felico's pipeline: parse,
// resolve, and either tree-walk interpret or compile to bytecode and
// run on the register VM (spec.md §6).
package felico

import (
	"fmt"
	"io"
	"os"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/interp"
	"github.com/felico-lang/felico/internal/parser"
	"github.com/felico-lang/felico/internal/resolve"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/value"
)

// Engine is the embedding entry point: one Engine corresponds to one
// compilation/execution session over a single source file.
type Engine struct {
	output    io.Writer
	fuel      int
	maxDepth  int
	typeCheck bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithOutput overrides the engine's print sink (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithPrintSink is an alias for WithOutput matching the host-facing
// vocabulary used by spec.md §4.5 ("a trait-object writer supplied by
// the host").
func WithPrintSink(w io.Writer) Option {
	return WithOutput(w)
}

// WithFuel overrides the interpreter's fuel counter (default 1,000,000).
func WithFuel(fuel int) Option {
	return func(e *Engine) { e.fuel = fuel }
}

// WithMaxDepth overrides the interpreter's call-depth limit (default 512).
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// WithTypeCheck controls whether Run/Eval reject programs that fail
// resolution; disabling it still runs the resolver (for lexical
// distances and the manifest) but ignores any diagnostics it collects.
// Default true.
func WithTypeCheck(enabled bool) Option {
	return func(e *Engine) { e.typeCheck = enabled }
}

// New creates an Engine with the given options applied over the
// pipeline's defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		output:    os.Stdout,
		fuel:      1_000_000,
		maxDepth:  512,
		typeCheck: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diagnostics is a batch of structured errors from any pipeline stage.
type Diagnostics []*diag.Diagnostic

// Error renders every diagnostic, separated by blank lines.
func (ds Diagnostics) Error() string {
	bag := &diag.Bag{}
	for _, d := range ds {
		bag.Add(d)
	}
	return bag.RenderAll()
}

// Parse lexes and parses source into an AST module without resolving
// or running it. scriptMode wraps top-level statements in a synthetic
// main, matching the parser's script-mode convention.
func (e *Engine) Parse(path, src string, scriptMode bool) (*ast.Module, Diagnostics) {
	file := &source.File{Path: path, Content: src}
	mod, diags := parser.ParseModule(file, moduleName(path), scriptMode)
	return mod, diags
}

// Compile parses and resolves source, returning the resolved module,
// its manifest, and any diagnostics. With WithTypeCheck(true) (the
// default), a non-empty Diagnostics return means mod/manifest must not
// be executed.
func (e *Engine) Compile(path, src string, scriptMode bool) (*ast.Module, *resolve.Manifest, Diagnostics) {
	file := &source.File{Path: path, Content: src}
	mod, parseDiags := parser.ParseModule(file, moduleName(path), scriptMode)
	if len(parseDiags) > 0 {
		return mod, nil, parseDiags
	}
	manifest, resolveDiags := resolve.Resolve(file, mod)
	return mod, manifest, resolveDiags
}

// Run parses, resolves, and interprets source's synthesized or
// declared main function, returning its resolved manifest for
// introspection alongside any error.
func (e *Engine) Run(path, src string, scriptMode bool) (*resolve.Manifest, error) {
	file := &source.File{Path: path, Content: src}
	mod, manifest, diags := e.Compile(path, src, scriptMode)
	if e.typeCheck && len(diags) > 0 {
		return manifest, diags
	}
	i := interp.New(file, e.interpreterOptions()...)
	if err := i.Run(mod); err != nil {
		return manifest, err
	}
	return manifest, nil
}

// Eval parses, resolves, and evaluates a single expression embedded in
// src, for hosts that want one-shot expression evaluation rather than
// a full program run (spec.md §6's evaluate_expression entry point).
func (e *Engine) Eval(path, src string) (value.Value, error) {
	file := &source.File{Path: path, Content: src}
	mod, parseDiags := parser.ParseModule(file, moduleName(path), true)
	if len(parseDiags) > 0 {
		return value.Value{}, Diagnostics(parseDiags)
	}
	// Script mode always wraps loose top-level statements in a
	// synthesized main, so the expression to evaluate sits at the tail
	// of main's body rather than at the top of mod.Statements.
	mainFn, ok := lastStatement(mod).(*ast.FunDecl)
	if !ok || mainFn.Name != "main" {
		return value.Value{}, fmt.Errorf("felico: no expression to evaluate")
	}
	body, ok := mainFn.Body.(*ast.Block)
	if !ok || len(body.Statements) == 0 {
		return value.Value{}, fmt.Errorf("felico: no expression to evaluate")
	}
	exprStmt, ok := body.Statements[len(body.Statements)-1].(*ast.ExprStmt)
	if !ok {
		return value.Value{}, fmt.Errorf("felico: trailing statement is not an expression")
	}
	if _, diags := resolve.Resolve(file, mod); e.typeCheck && len(diags) > 0 {
		return value.Value{}, Diagnostics(diags)
	}
	i := interp.New(file, e.interpreterOptions()...)
	return i.Eval(mod, exprStmt.Expr)
}

func (e *Engine) interpreterOptions() []interp.Option {
	return []interp.Option{
		interp.WithOutput(e.output),
		interp.WithFuel(e.fuel),
		interp.WithMaxDepth(e.maxDepth),
	}
}

func lastStatement(mod *ast.Module) ast.Statement {
	if len(mod.Statements) == 0 {
		return nil
	}
	return mod.Statements[len(mod.Statements)-1]
}

func moduleName(path string) string {
	if path == "" {
		return "main"
	}
	return path
}
