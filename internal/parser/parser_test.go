package parser

import (
	"strings"
	"testing"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/printer"
	"github.com/felico-lang/felico/internal/source"
)

func parse(t *testing.T, src string, scriptMode bool) (*ast.Module, int) {
	t.Helper()
	f := &source.File{Path: "t.felico", Content: src}
	mod, diags := ParseModule(f, "t", scriptMode)
	return mod, len(diags)
}

func TestParseFunctionDeclaration(t *testing.T) {
	mod, n := parse(t, `fun fib(n: f64) -> f64 { return if (n <= 1) n else fib(n-2) + fib(n-1); }`, false)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	if len(mod.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(mod.Statements))
	}
	fn, ok := mod.Statements[0].(*ast.FunDecl)
	if !ok {
		t.Fatalf("expected *ast.FunDecl, got %T", mod.Statements[0])
	}
	if fn.Name != "fib" || len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("unexpected FunDecl shape: %+v", fn)
	}
}

func TestScriptModeSynthesizesMain(t *testing.T) {
	mod, n := parse(t, `let x = 1; debug_print(x);`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	if len(mod.Statements) != 1 {
		t.Fatalf("expected exactly one synthesized declaration, got %d", len(mod.Statements))
	}
	fn, ok := mod.Statements[0].(*ast.FunDecl)
	if !ok || fn.Name != "main" {
		t.Fatalf("expected synthesized 'main', got %+v", mod.Statements[0])
	}
	body, ok := fn.Body.(*ast.Block)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("expected main's body to hold the 2 loose statements, got %+v", fn.Body)
	}
	if _, ok := body.Tail.(*ast.Literal); !ok {
		t.Fatalf("expected synthesized main's tail to be a unit literal, got %T", body.Tail)
	}
}

func TestScriptModeKeepsTopLevelDeclarationsOutsideMain(t *testing.T) {
	mod, n := parse(t, `fun helper() -> unit {} helper();`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	if len(mod.Statements) != 2 {
		t.Fatalf("expected helper() plus synthesized main, got %d statements", len(mod.Statements))
	}
	if _, ok := mod.Statements[0].(*ast.FunDecl); !ok {
		t.Fatalf("expected first statement to be the helper FunDecl, got %T", mod.Statements[0])
	}
}

func TestInvalidLValueReportsHelp(t *testing.T) {
	_, diags := ParseModule(&source.File{Path: "t.felico", Content: `3 = true;`}, "t", true)
	if len(diags) == 0 {
		t.Fatal("expected a parse error for '3 = true'")
	}
	d := diags[0]
	if !strings.Contains(d.Message, "l-value") {
		t.Errorf("message = %q, want it to mention l-value", d.Message)
	}
	if !strings.Contains(strings.ToLower(d.Help), "l-value") {
		t.Errorf("help = %q, want it to mention l-value", d.Help)
	}
}

func TestTooManyParamsIsAnError(t *testing.T) {
	var params []string
	for i := 0; i < 300; i++ {
		params = append(params, "p"+itoaTest(i)+": i64")
	}
	src := "fun f(" + strings.Join(params, ", ") + ") -> unit {}"
	_, diags := ParseModule(&source.File{Path: "t.felico", Content: src}, "t", false)
	if len(diags) == 0 {
		t.Fatal("expected an error for more than 256 parameters")
	}
}

func TestTrailingCommaAllowedInParamsAndArgs(t *testing.T) {
	_, n := parse(t, `fun f(a: i64, b: i64,) -> unit {} f(1, 2,);`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
}

func TestQualifiedNamesUseColonColon(t *testing.T) {
	mod, n := parse(t, `a::b::c;`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	fn := mod.Statements[0].(*ast.FunDecl)
	body := fn.Body.(*ast.Block)
	exprStmt := body.Statements[0].(*ast.ExprStmt)
	v, ok := exprStmt.Expr.(*ast.Variable)
	if !ok {
		t.Fatalf("expected *ast.Variable, got %T", exprStmt.Expr)
	}
	if strings.Join(v.Parts, "::") != "a::b::c" {
		t.Fatalf("Parts = %v, want [a b c]", v.Parts)
	}
}

func TestAssignmentRewritesVariableAndGet(t *testing.T) {
	mod, n := parse(t, `let s = S{bar: "x"}; s.bar = "y"; x = 1;`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	fn := mod.Statements[0].(*ast.FunDecl)
	body := fn.Body.(*ast.Block)
	setStmt := body.Statements[1].(*ast.ExprStmt)
	if _, ok := setStmt.Expr.(*ast.Set); !ok {
		t.Fatalf("expected *ast.Set, got %T", setStmt.Expr)
	}
	assignStmt := body.Statements[2].(*ast.ExprStmt)
	if _, ok := assignStmt.Expr.(*ast.Assign); !ok {
		t.Fatalf("expected *ast.Assign, got %T", assignStmt.Expr)
	}
}

func TestBlockAndIfTailsOmitSemicolon(t *testing.T) {
	mod, n := parse(t, `fun f() -> unit { if (true) { } while(true) {} }`, false)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	fn := mod.Statements[0].(*ast.FunDecl)
	body := fn.Body.(*ast.Block)
	if len(body.Statements) != 2 {
		t.Fatalf("expected 2 statements (if-stmt, while-stmt), got %d", len(body.Statements))
	}
}

func TestCreateStructParsesFieldInitializers(t *testing.T) {
	mod, n := parse(t, `struct S { bar: str, } S{bar: "19"};`, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	fn := mod.Statements[1].(*ast.FunDecl)
	body := fn.Body.(*ast.Block)
	exprStmt := body.Statements[0].(*ast.ExprStmt)
	cs, ok := exprStmt.Expr.(*ast.CreateStruct)
	if !ok {
		t.Fatalf("expected *ast.CreateStruct, got %T", exprStmt.Expr)
	}
	if len(cs.Fields) != 1 || cs.Fields[0].Name != "bar" {
		t.Fatalf("unexpected fields: %+v", cs.Fields)
	}
}

func TestEverySpanLiesWithinFile(t *testing.T) {
	src := `fun fib(n: f64) -> f64 { return if (n <= 1) n else fib(n-2) + fib(n-1); } debug_print(fib(6));`
	mod, n := parse(t, src, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		sp := node.Span()
		if sp.Start < 0 || sp.End > len(src) || sp.Start > sp.End {
			t.Errorf("span %+v of %T out of bounds [0,%d]", sp, node, len(src))
		}
	}
	walk(mod)
	for _, stmt := range mod.Statements {
		walk(stmt)
	}
}

func TestPrintThenReparseShapeEquality(t *testing.T) {
	src := `let x: i64 = 1 + 2 * 3; debug_print(x);`
	mod1, n := parse(t, src, true)
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	printed := printer.Print(mod1)

	mod2, n2 := parse(t, printed, false)
	if n2 != 0 {
		t.Fatalf("reparsing printed output failed: %d errors, output was:\n%s", n2, printed)
	}
	reprinted := printer.Print(mod2)
	if printed != reprinted {
		t.Fatalf("print-then-reparse is not stable:\nfirst:\n%s\nsecond:\n%s", printed, reprinted)
	}
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
