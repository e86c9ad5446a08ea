package printer

import (
	"testing"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/parser"
	"github.com/felico-lang/felico/internal/source"
	"github.com/gkampitakis/go-snaps/snaps"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	f := &source.File{Path: "t.felico", Content: src}
	mod, errs := parser.ParseModule(f, "t", false)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return mod
}

func TestPrintFibonacciSnapshot(t *testing.T) {
	mod := parseModule(t, `fun fib(n: f64) -> f64 { return if (n <= 1) n else fib(n-2) + fib(n-1); }`)
	snaps.MatchSnapshot(t, "fib", Print(mod))
}

func TestPrintStructAndImplSnapshot(t *testing.T) {
	mod := parseModule(t, `
struct Point { x: i64, y: i64 }
impl Point {
  fun sum(self: Point) -> i64 { return self.x + self.y; }
}
`)
	snaps.MatchSnapshot(t, "struct_and_impl", Print(mod))
}

func TestPrintLetAndWhileSnapshot(t *testing.T) {
	mod := parseModule(t, `
fun count() -> unit {
  let n: i64 = 0;
  while (n != 3) { n = n + 1; }
}
`)
	snaps.MatchSnapshot(t, "let_and_while", Print(mod))
}

func TestPrintThenReparseIsStable(t *testing.T) {
	src := `fun f(a: i64, b: i64) -> i64 { return a + b * 2; }`
	mod := parseModule(t, src)
	printed := Print(mod)

	f2 := &source.File{Path: "t2.felico", Content: printed}
	mod2, errs := parser.ParseModule(f2, "t2", false)
	if len(errs) != 0 {
		t.Fatalf("reparsing printed output failed: %v\noutput:\n%s", errs, printed)
	}
	if got := Print(mod2); got != printed {
		t.Fatalf("print(parse(print(mod))) != print(mod):\nfirst:\n%s\nsecond:\n%s", printed, got)
	}
}
