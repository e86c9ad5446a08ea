package resolve

import (
	"strings"
	"testing"

	"github.com/felico-lang/felico/internal/parser"
	"github.com/felico-lang/felico/internal/source"
)

func resolveSrc(t *testing.T, src string) (*Manifest, []string) {
	t.Helper()
	f := &source.File{Path: "t.felico", Content: src}
	mod, perrs := parser.ParseModule(f, "t", true)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	manifest, diags := Resolve(f, mod)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return manifest, msgs
}

func TestResolveFibSignature(t *testing.T) {
	m, errs := resolveSrc(t, `fun fib(n: f64) -> f64 { return if (n <= 1) n else fib(n-2) + fib(n-1); }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if got := m.Exports["fib"].Signature(); got != "❬Fn(f64) -> f64❭" {
		t.Fatalf("fib signature = %q", got)
	}
}

func TestUndefinedNamesBothReportedInOneRun(t *testing.T) {
	_, errs := resolveSrc(t, `a + b;`)
	if len(errs) != 2 {
		t.Fatalf("expected 2 diagnostics for a and b, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "'a'") {
		t.Errorf("first error = %q, want it to mention 'a'", errs[0])
	}
	if !strings.Contains(errs[1], "'b'") {
		t.Errorf("second error = %q, want it to mention 'b'", errs[1])
	}
}

func TestSqrtArgumentCoercionError(t *testing.T) {
	_, errs := resolveSrc(t, `sqrt(true);`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "coerce") {
		t.Errorf("error = %q, want a coercion message", errs[0])
	}
}

func TestDuplicateNameHasSecondaryLabel(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: `let x = 1; let x = 2;`}
	mod, perrs := parser.ParseModule(f, "t", true)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	_, diags := Resolve(f, mod)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if !strings.Contains(d.Message, "already declared") {
		t.Errorf("message = %q", d.Message)
	}
	var secondary int
	for _, l := range d.Labels {
		if !l.Primary {
			secondary++
		}
	}
	if secondary != 1 {
		t.Fatalf("expected 1 secondary label, got %d: %+v", secondary, d.Labels)
	}
}

func TestLexicalDistanceThroughNestedBlocks(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: `fun f() -> i64 { let x = 1; { x } }`}
	mod, perrs := parser.ParseModule(f, "t", false)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	if _, diags := Resolve(f, mod); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestLetTypeMismatchIsReported(t *testing.T) {
	_, errs := resolveSrc(t, `let x: str = 1;`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
	}
}

func TestIfBranchesMustHaveCompatibleTypes(t *testing.T) {
	_, errs := resolveSrc(t, `fun f() -> unit { if (true) { 1 } else { "s" }; }`)
	if len(errs) == 0 {
		t.Fatal("expected an incompatible-branch diagnostic")
	}
}

func TestStructFieldsResolveAndCreateStructChecksCompleteness(t *testing.T) {
	_, errs := resolveSrc(t, `struct S { bar: str } S{};`)
	if len(errs) != 1 || !strings.Contains(errs[0], "Missing field") {
		t.Fatalf("errs = %v, want a single Missing-field diagnostic", errs)
	}
}

func TestStructFieldAssignmentTypeChecked(t *testing.T) {
	_, errs := resolveSrc(t, `struct S { bar: str } let s = S{bar: "x"}; s.bar = 1;`)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want 1 diagnostic for assigning f64 to a str field", errs)
	}
}

func TestCallArityMismatchReported(t *testing.T) {
	_, errs := resolveSrc(t, `fun f(a: i64) -> unit {} f(1, 2);`)
	if len(errs) != 1 || !strings.Contains(errs[0], "Expected 1 arguments but got 2") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestManifestStringStableForm(t *testing.T) {
	// scriptMode is false here so the manifest holds exactly the two
	// declared functions, with no synthesized "main" export.
	f := &source.File{Path: "t.felico", Content: `fun b() -> unit {} fun a() -> unit {}`}
	mod, perrs := parser.ParseModule(f, "t", false)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	m, diags := Resolve(f, mod)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "Module\n  a: ❬Fn() -> Unit❭\n  b: ❬Fn() -> Unit❭\n"
	if got := m.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestTraitDeclarationResolvesWithoutDiagnostics(t *testing.T) {
	// Traits participate in name resolution: "trait Foo {}" declares a
	// type-level symbol and produces no diagnostics.
	_, errs := resolveSrc(t, `trait Foo {}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics declaring an empty trait: %v", errs)
	}
}

func TestForwardReferenceBetweenTopLevelFunctions(t *testing.T) {
	_, errs := resolveSrc(t, `fun a() -> unit { b(); } fun b() -> unit {}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics for mutual top-level forward reference: %v", errs)
	}
}
