package diag

import (
	"testing"

	"github.com/felico-lang/felico/internal/source"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestPrimarySpanReturnsFirstPrimaryLabel(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "x"}
	d := New(f, source.Span{Start: 0, End: 1}, "boom")
	d.WithSecondary(source.Span{Start: 2, End: 3}, "elsewhere")
	if got := d.PrimarySpan(); got != (source.Span{Start: 0, End: 1}) {
		t.Fatalf("PrimarySpan() = %+v, want {0 1}", got)
	}
}

func TestPrimarySpanZeroWhenNoPrimaryLabel(t *testing.T) {
	d := &Diagnostic{}
	if got := d.PrimarySpan(); !got.IsZero() {
		t.Fatalf("PrimarySpan() = %+v, want zero span", got)
	}
}

func TestErrorDelegatesToRender(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "let x = 1;"}
	d := New(f, source.Span{Start: 4, End: 5}, "bad name")
	if d.Error() != d.Render() {
		t.Fatal("Error() should equal Render()")
	}
}

func TestRenderSingleLabelSnapshot(t *testing.T) {
	f := &source.File{Path: "main.felico", Content: "let x = y + 1;"}
	d := New(f, source.Span{Start: 8, End: 9}, "Variable 'y' is not defined here")
	snaps.MatchSnapshot(t, "single_label", d.Render())
}

func TestRenderWithSecondaryLabelAndHelpSnapshot(t *testing.T) {
	f := &source.File{Path: "main.felico", Content: "let x = 1;\nlet x = 2;"}
	d := New(f, source.Span{Start: 15, End: 16}, "The name 'x' already declared")
	d.WithSecondary(source.Span{Start: 4, End: 5}, "previous declaration here")
	d.WithHelp("rename one of the bindings")
	snaps.MatchSnapshot(t, "secondary_and_help", d.Render())
}

func TestBagHasErrorsAndRenderAll(t *testing.T) {
	var bag Bag
	if bag.HasErrors() {
		t.Fatal("empty bag should report no errors")
	}
	f := &source.File{Path: "t.felico", Content: "a b"}
	bag.Add(New(f, source.Span{Start: 0, End: 1}, "first"))
	bag.Add(New(f, source.Span{Start: 2, End: 3}, "second"))
	if !bag.HasErrors() {
		t.Fatal("bag with an Error-severity diagnostic should report HasErrors")
	}
	if len(bag.Diagnostics()) != 2 {
		t.Fatalf("Diagnostics() len = %d, want 2", len(bag.Diagnostics()))
	}
	rendered := bag.RenderAll()
	if rendered == "" {
		t.Fatal("RenderAll() should not be empty")
	}
}

func TestPanicRecordErrorIncludesStack(t *testing.T) {
	rec := &PanicRecord{
		Message: "something went wrong",
		Stack: Stack{
			{Excerpt: "panic(...);"},
			{Excerpt: "p();"},
			{Excerpt: "x();"},
		},
	}
	want := "Execution panicked: something went wrong\npanic(...);\np();\nx();"
	if got := rec.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestPanicRecordErrorWithoutStack(t *testing.T) {
	rec := &PanicRecord{Message: "boom"}
	if got := rec.Error(); got != "Execution panicked: boom" {
		t.Fatalf("Error() = %q, want %q", got, "Execution panicked: boom")
	}
}

func TestFrameStringFallsBackToFunctionNameAndPosition(t *testing.T) {
	f := Frame{FunctionName: "f", Pos: source.Pos{Line: 3, Column: 7}}
	if got := f.String(); got != "f [line: 3, column: 7]" {
		t.Fatalf("String() = %q", got)
	}
}
