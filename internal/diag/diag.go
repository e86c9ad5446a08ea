// Package diag implements Felico's structured diagnostic engine: errors
// that carry a severity, a primary span, zero or more secondary labeled
// spans, and optional help text, rendered as an aligned text excerpt
// (spec.md §4.4, §6, §7).
package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/felico-lang/felico/internal/source"
)

// Severity classifies a Diagnostic. Felico currently only produces
// Error-severity diagnostics; the type exists so a future warning lane
// does not require reshaping the engine.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Label attaches a message to a span within a diagnostic. Primary labels
// get a caret underline; secondary labels (e.g. "previous declaration
// here") get a plain underline.
type Label struct {
	Span    source.Span
	Message string
	Primary bool
}

// Diagnostic is a single structured error produced anywhere in the
// pipeline (lex, parse, resolve, runtime, VM).
type Diagnostic struct {
	Severity Severity
	Message  string
	File     *source.File
	Labels   []Label
	Help     string
}

// New creates an Error-severity diagnostic with a single primary label.
func New(file *source.File, span source.Span, message string) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Message:  message,
		File:     file,
		Labels:   []Label{{Span: span, Message: "", Primary: true}},
	}
}

// WithHelp attaches a help footer and returns d for chaining.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithSecondary adds a secondary (non-primary) label and returns d.
func (d *Diagnostic) WithSecondary(span source.Span, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Message: message, Primary: false})
	return d
}

// PrimarySpan returns the span of the first primary label, or a
// zero-value span if none is present.
func (d *Diagnostic) PrimarySpan() source.Span {
	for _, l := range d.Labels {
		if l.Primary {
			return l.Span
		}
	}
	return source.Span{}
}

// Error implements the error interface by rendering the diagnostic.
func (d *Diagnostic) Error() string {
	return d.Render()
}

// severityGlyph returns the leading glyph for the severity line, matching
// the "× message" header style.
func severityGlyph(sev Severity) string {
	switch sev {
	case Warning:
		return "⚠"
	default:
		return "×"
	}
}

// Render produces the stable textual form of the diagnostic described in
// spec.md §6: a severity line, a boxed excerpt per label with carets
// under primary labels, and an optional help footer.
func (d *Diagnostic) Render() string {
	var sb strings.Builder
	sb.WriteString(severityGlyph(d.Severity))
	sb.WriteString(" ")
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	for _, label := range d.Labels {
		d.renderLabel(&sb, label)
	}

	if d.Help != "" {
		sb.WriteString("help: ")
		sb.WriteString(d.Help)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (d *Diagnostic) renderLabel(sb *strings.Builder, label Label) {
	if d.File == nil {
		return
	}
	pos := d.File.Position(label.Span.Start)
	fmt.Fprintf(sb, "  --> %s:%d:%d\n", d.File.Path, pos.Line, pos.Column)

	line := d.File.Line(pos.Line)
	gutter := fmt.Sprintf("%d", pos.Line)
	fmt.Fprintf(sb, "%s | %s\n", gutter, line)

	width := runeWidth(line, pos.Column, label.Span)
	underline := "^"
	if !label.Primary {
		underline = "-"
	}
	pad := strings.Repeat(" ", len(gutter)) + " | " + strings.Repeat(" ", pos.Column-1)
	sb.WriteString(pad)
	sb.WriteString(strings.Repeat(underline, width))
	if label.Message != "" {
		sb.WriteString(" ")
		sb.WriteString(label.Message)
	}
	sb.WriteString("\n")
}

// runeWidth counts the code points spanned by label.Span on its source
// line, for the underline length; at least 1.
func runeWidth(line string, startCol int, span source.Span) int {
	n := span.End - span.Start
	if n <= 0 {
		return 1
	}
	start := 0
	for col := 1; col < startCol && start < len(line); col++ {
		_, size := utf8.DecodeRuneInString(line[start:])
		start += size
	}
	count := utf8.RuneCountInString(line[start:min(len(line), start+n)])
	if count == 0 {
		return 1
	}
	return count
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Bag collects multiple diagnostics without stopping at the first —
// used by the resolver, which must report every error in one run
// (spec.md §7).
type Bag struct {
	diags []*Diagnostic
}

// Add appends d to the bag.
func (b *Bag) Add(d *Diagnostic) {
	b.diags = append(b.diags, d)
}

// Diagnostics returns every diagnostic collected so far.
func (b *Bag) Diagnostics() []*Diagnostic {
	return b.diags
}

// HasErrors reports whether any Error-severity diagnostic was collected.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// RenderAll renders every diagnostic in the bag, separated by a blank
// line.
func (b *Bag) RenderAll() string {
	parts := make([]string, 0, len(b.diags))
	for _, d := range b.diags {
		parts = append(parts, d.Render())
	}
	return strings.Join(parts, "\n\n")
}
