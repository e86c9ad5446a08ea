package diag

import (
	"fmt"
	"strings"

	"github.com/felico-lang/felico/internal/source"
)

// Frame is one entry in a captured call stack: the call site (function
// name, file, line/column) and a short source excerpt of the call
// expression, snapshotted at the moment a panic() propagates past it
// (spec.md §4.5, scenario 6).
type Frame struct {
	FunctionName string
	File         *source.File
	Pos          source.Pos
	Excerpt      string
}

// String renders a single frame as its call-site source excerpt (e.g.
// "p();"), matching spec.md §8 scenario 6, which expects the three
// frames "panic(...)", "p();", "x();" in call order. Falls back to the
// function name if no excerpt was captured.
func (f Frame) String() string {
	if f.Excerpt != "" {
		return f.Excerpt
	}
	return fmt.Sprintf("%s [line: %d, column: %d]", f.FunctionName, f.Pos.Line, f.Pos.Column)
}

// Stack is a captured call stack, ordered from the panic site (index 0)
// to the program root (last index).
type Stack []Frame

// String renders every frame, panic site first, one per line.
func (s Stack) String() string {
	lines := make([]string, len(s))
	for i, f := range s {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// PanicRecord is the payload of a user-program panic() call: the message
// and the call stack captured at the moment of the panic.
type PanicRecord struct {
	Message string
	Stack   Stack
}

// Error implements error so a PanicRecord surfacing at the program root
// can be returned directly (spec.md §7: "Surfaced with captured call
// stack").
func (p *PanicRecord) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Execution panicked: %s", p.Message)
	if len(p.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(p.Stack.String())
	}
	return sb.String()
}
