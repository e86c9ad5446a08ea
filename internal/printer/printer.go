// Package printer renders a Felico AST back to deterministic text. It is
// used by tests to check the parser's shape (spec.md §4.3's "AST
// printer" component) and by the print-then-reparse property in
// spec.md §8.
package printer

import (
	"strconv"
	"strings"

	"github.com/felico-lang/felico/internal/ast"
)

// Print renders a Module deterministically: one top-level statement per
// line, consistent indentation, and stable field ordering.
func Print(mod *ast.Module) string {
	var sb strings.Builder
	for _, stmt := range mod.Statements {
		printStatement(&sb, stmt, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printStatement(sb *strings.Builder, s ast.Statement, depth int) {
	indent(sb, depth)
	switch n := s.(type) {
	case *ast.ExprStmt:
		printExpr(sb, n.Expr, depth)
		sb.WriteString(";\n")
	case *ast.LetStmt:
		sb.WriteString("let ")
		sb.WriteString(n.Name)
		if n.TypeExpr != nil {
			sb.WriteString(": ")
			sb.WriteString(n.TypeExpr.String())
		}
		sb.WriteString(" = ")
		printExpr(sb, n.Init, depth)
		sb.WriteString(";\n")
	case *ast.FunDecl:
		printFunDecl(sb, n, depth)
	case *ast.StructDecl:
		sb.WriteString("struct ")
		sb.WriteString(n.Name)
		sb.WriteString(" {\n")
		for _, f := range n.Fields {
			indent(sb, depth+1)
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			sb.WriteString(f.TypeExpr.String())
			sb.WriteString(",\n")
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ast.TraitDecl:
		sb.WriteString("trait ")
		sb.WriteString(n.Name)
		sb.WriteString("\n")
	case *ast.ImplDecl:
		sb.WriteString("impl ")
		sb.WriteString(n.Target)
		sb.WriteString(" {\n")
		for _, m := range n.Methods {
			printFunDecl(sb, m, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ast.WhileStmt:
		sb.WriteString("while (")
		printExpr(sb, n.Cond, depth)
		sb.WriteString(") ")
		printExpr(sb, n.Body, depth)
		sb.WriteString("\n")
	default:
		sb.WriteString("<unknown statement>\n")
	}
}

func printFunDecl(sb *strings.Builder, f *ast.FunDecl, depth int) {
	indent(sb, depth)
	sb.WriteString("fun ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.TypeExpr.String())
	}
	sb.WriteString(")")
	if f.ReturnExpr != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.ReturnExpr.String())
	}
	sb.WriteString(" ")
	printExpr(sb, f.Body, depth)
	sb.WriteString("\n")
}

func printExpr(sb *strings.Builder, e ast.Expression, depth int) {
	switch n := e.(type) {
	case *ast.Literal:
		sb.WriteString(printLiteral(n))
	case *ast.Variable:
		sb.WriteString(strings.Join(n.Parts, "::"))
	case *ast.Unary:
		sb.WriteString(n.Op.String())
		printExpr(sb, n.Expr, depth)
	case *ast.Binary:
		sb.WriteString("(")
		printExpr(sb, n.Left, depth)
		sb.WriteString(" ")
		sb.WriteString(n.Op.String())
		sb.WriteString(" ")
		printExpr(sb, n.Right, depth)
		sb.WriteString(")")
	case *ast.Assign:
		sb.WriteString(n.Name)
		sb.WriteString(" = ")
		printExpr(sb, n.Value, depth)
	case *ast.Call:
		printExpr(sb, n.Callee, depth)
		sb.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printExpr(sb, a, depth)
		}
		sb.WriteString(")")
	case *ast.Get:
		printExpr(sb, n.Object, depth)
		sb.WriteString(".")
		sb.WriteString(n.Name)
	case *ast.Set:
		printExpr(sb, n.Object, depth)
		sb.WriteString(".")
		sb.WriteString(n.Name)
		sb.WriteString(" = ")
		printExpr(sb, n.Value, depth)
	case *ast.Block:
		printBlock(sb, n, depth)
	case *ast.If:
		sb.WriteString("if (")
		printExpr(sb, n.Cond, depth)
		sb.WriteString(") ")
		printExpr(sb, n.Then, depth)
		if n.Else != nil {
			sb.WriteString(" else ")
			printExpr(sb, n.Else, depth)
		}
	case *ast.Return:
		sb.WriteString("return")
		if n.Value != nil {
			sb.WriteString(" ")
			printExpr(sb, n.Value, depth)
		}
	case *ast.CreateStruct:
		sb.WriteString(n.TypeExpr.String())
		sb.WriteString("{")
		for i, f := range n.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			printExpr(sb, f.Value, depth)
		}
		sb.WriteString("}")
	default:
		sb.WriteString("<unknown expr>")
	}
}

func printBlock(sb *strings.Builder, b *ast.Block, depth int) {
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		printStatement(sb, s, depth+1)
	}
	// A unit tail has no source syntax (the parser synthesizes it for a
	// block that ends without an expression), so it is not printed.
	if lit, ok := b.Tail.(*ast.Literal); b.Tail != nil && !(ok && lit.Kind == ast.LitUnit) {
		indent(sb, depth+1)
		printExpr(sb, b.Tail, depth+1)
		sb.WriteString("\n")
	}
	indent(sb, depth)
	sb.WriteString("}")
}

func printLiteral(l *ast.Literal) string {
	switch l.Kind {
	case ast.LitUnit:
		return "()"
	case ast.LitBool:
		return strconv.FormatBool(l.Bool)
	case ast.LitI64:
		return strconv.FormatInt(l.I64, 10)
	case ast.LitF64:
		return formatF64(l.F64)
	case ast.LitStr:
		return strconv.Quote(l.Str)
	default:
		return "<literal>"
	}
}

// formatF64 renders f with an explicit ".0" for integral values, so the
// printed form round-trips through the parser's float-only number
// literals without losing the type.
func formatF64(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
