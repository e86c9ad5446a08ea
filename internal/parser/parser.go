// Package parser implements Felico's recursive-descent, one-token-
// lookahead parser, producing the typed AST nodes of package ast
// (spec.md §4.3).
package parser

import (
	"strconv"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/lexer"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/token"
)

// maxListItems bounds parameter/argument list length per spec.md §4.3.
const maxListItems = 256

// Parser is a recursive-descent parser over one file's token stream.
type Parser struct {
	lex  *lexer.Lexer
	file *source.File

	cur  token.Token
	peek token.Token

	errs []*diag.Diagnostic
	// fatal is set on the first parse error; the parser stops
	// descending further productions once set (spec.md §7: "Stage
	// aborts at first").
	fatal bool
}

// New creates a Parser over file.
func New(file *source.File) *Parser {
	l := lexer.New(file)
	p := &Parser{lex: l, file: file}
	for _, e := range l.Errors() {
		p.errs = append(p.errs, diag.New(file, e.Span, e.Message))
	}
	p.fatal = len(p.errs) > 0
	p.cur = l.Next()
	p.peek = l.Next()
	return p
}

// Errors returns every diagnostic produced while parsing.
func (p *Parser) Errors() []*diag.Diagnostic { return p.errs }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) errorAt(span source.Span, message string) *diag.Diagnostic {
	d := diag.New(p.file, span, message)
	p.errs = append(p.errs, d)
	p.fatal = true
	return d
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errorAt(p.cur.Span, "expected "+k.String()+", found "+p.cur.Kind.String())
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

// ParseModule parses an entire token stream into a Module named name.
// When scriptMode is true, every top-level statement that is not itself
// a Fun/Struct/Trait/Impl declaration is collected and wrapped in a
// synthesized `main() -> unit` function (spec.md §4.3).
func ParseModule(file *source.File, name string, scriptMode bool) (*ast.Module, []*diag.Diagnostic) {
	p := New(file)
	mod := &ast.Module{Name: name}
	startSpan := p.cur.Span

	var loose []ast.Statement
	for !p.at(token.EOF) && !p.fatal {
		stmt := p.declaration()
		if stmt == nil {
			break
		}
		switch stmt.(type) {
		case *ast.FunDecl, *ast.StructDecl, *ast.TraitDecl, *ast.ImplDecl:
			mod.Statements = append(mod.Statements, stmt)
		default:
			if scriptMode {
				loose = append(loose, stmt)
			} else {
				mod.Statements = append(mod.Statements, stmt)
			}
		}
	}

	if scriptMode {
		body := &ast.Block{
			Statements: loose,
			Tail:       &ast.Literal{Kind: ast.LitUnit, Sp: p.cur.Span},
			Sp:         startSpan.Cover(p.cur.Span),
		}
		mod.Statements = append(mod.Statements, &ast.FunDecl{
			Name:       "main",
			ReturnExpr: nil,
			Body:       body,
			Sp:         startSpan.Cover(p.cur.Span),
		})
	}

	mod.Sp = startSpan.Cover(p.cur.Span)
	return mod, p.errs
}

// declaration parses one top-level-or-block declaration/statement.
func (p *Parser) declaration() ast.Statement {
	switch p.cur.Kind {
	case token.Let:
		return p.letStmt()
	case token.Struct:
		return p.structDecl()
	case token.Trait:
		return p.traitDecl()
	case token.Impl:
		return p.implDecl()
	case token.Fun:
		return p.funDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) statement() ast.Statement {
	if p.at(token.While) {
		return p.whileStmt()
	}
	start := p.cur.Span
	expr := p.expression()
	if p.fatal {
		return nil
	}
	// Semicolons terminate non-block/non-if expression statements; the
	// semicolon is omitted (and optional) when expr is a block or if,
	// since those already delimit themselves (spec.md §4.3).
	switch expr.(type) {
	case *ast.Block, *ast.If:
		if p.at(token.Semi) {
			p.advance()
		}
	default:
		p.expect(token.Semi)
	}
	return &ast.ExprStmt{Expr: expr, Sp: start.Cover(expr.Span())}
}

func (p *Parser) whileStmt() ast.Statement {
	start := p.cur.Span
	p.advance() // 'while'
	p.expect(token.LParen)
	cond := p.expression()
	p.expect(token.RParen)
	body := p.blockExpr()
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: start.Cover(body.Span())}
}

func (p *Parser) letStmt() ast.Statement {
	start := p.cur.Span
	p.advance() // 'let'
	name := p.expect(token.Identifier).Lexeme
	var te *ast.TypeExpr
	if p.at(token.Colon) {
		p.advance()
		te = p.typeExpr()
	}
	p.expect(token.Eq)
	init := p.expression()
	end := p.expect(token.Semi).Span
	return &ast.LetStmt{Name: name, TypeExpr: te, Init: init, Sp: start.Cover(end)}
}

func (p *Parser) typeExpr() *ast.TypeExpr {
	start := p.cur.Span
	parts := []string{p.expect(token.Identifier).Lexeme}
	end := start
	for p.at(token.ColonCol) {
		p.advance()
		tok := p.expect(token.Identifier)
		parts = append(parts, tok.Lexeme)
		end = tok.Span
	}
	return &ast.TypeExpr{Parts: parts, Sp: start.Cover(end)}
}

func (p *Parser) params() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) && !p.fatal {
		if len(params) >= maxListItems {
			p.errorAt(p.cur.Span, "too many parameters (maximum 256)")
			return params
		}
		name := p.expect(token.Identifier).Lexeme
		p.expect(token.Colon)
		te := p.typeExpr()
		params = append(params, ast.Param{Name: name, TypeExpr: te})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return params
}

func (p *Parser) funDecl() *ast.FunDecl {
	start := p.cur.Span
	p.advance() // 'fun'
	name := p.expect(token.Identifier).Lexeme
	params := p.params()
	var ret *ast.TypeExpr
	if p.at(token.Arrow) {
		p.advance()
		ret = p.typeExpr()
	}
	body := p.blockExpr()
	return &ast.FunDecl{Name: name, Params: params, ReturnExpr: ret, Body: body, Sp: start.Cover(body.Span())}
}

func (p *Parser) structDecl() *ast.StructDecl {
	start := p.cur.Span
	p.advance() // 'struct'
	name := p.expect(token.Identifier).Lexeme
	p.expect(token.LBrace)
	var fields []ast.StructField
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		fname := p.expect(token.Identifier).Lexeme
		p.expect(token.Colon)
		te := p.typeExpr()
		fields = append(fields, ast.StructField{Name: fname, TypeExpr: te})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace).Span
	return &ast.StructDecl{Name: name, Fields: fields, Sp: start.Cover(end)}
}

func (p *Parser) traitDecl() *ast.TraitDecl {
	start := p.cur.Span
	p.advance() // 'trait'
	nameTok := p.expect(token.Identifier)
	end := nameTok.Span
	if p.at(token.LBrace) {
		p.advance()
		end = p.expect(token.RBrace).Span
	}
	return &ast.TraitDecl{Name: nameTok.Lexeme, Sp: start.Cover(end)}
}

func (p *Parser) implDecl() *ast.ImplDecl {
	start := p.cur.Span
	p.advance() // 'impl'
	target := p.expect(token.Identifier).Lexeme
	p.expect(token.LBrace)
	var methods []*ast.FunDecl
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		methods = append(methods, p.funDecl())
	}
	end := p.expect(token.RBrace).Span
	return &ast.ImplDecl{Target: target, Methods: methods, Sp: start.Cover(end)}
}

// --- Pratt-style expression grammar ---

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	lhs := p.or()
	if p.fatal {
		return lhs
	}
	if !p.at(token.Eq) {
		return lhs
	}
	p.advance()
	rhs := p.assignment()
	switch l := lhs.(type) {
	case *ast.Variable:
		if len(l.Parts) != 1 {
			p.errorAt(l.Sp, "Assignment target must be an l-value").WithHelp("qualified names are not assignable; assign to a single local name")
			return lhs
		}
		return &ast.Assign{Name: l.Parts[0], Value: rhs, Sp: l.Sp.Cover(rhs.Span())}
	case *ast.Get:
		return &ast.Set{Object: l.Object, Name: l.Name, Value: rhs, Sp: l.Sp.Cover(rhs.Span())}
	default:
		p.errorAt(lhs.Span(), "Assignment target must be an l-value").WithHelp("the left-hand side of '=' must be an l-value (a variable or field)")
		return lhs
	}
}

func (p *Parser) or() ast.Expression {
	left := p.and()
	for p.at(token.PipePipe) && !p.fatal {
		opSpan := p.cur.Span
		p.advance()
		right := p.and()
		left = &ast.Binary{Op: ast.BinOr, Left: left, Right: right, Sp: left.Span().Cover(right.Span()).Cover(opSpan)}
	}
	return left
}

func (p *Parser) and() ast.Expression {
	left := p.equality()
	for p.at(token.AmpAmp) && !p.fatal {
		p.advance()
		right := p.equality()
		left = &ast.Binary{Op: ast.BinAnd, Left: left, Right: right, Sp: left.Span().Cover(right.Span())}
	}
	return left
}

func (p *Parser) equality() ast.Expression {
	left := p.comparison()
	for (p.at(token.EqEq) || p.at(token.BangEq)) && !p.fatal {
		op := ast.BinEq
		if p.cur.Kind == token.BangEq {
			op = ast.BinNeq
		}
		p.advance()
		right := p.comparison()
		left = &ast.Binary{Op: op, Left: left, Right: right, Sp: left.Span().Cover(right.Span())}
	}
	return left
}

func (p *Parser) comparison() ast.Expression {
	left := p.addition()
	for !p.fatal {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.Lt:
			op = ast.BinLt
		case token.LtEq:
			op = ast.BinLe
		case token.Gt:
			op = ast.BinGt
		case token.GtEq:
			op = ast.BinGe
		default:
			return left
		}
		p.advance()
		right := p.addition()
		left = &ast.Binary{Op: op, Left: left, Right: right, Sp: left.Span().Cover(right.Span())}
	}
	return left
}

func (p *Parser) addition() ast.Expression {
	left := p.multiplication()
	for !p.fatal {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.Plus:
			op = ast.BinAdd
		case token.Minus:
			op = ast.BinSub
		default:
			return left
		}
		p.advance()
		right := p.multiplication()
		left = &ast.Binary{Op: op, Left: left, Right: right, Sp: left.Span().Cover(right.Span())}
	}
	return left
}

func (p *Parser) multiplication() ast.Expression {
	left := p.unary()
	for !p.fatal {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		default:
			return left
		}
		p.advance()
		right := p.unary()
		left = &ast.Binary{Op: op, Left: left, Right: right, Sp: left.Span().Cover(right.Span())}
	}
	return left
}

func (p *Parser) unary() ast.Expression {
	if p.at(token.Bang) || p.at(token.Minus) {
		start := p.cur.Span
		op := ast.UnaryNeg
		if p.cur.Kind == token.Bang {
			op = ast.UnaryNot
		}
		p.advance()
		operand := p.unary()
		return &ast.Unary{Op: op, Expr: operand, Sp: start.Cover(operand.Span())}
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.createStruct()
	for !p.fatal {
		switch {
		case p.at(token.LParen):
			expr = p.finishCall(expr)
		case p.at(token.Dot):
			p.advance()
			nameTok := p.expect(token.Identifier)
			expr = &ast.Get{Object: expr, Name: nameTok.Lexeme, Sp: expr.Span().Cover(nameTok.Span)}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	p.advance() // '('
	var args []ast.Expression
	for !p.at(token.RParen) && !p.at(token.EOF) && !p.fatal {
		if len(args) >= maxListItems {
			p.errorAt(p.cur.Span, "too many arguments (maximum 256)")
			break
		}
		args = append(args, p.expression())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RParen).Span
	return &ast.Call{Callee: callee, Args: args, Sp: callee.Span().Cover(end)}
}

func (p *Parser) createStruct() ast.Expression {
	expr := p.primary()
	if v, ok := expr.(*ast.Variable); ok && p.at(token.LBrace) {
		p.advance()
		var fields []ast.FieldInit
		for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
			fname := p.expect(token.Identifier).Lexeme
			p.expect(token.Colon)
			fval := p.expression()
			fields = append(fields, ast.FieldInit{Name: fname, Value: fval})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		end := p.expect(token.RBrace).Span
		return &ast.CreateStruct{
			TypeExpr: &ast.TypeExpr{Parts: v.Parts, Sp: v.Sp},
			Fields:   fields,
			Sp:       v.Sp.Cover(end),
		}
	}
	return expr
}

func (p *Parser) primary() ast.Expression {
	switch p.cur.Kind {
	case token.True, token.False:
		span := p.cur.Span
		val := p.cur.Kind == token.True
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: val, Sp: span}
	case token.Number:
		return p.numberLiteral()
	case token.String:
		span := p.cur.Span
		raw := p.cur.Lexeme
		value := raw
		if len(raw) >= 2 {
			value = raw[1 : len(raw)-1]
		}
		p.advance()
		return &ast.Literal{Kind: ast.LitStr, Str: value, Sp: span}
	case token.Identifier:
		return p.identPath()
	case token.LParen:
		p.advance()
		inner := p.expression()
		p.expect(token.RParen)
		return inner
	case token.LBrace:
		return p.blockExpr()
	case token.If:
		return p.ifExpr()
	case token.Return:
		return p.returnExpr()
	default:
		d := p.errorAt(p.cur.Span, "unexpected token "+p.cur.Kind.String())
		return &ast.Literal{Kind: ast.LitUnit, Sp: d.PrimarySpan()}
	}
}

// numberLiteral always produces an F64 literal: Felico has no distinct
// integer-literal syntax, so every Number token (digit run, optionally
// followed by a fractional part) parses as a float, matching the
// original parser's `LiteralExpr::F64(number)`.
func (p *Parser) numberLiteral() ast.Expression {
	span := p.cur.Span
	lexeme := p.cur.Lexeme
	p.advance()
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.errorAt(span, "invalid number literal '"+lexeme+"'")
		return &ast.Literal{Kind: ast.LitF64, Sp: span}
	}
	return &ast.Literal{Kind: ast.LitF64, F64: f, Sp: span}
}

func (p *Parser) identPath() ast.Expression {
	start := p.cur.Span
	parts := []string{p.cur.Lexeme}
	p.advance()
	end := start
	for p.at(token.ColonCol) {
		p.advance()
		tok := p.expect(token.Identifier)
		parts = append(parts, tok.Lexeme)
		end = tok.Span
	}
	return &ast.Variable{Parts: parts, Sp: start.Cover(end)}
}

func (p *Parser) blockExpr() *ast.Block {
	start := p.expect(token.LBrace).Span
	var stmts []ast.Statement
	var tail ast.Expression
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		switch p.cur.Kind {
		case token.Let, token.While, token.Struct, token.Trait, token.Impl, token.Fun:
			stmts = append(stmts, p.declaration())
			continue
		}
		exprStart := p.cur.Span
		e := p.expression()
		if p.fatal {
			break
		}
		// A block-ending expression with no following ';' is the tail;
		// otherwise it's a statement and the ';' is consumed (optional
		// for Block/If tails, mandatory otherwise).
		_, isBlockLike := e.(*ast.Block)
		_, isIf := e.(*ast.If)
		if p.at(token.Semi) {
			p.advance()
			stmts = append(stmts, &ast.ExprStmt{Expr: e, Sp: exprStart.Cover(e.Span())})
			continue
		}
		if p.at(token.RBrace) {
			tail = e
			break
		}
		if isBlockLike || isIf {
			stmts = append(stmts, &ast.ExprStmt{Expr: e, Sp: exprStart.Cover(e.Span())})
			continue
		}
		p.expect(token.Semi)
		stmts = append(stmts, &ast.ExprStmt{Expr: e, Sp: exprStart.Cover(e.Span())})
	}
	end := p.expect(token.RBrace).Span
	if tail == nil {
		tail = &ast.Literal{Kind: ast.LitUnit, Sp: end}
	}
	return &ast.Block{Statements: stmts, Tail: tail, Sp: start.Cover(end)}
}

func (p *Parser) ifExpr() ast.Expression {
	start := p.cur.Span
	p.advance() // 'if'
	p.expect(token.LParen)
	cond := p.expression()
	p.expect(token.RParen)
	then := p.expression()
	var els ast.Expression
	end := then.Span()
	if p.at(token.Else) {
		p.advance()
		els = p.expression()
		end = els.Span()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Sp: start.Cover(end)}
}

func (p *Parser) returnExpr() ast.Expression {
	start := p.cur.Span
	p.advance() // 'return'
	if p.at(token.Semi) || p.at(token.RBrace) {
		return &ast.Return{Value: nil, Sp: start}
	}
	val := p.expression()
	return &ast.Return{Value: val, Sp: start.Cover(val.Span())}
}
