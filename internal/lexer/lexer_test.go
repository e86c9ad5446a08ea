package lexer

import (
	"testing"

	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/token"
)

func allTokens(l *Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexerEveryTokenSpanMatchesSourceSlice(t *testing.T) {
	src := "fun fib(n: f64) -> f64 { return if (n <= 1) n else fib(n-2) + fib(n-1); }"
	f := &source.File{Path: "t.felico", Content: src}
	toks := allTokens(New(f))
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.End < tok.Span.Start {
			t.Fatalf("token %+v has End < Start", tok)
		}
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Lexeme {
			t.Errorf("source[%d:%d] = %q, want lexeme %q", tok.Span.Start, tok.Span.End, got, tok.Lexeme)
		}
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "let fun_name struct"}
	toks := allTokens(New(f))
	kinds := []token.Kind{token.Let, token.Identifier, token.Struct, token.EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(kinds))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexerTwoCharOperators(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"!=", token.BangEq},
		{"==", token.EqEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
		{"->", token.Arrow},
		{"::", token.ColonCol},
		{"&&", token.AmpAmp},
		{"||", token.PipePipe},
	}
	for _, c := range cases {
		f := &source.File{Path: "t.felico", Content: c.src}
		tok := New(f).Next()
		if tok.Kind != c.kind {
			t.Errorf("lexing %q: kind = %v, want %v", c.src, tok.Kind, c.kind)
		}
		if tok.Lexeme != c.src {
			t.Errorf("lexing %q: lexeme = %q, want %q", c.src, tok.Lexeme, c.src)
		}
	}
}

func TestLexerSingleCharFallbackWhenSecondDoesNotMatch(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "! a"}
	tok := New(f).Next()
	if tok.Kind != token.Bang || tok.Lexeme != "!" {
		t.Fatalf("got %+v, want Bang '!'", tok)
	}
}

func TestLexerNumberStopsBeforeTrailingDot(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "3.foo"}
	l := New(f)
	num := l.Next()
	if num.Kind != token.Number || num.Lexeme != "3" {
		t.Fatalf("first token = %+v, want Number \"3\"", num)
	}
	dot := l.Next()
	if dot.Kind != token.Dot {
		t.Fatalf("second token = %+v, want Dot", dot)
	}
}

func TestLexerFloatLiteral(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "3.14 + 2"}
	l := New(f)
	num := l.Next()
	if num.Kind != token.Number || num.Lexeme != "3.14" {
		t.Fatalf("got %+v, want Number \"3.14\"", num)
	}
}

func TestLexerLineCommentSkippedButAdvancesOffset(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "// comment\nlet"}
	tok := New(f).Next()
	if tok.Kind != token.Let {
		t.Fatalf("got %+v, want Let", tok)
	}
	if tok.Span.Start != len("// comment\n") {
		t.Fatalf("Let token starts at %d, want %d", tok.Span.Start, len("// comment\n"))
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: `"hello`}
	l := New(f)
	l.Next()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lex error, got %d: %v", len(l.Errors()), l.Errors())
	}
}

func TestLexerUnexpectedCharacterReportsError(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: "@"}
	l := New(f)
	tok := l.Next()
	if tok.Kind != token.Illegal {
		t.Fatalf("got %+v, want Illegal", tok)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected one lex error, got %d", len(l.Errors()))
	}
}

func TestLexerMultiByteCharacterInsideStringIsByteExact(t *testing.T) {
	// A 4-byte emoji inside a string literal; the closing quote's span
	// must account for its full UTF-8 byte length, not a rune count
	// (spec.md §4.2, §8 boundary test).
	src := `"hi ` + "\U0001F600" + `!"`
	f := &source.File{Path: "t.felico", Content: src}
	tok := New(f).Next()
	if tok.Kind != token.String {
		t.Fatalf("got %+v, want String", tok)
	}
	if tok.Span.Start != 0 || tok.Span.End != len(src) {
		t.Fatalf("span = %+v, want {0 %d}", tok.Span, len(src))
	}
	if src[tok.Span.Start:tok.Span.End] != tok.Lexeme {
		t.Fatalf("lexeme %q does not match source slice", tok.Lexeme)
	}
}

func TestLexerAlwaysReturnsEOFAfterExhaustion(t *testing.T) {
	f := &source.File{Path: "t.felico", Content: ""}
	l := New(f)
	for i := 0; i < 3; i++ {
		tok := l.Next()
		if tok.Kind != token.EOF {
			t.Fatalf("call %d: got %v, want EOF", i, tok.Kind)
		}
	}
}
