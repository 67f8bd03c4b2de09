package lexer

import (
	"testing"

	"github.com/schiffy91/btrc/internal/grammar"
	"github.com/schiffy91/btrc/internal/token"
)

func testGrammar(t *testing.T) *grammar.GrammarInfo {
	t.Helper()
	g, err := grammar.Load("../../grammar/btrc.ebnf")
	if err != nil {
		t.Fatalf("grammar.Load: %v", err)
	}
	return g
}

func kindsOf(t *testing.T, src string) []token.Kind {
	t.Helper()
	g := testGrammar(t)
	l := New(g, src, "<test>")
	var kinds []token.Kind
	for _, tok := range l.All() {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexerBasicDeclaration(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "int x = 1;", "<test>")
	toks := l.All()
	want := []struct {
		kind    token.Kind
		literal string
	}{
		{g.MustKind("int"), "int"},
		{token.IDENT, "x"},
		{g.MustKind("="), "="},
		{token.INT, "1"},
		{g.MustKind(";"), ";"},
		{token.EOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Literal != w.literal {
			t.Errorf("token %d = %+v, want kind %v literal %q", i, toks[i], w.kind, w.literal)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"123", token.INT},
		{"0x1F", token.INT},
		{"0b101", token.INT},
		{"0o17", token.INT},
		{"1.5", token.FLOAT},
		{".5", token.FLOAT},
		{"1.", token.FLOAT},
		{"1e10", token.FLOAT},
		{"1.5f", token.FLOAT},
	}
	g := testGrammar(t)
	for _, c := range cases {
		l := New(g, c.src, "<test>")
		tok := l.NextToken()
		if tok.Kind != c.kind {
			t.Errorf("%q: kind = %v, want %v", c.src, tok.Kind, c.kind)
		}
		if tok.Literal != c.src {
			t.Errorf("%q: literal = %q", c.src, tok.Literal)
		}
	}
}

func TestLexerStringAndChar(t *testing.T) {
	g := testGrammar(t)
	l := New(g, `"hi\n" 'a'`, "<test>")
	s := l.NextToken()
	if s.Kind != token.STRING || s.Literal != "hi\n" {
		t.Errorf("string token = %+v", s)
	}
	c := l.NextToken()
	if c.Kind != token.CHAR || c.Literal != "a" {
		t.Errorf("char token = %+v", c)
	}
}

func TestLexerFString(t *testing.T) {
	g := testGrammar(t)
	l := New(g, `f"count = {x}"`, "<test>")
	tok := l.NextToken()
	if tok.Kind != token.FSTRING {
		t.Fatalf("kind = %v, want FSTRING", tok.Kind)
	}
	if tok.Literal != "count = {x}" {
		t.Errorf("literal = %q", tok.Literal)
	}
}

func TestLexerFStringEscapedBraces(t *testing.T) {
	g := testGrammar(t)
	l := New(g, `f"{{literal}}"`, "<test>")
	tok := l.NextToken()
	if tok.Literal != "{{literal}}" {
		t.Errorf("literal = %q", tok.Literal)
	}
}

func TestLexerOperatorMaximalMunch(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "a <<= b", "<test>")
	l.NextToken() // a
	op := l.NextToken()
	if op.Literal != "<<=" {
		t.Errorf("operator = %q, want %q", op.Literal, "<<=")
	}
}

func TestLexerLineComment(t *testing.T) {
	kinds := kindsOf(t, "int x; // trailing\nint y;")
	if len(kinds) == 0 {
		t.Fatal("expected tokens")
	}
}

func TestLexerNestedBlockComment(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "/* outer /* inner */ still outer */ int x;", "<test>")
	tok := l.NextToken()
	if tok.Kind != g.MustKind("int") {
		t.Errorf("first token after nested comment = %+v, want 'int'", tok)
	}
}

func TestLexerIllegalCharacterRecordsError(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "int x = `;", "<test>")
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for the illegal backtick")
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "int x;", "<test>")
	first := l.Peek(0)
	second := l.NextToken()
	if first.Literal != second.Literal {
		t.Errorf("Peek(0) = %q, NextToken() = %q", first.Literal, second.Literal)
	}
}

func TestLexerSaveRestore(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "int x; float y;", "<test>")
	l.NextToken()
	state := l.Save()
	a := l.NextToken()
	l.Restore(state)
	b := l.NextToken()
	if a.Literal != b.Literal {
		t.Errorf("restored token = %q, want %q", b.Literal, a.Literal)
	}
}

func TestLexerKeywordCaseSensitive(t *testing.T) {
	g := testGrammar(t)
	l := New(g, "Int", "<test>")
	tok := l.NextToken()
	if tok.Kind != token.IDENT {
		t.Errorf("Int (capitalized) should lex as IDENT, got %v", tok.Kind)
	}
}
