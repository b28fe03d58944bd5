package malgo

import (
	"errors"
	"testing"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return toks
}

func wantTokenTypes(t *testing.T, src string, types ...TokenType) {
	t.Helper()
	toks := tokenize(t, src)
	types = append(types, EOF)
	if len(toks) != len(types) {
		t.Fatalf("Tokenize(%q): want %d tokens, got %d: %#v", src, len(types), len(toks), toks)
	}
	for i, want := range types {
		if toks[i].Type != want {
			t.Fatalf("Tokenize(%q): token %d is %d, want %d", src, i, toks[i].Type, want)
		}
	}
}

func Test_Lexer_Punctuation_And_Markers(t *testing.T) {
	wantTokenTypes(t, "()", LROUND, RROUND)
	wantTokenTypes(t, "[]{}", LSQUARE, RSQUARE, LCURLY, RCURLY)
	wantTokenTypes(t, "'`~~@@^", QUOTE, QUASIQUOTE, UNQUOTE, SPLICE, DEREF, CARET)
}

func Test_Lexer_Splice_Is_One_Token(t *testing.T) {
	toks := tokenize(t, "~@x")
	if toks[0].Type != SPLICE || toks[1].Type != SYMBOL {
		t.Fatalf("want SPLICE SYMBOL, got %#v", toks)
	}
}

func Test_Lexer_Numbers_And_Symbols(t *testing.T) {
	toks := tokenize(t, "12 -5 - -a abc-5 +")
	want := []struct {
		typ TokenType
		lex string
	}{
		{NUMBER, "12"}, {NUMBER, "-5"}, {SYMBOL, "-"},
		{SYMBOL, "-a"}, {SYMBOL, "abc-5"}, {SYMBOL, "+"},
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Lexeme != w.lex {
			t.Fatalf("token %d: want %q, got %#v", i, w.lex, toks[i])
		}
	}
	if toks[0].Literal.(int64) != 12 || toks[1].Literal.(int64) != -5 {
		t.Fatalf("number literals wrong: %#v", toks[:2])
	}
}

func Test_Lexer_String_Escapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\t\"q\"\\"`)
	if toks[0].Type != STRING {
		t.Fatalf("want STRING, got %#v", toks[0])
	}
	if got := toks[0].Literal.(string); got != "a\nb\t\"q\"\\" {
		t.Fatalf("unescaped wrong: %q", got)
	}
}

func Test_Lexer_Unknown_Escape_Preserved(t *testing.T) {
	toks := tokenize(t, `"a\qb"`)
	if got := toks[0].Literal.(string); got != `a\qb` {
		t.Fatalf("want backslash preserved, got %q", got)
	}
}

func Test_Lexer_Unterminated_String(t *testing.T) {
	_, err := Tokenize(`"abc`)
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want *LexError, got %T: %v", err, err)
	}
	if le.Line != 1 || le.Col != 1 {
		t.Fatalf("want 1:1, got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	toks := tokenize(t, "(a\n  b)")
	// "(", "a" on line 1; "b", ")" on line 2.
	if toks[0].Line != 1 || toks[0].Col != 1 {
		t.Fatalf("token 0 at %d:%d", toks[0].Line, toks[0].Col)
	}
	if toks[2].Line != 2 || toks[2].Col != 3 {
		t.Fatalf("token 2 at %d:%d, want 2:3", toks[2].Line, toks[2].Col)
	}
}

func Test_Lexer_Comments_And_Commas(t *testing.T) {
	wantTokenTypes(t, "1, 2 ; ignored ( [\n3", NUMBER, NUMBER, NUMBER)
}
