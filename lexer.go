// lexer.go — tokenizer for the reader.
package malgo

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND  // "("
	RROUND  // ")"
	LSQUARE // "["
	RSQUARE // "]"
	LCURLY  // "{"
	RCURLY  // "}"

	// Reader-macro markers
	QUOTE      // "'"
	QUASIQUOTE // "`"
	UNQUOTE    // "~"
	SPLICE     // "~@"
	DEREF      // "@"
	CARET      // "^" (metadata)

	// Literals & symbols
	STRING
	NUMBER
	SYMBOL
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for STRING/NUMBER
	Line    int
	Col     int
}

// LexError is a tokenization failure with a 1-based location.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans one source string into tokens.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the whole input, ending with an EOF token.
func Tokenize(src string) ([]Token, error) {
	lx := NewLexer(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// Whitespace and commas separate tokens; ';' comments run to end of line.
func (l *Lexer) skipBlanks() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n', ',':
			l.advance()
		case ';':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', '(', ')', '[', ']', '{', '}', '\'', '`', '~', '@', '^', '"', ';', 0:
		return true
	}
	return false
}

// Next scans one token.
func (l *Lexer) Next() (Token, error) {
	l.skipBlanks()
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: line, Col: col}, nil
	}

	mk := func(t TokenType, lexeme string) Token {
		return Token{Type: t, Lexeme: lexeme, Line: line, Col: col}
	}

	c := l.advance()
	switch c {
	case '(':
		return mk(LROUND, "("), nil
	case ')':
		return mk(RROUND, ")"), nil
	case '[':
		return mk(LSQUARE, "["), nil
	case ']':
		return mk(RSQUARE, "]"), nil
	case '{':
		return mk(LCURLY, "{"), nil
	case '}':
		return mk(RCURLY, "}"), nil
	case '\'':
		return mk(QUOTE, "'"), nil
	case '`':
		return mk(QUASIQUOTE, "`"), nil
	case '~':
		if l.peek() == '@' {
			l.advance()
			return mk(SPLICE, "~@"), nil
		}
		return mk(UNQUOTE, "~"), nil
	case '@':
		return mk(DEREF, "@"), nil
	case '^':
		return mk(CARET, "^"), nil
	case '"':
		return l.scanString(line, col)
	}

	// Number or symbol. A '-' only starts a number when a digit follows.
	start := l.pos - 1
	for l.pos < len(l.src) && !isDelim(l.peek()) {
		l.advance()
	}
	word := l.src[start:l.pos]
	if isNumericLexeme(word) {
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return Token{}, &LexError{Line: line, Col: col, Msg: fmt.Sprintf("invalid number %q", word)}
		}
		return Token{Type: NUMBER, Lexeme: word, Literal: n, Line: line, Col: col}, nil
	}
	return Token{Type: SYMBOL, Lexeme: word, Line: line, Col: col}, nil
}

func isNumericLexeme(s string) bool {
	if s == "" {
		return false
	}
	digits := s
	if s[0] == '-' {
		if len(s) == 1 {
			return false
		}
		digits = s[1:]
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// scanString consumes a double-quoted string, processing \" \\ \n \r \t.
// Unknown escapes are preserved verbatim (backslash included).
func (l *Lexer) scanString(line, col int) (Token, error) {
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string"}
		}
		c := l.advance()
		if c == '"' {
			break
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if l.pos >= len(l.src) {
			return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string"}
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	s := b.String()
	return Token{Type: STRING, Lexeme: s, Literal: s, Line: line, Col: col}, nil
}
