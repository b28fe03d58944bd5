// reader.go — turns tokens into expression trees.
//
// The reader is grammar-driven in the recursive-descent sense: one form per
// call, delimited sequences recurse, and the quote family of markers expands
// to plain round lists ((quote x), (quasiquote x), …) with no special support
// in the evaluator. Errors carry a 1-based location and the set of tokens
// that would have been acceptable.
package malgo

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseError is a structured syntax error: location, message, and the
// expected-token set at the failure point.
type ParseError struct {
	Line     int
	Col      int
	Msg      string
	Expected []string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s; expected one of: %s",
		e.Line, e.Col, e.Msg, strings.Join(e.Expected, ", "))
}

// Reader yields one form at a time from a token stream. After the last form
// it yields the EndOfInput sentinel.
type Reader struct {
	toks []Token
	pos  int
}

// NewReader tokenizes src and returns a streaming reader over its forms.
func NewReader(src string) (*Reader, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Reader{toks: toks}, nil
}

// ReadStr reads every form in src. The EndOfInput sentinel is not included;
// streaming callers that want it should use Reader.Next.
func ReadStr(src string) ([]Value, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	var forms []Value
	for {
		v, err := r.Next()
		if err != nil {
			return nil, err
		}
		if v.Tag == VTEOI {
			return forms, nil
		}
		forms = append(forms, v)
	}
}

func (r *Reader) peek() Token { return r.toks[r.pos] }

func (r *Reader) advance() Token {
	t := r.toks[r.pos]
	if t.Type != EOF {
		r.pos++
	}
	return t
}

// Next reads one form, or EndOfInput when the stream is exhausted.
func (r *Reader) Next() (Value, error) {
	if r.peek().Type == EOF {
		return EndOfInput, nil
	}
	return r.readForm()
}

func (r *Reader) readForm() (Value, error) {
	tok := r.advance()
	slog.Debug("read form", "token", tok.Lexeme, "line", tok.Line, "col", tok.Col)

	switch tok.Type {
	case LROUND:
		return r.readSeq(RoundList, RROUND, ")", tok)
	case LSQUARE:
		return r.readSeq(SquareList, RSQUARE, "]", tok)
	case LCURLY:
		return r.readSeq(CurlyList, RCURLY, "}", tok)

	case RROUND, RSQUARE, RCURLY:
		return Nil, &ParseError{
			Line: tok.Line, Col: tok.Col,
			Msg:      fmt.Sprintf("unexpected %q", tok.Lexeme),
			Expected: []string{"form"},
		}

	case QUOTE:
		return r.readWrapped("quote", tok)
	case QUASIQUOTE:
		return r.readWrapped("quasiquote", tok)
	case UNQUOTE:
		return r.readWrapped("unquote", tok)
	case SPLICE:
		return r.readWrapped("splice-unquote", tok)
	case DEREF:
		return r.readWrapped("deref", tok)

	case CARET:
		// ^meta target reads as (with-meta target meta).
		meta, err := r.readFormOrFail(tok, "metadata form")
		if err != nil {
			return Nil, err
		}
		target, err := r.readFormOrFail(tok, "metadata target")
		if err != nil {
			return Nil, err
		}
		return List(Sym("with-meta"), target, meta), nil

	case STRING:
		return Str(tok.Literal.(string)), nil
	case NUMBER:
		return Num(tok.Literal.(int64)), nil

	case SYMBOL:
		switch tok.Lexeme {
		case "nil":
			return Nil, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Sym(tok.Lexeme), nil

	default: // EOF
		return Nil, &ParseError{
			Line: tok.Line, Col: tok.Col,
			Msg:      "unexpected end of input",
			Expected: []string{"form"},
		}
	}
}

// readSeq consumes forms until the matching closer.
func (r *Reader) readSeq(flavor ListFlavor, closer TokenType, closerLexeme string, open Token) (Value, error) {
	var items []Value
	for {
		t := r.peek()
		if t.Type == closer {
			r.advance()
			return NewList(flavor, items), nil
		}
		if t.Type == EOF {
			return Nil, &ParseError{
				Line: t.Line, Col: t.Col,
				Msg:      fmt.Sprintf("unbalanced %q: unexpected end of input", open.Lexeme),
				Expected: []string{closerLexeme, "form"},
			}
		}
		item, err := r.readForm()
		if err != nil {
			return Nil, err
		}
		items = append(items, item)
	}
}

// readWrapped expands a reader macro marker into (sym form).
func (r *Reader) readWrapped(sym string, marker Token) (Value, error) {
	form, err := r.readFormOrFail(marker, "form")
	if err != nil {
		return Nil, err
	}
	return List(Sym(sym), form), nil
}

func (r *Reader) readFormOrFail(marker Token, what string) (Value, error) {
	if r.peek().Type == EOF {
		return Nil, &ParseError{
			Line: marker.Line, Col: marker.Col,
			Msg:      fmt.Sprintf("%q marker: unexpected end of input", marker.Lexeme),
			Expected: []string{what},
		}
	}
	return r.readForm()
}
