// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// Turns lexer/reader diagnostics into readable snippets with a caret pointing
// at the offending column:
//
//	PARSE ERROR at 1:9: unbalanced "(": unexpected end of input; expected one of: ), form
//
//	   1 | (+ 1 (f 2
//	     |         ^
//
// Runtime errors carry no source position (the value tree has none), so they
// pass through unchanged. This utility is independent of the evaluator and is
// used by the driver to report bad input lines.
package malgo

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *LexError and *ParseError and
// leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", caretSnippet(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		msg := e.Msg
		if len(e.Expected) > 0 {
			msg += "; expected one of: " + strings.Join(e.Expected, ", ")
		}
		return fmt.Errorf("%s", caretSnippet(src, "PARSE ERROR", e.Line, e.Col, msg))
	default:
		return err
	}
}

// caretSnippet builds the snippet with up to one line of context around the
// error. Coordinates are 1-based and clamped to the source bounds.
func caretSnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
