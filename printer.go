// printer.go — value rendering.
//
// Two modes: readable (strings quoted and escaped, suitable for re-parsing)
// and display (raw strings). Callables render as opaque placeholders, never
// their contents. The end-of-input sentinel renders as the empty string.
package malgo

import (
	"strconv"
	"strings"
)

// PrStr renders v to text. With readably set, strings are quoted and the
// escapes \, ", newline, carriage return, and tab are written back out, so
// the readable form of any literal-representable value re-reads to an equal
// value.
func PrStr(v Value, readably bool) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTSym:
		return v.Data.(string)
	case VTStr:
		if readably {
			return quoteString(v.Data.(string))
		}
		return v.Data.(string)
	case VTList:
		lst := v.Data.(*ListObject)
		open, closing := listDelims(lst.Flavor)
		parts := make([]string, len(lst.Items))
		for i, it := range lst.Items {
			parts[i] = PrStr(it, readably)
		}
		return open + strings.Join(parts, " ") + closing
	case VTFun:
		switch v.Data.(*Fun).Kind {
		case FunPrimitive:
			return "<#builtin function>"
		case FunSpecial:
			return "<#special form>"
		default:
			return "<#function>"
		}
	case VTEOI:
		return ""
	default:
		return "<unknown>"
	}
}

// FormatValue is the readable-mode convenience used by the REPL.
func FormatValue(v Value) string { return PrStr(v, true) }

func listDelims(f ListFlavor) (string, string) {
	switch f {
	case SquareList:
		return "[", "]"
	case CurlyList:
		return "{", "}"
	default:
		return "(", ")"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func joinSpace(parts []string) string { return strings.Join(parts, " ") }
