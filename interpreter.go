// interpreter.go — public API surface for the malgo runtime.
//
// OVERVIEW
// ========
// This file exposes the public surface of the interpreter. It contains the
// runtime value model, environments, callables, the error kinds, and the
// Interpreter type with its entry points. Algorithmic implementation lives in
// private functions in eval.go, special.go, and builtins.go.
//
// What you get in this file:
//   - The runtime value model (`Value`, `ValueTag`, constructors like
//     `Num/Str/Sym/NewList`), including the three list flavors and the
//     end-of-input sentinel.
//   - Functions / closures (`Fun`) as first-class values, covering primitives,
//     special forms, and user-defined closures under one closed tag.
//   - Environments (`Env`) with lexical scoping.
//   - The `Interpreter` with the canonical entry points:
//     - `EvalSource` (read + evaluate every form in Global),
//     - `Eval` (evaluate one already-read form in a given env),
//     - `Rep` (read-eval-print one line, REPL-style).
//   - A structured `RuntimeError` carrying a machine-checkable `ErrKind`.
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// Code evaluates in environments (`*Env`) that form a lexical chain via
// `parent`. The Interpreter exposes two well-known frames:
//   - `Core`: built-ins and special forms, installed once by NewInterpreter.
//   - `Global`: user-visible program state (REPL globals), child of Core.
//
// `def!` always binds in the innermost frame of the evaluation that performs
// it; at the top level that frame is Global, so Core stays pristine. Closures
// capture their defining frame by reference, not by copy: a `def!` executed
// later against that frame is visible through the closure.
//
// RUNTIME ERRORS
// --------------
// All entry points return `(Value, error)` (or `([]Value, error)`). Failures
// during evaluation are `*RuntimeError` values whose `Kind` distinguishes
// unbound symbols, arity mismatches, type errors, and so on. Evaluation is
// fail-fast per top-level form: the first error aborts that form, but
// bindings already made (for example earlier `def!`s inside a `do`) persist.
package malgo

import (
	"fmt"
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                              VALUE MODEL
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
// The tag determines which type Value.Data holds (see Value docs).
type ValueTag int

const (
	VTNil  ValueTag = iota // nil (no payload)
	VTBool                 // bool
	VTNum                  // int64
	VTStr                  // string
	VTSym                  // string (symbol name)
	VTList                 // *ListObject
	VTFun                  // *Fun (primitive, special form, or closure)
	VTEOI                  // end-of-input sentinel (reader only, no payload)
)

// Value is the universal runtime carrier used by the interpreter. Every
// expression the reader produces and every result the evaluator returns is a
// Value. Values are cheap to copy; list and function payloads are shared
// pointers.
//
// Invariants:
//   - When Tag==VTNil or Tag==VTEOI, Data is nil.
//   - When Tag==VTList, Data is *ListObject.
//   - When Tag==VTFun, Data is *Fun.
//   - VTEOI never appears as an evaluation result; it only marks the end of a
//     reader stream.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders the readable form. Use PrStr directly to pick a mode.
func (v Value) String() string {
	return PrStr(v, true)
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// EndOfInput is the sentinel the reader yields when its stream is exhausted.
var EndOfInput = Value{Tag: VTEOI}

// Primitive constructors.
func Bool(b bool) Value  { return Value{Tag: VTBool, Data: b} }
func Num(n int64) Value  { return Value{Tag: VTNum, Data: n} }
func Str(s string) Value { return Value{Tag: VTStr, Data: s} }
func Sym(s string) Value { return Value{Tag: VTSym, Data: s} }

// ListFlavor distinguishes the three bracket styles. Flavor affects printing
// and call dispatch (only round lists are call positions); it never affects
// equality between round and square lists.
type ListFlavor int

const (
	RoundList  ListFlavor = iota // (…)
	SquareList                   // […]
	CurlyList                    // {…}
)

// ListObject is the shared payload of VTList values: an ordered sequence of
// elements plus the bracket flavor it was written with.
type ListObject struct {
	Flavor ListFlavor
	Items  []Value
}

// NewList builds a list Value of the given flavor around items (not copied).
func NewList(flavor ListFlavor, items []Value) Value {
	return Value{Tag: VTList, Data: &ListObject{Flavor: flavor, Items: items}}
}

// List builds a round list from its arguments.
func List(items ...Value) Value { return NewList(RoundList, items) }

// Vec builds a square list from its arguments.
func Vec(items ...Value) Value { return NewList(SquareList, items) }

// AsList returns the list payload of v, or nil if v is not a list.
func AsList(v Value) *ListObject {
	if v.Tag != VTList {
		return nil
	}
	return v.Data.(*ListObject)
}

// FunKind tags the three callable variants. The set is closed: dispatch in
// the evaluator is an exhaustive switch, not virtual dispatch.
type FunKind int

const (
	FunPrimitive FunKind = iota // native op over already-evaluated arguments
	FunSpecial                  // native op over unevaluated arguments + env
	FunClosure                  // user-defined via fn*
)

// Primitive is the implementation signature of a builtin: the arguments have
// already been evaluated left-to-right by the caller.
type Primitive func(ip *Interpreter, args []Value) (Value, error)

// SpecialForm receives the raw, unevaluated argument expressions together
// with the calling environment and governs its own evaluation order.
type SpecialForm func(ip *Interpreter, args []Value, env *Env) (Value, error)

// Fun is the payload of VTFun values. Which fields are meaningful depends on
// Kind:
//   - FunPrimitive: Name, Prim.
//   - FunSpecial:   Name, Special.
//   - FunClosure:   Params, Rest, Body, Env.
//
// A closure's Env is the frame that was current when fn* ran — captured by
// reference, which is what makes it a closure. Rest is the variadic parameter
// name, or "" when the closure takes a fixed argument count. Body is a
// sequence of expressions evaluated in order; the last value is the result.
type Fun struct {
	Kind FunKind
	Name string

	Prim    Primitive
	Special SpecialForm

	Params []string
	Rest   string
	Body   []Value
	Env    *Env
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// Equal reports structural equality between two values.
//
// Rules:
//   - Round and square lists compare element-wise regardless of flavor; curly
//     lists only equal other curly lists.
//   - Primitives and special forms compare equal iff they have the same kind
//     and registered name.
//   - Closures compare by parameter list, variadic name, and body; the
//     captured environment is deliberately excluded, so two closures with the
//     same shape but different scopes compare equal.
func Equal(a, b Value) bool {
	if a.Tag == VTList && b.Tag == VTList {
		la, lb := a.Data.(*ListObject), b.Data.(*ListObject)
		if (la.Flavor == CurlyList) != (lb.Flavor == CurlyList) {
			return false
		}
		if len(la.Items) != len(lb.Items) {
			return false
		}
		for i := range la.Items {
			if !Equal(la.Items[i], lb.Items[i]) {
				return false
			}
		}
		return true
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil, VTEOI:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(int64) == b.Data.(int64)
	case VTStr, VTSym:
		return a.Data.(string) == b.Data.(string)
	case VTFun:
		return equalFun(a.Data.(*Fun), b.Data.(*Fun))
	default:
		return false
	}
}

func equalFun(a, b *Fun) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != FunClosure {
		return a.Name == b.Name
	}
	if len(a.Params) != len(b.Params) || a.Rest != b.Rest || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		if !Equal(a.Body[i], b.Body[i]) {
			return false
		}
	}
	return true
}

////////////////////////////////////////////////////////////////////////////////
//                              ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; writes land in the current frame only, which is what keeps
// let*-introduced bindings and function parameters from leaking outward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil
// for a root frame).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Set binds name to v in the current frame, inserting or overwriting and
// shadowing any outer binding. It never touches parent frames.
func (e *Env) Set(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name, walking the parent
// chain. A miss across the whole chain is an UnboundSymbol error.
func (e *Env) Get(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, nil
		}
	}
	return Nil, failf(ErrUnboundSymbol, "symbol '%s' not found", name)
}

////////////////////////////////////////////////////////////////////////////////
//                              ERRORS
////////////////////////////////////////////////////////////////////////////////

// ErrKind classifies runtime failures so callers and tests can match on the
// failure class instead of message text.
type ErrKind int

const (
	ErrUnboundSymbol ErrKind = iota
	ErrNotCallable
	ErrArityMismatch
	ErrTypeError
	ErrDivideByZero
	ErrBindingArity
	ErrMalformedParams
)

// RuntimeError represents an execution-time failure. The evaluator is
// fail-fast: the first RuntimeError anywhere in a form aborts that whole
// top-level evaluation.
type RuntimeError struct {
	Kind ErrKind
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

func failf(kind ErrKind, format string, args ...interface{}) error {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

////////////////////////////////////////////////////////////////////////////////
//                              INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter is the entry point for evaluating malgo programs.
//
// Public fields:
//   - Core   — built-in environment; parent of Global. Populated by
//     NewInterpreter with the primitive and special-form tables.
//   - Global — persistent program environment (REPL state).
//   - Stdout — sink for prn/println output; defaults to os.Stdout.
type Interpreter struct {
	Core   *Env
	Global *Env
	Stdout io.Writer
}

// NewInterpreter constructs an engine with core builtins installed and an
// empty Global (child of Core). The root environment is an explicit value on
// the returned Interpreter; there is no process-wide singleton.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Stdout: os.Stdout}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	registerCore(ip)
	return ip
}

// RegisterPrimitive installs a native operation over evaluated arguments into
// Core under name.
func (ip *Interpreter) RegisterPrimitive(name string, fn Primitive) {
	ip.Core.Set(name, FunVal(&Fun{Kind: FunPrimitive, Name: name, Prim: fn}))
}

// RegisterSpecial installs a special form (unevaluated arguments + calling
// env) into Core under name.
func (ip *Interpreter) RegisterSpecial(name string, fn SpecialForm) {
	ip.Core.Set(name, FunVal(&Fun{Kind: FunSpecial, Name: name, Special: fn}))
}

// EvalSource reads every form in src and evaluates them in order in Global.
// It returns the values of all top-level forms. On a read error nothing is
// evaluated; on an evaluation error the values of the forms that already
// succeeded are discarded but their side effects (def!) persist.
func (ip *Interpreter) EvalSource(src string) ([]Value, error) {
	forms, err := ReadStr(src)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(forms))
	for _, f := range forms {
		v, err := ip.Eval(f, ip.Global)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Rep is the REPL step: read every form in line, evaluate in Global, and
// return the readable renderings joined with single spaces.
func (ip *Interpreter) Rep(line string) (string, error) {
	vals, err := ip.EvalSource(line)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = PrStr(v, true)
	}
	return joinSpace(parts), nil
}
