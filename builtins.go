// builtins.go — primitive operations and root-environment bootstrap.
//
// Primitives receive already-evaluated arguments. registerCore is the single
// initialization routine that populates Core; there is no hidden global
// registry.
package malgo

import (
	"fmt"
	"strings"
)

func registerCore(ip *Interpreter) {
	prims := []struct {
		name string
		fn   Primitive
	}{
		{"+", primAdd},
		{"-", primSub},
		{"*", primMul},
		{"/", primDiv},
		{"<", primCompare("<")},
		{"<=", primCompare("<=")},
		{">", primCompare(">")},
		{">=", primCompare(">=")},
		{"=", primEquals},
		{"list", primList},
		{"list?", primListQ},
		{"empty?", primEmptyQ},
		{"count", primCount},
		{"pr-str", primPrStr},
		{"str", primStr},
		{"prn", primPrn},
		{"println", primPrintln},
	}
	for _, p := range prims {
		ip.RegisterPrimitive(p.name, p.fn)
	}
	registerSpecialForms(ip)
}

// twoNums enforces the fixed binary numeric arity shared by arithmetic and
// comparisons.
func twoNums(name string, args []Value) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, failf(ErrArityMismatch, "expected exactly two arguments for %s", name)
	}
	if args[0].Tag != VTNum || args[1].Tag != VTNum {
		return 0, 0, failf(ErrTypeError, "%s: expected number arguments", name)
	}
	return args[0].Data.(int64), args[1].Data.(int64), nil
}

func primAdd(_ *Interpreter, args []Value) (Value, error) {
	a, b, err := twoNums("+", args)
	if err != nil {
		return Nil, err
	}
	return Num(a + b), nil
}

func primSub(_ *Interpreter, args []Value) (Value, error) {
	a, b, err := twoNums("-", args)
	if err != nil {
		return Nil, err
	}
	return Num(a - b), nil
}

func primMul(_ *Interpreter, args []Value) (Value, error) {
	a, b, err := twoNums("*", args)
	if err != nil {
		return Nil, err
	}
	return Num(a * b), nil
}

func primDiv(_ *Interpreter, args []Value) (Value, error) {
	a, b, err := twoNums("/", args)
	if err != nil {
		return Nil, err
	}
	if b == 0 {
		return Nil, failf(ErrDivideByZero, "division by 0")
	}
	return Num(a / b), nil
}

func primCompare(op string) Primitive {
	return func(_ *Interpreter, args []Value) (Value, error) {
		a, b, err := twoNums(op, args)
		if err != nil {
			return Nil, err
		}
		var res bool
		switch op {
		case "<":
			res = a < b
		case "<=":
			res = a <= b
		case ">":
			res = a > b
		case ">=":
			res = a >= b
		}
		return Bool(res), nil
	}
}

func primEquals(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, failf(ErrArityMismatch, "= requires exactly two arguments")
	}
	return Bool(Equal(args[0], args[1])), nil
}

func primList(_ *Interpreter, args []Value) (Value, error) {
	items := make([]Value, len(args))
	copy(items, args)
	return NewList(RoundList, items), nil
}

func primListQ(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, failf(ErrArityMismatch, "list? requires exactly one argument")
	}
	lst := AsList(args[0])
	return Bool(lst != nil && lst.Flavor == RoundList), nil
}

func primEmptyQ(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, failf(ErrArityMismatch, "empty? requires exactly one argument")
	}
	switch args[0].Tag {
	case VTList:
		lst := args[0].Data.(*ListObject)
		if lst.Flavor == CurlyList {
			return Bool(false), nil
		}
		return Bool(len(lst.Items) == 0), nil
	case VTStr:
		return Bool(args[0].Data.(string) == ""), nil
	default:
		// Non-collection values are not empty; not an error.
		return Bool(false), nil
	}
}

// count is deliberately permissive: lengths for lists and strings, 0 for nil,
// and nil (not an error) for anything else. This mirrors the historical REPL
// behavior even though empty? answers false for the same inputs.
func primCount(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, failf(ErrArityMismatch, "count requires exactly one argument")
	}
	switch args[0].Tag {
	case VTList:
		lst := args[0].Data.(*ListObject)
		if lst.Flavor == CurlyList {
			return Nil, nil
		}
		return Num(int64(len(lst.Items))), nil
	case VTStr:
		return Num(int64(len(args[0].Data.(string)))), nil
	case VTNil:
		return Num(0), nil
	default:
		return Nil, nil
	}
}

func renderAll(args []Value, readably bool, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrStr(a, readably)
	}
	return strings.Join(parts, sep)
}

func primPrStr(_ *Interpreter, args []Value) (Value, error) {
	return Str(renderAll(args, true, " ")), nil
}

func primStr(_ *Interpreter, args []Value) (Value, error) {
	return Str(renderAll(args, false, "")), nil
}

func primPrn(ip *Interpreter, args []Value) (Value, error) {
	fmt.Fprintln(ip.Stdout, renderAll(args, true, " "))
	return Nil, nil
}

func primPrintln(ip *Interpreter, args []Value) (Value, error) {
	fmt.Fprintln(ip.Stdout, renderAll(args, false, " "))
	return Nil, nil
}
