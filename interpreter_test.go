package malgo

import (
	"errors"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalOne(t *testing.T, ip *Interpreter, src string) Value {
	t.Helper()
	vals, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	if len(vals) == 0 {
		t.Fatalf("no values for %q", src)
	}
	return vals[len(vals)-1]
}

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	return evalOne(t, NewInterpreter(), src)
}

func wantEvalErr(t *testing.T, ip *Interpreter, src string, kind ErrKind) {
	t.Helper()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("want error for %q, got none", src)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError for %q, got %T: %v", src, err, err)
	}
	if re.Kind != kind {
		t.Fatalf("want error kind %d for %q, got %d (%v)", kind, src, re.Kind, err)
	}
}

func wantNum(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTNum || v.Data.(int64) != n {
		t.Fatalf("want number %d, got %s", n, PrStr(v, true))
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %s", b, PrStr(v, true))
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want string %q, got %s", s, PrStr(v, true))
	}
}

func wantNil(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNil {
		t.Fatalf("want nil, got %s", PrStr(v, true))
	}
}

func wantEqualValue(t *testing.T, got, want Value) {
	t.Helper()
	if !Equal(got, want) {
		t.Fatalf("want %s, got %s", PrStr(want, true), PrStr(got, true))
	}
}

// --- self-evaluation ---------------------------------------------------------

func Test_Eval_SelfEvaluating(t *testing.T) {
	wantNum(t, evalSrc(t, "42"), 42)
	wantNum(t, evalSrc(t, "-7"), -7)
	wantBool(t, evalSrc(t, "true"), true)
	wantBool(t, evalSrc(t, "false"), false)
	wantNil(t, evalSrc(t, "nil"))
	wantStr(t, evalSrc(t, `"hi"`), "hi")
}

func Test_Eval_Idempotent_On_Results(t *testing.T) {
	ip := NewInterpreter()
	for _, src := range []string{"42", `"s"`, "true", "nil", "()", "[1 2]"} {
		v := evalOne(t, ip, src)
		again, err := ip.Eval(v, ip.Global)
		if err != nil {
			t.Fatalf("re-eval of %q failed: %v", src, err)
		}
		wantEqualValue(t, again, v)
	}
}

func Test_Eval_EmptyList_IsItself(t *testing.T) {
	v := evalSrc(t, "()")
	lst := AsList(v)
	if lst == nil || lst.Flavor != RoundList || len(lst.Items) != 0 {
		t.Fatalf("want (), got %s", PrStr(v, true))
	}
}

func Test_Eval_Symbol_Unbound(t *testing.T) {
	wantEvalErr(t, NewInterpreter(), "no-such-thing", ErrUnboundSymbol)
}

func Test_Eval_Vector_And_Map_Literals_Evaluate_Elements(t *testing.T) {
	v := evalSrc(t, "[(+ 1 2) 4]")
	wantEqualValue(t, v, Vec(Num(3), Num(4)))
	if AsList(v).Flavor != SquareList {
		t.Fatalf("want square flavor, got %s", PrStr(v, true))
	}

	m := evalSrc(t, "{(+ 1 1) 5}")
	lm := AsList(m)
	if lm == nil || lm.Flavor != CurlyList {
		t.Fatalf("want curly flavor, got %s", PrStr(m, true))
	}
	wantNum(t, lm.Items[0], 2)
}

func Test_Eval_NotCallable(t *testing.T) {
	wantEvalErr(t, NewInterpreter(), "(1 2 3)", ErrNotCallable)
	wantEvalErr(t, NewInterpreter(), `("f" 1)`, ErrNotCallable)
}

// --- def! / let* / do / if ---------------------------------------------------

func Test_Def_Binds_In_Current_Scope(t *testing.T) {
	ip := NewInterpreter()
	wantNum(t, evalOne(t, ip, "(def! x 5)"), 5)
	wantNum(t, evalOne(t, ip, "x"), 5)

	// A sibling interpreter shares nothing.
	wantEvalErr(t, NewInterpreter(), "x", ErrUnboundSymbol)
}

func Test_Def_Requires_Symbol(t *testing.T) {
	wantEvalErr(t, NewInterpreter(), "(def! 1 2)", ErrTypeError)
	wantEvalErr(t, NewInterpreter(), "(def! x)", ErrArityMismatch)
}

func Test_Def_Effects_Persist_Across_Failure(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.EvalSource("(do (def! a 1) (/ 1 0))")
	if err == nil {
		t.Fatal("want division error")
	}
	wantNum(t, evalOne(t, ip, "a"), 1)
}

func Test_Let_Sequential_Bindings(t *testing.T) {
	wantNum(t, evalSrc(t, "(let* (a 1 b (+ a 1)) b)"), 2)
	wantNum(t, evalSrc(t, "(let* [a 1 b (+ a 1)] b)"), 2)
}

func Test_Let_Bindings_Do_Not_Leak(t *testing.T) {
	ip := NewInterpreter()
	wantNum(t, evalOne(t, ip, "(let* (a 1) a)"), 1)
	wantEvalErr(t, ip, "a", ErrUnboundSymbol)
}

func Test_Let_Shadows_Outer(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! a 10)")
	wantNum(t, evalOne(t, ip, "(let* (a 1) a)"), 1)
	wantNum(t, evalOne(t, ip, "a"), 10)
}

func Test_Let_Odd_Bindings(t *testing.T) {
	wantEvalErr(t, NewInterpreter(), "(let* (a) a)", ErrBindingArity)
	wantEvalErr(t, NewInterpreter(), "(let* (1 2) 3)", ErrTypeError)
}

func Test_Do_Returns_Last_Or_Nil(t *testing.T) {
	wantNum(t, evalSrc(t, "(do 1 2 3)"), 3)
	wantNil(t, evalSrc(t, "(do)"))
}

func Test_If_Truthiness(t *testing.T) {
	wantNum(t, evalSrc(t, "(if true 1 2)"), 1)
	wantNum(t, evalSrc(t, "(if false 1 2)"), 2)
	wantNum(t, evalSrc(t, "(if nil 1 2)"), 2)
	wantNum(t, evalSrc(t, "(if 0 1 2)"), 1)    // 0 is truthy
	wantNum(t, evalSrc(t, `(if "" 1 2)`), 1)   // "" is truthy
	wantNum(t, evalSrc(t, "(if () 1 2)"), 1)   // empty list is truthy
	wantNil(t, evalSrc(t, "(if false 1)"))
	wantEvalErr(t, NewInterpreter(), "(if true)", ErrArityMismatch)
}

func Test_If_Untaken_Branch_Not_Evaluated(t *testing.T) {
	// The else branch would blow up if evaluated.
	wantNum(t, evalSrc(t, "(if true 1 (no-such-fn))"), 1)
	wantNum(t, evalSrc(t, "(if false (no-such-fn) 2)"), 2)
}

// --- closures ----------------------------------------------------------------

func Test_Fn_Basic_Application(t *testing.T) {
	wantNum(t, evalSrc(t, "((fn* (a b) (+ a b)) 2 3)"), 5)
	wantNum(t, evalSrc(t, "((fn* [a] a) 9)"), 9)
	wantNum(t, evalSrc(t, "((fn* () 7))"), 7)
}

func Test_Fn_Arity_Checks(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! f (fn* (a b) a))")
	wantEvalErr(t, ip, "(f 1)", ErrArityMismatch)
	wantEvalErr(t, ip, "(f 1 2 3)", ErrArityMismatch)
}

func Test_Fn_Variadic(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! f (fn* (a & rest) rest))")
	wantEqualValue(t, evalOne(t, ip, "(f 1 2 3)"), List(Num(2), Num(3)))
	wantEqualValue(t, evalOne(t, ip, "(f 1)"), List())
	wantEvalErr(t, ip, "(f)", ErrArityMismatch)
}

func Test_Fn_Malformed_Params(t *testing.T) {
	wantEvalErr(t, NewInterpreter(), "(fn* (a &) a)", ErrMalformedParams)
	wantEvalErr(t, NewInterpreter(), "(fn* (a & b c) a)", ErrMalformedParams)
	wantEvalErr(t, NewInterpreter(), "(fn* (1) 2)", ErrMalformedParams)
	wantEvalErr(t, NewInterpreter(), "(fn* {a} a)", ErrTypeError)
}

func Test_Fn_Lexical_Capture(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! make-adder (fn* (n) (fn* (x) (+ x n))))")
	evalOne(t, ip, "(def! add3 (make-adder 3))")
	wantNum(t, evalOne(t, ip, "(add3 4)"), 7)

	// The closure resolves n in its defining scope, not the call site.
	evalOne(t, ip, "(def! n 100)")
	wantNum(t, evalOne(t, ip, "(add3 4)"), 7)
}

func Test_Fn_Sees_Later_Defs_In_Captured_Scope(t *testing.T) {
	// The captured scope is shared, not snapshotted: a def! performed after
	// closure creation is visible through the closure.
	ip := NewInterpreter()
	evalOne(t, ip, "(def! f (fn* () later))")
	wantEvalErr(t, ip, "(f)", ErrUnboundSymbol)
	evalOne(t, ip, "(def! later 41)")
	wantNum(t, evalOne(t, ip, "(f)"), 41)
}

func Test_Fn_Args_Evaluated_At_Call_Site(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! x 2)")
	evalOne(t, ip, "(def! f (fn* (a) a))")
	wantNum(t, evalOne(t, ip, "(f (+ x 1))"), 3)
}

func Test_Fn_Recursion_Via_Def(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! fact (fn* (n) (if (< n 2) 1 (* n (fact (- n 1))))))")
	wantNum(t, evalOne(t, ip, "(fact 5)"), 120)
}

// --- structural equality -------------------------------------------------------

func Test_Equal_Flavor_Agnostic(t *testing.T) {
	wantBool(t, evalSrc(t, "(= (list 1 2) [1 2])"), true)
	wantBool(t, evalSrc(t, "(= [1 [2 3]] (list 1 (list 2 3)))"), true)
	wantBool(t, evalSrc(t, "(= {1 2} [1 2])"), false)
	wantBool(t, evalSrc(t, "(= {1 2} {1 2})"), true)
}

func Test_Equal_Closures_Ignore_Captured_Env(t *testing.T) {
	ip := NewInterpreter()
	evalOne(t, ip, "(def! f (let* (a 1) (fn* (x) x)))")
	evalOne(t, ip, "(def! g (let* (a 2) (fn* (x) x)))")
	wantBool(t, evalOne(t, ip, "(= f g)"), true)
	evalOne(t, ip, "(def! h (fn* (y) y))")
	wantBool(t, evalOne(t, ip, "(= f h)"), false)
}

// --- driver-level behavior ------------------------------------------------------

func Test_Rep_Joins_Form_Results(t *testing.T) {
	ip := NewInterpreter()
	out, err := ip.Rep("(+ 1 2) (def! x 4) x")
	if err != nil {
		t.Fatalf("Rep: %v", err)
	}
	if out != "3 4 4" {
		t.Fatalf("want %q, got %q", "3 4 4", out)
	}
}

func Test_Rep_Read_Error_Evaluates_Nothing(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.Rep("(def! x 1) ("); err == nil {
		t.Fatal("want parse error")
	}
	// The well-formed first form must not have run.
	wantEvalErr(t, ip, "x", ErrUnboundSymbol)
}
