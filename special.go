// special.go — the language's special forms.
//
// Special forms receive their argument expressions unevaluated together with
// the calling environment, and decide themselves what to evaluate and where.
// The set is fixed: def!, let*, do, if, fn*.
package malgo

func registerSpecialForms(ip *Interpreter) {
	ip.RegisterSpecial("def!", evalDef)
	ip.RegisterSpecial("let*", evalLet)
	ip.RegisterSpecial("do", evalDo)
	ip.RegisterSpecial("if", evalIf)
	ip.RegisterSpecial("fn*", evalFn)
}

// (def! sym expr) — evaluate expr in the current scope and bind the result to
// sym in the current scope. Returns the bound value.
func evalDef(ip *Interpreter, args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return Nil, failf(ErrArityMismatch, "def! requires exactly two arguments")
	}
	if args[0].Tag != VTSym {
		return Nil, failf(ErrTypeError, "def! first argument must be a symbol")
	}
	v, err := ip.Eval(args[1], env)
	if err != nil {
		return Nil, err
	}
	env.Set(args[0].Data.(string), v)
	return v, nil
}

// (let* (sym expr …) body) — one child scope; bindings evaluate sequentially
// in that scope, so later pairs see earlier ones. Bindings never leak out.
func evalLet(ip *Interpreter, args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return Nil, failf(ErrArityMismatch, "let* requires exactly two arguments")
	}
	bindings := AsList(args[0])
	if bindings == nil || bindings.Flavor == CurlyList {
		return Nil, failf(ErrTypeError, "let* first argument must be a list of bindings")
	}
	if len(bindings.Items)%2 != 0 {
		return Nil, failf(ErrBindingArity, "let* bindings must be pairs")
	}

	scope := NewEnv(env)
	for i := 0; i < len(bindings.Items); i += 2 {
		key := bindings.Items[i]
		if key.Tag != VTSym {
			return Nil, failf(ErrTypeError, "let* bindings must start with a symbol")
		}
		v, err := ip.Eval(bindings.Items[i+1], scope)
		if err != nil {
			return Nil, err
		}
		scope.Set(key.Data.(string), v)
	}
	return ip.Eval(args[1], scope)
}

// (do expr …) — evaluate in order, return the last value (nil if empty).
func evalDo(ip *Interpreter, args []Value, env *Env) (Value, error) {
	res := Nil
	for _, expr := range args {
		v, err := ip.Eval(expr, env)
		if err != nil {
			return Nil, err
		}
		res = v
	}
	return res, nil
}

// (if cond then else?) — everything except nil and false is truthy. The
// untaken branch is never evaluated.
func evalIf(ip *Interpreter, args []Value, env *Env) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Nil, failf(ErrArityMismatch, "if requires two or three arguments")
	}
	cond, err := ip.Eval(args[0], env)
	if err != nil {
		return Nil, err
	}
	if isTruthy(cond) {
		return ip.Eval(args[1], env)
	}
	if len(args) == 3 {
		return ip.Eval(args[2], env)
	}
	return Nil, nil
}

func isTruthy(v Value) bool {
	if v.Tag == VTNil {
		return false
	}
	if v.Tag == VTBool && !v.Data.(bool) {
		return false
	}
	return true
}

// (fn* (params…) body) — build a closure capturing the current scope. The
// parameter list may be round or square and may end with "& rest" to collect
// surplus arguments into a round list.
func evalFn(ip *Interpreter, args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return Nil, failf(ErrArityMismatch, "fn* requires exactly two arguments")
	}
	plist := AsList(args[0])
	if plist == nil || plist.Flavor == CurlyList {
		return Nil, failf(ErrTypeError, "fn* first argument must be a list of parameters")
	}

	params, rest, err := parseParams(plist.Items)
	if err != nil {
		return Nil, err
	}
	return FunVal(&Fun{
		Kind:   FunClosure,
		Params: params,
		Rest:   rest,
		Body:   []Value{args[1]},
		Env:    env,
	}), nil
}

// parseParams splits a parameter list into fixed names and an optional
// variadic name. A '&' must be followed by exactly one symbol.
func parseParams(items []Value) (fixed []string, rest string, err error) {
	ampAt := -1
	for i, p := range items {
		if p.Tag == VTSym && p.Data.(string) == "&" {
			ampAt = i
			break
		}
	}

	fixedItems := items
	if ampAt >= 0 {
		if ampAt+1 >= len(items) {
			return nil, "", failf(ErrMalformedParams, "expected symbol after &")
		}
		if ampAt+2 != len(items) {
			return nil, "", failf(ErrMalformedParams, "unexpected parameter after rest parameter")
		}
		if items[ampAt+1].Tag != VTSym {
			return nil, "", failf(ErrMalformedParams, "expected symbol after &")
		}
		rest = items[ampAt+1].Data.(string)
		fixedItems = items[:ampAt]
	}

	fixed = make([]string, 0, len(fixedItems))
	for _, p := range fixedItems {
		if p.Tag != VTSym {
			return nil, "", failf(ErrMalformedParams, "fn* parameters must be symbols")
		}
		fixed = append(fixed, p.Data.(string))
	}
	return fixed, rest, nil
}
