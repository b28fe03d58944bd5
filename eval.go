// eval.go — the recursive evaluator.
//
// Evaluation is a state machine over the Value being evaluated, given a scope:
// symbols resolve through the environment chain, round lists are call
// positions, square and curly lists evaluate elementwise, and everything else
// is self-evaluating. Evaluation is single-threaded and synchronous; nesting
// is a plain Go call stack and deep recursion in evaluated programs is bounded
// by the host stack.
package malgo

// Eval evaluates one form in env and returns its value.
func (ip *Interpreter) Eval(ast Value, env *Env) (Value, error) {
	switch ast.Tag {
	case VTSym:
		return env.Get(ast.Data.(string))

	case VTList:
		lst := ast.Data.(*ListObject)
		if lst.Flavor != RoundList {
			// Vector/map literals: evaluate elements, keep the flavor.
			items, err := ip.evalEach(lst.Items, env)
			if err != nil {
				return Nil, err
			}
			return NewList(lst.Flavor, items), nil
		}
		if len(lst.Items) == 0 {
			// The empty list evaluates to itself.
			return ast, nil
		}
		return ip.evalCall(lst.Items, env)

	default:
		// Nil, Bool, Num, Str, Fun, EOI are self-evaluating.
		return ast, nil
	}
}

// evalCall handles a non-empty round list: resolve the head to a callable and
// dispatch on its kind.
func (ip *Interpreter) evalCall(items []Value, env *Env) (Value, error) {
	head, err := ip.Eval(items[0], env)
	if err != nil {
		return Nil, err
	}
	if head.Tag != VTFun {
		return Nil, failf(ErrNotCallable, "first element is not a function: %s", PrStr(head, true))
	}
	fn := head.Data.(*Fun)

	switch fn.Kind {
	case FunSpecial:
		// Unevaluated arguments; the form governs its own evaluation order.
		return fn.Special(ip, items[1:], env)

	case FunPrimitive:
		args, err := ip.evalEach(items[1:], env)
		if err != nil {
			return Nil, err
		}
		return fn.Prim(ip, args)

	case FunClosure:
		args, err := ip.evalEach(items[1:], env)
		if err != nil {
			return Nil, err
		}
		return ip.applyClosure(fn, args)

	default:
		return Nil, failf(ErrNotCallable, "unknown callable kind %d", fn.Kind)
	}
}

// evalEach evaluates items left-to-right in env.
func (ip *Interpreter) evalEach(items []Value, env *Env) ([]Value, error) {
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := ip.Eval(it, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// applyClosure binds already-evaluated args into a fresh frame whose parent
// is the closure's captured scope (not the call site — lexical scoping) and
// evaluates the body expressions in order.
func (ip *Interpreter) applyClosure(fn *Fun, args []Value) (Value, error) {
	fixed := len(fn.Params)
	switch {
	case fn.Rest == "" && len(args) != fixed:
		return Nil, failf(ErrArityMismatch, "expected %d arguments but got %d", fixed, len(args))
	case fn.Rest != "" && len(args) < fixed:
		return Nil, failf(ErrArityMismatch, "expected at least %d arguments but got %d", fixed, len(args))
	}

	frame := NewEnv(fn.Env)
	for i, p := range fn.Params {
		frame.Set(p, args[i])
	}
	if fn.Rest != "" {
		rest := make([]Value, len(args)-fixed)
		copy(rest, args[fixed:])
		frame.Set(fn.Rest, NewList(RoundList, rest))
	}

	res := Nil
	for _, expr := range fn.Body {
		v, err := ip.Eval(expr, frame)
		if err != nil {
			return Nil, err
		}
		res = v
	}
	return res, nil
}
