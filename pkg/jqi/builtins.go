package jqi

// installBuiltins seeds the root environment's function registry with the
// built-ins listed in §4.4. It is only ever called against a freshly
// constructed root Env, before any other code can hold a reference to it
// (§3 "Environment lifecycle").
func installBuiltins(e *Env) {
	e.funcs["true/0"] = func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{{env, Bool(true)}}, nil
	}
	e.funcs["false/0"] = func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{{env, Bool(false)}}, nil
	}
	e.funcs["null/0"] = func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{{env, Null}}, nil
	}
	e.funcs["not/0"] = func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{{env, Bool(!Truthy(item))}}, nil
	}
	e.funcs["empty/0"] = func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{}, nil
	}
	e.funcs["select/1"] = selectBuiltin
}

// selectBuiltin runs its test argument against the current item and
// re-emits the item once per truthy test result (§4.4).
func selectBuiltin(env *Env, item Value, args ...Evaluator) (Stream, error) {
	test := args[0]
	results, err := test(Stream{{env, item}})
	if err != nil {
		return nil, err
	}
	var out Stream
	for _, r := range results {
		if Truthy(r.Value) {
			out = append(out, Pair{env, item})
		}
	}
	return out, nil
}
