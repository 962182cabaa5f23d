package jqi

// Func is a built-in implementation: given the calling environment, the
// current item, and the (unevaluated) argument expressions, it returns the
// pairs it produces. Arguments are Evaluators rather than values so a
// builtin like select/1 can run its test expression per-item itself
// (§4.3, §4.4).
type Func func(env *Env, item Value, args ...Evaluator) (Stream, error)

// pathStep is the internal ".path" bookkeeping §3 describes: a frame
// either resets the path to "." (Reset) or records one more Field/String
// step since the last reset.
type pathStep struct {
	Reset bool
	Key   string
}

// Env is a persistent chain of frames. A child frame shadows its parent;
// environments are never mutated once another evaluator might hold a
// reference to them (§3 "Environment lifecycle").
type Env struct {
	parent *Env
	vars   map[string]Value
	funcs  map[string]Func
	step   *pathStep
}

// NewRootEnv constructs a fresh root environment preloaded with the
// built-in registry (§4.4, §6 make_env).
func NewRootEnv() *Env {
	e := &Env{vars: map[string]Value{}, funcs: map[string]Func{}}
	installBuiltins(e)
	return e
}

// Child returns a new frame with the given variable bindings (keyed by
// "$name"), shadowing the receiver.
func (e *Env) Child(vars map[string]Value) *Env {
	return &Env{parent: e, vars: vars}
}

// WithFunc returns a new frame binding name/arity to fn.
func (e *Env) WithFunc(nameArity string, fn Func) *Env {
	return &Env{parent: e, funcs: map[string]Func{nameArity: fn}}
}

// withStep returns a new frame recording one more path step.
func (e *Env) withStep(s pathStep) *Env {
	return &Env{parent: e, step: &s}
}

// ResetPath returns a new frame marking "." as the most recent path
// reset point, the way a literal or a $variable reference does (§4.3).
func (e *Env) ResetPath() *Env {
	return e.withStep(pathStep{Reset: true})
}

// RecordField returns a new frame recording a Field/String access as the
// next path step (§4.3).
func (e *Env) RecordField(key string) *Env {
	return e.withStep(pathStep{Key: key})
}

// Var looks up a variable (including the leading "$") up the chain.
func (e *Env) Var(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.vars != nil {
			if v, ok := cur.vars[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Lookup finds a builtin/user function by "name/arity" up the chain.
func (e *Env) Lookup(nameArity string) (Func, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.funcs != nil {
			if f, ok := cur.funcs[nameArity]; ok {
				return f, true
			}
		}
	}
	return nil, false
}

// GetPath walks the chain from the current frame up to (and including)
// the nearest reset, producing [".", step1, step2, ...] — invariant 2 of
// §3. Used only by set_path/deep_update (§4.3).
func (e *Env) GetPath() []Value {
	var keys []string
	for cur := e; cur != nil; cur = cur.parent {
		if cur.step == nil {
			continue
		}
		if cur.step.Reset {
			break
		}
		keys = append(keys, cur.step.Key)
	}
	path := make([]Value, 0, len(keys)+1)
	path = append(path, String("."))
	for i := len(keys) - 1; i >= 0; i-- {
		path = append(path, String(keys[i]))
	}
	return path
}
