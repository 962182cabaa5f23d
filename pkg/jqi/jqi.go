// Package jqi implements a subset of the jq filter language: a lexer, a
// precedence-climbing parser that compiles directly to evaluator
// closures, a stream evaluator, a destructuring pattern matcher, and a
// completion engine for interactive use.
package jqi

// MakeEnv returns a fresh root Environment preloaded with the built-in
// registry (§6 make_env).
func MakeEnv() *Env {
	return NewRootEnv()
}

// ParseSource lexes and parses a complete filter expression in one step
// (§6 parse, rule = exp).
func ParseSource(source string) (Evaluator, error) {
	toks, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// Run lexes, parses, and evaluates source against a single input value
// using a fresh root environment, returning the output values in order.
// It is a convenience wrapper over ParseSource/MakeEnv/Splice/Unsplice for
// callers (such as the tests) that do not need to reuse a parsed filter or
// a shared environment across many inputs.
func Run(source string, input Value) ([]Value, error) {
	eval, err := ParseSource(source)
	if err != nil {
		return nil, err
	}
	env := MakeEnv()
	out, err := eval(Splice(env, []Value{input}))
	if err != nil {
		return nil, err
	}
	return Unsplice(out), nil
}

// Completer lexes source with a cursor at cursorOffset and parses it,
// returning a function that evaluates the parsed filter against caller
// inputs/environment and reports the completion candidates and source
// span raised partway through, or no candidates if evaluation completed
// without requesting one (§4.7, §6 completer).
func Completer(source string, cursorOffset int) (func(inputValues []Value, env *Env) ([]Token, Position), error) {
	toks, err := LexCursor(source, cursorOffset)
	if err != nil {
		return nil, err
	}
	eval, err := Parse(toks)
	if err != nil {
		return nil, err
	}
	return func(inputValues []Value, env *Env) ([]Token, Position) {
		if env == nil {
			env = MakeEnv()
		}
		_, err := eval(Splice(env, inputValues))
		if c, ok := AsCompletion(err); ok {
			return c.Candidates, c.Pos
		}
		return nil, Position{Start: cursorOffset, End: cursorOffset}
	}, nil
}
