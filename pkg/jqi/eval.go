package jqi

import "fmt"

// Pair is one (environment, value) element of a Stream (§3).
type Pair struct {
	Env   *Env
	Value Value
}

// Stream is an ordered sequence of (environment, value) pairs — the
// uniform input/output type of every Evaluator (§3).
type Stream []Pair

// Evaluator is a pure function stream -> stream produced by the parser.
// It never mutates its input; it returns a hard error to abort evaluation,
// or a *Completion (travelling the same error channel) to short-circuit it
// (§3, §5).
type Evaluator func(Stream) (Stream, error)

// Splice lifts a plain value list to a stream, all pairs sharing env.
func Splice(env *Env, values []Value) Stream {
	s := make(Stream, len(values))
	for i, v := range values {
		s[i] = Pair{env, v}
	}
	return s
}

// Unsplice extracts the values from a stream, discarding environments.
func Unsplice(s Stream) []Value {
	vs := make([]Value, len(s))
	for i, p := range s {
		vs[i] = p.Value
	}
	return vs
}

// Dot is the identity evaluator: "." (§4.3). It does not alter path
// tracking.
func Dot(s Stream) (Stream, error) { return s, nil }

// Literal produces n for every input pair, resetting the path to "." in
// the output environment (§4.3).
func Literal(n Value) Evaluator {
	return func(s Stream) (Stream, error) {
		out := make(Stream, len(s))
		for i, p := range s {
			out[i] = Pair{p.Env.ResetPath(), n}
		}
		return out, nil
	}
}

// accessField implements field(f)'s access(): null indexes to null,
// objects index normally (missing key -> null), anything else is a soft
// Error value embedded in the stream rather than a hard abort (§4.3, §7).
func accessField(v Value, f string) Value {
	switch x := v.(type) {
	case nil, nullValue:
		return Null
	case *Object:
		if val, ok := x.Get(f); ok {
			return val
		}
		return Null
	default:
		return ErrorValue(fmt.Sprintf("Cannot index %s with %q", TypeName(v), f))
	}
}

// Field accesses field f, recording it as the next path step (§4.3).
func Field(f string) Evaluator {
	return func(s Stream) (Stream, error) {
		out := make(Stream, len(s))
		for i, p := range s {
			out[i] = Pair{p.Env.RecordField(f), accessField(p.Value, f)}
		}
		return out, nil
	}
}

// Pipe is right-to-left composition: pipe(x, y)(S) = y(x(S)) (§4.3).
func Pipe(x, y Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		xs, err := x(s)
		if err != nil {
			return nil, err
		}
		return y(xs)
	}
}

// Comma concatenates x and y's results per input pair, left to right
// (§4.3).
func Comma(x, y Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		var out Stream
		for _, p := range s {
			xs, err := x(Stream{p})
			if err != nil {
				return nil, err
			}
			out = append(out, xs...)
			ys, err := y(Stream{p})
			if err != nil {
				return nil, err
			}
			out = append(out, ys...)
		}
		return out, nil
	}
}

// Iterate flattens each array/object value into multiple pairs, in
// insertion order; iterating a scalar is a hard error (§4.3).
func Iterate(s Stream) (Stream, error) {
	var out Stream
	for _, p := range s {
		switch v := p.Value.(type) {
		case Array:
			for _, e := range v {
				out = append(out, Pair{p.Env, e})
			}
		case *Object:
			for _, k := range v.Keys() {
				val, _ := v.Get(k)
				out = append(out, Pair{p.Env, val})
			}
		default:
			return nil, evalErrorf("Cannot iterate over %s", TypeName(p.Value))
		}
	}
	return out, nil
}

// Collect wraps e's results for each input pair into a single array
// (§4.3) — "[...]".
func Collect(e Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		out := make(Stream, 0, len(s))
		for _, p := range s {
			items, err := e(Stream{p})
			if err != nil {
				return nil, err
			}
			arr := make(Array, len(items))
			for i, it := range items {
				arr[i] = it.Value
			}
			out = append(out, Pair{p.Env.ResetPath(), arr})
		}
		return out, nil
	}
}

// Variable looks up $name, resetting path to "." (§4.3).
func Variable(name string) Evaluator {
	key := "$" + name
	return func(s Stream) (Stream, error) {
		out := make(Stream, len(s))
		for i, p := range s {
			val, ok := p.Env.Var(key)
			if !ok {
				return nil, evalErrorf("%s is not defined", key)
			}
			out[i] = Pair{p.Env.ResetPath(), val}
		}
		return out, nil
	}
}

// Call invokes the name/arity builtin for each input pair, concatenating
// results (§4.3, §4.4).
func Call(name string, args ...Evaluator) Evaluator {
	key := fmt.Sprintf("%s/%d", name, len(args))
	return func(s Stream) (Stream, error) {
		var out Stream
		for _, p := range s {
			fn, ok := p.Env.Lookup(key)
			if !ok {
				return nil, evalErrorf("%s is not defined", key)
			}
			r, err := fn(p.Env, p.Value, args...)
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
		}
		return out, nil
	}
}

// cartesian runs x and y against the same input stream and combines every
// (x-result, y-result) pair with combine, iterating y outer / x inner so
// the leftmost operand varies fastest; the output env is always the
// y-pair's env, per §4.3's resolved "check" note.
func cartesian(x, y Evaluator, combine func(a, b Value) (Value, error)) Evaluator {
	return func(s Stream) (Stream, error) {
		xs, err := x(s)
		if err != nil {
			return nil, err
		}
		ys, err := y(s)
		if err != nil {
			return nil, err
		}
		out := make(Stream, 0, len(xs)*len(ys))
		for _, yp := range ys {
			for _, xp := range xs {
				v, err := combine(xp.Value, yp.Value)
				if err != nil {
					return nil, err
				}
				out = append(out, Pair{yp.Env, v})
			}
		}
		return out, nil
	}
}

// Add, Sub, Mul, Div, Mod are the arithmetic operators (§4.3, §4.6).
func Add(x, y Evaluator) Evaluator { return cartesian(x, y, addValues) }
func Sub(x, y Evaluator) Evaluator { return cartesian(x, y, subValues) }
func Mul(x, y Evaluator) Evaluator { return cartesian(x, y, mulValues) }
func Div(x, y Evaluator) Evaluator { return cartesian(x, y, divValues) }
func Mod(x, y Evaluator) Evaluator { return cartesian(x, y, modValues) }

func addValues(a, b Value) (Value, error) {
	if _, ok := a.(nullValue); ok {
		return b, nil
	}
	if _, ok := b.(nullValue); ok {
		return a, nil
	}
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x + y, nil
		case Float:
			return Float(x) + y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x + Float(y), nil
		case Float:
			return x + y, nil
		}
	case String:
		if y, ok := b.(String); ok {
			return x + y, nil
		}
	case Array:
		if y, ok := b.(Array); ok {
			return append(append(Array{}, x...), y...), nil
		}
	case *Object:
		if y, ok := b.(*Object); ok {
			out := x.Clone()
			for _, k := range y.Keys() {
				v, _ := y.Get(k)
				out.Set(k, v)
			}
			return out, nil
		}
	}
	return nil, evalErrorf("%s and %s cannot be added", TypeName(a), TypeName(b))
}

func subValues(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x - y, nil
		case Float:
			return Float(x) - y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x - Float(y), nil
		case Float:
			return x - y, nil
		}
	case Array:
		if y, ok := b.(Array); ok {
			var out Array
			for _, e := range x {
				found := false
				for _, r := range y {
					if Equal(e, r) {
						found = true
						break
					}
				}
				if !found {
					out = append(out, e)
				}
			}
			return out, nil
		}
	}
	return nil, evalErrorf("%s and %s cannot be subtracted", TypeName(a), TypeName(b))
}

func mulValues(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x * y, nil
		case Float:
			return Float(x) * y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x * Float(y), nil
		case Float:
			return x * y, nil
		}
	case String:
		if y, ok := b.(Int); ok {
			return repeatString(string(x), int64(y)), nil
		}
	}
	if y, ok := b.(String); ok {
		if x, ok := a.(Int); ok {
			return repeatString(string(y), int64(x)), nil
		}
	}
	return nil, evalErrorf("%s and %s cannot be multiplied", TypeName(a), TypeName(b))
}

func repeatString(s string, n int64) Value {
	if n <= 0 {
		return Null
	}
	out := ""
	for i := int64(0); i < n; i++ {
		out += s
	}
	return String(out)
}

func divValues(a, b Value) (Value, error) {
	af, aIsNum := asNumber(a)
	bf, bIsNum := asNumber(b)
	if !aIsNum || !bIsNum {
		return nil, evalErrorf("%s and %s cannot be divided", TypeName(a), TypeName(b))
	}
	if bf == 0 {
		return nil, evalErrorf("%s and %s: division by zero", TypeName(a), TypeName(b))
	}
	ai, aInt := a.(Int)
	bi, bInt := b.(Int)
	if aInt && bInt && bi != 0 && ai%bi == 0 {
		return ai / bi, nil
	}
	return Float(af / bf), nil
}

func modValues(a, b Value) (Value, error) {
	ai, aOk := a.(Int)
	bi, bOk := b.(Int)
	if !aOk || !bOk {
		return nil, evalErrorf("%s and %s cannot be divided (remainder)", TypeName(a), TypeName(b))
	}
	if bi == 0 {
		return nil, evalErrorf("%s and %s: remainder by zero", TypeName(a), TypeName(b))
	}
	return ai % bi, nil
}

func asNumber(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

// comparison builds a cartesian comparison operator (§4.3, §4.6).
func comparison(cmp func(c int) bool) func(x, y Evaluator) Evaluator {
	return func(x, y Evaluator) Evaluator {
		return cartesian(x, y, func(a, b Value) (Value, error) {
			return Bool(cmp(Compare(a, b))), nil
		})
	}
}

// Eq, Ne, Lt, Le, Gt, Ge are the comparison operators (§4.3).
var (
	Eq = equality(true)
	Ne = equality(false)
	Lt = comparison(func(c int) bool { return c < 0 })
	Le = comparison(func(c int) bool { return c <= 0 })
	Gt = comparison(func(c int) bool { return c > 0 })
	Ge = comparison(func(c int) bool { return c >= 0 })
)

func equality(want bool) func(x, y Evaluator) Evaluator {
	return func(x, y Evaluator) Evaluator {
		return cartesian(x, y, func(a, b Value) (Value, error) {
			return Bool(Equal(a, b) == want), nil
		})
	}
}

// LogAnd short-circuits per x-result: each truthy x re-evaluates y against
// the whole input stream; each falsy x emits false directly (§4.3).
func LogAnd(x, y Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		xs, err := x(s)
		if err != nil {
			return nil, err
		}
		var out Stream
		for _, xp := range xs {
			if Truthy(xp.Value) {
				ys, err := y(s)
				if err != nil {
					return nil, err
				}
				for _, yp := range ys {
					out = append(out, Pair{yp.Env, Bool(Truthy(yp.Value))})
				}
			} else {
				out = append(out, Pair{xp.Env, Bool(false)})
			}
		}
		return out, nil
	}
}

// LogOr dually short-circuits on truthy x (§4.3).
func LogOr(x, y Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		xs, err := x(s)
		if err != nil {
			return nil, err
		}
		var out Stream
		for _, xp := range xs {
			if Truthy(xp.Value) {
				out = append(out, Pair{xp.Env, Bool(true)})
			} else {
				ys, err := y(s)
				if err != nil {
					return nil, err
				}
				for _, yp := range ys {
					out = append(out, Pair{yp.Env, Bool(Truthy(yp.Value))})
				}
			}
		}
		return out, nil
	}
}

func negateValue(v Value) (Value, error) {
	switch x := v.(type) {
	case Int:
		return -x, nil
	case Float:
		return -x, nil
	}
	return nil, evalErrorf("%s cannot be negated", TypeName(v))
}

// Negate implements unary "-" (§4.3).
func Negate(e Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		vs, err := e(s)
		if err != nil {
			return nil, err
		}
		out := make(Stream, len(vs))
		for i, p := range vs {
			nv, err := negateValue(p.Value)
			if err != nil {
				return nil, err
			}
			out[i] = Pair{p.Env, nv}
		}
		return out, nil
	}
}

func coerceKey(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return ToString(v)
}

// DictEntry is one key/value evaluator pair of an object-construction
// expression "{...}".
type DictEntry struct {
	Key Evaluator
	Val Evaluator
}

// MakeDict computes the cross product of every entry's key/value streams,
// per input pair, later entries overwriting earlier ones on key collision
// (§4.3).
func MakeDict(entries []DictEntry) Evaluator {
	return func(s Stream) (Stream, error) {
		var out Stream
		for _, p := range s {
			objs := []*Object{NewObject()}
			for _, entry := range entries {
				keys, err := entry.Key(Stream{p})
				if err != nil {
					return nil, err
				}
				vals, err := entry.Val(Stream{p})
				if err != nil {
					return nil, err
				}
				var next []*Object
				for _, base := range objs {
					for _, vp := range vals {
						for _, kp := range keys {
							o := base.Clone()
							o.Set(coerceKey(kp.Value), vp.Value)
							next = append(next, o)
						}
					}
				}
				objs = next
			}
			for _, o := range objs {
				out = append(out, Pair{p.Env.ResetPath(), o})
			}
		}
		return out, nil
	}
}

// Binding implements "term as pattern | body" (§4.3): for each input pair,
// term's results are destructured by pattern, and body runs once per
// binding map with the original value threaded through unchanged.
func Binding(term Evaluator, pat Pattern, body Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		var out Stream
		for _, p := range s {
			values, err := term(Stream{p})
			if err != nil {
				return nil, err
			}
			for _, vp := range values {
				binds, err := pat.Bindings(Stream{vp}, vp.Value)
				if err != nil {
					return nil, err
				}
				for _, b := range binds {
					res, err := body(Stream{{p.Env.Child(b), p.Value}})
					if err != nil {
						return nil, err
					}
					out = append(out, res...)
				}
			}
		}
		return out, nil
	}
}

// deepUpdate recursively rewrites the slot named by path inside lhs,
// coercing null to {} along the way, per §4.3.
func deepUpdate(lhs Value, path []Value, rhs Value) (Value, error) {
	for len(path) > 0 {
		if s, ok := path[0].(String); ok && s == "." {
			path = path[1:]
			continue
		}
		break
	}
	if len(path) == 0 {
		return rhs, nil
	}
	key, ok := path[0].(String)
	if !ok {
		return nil, evalErrorf("invalid path step %v", path[0])
	}
	var obj *Object
	switch x := lhs.(type) {
	case nil, nullValue:
		obj = NewObject()
	case *Object:
		obj = x.Clone()
	default:
		return nil, evalErrorf("Cannot index %s with %q", TypeName(lhs), string(key))
	}
	cur, _ := obj.Get(string(key))
	updated, err := deepUpdate(cur, path[1:], rhs)
	if err != nil {
		return nil, err
	}
	obj.Set(string(key), updated)
	return obj, nil
}

// SetPath implements "lhs = rhs" (§4.3): for each rhs value, every lhs
// path is applied in turn against one accumulator, so multiple lhs paths
// compose (§9's resolved open question).
func SetPath(lhs, rhs Evaluator) Evaluator {
	return func(s Stream) (Stream, error) {
		var out Stream
		for _, p := range s {
			rs, err := rhs(Stream{p})
			if err != nil {
				return nil, err
			}
			for _, rp := range rs {
				result := p.Value
				lhsPairs, err := lhs(Stream{p})
				if err != nil {
					return nil, err
				}
				for _, lp := range lhsPairs {
					result, err = deepUpdate(result, lp.Env.GetPath(), rp.Value)
					if err != nil {
						return nil, err
					}
				}
				out = append(out, Pair{p.Env, result})
			}
		}
		return out, nil
	}
}
