package jqi

// Pattern is a destructuring pattern: given the item a binding `as`
// clause matched, it expands to zero or more variable-binding maps
// (keyed "$name") (§4.5).
type Pattern interface {
	// Bindings computes the binding maps for item. ctx is the surrounding
	// stream, used only by ExpMatch to evaluate its computed-key
	// expression.
	Bindings(ctx Stream, item Value) ([]map[string]Value, error)
}

// ValueMatch is "$x": bind the whole matched value to $x.
type ValueMatch struct {
	Name string
}

func (m ValueMatch) Bindings(_ Stream, item Value) ([]map[string]Value, error) {
	return []map[string]Value{{"$" + m.Name: item}}, nil
}

// ArrayMatch is "[p1, ..., pn]": positional destructuring; null coerces to
// [], anything else errors (§4.5).
type ArrayMatch struct {
	Targets []Pattern
}

func (m ArrayMatch) Bindings(ctx Stream, item Value) ([]map[string]Value, error) {
	var arr Array
	switch x := item.(type) {
	case nil, nullValue:
		arr = Array{}
	case Array:
		arr = x
	default:
		return nil, patternErrorf("cannot index %s with number", TypeName(item))
	}
	lists := make([][]map[string]Value, len(m.Targets))
	for i, t := range m.Targets {
		var elem Value = Null
		if i < len(arr) {
			elem = arr[i]
		}
		binds, err := t.Bindings(ctx, elem)
		if err != nil {
			return nil, err
		}
		lists[i] = binds
	}
	return crossCombine(lists), nil
}

// ObjectMatch is "{o1, ..., on}": every subpattern is applied to the whole
// object and the results cross-combined (§4.5).
type ObjectMatch struct {
	Targets []Pattern
}

func (m ObjectMatch) Bindings(ctx Stream, item Value) ([]map[string]Value, error) {
	lists := make([][]map[string]Value, len(m.Targets))
	for i, t := range m.Targets {
		binds, err := t.Bindings(ctx, item)
		if err != nil {
			return nil, err
		}
		lists[i] = binds
	}
	return crossCombine(lists), nil
}

// KeyMatch is "key: p": bind p against item[key]; null coerces to {},
// anything else errors (§4.5).
type KeyMatch struct {
	Key     string
	Matcher Pattern
}

func (m KeyMatch) Bindings(ctx Stream, item Value) ([]map[string]Value, error) {
	obj, err := asObjectForMatch(item)
	if err != nil {
		return nil, err
	}
	val := Value(Null)
	if v, ok := obj.Get(m.Key); ok {
		val = v
	}
	return m.Matcher.Bindings(ctx, val)
}

// ExpMatch is "(exp): p": exp yields zero or more string keys; p is bound
// against item[key] for each, and the resulting binding lists are
// concatenated — NOT cross-combined with each other, only with sibling
// patterns in an enclosing ObjectMatch (§4.5, verified against §8 scenario
// 1).
type ExpMatch struct {
	Exp     Evaluator
	Matcher Pattern
}

func (m ExpMatch) Bindings(ctx Stream, item Value) ([]map[string]Value, error) {
	obj, err := asObjectForMatch(item)
	if err != nil {
		return nil, err
	}
	keyPairs, err := m.Exp(ctx)
	if err != nil {
		return nil, err
	}
	var result []map[string]Value
	for _, kp := range keyPairs {
		key := coerceKey(kp.Value)
		val := Value(Null)
		if v, ok := obj.Get(key); ok {
			val = v
		}
		binds, err := m.Matcher.Bindings(ctx, val)
		if err != nil {
			return nil, err
		}
		result = append(result, binds...)
	}
	return result, nil
}

func asObjectForMatch(item Value) (*Object, error) {
	switch x := item.(type) {
	case nil, nullValue:
		return NewObject(), nil
	case *Object:
		return x, nil
	default:
		return nil, patternErrorf("cannot index %s with string", TypeName(item))
	}
}

// crossCombine is the Cartesian product of several binding-map lists,
// merged pairwise with later lists winning key collisions (§4.5).
func crossCombine(lists [][]map[string]Value) []map[string]Value {
	result := []map[string]Value{{}}
	for _, list := range lists {
		var next []map[string]Value
		for _, base := range result {
			for _, m := range list {
				merged := make(map[string]Value, len(base)+len(m))
				for k, v := range base {
					merged[k] = v
				}
				for k, v := range m {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		result = next
	}
	return result
}
