package jqi

import "strings"

// sampleObjects is sample_objects(stream): the union of keys over every
// object value in the stream, non-object values contributing nothing,
// sorted ascending (§4.6, §4.7).
func sampleObjects(s Stream) []string {
	seen := map[string]bool{}
	for _, p := range s {
		obj, ok := p.Value.(*Object)
		if !ok {
			continue
		}
		for _, k := range obj.Keys() {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// sampleValues is sample_values(stream): the union of scalar values across
// the stream, sorted by jq total order — used for comparison-context
// completion (§4.7).
func sampleValues(s Stream) []Value {
	seen := map[string]bool{}
	var out []Value
	for _, p := range s {
		switch p.Value.(type) {
		case Bool, Int, Float, String:
		default:
			continue
		}
		key := ToString(p.Value) + "/" + TypeName(p.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p.Value)
	}
	SortValues(out)
	return out
}

// valueToken wraps a sampled scalar value as a candidate Token, reusing
// the lexer's own literal kinds so completion candidates round-trip
// through the same Token type the parser consumes.
func valueToken(v Value) Token {
	switch x := v.(type) {
	case Bool:
		text := "false"
		if bool(x) {
			text = "true"
		}
		return Token{Kind: KindToken, Text: text}
	case Int:
		return Token{Kind: KindInt, IntVal: int64(x)}
	case Float:
		return Token{Kind: KindFloat, FloatVal: float64(x)}
	case String:
		return Token{Kind: KindString, Text: string(x)}
	default:
		return Token{Kind: KindString, Text: ToString(v)}
	}
}

// completeField builds the evaluator for "after a Field/PartialString
// prefix p": run base, sample the resulting stream's object keys, and
// raise a Completion over the ones starting with prefix (§4.2, §4.7).
func completeField(base Evaluator, prefix string, pos Position) Evaluator {
	return func(s Stream) (Stream, error) {
		bs, err := base(s)
		if err != nil {
			return nil, err
		}
		var cands []Token
		for _, k := range sampleObjects(bs) {
			if strings.HasPrefix(k, prefix) {
				cands = append(cands, fieldNameToken(k))
			}
		}
		return nil, &Completion{Candidates: cands, Pos: pos}
	}
}

// completeAfterBareDot builds the evaluator for a lone "." followed by the
// cursor, with no prefix typed yet: run base, propose keeping the bare dot
// (Token("")) plus every sampled key (spec.md:204, bullet 1).
func completeAfterBareDot(base Evaluator, pos Position) Evaluator {
	return func(s Stream) (Stream, error) {
		bs, err := base(s)
		if err != nil {
			return nil, err
		}
		cands := []Token{{Kind: KindToken, Text: ""}}
		for _, k := range sampleObjects(bs) {
			cands = append(cands, fieldNameToken(k))
		}
		return nil, &Completion{Candidates: cands, Pos: pos}
	}
}

// completeAfterChainDot builds the evaluator for a chain dot (e.g. ".bb.")
// followed by the cursor: run base, propose every sampled key with no
// "keep the dot" entry, since there is already a preceding expression to
// chain from (spec.md:206).
func completeAfterChainDot(base Evaluator, pos Position) Evaluator {
	return func(s Stream) (Stream, error) {
		bs, err := base(s)
		if err != nil {
			return nil, err
		}
		var cands []Token
		for _, k := range sampleObjects(bs) {
			cands = append(cands, fieldNameToken(k))
		}
		return nil, &Completion{Candidates: cands, Pos: pos}
	}
}

// completeComparisonValue builds the evaluator for comparison-context
// completion: run base, sample scalar values from the resulting stream,
// and raise them all as candidates regardless of any prefix (§4.7) — used
// when a comparison operator is immediately followed by the cursor.
func completeComparisonValue(base Evaluator, pos Position) Evaluator {
	return func(s Stream) (Stream, error) {
		bs, err := base(s)
		if err != nil {
			return nil, err
		}
		var cands []Token
		for _, v := range sampleValues(bs) {
			cands = append(cands, valueToken(v))
		}
		return nil, &Completion{Candidates: cands, Pos: pos}
	}
}
