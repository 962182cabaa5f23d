package jqi

// item is one precedence level's sub-parser: parse as much as that level
// owns and return the Evaluator it built. Every chain/nonassoc combinator
// below is generic over item so most precedence levels in parser.go are a
// one-line call (§4.2; parseCmp and parseMul hand-roll their loops),
// mirroring original_source/jqi/parser.py's
// chainl1/chainr1/op helpers built on parsy combinators.
type item func() (Evaluator, error)

// opTable maps a KindToken lexeme to the Evaluator constructor it builds.
type opTable map[string]func(a, b Evaluator) Evaluator

// peekOp reports the combiner for the next token's lexeme, if any is in
// ops. It does not consume.
func (p *parser) peekOp(ops opTable) (func(a, b Evaluator) Evaluator, bool) {
	t, ok := p.peek()
	if !ok || t.Kind != KindToken {
		return nil, false
	}
	fn, found := ops[t.Text]
	return fn, found
}

// chainl parses left-associative binary operators: item (op item)*.
func (p *parser) chainl(next item, ops opTable) (Evaluator, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		combine, found := p.peekOp(ops)
		if !found {
			return left, nil
		}
		p.pos++
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = combine(left, right)
	}
}

// chainr parses right-associative binary operators: item (op chainr)?.
func (p *parser) chainr(next item, ops opTable) (Evaluator, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	combine, found := p.peekOp(ops)
	if !found {
		return left, nil
	}
	p.pos++
	right, err := p.chainr(next, ops)
	if err != nil {
		return nil, err
	}
	return combine(left, right), nil
}

// nonassoc parses a single optional occurrence of a non-associative
// operator: item (op item)?.
func (p *parser) nonassoc(next item, ops opTable) (Evaluator, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	combine, found := p.peekOp(ops)
	if !found {
		return left, nil
	}
	p.pos++
	right, err := next()
	if err != nil {
		return nil, err
	}
	return combine(left, right), nil
}
