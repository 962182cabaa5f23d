package jqi

import "fmt"

// parser walks a flat token slice and builds Evaluators directly — there is
// no separate AST stage, matching original_source/jqi/parser.py's
// parser-combinator style (§4.2).
type parser struct {
	toks []Token
	pos  int
}

// Parse compiles source tokens into the single top-level "exp" production
// (§4.2, §6 parse). toks must come from Lex/LexCursor.
func Parse(toks []Token) (Evaluator, error) {
	p := &parser{toks: toks}
	e, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	p.consumeCursor()
	if !p.atEnd() {
		t, _ := p.peek()
		return nil, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected trailing token %s", t.String())}
	}
	return e, nil
}

func (p *parser) peek() (Token, bool) {
	if p.pos < len(p.toks) {
		return p.toks[p.pos], true
	}
	return Token{}, false
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) matchToken(lexeme string) bool {
	if t, ok := p.peek(); ok && t.Is(lexeme) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectToken(lexeme string) error {
	if p.matchToken(lexeme) {
		return nil
	}
	return p.errorf("expected %q", lexeme)
}

func (p *parser) errorf(format string, args ...any) error {
	pos := Position{}
	if p.pos > 0 && p.pos-1 < len(p.toks) {
		pos = p.toks[p.pos-1].Pos
	}
	if t, ok := p.peek(); ok {
		pos = t.Pos
	}
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) consumeCursor() bool {
	if t, ok := p.peek(); ok && t.Kind == KindCursor {
		p.pos++
		return true
	}
	return false
}

// parseExp is "exp": a term-as-pattern binding, tried first with
// backtracking, else a plain pipe chain (§4.2).
func (p *parser) parseExp() (Evaluator, error) {
	save := p.pos
	if e, ok, err := p.tryBinding(); err != nil {
		return nil, err
	} else if ok {
		return e, nil
	}
	p.pos = save
	return p.parsePipe()
}

// tryBinding attempts "term 'as' pattern '|' exp". A failure to parse a
// leading term, or the absence of "as" after it, is not an error — the
// caller backtracks and parses exp9 instead.
func (p *parser) tryBinding() (Evaluator, bool, error) {
	save := p.pos
	term, err := p.parseTerm()
	if err != nil {
		p.pos = save
		return nil, false, nil
	}
	if !p.matchToken("as") {
		p.pos = save
		return nil, false, nil
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, false, err
	}
	if err := p.expectToken("|"); err != nil {
		return nil, false, err
	}
	body, err := p.parseExp()
	if err != nil {
		return nil, false, err
	}
	return Binding(term, pat, body), true, nil
}

// parsePipe is exp9: right-associative "|" over exp8.
func (p *parser) parsePipe() (Evaluator, error) {
	return p.chainr(p.parseComma, opTable{"|": Pipe})
}

// parseComma is exp8: left-associative "," over exp7 (here folded into
// exp6, since "//" is unimplemented — see parseAssign).
func (p *parser) parseComma() (Evaluator, error) {
	return p.chainl(p.parseAssign, opTable{",": Comma})
}

// parseAssign is exp6/exp7: "//" has no evaluator in this subset (its
// lexeme still exists so the lexer never mis-splits "/" "/"), so exp7
// passes straight through to exp6's single non-associative "=".
func (p *parser) parseAssign() (Evaluator, error) {
	return p.nonassoc(p.parseOr, opTable{"=": SetPath})
}

// parseDictValue is the "expd" production used for object-construction
// values: a pipe chain that never sees a bare "," (§4.2 mk_dict), so
// `{a: 1, b: 2}` splits its entries at the comma owned by the enclosing
// dict-item list, not by the value expression.
func (p *parser) parseDictValue() (Evaluator, error) {
	return p.chainr(p.parseAssign, opTable{"|": Pipe})
}

// parseOr is exp5: left-associative "or" over exp4.
func (p *parser) parseOr() (Evaluator, error) {
	return p.chainl(p.parseAnd, opTable{"or": LogOr})
}

// parseAnd is exp4: left-associative "and" over exp3.
func (p *parser) parseAnd() (Evaluator, error) {
	return p.chainl(p.parseCmp, opTable{"and": LogAnd})
}

// parseCmp is exp3: at most one non-associative comparison operator. A
// cursor immediately after the operator (before its right operand is
// typed) triggers comparison-context completion (§4.7) instead of parsing
// a right-hand side.
func (p *parser) parseCmp() (Evaluator, error) {
	ops := opTable{"==": Eq, "!=": Ne, "<": Lt, "<=": Le, ">": Gt, ">=": Ge}
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	combine, found := p.peekOp(ops)
	if !found {
		return left, nil
	}
	p.pos++
	if t, ok := p.peek(); ok && t.Kind == KindCursor {
		cursorPos := t.Pos
		p.pos++
		return completeComparisonValue(left, cursorPos), nil
	}
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return combine(left, right), nil
}

// parseAdd is exp2: left-associative "+"/"-".
func (p *parser) parseAdd() (Evaluator, error) {
	return p.chainl(p.parseMul, opTable{"+": Add, "-": Sub})
}

// parseMul is exp1: left-associative "*"/"/"/"%" over term, with a leading
// unary "-" on either operand negating it.
func (p *parser) parseMul() (Evaluator, error) {
	left, err := p.parseMulOperand()
	if err != nil {
		return nil, err
	}
	ops := opTable{"*": Mul, "/": Div, "%": Mod}
	for {
		combine, found := p.peekOp(ops)
		if !found {
			return left, nil
		}
		p.pos++
		right, err := p.parseMulOperand()
		if err != nil {
			return nil, err
		}
		left = combine(left, right)
	}
}

func (p *parser) parseMulOperand() (Evaluator, error) {
	if p.matchToken("-") {
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return Negate(operand), nil
	}
	return p.parseTerm()
}

// parseTerm is "term := atom term-suffix*" (§4.2), with completion
// injection attempted at every suffix position.
func (p *parser) parseTerm() (Evaluator, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		next, matched, err := p.tryTermSuffix(e)
		if err != nil {
			return nil, err
		}
		if !matched {
			return e, nil
		}
		e = next
	}
}

func (p *parser) tryTermSuffix(base Evaluator) (Evaluator, bool, error) {
	t, ok := p.peek()
	if !ok {
		return nil, false, nil
	}
	switch {
	case t.Kind == KindField:
		p.pos++
		if p.consumeCursor() {
			return completeField(base, t.Text, t.Pos), true, nil
		}
		return Pipe(base, Field(t.Text)), true, nil

	case t.Is("."):
		p.pos++
		if t2, ok2 := p.peek(); ok2 {
			switch t2.Kind {
			case KindString:
				p.pos++
				return Pipe(base, Field(t2.Text)), true, nil
			case KindPartialString:
				p.pos++
				if p.consumeCursor() {
					return completeField(base, t2.Text, t2.Pos), true, nil
				}
				return Pipe(base, Field(t2.Text)), true, nil
			case KindCursor:
				cursorPos := t2.Pos
				p.pos++
				return completeAfterChainDot(base, cursorPos), true, nil
			}
		}
		return nil, false, p.errorf("expected a field name after \".\"")

	case t.Is("["):
		if t2, ok2 := p.peekAt(p.pos + 1); ok2 && t2.Is("]") {
			p.pos += 2
			return Pipe(base, Iterate), true, nil
		}
		return nil, false, nil

	default:
		return nil, false, nil
	}
}

func (p *parser) peekAt(i int) (Token, bool) {
	if i < len(p.toks) {
		return p.toks[i], true
	}
	return Token{}, false
}

// parseAtom is the "atom" production (§4.2).
func (p *parser) parseAtom() (Evaluator, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch {
	case t.Kind == KindString:
		p.pos++
		return Literal(String(t.Text)), nil

	case t.Kind == KindInt:
		p.pos++
		return Literal(Int(t.IntVal)), nil

	case t.Kind == KindFloat:
		p.pos++
		return Literal(Float(t.FloatVal)), nil

	case t.Kind == KindField:
		p.pos++
		if p.consumeCursor() {
			return completeField(Dot, t.Text, t.Pos), nil
		}
		return Field(t.Text), nil

	case t.Is("."):
		p.pos++
		if t2, ok2 := p.peek(); ok2 {
			switch t2.Kind {
			case KindString:
				p.pos++
				return Field(t2.Text), nil
			case KindPartialString:
				p.pos++
				if p.consumeCursor() {
					return completeField(Dot, t2.Text, t2.Pos), nil
				}
				return Field(t2.Text), nil
			case KindCursor:
				cursorPos := t2.Pos
				p.pos++
				return completeAfterBareDot(Dot, cursorPos), nil
			}
		}
		return Dot, nil

	case t.Is("("):
		p.pos++
		inner, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if err := p.expectToken(")"); err != nil {
			return nil, err
		}
		return inner, nil

	case t.Is("["):
		p.pos++
		if p.matchToken("]") {
			return Literal(Array{}), nil
		}
		inner, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if err := p.expectToken("]"); err != nil {
			return nil, err
		}
		return Collect(inner), nil

	case t.Is("{"):
		p.pos++
		return p.parseDictBody()

	case t.Is("$"):
		p.pos++
		name, err := p.expectIdentLike()
		if err != nil {
			return nil, err
		}
		return Variable(name), nil

	case t.Kind == KindIdentifier:
		p.pos++
		name := t.Text
		if !p.matchToken("(") {
			return Call(name), nil
		}
		var args []Evaluator
		for {
			arg, err := p.parseExp()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.matchToken(";") {
				continue
			}
			break
		}
		if err := p.expectToken(")"); err != nil {
			return nil, err
		}
		return Call(name, args...), nil

	default:
		return nil, p.errorf("unexpected token %s", t.String())
	}
}

// expectIdentLike accepts an identifier, or (since keywords lex as
// KindToken) any keyword lexeme used as a variable/field name.
func (p *parser) expectIdentLike() (string, error) {
	t, ok := p.peek()
	if !ok {
		return "", p.errorf("expected a name")
	}
	if t.Kind == KindIdentifier || (t.Kind == KindToken && isKeywordLexeme(t.Text)) {
		p.pos++
		return t.Text, nil
	}
	return "", p.errorf("expected a name, found %s", t.String())
}

// parseDictBody parses "mk_dict '}'" having already consumed "{" (§4.2).
func (p *parser) parseDictBody() (Evaluator, error) {
	if p.matchToken("}") {
		return MakeDict(nil), nil
	}
	var entries []DictEntry
	for {
		entry, err := p.parseDictEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		if p.matchToken(",") {
			continue
		}
		break
	}
	if err := p.expectToken("}"); err != nil {
		return nil, err
	}
	return MakeDict(entries), nil
}

func (p *parser) parseDictEntry() (DictEntry, error) {
	t, ok := p.peek()
	if !ok {
		return DictEntry{}, p.errorf("expected a dict entry")
	}
	switch {
	case t.Is("$"):
		p.pos++
		name, err := p.expectIdentLike()
		if err != nil {
			return DictEntry{}, err
		}
		return DictEntry{Key: Literal(String(name)), Val: Variable(name)}, nil

	case t.Is("("):
		p.pos++
		keyExp, err := p.parseExp()
		if err != nil {
			return DictEntry{}, err
		}
		if err := p.expectToken(")"); err != nil {
			return DictEntry{}, err
		}
		if err := p.expectToken(":"); err != nil {
			return DictEntry{}, err
		}
		val, err := p.parseDictValue()
		if err != nil {
			return DictEntry{}, err
		}
		return DictEntry{Key: keyExp, Val: val}, nil

	case t.Kind == KindString:
		p.pos++
		if p.matchToken(":") {
			val, err := p.parseDictValue()
			if err != nil {
				return DictEntry{}, err
			}
			return DictEntry{Key: Literal(String(t.Text)), Val: val}, nil
		}
		return DictEntry{Key: Literal(String(t.Text)), Val: Field(t.Text)}, nil

	case t.Kind == KindIdentifier || (t.Kind == KindToken && isKeywordLexeme(t.Text)):
		p.pos++
		if p.matchToken(":") {
			val, err := p.parseDictValue()
			if err != nil {
				return DictEntry{}, err
			}
			return DictEntry{Key: Literal(String(t.Text)), Val: val}, nil
		}
		return DictEntry{Key: Literal(String(t.Text)), Val: Field(t.Text)}, nil

	default:
		return DictEntry{}, p.errorf("unexpected token %s in object construction", t.String())
	}
}

// parsePattern is "pattern" (§4.2, §4.5).
func (p *parser) parsePattern() (Pattern, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errorf("expected a pattern")
	}
	switch {
	case t.Is("$"):
		p.pos++
		name, err := p.expectIdentLike()
		if err != nil {
			return nil, err
		}
		return ValueMatch{Name: name}, nil

	case t.Is("["):
		p.pos++
		var targets []Pattern
		for {
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			targets = append(targets, pat)
			if p.matchToken(",") {
				continue
			}
			break
		}
		if err := p.expectToken("]"); err != nil {
			return nil, err
		}
		return ArrayMatch{Targets: targets}, nil

	case t.Is("{"):
		p.pos++
		var targets []Pattern
		for {
			pat, err := p.parseObjPat()
			if err != nil {
				return nil, err
			}
			targets = append(targets, pat)
			if p.matchToken(",") {
				continue
			}
			break
		}
		if err := p.expectToken("}"); err != nil {
			return nil, err
		}
		return ObjectMatch{Targets: targets}, nil

	default:
		return nil, p.errorf("unexpected token %s in pattern", t.String())
	}
}

func (p *parser) parseObjPat() (Pattern, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errorf("expected an object pattern entry")
	}
	switch {
	case t.Is("$"):
		p.pos++
		name, err := p.expectIdentLike()
		if err != nil {
			return nil, err
		}
		return KeyMatch{Key: name, Matcher: ValueMatch{Name: name}}, nil

	case t.Is("("):
		p.pos++
		keyExp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if err := p.expectToken(")"); err != nil {
			return nil, err
		}
		if err := p.expectToken(":"); err != nil {
			return nil, err
		}
		sub, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		return ExpMatch{Exp: keyExp, Matcher: sub}, nil

	case t.Kind == KindString:
		p.pos++
		if err := p.expectToken(":"); err != nil {
			return nil, err
		}
		sub, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		return KeyMatch{Key: t.Text, Matcher: sub}, nil

	case t.Kind == KindIdentifier:
		p.pos++
		if err := p.expectToken(":"); err != nil {
			return nil, err
		}
		sub, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		return KeyMatch{Key: t.Text, Matcher: sub}, nil

	default:
		return nil, p.errorf("unexpected token %s in object pattern", t.String())
	}
}
