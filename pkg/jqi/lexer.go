package jqi

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// tokenLexemes is the fixed multi-character-then-single-character set from
// §4.1, sorted longest-first at init so prefix ambiguities (e.g. "//=" vs
// "//", "<=" vs "<") always resolve to the longest match — the same
// behaviour original_source/jqi/lexer.py gets from parsy's string_from,
// which sorts its alternatives by descending length.
var tokenLexemes = sortedLexemes(
	"!=", "==",
	"as", "import", "include", "module", "def",
	"if", "then", "else", "elif",
	"and", "or", "end",
	"reduce", "foreach",
	"//", "try", "catch",
	"label", "break",
	"__loc__",
	"|=", "+=", "-=", "*=", "/=", "%=", "//=", "<=", ">=", "..", "?//",
	".", "?", "=", ";", ",", ":", "|", "+", "-", "*", "/", "%", "$", "<", ">",
)

func sortedLexemes(ls ...string) []string {
	out := append([]string(nil), ls...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isKeywordLexeme(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isIdentCont(s[i]) {
			return false
		}
	}
	return s != ""
}

type lexer struct {
	src          string
	pos          int
	cursorOffset int
	hasCursor    bool
	cursorDone   bool
}

// Lex converts source into a flat, position-tagged token list, discarding
// whitespace and comments (§4.1). It never injects a Cursor token.
func Lex(src string) ([]Token, error) {
	return LexCursor(src, -1)
}

// LexCursor is Lex plus cursor injection: when cursorOffset >= 0, a single
// synthetic Cursor token is emitted the first time the scan position
// reaches or exceeds it, enabling completion (§4.1, §4.7).
func LexCursor(src string, cursorOffset int) ([]Token, error) {
	l := &lexer{src: src, cursorOffset: cursorOffset, hasCursor: cursorOffset >= 0}
	toks, err := l.lexSeq(0)
	if err != nil {
		return nil, err
	}
	return toks, nil
}

// lexSeq lexes a run of tokens. closer is a byte ('\x00' for none) that, if
// encountered at the top of this sequence, ends it without being
// consumed — the caller (a bracket handler) consumes it.
func (l *lexer) lexSeq(closer byte) ([]Token, error) {
	var toks []Token
	for {
		if l.hasCursor && !l.cursorDone && l.pos >= l.cursorOffset {
			l.cursorDone = true
			toks = append(toks, Token{Kind: KindCursor, Pos: Position{l.pos, l.pos}})
			continue
		}
		if l.skipTrivia() {
			continue
		}
		if l.pos >= len(l.src) {
			return toks, nil
		}
		c := l.src[l.pos]
		if closer != 0 && c == closer {
			return toks, nil
		}
		switch c {
		case '[':
			bracketToks, err := l.lexBracket('[', ']')
			if err != nil {
				return nil, err
			}
			toks = append(toks, bracketToks...)
		case '{':
			bracketToks, err := l.lexBracket('{', '}')
			if err != nil {
				return nil, err
			}
			toks = append(toks, bracketToks...)
		case '(':
			bracketToks, err := l.lexBracket('(', ')')
			if err != nil {
				return nil, err
			}
			toks = append(toks, bracketToks...)
		default:
			tok, err := l.lexOne()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
}

// lexBracket lexes "open ... close", recursing into the contents. A
// missing closing bracket is tolerated at EOF — required for mid-edit
// completion (§4.1).
func (l *lexer) lexBracket(open, close byte) ([]Token, error) {
	start := l.pos
	l.pos++
	openTok := Token{Kind: KindToken, Text: string(open), Pos: Position{start, l.pos}}
	inner, err := l.lexSeq(close)
	if err != nil {
		return nil, err
	}
	toks := []Token{openTok}
	toks = append(toks, inner...)
	if l.pos < len(l.src) && l.src[l.pos] == close {
		s2 := l.pos
		l.pos++
		toks = append(toks, Token{Kind: KindToken, Text: string(close), Pos: Position{s2, l.pos}})
	}
	return toks, nil
}

// skipTrivia consumes one run of whitespace or a single comment, reporting
// whether it consumed anything.
func (l *lexer) skipTrivia() bool {
	if l.pos >= len(l.src) {
		return false
	}
	c := l.src[l.pos]
	if c == ' ' || c == '\t' || c == '\n' {
		start := l.pos
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c == ' ' || c == '\t' || c == '\n' {
				l.pos++
			} else {
				break
			}
		}
		return l.pos > start
	}
	if c == '#' {
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return true
	}
	return false
}

// lexOne lexes a single non-bracket atom at the current position: Field,
// Int/Float, Format, String/PartialString, Token, or Identifier (§4.1).
func (l *lexer) lexOne() (Token, error) {
	start := l.pos
	c := l.src[l.pos]

	if c == '.' && l.pos+1 < len(l.src) && isIdentStart(l.src[l.pos+1]) {
		j := l.pos + 1
		for j < len(l.src) && isIdentCont(l.src[j]) {
			j++
		}
		name := l.src[l.pos+1 : j]
		l.pos = j
		return Token{Kind: KindField, Text: name, Pos: Position{start + 1, j}}, nil
	}

	if c == '-' || (c >= '0' && c <= '9') {
		if tok, ok := l.lexNumber(); ok {
			return tok, nil
		}
	}

	if c == '@' && l.pos+1 < len(l.src) && isIdentCont(l.src[l.pos+1]) {
		j := l.pos + 1
		for j < len(l.src) && isIdentCont(l.src[j]) {
			j++
		}
		name := l.src[l.pos+1 : j]
		l.pos = j
		return Token{Kind: KindFormat, Text: name, Pos: Position{start, j}}, nil
	}

	if c == '"' {
		return l.lexString()
	}

	if lexeme, ok := l.matchLexeme(); ok {
		l.pos += len(lexeme)
		return Token{Kind: KindToken, Text: lexeme, Pos: Position{start, l.pos}}, nil
	}

	if isIdentStart(c) {
		return l.lexIdent(), nil
	}

	return Token{}, &LexError{Pos: Position{start, start + 1}, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
}

// lexNumber prefers an integer match over a float match (§4.1): it tries
// the integer regex `-?[0-9]+` first and only falls back to the float
// grammar when a fractional part or exponent is present.
func (l *lexer) lexNumber() (Token, bool) {
	start := l.pos
	j := l.pos
	if l.src[j] == '-' {
		j++
	}
	digitsStart := j
	for j < len(l.src) && l.src[j] >= '0' && l.src[j] <= '9' {
		j++
	}
	if j == digitsStart {
		return Token{}, false
	}
	intEnd := j
	isFloat := false
	if j < len(l.src) && l.src[j] == '.' && j+1 < len(l.src) && l.src[j+1] >= '0' && l.src[j+1] <= '9' {
		isFloat = true
		j++
		for j < len(l.src) && l.src[j] >= '0' && l.src[j] <= '9' {
			j++
		}
	}
	if j < len(l.src) && (l.src[j] == 'e' || l.src[j] == 'E') {
		k := j + 1
		if k < len(l.src) && (l.src[k] == '+' || l.src[k] == '-') {
			k++
		}
		if k < len(l.src) && l.src[k] >= '0' && l.src[k] <= '9' {
			isFloat = true
			j = k
			for j < len(l.src) && l.src[j] >= '0' && l.src[j] <= '9' {
				j++
			}
		}
	}
	if !isFloat {
		l.pos = intEnd
		n, _ := strconv.ParseInt(l.src[start:intEnd], 10, 64)
		return Token{Kind: KindInt, Text: l.src[start:intEnd], IntVal: n, Pos: Position{start, intEnd}}, true
	}
	l.pos = j
	f, _ := strconv.ParseFloat(l.src[start:j], 64)
	return Token{Kind: KindFloat, Text: l.src[start:j], FloatVal: f, Pos: Position{start, j}}, true
}

// lexString lexes a standard JSON double-quoted literal, or — only when
// the scan runs off the end before a closing quote — a PartialString that
// decodes as if the closing quote had been appended (completion mode,
// §4.1/§6).
func (l *lexer) lexString() (Token, error) {
	start := l.pos
	j := l.pos + 1
	for j < len(l.src) {
		c := l.src[j]
		if c == '"' {
			body := l.src[start : j+1]
			decoded, err := decodeJSONString(body)
			if err != nil {
				return Token{}, &LexError{Pos: Position{start, j + 1}, Msg: err.Error()}
			}
			l.pos = j + 1
			return Token{Kind: KindString, Text: decoded, Pos: Position{start, l.pos}}, nil
		}
		if c == '\\' {
			j += 2
			continue
		}
		j++
	}
	// Unterminated: only tolerated in completion mode (mid-edit), where it
	// decodes as if the closing quote were present (§4.1).
	if !l.hasCursor {
		return Token{}, &LexError{Pos: Position{start, len(l.src)}, Msg: "unterminated string literal"}
	}
	decoded, err := decodeJSONString(l.src[start:] + `"`)
	if err != nil {
		return Token{}, &LexError{Pos: Position{start, len(l.src)}, Msg: err.Error()}
	}
	l.pos = len(l.src)
	return Token{Kind: KindPartialString, Text: decoded, Pos: Position{start, l.pos}}, nil
}

func decodeJSONString(quoted string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(quoted), &s); err != nil {
		return "", err
	}
	return s, nil
}

func (l *lexer) matchLexeme() (string, bool) {
	rest := l.src[l.pos:]
	for _, lex := range tokenLexemes {
		if !strings.HasPrefix(rest, lex) {
			continue
		}
		if isKeywordLexeme(lex) {
			end := l.pos + len(lex)
			if end < len(l.src) && isIdentCont(l.src[end]) {
				continue // keyword must not be a prefix of a longer identifier
			}
		}
		return lex, true
	}
	return "", false
}

func (l *lexer) lexIdent() Token {
	start := l.pos
	j := l.pos
	for {
		for j < len(l.src) && isIdentCont(l.src[j]) {
			j++
		}
		if j+1 < len(l.src) && l.src[j] == ':' && l.src[j+1] == ':' && j+2 < len(l.src) && isIdentStart(l.src[j+2]) {
			j += 2
			continue
		}
		break
	}
	l.pos = j
	return Token{Kind: KindIdentifier, Text: l.src[start:j], Pos: Position{start, j}}
}
