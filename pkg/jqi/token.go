package jqi

import "fmt"

// Position is a (start, end) byte-offset span into the source string, used
// by every token and propagated through to completion results (§3).
type Position struct {
	Start int
	End   int
}

// Kind identifies which of the token variants listed in §3/§4.1 a Token is.
type Kind int

const (
	KindIdentifier Kind = iota
	KindField
	KindFormat
	KindToken
	KindString
	KindPartialString
	KindInt
	KindFloat
	KindCursor
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindField:
		return "field"
	case KindFormat:
		return "format"
	case KindToken:
		return "token"
	case KindString:
		return "string"
	case KindPartialString:
		return "partial-string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Token is a position-tagged lexeme. For KindString/KindPartialString, Text
// is the decoded string value. For KindInt/KindFloat, IntVal/FloatVal hold
// the decoded number and Text holds the source digits. For everything else
// Text is the raw lexeme (the Field kind's Text excludes the leading dot,
// and the Format kind's Text excludes the leading "@").
type Token struct {
	Kind     Kind
	Pos      Position
	Text     string
	IntVal   int64
	FloatVal float64
}

// Is reports whether t is a KindToken/keyword with the given lexeme, the
// comparison the parser uses to match punctuation and keywords.
func (t Token) Is(lexeme string) bool {
	return t.Kind == KindToken && t.Text == lexeme
}

// Eq is jq-style token equality: same kind and content, position ignored —
// mirrors original_source/jqi/lexer.py's Str.__eq__.
func (t Token) Eq(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInt:
		return t.IntVal == other.IntVal
	case KindFloat:
		return t.FloatVal == other.FloatVal
	default:
		return t.Text == other.Text
	}
}

func (t Token) String() string {
	switch t.Kind {
	case KindInt:
		return fmt.Sprintf("Int(%d)", t.IntVal)
	case KindFloat:
		return fmt.Sprintf("Float(%g)", t.FloatVal)
	case KindField:
		return fmt.Sprintf("Field(%s)", t.Text)
	case KindCursor:
		return "Cursor"
	default:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
}

// fieldNameToken proposes either a bare Field token or a JSON-quoted String
// token as a completion candidate for key k, matching
// original_source/jqi/completer.py's field_name heuristic (§4.7).
func fieldNameToken(k string) Token {
	if isAlnum(k) {
		return Token{Kind: KindField, Text: k}
	}
	return Token{Kind: KindString, Text: k}
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}
