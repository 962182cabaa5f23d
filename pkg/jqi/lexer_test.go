package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexBasic(t *testing.T) {
	toks, err := Lex(`.foo.bar | select(.x == 1) as $y`)
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, KindField)
	assert.Contains(t, kinds, KindToken)
	assert.Contains(t, kinds, KindIdentifier)
	assert.Contains(t, kinds, KindInt)
}

func TestLexLongestMatch(t *testing.T) {
	toks, err := Lex(`a <= b`)
	require.NoError(t, err)
	var lexeme string
	for _, tok := range toks {
		if tok.Kind == KindToken && tok.Text == "<=" {
			lexeme = tok.Text
		}
	}
	assert.Equal(t, "<=", lexeme, "must not split <= into < and =")
}

func TestLexKeywordNotPrefixOfIdentifier(t *testing.T) {
	toks, err := Lex(`orange`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, KindIdentifier, toks[0].Kind)
	assert.Equal(t, "orange", toks[0].Text)
}

func TestLexNumbers(t *testing.T) {
	toks, err := Lex(`1 2.5 -3 1e10 -1.5e-2`)
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, KindInt, toks[0].Kind)
	assert.EqualValues(t, 1, toks[0].IntVal)
	assert.Equal(t, KindFloat, toks[1].Kind)
	assert.Equal(t, KindInt, toks[2].Kind)
	assert.EqualValues(t, -3, toks[2].IntVal)
	assert.Equal(t, KindFloat, toks[3].Kind)
	assert.Equal(t, KindFloat, toks[4].Kind)
}

func TestLexString(t *testing.T) {
	toks, err := Lex(`"hello\nworld"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, KindString, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Text)
}

func TestLexUnterminatedStringIsHardErrorWithoutCursor(t *testing.T) {
	_, err := Lex(`"unterminated`)
	require.Error(t, err)
	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexCursorInsidePartialString(t *testing.T) {
	toks, err := LexCursor(`.foo."ba`, 8)
	require.NoError(t, err)
	var sawPartial, sawCursor bool
	for _, tok := range toks {
		if tok.Kind == KindPartialString {
			sawPartial = true
			assert.Equal(t, "ba", tok.Text)
		}
		if tok.Kind == KindCursor {
			sawCursor = true
		}
	}
	assert.True(t, sawPartial)
	assert.True(t, sawCursor)
}

func TestLexCursorAfterDot(t *testing.T) {
	toks, err := LexCursor(`.`, 1)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, KindToken, toks[0].Kind)
	assert.Equal(t, ".", toks[0].Text)
	assert.Equal(t, KindCursor, toks[1].Kind)
}

func TestLexUnclosedBracketToleratedWithCursor(t *testing.T) {
	toks, err := LexCursor(`[.a, .b`, 7)
	require.NoError(t, err)
	assert.Equal(t, "[", toks[0].Text)
	var sawCloseBracket bool
	for _, tok := range toks {
		if tok.Kind == KindToken && tok.Text == "]" {
			sawCloseBracket = true
		}
	}
	assert.False(t, sawCloseBracket, "unterminated bracket at EOF yields no synthetic close")
}
