package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDictShorthandAndExplicitKeys(t *testing.T) {
	out := runJSON(t, `{a: .x, b}`, `{"x":1,"b":2}`)
	require.Len(t, out, 1)
	want, _ := ParseJSON([]byte(`{"a":1,"b":2}`))
	assert.True(t, Equal(want, out[0]))
}

func TestParseDictVariableShorthand(t *testing.T) {
	toks, err := Lex(`{$e}`)
	require.NoError(t, err)
	eval, err := Parse(toks)
	require.NoError(t, err)
	env := MakeEnv().Child(map[string]Value{"$e": Int(42)})
	out, err := eval(Splice(env, []Value{Null}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	want, _ := ParseJSON([]byte(`{"e":42}`))
	assert.True(t, Equal(want, out[0]))
}

func TestParseCallWithArgs(t *testing.T) {
	out := runJSON(t, `select(. > 1)`, `2`)
	require.Len(t, out, 1)
	assert.Equal(t, Int(2), out[0])
}

func TestParseIterateAndCollect(t *testing.T) {
	out := runJSON(t, `[.[] + 1]`, `[1,2,3]`)
	require.Len(t, out, 1)
	want, _ := ParseJSON([]byte(`[2,3,4]`))
	assert.True(t, Equal(want, out[0]))
}

func TestParseUnaryMinusBindsTighterThanMul(t *testing.T) {
	out := runJSON(t, `-2 * 3`, `null`)
	require.Len(t, out, 1)
	assert.Equal(t, Int(-6), out[0])
}

func TestParseParenthesizedExpression(t *testing.T) {
	out := runJSON(t, `(1 + 2) * 3`, `null`)
	require.Len(t, out, 1)
	assert.Equal(t, Int(9), out[0])
}

func TestParseEmptyArrayAndObjectLiterals(t *testing.T) {
	out := runJSON(t, `[]`, `null`)
	require.Len(t, out, 1)
	assert.Equal(t, Array{}, out[0])

	out = runJSON(t, `{}`, `null`)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].(*Object).Len())
}

func TestParseCommaBindsTighterThanPipe(t *testing.T) {
	// "1,2 | .+10" pipes the whole comma stream through as one batch, and
	// arithmetic cross-multiplies across the whole incoming stream rather
	// than pairing element-by-element, so both 1 and 2 combine with both
	// copies of 10 produced for the two-element stream.
	out := runJSON(t, `1,2 | .+10`, `null`)
	require.Len(t, out, 4)
	assert.Equal(t, []Value{Int(11), Int(12), Int(11), Int(12)}, out)
}

func TestParseAsBindingWithArrayPattern(t *testing.T) {
	out := runJSON(t, `. as [$x, $y] | $x + $y`, `[1,2]`)
	require.Len(t, out, 1)
	assert.Equal(t, Int(3), out[0])
}

func TestParseTrailingTokensIsError(t *testing.T) {
	_, err := ParseSource(`1 2`)
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseWhitespaceInsensitiveFieldChaining(t *testing.T) {
	// The lexer discards whitespace, so ".a .b" and ".a.b" are the same
	// token stream and both chain as pipe(field(a), field(b)).
	out := runJSON(t, `.a .b`, `{"a":{"b":1}}`)
	require.Len(t, out, 1)
	assert.Equal(t, Int(1), out[0])
}

func TestParseUnknownFunctionIsEvalError(t *testing.T) {
	_, err := Run(`nope`, Null)
	require.Error(t, err)
	var evalErr *EvalError
	assert.ErrorAs(t, err, &evalErr)
}

func TestParseIterateOverScalarIsHardError(t *testing.T) {
	_, err := Run(`.[]`, Int(1))
	require.Error(t, err)
}

func TestParseFieldAccessOnScalarIsSoftError(t *testing.T) {
	out := runJSON(t, `.a`, `1`)
	require.Len(t, out, 1)
	_, ok := out[0].(ErrorValue)
	assert.True(t, ok, "field access on a number embeds a soft Error value")
}
