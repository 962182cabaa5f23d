package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleObjectsUnionsKeysAndSorts(t *testing.T) {
	s := Stream{
		{nil, objOf("b", Int(1), "a", Int(2))},
		{nil, objOf("c", Int(3))},
		{nil, Int(5)}, // non-object contributes nothing
	}
	assert.Equal(t, []string{"a", "b", "c"}, sampleObjects(s))
}

func TestSampleValuesDedupesAndSortsByTotalOrder(t *testing.T) {
	s := Stream{
		{nil, Int(2)},
		{nil, String("x")},
		{nil, Int(2)},
		{nil, Bool(true)},
		{nil, objOf("a", Int(1))}, // non-scalar excluded
	}
	vs := sampleValues(s)
	require.Len(t, vs, 3)
	assert.Equal(t, Bool(true), vs[0])
	assert.Equal(t, Int(2), vs[1])
	assert.Equal(t, String("x"), vs[2])
}

func TestCompleteFieldFiltersByPrefix(t *testing.T) {
	eval := completeField(Dot, "a", Position{0, 1})
	s := Splice(nil, []Value{objOf("aa", Int(1), "ab", Int(2), "b", Int(3))})
	_, err := eval(s)
	c, ok := AsCompletion(err)
	require.True(t, ok)
	require.Len(t, c.Candidates, 2)
	assert.Equal(t, Token{Kind: KindField, Text: "aa"}, c.Candidates[0])
	assert.Equal(t, Token{Kind: KindField, Text: "ab"}, c.Candidates[1])
}

func TestCompleteAfterBareDotIncludesKeepDotCandidate(t *testing.T) {
	eval := completeAfterBareDot(Dot, Position{1, 1})
	s := Splice(nil, []Value{objOf("x", Int(1))})
	_, err := eval(s)
	c, ok := AsCompletion(err)
	require.True(t, ok)
	require.Len(t, c.Candidates, 2)
	assert.Equal(t, Token{Kind: KindToken, Text: ""}, c.Candidates[0])
	assert.Equal(t, Token{Kind: KindField, Text: "x"}, c.Candidates[1])
}

func TestCompleteAfterChainDotOmitsKeepDotCandidate(t *testing.T) {
	// Unlike the bare-dot case, a chain dot (e.g. ".bb.") already has a
	// preceding expression to chain from, so there is no bare "." to
	// propose keeping — only the sampled field keys (spec.md:206).
	eval := completeAfterChainDot(Dot, Position{1, 1})
	s := Splice(nil, []Value{objOf("x", Int(1))})
	_, err := eval(s)
	c, ok := AsCompletion(err)
	require.True(t, ok)
	require.Len(t, c.Candidates, 1)
	assert.Equal(t, Token{Kind: KindField, Text: "x"}, c.Candidates[0])
}

func TestCompleteComparisonValuePositionIsCursorNotOperator(t *testing.T) {
	// "1 ==" with the cursor immediately after the operator: the
	// completion span must be the cursor's own zero-width position, not
	// the "==" operator token's own two-character span.
	complete, err := Completer(`1 ==`, 4)
	require.NoError(t, err)
	cands, pos := complete([]Value{Int(1), String("x")}, nil)
	require.NotEmpty(t, cands)
	assert.Equal(t, Position{4, 4}, pos)
}

func TestCompleterNoCandidatesWhenEvaluationNeverRaisesCompletion(t *testing.T) {
	// The cursor sits after a fully-reduced literal, a position no
	// production in the grammar treats specially, so it is silently
	// consumed as trailing input and evaluation never raises a Completion.
	complete, err := Completer(`1`, 1)
	require.NoError(t, err)
	cands, pos := complete([]Value{Null}, nil)
	assert.Nil(t, cands)
	assert.Equal(t, Position{1, 1}, pos)
}
