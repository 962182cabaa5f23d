package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayMatchCoercesNullToEmpty(t *testing.T) {
	pat := ArrayMatch{Targets: []Pattern{ValueMatch{Name: "a"}, ValueMatch{Name: "b"}}}
	binds, err := pat.Bindings(nil, Null)
	require.NoError(t, err)
	require.Len(t, binds, 1)
	assert.Equal(t, Null, binds[0]["$a"])
	assert.Equal(t, Null, binds[0]["$b"])
}

func TestArrayMatchErrorsOnNonArray(t *testing.T) {
	pat := ArrayMatch{Targets: []Pattern{ValueMatch{Name: "a"}}}
	_, err := pat.Bindings(nil, String("nope"))
	require.Error(t, err)
	var patErr *PatternError
	assert.ErrorAs(t, err, &patErr)
}

func TestKeyMatchMissingKeyBindsNull(t *testing.T) {
	pat := KeyMatch{Key: "missing", Matcher: ValueMatch{Name: "x"}}
	binds, err := pat.Bindings(nil, objOf("present", Int(1)))
	require.NoError(t, err)
	require.Len(t, binds, 1)
	assert.Equal(t, Null, binds[0]["$x"])
}

func TestObjectMatchCrossCombinesSubpatterns(t *testing.T) {
	pat := ObjectMatch{Targets: []Pattern{
		KeyMatch{Key: "a", Matcher: ValueMatch{Name: "a"}},
		KeyMatch{Key: "b", Matcher: ValueMatch{Name: "b"}},
	}}
	binds, err := pat.Bindings(nil, objOf("a", Int(1), "b", Int(2)))
	require.NoError(t, err)
	require.Len(t, binds, 1)
	assert.Equal(t, map[string]Value{"$a": Int(1), "$b": Int(2)}, binds[0])
}

func TestExpMatchConcatenatesAcrossKeysWithoutCrossCombining(t *testing.T) {
	exp := Literal(Array{String("a"), String("b")})
	var keysAsStream Evaluator = func(s Stream) (Stream, error) {
		// mimics "a","b" as a comma-producing key expression
		return Stream{{s[0].Env, String("a")}, {s[0].Env, String("b")}}, nil
	}
	_ = exp
	pat := ExpMatch{Exp: keysAsStream, Matcher: ValueMatch{Name: "v"}}
	item := objOf("a", Int(1), "b", Int(2))
	binds, err := pat.Bindings(Stream{{nil, item}}, item)
	require.NoError(t, err)
	require.Len(t, binds, 2)
	assert.Equal(t, Int(1), binds[0]["$v"])
	assert.Equal(t, Int(2), binds[1]["$v"])
}

func TestCrossCombineEmptyListYieldsSingleEmptyMap(t *testing.T) {
	result := crossCombine(nil)
	require.Len(t, result, 1)
	assert.Empty(t, result[0])
}
