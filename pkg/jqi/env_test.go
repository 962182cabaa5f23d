package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVarShadowing(t *testing.T) {
	root := NewRootEnv()
	outer := root.Child(map[string]Value{"$x": Int(1)})
	inner := outer.Child(map[string]Value{"$x": Int(2)})

	v, ok := inner.Var("$x")
	require.True(t, ok)
	assert.Equal(t, Int(2), v)

	v, ok = outer.Var("$x")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	_, ok = root.Var("$undefined")
	assert.False(t, ok)
}

func TestEnvGetPathResetsAtLiteral(t *testing.T) {
	root := NewRootEnv()
	e := root.RecordField("a").RecordField("b")
	assert.Equal(t, []Value{String("."), String("a"), String("b")}, e.GetPath())

	reset := e.ResetPath().RecordField("c")
	assert.Equal(t, []Value{String("."), String("c")}, reset.GetPath())
}

func TestEnvLookupFindsBuiltins(t *testing.T) {
	root := NewRootEnv()
	_, ok := root.Lookup("select/1")
	assert.True(t, ok)
	_, ok = root.Lookup("select/2")
	assert.False(t, ok)
}

func TestEnvWithFuncShadowsParent(t *testing.T) {
	root := NewRootEnv()
	shadowed := root.WithFunc("select/1", func(env *Env, item Value, args ...Evaluator) (Stream, error) {
		return Stream{{env, Bool(true)}}, nil
	})
	fn, ok := shadowed.Lookup("select/1")
	require.True(t, ok)
	out, err := fn(shadowed, Null)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), out[0].Value)
}
