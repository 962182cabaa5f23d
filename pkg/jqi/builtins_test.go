package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinConstants(t *testing.T) {
	assert.Equal(t, Bool(true), runJSON(t, `true`, `null`)[0])
	assert.Equal(t, Bool(false), runJSON(t, `false`, `null`)[0])
	assert.Equal(t, Null, runJSON(t, `null`, `1`)[0])
}

func TestBuiltinNot(t *testing.T) {
	assert.Equal(t, Bool(false), runJSON(t, `not`, `1`)[0])
	assert.Equal(t, Bool(true), runJSON(t, `not`, `null`)[0])
}

func TestBuiltinEmptyProducesNoOutput(t *testing.T) {
	out := runJSON(t, `empty`, `1`)
	assert.Empty(t, out)
}

func TestBuiltinSelectFiltersPerElement(t *testing.T) {
	out := runJSON(t, `.[] | select(. > 1)`, `[1,2,3]`)
	require.Len(t, out, 2)
	assert.Equal(t, []Value{Int(2), Int(3)}, out)
}

func TestBuiltinUnknownArityIsEvalError(t *testing.T) {
	// select/1 exists but select/2 does not; the registry is keyed by
	// "name/arity" so passing two arguments must miss the lookup.
	_, err := Run(`select(1;2)`, Null)
	require.Error(t, err)
	var evalErr *EvalError
	assert.ErrorAs(t, err, &evalErr)
}
