package jqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldNameToken(t *testing.T) {
	tests := []struct {
		key      string
		wantKind Kind
	}{
		{"foo", KindField},
		{"foo_bar", KindField},
		{"foo-bar", KindString},
		{"foo bar", KindString},
		{"2foo", KindField},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			tok := fieldNameToken(tt.key)
			assert.Equal(t, tt.wantKind, tok.Kind)
			assert.Equal(t, tt.key, tok.Text)
		})
	}
}

func TestTokenEq(t *testing.T) {
	a := Token{Kind: KindInt, IntVal: 3, Text: "3", Pos: Position{0, 1}}
	b := Token{Kind: KindInt, IntVal: 3, Text: "3", Pos: Position{5, 6}}
	assert.True(t, a.Eq(b), "position must not affect Eq")

	c := Token{Kind: KindInt, IntVal: 4}
	assert.False(t, a.Eq(c))
}
