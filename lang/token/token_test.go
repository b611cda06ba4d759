package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupWord(t *testing.T) {
	cases := []struct {
		word string
		want Kind
	}{
		{"fn", FN},
		{"return", RETURN},
		{"int", TYPE},
		{"uint", TYPE},
		{"void", TYPE},
		{"true", TRUE},
		{"nan", NAN},
		{"unsigned", UNSIGNED},
		{"factorial", IDENT},
		{"x", IDENT},
	}
	for _, c := range cases {
		t.Run(c.word, func(t *testing.T) {
			assert.Equal(t, c.want, LookupWord(c.word))
		})
	}
}

func TestCompoundAssignRoundTrip(t *testing.T) {
	cases := []struct {
		compound, underlying Kind
	}{
		{ADD_ASSIGN, ADD},
		{SHL_ASSIGN, SHL},
		{XOR_ASSIGN, CARAT},
	}
	for _, c := range cases {
		assert.True(t, c.compound.IsCompoundAssign())
		assert.Equal(t, c.underlying, c.compound.UnderlyingOp())
	}
	assert.False(t, ADD.IsCompoundAssign())
}

func TestGoStringQuotesPunctuation(t *testing.T) {
	assert.Equal(t, "'+'", ADD.GoString())
	assert.Equal(t, "fn", FN.GoString())
}
