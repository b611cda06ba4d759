package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{1, 80},
		{42, 1},
		{1000, 12},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		assert.Equal(t, c.line, gotLine)
		assert.Equal(t, c.col, gotCol)
		assert.False(t, p.Unknown())
	}
}

func TestPosUnknown(t *testing.T) {
	var zero Pos
	assert.True(t, zero.Unknown())
	assert.True(t, MakePos(0, 5).Unknown())
	assert.True(t, MakePos(5, 0).Unknown())
}
