package numlit

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	cases := []struct {
		lit  string
		want uint64
	}{
		{"0", 0},
		{"42", 42},
		{"18446744073709551615", 18446744073709551615}, // max u64
		{"0x2A", 42},
		{"0o52", 42},
		{"0b101010", 42},
	}
	for _, c := range cases {
		t.Run(c.lit, func(t *testing.T) {
			r, err := Parse(c.lit)
			require.NoError(t, err)
			assert.False(t, r.IsFloat)
			assert.Equal(t, c.want, r.Int)
		})
	}
}

func TestParseFloat(t *testing.T) {
	r, err := Parse("1.25")
	require.NoError(t, err)
	assert.True(t, r.IsFloat)
	assert.Equal(t, 1.25, r.Float)
}

func TestParseIntOverflow(t *testing.T) {
	// 2^64, one past the max u64 value.
	_, err := Parse("18446744073709551616")
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestParseFloatOverflow(t *testing.T) {
	_, err := Parse("1" + strings.Repeat("0", 400) + ".0")
	assert.True(t, errors.Is(err, ErrOverflow))
}
