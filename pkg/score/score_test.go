package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Score
	}{
		{"100", 100},
		{"-50", -50},
		{"INFINITY", Infinity},
		{"+infinity", Infinity},
		{"-Infinity", -Infinity},
		{"5000000", Infinity}, // saturates
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "Parse(%q)", c.in)
	}

	_, err := Parse("not-a-number")
	assert.Error(t, err)
}

func TestAddSaturation(t *testing.T) {
	assert.Equal(t, Score(Infinity), Add(Infinity, 50))
	assert.Equal(t, Score(Infinity), Add(Infinity, Infinity))
	assert.Equal(t, Score(-Infinity), Add(-Infinity, -Infinity))
	// opposite-sign infinities: negative dominates
	assert.Equal(t, Score(-Infinity), Add(Infinity, -Infinity))
	assert.Equal(t, Score(-Infinity), Add(-Infinity, Infinity))
	assert.Equal(t, Score(300), Add(100, 200))
	assert.Equal(t, Score(Infinity), Add(Infinity-1, 10))
}

func TestAddInvariant(t *testing.T) {
	samples := []Score{-Infinity, -1000, -1, 0, 1, 1000, Infinity}
	for _, a := range samples {
		for _, b := range samples {
			sum := Add(a, b)
			assert.GreaterOrEqual(t, int(sum), -Infinity)
			assert.LessOrEqual(t, int(sum), Infinity)
		}
	}
}

func TestMultiplyNeverCollapsesToZero(t *testing.T) {
	got := Multiply(3, 0.1)
	assert.NotZero(t, got)
	assert.Equal(t, Score(1), got)

	got = Multiply(-3, 0.1)
	assert.Equal(t, Score(-1), got)
}

func TestMultiplyRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, Score(3), Multiply(5, 0.5))
	assert.Equal(t, Score(-3), Multiply(-5, 0.5))
}

func TestMultiplyZero(t *testing.T) {
	assert.Equal(t, Score(0), Multiply(0, 0.5))
	assert.Equal(t, Score(0), Multiply(100, 0))
}

func TestMultiplyInfinity(t *testing.T) {
	assert.Equal(t, Score(Infinity), Multiply(Infinity, 0.5))
	assert.Equal(t, Score(-Infinity), Multiply(Infinity, -0.5))
}

func TestIsMandatory(t *testing.T) {
	assert.True(t, IsMandatory(Infinity))
	assert.True(t, IsMandatory(-Infinity))
	assert.False(t, IsMandatory(999999))
}

func TestString(t *testing.T) {
	assert.Equal(t, "INFINITY", Score(Infinity).String())
	assert.Equal(t, "-INFINITY", Score(-Infinity).String())
	assert.Equal(t, "42", Score(42).String())
}
