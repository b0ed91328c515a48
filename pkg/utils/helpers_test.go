package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want interface{}
	}{
		{"42", 42},
		{" 7 ", 7},
		{"3.5", 3.5},
		{"Fiber 1G", "Fiber 1G"},
		{"", nil},
		{"   ", nil},
		{"NaN", nil},
		{"nan", nil},
		{"Inf", nil},
		{"-inf", nil},
		{"infinity", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseValue(tc.in), "input %q", tc.in)
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(10)
	assert.True(t, ok)
	assert.Equal(t, 10.0, f)

	f, ok = ToFloat("1,250.50")
	assert.True(t, ok)
	assert.Equal(t, 1250.5, f)

	_, ok = ToFloat("n/a")
	assert.False(t, ok)

	_, ok = ToFloat(nil)
	assert.False(t, ok)

	for _, v := range []interface{}{"NaN", "+Inf", math.NaN(), math.Inf(-1), float32(math.Inf(1))} {
		_, ok = ToFloat(v)
		assert.False(t, ok, "value %v", v)
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	for _, raw := range []string{"100", "12.75", "Internet", "0.5"} {
		assert.Equal(t, raw, FormatValue(ParseValue(raw)))
	}
	assert.Equal(t, "", FormatValue(nil))
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("DASH_TEST_STR", "")
	assert.Equal(t, "def", Env("DASH_TEST_STR", "def"))

	t.Setenv("DASH_TEST_INT", "-3")
	assert.Equal(t, 9, EnvInt("DASH_TEST_INT", 9))

	t.Setenv("DASH_TEST_BOOL", "true")
	assert.True(t, EnvBool("DASH_TEST_BOOL", false))
}
