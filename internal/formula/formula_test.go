package formula

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		src       string
		canonical string
		variables []string
	}{
		{"1", "1", []string{}},
		{"x", "x", []string{"x"}},
		{"(5*2)+8", "(5*2)+8", []string{}},
		{" x * y - 2 + 35 / 9 ", "x*y-2+35/9", []string{"x", "y"}},
		{"((a1))", "((a1))", []string{"a1"}},
		{"2.50 + .5 + 3.", "2.5+0.5+3", []string{}},
		{"1e3 + 2E-2 + 4e+1", "1000+0.02+40", []string{}},
		{"b + a + b * A", "b+a+b*A", []string{"b", "a", "A"}},
		{"x7\t/\n(y - 1)", "x7/(y-1)", []string{"x7", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := New(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, f.String())
			assert.Equal(t, tt.variables, f.Variables())
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"consecutive operands", "2 5 + 3"},
		{"variable after number", "5x"},
		{"leading unary minus", "-5.3"},
		{"leading unary plus", "+5"},
		{"unary after operator", "2 * -3"},
		{"consecutive operators", "2 + * 3"},
		{"trailing operator", "2 +"},
		{"empty parens", "()"},
		{"operator before close", "(2 +)"},
		{"unclosed paren", "(2 + 3"},
		{"extra close paren", "2 + 3)"},
		{"close before open", ")2("},
		{"implicit multiplication", "2(3)"},
		{"paren after paren", "(2)(3)"},
		{"invalid character", "2 $ 3"},
		{"underscore variable", "_x + 1"},
		{"lone dot", "."},
		{"dangling exponent", "2e"},
		{"number out of range", "1e999"},
		{"power operator", "2 ^ 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.src)
			assert.Nil(t, f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)

			var formatErr *FormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestFormatError_Location(t *testing.T) {
	_, err := New("1 + 2 $")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "$", formatErr.Token)
	assert.Equal(t, 6, formatErr.Offset)
	assert.Contains(t, err.Error(), "offset 6")
}

func TestNew_NumberRange(t *testing.T) {
	f, err := New("1e-400 + x")
	require.NoError(t, err)
	assert.Equal(t, "0+x", f.String())

	_, err = New("x * 1e400")
	require.Error(t, err)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "1e400", formatErr.Token)
	assert.Equal(t, 4, formatErr.Offset)
}

func TestIsNumberLiteral(t *testing.T) {
	for _, s := range []string{"7", "2.5", ".5", "5.", "1e3", "1E-3"} {
		assert.True(t, IsNumberLiteral(s), s)
	}
	for _, s := range []string{"", ".", "-1", "0x1p4", "1_000", "1e", "Inf", "2 "} {
		assert.False(t, IsNumberLiteral(s), s)
	}
}

func TestNew_Normalizer(t *testing.T) {
	f, err := New("a1 + b2 * A1", WithNormalizer(strings.ToUpper))
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "B2"}, f.Variables())
	assert.Equal(t, "A1+B2*A1", f.String())
}

func TestNew_NormalizerMustProduceVariable(t *testing.T) {
	_, err := New("a + b", WithNormalizer(func(s string) string { return "_" + s }))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestNew_Validator(t *testing.T) {
	onlyA := func(s string) bool { return strings.HasPrefix(s, "A") }

	_, err := New("a1 + 2", WithNormalizer(strings.ToUpper), WithValidator(onlyA))
	assert.NoError(t, err)

	_, err = New("a1 + b1", WithNormalizer(strings.ToUpper), WithValidator(onlyA))
	require.Error(t, err)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "B1", formatErr.Token)
}

func TestFormula_VariablesIsCopy(t *testing.T) {
	f, err := New("x + y")
	require.NoError(t, err)

	vars := f.Variables()
	vars[0] = "z"
	assert.Equal(t, []string{"x", "y"}, f.Variables())
}

func TestFormula_Equal(t *testing.T) {
	a, err := New("x+2.0")
	require.NoError(t, err)
	b, err := New(" x + 2 ")
	require.NoError(t, err)
	c, err := New("X+2", WithNormalizer(strings.ToLower))
	require.NoError(t, err)
	d, err := New("x+3")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}

func TestFormula_StringRoundTrip(t *testing.T) {
	for _, src := range []string{"(5*2)+8", "x*y-2+35/9", "1e21/3", "0.000001*q"} {
		f, err := New(src)
		require.NoError(t, err)

		again, err := New(f.String())
		require.NoError(t, err, src)
		assert.True(t, f.Equal(again), src)
	}
}
