package formula

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoSuchVariable = errors.New("no such variable")

func vars(m map[string]float64) Lookup {
	return func(name string) (float64, error) {
		if v, ok := m[name]; ok {
			return v, nil
		}
		return 0, errNoSuchVariable
	}
}

func evaluate(t *testing.T, src string, lookup Lookup) float64 {
	t.Helper()
	f, err := New(src)
	require.NoError(t, err)
	v, err := f.Evaluate(lookup)
	require.NoError(t, err)
	return v
}

func TestEvaluate(t *testing.T) {
	env := vars(map[string]float64{"x": 2, "y": 3, "z": 0.5})

	tests := []struct {
		src  string
		want float64
	}{
		{"5", 5},
		{"x", 2},
		{"(5*2)+8", 18},
		{"5*2+8", 18},
		{"8+5*2", 18},
		{"x*y-2+35/9", 2*3 - 2 + 35.0/9},
		{"2-3-4", -5},
		{"2-3+4", 3},
		{"100/10/5", 2},
		{"2*3/4*5", 7.5},
		{"2*(3+4)", 14},
		{"(3+4)*2", 14},
		{"(2+3)*(4-1)", 15},
		{"2-(3-4)", 3},
		{"((((x))))", 2},
		{"1-2*3+4", -1},
		{"12/(2*(1+2))", 2},
		{"x/z", 4},
		{"1e2 / .5", 200},
		{"(1+2)/(3-1)-x*(y+1)/(z*4)", 1.5 - 4},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.InDelta(t, tt.want, evaluate(t, tt.src, env), 1e-12)
		})
	}
}

func TestEvaluate_IgnoresLookupWithoutVariables(t *testing.T) {
	assert.Equal(t, 18.0, evaluate(t, "(5*2)+8", nil))
	assert.Equal(t, 18.0, evaluate(t, "(5*2)+8", func(string) (float64, error) {
		return 0, errNoSuchVariable
	}))
}

func TestEvaluate_UndefinedVariable(t *testing.T) {
	f, err := New("x + missing * 2")
	require.NoError(t, err)

	_, err = f.Evaluate(vars(map[string]float64{"x": 1}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedVariable)
	assert.ErrorIs(t, err, errNoSuchVariable)

	var evalErr *EvalError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "missing", evalErr.Variable)
	assert.Contains(t, err.Error(), "missing")

	_, err = f.Evaluate(nil)
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	env := vars(map[string]float64{"zero": 0, "one": 1})

	for _, src := range []string{"5/0", "5/zero", "5/(one-1)", "1+2/0.0*3", "0/0"} {
		t.Run(src, func(t *testing.T) {
			f, err := New(src)
			require.NoError(t, err)

			_, err = f.Evaluate(env)
			assert.ErrorIs(t, err, ErrDivisionByZero)
			assert.NotErrorIs(t, err, ErrUndefinedVariable)
		})
	}
}

func TestEvaluate_DoesNotMutate(t *testing.T) {
	f, err := New("a/b + c")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		v, err := f.Evaluate(vars(map[string]float64{"a": float64(i), "b": 1, "c": 1}))
		require.NoError(t, err)
		assert.Equal(t, float64(i)+1, v)
	}
	assert.Equal(t, "a/b+c", f.String())
	assert.Equal(t, []string{"a", "b", "c"}, f.Variables())
}

func TestEvaluate_LookupOrder(t *testing.T) {
	f, err := New("b * (a + c) - b")
	require.NoError(t, err)

	var asked []string
	_, err = f.Evaluate(func(name string) (float64, error) {
		asked = append(asked, name)
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "b"}, asked)
}

func ExampleFormula_Evaluate() {
	f, _ := New("x*y-2+35/7")
	v, _ := f.Evaluate(func(name string) (float64, error) {
		switch name {
		case "x":
			return 2, nil
		case "y":
			return 3, nil
		}
		return 0, errNoSuchVariable
	})
	fmt.Println(v)
	// Output: 9
}
