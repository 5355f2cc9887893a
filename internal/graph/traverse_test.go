package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertTopological checks that every cell in order comes after each cell
// of order it depends on.
func assertTopological(t *testing.T, g *DependencyGraph, order []string) {
	t.Helper()

	position := make(map[string]int, len(order))
	for i, node := range order {
		position[node] = i
	}
	for _, node := range order {
		for _, dependee := range g.Dependees(node) {
			if p, ok := position[dependee]; ok {
				assert.Less(t, p, position[node], "%s must come before %s", dependee, node)
			}
		}
	}
}

func TestRecalculationOrder_Chain(t *testing.T) {
	// c depends on b depends on a
	g := NewDependencyGraph()
	g.AddDependency("b", "a")
	g.AddDependency("c", "b")

	order, err := RecalculationOrder(g, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	order, err = RecalculationOrder(g, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, order)
}

func TestRecalculationOrder_Diamond(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("b", "a")
	g.AddDependency("c", "a")
	g.AddDependency("d", "b")
	g.AddDependency("d", "c")
	g.AddDependency("e", "d")
	g.AddDependency("e", "a")

	order, err := RecalculationOrder(g, "a")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, order)
	assert.Equal(t, "a", order[0])
	assertTopological(t, g, order)
}

func TestRecalculationOrder_IsolatedCell(t *testing.T) {
	g := NewDependencyGraph()

	order, err := RecalculationOrder(g, "lonely")
	require.NoError(t, err)
	assert.Equal(t, []string{"lonely"}, order)
}

func TestRecalculationOrder_MultipleStarts(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("x", "a")
	g.AddDependency("x", "b")
	g.AddDependency("y", "x")

	order, err := RecalculationOrder(g, "a", "b", "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "x", "y"}, order)
	assertTopological(t, g, order)
}

func TestRecalculationOrder_Cycles(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		start string
	}{
		{"self reference", [][2]string{{"a", "a"}}, "a"},
		{"two cells", [][2]string{{"a", "b"}, {"b", "a"}}, "a"},
		{"long loop", [][2]string{{"b", "a"}, {"c", "b"}, {"d", "c"}, {"a", "d"}}, "a"},
		{"loop downstream of start", [][2]string{{"b", "a"}, {"c", "b"}, {"b", "c"}}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDependencyGraph()
			for _, e := range tt.edges {
				g.AddDependency(e[0], e[1])
			}

			order, err := RecalculationOrder(g, tt.start)
			assert.Nil(t, order)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCycle))

			var cycleErr *CycleError
			require.True(t, errors.As(err, &cycleErr))
			require.GreaterOrEqual(t, len(cycleErr.Path), 2)
			assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
		})
	}
}

func TestRecalculationOrder_DeepChainUsesExplicitStack(t *testing.T) {
	g := NewDependencyGraph()
	const depth = 200000
	for i := 1; i < depth; i++ {
		g.AddDependency(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i-1))
	}

	order, err := RecalculationOrder(g, "c0")
	require.NoError(t, err)
	require.Len(t, order, depth)
	assert.Equal(t, "c0", order[0])
	assert.Equal(t, fmt.Sprintf("c%d", depth-1), order[depth-1])
}

func TestReachable(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("b", "a")
	g.AddDependency("c", "b")
	g.AddDependency("d", "x")

	assert.Equal(t, []string{"b", "c"}, Reachable(g, "a"))
	assert.Empty(t, Reachable(g, "c"))
}
