package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyGraph_Empty(t *testing.T) {
	g := NewDependencyGraph()

	assert.Equal(t, 0, g.Size())
	assert.False(t, g.HasDependents("a"))
	assert.False(t, g.HasDependees("a"))
	assert.NotNil(t, g.Dependents("a"))
	assert.Empty(t, g.Dependents("a"))
	assert.NotNil(t, g.Dependees("a"))
	assert.Empty(t, g.Dependees("a"))
	assert.Empty(t, g.Edges())
	assert.Empty(t, g.Nodes())
}

func TestDependencyGraph_AddDependency(t *testing.T) {
	// a depends on b and c, b depends on d, d depends on itself
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "d")
	g.AddDependency("d", "d")

	assert.Equal(t, 4, g.Size())

	assert.Equal(t, []string{"b", "c"}, g.Dependees("a"))
	assert.Equal(t, []string{"d"}, g.Dependees("b"))
	assert.Empty(t, g.Dependees("c"))
	assert.Equal(t, []string{"d"}, g.Dependees("d"))

	assert.Empty(t, g.Dependents("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
	assert.Equal(t, []string{"a"}, g.Dependents("c"))
	assert.Equal(t, []string{"b", "d"}, g.Dependents("d"))

	assert.True(t, g.HasDependees("a"))
	assert.False(t, g.HasDependees("c"))
	assert.True(t, g.HasDependents("c"))
	assert.False(t, g.HasDependents("a"))
}

func TestDependencyGraph_DuplicateAddIsNoop(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "b")
	g.AddDependency("a", "b")

	assert.Equal(t, 1, g.Size())
	assert.Equal(t, []string{"b"}, g.Dependees("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
}

func TestDependencyGraph_RemoveDependency(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")

	g.RemoveDependency("a", "b")
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, []string{"c"}, g.Dependees("a"))
	assert.False(t, g.HasDependents("b"))

	t.Run("missing edge is a noop", func(t *testing.T) {
		g.RemoveDependency("a", "b")
		g.RemoveDependency("x", "y")
		g.RemoveDependency("c", "a")
		assert.Equal(t, 1, g.Size())
	})

	t.Run("last edge clears both directions", func(t *testing.T) {
		g.RemoveDependency("a", "c")
		assert.Equal(t, 0, g.Size())
		assert.False(t, g.HasDependees("a"))
		assert.False(t, g.HasDependents("c"))
		assert.Empty(t, g.Nodes())
	})
}

func TestDependencyGraph_ReplaceDependees(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("x", "c")

	g.ReplaceDependees("a", []string{"c", "d", "e", "d"})

	assert.Equal(t, []string{"c", "d", "e"}, g.Dependees("a"))
	assert.Empty(t, g.Dependents("b"))
	assert.Equal(t, []string{"a", "x"}, g.Dependents("c"))
	assert.Equal(t, 4, g.Size())

	g.ReplaceDependees("a", nil)
	assert.False(t, g.HasDependees("a"))
	assert.Equal(t, 1, g.Size())

	t.Run("absent source gains dependees", func(t *testing.T) {
		g.ReplaceDependees("new", []string{"x"})
		assert.Equal(t, []string{"x"}, g.Dependees("new"))
		assert.Equal(t, 2, g.Size())
	})
}

func TestDependencyGraph_ReplaceDependents(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "t")
	g.AddDependency("b", "t")
	g.AddDependency("b", "u")

	g.ReplaceDependents("t", []string{"c", "b"})

	assert.Equal(t, []string{"b", "c"}, g.Dependents("t"))
	assert.Empty(t, g.Dependees("a"))
	assert.Equal(t, []string{"t", "u"}, g.Dependees("b"))
	assert.Equal(t, 3, g.Size())

	g.ReplaceDependents("missing", []string{"z"})
	assert.Equal(t, []string{"z"}, g.Dependents("missing"))
	assert.Equal(t, 4, g.Size())
}

func TestDependencyGraph_SnapshotsAreCopies(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")

	dependees := g.Dependees("a")
	dependees[0] = "mutated"
	dependents := g.Dependents("b")
	dependents[0] = "mutated"

	assert.Equal(t, []string{"b"}, g.Dependees("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
}

func TestDependencyGraph_EdgesAndClone(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("b", "c")
	g.AddDependency("a", "c")
	g.AddDependency("a", "b")

	expected := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	assert.Equal(t, expected, g.Edges())
	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())

	clone := g.Clone()
	clone.RemoveDependency("a", "b")
	clone.AddDependency("z", "a")

	assert.Equal(t, expected, g.Edges())
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, 3, clone.Size())
}

// TestDependencyGraph_RandomOperations checks the graph against a plain set of
// pairs over a long random sequence of edits.
func TestDependencyGraph_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i)
	}

	g := NewDependencyGraph()
	model := map[[2]string]struct{}{}

	for i := 0; i < 5000; i++ {
		s := names[rng.Intn(len(names))]
		tt := names[rng.Intn(len(names))]
		if rng.Intn(3) == 0 {
			g.RemoveDependency(s, tt)
			delete(model, [2]string{s, tt})
		} else {
			g.AddDependency(s, tt)
			model[[2]string{s, tt}] = struct{}{}
		}
	}

	require.Equal(t, len(model), g.Size())

	for _, name := range names {
		var wantDependents, wantDependees []string
		for _, other := range names {
			if _, ok := model[[2]string{other, name}]; ok {
				wantDependents = append(wantDependents, other)
			}
			if _, ok := model[[2]string{name, other}]; ok {
				wantDependees = append(wantDependees, other)
			}
		}
		assert.ElementsMatch(t, wantDependents, g.Dependents(name), "dependents(%s)", name)
		assert.ElementsMatch(t, wantDependees, g.Dependees(name), "dependees(%s)", name)
		assert.Equal(t, len(wantDependents) > 0, g.HasDependents(name))
		assert.Equal(t, len(wantDependees) > 0, g.HasDependees(name))
	}
}

func TestDependencyGraph_LargeFanOut(t *testing.T) {
	g := NewDependencyGraph()
	for i := 0; i < 10000; i++ {
		g.AddDependency("hub", fmt.Sprintf("leaf%d", i))
	}
	assert.Equal(t, 10000, g.Size())

	for i := 0; i < 10000; i += 2 {
		g.RemoveDependency("hub", fmt.Sprintf("leaf%d", i))
	}
	assert.Equal(t, 5000, g.Size())
	assert.Len(t, g.Dependees("hub"), 5000)
}
