// Package graph tracks references between spreadsheet cells.
//
// A dependency (s, t) means cell s references cell t, so s must be
// recomputed whenever t changes. The graph is an index over cell names only;
// it knows nothing about cell contents or values.
package graph

import "sort"

// DependencyGraph stores dependencies in both directions so that the
// dependents and dependees of a single cell are map lookups.
type DependencyGraph struct {
	// dependees: s -> set of t such that (s, t) exists
	dependees map[string]map[string]struct{}
	// dependents: t -> set of s such that (s, t) exists
	dependents map[string]map[string]struct{}
	size       int
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependees:  make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// Size returns the number of distinct dependencies in the graph.
func (g *DependencyGraph) Size() int {
	return g.size
}

// HasDependents reports whether any cell depends on t.
func (g *DependencyGraph) HasDependents(t string) bool {
	_, ok := g.dependents[t]
	return ok
}

// HasDependees reports whether s depends on any cell.
func (g *DependencyGraph) HasDependees(s string) bool {
	_, ok := g.dependees[s]
	return ok
}

// Dependents returns the cells that depend on t.
// The result is a sorted copy and is never nil.
func (g *DependencyGraph) Dependents(t string) []string {
	return sortedKeys(g.dependents[t])
}

// Dependees returns the cells that s depends on.
// The result is a sorted copy and is never nil.
func (g *DependencyGraph) Dependees(s string) []string {
	return sortedKeys(g.dependees[s])
}

// AddDependency records that s depends on t. Adding an existing
// dependency is a no-op.
func (g *DependencyGraph) AddDependency(s, t string) {
	targets, ok := g.dependees[s]
	if !ok {
		targets = make(map[string]struct{})
		g.dependees[s] = targets
	}
	if _, exists := targets[t]; exists {
		return
	}
	targets[t] = struct{}{}

	sources, ok := g.dependents[t]
	if !ok {
		sources = make(map[string]struct{})
		g.dependents[t] = sources
	}
	sources[s] = struct{}{}

	g.size++
}

// RemoveDependency removes the dependency (s, t) if present.
func (g *DependencyGraph) RemoveDependency(s, t string) {
	targets, ok := g.dependees[s]
	if !ok {
		return
	}
	if _, exists := targets[t]; !exists {
		return
	}

	delete(targets, t)
	if len(targets) == 0 {
		delete(g.dependees, s)
	}

	sources := g.dependents[t]
	delete(sources, s)
	if len(sources) == 0 {
		delete(g.dependents, t)
	}

	g.size--
}

// ReplaceDependees removes every dependency (s, *) and adds (s, t) for each
// t in newDependees.
func (g *DependencyGraph) ReplaceDependees(s string, newDependees []string) {
	for _, t := range g.Dependees(s) {
		g.RemoveDependency(s, t)
	}
	for _, t := range newDependees {
		g.AddDependency(s, t)
	}
}

// ReplaceDependents removes every dependency (*, t) and adds (s, t) for each
// s in newDependents.
func (g *DependencyGraph) ReplaceDependents(t string, newDependents []string) {
	for _, s := range g.Dependents(t) {
		g.RemoveDependency(s, t)
	}
	for _, s := range newDependents {
		g.AddDependency(s, t)
	}
}

// Edges returns every dependency as an (s, t) pair, sorted by s then t.
func (g *DependencyGraph) Edges() [][2]string {
	edges := make([][2]string, 0, g.size)
	for _, s := range sortedKeys(toSet(g.dependees)) {
		for _, t := range sortedKeys(g.dependees[s]) {
			edges = append(edges, [2]string{s, t})
		}
	}
	return edges
}

// Nodes returns every cell name that appears in at least one dependency.
func (g *DependencyGraph) Nodes() []string {
	seen := make(map[string]struct{}, len(g.dependees)+len(g.dependents))
	for s := range g.dependees {
		seen[s] = struct{}{}
	}
	for t := range g.dependents {
		seen[t] = struct{}{}
	}
	return sortedKeys(seen)
}

// Clone returns an independent copy of the graph.
func (g *DependencyGraph) Clone() *DependencyGraph {
	clone := NewDependencyGraph()
	for s, targets := range g.dependees {
		for t := range targets {
			clone.AddDependency(s, t)
		}
	}
	return clone
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toSet(m map[string]map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}
