package metrics

import "github.com/hargabyte/sheet/internal/graph"

// Adjacency flattens g into a map from each cell to the cells its formula
// references. Every node appears as a key.
func Adjacency(g *graph.DependencyGraph) map[string][]string {
	adj := make(map[string][]string)
	for _, node := range g.Nodes() {
		adj[node] = g.Dependees(node)
	}
	return adj
}

// ComputeInOutDegree calculates in-degree and out-degree for each node.
// For a reference graph the in-degree of a cell is its number of direct
// dependents and the out-degree is the number of cells it references.
func ComputeInOutDegree(adj map[string][]string) (inDegree, outDegree map[string]int) {
	inDegree = make(map[string]int)
	outDegree = make(map[string]int)

	for node := range collectAllNodes(adj) {
		inDegree[node] = 0
		outDegree[node] = 0
	}
	for node, targets := range adj {
		outDegree[node] = len(targets)
		for _, target := range targets {
			inDegree[target]++
		}
	}
	return
}

// GraphStats contains statistics about a dependency graph.
type GraphStats struct {
	Cells         int     `yaml:"cells" json:"cells"`
	References    int     `yaml:"references" json:"references"`
	MaxDependents int     `yaml:"max_dependents" json:"max_dependents"`
	MaxReferences int     `yaml:"max_references" json:"max_references"`
	Inputs        int     `yaml:"inputs" json:"inputs"`
	Outputs       int     `yaml:"outputs" json:"outputs"`
	Density       float64 `yaml:"density" json:"density"`
}

// ComputeGraphStats calculates statistics for a reference graph. Inputs are
// cells that reference nothing and outputs are cells nothing references.
func ComputeGraphStats(adj map[string][]string) GraphStats {
	inDegree, outDegree := ComputeInOutDegree(adj)

	nodeCount := len(inDegree)
	if nodeCount == 0 {
		return GraphStats{}
	}

	stats := GraphStats{Cells: nodeCount}
	for node, in := range inDegree {
		out := outDegree[node]
		stats.References += out
		if in > stats.MaxDependents {
			stats.MaxDependents = in
		}
		if out > stats.MaxReferences {
			stats.MaxReferences = out
		}
		if in == 0 {
			stats.Outputs++
		}
		if out == 0 {
			stats.Inputs++
		}
	}

	// edges / (nodes * (nodes-1)) for a directed graph
	if nodeCount > 1 {
		stats.Density = float64(stats.References) / float64(nodeCount*(nodeCount-1))
	}
	return stats
}
