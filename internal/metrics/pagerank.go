package metrics

import "math"

// PageRankConfig holds algorithm parameters for PageRank computation.
type PageRankConfig struct {
	// Damping is the probability of following a reference. 0.85 is standard.
	Damping float64

	MaxIterations int

	// Iteration stops when the largest change between rounds is below
	// Tolerance.
	Tolerance float64
}

// DefaultPageRankConfig returns the default PageRank configuration.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		Damping:       0.85,
		MaxIterations: 100,
		Tolerance:     0.0001,
	}
}

// PageRankResult contains the PageRank computation results.
type PageRankResult struct {
	Scores     map[string]float64
	Iterations int
	Converged  bool
	FinalDelta float64
}

// ComputePageRank calculates PageRank for all nodes of adj, a map from each
// node to the nodes it links to.
func ComputePageRank(adj map[string][]string, config PageRankConfig) map[string]float64 {
	return ComputePageRankWithInfo(adj, config).Scores
}

// ComputePageRankWithInfo calculates PageRank and returns detailed results.
func ComputePageRankWithInfo(adj map[string][]string, config PageRankConfig) PageRankResult {
	if len(adj) == 0 {
		return PageRankResult{Converged: true}
	}

	allNodes := collectAllNodes(adj)
	n := float64(len(allNodes))

	pr := make(map[string]float64, len(allNodes))
	for node := range allNodes {
		pr[node] = 1.0 / n
	}
	incomingLinks := buildIncomingLinks(adj, allNodes)

	result := PageRankResult{Scores: pr, FinalDelta: 1.0}

	for iter := 0; iter < config.MaxIterations; iter++ {
		next := make(map[string]float64, len(allNodes))
		maxDelta := 0.0

		// Nodes without outgoing links spread their rank evenly.
		danglingSum := 0.0
		for node := range allNodes {
			if len(adj[node]) == 0 {
				danglingSum += pr[node]
			}
		}
		danglingContribution := config.Damping * danglingSum / n

		for node := range allNodes {
			next[node] = (1.0-config.Damping)/n + danglingContribution
			for _, incoming := range incomingLinks[node] {
				next[node] += config.Damping * pr[incoming.source] / float64(incoming.outDegree)
			}
			if delta := math.Abs(next[node] - pr[node]); delta > maxDelta {
				maxDelta = delta
			}
		}

		pr = next
		result.Iterations = iter + 1
		result.FinalDelta = maxDelta
		if maxDelta < config.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Scores = pr
	return result
}

type incomingLink struct {
	source    string
	outDegree int
}

// collectAllNodes includes nodes that only appear as targets.
func collectAllNodes(adj map[string][]string) map[string]struct{} {
	allNodes := make(map[string]struct{})
	for node, targets := range adj {
		allNodes[node] = struct{}{}
		for _, target := range targets {
			allNodes[target] = struct{}{}
		}
	}
	return allNodes
}

func buildIncomingLinks(adj map[string][]string, allNodes map[string]struct{}) map[string][]incomingLink {
	incoming := make(map[string][]incomingLink, len(allNodes))
	for source, targets := range adj {
		for _, target := range targets {
			incoming[target] = append(incoming[target], incomingLink{
				source:    source,
				outDegree: len(targets),
			})
		}
	}
	return incoming
}
