// Package metrics scores cells by how much of a sheet depends on them.
// Scores come from PageRank over the reference graph, so a cell referenced
// by many formulas, or by formulas that are themselves widely referenced,
// ranks high.
package metrics

import (
	"sort"

	"github.com/hargabyte/sheet/internal/graph"
)

// Importance represents the classification level based on PageRank score.
type Importance string

const (
	Critical Importance = "critical"
	High     Importance = "high"
	Medium   Importance = "medium"
	Low      Importance = "low"
)

// Thresholds are the PageRank cut-offs for each importance level, and the
// dependent count that together with KeystonePR marks a keystone cell.
type Thresholds struct {
	Critical    float64
	High        float64
	Medium      float64
	KeystonePR  float64
	KeystoneDep int
}

// DefaultThresholds returns the default importance thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical:    0.50,
		High:        0.30,
		Medium:      0.10,
		KeystonePR:  0.30,
		KeystoneDep: 5,
	}
}

// Classify returns the importance level of a PageRank score.
func (t Thresholds) Classify(pr float64) Importance {
	switch {
	case pr >= t.Critical:
		return Critical
	case pr >= t.High:
		return High
	case pr >= t.Medium:
		return Medium
	default:
		return Low
	}
}

// IsKeystone reports whether a cell with score pr and deps direct dependents
// is one that a large part of the sheet rests on.
func (t Thresholds) IsKeystone(pr float64, deps int) bool {
	return pr >= t.KeystonePR && deps >= t.KeystoneDep
}

// CellMetrics holds the computed scores of one cell.
type CellMetrics struct {
	Cell       string     `yaml:"cell" json:"cell"`
	PageRank   float64    `yaml:"pagerank" json:"pagerank"`
	Dependents int        `yaml:"dependents" json:"dependents"`
	References int        `yaml:"references" json:"references"`
	Importance Importance `yaml:"importance" json:"importance"`
	Keystone   bool       `yaml:"keystone,omitempty" json:"keystone,omitempty"`
}

// Report summarizes a dependency graph.
type Report struct {
	Stats GraphStats    `yaml:"stats" json:"stats"`
	Top   []CellMetrics `yaml:"top" json:"top"`
}

// Compute scores every node of g and returns the top n by PageRank. A
// non-positive n returns every node.
func Compute(g *graph.DependencyGraph, n int, t Thresholds) Report {
	adj := Adjacency(g)
	scores := ComputePageRank(adj, DefaultPageRankConfig())
	in, out := ComputeInOutDegree(adj)

	if n <= 0 {
		n = len(scores)
	}
	top := TopN(scores, n)

	report := Report{Stats: ComputeGraphStats(adj), Top: make([]CellMetrics, 0, len(top))}
	for _, ns := range top {
		report.Top = append(report.Top, CellMetrics{
			Cell:       ns.Node,
			PageRank:   ns.Score,
			Dependents: in[ns.Node],
			References: out[ns.Node],
			Importance: t.Classify(ns.Score),
			Keystone:   t.IsKeystone(ns.Score, in[ns.Node]),
		})
	}
	return report
}

// NodeScore pairs a cell with its score.
type NodeScore struct {
	Node  string  `json:"node"`
	Score float64 `json:"score"`
}

// TopN returns the n highest scores, ties broken by name.
func TopN(scores map[string]float64, n int) []NodeScore {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	result := make([]NodeScore, 0, len(scores))
	for node, score := range scores {
		result = append(result, NodeScore{Node: node, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Node < result[j].Node
	})

	if n > len(result) {
		n = len(result)
	}
	return result[:n]
}
