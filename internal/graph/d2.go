package graph

import (
	"fmt"
	"strings"
)

// D2Options configures D2 diagram generation.
type D2Options struct {
	Direction string            // Layout direction: "right" or "down"
	Title     string            // Optional diagram title
	Kinds     map[string]string // Optional cell kind per node
}

// DefaultD2Options returns sensible defaults for D2 generation.
func DefaultD2Options() *D2Options {
	return &D2Options{
		Direction: "right",
	}
}

// GenerateD2 renders the graph as a D2 diagram. Like GenerateMermaid, edges
// point from a referenced cell to the formula that references it.
func GenerateD2(g *DependencyGraph, opts *D2Options) string {
	if opts == nil {
		opts = DefaultD2Options()
	}
	direction := opts.Direction
	if direction != "right" && direction != "down" {
		direction = "right"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("direction: %s\n", direction))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("title: {\n  label: %s\n  near: top-center\n}\n", sanitizeD2ID(opts.Title)))
	}

	sb.WriteString("\n# Cells\n")
	for _, node := range g.Nodes() {
		sb.WriteString(generateD2Node(node, opts.Kinds[node]))
		sb.WriteString("\n")
	}

	sb.WriteString("\n# References\n")
	for _, edge := range g.Edges() {
		sb.WriteString(generateD2Edge(edge[1], edge[0], opts.Kinds[edge[1]]))
		sb.WriteString("\n")
	}

	return sb.String()
}

// generateD2Node generates a D2 node definition.
func generateD2Node(name, kind string) string {
	shape := GetCellShape(kind)
	return fmt.Sprintf("%s: {\n  shape: %s\n}", sanitizeD2ID(name), shape.D2Shape)
}

// generateD2Edge generates a D2 edge definition styled by the kind of the
// referenced cell.
func generateD2Edge(from, to, fromKind string) string {
	style := GetEdgeStyle(fromKind)
	edge := fmt.Sprintf("%s -> %s", sanitizeD2ID(from), sanitizeD2ID(to))
	if style.D2Style == "" {
		return edge
	}
	return fmt.Sprintf("%s: {\n  style: {\n    %s\n  }\n}", edge, style.D2Style)
}

// sanitizeD2ID makes an ID safe for D2 by quoting if necessary.
func sanitizeD2ID(id string) string {
	needsQuoting := id == ""
	for _, c := range id {
		if !isAlphanumeric(c) && c != '_' && c != '-' {
			needsQuoting = true
			break
		}
	}

	if needsQuoting {
		escaped := strings.ReplaceAll(id, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return id
}

// isAlphanumeric returns true if the rune is a letter or digit.
func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
