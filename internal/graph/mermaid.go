package graph

import (
	"fmt"
	"regexp"
	"strings"
)

// MermaidOptions configures Mermaid diagram generation.
type MermaidOptions struct {
	Direction string            // Layout direction: "TD" (top-down) or "LR" (left-right)
	Title     string            // Optional diagram title
	Kinds     map[string]string // Optional cell kind per node: "formula", "number", "text", "missing"
}

// DefaultMermaidOptions returns sensible defaults for Mermaid diagram generation.
func DefaultMermaidOptions() *MermaidOptions {
	return &MermaidOptions{
		Direction: "LR",
	}
}

// GenerateMermaid renders the graph as a Mermaid flowchart. Edges point from
// a referenced cell to the cell whose formula references it, the direction
// values flow in.
func GenerateMermaid(g *DependencyGraph, opts *MermaidOptions) string {
	if opts == nil {
		opts = DefaultMermaidOptions()
	}
	direction := opts.Direction
	if direction != "TD" && direction != "LR" {
		direction = "LR"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("    subgraph title[\"%s\"]\n", escapeMermaidString(opts.Title)))
		sb.WriteString("    end\n")
	}

	for _, node := range g.Nodes() {
		sb.WriteString(fmt.Sprintf("    %s\n", generateMermaidNode(sanitizeMermaidID(node), node, opts.Kinds[node])))
	}

	for _, edge := range g.Edges() {
		style := GetEdgeStyle(opts.Kinds[edge[1]])
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(edge[1]), style.MermaidStyle, sanitizeMermaidID(edge[0])))
	}

	return sb.String()
}

// generateMermaidNode creates a Mermaid node declaration shaped by cell kind.
func generateMermaidNode(id, name, kind string) string {
	shape := GetCellShape(kind)
	return fmt.Sprintf("%s%s\"%s\"%s", id, shape.MermaidOpen, escapeMermaidString(name), shape.MermaidClose)
}

// Mermaid IDs can contain alphanumeric chars and underscores.
var mermaidIDRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func sanitizeMermaidID(id string) string {
	sanitized := mermaidIDRegex.ReplaceAllString(id, "_")

	// Ensure it starts with a letter or underscore (not a digit)
	if len(sanitized) > 0 && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	if sanitized == "" {
		sanitized = "_empty"
	}

	return sanitized
}

// escapeMermaidString escapes special characters in Mermaid string content.
func escapeMermaidString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
