package graph

// CellShape defines diagram shapes for a cell kind.
// Both D2 and Mermaid have native shape support.
type CellShape struct {
	D2Shape      string // D2 shape name (rectangle, oval, hexagon, ...)
	MermaidOpen  string // Mermaid node delimiters around the label
	MermaidClose string
}

// CellShapes maps cell kinds to their diagram shapes. Kinds are the names
// produced by the sheet package plus "missing" for references to cells that
// hold nothing.
var CellShapes = map[string]CellShape{
	"number":  {D2Shape: "rectangle", MermaidOpen: "[", MermaidClose: "]"},
	"formula": {D2Shape: "oval", MermaidOpen: "([", MermaidClose: "])"},
	"text":    {D2Shape: "parallelogram", MermaidOpen: "[/", MermaidClose: "/]"},
	"missing": {D2Shape: "hexagon", MermaidOpen: "{{", MermaidClose: "}}"},

	// Default fallback
	"default": {D2Shape: "rectangle", MermaidOpen: "[", MermaidClose: "]"},
}

// EdgeStyle defines diagram edge styles.
type EdgeStyle struct {
	D2Style      string // D2 edge style block, empty for the default line
	MermaidStyle string // Mermaid edge syntax (-->, -.->)
}

// EdgeStyles maps the kind of the referenced cell to the style of the edge
// leaving it. A reference to a missing cell is drawn dashed since the
// formula reading it evaluates to an error.
var EdgeStyles = map[string]EdgeStyle{
	"missing": {D2Style: "stroke-dash: 4", MermaidStyle: "-.->"},

	// Default fallback
	"default": {D2Style: "", MermaidStyle: "-->"},
}

// GetCellShape returns the shape for a cell kind, or the default shape.
func GetCellShape(kind string) CellShape {
	if shape, ok := CellShapes[kind]; ok {
		return shape
	}
	return CellShapes["default"]
}

// GetEdgeStyle returns the style for edges leaving a cell of the given
// kind, or the default style.
func GetEdgeStyle(kind string) EdgeStyle {
	if style, ok := EdgeStyles[kind]; ok {
		return style
	}
	return EdgeStyles["default"]
}
