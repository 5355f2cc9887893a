package output

import (
	"github.com/hargabyte/sheet/internal/sheet"
)

// CellView is the rendered form of one cell.
type CellView struct {
	Name     string   `yaml:"name" json:"name"`
	Contents string   `yaml:"contents" json:"contents"`
	Kind     string   `yaml:"kind" json:"kind"`
	Value    *float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Text     string   `yaml:"text,omitempty" json:"text,omitempty"`
	Error    string   `yaml:"error,omitempty" json:"error,omitempty"`
}

// SetResult reports an edit and every cell it recalculated.
type SetResult struct {
	Cell         CellView `yaml:"cell" json:"cell"`
	Recalculated []string `yaml:"recalculated" json:"recalculated"`
}

// ListOutput lists the non-empty cells of one sheet.
type ListOutput struct {
	Sheet string     `yaml:"sheet" json:"sheet"`
	Cells []CellView `yaml:"cells" json:"cells"`
}

// DependentsOutput lists the cells whose formulas reference Cell.
type DependentsOutput struct {
	Cell       string   `yaml:"cell" json:"cell"`
	Dependents []string `yaml:"dependents" json:"dependents"`
}

// NewCellView renders a cell. An empty cell has kind "empty" and no value.
func NewCellView(name string, c sheet.Content, v sheet.Value, present bool) CellView {
	view := CellView{Name: name, Contents: c.String()}
	if !present {
		view.Kind = "empty"
		return view
	}

	view.Kind = c.Kind().String()
	switch v.Kind() {
	case sheet.ValueNumber:
		n := v.Number()
		view.Value = &n
	case sheet.ValueError:
		view.Error = v.Err().Error()
	default:
		view.Text = v.Text()
	}
	return view
}
