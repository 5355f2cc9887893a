package sheet

import (
	"strconv"

	"github.com/hargabyte/sheet/internal/formula"
)

// ContentKind tags the variant held by a Content.
type ContentKind int

const (
	ContentText ContentKind = iota
	ContentNumber
	ContentFormula
)

func (k ContentKind) String() string {
	switch k {
	case ContentNumber:
		return "number"
	case ContentFormula:
		return "formula"
	default:
		return "text"
	}
}

// Content is what a cell was set to: a number, text or a formula. The zero
// value is empty text, the content of every unset cell.
type Content struct {
	kind    ContentKind
	number  float64
	text    string
	formula *formula.Formula
}

// NumberContent returns number content.
func NumberContent(v float64) Content { return Content{kind: ContentNumber, number: v} }

// TextContent returns text content. Empty text is the content of an unset cell.
func TextContent(s string) Content { return Content{kind: ContentText, text: s} }

// FormulaContent returns formula content.
func FormulaContent(f *formula.Formula) Content {
	return Content{kind: ContentFormula, formula: f}
}

// Kind returns the variant held by c.
func (c Content) Kind() ContentKind { return c.kind }

// Number returns the number of number content and 0 otherwise.
func (c Content) Number() float64 { return c.number }

// Text returns the text of text content and "" otherwise.
func (c Content) Text() string { return c.text }

// Formula returns the formula of formula content and nil otherwise.
func (c Content) Formula() *formula.Formula { return c.formula }

// IsEmpty reports whether c is empty text.
func (c Content) IsEmpty() bool { return c.kind == ContentText && c.text == "" }

// String returns the raw form accepted by SetContentsOfCell.
func (c Content) String() string {
	switch c.kind {
	case ContentNumber:
		return formatNumber(c.number)
	case ContentFormula:
		return "=" + c.formula.String()
	default:
		return c.text
	}
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueError
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueError:
		return "error"
	default:
		return "text"
	}
}

// Value is the evaluated form of a cell. Formula cells that fail to
// evaluate hold an error value rather than failing the edit that caused it.
type Value struct {
	kind   ValueKind
	number float64
	text   string
	err    error
}

// NumberValue returns a number value.
func NumberValue(v float64) Value { return Value{kind: ValueNumber, number: v} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{kind: ValueText, text: s} }

// ErrorValue returns the value of a formula that failed to evaluate.
func ErrorValue(err error) Value { return Value{kind: ValueError, err: err} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the number of a number value and 0 otherwise.
func (v Value) Number() float64 { return v.number }

// Text returns the text of a text value and "" otherwise.
func (v Value) Text() string { return v.text }

// Err returns the evaluation error of an error value and nil otherwise.
func (v Value) Err() error { return v.err }

// String renders v for display. Error values start with "#ERROR: ".
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return formatNumber(v.number)
	case ValueError:
		return "#ERROR: " + v.err.Error()
	default:
		return v.text
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
