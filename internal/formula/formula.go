// Package formula parses and evaluates infix arithmetic over numbers and
// named variables.
//
// A formula is built from numbers, variables, the binary operators + - * /
// and parentheses. Multiplication and division bind tighter than addition
// and subtraction; operators of equal precedence associate to the left.
// There are no unary operators.
package formula

import (
	"strconv"
	"strings"
)

// Formula is an immutable, validated expression.
type Formula struct {
	tokens    []Token
	variables []string
}

// Option configures formula construction.
type Option func(*options)

type options struct {
	normalize func(string) string
	validate  func(string) bool
}

// WithNormalizer rewrites every variable before it is validated and stored.
func WithNormalizer(fn func(string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.normalize = fn
		}
	}
}

// WithValidator rejects formulas containing a normalized variable for which
// fn returns false.
func WithValidator(fn func(string) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.validate = fn
		}
	}
}

// New parses src. The returned error is a *FormatError when src is not a
// syntactically valid formula or a variable is rejected by the validator.
func New(src string, opts ...Option) (*Formula, error) {
	o := &options{
		normalize: func(s string) string { return s },
		validate:  func(string) bool { return true },
	}
	for _, opt := range opts {
		opt(o)
	}

	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if err := checkGrammar(tokens); err != nil {
		return nil, err
	}

	f := &Formula{tokens: tokens}
	seen := make(map[string]struct{})
	for i := range f.tokens {
		tok := &f.tokens[i]
		if tok.Type != TokenVariable {
			continue
		}

		normalized := o.normalize(tok.Text)
		if !isVariable(normalized) {
			return nil, &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "normalized to invalid variable " + strconv.Quote(normalized) + " from"}
		}
		if !o.validate(normalized) {
			return nil, &FormatError{Token: normalized, Offset: tok.Offset, Reason: "rejected variable"}
		}
		tok.Text = normalized

		if _, ok := seen[normalized]; !ok {
			seen[normalized] = struct{}{}
			f.variables = append(f.variables, normalized)
		}
	}

	return f, nil
}

// checkGrammar enforces alternation of operands and operators with balanced
// parentheses.
func checkGrammar(tokens []Token) error {
	if len(tokens) == 0 {
		return &FormatError{Reason: "empty formula"}
	}

	expectOperand := true
	depth := 0

	for _, tok := range tokens {
		switch tok.Type {
		case TokenLeftParen:
			if !expectOperand {
				return &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "unexpected parenthesis"}
			}
			depth++

		case TokenRightParen:
			if expectOperand {
				return &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "unexpected parenthesis"}
			}
			depth--
			if depth < 0 {
				return &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "unbalanced parenthesis"}
			}

		case TokenOperator:
			if expectOperand {
				return &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "missing operand before"}
			}
			expectOperand = true

		case TokenNumber, TokenVariable:
			if !expectOperand {
				return &FormatError{Token: tok.Text, Offset: tok.Offset, Reason: "unexpected operand"}
			}
			expectOperand = false
		}
	}

	last := tokens[len(tokens)-1]
	if expectOperand {
		return &FormatError{Token: last.Text, Offset: last.Offset, Reason: "missing operand after"}
	}
	if depth != 0 {
		return &FormatError{Reason: "unbalanced parentheses"}
	}
	return nil
}

func isVariable(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// Variables returns the distinct normalized variables in order of first
// appearance.
func (f *Formula) Variables() []string {
	out := make([]string, len(f.variables))
	copy(out, f.variables)
	return out
}

// String renders the formula canonically: normalized variables, shortest
// number form and no whitespace.
func (f *Formula) String() string {
	var sb strings.Builder
	for _, tok := range f.tokens {
		if tok.Type == TokenNumber {
			sb.WriteString(strconv.FormatFloat(tok.Number, 'g', -1, 64))
			continue
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Equal reports whether both formulas have the same canonical rendering.
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.String() == other.String()
}
