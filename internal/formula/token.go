package formula

import (
	"math"
	"strconv"
)

// TokenType classifies a formula token.
type TokenType int

const (
	TokenLeftParen TokenType = iota
	TokenRightParen
	TokenOperator
	TokenNumber
	TokenVariable
)

func (t TokenType) String() string {
	switch t {
	case TokenLeftParen:
		return "left paren"
	case TokenRightParen:
		return "right paren"
	case TokenOperator:
		return "operator"
	case TokenNumber:
		return "number"
	case TokenVariable:
		return "variable"
	}
	return "unknown"
}

// Token is one lexeme of a formula. Offset is the byte position in the
// source string.
type Token struct {
	Type   TokenType
	Text   string
	Offset int
	Number float64
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// tokenize splits src into tokens, dropping whitespace. Any character that
// cannot start a token is reported as a *FormatError.
func tokenize(src string) ([]Token, error) {
	var tokens []Token
	pos := 0

	for pos < len(src) {
		c := src[pos]
		switch {
		case isSpace(c):
			pos++

		case c == '(':
			tokens = append(tokens, Token{Type: TokenLeftParen, Text: "(", Offset: pos})
			pos++

		case c == ')':
			tokens = append(tokens, Token{Type: TokenRightParen, Text: ")", Offset: pos})
			pos++

		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, Token{Type: TokenOperator, Text: string(c), Offset: pos})
			pos++

		case isLetter(c):
			end := pos + 1
			for end < len(src) && (isLetter(src[end]) || isDigit(src[end])) {
				end++
			}
			tokens = append(tokens, Token{Type: TokenVariable, Text: src[pos:end], Offset: pos})
			pos = end

		case isDigit(c) || c == '.':
			end, ok := scanNumber(src, pos)
			if !ok {
				return nil, &FormatError{Token: string(c), Offset: pos, Reason: "invalid number"}
			}
			text := src[pos:end]
			// The literal is well formed, so only a range error is possible.
			// Underflow rounds to zero; overflow would make an infinite operand.
			value, err := strconv.ParseFloat(text, 64)
			if err != nil && math.IsInf(value, 0) {
				return nil, &FormatError{Token: text, Offset: pos, Reason: "number out of range"}
			}
			tokens = append(tokens, Token{Type: TokenNumber, Text: text, Offset: pos, Number: value})
			pos = end

		default:
			return nil, &FormatError{Token: string(c), Offset: pos, Reason: "invalid token"}
		}
	}

	return tokens, nil
}

// IsNumberLiteral reports whether s is exactly one unsigned number literal
// as formulas accept it.
func IsNumberLiteral(s string) bool {
	end, ok := scanNumber(s, 0)
	return ok && end == len(s)
}

// scanNumber matches (\d+\.\d*|\d*\.\d+|\d+)([eE][+-]?\d+)? at pos and
// returns the end offset.
func scanNumber(src string, pos int) (int, bool) {
	end := pos
	intDigits := 0
	for end < len(src) && isDigit(src[end]) {
		end++
		intDigits++
	}

	fracDigits := 0
	if end < len(src) && src[end] == '.' {
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return pos, false
	}

	// The exponent is only consumed when complete; "2e" lexes as 2 then e.
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		exp := end + 1
		if exp < len(src) && (src[exp] == '+' || src[exp] == '-') {
			exp++
		}
		digits := exp
		for digits < len(src) && isDigit(src[digits]) {
			digits++
		}
		if digits > exp {
			end = digits
		}
	}

	return end, true
}
