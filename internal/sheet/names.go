package sheet

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultNamePattern is the cell name grammar used when none is configured.
// It matches the variables a formula can reference, so every cell that can be
// set can also be read from a formula.
const DefaultNamePattern = `^[A-Za-z][A-Za-z0-9]*$`

// NormalizeMode selects how cell names are canonicalized.
type NormalizeMode string

const (
	NormalizeNone  NormalizeMode = "none"
	NormalizeUpper NormalizeMode = "upper"
	NormalizeLower NormalizeMode = "lower"
)

// NamePolicy decides which strings are cell names. Normalize runs first and
// IsValid judges the normalized name. Version identifies the policy in
// persisted sheets so a sheet saved under one policy is not restored under
// another.
type NamePolicy struct {
	Version   string
	IsValid   func(name string) bool
	Normalize func(name string) string
}

// DefaultNamePolicy accepts DefaultNamePattern and keeps names as written.
func DefaultNamePolicy() NamePolicy {
	p, _ := NewNamePolicy(DefaultNamePattern, NormalizeNone, "default")
	return p
}

// NewNamePolicy builds a policy from a regular expression and a
// normalization mode.
func NewNamePolicy(pattern string, mode NormalizeMode, version string) (NamePolicy, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return NamePolicy{}, fmt.Errorf("compiling name pattern: %w", err)
	}

	var normalize func(string) string
	switch mode {
	case NormalizeNone, "":
		normalize = func(s string) string { return s }
	case NormalizeUpper:
		// Casers keep state between calls, so each call gets its own.
		normalize = func(s string) string { return cases.Upper(language.Und).String(s) }
	case NormalizeLower:
		normalize = func(s string) string { return cases.Lower(language.Und).String(s) }
	default:
		return NamePolicy{}, fmt.Errorf("unknown normalize mode %q", mode)
	}

	return NamePolicy{
		Version:   version,
		IsValid:   re.MatchString,
		Normalize: normalize,
	}, nil
}

// Canonical normalizes name and reports whether the result is valid.
func (p NamePolicy) Canonical(name string) (string, bool) {
	if p.Normalize != nil {
		name = p.Normalize(name)
	}
	if name == "" {
		return name, false
	}
	if p.IsValid != nil && !p.IsValid(name) {
		return name, false
	}
	return name, true
}
