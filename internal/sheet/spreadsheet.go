// Package sheet implements a spreadsheet of named cells holding numbers,
// text or formulas. Every edit keeps the dependency graph between formula
// cells in sync and re-evaluates the edited cell and everything that depends
// on it, in dependency order. Edits that would introduce a cycle are rejected
// and leave the spreadsheet unchanged.
//
// A Spreadsheet is not safe for concurrent use.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hargabyte/sheet/internal/formula"
	"github.com/hargabyte/sheet/internal/graph"
)

type cell struct {
	content Content
	value   Value
}

// Entry is a cell name with the raw contents it was set to.
type Entry struct {
	Name     string `yaml:"name" json:"name"`
	Contents string `yaml:"contents" json:"contents"`
}

// Spreadsheet is the cell store and its recalculation engine.
type Spreadsheet struct {
	cells   map[string]*cell
	deps    *graph.DependencyGraph
	policy  NamePolicy
	logger  *slog.Logger
	changed bool
}

// Option configures a Spreadsheet.
type Option func(*Spreadsheet)

// WithNamePolicy replaces DefaultNamePolicy.
func WithNamePolicy(p NamePolicy) Option {
	return func(s *Spreadsheet) {
		s.policy = p
	}
}

// WithLogger sets the logger used for recalculation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Spreadsheet) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty spreadsheet.
func New(opts ...Option) *Spreadsheet {
	s := &Spreadsheet{
		cells:  make(map[string]*cell),
		deps:   graph.NewDependencyGraph(),
		policy: DefaultNamePolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active naming policy.
func (s *Spreadsheet) Policy() NamePolicy {
	return s.policy
}

// Changed reports whether the spreadsheet was modified since it was created,
// loaded or last marked saved.
func (s *Spreadsheet) Changed() bool {
	return s.changed
}

// MarkSaved clears the Changed flag.
func (s *Spreadsheet) MarkSaved() {
	s.changed = false
}

func (s *Spreadsheet) checkName(name string) (string, error) {
	canonical, ok := s.policy.Canonical(name)
	if !ok {
		return "", &InvalidNameError{Name: name}
	}
	return canonical, nil
}

// CellContents returns the contents of name, or empty text if the cell was
// never set.
func (s *Spreadsheet) CellContents(name string) (Content, error) {
	name, err := s.checkName(name)
	if err != nil {
		return Content{}, err
	}
	if c, ok := s.cells[name]; ok {
		return c.content, nil
	}
	return TextContent(""), nil
}

// CellValue returns the cached value of name.
func (s *Spreadsheet) CellValue(name string) (Value, error) {
	name, err := s.checkName(name)
	if err != nil {
		return Value{}, err
	}
	c, ok := s.cells[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrCellNotFound, name)
	}
	return c.value, nil
}

// NamesOfAllNonemptyCells returns the names of all cells holding something,
// sorted.
func (s *Spreadsheet) NamesOfAllNonemptyCells() []string {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DirectDependents returns the cells whose formulas reference name.
func (s *Spreadsheet) DirectDependents(name string) ([]string, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	return s.deps.Dependents(name), nil
}

// Graph returns a copy of the dependency graph.
func (s *Spreadsheet) Graph() *graph.DependencyGraph {
	return s.deps.Clone()
}

// NodeKinds maps every node of the dependency graph to the kind of cell it
// names. References to cells that hold nothing map to "missing".
func (s *Spreadsheet) NodeKinds() map[string]string {
	kinds := make(map[string]string)
	for _, name := range s.deps.Nodes() {
		if c, ok := s.cells[name]; ok {
			kinds[name] = c.content.Kind().String()
		} else {
			kinds[name] = "missing"
		}
	}
	return kinds
}

// parseContent classifies raw cell input.
func (s *Spreadsheet) parseContent(raw string) (Content, error) {
	if raw == "" {
		return TextContent(""), nil
	}
	if v, ok := parseNumber(raw); ok {
		return NumberContent(v), nil
	}
	if strings.HasPrefix(raw, "=") {
		f, err := formula.New(raw[1:],
			formula.WithNormalizer(s.policy.Normalize),
			formula.WithValidator(s.policy.IsValid),
		)
		if err != nil {
			return Content{}, err
		}
		return FormulaContent(f), nil
	}
	return TextContent(raw), nil
}

// parseNumber accepts an optional sign followed by a formula number literal,
// with surrounding whitespace. Hex, underscores and named values are text.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	literal := s
	if strings.HasPrefix(literal, "+") || strings.HasPrefix(literal, "-") {
		literal = literal[1:]
	}
	if !formula.IsNumberLiteral(literal) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SetContentsOfCell sets name to raw and recalculates. An empty raw removes
// the cell, a number becomes a number, a leading '=' introduces a formula
// and anything else is text.
//
// It returns name and every cell that transitively depends on it, in the
// order they were re-evaluated. An invalid name, a malformed formula or a
// formula that closes a cycle is returned as an error and leaves the
// spreadsheet untouched. Evaluation failures are not errors here; they are
// stored as the value of the failing cell.
func (s *Spreadsheet) SetContentsOfCell(name, raw string) ([]string, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	content, err := s.parseContent(raw)
	if err != nil {
		return nil, err
	}

	var references []string
	if content.Kind() == ContentFormula {
		references = content.Formula().Variables()
	}

	previous := s.deps.Dependees(name)
	s.deps.ReplaceDependees(name, references)

	order, err := graph.RecalculationOrder(s.deps, name)
	if err != nil {
		s.deps.ReplaceDependees(name, previous)

		circular := &CircularDependencyError{Cell: name, Err: err}
		var cycle *graph.CycleError
		if errors.As(err, &cycle) {
			circular.Path = cycle.Path
		}
		s.logger.Debug("rejected circular formula", "cell", name, "path", circular.Path)
		return nil, circular
	}

	if content.IsEmpty() {
		delete(s.cells, name)
	} else {
		s.cells[name] = &cell{content: content}
	}
	s.recalculate(order)
	s.changed = true

	s.logger.Debug("recalculated", "cell", name, "count", len(order))
	return order, nil
}

// recalculate re-evaluates cells in order. Each cell's references come
// earlier in order or were not affected by the edit.
func (s *Spreadsheet) recalculate(order []string) {
	for _, name := range order {
		c, ok := s.cells[name]
		if !ok {
			continue
		}
		c.value = s.evaluate(c.content)
		if c.value.Kind() == ValueError {
			s.logger.Debug("evaluation failed", "cell", name, "error", c.value.Err())
		}
	}
}

func (s *Spreadsheet) evaluate(content Content) Value {
	switch content.Kind() {
	case ContentNumber:
		return NumberValue(content.Number())
	case ContentFormula:
		v, err := content.Formula().Evaluate(s.lookup)
		if err != nil {
			return ErrorValue(err)
		}
		return NumberValue(v)
	default:
		return TextValue(content.Text())
	}
}

// lookup resolves a formula variable to the cached value of that cell.
func (s *Spreadsheet) lookup(name string) (float64, error) {
	c, ok := s.cells[name]
	if !ok {
		return 0, ErrCellNotFound
	}
	switch c.value.Kind() {
	case ValueNumber:
		return c.value.Number(), nil
	case ValueError:
		return 0, c.value.Err()
	default:
		return 0, ErrNotNumeric
	}
}

// Entries returns every non-empty cell with its raw contents, sorted by name.
// Loading the result into a spreadsheet with the same policy restores it.
func (s *Spreadsheet) Entries() []Entry {
	names := s.NamesOfAllNonemptyCells()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Contents: s.cells[name].content.String()})
	}
	return entries
}

// Load replaces the spreadsheet's cells with entries. Formulas may reference
// cells that appear later in entries. On error the spreadsheet is unchanged.
func (s *Spreadsheet) Load(entries []Entry) error {
	cells := make(map[string]*cell, len(entries))
	deps := graph.NewDependencyGraph()

	for _, e := range entries {
		name, err := s.checkName(e.Name)
		if err != nil {
			return err
		}
		content, err := s.parseContent(e.Contents)
		if err != nil {
			return fmt.Errorf("loading cell %s: %w", name, err)
		}
		if content.IsEmpty() {
			continue
		}
		if _, dup := cells[name]; dup {
			return fmt.Errorf("loading cell %s: duplicate entry", name)
		}
		cells[name] = &cell{content: content}
		if content.Kind() == ContentFormula {
			deps.ReplaceDependees(name, content.Formula().Variables())
		}
	}

	names := make([]string, 0, len(cells))
	for name := range cells {
		names = append(names, name)
	}
	sort.Strings(names)

	order, err := graph.RecalculationOrder(deps, names...)
	if err != nil {
		circular := &CircularDependencyError{Err: err}
		var cycle *graph.CycleError
		if errors.As(err, &cycle) {
			circular.Path = cycle.Path
			circular.Cell = cycle.Path[0]
		}
		return circular
	}

	s.cells = cells
	s.deps = deps
	s.recalculate(order)
	s.changed = false

	s.logger.Debug("loaded", "cells", len(cells), "edges", deps.Size())
	return nil
}
