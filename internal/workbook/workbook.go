// Package workbook serializes access to a set of named spreadsheets and
// keeps them persisted through a store.Backend. It is the single point of
// synchronization for the HTTP and MCP servers.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hargabyte/sheet/internal/sheet"
	"github.com/hargabyte/sheet/internal/store"
)

// Workbook owns every spreadsheet opened through it.
type Workbook struct {
	mu      sync.Mutex
	backend store.Backend
	policy  sheet.NamePolicy
	logger  *slog.Logger
	sheets  map[string]*sheet.Spreadsheet
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithLogger sets the logger for persistence events.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workbook) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a workbook over backend using policy for every sheet.
func New(backend store.Backend, policy sheet.NamePolicy, opts ...Option) *Workbook {
	w := &Workbook{
		backend: backend,
		policy:  policy,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		sheets:  make(map[string]*sheet.Spreadsheet),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// open returns the named sheet, loading it from the backend on first use.
// A sheet that was never saved starts empty. The caller holds mu.
func (w *Workbook) open(ctx context.Context, name string) (*sheet.Spreadsheet, error) {
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	if err := store.ValidateSheetName(name); err != nil {
		return nil, err
	}

	s := sheet.New(sheet.WithNamePolicy(w.policy), sheet.WithLogger(w.logger.With("sheet", name)))

	snap, err := w.backend.Load(ctx, name)
	switch {
	case errors.Is(err, store.ErrSheetNotFound):
		w.logger.Debug("new sheet", "sheet", name)
	case err != nil:
		return nil, fmt.Errorf("loading sheet %s: %w", name, err)
	default:
		if err := store.Restore(s, snap); err != nil {
			return nil, fmt.Errorf("restoring sheet %s: %w", name, err)
		}
		w.logger.Debug("loaded sheet", "sheet", name, "cells", len(snap.Cells))
	}

	w.sheets[name] = s
	return s, nil
}

// persist saves s if it changed. The caller holds mu.
func (w *Workbook) persist(ctx context.Context, name string, s *sheet.Spreadsheet) error {
	if !s.Changed() {
		return nil
	}
	return w.save(ctx, name, s)
}

// save writes s to the backend. A sheet that fails to save is evicted so the
// next open reloads what the backend holds. The caller holds mu.
func (w *Workbook) save(ctx context.Context, name string, s *sheet.Spreadsheet) error {
	snap := store.Capture(s)
	if err := w.backend.Save(ctx, name, snap); err != nil {
		delete(w.sheets, name)
		w.logger.Warn("save failed, dropped unsaved edits", "sheet", name, "error", err)
		return fmt.Errorf("saving sheet %s: %w", name, err)
	}
	s.MarkSaved()
	w.logger.Info("saved sheet", "sheet", name, "cells", len(snap.Cells))
	return nil
}

// Cell is a snapshot of one cell taken under the workbook lock.
type Cell struct {
	Name     string
	Contents sheet.Content
	Value    sheet.Value
	Present  bool
}

func cellOf(s *sheet.Spreadsheet, name string) (Cell, error) {
	contents, err := s.CellContents(name)
	if err != nil {
		return Cell{}, err
	}
	canonical, _ := s.Policy().Canonical(name)
	value, err := s.CellValue(name)
	switch {
	case errors.Is(err, sheet.ErrCellNotFound):
		return Cell{Name: canonical, Contents: contents}, nil
	case err != nil:
		return Cell{}, err
	}
	return Cell{Name: canonical, Contents: contents, Value: value, Present: true}, nil
}

// Set sets one cell, persists the sheet and returns the updated cell with
// the cells that were recalculated.
func (w *Workbook) Set(ctx context.Context, sheetName, cellName, raw string) (Cell, []string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return Cell{}, nil, err
	}

	recalculated, err := s.SetContentsOfCell(cellName, raw)
	if err != nil {
		return Cell{}, nil, err
	}
	if err := w.persist(ctx, sheetName, s); err != nil {
		return Cell{}, nil, err
	}

	c, err := cellOf(s, cellName)
	return c, recalculated, err
}

// Get returns one cell. A cell that holds nothing has Present false.
func (w *Workbook) Get(ctx context.Context, sheetName, cellName string) (Cell, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return Cell{}, err
	}
	return cellOf(s, cellName)
}

// Cells returns every non-empty cell of a sheet, sorted by name.
func (w *Workbook) Cells(ctx context.Context, sheetName string) ([]Cell, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return nil, err
	}

	names := s.NamesOfAllNonemptyCells()
	cells := make([]Cell, 0, len(names))
	for _, name := range names {
		c, err := cellOf(s, name)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// Dependents returns the cells whose formulas reference cellName.
func (w *Workbook) Dependents(ctx context.Context, sheetName, cellName string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	return s.DirectDependents(cellName)
}

// Replace loads entries as the whole content of a sheet and persists it.
func (w *Workbook) Replace(ctx context.Context, sheetName string, entries []sheet.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return err
	}
	if err := s.Load(entries); err != nil {
		return err
	}
	return w.save(ctx, sheetName, s)
}

// View runs fn with exclusive access to the named sheet. fn must not keep s.
func (w *Workbook) View(ctx context.Context, sheetName string, fn func(s *sheet.Spreadsheet) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.open(ctx, sheetName)
	if err != nil {
		return err
	}
	return fn(s)
}

// Sheets lists the stored sheets.
func (w *Workbook) Sheets(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.backend.List(ctx)
}

// Close closes the backend.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.backend.Close()
}
