// Package store persists spreadsheets. A sheet is saved as a Snapshot: its
// cells' raw contents plus the version of the naming policy they were written
// under. Backends are interchangeable and selected by configuration:
//
//   - sqlite: a single SQLite file (.sheet/sheet.db)
//   - dolt: a Dolt repository (.sheet/dolt/), one commit per save
//   - bolt: a bbolt key/value file (.sheet/sheet.bolt)
//   - yaml: one YAML document per sheet (.sheet/sheets/<name>.yaml)
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/hargabyte/sheet/internal/config"
	"github.com/hargabyte/sheet/internal/sheet"
)

var (
	// ErrSheetNotFound is returned by Load for a sheet that was never saved.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrVersionMismatch is returned by Restore when a snapshot was written
	// under a different naming policy.
	ErrVersionMismatch = errors.New("naming policy version mismatch")

	// ErrInvalidSheetName is returned for sheet names that cannot be stored.
	ErrInvalidSheetName = errors.New("invalid sheet name")
)

// Snapshot is the persisted form of one sheet.
type Snapshot struct {
	Version string        `yaml:"version"`
	Cells   []sheet.Entry `yaml:"cells"`
}

// Backend stores snapshots by sheet name.
type Backend interface {
	Save(ctx context.Context, name string, snap *Snapshot) error
	Load(ctx context.Context, name string) (*Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

var sheetNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateSheetName rejects names that are unsafe as file names or keys.
func ValidateSheetName(name string) error {
	if !sheetNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSheetName, name)
	}
	return nil
}

// Open opens the backend selected by cfg. Relative paths are resolved
// against dir, the .sheet directory.
func Open(dir string, cfg config.StorageConfig) (Backend, error) {
	path := cfg.Path
	if path == "" {
		path = config.DefaultStoragePaths[cfg.Backend]
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	switch cfg.Backend {
	case "sqlite":
		return OpenSQLite(path)
	case "dolt":
		return OpenDolt(path)
	case "bolt":
		return OpenBolt(path)
	case "yaml":
		return OpenFiles(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Capture builds a snapshot of s.
func Capture(s *sheet.Spreadsheet) *Snapshot {
	return &Snapshot{
		Version: s.Policy().Version,
		Cells:   s.Entries(),
	}
}

// Restore loads snap into s. The snapshot must have been written under the
// same naming policy version.
func Restore(s *sheet.Spreadsheet, snap *Snapshot) error {
	if snap.Version != s.Policy().Version {
		return fmt.Errorf("%w: stored %q, active %q", ErrVersionMismatch, snap.Version, s.Policy().Version)
	}
	return s.Load(snap.Cells)
}
