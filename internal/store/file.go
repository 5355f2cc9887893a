package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const sheetFileExt = ".yaml"

// FileStore keeps each sheet as a YAML document in a directory.
type FileStore struct {
	dir string
}

// OpenFiles uses dir, creating it if needed.
func OpenFiles(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sheets directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+sheetFileExt)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

// Save writes snap to <dir>/<name>.yaml, replacing the file atomically.
func (s *FileStore) Save(_ context.Context, name string, snap *Snapshot) error {
	if err := ValidateSheetName(name); err != nil {
		return err
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling sheet: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing sheet: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing sheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing sheet: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("writing sheet: %w", err)
	}
	return nil
}

// Load reads <dir>/<name>.yaml.
func (s *FileStore) Load(_ context.Context, name string) (*Snapshot, error) {
	if err := ValidateSheetName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
		}
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	snap := &Snapshot{}
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parsing sheet %s: %w", name, err)
	}
	return snap, nil
}

// List returns the names of all sheet files, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sheetFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), sheetFileExt))
	}
	sort.Strings(names)
	return names, nil
}
