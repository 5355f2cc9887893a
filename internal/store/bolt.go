package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/hargabyte/sheet/internal/sheet"
)

const boltSheetPrefix = "__s_"

var (
	boltVersionKey  = []byte("version")
	boltCellsBucket = []byte("cells")
)

// BoltStore keeps each sheet in its own bbolt bucket. The bucket holds the
// policy version and a nested bucket of cell name to raw contents.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens or creates a bbolt database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func boltBucketName(name string) []byte {
	return []byte(boltSheetPrefix + name)
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save replaces the bucket of name with snap.
func (s *BoltStore) Save(_ context.Context, name string, snap *Snapshot) error {
	if err := ValidateSheetName(name); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		key := boltBucketName(name)
		if tx.Bucket(key) != nil {
			if err := tx.DeleteBucket(key); err != nil {
				return err
			}
		}

		bucket, err := tx.CreateBucket(key)
		if err != nil {
			return err
		}
		if err := bucket.Put(boltVersionKey, []byte(snap.Version)); err != nil {
			return err
		}

		cells, err := bucket.CreateBucket(boltCellsBucket)
		if err != nil {
			return err
		}
		for _, c := range snap.Cells {
			if err := cells.Put([]byte(c.Name), []byte(c.Contents)); err != nil {
				return fmt.Errorf("put cell %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

// Load returns the stored snapshot of name. Cells come back in key order.
func (s *BoltStore) Load(_ context.Context, name string) (*Snapshot, error) {
	snap := &Snapshot{Cells: []sheet.Entry{}}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucketName(name))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
		}
		snap.Version = string(bucket.Get(boltVersionKey))

		cells := bucket.Bucket(boltCellsBucket)
		if cells == nil {
			return nil
		}
		return cells.ForEach(func(k, v []byte) error {
			snap.Cells = append(snap.Cells, sheet.Entry{Name: string(k), Contents: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns the names of all stored sheets, sorted.
func (s *BoltStore) List(_ context.Context) ([]string, error) {
	names := []string{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if n, ok := strings.CutPrefix(string(name), boltSheetPrefix); ok {
				names = append(names, n)
			}
			return nil
		})
	})
	return names, err
}
