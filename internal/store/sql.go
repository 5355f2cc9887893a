package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/dolthub/driver"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hargabyte/sheet/internal/sheet"
)

// SQLStore keeps snapshots in the sheets and cells tables of a SQL
// database, either SQLite or Dolt.
type SQLStore struct {
	db     *sql.DB
	dbPath string
	dolt   bool
}

// OpenSQLite opens or creates a SQLite database at path.
func OpenSQLite(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLStore{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// OpenDolt opens or creates a Dolt repository in dir. Every Save is
// committed, so the history of each sheet can be inspected with dolt.
func OpenDolt(dir string) (*SQLStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// First, connect without specifying database to create it if needed
	initDSN := fmt.Sprintf("file://%s?commitname=Sheet&commitemail=sheet@local", dir)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}

	if _, err := initDB.Exec("CREATE DATABASE IF NOT EXISTS sheet"); err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=Sheet&commitemail=sheet@local&database=sheet", dir)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}

	s := &SQLStore{db: db, dbPath: dir, dolt: true}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file or repository path.
func (s *SQLStore) Path() string {
	return s.dbPath
}

// Save replaces the stored cells of name with snap inside one transaction.
func (s *SQLStore) Save(ctx context.Context, name string, snap *Snapshot) error {
	if err := ValidateSheetName(name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM sheets WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sheets (id, name, version, updated_at)
			VALUES (?, ?, ?, ?)`,
			id, name, snap.Version, now); err != nil {
			return fmt.Errorf("insert sheet: %w", err)
		}
	case err != nil:
		return fmt.Errorf("query sheet: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `
			UPDATE sheets SET version = ?, updated_at = ? WHERE id = ?`,
			snap.Version, now, id); err != nil {
			return fmt.Errorf("update sheet: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE sheet_id = ?`, id); err != nil {
		return fmt.Errorf("clear cells: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (sheet_id, name, contents)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range snap.Cells {
		if _, err := stmt.ExecContext(ctx, id, c.Name, c.Contents); err != nil {
			return fmt.Errorf("insert cell %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if s.dolt {
		return s.commit(ctx, fmt.Sprintf("save sheet %s (%d cells)", name, len(snap.Cells)))
	}
	return nil
}

// commit records the working set as a Dolt commit.
func (s *SQLStore) commit(ctx context.Context, message string) error {
	// DOLT_COMMIT arguments are literals, so the message is quoted here.
	quoted := strings.ReplaceAll(message, "'", "''")
	query := fmt.Sprintf("CALL DOLT_COMMIT('-A', '--allow-empty', '-m', '%s')", quoted)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dolt commit: %w", err)
	}
	return nil
}

// Load returns the stored snapshot of name.
func (s *SQLStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	var id string
	snap := &Snapshot{Cells: []sheet.Entry{}}
	err := s.db.QueryRowContext(ctx, `SELECT id, version FROM sheets WHERE name = ?`, name).Scan(&id, &snap.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query sheet: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, contents FROM cells
		WHERE sheet_id = ?
		ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e sheet.Entry
		if err := rows.Scan(&e.Name, &e.Contents); err != nil {
			return nil, err
		}
		snap.Cells = append(snap.Cells, e)
	}
	return snap, rows.Err()
}

// List returns the names of all stored sheets, sorted.
func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
