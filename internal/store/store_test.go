package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hargabyte/sheet/internal/config"
	"github.com/hargabyte/sheet/internal/sheet"
)

func testBackends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	backends := map[string]Backend{}
	for _, name := range []string{"sqlite", "bolt", "yaml"} {
		b, err := Open(dir, config.StorageConfig{Backend: name})
		require.NoError(t, err, name)
		t.Cleanup(func() { b.Close() })
		backends[name] = b
	}
	return backends
}

func sampleSheet(t *testing.T) *sheet.Spreadsheet {
	t.Helper()
	s := sheet.New()
	for _, e := range []sheet.Entry{
		{Name: "A1", Contents: "2"},
		{Name: "A2", Contents: "=A1*21"},
		{Name: "B1", Contents: "it's text"},
	} {
		_, err := s.SetContentsOfCell(e.Name, e.Contents)
		require.NoError(t, err)
	}
	return s
}

func TestBackends_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			original := sampleSheet(t)
			require.NoError(t, backend.Save(ctx, "budget", Capture(original)))

			snap, err := backend.Load(ctx, "budget")
			require.NoError(t, err)
			assert.Equal(t, "default", snap.Version)
			assert.Equal(t, original.Entries(), snap.Cells)

			restored := sheet.New()
			require.NoError(t, Restore(restored, snap))
			v, err := restored.CellValue("A2")
			require.NoError(t, err)
			assert.Equal(t, 42.0, v.Number())
		})
	}
}

func TestBackends_SaveReplaces(t *testing.T) {
	ctx := context.Background()

	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, backend.Save(ctx, "s", &Snapshot{
				Version: "v1",
				Cells:   []sheet.Entry{{Name: "A", Contents: "1"}, {Name: "B", Contents: "2"}},
			}))
			require.NoError(t, backend.Save(ctx, "s", &Snapshot{
				Version: "v2",
				Cells:   []sheet.Entry{{Name: "C", Contents: "3"}},
			}))

			snap, err := backend.Load(ctx, "s")
			require.NoError(t, err)
			assert.Equal(t, "v2", snap.Version)
			assert.Equal(t, []sheet.Entry{{Name: "C", Contents: "3"}}, snap.Cells)
		})
	}
}

func TestBackends_ListAndNotFound(t *testing.T) {
	ctx := context.Background()

	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			names, err := backend.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, names)

			for _, sheetName := range []string{"zeta", "alpha", "mid-1"} {
				require.NoError(t, backend.Save(ctx, sheetName, &Snapshot{Version: "default"}))
			}

			names, err = backend.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "mid-1", "zeta"}, names)

			_, err = backend.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrSheetNotFound)

			err = backend.Save(ctx, "../escape", &Snapshot{Version: "default"})
			assert.ErrorIs(t, err, ErrInvalidSheetName)
		})
	}
}

func TestRestore_VersionMismatch(t *testing.T) {
	policy, err := sheet.NewNamePolicy(sheet.DefaultNamePattern, sheet.NormalizeUpper, "upper-v1")
	require.NoError(t, err)

	s := sheet.New(sheet.WithNamePolicy(policy))
	err = Restore(s, &Snapshot{Version: "default", Cells: []sheet.Entry{{Name: "a1", Contents: "1"}}})
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.Empty(t, s.NamesOfAllNonemptyCells())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(t.TempDir(), config.StorageConfig{Backend: "tape"})
	assert.Error(t, err)
}

func TestOpen_DefaultPaths(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(dir, config.StorageConfig{Backend: "sqlite"})
	require.NoError(t, err)
	defer b.Close()

	sqlStore, ok := b.(*SQLStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "sheet.db"), sqlStore.Path())
	assert.FileExists(t, filepath.Join(dir, "sheet.db"))
}

func TestDolt_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("dolt repository setup is slow")
	}
	ctx := context.Background()

	b, err := Open(t.TempDir(), config.StorageConfig{Backend: "dolt"})
	require.NoError(t, err)
	defer b.Close()

	original := sampleSheet(t)
	require.NoError(t, b.Save(ctx, "budget", Capture(original)))
	require.NoError(t, b.Save(ctx, "budget", Capture(original)))

	snap, err := b.Load(ctx, "budget")
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), snap.Cells)

	var commits int
	require.NoError(t, b.(*SQLStore).db.QueryRow("SELECT COUNT(*) FROM dolt_log").Scan(&commits))
	assert.GreaterOrEqual(t, commits, 2)
}
