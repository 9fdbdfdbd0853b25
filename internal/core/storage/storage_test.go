package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "docs"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{BackendDir: dir, BackendSQLite: db}
}

func put(t *testing.T, s Store, name, body string) {
	t.Helper()
	w, err := s.Create(context.Background(), name)
	require.NoError(t, err)
	_, err = io.WriteString(w, body)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func get(t *testing.T, s Store, name string) string {
	t.Helper()
	r, err := s.Open(context.Background(), name)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestStore_PutGetListDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			put(t, s, "b", "ShapeGroup 0\n")
			put(t, s, "a", "ShapeGroup 1\nCircle 1 2 3\n")
			put(t, s, "b", "ShapeGroup 1\nSquare 0 0 1\n")

			assert.Equal(t, "ShapeGroup 1\nSquare 0 0 1\n", get(t, s, "b"))

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, names)

			info, err := s.Stat(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "a", info.Name)
			assert.Equal(t, int64(len("ShapeGroup 1\nCircle 1 2 3\n")), info.Size)
			assert.Equal(t, xxhash.Sum64String("ShapeGroup 1\nCircle 1 2 3\n"), info.Fingerprint)

			require.NoError(t, s.Delete(ctx, "a"))
			names, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, names)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, err, fs.ErrNotExist)

			_, err = s.Stat(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
		})
	}
}

func TestStore_AbortDiscards(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			put(t, s, "doc", "ShapeGroup 0\n")

			w, err := s.Create(ctx, "doc")
			require.NoError(t, err)
			_, err = io.WriteString(w, "ShapeGroup 3\n")
			require.NoError(t, err)
			require.NoError(t, w.(Writer).Abort())

			_, err = w.Write([]byte("x"))
			assert.ErrorIs(t, err, ErrClosed)
			assert.Equal(t, "ShapeGroup 0\n", get(t, s, "doc"))

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"doc"}, names)
		})
	}
}

func TestStore_InvalidNames(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", ".hidden", "a/b", "../up", "with space"} {
				_, err := s.Create(ctx, bad)
				assert.ErrorIs(t, err, ErrInvalidName, bad)
				_, err = s.Open(ctx, bad)
				assert.ErrorIs(t, err, ErrInvalidName, bad)
			}
		})
	}
}

func TestDir_LayoutAndTempFiles(t *testing.T) {
	root := t.TempDir()
	d, err := NewDir(root)
	require.NoError(t, err)

	w, err := d.Create(context.Background(), "doc")
	require.NoError(t, err)
	_, err = io.WriteString(w, "ShapeGroup 0\n")
	require.NoError(t, err)

	names, err := d.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names, "uncommitted writer is visible")

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrClosed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc"+Ext, entries[0].Name())

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))
	names, err = d.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, names)
}

func TestSQLite_SkipsUnchangedBodies(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer s.Close()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	put(t, s, "doc", "ShapeGroup 0\n")
	first, err := s.Stat(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, clock, first.UpdatedAt)

	clock = clock.Add(time.Hour)
	put(t, s, "doc", "ShapeGroup 0\n")
	same, err := s.Stat(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, first, same)

	put(t, s, "doc", "ShapeGroup 1\nCircle 0 0 1\n")
	changed, err := s.Stat(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, clock, changed.UpdatedAt)
	assert.NotEqual(t, first.Fingerprint, changed.Fingerprint)
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{Backend: BackendDir, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, s)

	s, err = Open(Config{Backend: BackendSQLite, DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Config{Backend: "s3"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(Config{Backend: BackendSQLite})
	assert.Error(t, err)
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"a", "doc-1", "v1.2_final"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	assert.True(t, strings.Contains(ValidateName("a b").Error(), `"a b"`))
}
