package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

var (
	_ Store  = (*SQLite)(nil)
	_ Writer = (*rowWriter)(nil)
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	name        TEXT PRIMARY KEY,
	body        TEXT NOT NULL,
	fingerprint INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// SQLite keeps documents in a single table. Saving a body whose fingerprint
// matches the stored one leaves the row, including updated_at, untouched.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err = db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", name, err)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// Create buffers the document and upserts it on Close.
func (s *SQLite) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &rowWriter{ctx: ctx, store: s, name: name}, nil
}

func (s *SQLite) put(ctx context.Context, name, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, fingerprint, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		    body = excluded.body,
		    fingerprint = excluded.fingerprint,
		    updated_at = excluded.updated_at
		 WHERE documents.fingerprint <> excluded.fingerprint`,
		name, body, int64(xxhash.Sum64String(body)), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put document %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Stat(ctx context.Context, name string) (Info, error) {
	if err := ValidateName(name); err != nil {
		return Info{}, err
	}
	var (
		size        int64
		fingerprint int64
		updatedAt   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT length(CAST(body AS BLOB)), fingerprint, updated_at FROM documents WHERE name = ?`, name,
	).Scan(&size, &fingerprint, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, notFound(name)
	}
	if err != nil {
		return Info{}, fmt.Errorf("stat document %s: %w", name, err)
	}
	return Info{
		Name:        name,
		Size:        size,
		Fingerprint: uint64(fingerprint),
		UpdatedAt:   time.UnixMilli(updatedAt).UTC(),
	}, nil
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", name, err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

type rowWriter struct {
	ctx    context.Context
	store  *SQLite
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *rowWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

func (w *rowWriter) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	return w.store.put(w.ctx, w.name, w.buf.String())
}

func (w *rowWriter) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}
