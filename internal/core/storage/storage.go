// Package storage keeps named shape documents in a directory or a SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"
)

// Ext is the file extension of documents kept by Dir.
const Ext = ".shapes"

const (
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
)

var (
	ErrNotFound       = fmt.Errorf("document %w", fs.ErrNotExist)
	ErrInvalidName    = errors.New("invalid document name")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrClosed         = errors.New("writer already closed")
)

// Store is a flat namespace of documents. Writers returned by Create are
// Writers: they commit on Close and discard everything on Abort, so readers
// never see a partial document.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	Stat(ctx context.Context, name string) (Info, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

type Writer interface {
	io.WriteCloser
	Abort() error
}

type Info struct {
	Name        string
	Size        int64
	Fingerprint uint64
	UpdatedAt   time.Time
}

type Config struct {
	Backend string `mapstructure:"backend" yaml:"backend" env:"BACKEND"`
	Dir     string `mapstructure:"dir" yaml:"dir" env:"DIR"`
	DSN     string `mapstructure:"dsn" yaml:"dsn" env:"DSN"`
}

// Open returns the backend selected by cfg.Backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendDir, "":
		return NewDir(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// ValidateName accepts names made of letters, digits, '-', '_' and '.', not starting with '.'.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}
