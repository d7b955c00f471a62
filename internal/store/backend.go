// Package store persists encoded habit payloads to a JSON file or a SQLite
// snapshot table.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("store: no saved state")

// Backend reads and writes an opaque encoded payload.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Close() error
}

// Kind names a storage backend.
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// ParseKind validates a backend name from config or flags.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindJSON:
		return KindJSON, nil
	case KindSQLite:
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want json or sqlite)", s)
	}
}

// Options tunes backend construction.
type Options struct {
	// History is the number of snapshots the SQLite backend retains.
	History int
}

// Open returns the backend of the given kind rooted at path.
func Open(kind Kind, path string, opts Options) (Backend, error) {
	switch kind {
	case KindJSON, "":
		return NewFileBackend(path), nil
	case KindSQLite:
		return OpenSQLite(path, opts.History)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
