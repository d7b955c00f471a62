package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps the payload in a single file, replaced atomically on save.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for path. The file is not touched until
// the first Load or Save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the file. A missing or empty file reports ErrNoState.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoState
	}
	return data, nil
}

// Save writes payload to a temp file in the same directory and renames it
// over the target.
func (b *FileBackend) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (b *FileBackend) Close() error { return nil }
