package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultHistory is the number of snapshots kept when none is configured.
const DefaultHistory = 20

// SQLiteBackend stores every save as a snapshot row and loads the newest.
type SQLiteBackend struct {
	db      *sql.DB
	history int
}

// Snapshot describes one stored save.
type Snapshot struct {
	ID         int64
	SavedAt    time.Time
	HabitCount int
	Size       int
}

// OpenSQLite opens or creates the snapshot database at dbPath. A history of
// zero or less uses DefaultHistory.
func OpenSQLite(dbPath string, history int) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening habit db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if history <= 0 {
		history = DefaultHistory
	}
	return &SQLiteBackend{db: db, history: history}, nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Load returns the newest snapshot payload.
func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return payload, nil
}

// Save inserts a snapshot and trims rows beyond the retention limit.
func (b *SQLiteBackend) Save(ctx context.Context, payload []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (saved_at, habit_count, payload) VALUES (?, ?, ?)",
		now, countElements(payload), payload,
	); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	// Keep only the newest N rows.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN
			(SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		b.history,
	); err != nil {
		return fmt.Errorf("trimming snapshots: %w", err)
	}

	return tx.Commit()
}

// History lists stored snapshots, newest first.
func (b *SQLiteBackend) History(ctx context.Context) ([]Snapshot, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT id, saved_at, habit_count, length(payload) FROM snapshots ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var savedAt string
		if err := rows.Scan(&s.ID, &savedAt, &s.HabitCount, &s.Size); err != nil {
			return nil, err
		}
		s.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// countElements reports the top-level array length of a JSON payload, or 0
// when it is not an array.
func countElements(payload []byte) int {
	var elems []json.RawMessage
	if err := json.Unmarshal(payload, &elems); err != nil {
		return 0
	}
	return len(elems)
}
