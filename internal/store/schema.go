package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    saved_at    TEXT NOT NULL,
    habit_count INTEGER NOT NULL,
    payload     BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_saved ON snapshots(saved_at);
`
