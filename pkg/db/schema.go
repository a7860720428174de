package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// Timestamps are stored as unix milliseconds so ORDER BY works numerically.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS memos_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS memos (
    id TEXT PRIMARY KEY,
    title VARCHAR(256) NOT NULL,
    content TEXT NOT NULL,
    category VARCHAR(64) NOT NULL DEFAULT 'other',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memos_updated_at ON memos(updated_at);
CREATE INDEX IF NOT EXISTS idx_memos_category ON memos(category);

CREATE TABLE IF NOT EXISTS memo_tags (
    memo_id TEXT NOT NULL REFERENCES memos(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag VARCHAR(256) NOT NULL,
    PRIMARY KEY (memo_id, position)
);

CREATE INDEX IF NOT EXISTS idx_memo_tags_tag ON memo_tags(tag);
`
)
