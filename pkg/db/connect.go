package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// busyTimeoutMillis lets the TUI and a concurrently running MCP server share
// one database file without failing on SQLITE_BUSY.
const busyTimeoutMillis = 5000

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// ValidSyncMode reports whether mode is an accepted synchronous pragma value.
func ValidSyncMode(mode string) bool {
	return validSyncModes[strings.ToUpper(mode)]
}

// OpenDBConnection opens a SQLite database with the given options.
// baseDSN is a file path or ":memory:".
// enableWAL sets the journal_mode to WAL if true.
// syncPragma sets the synchronous pragma (OFF, NORMAL, FULL, EXTRA).
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}
	params.Add("_busy_timeout", fmt.Sprint(busyTimeoutMillis))
	params.Add("_foreign_keys", "on")

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		if !ValidSyncMode(syncPragma) {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", strings.ToUpper(syncPragma))
	}

	dsn := baseDSN
	if strings.Contains(baseDSN, "?") {
		dsn += "&" + params.Encode()
	} else {
		dsn += "?" + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same schema.
	if strings.HasPrefix(baseDSN, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	// Foreign keys drive ON DELETE CASCADE for memo_tags.
	if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign key support for DSN '%s': %w", dsn, err)
	}

	return db, nil
}

// CloseDBConnection writes the WAL back into the main database file and
// closes db.
func CloseDBConnection(db *sql.DB) error {
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		slog.Warn("db: WAL checkpoint failed during close", slog.String("error", err.Error()))
	}
	return db.Close()
}
