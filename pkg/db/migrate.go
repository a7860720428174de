package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// TargetSchemaVersion is the highest schema version this build understands.
	TargetSchemaVersion int64 = 1
	// MemosDBComponent names the memo store in the versions table.
	MemosDBComponent = "memosdb"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component or the versions table does not exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM memos_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "memos_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all tables and records schemaVersionToSet for the
// memos component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO memos_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(insertVersionSQL, MemosDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", MemosDBComponent, schemaVersionToSet, err)
	}

	slog.Debug("schema initialized",
		slog.String("component", MemosDBComponent),
		slog.Int64("version", schemaVersionToSet))
	return nil
}

// UpgradeDB brings the memos component to appTargetSchemaVersion.
// dbIdentifierForLog is only used in messages.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	current, err := GetComponentSchemaVersion(db, MemosDBComponent)
	if err != nil {
		return err
	}

	switch {
	case current == 0:
		slog.Info("initializing database",
			slog.String("db", dbIdentifierForLog),
			slog.Int64("version", appTargetSchemaVersion))
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", MemosDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case current == appTargetSchemaVersion:
		slog.Debug("database up to date",
			slog.String("db", dbIdentifierForLog),
			slog.Int64("version", current))
		return nil
	case current < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", MemosDBComponent, dbIdentifierForLog, current, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", MemosDBComponent, dbIdentifierForLog, current, appTargetSchemaVersion)
	}
}

// Open connects to the database at path and upgrades its schema, closing
// the connection again if the upgrade fails.
func Open(path string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	conn, err := OpenDBConnection(path, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}
	if err := UpgradeDB(conn, path, TargetSchemaVersion); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
