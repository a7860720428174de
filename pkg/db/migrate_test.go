package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3" // SQLite driver, needed for tests
)

func tableNames(t *testing.T, conn *sql.DB) map[string]bool {
	t.Helper()
	rows, err := conn.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names[name] = true
	}
	return names
}

func TestUpgradeDB(t *testing.T) {
	tests := []struct {
		name        string
		stored      int64 // 0 = fresh database
		target      int64
		wantVersion int64
		wantErr     string
	}{
		{name: "fresh database is initialized", target: TargetSchemaVersion, wantVersion: TargetSchemaVersion},
		{name: "up to date is a no-op", stored: TargetSchemaVersion, target: TargetSchemaVersion, wantVersion: TargetSchemaVersion},
		{name: "older schema is refused", stored: 1, target: 2, wantVersion: 1, wantErr: "has schema version 1, which is older than application's target schema version 2"},
		{name: "newer schema is refused", stored: 2, target: 1, wantVersion: 2, wantErr: "has schema version 2, which is newer than application's target schema version 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := OpenDBConnection(":memory:", true, "NORMAL")
			if err != nil {
				t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
			}
			defer conn.Close()

			if tt.stored > 0 {
				if err := InitializeSchema(conn, tt.stored); err != nil {
					t.Fatalf("InitializeSchema(%d) failed: %v", tt.stored, err)
				}
			}

			err = UpgradeDB(conn, ":memory:", tt.target)
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("UpgradeDB failed: %v", err)
			case tt.wantErr != "" && err == nil:
				t.Fatalf("UpgradeDB succeeded, want error containing %q", tt.wantErr)
			case tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr):
				t.Errorf("UpgradeDB error = %q, want it to contain %q", err, tt.wantErr)
			}

			version, err := GetComponentSchemaVersion(conn, MemosDBComponent)
			if err != nil {
				t.Fatalf("GetComponentSchemaVersion failed: %v", err)
			}
			if version != tt.wantVersion {
				t.Errorf("schema version = %d, want %d", version, tt.wantVersion)
			}

			tables := tableNames(t, conn)
			for _, name := range []string{"memos_versions", "memos", "memo_tags"} {
				if !tables[name] {
					t.Errorf("table %q missing", name)
				}
			}
		})
	}
}

func TestGetComponentSchemaVersion_NoVersionsTable(t *testing.T) {
	conn, err := OpenDBConnection(":memory:", false, "")
	if err != nil {
		t.Fatalf("OpenDBConnection failed: %v", err)
	}
	defer conn.Close()

	version, err := GetComponentSchemaVersion(conn, MemosDBComponent)
	if err != nil {
		t.Fatalf("expected no error before the schema exists, got %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
}

func TestTagsCascadeOnDelete(t *testing.T) {
	conn, err := Open(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`INSERT INTO memos (id, title, content, category, created_at, updated_at) VALUES ('m1', 't', '', 'other', 1, 1)`,
		`INSERT INTO memo_tags (memo_id, position, tag) VALUES ('m1', 0, 'go'), ('m1', 1, 'cli')`,
		`DELETE FROM memos WHERE id = 'm1'`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("exec %q failed: %v", stmt, err)
		}
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM memo_tags`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("%d tags left after deleting their memo", n)
	}
}

func TestOpen_InitializesAndForeignKeys(t *testing.T) {
	db, err := Open(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if !tableNames(t, db)["memos"] {
		t.Error("memos table missing after Open")
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys;").Scan(&fk); err != nil {
		t.Fatalf("failed to read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("Expected foreign_keys to be enabled, got %d", fk)
	}
}

func TestOpenDBConnection_InvalidSyncMode(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "SOMETIMES")
	if err == nil {
		t.Fatal("Expected an error for an invalid sync pragma")
	}
	if !strings.Contains(err.Error(), "invalid sync pragma value") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidSyncMode(t *testing.T) {
	for mode, want := range map[string]bool{"full": true, "NORMAL": true, "extra": true, "off": true, "fast": false, "": false} {
		if got := ValidSyncMode(mode); got != want {
			t.Errorf("ValidSyncMode(%q) = %v, want %v", mode, got, want)
		}
	}
}

func TestCloseDBConnection_FileWithWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memos.db")
	conn, err := Open(path, true, "NORMAL")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO memos (id, title, content, category, created_at, updated_at) VALUES ('a', 't', '', 'other', 1, 1)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := CloseDBConnection(conn); err != nil {
		t.Fatalf("CloseDBConnection failed: %v", err)
	}
	if info, err := os.Stat(path + "-wal"); err == nil && info.Size() != 0 {
		t.Errorf("WAL not truncated on close, size %d", info.Size())
	}
}
