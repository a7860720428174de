package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Database.Sync != "FULL" || !cfg.Database.WAL {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
}

func TestLoadFile_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.UI.WordWrap != 80 || cfg.UI.DefaultCategory != "other" {
		t.Errorf("expected defaults, got %+v", cfg.UI)
	}
}

func TestLoadFile_OverlaysAndExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEMOS_TEST_DIR", dir)
	path := writeConfig(t, `
app:
  log_level: debug
database:
  path: ${MEMOS_TEST_DIR}/memos.db
  sync: normal
ui:
  timezone: Europe/Berlin
  default_category: work
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Database.Path != filepath.Join(dir, "memos.db") {
		t.Errorf("path = %q", cfg.Database.Path)
	}
	if !cfg.Database.WAL {
		t.Errorf("unset wal should keep its default")
	}
	if cfg.UI.DefaultCategory != "work" || cfg.UI.WordWrap != 80 {
		t.Errorf("ui = %+v", cfg.UI)
	}
	loc, err := cfg.UI.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Errorf("location = %v, %v", loc, err)
	}
}

func TestLoadFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"sync mode", "database:\n  sync: sometimes\n", "Sync"},
		{"category", "ui:\n  default_category: recipes\n", "DefaultCategory"},
		{"word wrap", "ui:\n  word_wrap: 5\n", "WordWrap"},
		{"timezone", "ui:\n  timezone: Mars/Olympus\n", "Timezone"},
		{"empty path", "database:\n  path: \"\"\n", "Path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	if _, err := LoadFile(writeConfig(t, "ui: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.yaml")
	if got := Path("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("explicit path = %q", got)
	}
	if got := Path(""); got != "/from/env.yaml" {
		t.Errorf("env path = %q", got)
	}
	t.Setenv(EnvConfigPath, "")
	if got := Path(""); !strings.HasSuffix(got, filepath.Join("memos", "config.yaml")) {
		t.Errorf("default path = %q", got)
	}
}

func TestUIConfig_LocalLocation(t *testing.T) {
	for _, name := range []string{"", "Local", "local"} {
		c := UIConfig{Timezone: name}
		loc, err := c.Location()
		if err != nil || loc != time.Local {
			t.Errorf("Location(%q) = %v, %v", name, loc, err)
		}
	}
}
