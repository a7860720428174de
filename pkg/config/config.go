package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/memos"
	"github.com/unowned-ai/memos/pkg/utils"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "MEMOS_CONFIG"

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	UI       UIConfig          `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.UI.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// DatabaseConfig holds SQLite database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	WAL  bool   `yaml:"wal"`
	Sync string `yaml:"sync"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Sync, validation.Required, validation.By(func(v any) error {
			if !db.ValidSyncMode(v.(string)) {
				return errors.New("must be one of OFF, NORMAL, FULL, EXTRA")
			}
			return nil
		})),
	)
}

// UIConfig holds display settings shared by the TUI and the CLI.
type UIConfig struct {
	Timezone        string `yaml:"timezone"`
	WordWrap        int    `yaml:"word_wrap"`
	DefaultCategory string `yaml:"default_category"`
	Mouse           bool   `yaml:"mouse"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	categories := make([]any, 0, len(memos.Categories()))
	for _, code := range memos.Categories() {
		categories = append(categories, code)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Timezone, validation.By(func(v any) error {
			_, err := (&UIConfig{Timezone: v.(string)}).Location()
			return err
		})),
		validation.Field(&c.WordWrap, validation.Required, validation.Min(20), validation.Max(400)),
		validation.Field(&c.DefaultCategory, validation.Required, validation.In(categories...)),
	)
}

// Location returns the configured time zone. An empty name or "Local"
// means the system zone.
func (c *UIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Database: DatabaseConfig{
			Path: utils.GetDefaultDBPathOnly(),
			WAL:  true,
			Sync: "FULL",
		},
		UI: UIConfig{
			Timezone:        "Local",
			WordWrap:        80,
			DefaultCategory: memos.DefaultCategory,
			Mouse:           true,
		},
	}
}

// Path picks the config file: the explicit path if set, then $MEMOS_CONFIG,
// then the platform default.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return utils.GetDefaultConfigPath()
}

// LoadFile returns the defaults overlaid with the file at path. A missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := LoadOptional(path, cfg); err != nil {
		return nil, err
	}
	expanded, err := utils.ExpandHome(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	cfg.Database.Path = expanded
	return cfg, nil
}
