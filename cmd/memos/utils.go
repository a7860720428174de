package main

import (
	"database/sql"
	"io"
	"log/slog"

	"github.com/fatih/color"

	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/tui"
	"github.com/unowned-ai/memos/pkg/utils"
)

var (
	successColor = color.New(color.FgGreen).SprintFunc()
	failureColor = color.New(color.FgRed).SprintFunc()
	faint        = color.New(color.Faint).SprintFunc()
)

func success(msg string) string { return successColor("✓ ") + msg }

func failure(msg string) string { return failureColor("✗ ") + msg }

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func resolveDBPath() (string, error) {
	return utils.ResolveAndEnsureDBPath(cfg.Database.Path)
}

// openDB opens the configured database and brings its schema up to date.
// Close it with pkgdb.CloseDBConnection.
func openDB() (*sql.DB, string, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, "", err
	}
	conn, err := pkgdb.Open(path, cfg.Database.WAL, cfg.Database.Sync)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("database opened", slog.String("path", path), slog.Bool("wal", cfg.Database.WAL), slog.String("sync", cfg.Database.Sync))
	return conn, path, nil
}

// printFrame loads the markdown renderer and returns the frame cards and
// viewers print with.
func printFrame() (tui.Frame, error) {
	loc, err := cfg.UI.Location()
	if err != nil {
		return tui.Frame{}, err
	}
	renderer, err := markdown.NewGlamourLoader("").Load()
	if err != nil {
		return tui.Frame{}, err
	}
	return tui.Frame{Width: cfg.UI.WordWrap, Renderer: renderer, Location: loc}, nil
}
