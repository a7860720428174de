// Package watch reports changes to a SQLite database file made by other
// processes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits for writes to settle before it
// reports a change. A single commit touches the database, its journal and
// its WAL file several times.
var Debounce = 200 * time.Millisecond

// Watch watches the directory of dbPath and calls onChange after writes to
// the database file or its -wal/-journal companions, at most once per
// Debounce window. It returns nil when ctx is cancelled.
func Watch(ctx context.Context, dbPath string, logger *slog.Logger, onChange func()) error {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", absPath))

	watched := map[string]bool{
		absPath:              true,
		absPath + "-wal":     true,
		absPath + "-journal": true,
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			logger.Debug("watcher: database changed", slog.String("path", absPath))
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				timer.Reset(Debounce)
			}
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
