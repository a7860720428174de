package tui

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/unowned-ai/memos/pkg/watch"
)

// Run starts the board and blocks until the user quits or ctx is done. When
// dbPath is set the board reloads whenever the database file changes on
// disk, so edits made from another process show up.
func Run(ctx context.Context, db *sql.DB, dbPath string, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	board := NewBoard(db, opts)
	defer board.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(board, programOpts...)

	if dbPath != "" {
		g.Go(func() error {
			err := watch.Watch(gctx, dbPath, logger, func() {
				p.Send(ReloadMsg{})
			})
			if err != nil {
				// The board still works without live reload
				logger.Warn("tui: database watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
