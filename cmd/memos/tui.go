package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/tui"
	"github.com/unowned-ai/memos/pkg/utils"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse memos in the terminal UI",
	Long: `Display an interactive board of memo cards. Enter opens a memo, e edits,
d deletes, n creates, / filters and c cycles the category filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The alt screen owns the terminal, so logs go to a file.
		logPath := utils.GetLogFilePath()
		if err := utils.EnsureDir(utils.GetDataDir()); err != nil {
			return err
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		logger := newLogger(logFile, cfg.App.LogLevel)

		loc, err := cfg.UI.Location()
		if err != nil {
			return err
		}

		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		watchPath := path
		if path == ":memory:" {
			watchPath = ""
		}
		logger.Info("tui: starting", slog.String("db", path))
		return tui.Run(cmd.Context(), dbConn, watchPath, tui.Options{
			Location:        loc,
			DefaultCategory: cfg.UI.DefaultCategory,
			Logger:          logger,
			Mouse:           cfg.UI.Mouse,
			MaxWidth:        cfg.UI.WordWrap,
		})
	},
}

func initTUICmd() {
	rootCmd.AddCommand(tuiCmd)
}
