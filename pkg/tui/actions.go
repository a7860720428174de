package tui

import (
	"context"
	"database/sql"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/memos"
	"github.com/unowned-ai/memos/pkg/utils"
)

// ReloadMsg makes the board reload its memos from the database.
type ReloadMsg struct{}

type memosLoadedMsg []memos.Memo

type memoSavedMsg struct {
	memo    memos.Memo
	created bool
}

type memoDeletedMsg string

type editorDoneMsg struct {
	content string
	err     error
}

// List memos from the database and return tea data
func listMemos(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		list, err := memos.ListMemos(context.Background(), db, memos.ListQuery{})
		if err != nil {
			return err
		}
		return memosLoadedMsg(list)
	}
}

func createMemo(db *sql.DB, in memos.NewMemo) tea.Cmd {
	return func() tea.Msg {
		memo, err := memos.CreateMemo(context.Background(), db, in)
		if err != nil {
			return err
		}
		return memoSavedMsg{memo: memo, created: true}
	}
}

func updateMemo(db *sql.DB, id string, upd memos.MemoUpdate) tea.Cmd {
	return func() tea.Msg {
		memo, err := memos.UpdateMemo(context.Background(), db, id, upd)
		if err != nil {
			return err
		}
		return memoSavedMsg{memo: memo}
	}
}

func deleteMemo(db *sql.DB, id string) tea.Cmd {
	return func() tea.Msg {
		if err := memos.DeleteMemo(context.Background(), db, id); err != nil {
			return err
		}
		return memoDeletedMsg(id)
	}
}

// Load the markdown renderer once, off the update loop
func loadRenderer(l *markdown.Loader) tea.Cmd {
	return func() tea.Msg {
		_, err := l.Load()
		return markdown.LoadedMsg{Err: err}
	}
}

// Suspend the program and edit content in the user's editor
func editContent(content string) tea.Cmd {
	path, err := utils.WriteTempMarkdown(content)
	if err != nil {
		return func() tea.Msg { return editorDoneMsg{err: err} }
	}
	return tea.ExecProcess(utils.EditorCmd(path), func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return editorDoneMsg{err: err}
		}
		data, err := os.ReadFile(path)
		return editorDoneMsg{content: string(data), err: err}
	})
}
