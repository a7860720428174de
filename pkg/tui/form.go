package tui

import (
	"errors"
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/memos/pkg/memos"
)

const (
	fieldTitle = iota
	fieldCategory
	fieldTags
	fieldCount
)

// memoForm edits the fields of a new or existing memo. Content is edited in
// the external editor.
type memoForm struct {
	memo    memos.Memo // zero ID while creating
	inputs  []textinput.Model
	focus   int
	content string
	err     string
}

func newMemoForm(memo memos.Memo, defaultCategory string) *memoForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.SetValue(memo.Title)

	category := textinput.New()
	category.Placeholder = strings.Join(memos.Categories(), " | ")
	category.CharLimit = 32
	if memo.ID == "" && memo.Category == "" {
		category.SetValue(defaultCategory)
	} else {
		category.SetValue(memo.Category)
	}

	tags := textinput.New()
	tags.Placeholder = "comma separated tags (optional)"
	tags.CharLimit = 512
	tags.SetValue(strings.Join(memo.Tags, ", "))

	f := &memoForm{
		memo:    memo,
		inputs:  []textinput.Model{title, category, tags},
		content: memo.Content,
	}
	f.setFocus(fieldTitle)
	return f
}

func (f *memoForm) creating() bool { return f.memo.ID == "" }

func (f *memoForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// update routes typing to the focused input
func (f *memoForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *memoForm) title() string { return strings.TrimSpace(f.inputs[fieldTitle].Value()) }

func (f *memoForm) category() string { return strings.TrimSpace(f.inputs[fieldCategory].Value()) }

func (f *memoForm) tags() []string { return memos.ParseTagList(f.inputs[fieldTags].Value()) }

func (f *memoForm) validate() error {
	if f.title() == "" {
		return errors.New("title cannot be empty")
	}
	return memos.ValidateCategory(f.category())
}

func (f *memoForm) newMemo() memos.NewMemo {
	return memos.NewMemo{
		Title:    f.title(),
		Content:  f.content,
		Category: f.category(),
		Tags:     f.tags(),
	}
}

func (f *memoForm) memoUpdate() memos.MemoUpdate {
	title, category, tags := f.title(), f.category(), f.tags()
	content := f.content
	return memos.MemoUpdate{
		Title:    &title,
		Content:  &content,
		Category: &category,
		Tags:     &tags,
	}
}

func (f *memoForm) view(width int) string {
	var b strings.Builder
	heading := "Edit Memo"
	if f.creating() {
		heading = "New Memo"
	}
	b.WriteString(subtitleStyle.Render(heading) + "\n\n")

	labels := []string{"Title", "Category", "Tags"}
	for i, input := range f.inputs {
		input.Width = max(width-14, 10)
		label := fmt.Sprintf("%-10s", labels[i]+":")
		if i == f.focus {
			label = subtitleStyle.Render(label)
		} else {
			label = inactiveStyle.Render(label)
		}
		b.WriteString(label + " " + input.View() + "\n")
	}

	lines := strings.Count(f.content, "\n")
	if f.content != "" && !strings.HasSuffix(f.content, "\n") {
		lines++
	}
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("Content: %d lines, %d characters", lines, len([]rune(f.content)))) + "\n\n")
	b.WriteString(footerStyle.Render("(tab to switch field • ctrl+e to edit content • ctrl+s to save • esc to cancel)"))

	if f.err != "" {
		b.WriteString("\n\n" + errorStyle.Render(f.err))
	}
	return b.String()
}
