package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/memos"
)

const (
	editLabel   = "[edit]"
	deleteLabel = "[del]"

	minCardWidth    = 24
	cardPreviewRows = 3
)

// Frame carries what components need to draw themselves.
type Frame struct {
	Width int
	// Renderer is nil while the markdown renderer is still loading; content
	// areas stay empty until it arrives.
	Renderer markdown.Renderer
	Location *time.Location
}

// CardOption configures a Card.
type CardOption func(*Card)

// WithAsker sets how the card asks for delete confirmation. Without an
// asker every delete is declined.
func WithAsker(ask Asker) CardOption {
	return func(c *Card) { c.ask = ask }
}

// Card is the compact summary of one memo.
type Card struct {
	memo     memos.Memo
	onView   func()
	onEdit   func(memos.Memo)
	onDelete func(id string)
	ask      Asker
}

func NewCard(memo memos.Memo, onView func(), onEdit func(memos.Memo), onDelete func(id string), opts ...CardOption) *Card {
	c := &Card{memo: memo, onView: onView, onEdit: onEdit, onDelete: onDelete}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Card) Memo() memos.Memo { return c.memo }

// Zone is the id of the card surface.
func (c *Card) Zone() string { return "card:" + c.memo.ID }

func (c *Card) EditZone() string { return c.Zone() + ":edit" }

func (c *Card) DeleteZone() string { return c.Zone() + ":delete" }

// Bind registers the card's handlers. Edit and delete stop the event so the
// surface never sees it.
func (c *Card) Bind(s *Scene) {
	s.Handle(c.Zone(), "", func(ev *Event) {
		c.onView()
	})
	s.Handle(c.EditZone(), c.Zone(), func(ev *Event) {
		ev.StopPropagation()
		c.onEdit(c.memo)
	})
	s.Handle(c.DeleteZone(), c.Zone(), func(ev *Event) {
		ev.StopPropagation()
		if c.ask == nil {
			return
		}
		id := c.memo.ID
		c.ask(NewConfirmation(DeletePrompt, func() {
			c.onDelete(id)
		}))
	})
}

// Render draws the card f.Width cells wide and returns its zones relative
// to the card's top-left corner. Renderer errors are returned as is.
func (c *Card) Render(f Frame, selected bool) (string, []Zone, error) {
	width := max(f.Width, minCardWidth)
	inner := width - 4 // border and padding

	actionsWidth := len(editLabel) + 1 + len(deleteLabel)
	title := truncate(c.memo.Title, inner-actionsWidth-1)
	gap := inner - actionsWidth - lipgloss.Width(title)
	header := cardTitleStyle.Render(title) + strings.Repeat(" ", gap) +
		editButtonStyle.Render(editLabel) + " " + deleteButtonStyle.Render(deleteLabel)

	meta := categoryBadge(c.memo.Category) + "  " +
		mutedStyle.Render(FormatDate(c.memo.UpdatedAt, MonthShort, f.Location))

	preview, err := c.preview(f.Renderer, inner)
	if err != nil {
		return "", nil, err
	}

	lines := []string{header, meta, "", preview}
	if tags := tagChips(c.memo.Tags); tags != "" {
		lines = append(lines, "", tags)
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	view := style.Width(width - 2).Render(strings.Join(lines, "\n"))

	actionsX := 2 + inner - actionsWidth
	zones := []Zone{
		{ID: c.Zone(), Rect: Rect{X: 0, Y: 0, W: width, H: lipgloss.Height(view)}},
		{ID: c.EditZone(), Rect: Rect{X: actionsX, Y: 1, W: len(editLabel), H: 1}},
		{ID: c.DeleteZone(), Rect: Rect{X: actionsX + len(editLabel) + 1, Y: 1, W: len(deleteLabel), H: 1}},
	}
	return view, zones, nil
}

func (c *Card) preview(r markdown.Renderer, width int) (string, error) {
	if r == nil {
		return "", nil
	}
	out, err := r.Render(Preview(c.memo.Content), markdown.Options{
		Width:             width,
		InheritColor:      true,
		InheritFont:       true,
		InheritLineHeight: true,
	})
	if err != nil {
		return "", err
	}
	lines := strings.Split(out, "\n")
	if len(lines) > cardPreviewRows {
		lines = lines[:cardPreviewRows]
	}
	lines = lo.Map(lines, func(line string, _ int) string {
		return cardPreviewStyle.Render(truncate(strings.TrimRight(line, " "), width))
	})
	return strings.Join(lines, "\n"), nil
}

// tagChips renders the first MaxCardTags tags and a "+N" chip for the rest.
func tagChips(tags []string) string {
	shown, more := VisibleTags(tags)
	if len(shown) == 0 {
		return ""
	}
	chips := lo.Map(shown, func(tag string, _ int) string {
		return tagStyle.Render("#" + tag)
	})
	if more > 0 {
		chips = append(chips, moreTagStyle.Render(fmt.Sprintf("+%d", more)))
	}
	return strings.Join(chips, " ")
}

// truncate shortens plain text to at most width cells, marking the cut
// with "..".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 2 {
		return strings.Repeat(".", width)
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-2 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + ".."
}
