package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/memos"
)

const (
	closeLabel        = "[x]"
	viewerEditLabel   = " Edit "
	viewerDeleteLabel = " Delete "

	maxPanelWidth = 84
	minPanelWidth = 30
	// rows around the body: borders, header, title, two rules and footer
	panelChromeRows = 7
)

// Viewer shows one memo in full over the board. It has no open/closed state
// of its own: it is visible for as long as its owner keeps it.
type Viewer struct {
	memo     memos.Memo
	onClose  func()
	onEdit   func(memos.Memo)
	onDelete func(id string)

	viewport viewport.Model
	cancel   func()
}

func NewViewer(memo memos.Memo, onClose func(), onEdit func(memos.Memo), onDelete func(id string)) *Viewer {
	return &Viewer{
		memo:     memo,
		onClose:  onClose,
		onEdit:   onEdit,
		onDelete: onDelete,
		viewport: viewport.New(0, 0),
	}
}

func (v *Viewer) Memo() memos.Memo { return v.memo }

// Mount starts listening for Escape on bus. A mounted viewer is not
// registered twice.
func (v *Viewer) Mount(bus *KeyBus) {
	if v.cancel != nil {
		return
	}
	v.cancel = bus.Listen(v.handleKey)
}

// Unmount stops listening. It is safe to call repeatedly.
func (v *Viewer) Unmount() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	v.cancel = nil
}

func (v *Viewer) Mounted() bool { return v.cancel != nil }

func (v *Viewer) handleKey(msg tea.KeyMsg) {
	if msg.Type == tea.KeyEsc {
		v.onClose()
	}
}

// BackdropZone is the id of the area around the panel.
func (v *Viewer) BackdropZone() string { return "viewer:" + v.memo.ID }

func (v *Viewer) PanelZone() string { return v.BackdropZone() + ":panel" }

func (v *Viewer) CloseZone() string { return v.PanelZone() + ":close" }

func (v *Viewer) EditZone() string { return v.PanelZone() + ":edit" }

func (v *Viewer) DeleteZone() string { return v.PanelZone() + ":delete" }

// Bind registers the viewer's handlers. Clicks inside the panel bubble up
// to the backdrop, which only closes when it is the target itself.
func (v *Viewer) Bind(s *Scene) {
	backdrop := v.BackdropZone()
	s.Handle(backdrop, "", func(ev *Event) {
		if ev.Target == backdrop {
			v.onClose()
		}
	})
	s.Handle(v.PanelZone(), backdrop, nil)
	s.Handle(v.CloseZone(), v.PanelZone(), func(ev *Event) {
		v.onClose()
	})
	s.Handle(v.EditZone(), v.PanelZone(), func(ev *Event) {
		v.onEdit(v.memo)
	})
	s.Handle(v.DeleteZone(), v.PanelZone(), func(ev *Event) {
		v.onDelete(v.memo.ID)
	})
}

// Update scrolls the body.
func (v *Viewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// Render draws the viewer centred on a width x height screen. The body
// scrolls when the memo does not fit.
func (v *Viewer) Render(f Frame, width, height int) (string, []Zone, error) {
	panel, panelZones, err := v.panel(f, width, max(height-2-panelChromeRows, 1))
	if err != nil {
		return "", nil, err
	}
	pw, ph := lipgloss.Width(panel), lipgloss.Height(panel)
	px, py := max((width-pw)/2, 0), max((height-ph)/2, 0)

	rows := make([]string, 0, max(height, py+ph))
	for range py {
		rows = append(rows, "")
	}
	pad := strings.Repeat(" ", px)
	for _, line := range strings.Split(panel, "\n") {
		rows = append(rows, pad+line)
	}
	for len(rows) < height {
		rows = append(rows, "")
	}

	zones := []Zone{{ID: v.BackdropZone(), Rect: Rect{X: 0, Y: 0, W: width, H: height}}}
	for _, z := range panelZones {
		zones = append(zones, Zone{ID: z.ID, Rect: z.Rect.Offset(px, py)})
	}
	return strings.Join(rows, "\n"), zones, nil
}

// RenderPanel draws the panel alone with the whole body, for printing.
func (v *Viewer) RenderPanel(f Frame) (string, error) {
	panel, _, err := v.panel(f, f.Width, 0)
	return panel, err
}

// panel lays out the panel. bodyRows <= 0 shows the body unclipped.
func (v *Viewer) panel(f Frame, screenWidth, bodyRows int) (string, []Zone, error) {
	pw := max(min(screenWidth, maxPanelWidth), minPanelWidth)
	inner := pw - 4

	meta := categoryBadge(v.memo.Category) + "  " +
		mutedStyle.Render("Updated "+FormatDate(v.memo.UpdatedAt, MonthLong, f.Location))
	if lipgloss.Width(meta)+1+len(closeLabel) > inner {
		meta = categoryBadge(v.memo.Category)
	}
	metaGap := max(inner-lipgloss.Width(meta)-len(closeLabel), 1)
	header := meta + strings.Repeat(" ", metaGap) + mutedStyle.Render(closeLabel)
	title := viewerTitleStyle.Render(truncate(v.memo.Title, inner))
	rule := mutedStyle.Render(strings.Repeat("─", inner))

	body, err := v.body(f.Renderer, inner)
	if err != nil {
		return "", nil, err
	}
	if bodyRows > 0 {
		v.viewport.Width = inner
		v.viewport.Height = min(bodyRows, lipgloss.Height(body))
		v.viewport.SetContent(body)
		body = v.viewport.View()
	}

	buttonsWidth := len(viewerEditLabel) + 1 + len(viewerDeleteLabel)
	footer := strings.Repeat(" ", inner-buttonsWidth) +
		primaryButtonStyle.Render(viewerEditLabel) + " " + dangerButtonStyle.Render(viewerDeleteLabel)

	view := panelStyle.Width(pw - 2).Render(strings.Join([]string{header, title, rule, body, rule, footer}, "\n"))

	footerY := lipgloss.Height(view) - 2
	buttonsX := 2 + inner - buttonsWidth
	zones := []Zone{
		{ID: v.PanelZone(), Rect: Rect{X: 0, Y: 0, W: pw, H: lipgloss.Height(view)}},
		{ID: v.CloseZone(), Rect: Rect{X: 2 + inner - len(closeLabel), Y: 1, W: len(closeLabel), H: 1}},
		{ID: v.EditZone(), Rect: Rect{X: buttonsX, Y: footerY, W: len(viewerEditLabel), H: 1}},
		{ID: v.DeleteZone(), Rect: Rect{X: buttonsX + len(viewerEditLabel) + 1, Y: footerY, W: len(viewerDeleteLabel), H: 1}},
	}
	return view, zones, nil
}

func (v *Viewer) body(r markdown.Renderer, width int) (string, error) {
	var content string
	if r != nil {
		out, err := r.Render(v.memo.Content, markdown.Options{
			Width:       width,
			InheritFont: true,
		})
		if err != nil {
			return "", err
		}
		content = out
	}
	if len(v.memo.Tags) == 0 {
		return content, nil
	}
	chips := lo.Map(v.memo.Tags, func(tag string, _ int) string {
		return tagStyle.Render("#" + tag)
	})
	tags := lipgloss.NewStyle().Width(width).Render(strings.Join(chips, " "))
	return content + "\n\n" + subtitleStyle.Render("Tags") + "\n" + tags, nil
}
