package tui

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/memos"
)

// Options configure a Board.
type Options struct {
	// Location dates are shown in. Nil means local time.
	Location *time.Location
	// DefaultCategory prefills the category of new memos.
	DefaultCategory string
	// Renderer loads the markdown renderer. Nil uses the glamour default.
	Renderer *markdown.Loader
	Logger   *slog.Logger
	// Mouse turns on click and wheel support.
	Mouse bool
	// MaxWidth caps the card width. Zero uses the full terminal width.
	MaxWidth int
}

// Board is the memo list. It owns the memos, decides when a viewer is
// shown and performs the edits and deletes cards and viewers ask for.
type Board struct {
	db              *sql.DB
	loader          *markdown.Loader
	loc             *time.Location
	logger          *slog.Logger
	defaultCategory string
	maxWidth        int

	all      []memos.Memo
	visible  []memos.Memo // all narrowed by category and filter
	cursor   int          // Index of selected memo in visible
	offset   int          // Index of first card drawn
	selectID string       // memo to select once the next load arrives

	category  string // "" = all categories
	filter    textinput.Model
	filtering bool

	viewer     *Viewer
	confirm    *Confirmation
	confirmIdx int // 0 = "Yes" selected, 1 = "No"
	form       *memoForm

	keys    *KeyBus
	scene   *Scene
	pending []tea.Cmd // commands queued by callbacks during one Update

	width    int
	height   int
	status   string
	err      error
	quitting bool
}

func NewBoard(db *sql.DB, opts Options) *Board {
	loader := opts.Renderer
	if loader == nil {
		loader = markdown.NewGlamourLoader("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultCategory := opts.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = memos.DefaultCategory
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter memos"
	filter.CharLimit = 128

	return &Board{
		db:              db,
		loader:          loader,
		loc:             opts.Location,
		logger:          logger,
		defaultCategory: defaultCategory,
		maxWidth:        opts.MaxWidth,
		all:             []memos.Memo{},
		visible:         []memos.Memo{},
		filter:          filter,
		keys:            &KeyBus{},
		scene:           NewScene(),
	}
}

// Execute commands concurrently with no ordering guarantees during initialization
func (b *Board) Init() tea.Cmd {
	return tea.Batch(
		listMemos(b.db),
		loadRenderer(b.loader),
	)
}

// Close hides the viewer, if any, and releases its key listener.
func (b *Board) Close() {
	b.closeViewer()
}

// Processes events like window resize, errors, loaded data, and key presses
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case markdown.LoadedMsg:
		if msg.Err != nil {
			b.fail(fmt.Errorf("load markdown renderer: %w", msg.Err))
		}
		return b, nil

	case error:
		b.fail(msg)
		return b, nil

	case ReloadMsg:
		b.logger.Debug("board: reloading memos")
		return b, listMemos(b.db)

	case memosLoadedMsg:
		b.setMemos(msg)
		return b, nil

	case memoSavedMsg:
		b.selectID = msg.memo.ID
		if msg.created {
			b.status = "Created " + msg.memo.ShortID()
		} else {
			b.status = "Saved " + msg.memo.ShortID()
		}
		b.logger.Info("board: memo saved", slog.String("id", msg.memo.ID), slog.Bool("created", msg.created))
		return b, listMemos(b.db)

	case memoDeletedMsg:
		id := string(msg)
		b.all = lo.Reject(b.all, func(m memos.Memo, _ int) bool { return m.ID == id })
		b.refilter()
		if b.viewer != nil && b.viewer.Memo().ID == id {
			b.closeViewer()
		}
		b.status = "Deleted " + memos.Memo{ID: id}.ShortID()
		b.logger.Info("board: memo deleted", slog.String("id", id))
		return b, nil

	case editorDoneMsg:
		if b.form == nil {
			return b, nil
		}
		if msg.err != nil {
			b.form.err = "Editor failed: " + msg.err.Error()
			return b, nil
		}
		b.form.content = msg.content
		b.form.err = ""
		return b, nil

	case tea.MouseMsg:
		return b.handleMouse(msg)

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	// Cursor blinks and other ticks go to whatever is showing
	var cmds []tea.Cmd
	if b.form != nil {
		cmds = append(cmds, b.form.update(msg))
	}
	if b.filtering {
		var cmd tea.Cmd
		b.filter, cmd = b.filter.Update(msg)
		cmds = append(cmds, cmd)
	}
	if b.viewer != nil {
		cmds = append(cmds, b.viewer.Update(msg))
	}
	return b, tea.Batch(cmds...)
}

func (b *Board) fail(err error) {
	b.logger.Error("board: error", slog.String("error", err.Error()))
	b.err = err
}

// setMemos replaces the loaded memos. An open viewer follows its memo: it
// is reopened when the memo changed and closed when it is gone.
func (b *Board) setMemos(list []memos.Memo) {
	b.all = list
	b.refilter()

	if b.selectID != "" {
		if i := lo.IndexOf(lo.Map(b.visible, func(m memos.Memo, _ int) string { return m.ID }), b.selectID); i >= 0 {
			b.cursor = i
		}
		b.selectID = ""
	}

	if b.viewer == nil {
		return
	}
	current, ok := lo.Find(b.all, func(m memos.Memo) bool { return m.ID == b.viewer.Memo().ID })
	switch {
	case !ok:
		b.closeViewer()
	case !current.UpdatedAt.Equal(b.viewer.Memo().UpdatedAt):
		b.openViewer(current)
	}
}

// refilter narrows all memos to the category and filter text
func (b *Board) refilter() {
	list := b.all
	if b.category != "" {
		list = lo.Filter(list, func(m memos.Memo, _ int) bool { return m.Category == b.category })
	}
	b.visible = memos.Filter(list, b.filter.Value())
	if b.cursor >= len(b.visible) {
		b.cursor = max(len(b.visible)-1, 0)
	}
	if b.offset > b.cursor {
		b.offset = b.cursor
	}
}

func (b *Board) newCard(memo memos.Memo) *Card {
	return NewCard(memo,
		func() { b.openViewer(memo) },
		b.beginEdit,
		b.queueDelete,
		WithAsker(b.ask),
	)
}

func (b *Board) openViewer(memo memos.Memo) {
	b.closeViewer()
	b.viewer = NewViewer(memo, b.closeViewer, b.beginEdit, b.queueDelete)
	b.viewer.Mount(b.keys)
}

func (b *Board) closeViewer() {
	if b.viewer == nil {
		return
	}
	b.viewer.Unmount()
	b.viewer = nil
}

func (b *Board) beginEdit(memo memos.Memo) {
	b.closeViewer()
	b.form = newMemoForm(memo, b.defaultCategory)
}

func (b *Board) queueDelete(id string) {
	b.pending = append(b.pending, deleteMemo(b.db, id))
}

// ask shows the confirmation as a modal with "No" preselected
func (b *Board) ask(c *Confirmation) {
	b.confirm = c
	b.confirmIdx = 1
}

// flush hands the commands queued by callbacks to the runtime
func (b *Board) flush(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(b.pending, cmds...)
	b.pending = nil
	return tea.Batch(cmds...)
}

func (b *Board) selectedCard() *Card {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return nil
	}
	return b.newCard(b.visible[b.cursor])
}

// activate dispatches a keyboard activation to a zone of the selected card
func (b *Board) activate(zone func(*Card) string) {
	card := b.selectedCard()
	if card == nil {
		return
	}
	s := NewScene()
	card.Bind(s)
	s.Dispatch(zone(card))
}

func (b *Board) activateViewer(zone func(*Viewer) string) {
	s := NewScene()
	b.viewer.Bind(s)
	s.Dispatch(zone(b.viewer))
}

func (b *Board) quit() (tea.Model, tea.Cmd) {
	b.quitting = true
	b.closeViewer()
	// Exit alt screen before quitting so the goodbye message displays
	return b, tea.Sequence(tea.ExitAltScreen, tea.Quit)
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return b.quit()
	}

	if b.err != nil {
		// Any key dismisses the error, q still quits
		if msg.String() == "q" {
			return b.quit()
		}
		b.err = nil
		return b, nil
	}

	switch {
	case b.confirm != nil:
		return b.confirmKey(msg)
	case b.form != nil:
		return b.formKey(msg)
	case b.viewer != nil:
		return b.viewerKey(msg)
	case b.filtering:
		return b.filterKey(msg)
	}

	// Root Navigation Mode
	switch msg.String() {
	case "q":
		return b.quit()

	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}

	case "down", "j":
		if b.cursor < len(b.visible)-1 {
			b.cursor++
		}

	case "home", "g":
		b.cursor = 0

	case "end", "G":
		b.cursor = max(len(b.visible)-1, 0)

	case "enter":
		b.activate((*Card).Zone)

	case "e":
		b.activate((*Card).EditZone)

	case "d":
		b.activate((*Card).DeleteZone)

	case "n":
		b.form = newMemoForm(memos.Memo{}, b.defaultCategory)
		return b, textinput.Blink

	case "/":
		b.filtering = true
		b.filter.Focus()
		return b, textinput.Blink

	case "c":
		b.category = memos.NextCategory(b.category)
		b.cursor, b.offset = 0, 0
		b.refilter()

	case "r":
		return b, listMemos(b.db)

	case "esc":
		if b.filter.Value() != "" {
			b.filter.SetValue("")
			b.refilter()
		}
	}
	return b, b.flush()
}

func (b *Board) viewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.keys.Dispatch(msg)
	if b.viewer == nil {
		return b, b.flush()
	}
	switch msg.String() {
	case "e":
		b.activateViewer((*Viewer).EditZone)
		return b, b.flush(textinput.Blink)
	case "d":
		b.activateViewer((*Viewer).DeleteZone)
		return b, b.flush()
	}
	return b, b.flush(b.viewer.Update(msg))
}

func (b *Board) confirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		b.confirmIdx = 0
	case "down", "j", "right", "l":
		b.confirmIdx = 1
	case "y":
		b.settleConfirm(true)
	case "n", "esc":
		b.settleConfirm(false)
	case "enter":
		b.settleConfirm(b.confirmIdx == 0)
	}
	return b, b.flush()
}

func (b *Board) settleConfirm(accept bool) {
	c := b.confirm
	b.confirm = nil
	if accept {
		c.Accept()
	} else {
		c.Decline()
	}
}

func (b *Board) formKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		b.form = nil
		return b, nil
	case tea.KeyTab, tea.KeyDown:
		b.form.setFocus(b.form.focus + 1)
		return b, nil
	case tea.KeyShiftTab, tea.KeyUp:
		b.form.setFocus(b.form.focus - 1)
		return b, nil
	case tea.KeyCtrlE:
		return b, editContent(b.form.content)
	case tea.KeyCtrlS:
		return b, b.saveForm()
	case tea.KeyEnter:
		if b.form.focus == fieldTags {
			return b, b.saveForm()
		}
		b.form.setFocus(b.form.focus + 1)
		return b, nil
	}
	return b, b.form.update(msg)
}

func (b *Board) saveForm() tea.Cmd {
	if err := b.form.validate(); err != nil {
		b.form.err = err.Error()
		return nil
	}
	form := b.form
	b.form = nil
	if form.creating() {
		return createMemo(b.db, form.newMemo())
	}
	return updateMemo(b.db, form.memo.ID, form.memoUpdate())
}

func (b *Board) filterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		b.filtering = false
		b.filter.Blur()
		b.filter.SetValue("")
		b.refilter()
		return b, nil
	case tea.KeyEnter:
		b.filtering = false
		b.filter.Blur()
		return b, nil
	}
	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.cursor, b.offset = 0, 0
	b.refilter()
	return b, cmd
}

func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.err != nil || b.confirm != nil || b.form != nil || msg.Action != tea.MouseActionPress {
		return b, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		b.scene.Click(msg.X, msg.Y)
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if b.viewer != nil {
			return b, b.viewer.Update(msg)
		}
		if msg.Button == tea.MouseButtonWheelUp && b.cursor > 0 {
			b.cursor--
		} else if msg.Button == tea.MouseButtonWheelDown && b.cursor < len(b.visible)-1 {
			b.cursor++
		}
	}
	return b, b.flush()
}

const (
	headerRows = 3 // title, filter line, blank
	footerRows = 2 // blank, help
)

// Assembles the UI string for each frame and records the clickable zones
func (b *Board) View() string {
	if b.quitting {
		return "Closing memos. Everything is saved.\n"
	}
	if b.err != nil {
		return fmt.Sprintf("Error: %v\n\n", b.err) +
			footerStyle.Render("(any key to dismiss, q to quit)")
	}

	b.scene.Reset()
	width := max(b.width, minCardWidth)
	frame := Frame{Width: width, Renderer: b.loader.Ready(), Location: b.loc}

	if b.viewer != nil {
		b.viewer.Bind(b.scene)
		view, zones, err := b.viewer.Render(frame, width, b.height)
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		for _, z := range zones {
			b.scene.Mark(z.ID, z.Rect)
		}
		return view
	}

	titleBar := titleStyle.Width(width).Render(b.titleText())

	var body string
	switch {
	case b.confirm != nil:
		body = b.confirmView()
	case b.form != nil:
		body = b.form.view(width)
	default:
		cards := frame
		if b.maxWidth > 0 {
			cards.Width = max(min(cards.Width, b.maxWidth), minCardWidth)
		}
		list, err := b.listView(cards, headerRows, max(b.height-headerRows-footerRows, 1))
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		body = list
	}

	bodyHeight := max(b.height-headerRows-footerRows, 0)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(max(bodyHeight, 1)).Render(body)

	footerText := "↑/↓ to navigate • enter to view • e to edit • d to delete • n to create • / to filter • c for category • q to quit"
	footerBar := footerStyle.Width(width).Render(footerText)

	return titleBar + "\n" + b.filterLine() + "\n\n" + body + "\n\n" + footerBar
}

func (b *Board) titleText() string {
	label := "All"
	if b.category != "" {
		label = memos.LookupCategory(b.category).Label
	}
	return fmt.Sprintf("Memos - %s (%d/%d)", label, len(b.visible), len(b.all))
}

func (b *Board) filterLine() string {
	if b.filtering {
		return b.filter.View()
	}
	var parts []string
	if v := b.filter.Value(); v != "" {
		parts = append(parts, "filter: "+v)
	}
	if b.loader.Ready() == nil {
		parts = append(parts, "loading renderer...")
	}
	if b.status != "" {
		parts = append(parts, b.status)
	}
	return mutedStyle.Render(strings.Join(parts, " • "))
}

// listView draws the cards that fit in rows, scrolling so the selected card
// is visible, and marks their zones starting at screen row top.
func (b *Board) listView(frame Frame, top, rows int) (string, error) {
	if len(b.visible) == 0 {
		if len(b.all) == 0 {
			return "No memos yet. Press 'n' to create one.", nil
		}
		return "No memos match.", nil
	}
	if b.cursor < b.offset {
		b.offset = b.cursor
	}

	for {
		b.scene.Reset()
		var views []string
		y, cursorShown := 0, false
		for i := b.offset; i < len(b.visible); i++ {
			card := b.newCard(b.visible[i])
			view, zones, err := card.Render(frame, i == b.cursor)
			if err != nil {
				return "", err
			}
			h := lipgloss.Height(view)
			if y+h > rows && i != b.offset {
				break
			}
			card.Bind(b.scene)
			for _, z := range zones {
				b.scene.Mark(z.ID, z.Rect.Offset(0, top+y))
			}
			views = append(views, view)
			cursorShown = cursorShown || i == b.cursor
			y += h
		}
		if cursorShown || b.offset >= b.cursor {
			return strings.Join(views, "\n"), nil
		}
		b.offset++
	}
}

func (b *Board) confirmView() string {
	var sb strings.Builder
	sb.WriteString(subtitleStyle.Render("Delete Memo") + "\n\n")
	sb.WriteString(b.confirm.Prompt + "\n\n")
	yesOpt, noOpt := "Yes", "No"
	if b.confirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	sb.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
	sb.WriteString(footerStyle.Render("(enter to confirm, esc to cancel, up/down to switch)"))
	return sb.String()
}
