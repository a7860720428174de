package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Offset moves r by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Zone is a named clickable area relative to its component's origin.
type Zone struct {
	ID   string
	Rect Rect
}

// Event is an activation travelling from its target zone up to the root.
type Event struct {
	// Target is the zone the activation started at. It does not change
	// while the event bubbles.
	Target string
	// Current is the zone whose handler is running.
	Current string

	stopped bool
}

// StopPropagation keeps the event from reaching any further ancestor.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether a handler stopped the event.
func (e *Event) Stopped() bool { return e.stopped }

// Handler reacts to an event reaching its zone.
type Handler func(ev *Event)

// Scene is the zone tree of one frame. Components Bind their handlers and
// parent links, the layout Marks where each zone was drawn, and clicks and
// key activations are dispatched against it.
type Scene struct {
	order    []string
	rects    map[string]Rect
	parents  map[string]string
	handlers map[string]Handler
}

func NewScene() *Scene {
	s := &Scene{}
	s.Reset()
	return s
}

// Reset forgets every zone.
func (s *Scene) Reset() {
	s.order = s.order[:0]
	s.rects = map[string]Rect{}
	s.parents = map[string]string{}
	s.handlers = map[string]Handler{}
}

// Handle registers the handler for id under parent. An empty parent makes
// id a root; a nil handler only links id into the tree.
func (s *Scene) Handle(id, parent string, h Handler) {
	s.parents[id] = parent
	s.handlers[id] = h
}

// Mark records where id was drawn. Later marks are on top of earlier ones.
func (s *Scene) Mark(id string, r Rect) {
	if _, ok := s.rects[id]; !ok {
		s.order = append(s.order, id)
	}
	s.rects[id] = r
}

// Rect returns the drawn area of id.
func (s *Scene) Rect(id string) (Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}

// HitTest returns the topmost zone under (x, y), or "".
func (s *Scene) HitTest(x, y int) string {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if s.rects[id].Contains(x, y) {
			return id
		}
	}
	return ""
}

// Dispatch delivers an event targeted at id to id and then to each ancestor
// until a handler stops it. It reports whether any handler ran.
func (s *Scene) Dispatch(id string) bool {
	ev := &Event{Target: id}
	handled := false
	for cur := id; cur != ""; cur = s.parents[cur] {
		h := s.handlers[cur]
		if h == nil {
			continue
		}
		ev.Current = cur
		h(ev)
		handled = true
		if ev.stopped {
			break
		}
	}
	return handled
}

// Click dispatches to the topmost zone under (x, y).
func (s *Scene) Click(x, y int) bool {
	id := s.HitTest(x, y)
	if id == "" {
		return false
	}
	return s.Dispatch(id)
}

// KeyBus fans key presses out to listeners, the terminal counterpart of a
// window-level keydown listener.
type KeyBus struct {
	nextID    int
	listeners []keyListener
}

type keyListener struct {
	id int
	fn func(tea.KeyMsg)
}

// Listen registers fn and returns the function that removes it. Calling
// the returned function more than once is harmless.
func (b *KeyBus) Listen(fn func(tea.KeyMsg)) (cancel func()) {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, keyListener{id: id, fn: fn})
	return func() {
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch calls every listener registered at the time of the call.
func (b *KeyBus) Dispatch(msg tea.KeyMsg) {
	snapshot := append([]keyListener(nil), b.listeners...)
	for _, l := range snapshot {
		l.fn(msg)
	}
}

// Len is the number of registered listeners.
func (b *KeyBus) Len() int { return len(b.listeners) }
