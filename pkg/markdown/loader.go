package markdown

import (
	"sync"
	"sync/atomic"
)

// Loader acquires a Renderer lazily: the first Load runs the constructor,
// every later call returns the same result. Ready never blocks and reports
// nil until the first Load has finished.
type Loader struct {
	newRenderer func() (Renderer, error)

	once     sync.Once
	renderer Renderer
	err      error
	ready    atomic.Pointer[Renderer]
}

// NewLoader wraps a renderer constructor.
func NewLoader(newRenderer func() (Renderer, error)) *Loader {
	return &Loader{newRenderer: newRenderer}
}

// NewGlamourLoader is a Loader for NewGlamour(style).
func NewGlamourLoader(style string) *Loader {
	return NewLoader(func() (Renderer, error) {
		g := NewGlamour(style)
		// Build the default renderer up front so the style is resolved
		// here and not on first paint.
		if _, err := g.renderer(Options{Width: DefaultWidth}); err != nil {
			return nil, err
		}
		return g, nil
	})
}

// Load returns the renderer, constructing it on first use.
func (l *Loader) Load() (Renderer, error) {
	l.once.Do(func() {
		l.renderer, l.err = l.newRenderer()
		if l.err == nil && l.renderer != nil {
			r := l.renderer
			l.ready.Store(&r)
		}
	})
	return l.renderer, l.err
}

// Ready returns the loaded renderer, or nil if Load has not completed
// successfully yet.
func (l *Loader) Ready() Renderer {
	if r := l.ready.Load(); r != nil {
		return *r
	}
	return nil
}

// LoadedMsg reports that a Loader finished loading. Err is the loader's
// error, if any.
type LoadedMsg struct {
	Err error
}
