// Package markdown renders memo bodies for the terminal. Rendering is
// delegated to glamour; this package only chooses styles and caches
// renderers.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap width used when Options.Width is zero.
const DefaultWidth = 80

// Options is the style-override bag passed with every render.
type Options struct {
	Width int
	// InheritColor drops the renderer's own colours so the surrounding
	// lipgloss style colours the text.
	InheritColor bool
	// InheritFont is accepted for parity with the card and viewer call
	// sites; a terminal has a single font, so it changes nothing.
	InheritFont bool
	// InheritLineHeight collapses the blank lines glamour puts between
	// blocks.
	InheritLineHeight bool
	// PreserveWhitespace keeps single newlines from the source instead of
	// reflowing paragraphs.
	PreserveWhitespace bool
}

// Renderer turns markdown source into styled terminal text.
type Renderer interface {
	Render(src string, opts Options) (string, error)
}

// Glamour renders with charmbracelet/glamour, keeping one TermRenderer per
// distinct Options value.
type Glamour struct {
	style string

	mu    sync.Mutex
	cache map[Options]*glamour.TermRenderer
}

// NewGlamour returns a renderer using the named glamour standard style
// ("dark", "light", "notty", ...). An empty style means "dark".
func NewGlamour(style string) *Glamour {
	if style == "" {
		style = "dark"
	}
	return &Glamour{style: style, cache: make(map[Options]*glamour.TermRenderer)}
}

var blankRuns = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

func (g *Glamour) Render(src string, opts Options) (string, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	tr, err := g.renderer(opts)
	if err != nil {
		return "", err
	}

	out, err := tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	out = strings.Trim(out, "\n")
	if opts.InheritLineHeight {
		out = blankRuns.ReplaceAllString(out, "\n")
	}
	return out, nil
}

func (g *Glamour) renderer(opts Options) (*glamour.TermRenderer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if tr, ok := g.cache[opts]; ok {
		return tr, nil
	}

	style := g.style
	if opts.InheritColor {
		style = "notty"
	}
	ropts := []glamour.TermRendererOption{
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.PreserveWhitespace {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	tr, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	g.cache[opts] = tr
	return tr, nil
}
