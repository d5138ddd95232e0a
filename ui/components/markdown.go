package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant answers. It keeps one glamour renderer per
// style and wrap width.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func NewMarkdown(style string, width int) *Markdown {
	m := &Markdown{style: style}
	m.Resize(width)
	return m
}

// Resize rebuilds the renderer when the wrap width changes.
func (m *Markdown) Resize(width int) {
	if width < 20 {
		width = 20
	}
	if m.renderer != nil && width == m.width {
		return
	}
	m.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// Render returns text as styled markdown, or as-is if rendering fails.
func (m *Markdown) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
