package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Markdown renders markdown text for the terminal. Renderers are cached per
// wrap width.
type Markdown struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown resolves style once. "auto" or "" picks dark or light from the
// terminal background, so it must be called before the UI takes over the
// terminal.
func NewMarkdown(style string) *Markdown {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" || style == styles.AutoStyle {
		style = styles.LightStyle
		if lipgloss.HasDarkBackground() {
			style = styles.DarkStyle
		}
	}
	return &Markdown{style: style, renderers: map[int]*glamour.TermRenderer{}}
}

// Style returns the resolved glamour style name.
func (m *Markdown) Style() string {
	return m.style
}

// Render formats src wrapped at width, trimming glamour's outer blank lines.
func (m *Markdown) Render(src string, width int) (string, error) {
	r, err := m.renderer(max(20, width))
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	m.renderers[width] = r
	return r, nil
}
