// Package render maps slide types to the templates that draw them.
//
// A template is a pure function of the slide and a Frame. It never mutates
// the slide and draws nothing for optional fields that are absent. Tags
// outside the known set resolve to the "content" template.
package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slideview/internal/deck"
)

// NoDetail is the Frame.Detail value for "no table row selected".
const NoDetail = -1

// Frame is the drawing surface and the template-local cosmetic state.
type Frame struct {
	Width  int
	Height int
	// Step is the carousel position or the diagram animation step.
	Step int
	// Detail is the selected table row, or NoDetail.
	Detail int

	accent lipgloss.Color
	md     *Markdown
}

func (f Frame) width() int {
	if f.Width <= 0 {
		return 80
	}
	return f.Width
}

// Template draws one slide type.
type Template struct {
	Name   string
	Render func(s deck.Slide, f Frame) string
}

// Dispatcher resolves slide types to templates.
type Dispatcher struct {
	templates map[deck.Type]Template
	fallback  Template
	md        *Markdown
}

type Option func(*Dispatcher)

// WithMarkdown sets the renderer used by paragraph slides. Without it
// paragraphs are drawn as wrapped plain text.
func WithMarkdown(md *Markdown) Option {
	return func(d *Dispatcher) { d.md = md }
}

// WithTemplate overrides the template of one known type.
func WithTemplate(t deck.Type, tpl Template) Option {
	return func(d *Dispatcher) {
		if t.Known() && tpl.Render != nil {
			d.templates[t] = tpl
		}
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{templates: builtinTemplates()}
	d.fallback = d.templates[deck.TypeContent]
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func builtinTemplates() map[deck.Type]Template {
	return map[deck.Type]Template{
		deck.TypeCover:        {Name: "cover", Render: renderCover},
		deck.TypePlan:         {Name: "plan", Render: renderPlan},
		deck.TypeChapter:      {Name: "chapter", Render: renderChapter},
		deck.TypeContent:      {Name: "content", Render: renderBullets},
		deck.TypeImage:        {Name: "image", Render: renderImage},
		deck.TypeSplit:        {Name: "split", Render: renderSplit},
		deck.TypeQuote:        {Name: "quote", Render: renderQuote},
		deck.TypeThanks:       {Name: "thanks", Render: renderThanks},
		deck.TypeTable:        {Name: "table", Render: renderTable},
		deck.TypeParagraph:    {Name: "paragraph", Render: renderParagraphs},
		deck.TypeMixed:        {Name: "mixed", Render: renderMixed},
		deck.TypeSchema:       {Name: "schema", Render: renderSchema},
		deck.TypeTimeline:     {Name: "timeline", Render: renderTimeline},
		deck.TypeQuality:      {Name: "quality", Render: renderQuality},
		deck.TypeTechCarousel: {Name: "tech-carousel", Render: renderTechCarousel},
	}
}

// Resolve returns the template for t. It is total: unknown and empty tags
// get the content template.
func (d *Dispatcher) Resolve(t deck.Type) Template {
	if tpl, ok := d.templates[deck.Type(strings.TrimSpace(string(t)))]; ok {
		return tpl
	}
	return d.fallback
}

// Render draws s with its resolved template.
func (d *Dispatcher) Render(s deck.Slide, f Frame) string {
	f.accent = AccentFor(s.Background)
	f.md = d.md
	return d.Resolve(s.Type).Render(s, f)
}

// Ticker reports whether a slide has self-advancing cosmetic state and how
// often it steps.
func Ticker(s deck.Slide) (time.Duration, bool) {
	switch c := s.Content.(type) {
	case deck.TechCarousel:
		if len(c.Technologies) > 1 {
			return 4 * time.Second, true
		}
	case deck.Schema:
		if c.Diagram.Kind == deck.DiagramArchitecture && len(c.Diagram.Nodes) > 0 {
			return 2500 * time.Millisecond, true
		}
	}
	return 0, false
}

// architectureSteps is the length of the diagram highlight cycle.
const architectureSteps = 9

// Steps returns how many distinct Step values a slide cycles through, or 0.
func Steps(s deck.Slide) int {
	switch c := s.Content.(type) {
	case deck.TechCarousel:
		return len(c.Technologies)
	case deck.Schema:
		if c.Diagram.Kind == deck.DiagramArchitecture {
			return architectureSteps
		}
	}
	return 0
}

// DetailRows returns how many table rows carry a detail card.
func DetailRows(s deck.Slide) int {
	if t, ok := s.Content.(deck.Table); ok {
		return len(t.Data.RowDetails)
	}
	return 0
}

// NextDetail cycles a table detail selection: none, 0, 1, ... last, none.
func NextDetail(current, rows int) int {
	if rows <= 0 {
		return NoDetail
	}
	if current < 0 {
		return 0
	}
	if current+1 >= rows {
		return NoDetail
	}
	return current + 1
}

// Cycle moves a step counter by delta within n positions.
func Cycle(step, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((step+delta)%n + n) % n
}
