// Package anim drives the horizontal slide-in transition between slides with
// a damped spring.
package anim

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/slideview/internal/deck"
	"github.com/jask/slideview/internal/nav"
)

const fps = 60

// FrameMsg advances the transition with the given generation. Frames from
// an older generation are dropped.
type FrameMsg struct {
	Gen int
}

// Transition is the spring state of the current slide's entrance.
type Transition struct {
	enabled  bool
	spring   harmonica.Spring
	offset   float64
	velocity float64
	gen      int
	running  bool
}

func New(enabled bool) *Transition {
	return &Transition{
		enabled: enabled,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 9.0, 0.75),
	}
}

// Distance is the starting offset in columns for an animation token.
func Distance(a deck.Animation) float64 {
	switch a {
	case deck.AnimationSlide:
		return 12
	case deck.AnimationZoom:
		return 4
	default:
		return 0
	}
}

// Start begins a new entrance for a slide reached in direction dir. It
// returns the first frame command, or nil when nothing moves.
func (t *Transition) Start(a deck.Animation, dir nav.Direction) tea.Cmd {
	t.gen++
	t.velocity = 0
	t.offset = Distance(a) * float64(dir)
	t.running = t.enabled && t.offset != 0
	if !t.running {
		t.offset = 0
		return nil
	}
	return t.tick()
}

// Stop settles the transition immediately.
func (t *Transition) Stop() {
	t.gen++
	t.offset, t.velocity, t.running = 0, 0, false
}

func (t *Transition) tick() tea.Cmd {
	gen := t.gen
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return FrameMsg{Gen: gen} })
}

// Update steps the spring on a frame of the current generation.
func (t *Transition) Update(msg FrameMsg) tea.Cmd {
	if msg.Gen != t.gen || !t.running {
		return nil
	}
	t.offset, t.velocity = t.spring.Update(t.offset, t.velocity, 0)
	if math.Abs(t.offset) < 0.5 && math.Abs(t.velocity) < 0.5 {
		t.offset, t.velocity, t.running = 0, 0, false
		return nil
	}
	return t.tick()
}

func (t *Transition) Running() bool { return t.running }

// Offset is the current shift in whole columns.
func (t *Transition) Offset() int {
	return int(math.Round(t.offset))
}

// Shift moves every line of view by offset columns, clipping to width.
func Shift(view string, offset, width int) string {
	if offset == 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		if offset > 0 {
			line = strings.Repeat(" ", offset) + line
			if width > 0 {
				line = ansi.Truncate(line, width, "")
			}
		} else {
			line = ansi.TruncateLeft(line, -offset, "")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
