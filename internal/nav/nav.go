// Package nav is the navigation state machine of a viewing session: the
// current slide index, the last move direction and the fullscreen flag.
//
// Transitions are synchronous and total except Jump, whose caller must pass
// an index inside the deck. Fullscreen is owned by the platform; the
// controller's flag follows whatever the platform last reported.
package nav

import (
	"fmt"

	"github.com/jask/slideview/internal/deck"
)

// Direction is the sign of the last index change.
type Direction int

const (
	Backward Direction = -1
	Still    Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return "none"
	}
}

// State is the observable navigation state.
type State struct {
	Index      int
	Direction  Direction
	Fullscreen bool
}

// Phase tells a requested presentation apart while it is being resolved.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseNotFound
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseNotFound:
		return "not-found"
	default:
		return "idle"
	}
}

// Fullscreen is the platform capability. Request may complete later or
// fail; Active reports the platform's current view.
type Fullscreen interface {
	Request(enter bool) error
	Active() bool
}

// FullscreenSource delivers platform-driven fullscreen changes.
type FullscreenSource interface {
	Subscribe(fn func(active bool)) (unsubscribe func())
}

// Controller owns the navigation state of one view session.
type Controller struct {
	fs        Fullscreen
	requested string
	phase     Phase
	deck      *deck.Presentation
	state     State
}

// New returns an idle controller. fs may be nil, in which case fullscreen
// is a local flag only.
func New(fs Fullscreen) *Controller {
	return &Controller{fs: fs}
}

// Begin marks id as requested and not yet resolved.
func (c *Controller) Begin(id string) {
	c.requested = id
	c.phase = PhaseLoading
	c.deck = nil
	c.state = State{}
}

// Resolve finishes a Begin: a nil presentation means the id is confirmed
// absent.
func (c *Controller) Resolve(p *deck.Presentation) {
	if p == nil {
		c.phase = PhaseNotFound
		c.deck = nil
		c.state = State{}
		return
	}
	c.Load(p)
}

// Load makes p the active presentation and resets the state to the first
// slide, no direction, not fullscreen.
func (c *Controller) Load(p *deck.Presentation) {
	c.deck = p
	c.requested = p.ID
	c.phase = PhaseReady
	c.state = State{}
}

func (c *Controller) Phase() Phase                     { return c.phase }
func (c *Controller) Requested() string                { return c.requested }
func (c *Controller) Presentation() *deck.Presentation { return c.deck }
func (c *Controller) State() State                     { return c.state }
func (c *Controller) Len() int                         { return c.deck.Len() }

// Current returns the slide at the current index.
func (c *Controller) Current() (deck.Slide, bool) {
	return c.deck.At(c.state.Index)
}

// Next advances one slide. It is a no-op on the last slide.
func (c *Controller) Next() bool {
	if c.state.Index >= c.Len()-1 {
		return false
	}
	c.state.Index++
	c.state.Direction = Forward
	return true
}

// Previous goes back one slide. It is a no-op on the first slide.
func (c *Controller) Previous() bool {
	if c.state.Index <= 0 {
		return false
	}
	c.state.Index--
	c.state.Direction = Backward
	return true
}

// Jump moves to target, which must be in [0, Len()). The direction is the
// sign of the move, Still when target is the current index.
func (c *Controller) Jump(target int) {
	if target < 0 || target >= c.Len() {
		panic(fmt.Sprintf("nav: jump target %d out of range [0,%d)", target, c.Len()))
	}
	switch {
	case target > c.state.Index:
		c.state.Direction = Forward
	case target < c.state.Index:
		c.state.Direction = Backward
	default:
		c.state.Direction = Still
	}
	c.state.Index = target
}

// InRange reports whether i is a valid Jump target.
func (c *Controller) InRange(i int) bool {
	return i >= 0 && i < c.Len()
}

// ToggleFullscreen flips the flag and asks the platform to follow. When the
// platform refuses, the flag is reset to the platform's report and the
// error is returned.
func (c *Controller) ToggleFullscreen() error {
	return c.setFullscreen(!c.state.Fullscreen)
}

// ExitFullscreen leaves fullscreen. It never enters it.
func (c *Controller) ExitFullscreen() error {
	if !c.state.Fullscreen {
		return nil
	}
	return c.setFullscreen(false)
}

func (c *Controller) setFullscreen(want bool) error {
	c.state.Fullscreen = want
	if c.fs == nil {
		return nil
	}
	if err := c.fs.Request(want); err != nil {
		c.state.Fullscreen = c.fs.Active()
		return fmt.Errorf("fullscreen request: %w", err)
	}
	return nil
}

// SyncFullscreen applies a platform-driven fullscreen change.
func (c *Controller) SyncFullscreen(active bool) {
	c.state.Fullscreen = active
}

// Attach subscribes the controller to platform fullscreen changes. The
// returned detach func must be called when the session ends; it is safe to
// call more than once.
func (c *Controller) Attach(src FullscreenSource) (detach func()) {
	if src == nil {
		return func() {}
	}
	unsubscribe := src.Subscribe(c.SyncFullscreen)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		unsubscribe()
	}
}
