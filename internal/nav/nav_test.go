package nav

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jask/slideview/internal/deck"
	"github.com/jask/slideview/internal/store"
)

func deckOf(n int) *deck.Presentation {
	p := &deck.Presentation{ID: fmt.Sprintf("deck-%d", n)}
	for i := 0; i < n; i++ {
		p.Slides = append(p.Slides, deck.Slide{ID: fmt.Sprintf("s%d", i), Type: deck.TypeContent, Content: deck.Bullets{}})
	}
	return p
}

type fakeScreen struct {
	active   bool
	deny     bool
	requests []bool
	subs     map[int]func(bool)
	nextID   int
}

func (f *fakeScreen) Request(enter bool) error {
	f.requests = append(f.requests, enter)
	if f.deny {
		return errors.New("denied")
	}
	f.active = enter
	return nil
}

func (f *fakeScreen) Active() bool { return f.active }

func (f *fakeScreen) Subscribe(fn func(bool)) func() {
	if f.subs == nil {
		f.subs = map[int]func(bool){}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

// platformChange simulates the user leaving fullscreen outside the app.
func (f *fakeScreen) platformChange(active bool) {
	f.active = active
	for _, fn := range f.subs {
		fn(active)
	}
}

func TestNextReachesLastAndStops(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for start := 0; start < n; start++ {
			c := New(nil)
			c.Load(deckOf(n))
			c.Jump(start)
			for i := 0; i < n-1-start; i++ {
				if !c.Next() {
					t.Fatalf("n=%d start=%d: Next stopped early at %d", n, start, c.State().Index)
				}
			}
			if c.State().Index != n-1 {
				t.Fatalf("n=%d start=%d: index %d, want %d", n, start, c.State().Index, n-1)
			}
			before := c.State()
			for i := 0; i < 3; i++ {
				if c.Next() {
					t.Fatalf("Next at the end should be a no-op")
				}
			}
			if diff := cmp.Diff(before, c.State()); diff != "" {
				t.Fatalf("state changed at boundary (-want +got):\n%s", diff)
			}
		}
	}
}

func TestPreviousReachesFirstAndStops(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for start := 0; start < n; start++ {
			c := New(nil)
			c.Load(deckOf(n))
			c.Jump(start)
			for i := 0; i < start; i++ {
				c.Previous()
			}
			if c.State().Index != 0 {
				t.Fatalf("n=%d start=%d: index %d, want 0", n, start, c.State().Index)
			}
			if c.Previous() {
				t.Fatalf("Previous at 0 should be a no-op")
			}
			if c.State().Index != 0 {
				t.Fatalf("Previous wrapped")
			}
		}
	}
}

func TestDirection(t *testing.T) {
	c := New(nil)
	c.Load(deckOf(5))
	c.Next()
	if c.State().Direction != Forward {
		t.Fatalf("Next should set Forward")
	}
	c.Previous()
	if c.State().Direction != Backward {
		t.Fatalf("Previous should set Backward")
	}
	c.Jump(4)
	if c.State().Direction != Forward {
		t.Fatalf("Jump forward should set Forward")
	}
	c.Jump(1)
	if c.State().Direction != Backward {
		t.Fatalf("Jump backward should set Backward")
	}
}

func TestJumpTwiceIsIdempotent(t *testing.T) {
	for k := 0; k < 4; k++ {
		c := New(nil)
		c.Load(deckOf(4))
		c.Jump(k)
		if c.State().Index != k {
			t.Fatalf("first Jump(%d) index = %d", k, c.State().Index)
		}
		c.Jump(k)
		if c.State().Index != k || c.State().Direction != Still {
			t.Fatalf("second Jump(%d) = %+v", k, c.State())
		}
	}
}

func TestJumpOutOfRangePanics(t *testing.T) {
	for _, target := range []int{-1, 3, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("Jump(%d) should panic", target)
				}
			}()
			c := New(nil)
			c.Load(deckOf(3))
			c.Jump(target)
		}()
	}
}

func TestLoadResetsState(t *testing.T) {
	fs := &fakeScreen{}
	c := New(fs)
	c.Load(deckOf(5))
	c.Jump(3)
	_ = c.ToggleFullscreen()
	c.Load(deckOf(2))
	if diff := cmp.Diff(State{}, c.State()); diff != "" {
		t.Fatalf("Load should reset (-want +got):\n%s", diff)
	}
}

func TestToggleFullscreenTwice(t *testing.T) {
	fs := &fakeScreen{}
	c := New(fs)
	c.Load(deckOf(2))
	if err := c.ToggleFullscreen(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !c.State().Fullscreen {
		t.Fatalf("expected fullscreen after first toggle")
	}
	if err := c.ToggleFullscreen(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if c.State().Fullscreen {
		t.Fatalf("expected windowed after second toggle")
	}
	if diff := cmp.Diff([]bool{true, false}, fs.requests); diff != "" {
		t.Fatalf("platform requests (-want +got):\n%s", diff)
	}
}

func TestToggleFullscreenDenied(t *testing.T) {
	fs := &fakeScreen{deny: true}
	c := New(fs)
	c.Load(deckOf(2))
	if err := c.ToggleFullscreen(); err == nil {
		t.Fatalf("expected denial error")
	}
	if c.State().Fullscreen != fs.Active() {
		t.Fatalf("flag %v should match platform %v", c.State().Fullscreen, fs.Active())
	}

	// Platform is fullscreen but refuses to leave.
	fs.active = true
	c.SyncFullscreen(true)
	if err := c.ToggleFullscreen(); err == nil {
		t.Fatalf("expected denial error")
	}
	if !c.State().Fullscreen {
		t.Fatalf("flag should follow the platform, which is still fullscreen")
	}
}

func TestExitFullscreenNeverEnters(t *testing.T) {
	fs := &fakeScreen{}
	c := New(fs)
	c.Load(deckOf(2))
	if err := c.ExitFullscreen(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if c.State().Fullscreen || len(fs.requests) != 0 {
		t.Fatalf("exit while windowed should do nothing")
	}
	_ = c.ToggleFullscreen()
	_ = c.ExitFullscreen()
	_ = c.ExitFullscreen()
	if c.State().Fullscreen {
		t.Fatalf("expected windowed")
	}
	if diff := cmp.Diff([]bool{true, false}, fs.requests); diff != "" {
		t.Fatalf("platform requests (-want +got):\n%s", diff)
	}
}

func TestAttachFollowsPlatform(t *testing.T) {
	fs := &fakeScreen{}
	c := New(fs)
	c.Load(deckOf(2))
	detach := c.Attach(fs)
	_ = c.ToggleFullscreen()

	fs.platformChange(false)
	if c.State().Fullscreen {
		t.Fatalf("platform exit should resync the flag")
	}

	detach()
	detach()
	if len(fs.subs) != 0 {
		t.Fatalf("detach should unsubscribe, %d left", len(fs.subs))
	}
	fs.platformChange(true)
	if c.State().Fullscreen {
		t.Fatalf("detached controller should ignore platform changes")
	}
}

func TestPhases(t *testing.T) {
	s, err := store.Default()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	c := New(nil)
	if c.Phase() != PhaseIdle {
		t.Fatalf("new controller should be idle")
	}

	c.Begin("does-not-exist")
	if c.Phase() != PhaseLoading || c.Requested() != "does-not-exist" {
		t.Fatalf("Begin should mark loading")
	}
	p, ok := s.Get("does-not-exist")
	if ok {
		t.Fatalf("unexpected presentation")
	}
	c.Resolve(p)
	if c.Phase() != PhaseNotFound {
		t.Fatalf("phase = %v, want not-found", c.Phase())
	}
	if c.Next() || c.Previous() {
		t.Fatalf("navigation without a deck should be a no-op")
	}
	if _, ok := c.Current(); ok {
		t.Fatalf("no current slide expected")
	}
}

func TestSeededDeckScenario(t *testing.T) {
	s, err := store.Default()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	c := New(&fakeScreen{})
	c.Begin(store.SeedID)
	p, _ := s.Get(store.SeedID)
	c.Resolve(p)

	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %v", c.Phase())
	}
	if diff := cmp.Diff(State{}, c.State()); diff != "" {
		t.Fatalf("initial state (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		c.Next()
	}
	if c.State().Index != 3 {
		t.Fatalf("index = %d, want 3", c.State().Index)
	}
	cur, ok := c.Current()
	if !ok || cur.ID != "slide-4" || cur.Type != deck.TypeContent {
		t.Fatalf("current slide = %+v", cur)
	}
}
