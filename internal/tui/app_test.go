package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jask/slideview/internal/database/repository"
	"github.com/jask/slideview/internal/nav"
	"github.com/jask/slideview/internal/remote"
	"github.com/jask/slideview/internal/render"
	"github.com/jask/slideview/internal/store"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeHistory struct {
	mu      sync.Mutex
	started []string
	views   []string
	ended   map[string]int
	last    map[string]int
	fail    error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{ended: map[string]int{}, last: map[string]int{}}
}

func (h *fakeHistory) Start(_ context.Context, id string) (repository.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail != nil {
		return repository.Session{}, h.fail
	}
	h.started = append(h.started, id)
	return repository.Session{ID: "session-" + id, PresentationID: id}, nil
}

func (h *fakeHistory) RecordView(_ context.Context, sessionID string, index int, slideID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.views = append(h.views, sessionID+":"+slideID)
	return h.fail
}

func (h *fakeHistory) End(_ context.Context, sessionID string, lastIndex int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ended[sessionID] = lastIndex
	return h.fail
}

func (h *fakeHistory) LastIndex(_ context.Context, id string) (int, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx, ok := h.last[id]
	return idx, ok, h.fail
}

type fakePublisher struct {
	states  []remote.State
	cleared int
}

func (p *fakePublisher) Publish(st remote.State) { p.states = append(p.states, st) }
func (p *fakePublisher) Clear()                  { p.cleared++ }

func (p *fakePublisher) last() remote.State {
	if len(p.states) == 0 {
		return remote.State{}
	}
	return p.states[len(p.states)-1]
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestApp(t *testing.T, mutate func(*Options)) *App {
	t.Helper()
	st, err := store.Default()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	opts := Options{
		Store:           st,
		Dispatcher:      render.NewDispatcher(render.WithMarkdown(render.NewMarkdown("notty"))),
		Transitions:     true,
		AllowFullscreen: true,
	}
	if mutate != nil {
		mutate(&opts)
	}
	a := New(context.Background(), opts)
	t.Cleanup(a.Close)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// openDeck drives the open / loaded round trip without running commands.
func openDeck(t *testing.T, a *App, id string) {
	t.Helper()
	a.open(id)
	if a.nav.Phase() != nav.PhaseLoading {
		t.Fatalf("phase after open = %v, want loading", a.nav.Phase())
	}
	p, _ := a.store.Get(id)
	a.Update(deckLoadedMsg{id: id, deck: p})
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func currentID(t *testing.T, a *App) string {
	t.Helper()
	s, ok := a.nav.Current()
	if !ok {
		t.Fatalf("no current slide")
	}
	return s.ID
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func TestSeededDeckNavigation(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)

	if got := a.nav.State(); got != (nav.State{}) {
		t.Fatalf("initial state = %+v", got)
	}
	press(a, "right", "space", "l")
	st := a.nav.State()
	if st.Index != 3 || st.Direction != nav.Forward {
		t.Fatalf("state = %+v, want index 3 forward", st)
	}
	s, _ := a.nav.Current()
	if s.ID != "slide-4" || s.Type != "content" {
		t.Fatalf("slide = %s/%s, want slide-4/content", s.ID, s.Type)
	}
	if view := a.View(); !strings.Contains(view, "4 / 16") {
		t.Fatalf("view missing position indicator:\n%s", view)
	}
}

func TestBoundariesAreNoops(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)

	press(a, "left")
	if a.nav.State().Index != 0 {
		t.Fatalf("previous on first slide moved")
	}
	press(a, "end")
	if currentID(t, a) != "slide-16" {
		t.Fatalf("end should reach the last slide")
	}
	press(a, "right", "right")
	if a.nav.State().Index != 15 {
		t.Fatalf("next on last slide moved")
	}
	press(a, "home")
	if a.nav.State().Index != 0 || a.nav.State().Direction != nav.Backward {
		t.Fatalf("home = %+v", a.nav.State())
	}
}

func TestDigitsAndJumpPrompt(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)

	press(a, "5")
	if currentID(t, a) != "slide-5" {
		t.Fatalf("digit 5 should show slide-5, got %s", currentID(t, a))
	}

	press(a, "g")
	if !a.jumping {
		t.Fatalf("g should open the jump prompt")
	}
	if view := a.View(); !strings.Contains(view, "Go to slide") {
		t.Fatalf("prompt not drawn:\n%s", view)
	}
	press(a, "1", "2", "enter")
	if a.jumping || currentID(t, a) != "slide-12" {
		t.Fatalf("jump to 12 failed: jumping=%v id=%s", a.jumping, currentID(t, a))
	}

	press(a, "g", "9", "9", "enter")
	if currentID(t, a) != "slide-12" {
		t.Fatalf("out of range jump moved to %s", currentID(t, a))
	}
	if !a.statusErr || !strings.Contains(a.status, "no slide 99") {
		t.Fatalf("status = %q", a.status)
	}

	press(a, "g", "x", "enter")
	if !strings.Contains(a.status, "not a slide number") {
		t.Fatalf("status = %q", a.status)
	}

	press(a, "g", "esc")
	if a.jumping {
		t.Fatalf("esc should close the prompt")
	}
	if a.nav.State().Fullscreen {
		t.Fatalf("esc in the prompt must not touch fullscreen")
	}
}

func TestJumpToCurrentSlideKeepsPosition(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)
	press(a, "3", "3")
	st := a.nav.State()
	if st.Index != 2 || st.Direction != nav.Still {
		t.Fatalf("state = %+v, want index 2 still", st)
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func TestPickerOpensSelectedDeck(t *testing.T) {
	a := newTestApp(t, nil)
	if a.nav.Phase() != nav.PhaseIdle {
		t.Fatalf("phase = %v, want idle", a.nav.Phase())
	}
	if view := a.View(); !strings.Contains(view, "Presentations") {
		t.Fatalf("picker not drawn:\n%s", view)
	}

	press(a, "enter")
	if a.nav.Phase() != nav.PhaseLoading || a.nav.Requested() != store.SeedID {
		t.Fatalf("enter should start loading the seed deck, phase %v", a.nav.Phase())
	}
	if view := a.View(); !strings.Contains(view, store.SeedID) {
		t.Fatalf("loading view should show the id:\n%s", view)
	}

	p, _ := a.store.Get(store.SeedID)
	a.Update(deckLoadedMsg{id: "something-else", deck: p})
	if a.nav.Phase() != nav.PhaseLoading {
		t.Fatalf("a stale load must be ignored")
	}
	a.Update(deckLoadedMsg{id: store.SeedID, deck: p})
	if a.nav.Phase() != nav.PhaseReady {
		t.Fatalf("phase = %v, want ready", a.nav.Phase())
	}
}

func TestNotFoundView(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, "pfa-simulation-stabilit")

	if a.nav.Phase() != nav.PhaseNotFound {
		t.Fatalf("phase = %v, want not-found", a.nav.Phase())
	}
	view := a.View()
	for _, want := range []string{"Presentation not found", `"pfa-simulation-stabilit"`, store.SeedID, "back to presentations"} {
		if !strings.Contains(view, want) {
			t.Fatalf("not-found view missing %q:\n%s", want, view)
		}
	}

	press(a, "right")
	if a.nav.Phase() != nav.PhaseNotFound {
		t.Fatalf("navigation keys must not leave the not-found view")
	}
	press(a, "backspace")
	if a.nav.Phase() != nav.PhaseIdle {
		t.Fatalf("backspace should return to the picker")
	}
}

func TestHomeReleasesSession(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)
	press(a, "f")
	a.Update(fullscreenChangedMsg{active: true})
	if len(a.screen.subs) != 1 {
		t.Fatalf("controller should be attached once, have %d", len(a.screen.subs))
	}

	press(a, "backspace")
	if a.nav.Phase() != nav.PhaseIdle {
		t.Fatalf("phase = %v, want idle", a.nav.Phase())
	}
	if len(a.screen.subs) != 0 {
		t.Fatalf("subscription leaked after leaving the viewer")
	}
	if a.detach != nil {
		t.Fatalf("detach should be consumed")
	}
	if len(a.screen.pending) != 0 {
		t.Fatalf("screen switches should be drained by Update")
	}

	// the exit confirmation arrives after the session ended
	a.Update(fullscreenChangedMsg{active: false})
	if a.screen.Active() {
		t.Fatalf("platform should report windowed")
	}
}

// ---------------------------------------------------------------------------
// Fullscreen
// ---------------------------------------------------------------------------

func TestFullscreenToggle(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)

	_, cmd := a.Update(keyMsg("f"))
	if !a.nav.State().Fullscreen {
		t.Fatalf("f should request fullscreen")
	}
	if cmd == nil {
		t.Fatalf("fullscreen should schedule a screen switch")
	}
	a.Update(fullscreenChangedMsg{active: true})
	if !a.screen.Active() || !a.nav.State().Fullscreen {
		t.Fatalf("confirmation should leave both sides fullscreen")
	}
	if view := a.View(); strings.Contains(view, "1 / 16") {
		t.Fatalf("fullscreen should hide the chrome:\n%s", view)
	}

	press(a, "esc")
	a.Update(fullscreenChangedMsg{active: false})
	if a.nav.State().Fullscreen || a.screen.Active() {
		t.Fatalf("esc should leave fullscreen")
	}
	press(a, "esc")
	if a.nav.State().Fullscreen {
		t.Fatalf("esc must never enter fullscreen")
	}

	press(a, "f", "f")
	if a.nav.State().Fullscreen {
		t.Fatalf("toggling twice should end windowed")
	}
}

func TestFullscreenDisabled(t *testing.T) {
	a := newTestApp(t, func(o *Options) { o.AllowFullscreen = false })
	openDeck(t, a, store.SeedID)

	press(a, "f")
	if a.nav.State().Fullscreen {
		t.Fatalf("denied request should reset the flag")
	}
	if !a.statusErr || !strings.Contains(a.status, ErrFullscreenDisabled.Error()) {
		t.Fatalf("status = %q", a.status)
	}
}

func TestPlatformChangeSyncsController(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)
	a.Update(fullscreenChangedMsg{active: true})
	if !a.nav.State().Fullscreen {
		t.Fatalf("platform report should win")
	}
}

// ---------------------------------------------------------------------------
// Template-local state
// ---------------------------------------------------------------------------

func TestTableDetailCycle(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)
	press(a, "5")
	s, _ := a.nav.Current()
	rows := render.DetailRows(s)
	if rows != 4 {
		t.Fatalf("detail rows = %d, want 4", rows)
	}
	for want := 0; want < rows; want++ {
		press(a, "v")
		if a.detail != want {
			t.Fatalf("detail = %d, want %d", a.detail, want)
		}
	}
	press(a, "v")
	if a.detail != render.NoDetail {
		t.Fatalf("detail should close after the last row")
	}

	press(a, "v", "right", "left")
	if a.detail != render.NoDetail {
		t.Fatalf("changing slides should reset the detail")
	}
}

func TestCarouselKeysAndTicks(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)
	press(a, "end")
	a.Update(keyMsg("g"))
	press(a, "1", "0", "enter")
	s, _ := a.nav.Current()
	if s.Type != "tech-carousel" {
		t.Fatalf("slide 10 is %s", s.Type)
	}
	n := render.Steps(s)

	press(a, "d")
	if a.step != 1 {
		t.Fatalf("step = %d, want 1", a.step)
	}
	press(a, "a", "a")
	if a.step != n-1 {
		t.Fatalf("step = %d, want %d", a.step, n-1)
	}

	stale := a.tickGen - 1
	a.Update(tickMsg{gen: stale})
	if a.step != n-1 {
		t.Fatalf("stale tick advanced the carousel")
	}
	a.Update(tickMsg{gen: a.tickGen})
	if a.step != 0 {
		t.Fatalf("tick should wrap to 0, got %d", a.step)
	}

	press(a, "left")
	press(a, "d")
	if a.step != 0 {
		t.Fatalf("carousel keys only apply to carousel slides")
	}
}

func TestScrollKeepsIndex(t *testing.T) {
	a := newTestApp(t, nil)
	a.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	openDeck(t, a, store.SeedID)
	press(a, "5", "j", "j")
	if a.viewport.YOffset != 2 {
		t.Fatalf("yoffset = %d, want 2", a.viewport.YOffset)
	}
	press(a, "k")
	if a.viewport.YOffset != 1 || a.nav.State().Index != 4 {
		t.Fatalf("scroll changed navigation: %+v", a.nav.State())
	}
	press(a, "right")
	if a.viewport.YOffset != 0 {
		t.Fatalf("a new slide should start at the top")
	}
}

// ---------------------------------------------------------------------------
// Mouse and remote
// ---------------------------------------------------------------------------

func TestClickAffordances(t *testing.T) {
	a := newTestApp(t, nil)
	openDeck(t, a, store.SeedID)

	a.click(zoneNext)
	a.click(zoneNext)
	a.click(zonePrev)
	if a.nav.State().Index != 1 {
		t.Fatalf("index = %d, want 1", a.nav.State().Index)
	}
	a.click(dotZone(7))
	if currentID(t, a) != "slide-8" {
		t.Fatalf("dot 7 should open slide-8")
	}
	a.click(zoneFullscreen)
	if !a.nav.State().Fullscreen {
		t.Fatalf("fullscreen affordance")
	}
	a.click(zoneHome)
	if a.nav.Phase() != nav.PhaseIdle {
		t.Fatalf("home affordance")
	}
}

func TestRemoteCommands(t *testing.T) {
	pub := &fakePublisher{}
	a := newTestApp(t, func(o *Options) { o.Remote = pub })

	a.Update(remote.Command{Action: remote.ActionNext})
	if len(pub.states) != 0 {
		t.Fatalf("nothing to publish without a deck")
	}

	openDeck(t, a, store.SeedID)
	a.Update(remote.Command{Action: remote.ActionNext})
	a.Update(remote.Command{Action: remote.ActionJump, Index: 15})
	got := pub.last()
	want := remote.State{
		PresentationID: store.SeedID,
		Index:          15,
		Total:          16,
		SlideID:        "slide-16",
		SlideType:      "thanks",
		Direction:      "forward",
	}
	if got != want {
		t.Fatalf("published %+v, want %+v", got, want)
	}

	a.Update(remote.Command{Action: remote.ActionJump, Index: 99})
	if a.nav.State().Index != 15 || !a.statusErr {
		t.Fatalf("out of range remote jump should only report")
	}
	a.Update(remote.Command{Action: remote.ActionPrevious})
	a.Update(remote.Command{Action: remote.ActionFullscreen})
	if got := pub.last(); got.Index != 14 || !got.Fullscreen || got.Direction != "backward" {
		t.Fatalf("published %+v", got)
	}

	n := len(pub.states)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if len(pub.states) != n {
		t.Fatalf("unchanged state should not be republished")
	}

	press(a, "backspace")
	if pub.cleared != 1 {
		t.Fatalf("leaving the viewer should clear remote state")
	}
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

func TestHistoryCommands(t *testing.T) {
	h := newFakeHistory()
	a := newTestApp(t, func(o *Options) { o.History = h })
	openDeck(t, a, store.SeedID)

	p := a.nav.Presentation()
	msg := a.startSessionCmd(p)()
	a.Update(msg)
	if a.session != "session-"+store.SeedID {
		t.Fatalf("session = %q", a.session)
	}
	if len(h.views) != 1 || h.views[0] != "session-"+store.SeedID+":slide-1" {
		t.Fatalf("first view not recorded: %v", h.views)
	}

	press(a, "right")
	if cmd := a.recordViewCmd(1, "slide-2"); cmd == nil || cmd() != nil {
		t.Fatalf("record view should succeed silently")
	}
	if cmd := a.endSessionCmd(1); cmd == nil || cmd() != nil {
		t.Fatalf("end should succeed silently")
	}
	if h.ended["session-"+store.SeedID] != 1 || a.session != "" {
		t.Fatalf("session not ended: %v", h.ended)
	}
	if a.endSessionCmd(1) != nil {
		t.Fatalf("ending twice should be a no-op")
	}
}

func TestViewsBeforeSessionStartAreKept(t *testing.T) {
	h := newFakeHistory()
	a := newTestApp(t, func(o *Options) { o.History = h })
	openDeck(t, a, store.SeedID)
	start := a.startSessionCmd(a.nav.Presentation())

	press(a, "right", "right")
	if a.nav.State().Index != 2 {
		t.Fatalf("index = %d", a.nav.State().Index)
	}
	_, cmd := a.Update(start())
	if cmd == nil {
		t.Fatalf("queued views should be written once the session exists")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("unexpected msg %#v", msg)
	}
	sid := "session-" + store.SeedID
	want := []string{sid + ":slide-1", sid + ":slide-2", sid + ":slide-3"}
	if strings.Join(h.views, ",") != strings.Join(want, ",") {
		t.Fatalf("views = %v, want %v", h.views, want)
	}
	if len(a.queued) != 0 || a.starting {
		t.Fatalf("queue not drained")
	}
}

func TestHistoryFailuresAreReported(t *testing.T) {
	h := newFakeHistory()
	h.fail = errors.New("disk full")
	a := newTestApp(t, func(o *Options) { o.History = h })
	openDeck(t, a, store.SeedID)

	a.Update(a.startSessionCmd(a.nav.Presentation())())
	if !a.statusErr || !strings.Contains(a.status, "disk full") {
		t.Fatalf("status = %q", a.status)
	}
	press(a, "right")
	if a.nav.State().Index != 1 {
		t.Fatalf("history failure must not block navigation")
	}
}

func TestLateSessionIsClosed(t *testing.T) {
	h := newFakeHistory()
	a := newTestApp(t, func(o *Options) { o.History = h })
	openDeck(t, a, store.SeedID)
	msg := a.startSessionCmd(a.nav.Presentation())()
	press(a, "backspace")

	_, cmd := a.Update(msg)
	if cmd == nil {
		t.Fatalf("a session that arrives after leaving should be ended")
	}
	cmd()
	if _, ok := h.ended["session-"+store.SeedID]; !ok {
		t.Fatalf("late session left open")
	}
	if a.session != "" {
		t.Fatalf("late session adopted")
	}
}

func TestResumeShownInPicker(t *testing.T) {
	h := newFakeHistory()
	h.last[store.SeedID] = 6
	a := newTestApp(t, func(o *Options) { o.History = h })

	a.Update(a.resumeCmd()())
	d, ok := selectedDeck(a.picker)
	if !ok {
		t.Fatalf("no selected deck")
	}
	if !strings.Contains(d.Description(), "last at slide 7") {
		t.Fatalf("description = %q", d.Description())
	}
}
