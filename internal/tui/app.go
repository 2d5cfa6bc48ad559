package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jask/slideview/internal/anim"
	"github.com/jask/slideview/internal/keys"
	"github.com/jask/slideview/internal/logging"
	"github.com/jask/slideview/internal/nav"
	"github.com/jask/slideview/internal/remote"
	"github.com/jask/slideview/internal/render"
	"github.com/jask/slideview/internal/store"
)

// Options wires the App. Store and Dispatcher are required; everything else
// may be left zero.
type Options struct {
	Store      *store.Store
	Dispatcher *render.Dispatcher
	Keys       *keys.Registry
	History    History
	Remote     Publisher
	Logger     *log.Logger

	// Start opens a presentation directly instead of the picker.
	Start           string
	Transitions     bool
	AllowFullscreen bool
	Mouse           bool
}

// App is the bubbletea model: a deck picker, the slide viewer and the
// loading / not-found views between them.
type App struct {
	ctx        context.Context
	store      *store.Store
	dispatcher *render.Dispatcher
	keys       *keys.Registry
	history    History
	remote     Publisher
	log        *log.Logger
	start      string

	nav    *nav.Controller
	screen *altScreen
	detach func()
	zones  *zone.Manager

	picker   list.Model
	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	help     help.Model
	jump     textinput.Model
	jumping  bool

	trans   *anim.Transition
	step    int
	detail  int
	tickGen int
	drawn   drawKey

	session     string
	starting    bool
	queued      []slideVisit
	published   *remote.State
	suggestions []string
	status      string
	statusErr   bool

	width  int
	height int
}

// drawKey identifies what the viewport currently holds.
type drawKey struct {
	deck           string
	index          int
	step, detail   int
	width, height  int
	offset         int
	fullscreenView bool
}

func New(ctx context.Context, opts Options) *App {
	registry := opts.Keys
	if registry == nil {
		registry = keys.NewRegistry(keys.DefaultBindings())
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 4
	ti.Width = 8

	zones := zone.New()
	zones.SetEnabled(opts.Mouse)

	screen := newAltScreen(opts.AllowFullscreen)
	return &App{
		ctx:        ctx,
		store:      opts.Store,
		dispatcher: opts.Dispatcher,
		keys:       registry,
		history:    opts.History,
		remote:     opts.Remote,
		log:        logger.With("component", "tui"),
		start:      opts.Start,
		nav:        nav.New(screen),
		screen:     screen,
		zones:      zones,
		picker:     newPicker(opts.Store.List()),
		spinner:    sp,
		progress:   progress.New(progress.WithGradient(string(colorBlue), string(colorAccent)), progress.WithoutPercentage()),
		viewport:   viewport.New(80, 20),
		help:       help.New(),
		jump:       ti,
		trans:      anim.New(opts.Transitions),
		detail:     render.NoDetail,
		width:      80,
		height:     24,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.resumeCmd()}
	if a.start != "" {
		cmds = append(cmds, a.open(a.start))
	}
	return tea.Batch(cmds...)
}

// Close releases the click-zone tracker.
func (a *App) Close() {
	a.zones.Close()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.syncViewport()
	a.publish()
	return a, tea.Batch(cmd, a.screen.drain())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case deckLoadedMsg:
		return a.handleLoaded(msg)
	case sessionStartedMsg:
		return a.handleSessionStarted(msg)
	case resumeLoadedMsg:
		applyResume(&a.picker, msg)
		return nil
	case historyErrMsg:
		a.log.Warn("history", "op", msg.op, "err", msg.err)
		a.setError(fmt.Errorf("history %s: %w", msg.op, msg.err))
		return nil
	case fullscreenChangedMsg:
		a.screen.confirm(msg.active)
		a.log.Debug("fullscreen changed", "active", msg.active)
		return nil
	case anim.FrameMsg:
		return a.trans.Update(msg)
	case tickMsg:
		return a.handleTick(msg)
	case spinner.TickMsg:
		if a.nav.Phase() != nav.PhaseLoading {
			return nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd
	case remote.Command:
		return a.handleRemote(msg)
	}

	if a.nav.Phase() == nav.PhaseIdle {
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	a.picker.SetSize(w, max(h-1, 1))
	a.help.Width = w
	a.progress.Width = w
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func (a *App) scope() string {
	switch {
	case a.jumping:
		return keys.ScopeJump
	case a.nav.Phase() == nav.PhaseIdle:
		return keys.ScopePicker
	case a.nav.Phase() == nav.PhaseReady:
		return keys.ScopeViewer
	default:
		return keys.ScopeNotFound
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.jumping {
		return a.updateJump(msg)
	}
	switch a.nav.Phase() {
	case nav.PhaseIdle:
		return a.updatePicker(msg)
	case nav.PhaseReady:
		return a.updateViewer(msg)
	default:
		return a.updateNotFound(msg)
	}
}

func (a *App) updatePicker(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if a.picker.FilterState() == list.Filtering {
		a.picker, cmd = a.picker.Update(msg)
		return cmd
	}
	switch a.keys.Action(msg, keys.ScopePicker) {
	case keys.Quit:
		return a.quit()
	case keys.Open:
		if d, ok := selectedDeck(a.picker); ok {
			return a.open(d.id)
		}
		return nil
	}
	a.picker, cmd = a.picker.Update(msg)
	return cmd
}

func (a *App) updateNotFound(msg tea.KeyMsg) tea.Cmd {
	switch a.keys.Action(msg, keys.ScopeNotFound) {
	case keys.Home:
		return a.home()
	case keys.Quit:
		return a.quit()
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

const (
	zonePrev       = "sv-prev"
	zoneNext       = "sv-next"
	zoneHome       = "sv-home"
	zoneFullscreen = "sv-fullscreen"
)

func dotZone(i int) string { return fmt.Sprintf("sv-dot-%d", i) }

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.nav.Phase() == nav.PhaseReady && msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.viewport.SetYOffset(a.viewport.YOffset - 1)
			return nil
		case tea.MouseButtonWheelDown:
			a.viewport.SetYOffset(a.viewport.YOffset + 1)
			return nil
		}
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	ids := []string{zonePrev, zoneNext, zoneHome, zoneFullscreen}
	for i := 0; i < a.nav.Len(); i++ {
		ids = append(ids, dotZone(i))
	}
	for _, id := range ids {
		if z := a.zones.Get(id); z != nil && z.InBounds(msg) {
			return a.click(id)
		}
	}
	return nil
}

// click runs the affordance behind a zone id.
func (a *App) click(id string) tea.Cmd {
	if a.jumping {
		return nil
	}
	switch a.nav.Phase() {
	case nav.PhaseNotFound:
		if id == zoneHome {
			return a.home()
		}
		return nil
	case nav.PhaseReady:
	default:
		return nil
	}
	switch id {
	case zonePrev:
		if a.nav.Previous() {
			return a.moved()
		}
	case zoneNext:
		if a.nav.Next() {
			return a.moved()
		}
	case zoneHome:
		return a.home()
	case zoneFullscreen:
		a.fullscreenResult(a.nav.ToggleFullscreen())
	default:
		var i int
		if _, err := fmt.Sscanf(id, "sv-dot-%d", &i); err == nil {
			return a.jumpTo(i)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Remote control
// ---------------------------------------------------------------------------

func (a *App) handleRemote(c remote.Command) tea.Cmd {
	if a.nav.Phase() != nav.PhaseReady {
		return nil
	}
	a.log.Debug("remote command", "action", c.Action, "index", c.Index)
	switch c.Action {
	case remote.ActionNext:
		if a.nav.Next() {
			return a.moved()
		}
	case remote.ActionPrevious:
		if a.nav.Previous() {
			return a.moved()
		}
	case remote.ActionFullscreen:
		a.fullscreenResult(a.nav.ToggleFullscreen())
	case remote.ActionJump:
		return a.jumpTo(c.Index)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

// open requests a presentation; the result arrives as a deckLoadedMsg.
func (a *App) open(id string) tea.Cmd {
	a.nav.Begin(id)
	a.suggestions = nil
	a.clearStatus()
	a.log.Debug("opening presentation", "id", id)
	return tea.Batch(a.spinner.Tick, a.loadCmd(id))
}

func (a *App) handleLoaded(msg deckLoadedMsg) tea.Cmd {
	if a.nav.Phase() != nav.PhaseLoading || msg.id != a.nav.Requested() {
		return nil
	}
	a.nav.Resolve(msg.deck)
	if a.nav.Phase() == nav.PhaseNotFound {
		a.suggestions = a.store.Suggest(msg.id, 3)
		a.log.Warn("presentation not found", "id", msg.id)
		return nil
	}
	a.detach = a.nav.Attach(a.screen)
	a.trans.Stop()
	a.log.Info("presentation opened", "id", msg.deck.ID, "slides", msg.deck.Len())
	return tea.Batch(a.moved(), a.startSessionCmd(msg.deck))
}

func (a *App) handleSessionStarted(msg sessionStartedMsg) tea.Cmd {
	if msg.err != nil {
		a.log.Warn("history", "op", "start session", "err", msg.err)
		a.setError(fmt.Errorf("history start session: %w", msg.err))
	}
	p := a.nav.Presentation()
	current := a.nav.Phase() == nav.PhaseReady && p != nil && p.ID == msg.presentationID && a.session == ""
	if msg.session.ID == "" {
		if current {
			a.starting, a.queued = false, nil
		}
		return nil
	}
	if !current {
		// the viewer moved on before the session was recorded
		return a.endCmd(msg.session.ID, 0)
	}
	a.session = msg.session.ID
	queued := a.queued
	a.starting, a.queued = false, nil
	if len(queued) == 0 {
		return nil
	}
	return a.recordViewsCmd(a.session, queued)
}

// leave ends the current view session: fullscreen is released, the
// platform subscription is dropped and the history session closed.
func (a *App) leave() tea.Cmd {
	a.jumping = false
	a.jump.Blur()
	a.trans.Stop()
	a.tickGen++
	a.starting, a.queued = false, nil
	if a.nav.Phase() != nav.PhaseReady {
		return nil
	}
	last := a.nav.State().Index
	a.fullscreenResult(a.nav.ExitFullscreen())
	if a.detach != nil {
		a.detach()
		a.detach = nil
	}
	return a.endSessionCmd(last)
}

// home returns to the picker.
func (a *App) home() tea.Cmd {
	end := a.leave()
	a.nav = nav.New(a.screen)
	a.suggestions = nil
	a.clearStatus()
	return tea.Sequence(end, a.resumeCmd())
}

func (a *App) quit() tea.Cmd {
	return tea.Sequence(a.leave(), tea.Quit)
}

// ---------------------------------------------------------------------------
// Status line
// ---------------------------------------------------------------------------

func (a *App) setStatus(s string) {
	a.status, a.statusErr = s, false
}

func (a *App) setError(err error) {
	a.status, a.statusErr = err.Error(), true
}

func (a *App) clearStatus() {
	a.status, a.statusErr = "", false
}

func (a *App) fullscreenResult(err error) {
	if err != nil {
		a.log.Warn("fullscreen", "err", err)
		a.setError(err)
	}
}
