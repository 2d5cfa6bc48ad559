package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slideview/internal/anim"
	"github.com/jask/slideview/internal/deck"
	"github.com/jask/slideview/internal/keys"
	"github.com/jask/slideview/internal/nav"
	"github.com/jask/slideview/internal/render"
)

// chromeLines is the header, progress bar, dots and footer.
const chromeLines = 4

func (a *App) updateViewer(msg tea.KeyMsg) tea.Cmd {
	s, _ := a.nav.Current()
	switch a.keys.Action(msg, keys.ScopeViewer) {
	case keys.Next:
		if a.nav.Next() {
			return a.moved()
		}
	case keys.Previous:
		if a.nav.Previous() {
			return a.moved()
		}
	case keys.First:
		return a.jumpTo(0)
	case keys.Last:
		return a.jumpTo(a.nav.Len() - 1)
	case keys.ToggleFullscreen:
		a.fullscreenResult(a.nav.ToggleFullscreen())
	case keys.ExitFullscreen:
		a.fullscreenResult(a.nav.ExitFullscreen())
	case keys.Jump:
		return a.openJump()
	case keys.JumpDigit:
		if n, err := strconv.Atoi(msg.String()); err == nil {
			return a.jumpTo(n - 1)
		}
	case keys.TableDetail:
		if rows := render.DetailRows(s); rows > 0 {
			a.detail = render.NextDetail(a.detail, rows)
		}
	case keys.CarouselPrev:
		return a.turnCarousel(s, -1)
	case keys.CarouselNext:
		return a.turnCarousel(s, 1)
	case keys.ScrollUp:
		a.viewport.SetYOffset(a.viewport.YOffset - 1)
	case keys.ScrollDown:
		a.viewport.SetYOffset(a.viewport.YOffset + 1)
	case keys.Home:
		return a.home()
	case keys.Quit:
		return a.quit()
	}
	return nil
}

// moved resets the slide-local state after the index changed and starts
// the entrance transition.
func (a *App) moved() tea.Cmd {
	s, ok := a.nav.Current()
	if !ok {
		return nil
	}
	st := a.nav.State()
	a.step, a.detail = 0, render.NoDetail
	a.viewport.GotoTop()
	a.log.Debug("slide", "index", st.Index, "id", s.ID, "type", s.Type, "direction", st.Direction)
	return tea.Batch(
		a.trans.Start(s.Animation, st.Direction),
		a.scheduleTick(),
		a.recordViewCmd(st.Index, s.ID),
	)
}

// jumpTo moves to index i, reporting out-of-range targets on the status line.
func (a *App) jumpTo(i int) tea.Cmd {
	if !a.nav.InRange(i) {
		a.setError(fmt.Errorf("no slide %d (1-%d)", i+1, a.nav.Len()))
		return nil
	}
	before := a.nav.State().Index
	a.nav.Jump(i)
	if i == before {
		return nil
	}
	return a.moved()
}

func (a *App) turnCarousel(s deck.Slide, delta int) tea.Cmd {
	if _, ok := s.Content.(deck.TechCarousel); !ok {
		return nil
	}
	a.step = render.Cycle(a.step, delta, render.Steps(s))
	return a.scheduleTick()
}

// scheduleTick starts a new cosmetic tick generation for the current slide.
func (a *App) scheduleTick() tea.Cmd {
	a.tickGen++
	s, ok := a.nav.Current()
	if !ok {
		return nil
	}
	d, ok := render.Ticker(s)
	if !ok {
		return nil
	}
	gen := a.tickGen
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (a *App) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != a.tickGen || a.nav.Phase() != nav.PhaseReady {
		return nil
	}
	s, ok := a.nav.Current()
	if !ok {
		return nil
	}
	a.step = render.Cycle(a.step, 1, render.Steps(s))
	return a.scheduleTick()
}

// ---------------------------------------------------------------------------
// Jump prompt
// ---------------------------------------------------------------------------

func (a *App) openJump() tea.Cmd {
	a.jumping = true
	a.jump.Reset()
	a.jump.Placeholder = fmt.Sprintf("1-%d", a.nav.Len())
	return a.jump.Focus()
}

func (a *App) closeJump() {
	a.jumping = false
	a.jump.Blur()
}

func (a *App) updateJump(msg tea.KeyMsg) tea.Cmd {
	switch a.keys.Action(msg, keys.ScopeJump) {
	case keys.Cancel:
		a.closeJump()
		return nil
	case keys.Quit:
		return a.quit()
	case keys.Confirm:
		raw := strings.TrimSpace(a.jump.Value())
		a.closeJump()
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.setError(fmt.Errorf("not a slide number: %q", raw))
			return nil
		}
		return a.jumpTo(n - 1)
	}
	var cmd tea.Cmd
	a.jump, cmd = a.jump.Update(msg)
	return cmd
}

// ---------------------------------------------------------------------------
// Drawing
// ---------------------------------------------------------------------------

func (a *App) bodySize() (int, int) {
	if a.nav.State().Fullscreen {
		return a.width, max(a.height, 1)
	}
	return a.width, max(a.height-chromeLines, 1)
}

// syncViewport renders the current slide into the viewport when anything
// it depends on changed.
func (a *App) syncViewport() {
	if a.nav.Phase() != nav.PhaseReady {
		a.drawn = drawKey{}
		return
	}
	s, ok := a.nav.Current()
	if !ok {
		return
	}
	w, h := a.bodySize()
	key := drawKey{
		deck:           a.nav.Presentation().ID,
		index:          a.nav.State().Index,
		step:           a.step,
		detail:         a.detail,
		width:          w,
		height:         h,
		offset:         a.trans.Offset(),
		fullscreenView: a.nav.State().Fullscreen,
	}
	if key == a.drawn {
		return
	}
	a.drawn = key
	a.viewport.Width, a.viewport.Height = w, h

	frame := render.Frame{
		Width:  max(w-slidePadStyle.GetHorizontalPadding(), 20),
		Height: max(h-slidePadStyle.GetVerticalPadding(), 1),
		Step:   a.step,
		Detail: a.detail,
	}
	body := slidePadStyle.Render(a.dispatcher.Render(s, frame))
	a.viewport.SetContent(anim.Shift(body, key.offset, w))
}

func (a *App) View() string {
	var out string
	switch a.nav.Phase() {
	case nav.PhaseIdle:
		out = placeWithFooter(a.picker.View(), a.footerView(), a.width, a.height)
	case nav.PhaseLoading:
		out = a.loadingView()
	case nav.PhaseNotFound:
		out = a.notFoundView()
	default:
		out = a.viewerView()
	}
	return a.zones.Scan(out)
}

func (a *App) viewerView() string {
	body := a.viewport.View()
	var out string
	if a.nav.State().Fullscreen {
		out = body
	} else {
		footer := strings.Join([]string{a.progressView(), a.dotsView(), a.footerView()}, "\n")
		out = a.headerView() + "\n" + placeWithFooter(body, footer, a.width, a.height-1)
	}
	if a.jumping {
		prompt := titleStyle.Render("Go to slide") + "\n" + a.jump.View()
		out = composeModal(out, prompt, a.width, a.height)
	}
	return out
}

func (a *App) headerView() string {
	p := a.nav.Presentation()
	st := a.nav.State()
	left := a.zones.Mark(zoneHome, "⌂") + " " + p.Title
	right := a.zones.Mark(zonePrev, "‹") +
		fmt.Sprintf(" %d / %d ", st.Index+1, p.Len()) +
		a.zones.Mark(zoneNext, "›") + "  " +
		a.zones.Mark(zoneFullscreen, "□")
	return headerStyle.Render(spread(" "+left, right+" ", a.width))
}

func (a *App) progressView() string {
	n := a.nav.Len()
	if n == 0 {
		return ""
	}
	return a.progress.ViewAs(float64(a.nav.State().Index+1) / float64(n))
}

// dotsView draws one clickable dot per slide.
func (a *App) dotsView() string {
	n := a.nav.Len()
	sep := " "
	if 2*n > a.width {
		sep = ""
	}
	cur := a.nav.State().Index
	dots := make([]string, n)
	for i := range dots {
		dot := dotStyle.Render("○")
		if i == cur {
			dot = dotOnStyle.Render("●")
		}
		dots[i] = a.zones.Mark(dotZone(i), dot)
	}
	line := strings.Join(dots, sep)
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, line)
}

func (a *App) footerView() string {
	h := a.help.View(a.keys.Help(a.scope()))
	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(a.status)
		} else {
			status = statusStyle.Render(a.status)
		}
	}
	return spread(h, status, a.width)
}

func (a *App) loadingView() string {
	msg := a.spinner.View() + " Loading " + warningStyle.Render(a.nav.Requested()) + "…"
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, msg)
}

func (a *App) notFoundView() string {
	lines := []string{
		errorStyle.Bold(true).Render("Presentation not found"),
		"",
		mutedStyle.Render("No presentation with id ") + strconv.Quote(a.nav.Requested()),
	}
	if len(a.suggestions) > 0 {
		lines = append(lines, mutedStyle.Render("Did you mean: ")+successStyle.Render(strings.Join(a.suggestions, ", ")))
	}
	lines = append(lines, "", a.zones.Mark(zoneHome, linkStyle.Render("← back to presentations")))
	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	main := lipgloss.Place(a.width, max(a.height-1, 1), lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + a.footerView()
}
