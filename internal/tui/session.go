package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/slideview/internal/database/repository"
	"github.com/jask/slideview/internal/deck"
	"github.com/jask/slideview/internal/remote"
)

// History records viewing sessions. *repository.HistoryRepo satisfies it.
type History interface {
	Start(ctx context.Context, presentationID string) (repository.Session, error)
	RecordView(ctx context.Context, sessionID string, index int, slideID string) error
	End(ctx context.Context, sessionID string, lastIndex int) error
	LastIndex(ctx context.Context, presentationID string) (int, bool, error)
}

// Publisher receives the viewer state for remote clients.
type Publisher interface {
	Publish(remote.State)
	Clear()
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type deckLoadedMsg struct {
	id   string
	deck *deck.Presentation
}

type sessionStartedMsg struct {
	presentationID string
	session        repository.Session
	err            error
}

type resumeLoadedMsg map[string]int

// slideVisit is a view waiting for its session to be created.
type slideVisit struct {
	index int
	id    string
}

type historyErrMsg struct {
	op  string
	err error
}

// tickMsg advances template-local cosmetic state (carousel, diagram step).
type tickMsg struct {
	gen int
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (a *App) loadCmd(id string) tea.Cmd {
	return func() tea.Msg {
		p, _ := a.store.Get(id)
		return deckLoadedMsg{id: id, deck: p}
	}
}

func (a *App) resumeCmd() tea.Cmd {
	if a.history == nil {
		return nil
	}
	ids := make([]string, 0, a.store.Len())
	for _, p := range a.store.List() {
		ids = append(ids, p.ID)
	}
	return func() tea.Msg {
		out := make(resumeLoadedMsg, len(ids))
		for _, id := range ids {
			idx, ok, err := a.history.LastIndex(a.ctx, id)
			if err != nil {
				return historyErrMsg{op: "resume", err: err}
			}
			if ok {
				out[id] = idx
			}
		}
		return out
	}
}

func (a *App) startSessionCmd(p *deck.Presentation) tea.Cmd {
	if a.history == nil {
		return nil
	}
	id := p.ID
	first, _ := p.At(0)
	a.starting, a.queued = true, nil
	return func() tea.Msg {
		s, err := a.history.Start(a.ctx, id)
		if err == nil {
			err = a.history.RecordView(a.ctx, s.ID, 0, first.ID)
		}
		return sessionStartedMsg{presentationID: id, session: s, err: err}
	}
}

// recordViewCmd logs a slide view. Views made while the session is still
// being created are queued and written once it exists.
func (a *App) recordViewCmd(index int, slideID string) tea.Cmd {
	if a.history == nil {
		return nil
	}
	v := slideVisit{index: index, id: slideID}
	if a.session == "" {
		if a.starting {
			a.queued = append(a.queued, v)
		}
		return nil
	}
	return a.recordViewsCmd(a.session, []slideVisit{v})
}

func (a *App) recordViewsCmd(sessionID string, visits []slideVisit) tea.Cmd {
	return func() tea.Msg {
		for _, v := range visits {
			if err := a.history.RecordView(a.ctx, sessionID, v.index, v.id); err != nil {
				return historyErrMsg{op: "record view", err: err}
			}
		}
		return nil
	}
}

func (a *App) endSessionCmd(lastIndex int) tea.Cmd {
	if a.history == nil || a.session == "" {
		return nil
	}
	sessionID := a.session
	a.session = ""
	return a.endCmd(sessionID, lastIndex)
}

func (a *App) endCmd(sessionID string, lastIndex int) tea.Cmd {
	return func() tea.Msg {
		if err := a.history.End(a.ctx, sessionID, lastIndex); err != nil {
			return historyErrMsg{op: "end session", err: err}
		}
		return nil
	}
}

// publish pushes the viewer state to remote clients when it changed.
func (a *App) publish() {
	if a.remote == nil {
		return
	}
	st, ok := a.remoteState()
	if !ok {
		if a.published != nil {
			a.remote.Clear()
			a.published = nil
		}
		return
	}
	if a.published != nil && *a.published == st {
		return
	}
	a.remote.Publish(st)
	a.published = &st
}

func (a *App) remoteState() (remote.State, bool) {
	p := a.nav.Presentation()
	s, ok := a.nav.Current()
	if p == nil || !ok {
		return remote.State{}, false
	}
	st := a.nav.State()
	return remote.State{
		PresentationID: p.ID,
		Index:          st.Index,
		Total:          p.Len(),
		SlideID:        s.ID,
		SlideType:      string(s.Type),
		Direction:      st.Direction.String(),
		Fullscreen:     st.Fullscreen,
	}, true
}
