package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrFullscreenDisabled is returned when fullscreen is turned off in config.
var ErrFullscreenDisabled = errors.New("fullscreen disabled")

// fullscreenChangedMsg confirms that the terminal switched screens.
type fullscreenChangedMsg struct {
	active bool
}

// altScreen is the fullscreen platform: fullscreen is the terminal's
// alternate screen. Requests queue commands that the App hands to the
// runtime; the switch is confirmed by a fullscreenChangedMsg, which is then
// fanned out to subscribers.
type altScreen struct {
	allowed bool
	active  bool
	pending []tea.Cmd
	subs    map[int]func(bool)
	nextSub int
}

func newAltScreen(allowed bool) *altScreen {
	return &altScreen{allowed: allowed, subs: make(map[int]func(bool))}
}

func (s *altScreen) Request(enter bool) error {
	if enter && !s.allowed {
		return ErrFullscreenDisabled
	}
	screenCmd := tea.ExitAltScreen
	if enter {
		screenCmd = tea.EnterAltScreen
	}
	s.pending = append(s.pending, tea.Sequence(screenCmd, func() tea.Msg {
		return fullscreenChangedMsg{active: enter}
	}))
	return nil
}

func (s *altScreen) Active() bool { return s.active }

func (s *altScreen) Subscribe(fn func(bool)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// confirm records the platform's state and notifies subscribers.
func (s *altScreen) confirm(active bool) {
	s.active = active
	for _, fn := range s.subs {
		fn(active)
	}
}

// drain returns and clears the queued screen switches.
func (s *altScreen) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Sequence(cmds...)
}
