// Package keys maps key presses to named actions per input scope.
package keys

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Scopes.
const (
	ScopeAll      = "*"
	ScopeViewer   = "viewer"
	ScopePicker   = "picker"
	ScopeJump     = "jump"
	ScopeNotFound = "not-found"
)

// Actions.
const (
	Next             = "next"
	Previous         = "previous"
	First            = "first"
	Last             = "last"
	ToggleFullscreen = "toggle-fullscreen"
	ExitFullscreen   = "exit-fullscreen"
	Jump             = "jump"
	JumpDigit        = "jump-digit"
	TableDetail      = "table-detail"
	CarouselPrev     = "carousel-prev"
	CarouselNext     = "carousel-next"
	ScrollUp         = "scroll-up"
	ScrollDown       = "scroll-down"
	Home             = "home"
	Open             = "open"
	Confirm          = "confirm"
	Cancel           = "cancel"
	Quit             = "quit"
)

type Binding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
	// Hidden bindings work but are left out of the footer.
	Hidden bool
}

type Registry struct {
	bindings []Binding
}

func NewRegistry(bindings []Binding) *Registry {
	return &Registry{bindings: slices.Clone(bindings)}
}

func (r *Registry) Register(binding Binding) {
	r.bindings = append(r.bindings, binding)
}

func (r *Registry) BindingsForScope(scope string) []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the first action bound to msg in scope, or "".
func (r *Registry) Action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

func (r *Registry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

// KeysFor returns the keys bound to action in scope.
func (r *Registry) KeysFor(action, scope string) []string {
	var out []string
	for _, b := range r.bindings {
		if b.Action == action && scopeMatch(scope, b.Scopes) {
			out = append(out, b.Keys...)
		}
	}
	return out
}

// Help adapts the visible bindings of a scope to bubbles/help.
func (r *Registry) Help(scope string) HelpMap {
	var out HelpMap
	for _, b := range r.BindingsForScope(scope) {
		if b.Hidden || len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey(b.Keys), b.Description)))
	}
	return out
}

// HelpMap implements help.KeyMap.
type HelpMap []key.Binding

func (h HelpMap) ShortHelp() []key.Binding { return h }

func (h HelpMap) FullHelp() [][]key.Binding {
	const perColumn = 4
	var cols [][]key.Binding
	for i := 0; i < len(h); i += perColumn {
		cols = append(cols, h[i:min(i+perColumn, len(h))])
	}
	return cols
}

var keyGlyphs = map[string]string{
	"right": "→",
	"left":  "←",
	"up":    "↑",
	"down":  "↓",
	" ":     "space",
	"space": "space",
}

func helpKey(keys []string) string {
	shown := make([]string, 0, 2)
	for _, k := range keys[:min(2, len(keys))] {
		if g, ok := keyGlyphs[k]; ok {
			k = g
		}
		shown = append(shown, k)
	}
	return strings.Join(shown, "/")
}

func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == ScopeAll || s == scope {
			return true
		}
	}
	return false
}
