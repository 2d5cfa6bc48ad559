package keys

import "strings"

var viewer = []string{ScopeViewer}

func DefaultBindings() []Binding {
	return []Binding{
		{Keys: []string{"right", "space", "l", "pgdown"}, Action: Next, Description: "next", Scopes: viewer},
		{Keys: []string{"left", "h", "pgup"}, Action: Previous, Description: "prev", Scopes: viewer},
		{Keys: []string{"home"}, Action: First, Description: "first", Scopes: viewer, Hidden: true},
		{Keys: []string{"end"}, Action: Last, Description: "last", Scopes: viewer, Hidden: true},
		{Keys: []string{"f"}, Action: ToggleFullscreen, Description: "fullscreen", Scopes: viewer},
		{Keys: []string{"esc"}, Action: ExitFullscreen, Description: "exit fullscreen", Scopes: viewer, Hidden: true},
		{Keys: []string{"g"}, Action: Jump, Description: "go to", Scopes: viewer},
		{Keys: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, Action: JumpDigit, Description: "slide n", Scopes: viewer, Hidden: true},
		{Keys: []string{"v"}, Action: TableDetail, Description: "details", Scopes: viewer},
		{Keys: []string{"a"}, Action: CarouselPrev, Description: "carousel prev", Scopes: viewer, Hidden: true},
		{Keys: []string{"d"}, Action: CarouselNext, Description: "carousel next", Scopes: viewer, Hidden: true},
		{Keys: []string{"up", "k"}, Action: ScrollUp, Description: "scroll", Scopes: viewer, Hidden: true},
		{Keys: []string{"down", "j"}, Action: ScrollDown, Description: "scroll", Scopes: viewer, Hidden: true},
		{Keys: []string{"backspace"}, Action: Home, Description: "decks", Scopes: []string{ScopeViewer, ScopeNotFound}},
		{Keys: []string{"enter"}, Action: Open, Description: "open", Scopes: []string{ScopePicker}},
		{Keys: []string{"enter"}, Action: Confirm, Description: "go", Scopes: []string{ScopeJump}},
		{Keys: []string{"esc"}, Action: Cancel, Description: "cancel", Scopes: []string{ScopeJump}},
		{Keys: []string{"q", "ctrl+c"}, Action: Quit, Description: "quit", Scopes: []string{ScopeViewer, ScopePicker, ScopeNotFound}},
		{Keys: []string{"ctrl+c"}, Action: Quit, Description: "quit", Scopes: []string{ScopeJump}, Hidden: true},
	}
}

func DefaultKeysByAction(bindings []Binding) map[string][]string {
	out := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		if strings.TrimSpace(b.Action) == "" || len(b.Keys) == 0 {
			continue
		}
		if _, exists := out[b.Action]; exists {
			continue
		}
		out[b.Action] = append([]string(nil), b.Keys...)
	}
	return out
}

// ApplyOverrides replaces the keys of every binding whose action appears in
// actionKeys. Empty overrides are ignored.
func ApplyOverrides(bindings []Binding, actionKeys map[string][]string) []Binding {
	out := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		next := Binding{
			Keys:        append([]string(nil), b.Keys...),
			Action:      b.Action,
			Description: b.Description,
			Scopes:      append([]string(nil), b.Scopes...),
			Hidden:      b.Hidden,
		}
		if keys, ok := actionKeys[b.Action]; ok && len(keys) > 0 {
			next.Keys = append([]string(nil), keys...)
		}
		out = append(out, next)
	}
	return out
}
