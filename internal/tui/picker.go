package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slideview/internal/deck"
)

// deckItem is one presentation in the picker.
type deckItem struct {
	id     string
	title  string
	author string
	slides int
	resume int // last viewed index, -1 when never opened
}

func newDeckItem(p *deck.Presentation) deckItem {
	return deckItem{id: p.ID, title: p.Title, author: p.Author, slides: p.Len(), resume: -1}
}

func (d deckItem) Title() string { return d.title }

func (d deckItem) Description() string {
	desc := fmt.Sprintf("%s · %d slides", d.id, d.slides)
	if d.author != "" {
		desc += " · " + d.author
	}
	if d.resume > 0 {
		desc += fmt.Sprintf(" · last at slide %d", d.resume+1)
	}
	return desc
}

func (d deckItem) FilterValue() string { return d.title + " " + d.id }

func newPicker(decks []*deck.Presentation) list.Model {
	items := make([]list.Item, 0, len(decks))
	for _, p := range decks {
		items = append(items, newDeckItem(p))
	}
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(colorSubtext0).BorderForeground(colorAccent)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Presentations"
	l.Styles.Title = titleStyle.Padding(0, 1)
	l.Styles.NoItems = lipgloss.NewStyle()
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// applyResume sets the last viewed index on every listed deck.
func applyResume(l *list.Model, resume map[string]int) {
	items := l.Items()
	for i, it := range items {
		d, ok := it.(deckItem)
		if !ok {
			continue
		}
		if idx, ok := resume[d.id]; ok {
			d.resume = idx
			items[i] = d
		}
	}
	l.SetItems(items)
}

func selectedDeck(l list.Model) (deckItem, bool) {
	d, ok := l.SelectedItem().(deckItem)
	return d, ok
}
