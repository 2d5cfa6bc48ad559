package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/slideview/internal/deck"
)

func contentOf[T deck.Content](s deck.Slide) T {
	c, _ := s.Content.(T)
	return c
}

// stack joins the non-empty blocks with a blank line between them.
func stack(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

func wrap(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func center(f Frame, block string) string {
	if f.Height > 0 {
		return lipgloss.Place(f.width(), f.Height, lipgloss.Center, lipgloss.Center, block)
	}
	return lipgloss.PlaceHorizontal(f.width(), lipgloss.Center, block)
}

func heading(title string, f Frame) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	title = wrap(title, f.width())
	rule := strings.Repeat("─", min(f.width(), lipgloss.Width(title)))
	return titleStyle(f.accent).Render(title) + "\n" + borderStyle.Render(rule)
}

func bulletList(items []string, width int, enum list.Enumerator) string {
	if len(items) == 0 {
		return ""
	}
	l := list.New().
		Enumerator(enum).
		EnumeratorStyle(mutedStyle.PaddingRight(1)).
		ItemStyle(textStyle.Width(max(10, width-4)))
	for _, it := range items {
		l.Item(it)
	}
	return l.String()
}

// gappedBullet leaves blank items without a marker so they read as spacers.
func gappedBullet(items list.Items, i int) string {
	if strings.TrimSpace(items.At(i).Value()) == "" {
		return " "
	}
	return "•"
}

func checkmark(list.Items, int) string {
	return "✓"
}

func renderCover(s deck.Slide, f Frame) string {
	c := contentOf[deck.Cover](s)
	w := min(f.width(), 72)
	title := titleStyle(f.accent).Align(lipgloss.Center).Width(w).Render(c.Title)
	var sub, contact, date string
	if c.Subtitle != "" {
		sub = mutedStyle.Align(lipgloss.Center).Width(w).Render(c.Subtitle)
	}
	if c.Contact != "" {
		contact = textStyle.Align(lipgloss.Center).Width(w).Render(c.Contact)
	}
	if c.Date != "" {
		date = subtleStyle.Align(lipgloss.Center).Width(w).Render(c.Date)
	}
	return center(f, stack(title, sub, contact, date))
}

func renderPlan(s deck.Slide, f Frame) string {
	c := contentOf[deck.Plan](s)
	return stack(heading(c.Title, f), bulletList(c.Items, f.width(), list.Arabic))
}

func renderChapter(s deck.Slide, f Frame) string {
	c := contentOf[deck.Chapter](s)
	var label string
	if c.Number > 0 {
		label = mutedStyle.Render(fmt.Sprintf("Chapter %d", c.Number))
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		label,
		titleStyle(f.accent).Render(c.Title),
		subtleStyle.Render(c.Subtitle),
	)
	return center(f, block)
}

func renderBullets(s deck.Slide, f Frame) string {
	c, ok := s.Content.(deck.Bullets)
	if !ok {
		c = deck.Bullets{Title: s.Heading()}
	}
	var sub string
	if c.Subtitle != "" {
		sub = subtleStyle.Render(wrap(c.Subtitle, f.width()))
	}
	return stack(
		heading(c.Title, f),
		sub,
		textStyle.Render(wrap(c.Body, f.width())),
		bulletList(c.Points, f.width(), gappedBullet),
	)
}

func renderImage(s deck.Slide, f Frame) string {
	c := contentOf[deck.Image](s)
	var img string
	if c.ImageURL != "" {
		img = cardStyle.Render(mutedStyle.Render("image ") + textStyle.Render(ansi.Truncate(c.ImageURL, f.width()-12, "…")))
	}
	return stack(heading(c.Title, f), img, subtleStyle.Render(wrap(c.Caption, f.width())))
}

func renderSplit(s deck.Slide, f Frame) string {
	c := contentOf[deck.Split](s)
	mid := (len(c.Points) + 1) / 2
	colW := max(10, (f.width()-4)/2)
	left := bulletList(c.Points[:mid], colW, list.Bullet)
	right := bulletList(c.Points[mid:], colW, list.Bullet)
	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colW).Render(left),
		"    ",
		lipgloss.NewStyle().Width(colW).Render(right),
	)
	if len(c.Points) == 0 {
		cols = ""
	}
	return stack(heading(c.Title, f), cols)
}

func renderQuote(s deck.Slide, f Frame) string {
	c := contentOf[deck.Quote](s)
	w := min(f.width(), 64)
	var quote, author string
	if c.Text != "" {
		quote = textStyle.Italic(true).Width(w).Align(lipgloss.Center).Render("“" + c.Text + "”")
	}
	if c.Author != "" {
		author = lipgloss.NewStyle().Foreground(f.accent).Width(w).Align(lipgloss.Right).Render("- " + c.Author)
	}
	return center(f, stack(quote, author))
}

func renderThanks(s deck.Slide, f Frame) string {
	c := contentOf[deck.Thanks](s)
	w := min(f.width(), 72)
	line := func(st lipgloss.Style, v string) string {
		if v == "" {
			return ""
		}
		return st.Width(w).Align(lipgloss.Center).Render(v)
	}
	var reach []string
	for _, v := range []string{c.Contact, c.Email, c.Website} {
		if v != "" {
			reach = append(reach, v)
		}
	}
	return center(f, stack(
		line(titleStyle(f.accent), c.Title),
		line(mutedStyle, c.Subtitle),
		line(textStyle, c.Message),
		line(subtleStyle, strings.Join(reach, "  ·  ")),
	))
}

func renderParagraphs(s deck.Slide, f Frame) string {
	c := contentOf[deck.Paragraphs](s)
	if len(c.Body) == 0 {
		return heading(c.Title, f)
	}
	body := strings.Join(c.Body, "\n\n")
	if f.md != nil {
		if out, err := f.md.Render(body, f.width()); err == nil {
			return stack(heading(c.Title, f), out)
		}
	}
	paras := make([]string, 0, len(c.Body))
	for _, p := range c.Body {
		paras = append(paras, textStyle.Render(wrap(p, f.width())))
	}
	return stack(append([]string{heading(c.Title, f)}, paras...)...)
}

func renderMixed(s deck.Slide, f Frame) string {
	c := contentOf[deck.Mixed](s)
	var conclusion string
	if c.Conclusion != "" {
		conclusion = cardStyle.BorderForeground(f.accent).Width(max(10, f.width()-2)).Render(c.Conclusion)
	}
	return stack(
		heading(c.Title, f),
		textStyle.Render(wrap(c.Intro, f.width())),
		bulletList(c.Items, f.width(), list.Arabic),
		conclusion,
	)
}

func renderTechCarousel(s deck.Slide, f Frame) string {
	c := contentOf[deck.TechCarousel](s)
	if len(c.Technologies) == 0 {
		return heading(c.Title, f)
	}
	i := Cycle(f.Step, 0, len(c.Technologies))
	tech := c.Technologies[i]
	accent := AccentFor(tech.Color)
	w := min(f.width(), 56)

	name := strings.TrimSpace(tech.Icon + " " + tech.Name)
	card := cardStyle.BorderForeground(accent).Width(w).Align(lipgloss.Center).Render(stack(
		mutedStyle.Render(strings.ToUpper(tech.Domain)),
		titleStyle(accent).Render(name),
		textStyle.Render(tech.Description),
	))

	dots := make([]string, len(c.Technologies))
	for j := range c.Technologies {
		if j == i {
			dots[j] = lipgloss.NewStyle().Foreground(accent).Render("●")
		} else {
			dots[j] = borderStyle.Render("○")
		}
	}
	pager := strings.Join(dots, " ") + mutedStyle.Render(fmt.Sprintf("   %d / %d", i+1, len(c.Technologies)))

	return stack(heading(c.Title, f), center(Frame{Width: f.width()}, card), center(Frame{Width: f.width()}, pager))
}
