package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/slideview/internal/deck"
)

func gridTable(headers []string, rows [][]string, width int, accent lipgloss.Color, selected int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle(accent).Padding(0, 1)
			case row == selected:
				return lipgloss.NewStyle().Foreground(accent).Background(colorSurface1).Bold(true).Padding(0, 1)
			default:
				return textStyle.Padding(0, 1)
			}
		})
	if len(headers) > 0 {
		t.Headers(headers...)
	}
	t.Rows(rows...)
	if width > 0 {
		t.Width(width)
	}
	return t.String()
}

// usedColumns drops columns that are blank in every row.
func usedColumns(headers []string, rows [][]string) ([]string, [][]string) {
	if len(rows) == 0 {
		return headers, rows
	}
	width := len(rows[0])
	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		used := col < len(headers) && strings.TrimSpace(headers[col]) != ""
		for _, r := range rows {
			if col < len(r) && strings.TrimSpace(r[col]) != "" {
				used = true
				break
			}
		}
		if used {
			keep = append(keep, col)
		}
	}
	if len(keep) == width {
		return headers, rows
	}
	pick := func(r []string) []string {
		out := make([]string, 0, len(keep))
		for _, col := range keep {
			if col < len(r) {
				out = append(out, r[col])
			}
		}
		return out
	}
	outRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		outRows = append(outRows, pick(r))
	}
	var outHeaders []string
	if len(headers) > 0 {
		outHeaders = pick(headers)
	}
	return outHeaders, outRows
}

func renderTable(s deck.Slide, f Frame) string {
	c := contentOf[deck.Table](s)
	data := c.Data
	var sub string
	if c.Subtitle != "" {
		sub = subtleStyle.Render(wrap(c.Subtitle, f.width()))
	}
	if len(data.Rows) == 0 {
		return stack(heading(c.Title, f), sub)
	}

	headers, rows := usedColumns(data.Headers, data.Rows)
	selected := NoDetail
	if f.Detail >= 0 && f.Detail < len(rows) {
		selected = f.Detail
	}
	if data.HasDetails() {
		numbered := make([][]string, 0, len(rows))
		for i, r := range rows {
			numbered = append(numbered, append([]string{fmt.Sprintf("%d", i+1)}, r...))
		}
		rows = numbered
		if len(headers) > 0 {
			headers = append([]string{"#"}, headers...)
		}
	}

	tableW := f.width()
	var card string
	if selected != NoDetail && selected < len(data.RowDetails) {
		image := ""
		if selected < len(data.RowImages) {
			image = data.RowImages[selected]
		}
		name := ""
		if len(data.Rows[selected]) > 0 {
			name = data.Rows[selected][0]
		}
		if f.width() >= 100 {
			tableW = f.width() / 3
			card = detailCard(name, image, data.RowDetails[selected], f.width()-tableW-2, f.accent)
		} else {
			card = detailCard(name, image, data.RowDetails[selected], f.width(), f.accent)
		}
	}

	grid := gridTable(headers, rows, tableW, f.accent, selected)
	if card != "" && tableW < f.width() {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", card)
		card = ""
	}
	var hint string
	if data.HasDetails() && selected == NoDetail {
		hint = mutedStyle.Render("press v to open row details")
	}
	return stack(heading(c.Title, f), sub, grid, card, hint)
}

func detailCard(name, image string, d deck.RowDetail, width int, accent lipgloss.Color) string {
	inner := max(10, width-4)
	section := func(label string, items []string, enum list.Enumerator) string {
		if len(items) == 0 {
			return ""
		}
		return mutedStyle.Render(label) + "\n" + bulletList(items, inner, enum)
	}
	var img, tech, cost, ref string
	if image != "" {
		img = mutedStyle.Render("image ") + textStyle.Render(ansi.Truncate(image, inner-6, "…"))
	}
	if len(d.Technologies) > 0 {
		tech = mutedStyle.Render("Technologies ") + textStyle.Render(strings.Join(d.Technologies, ", "))
	}
	if d.Cost != "" {
		cost = mutedStyle.Render("Cost ") + textStyle.Render(d.Cost)
	}
	if d.Reference != "" {
		ref = subtleStyle.Render(d.Reference)
	}
	body := stack(
		titleStyle(accent).Render(name),
		img,
		textStyle.Render(wrap(d.Description, inner)),
		section("Advantages", d.Advantages, checkmark),
		section("Limits", d.Limits, list.Dash),
		wrap(tech, inner),
		cost,
		wrap(ref, inner),
	)
	return cardStyle.BorderForeground(accent).Width(max(12, width-2)).Render(body)
}

func renderSchema(s deck.Slide, f Frame) string {
	c := contentOf[deck.Schema](s)
	var desc, body string
	if c.Diagram.Description != "" {
		desc = subtleStyle.Render(wrap(c.Diagram.Description, f.width()))
	}
	switch c.Diagram.Kind {
	case deck.DiagramArchitecture:
		body = architecture(c.Diagram.Nodes, f)
	case deck.DiagramDetailedTree:
		body = serviceTrees(c.Diagram.Services, f)
	case deck.DiagramFlow:
		body = flow(c.Diagram.Nodes, f)
	default:
		if strings.TrimSpace(c.Diagram.Tree) != "" {
			body = textStyle.Render(c.Diagram.Tree)
		} else if len(c.Diagram.Services) > 0 {
			body = serviceTrees(c.Diagram.Services, f)
		}
	}
	return stack(heading(c.Title, f), desc, body)
}

// architecture lays nodes out in tiers by the first word of their position
// (top, middle, bottom) and highlights one node per animation step.
func architecture(nodes []deck.Node, f Frame) string {
	if len(nodes) == 0 {
		return ""
	}
	lit := -1
	if f.Step > 0 {
		lit = (f.Step - 1) % len(nodes)
	}
	tiers := map[string][]string{}
	var order []string
	for i, n := range nodes {
		tier, _, _ := strings.Cut(n.Position, "-")
		if tier == "" {
			tier = "middle"
		}
		if _, ok := tiers[tier]; !ok {
			order = append(order, tier)
		}
		box := cardStyle.Align(lipgloss.Center)
		if i == lit {
			box = box.BorderForeground(f.accent).Foreground(f.accent).Bold(true)
		}
		tiers[tier] = append(tiers[tier], box.Render(n.Label))
	}
	rows := make([]string, 0, len(order)*2)
	for i, tier := range order {
		if i > 0 {
			rows = append(rows, center(Frame{Width: f.width()}, borderStyle.Render("│\n▼")))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Center, spaced(tiers[tier])...)
		rows = append(rows, center(Frame{Width: f.width()}, row))
	}
	return strings.Join(rows, "\n")
}

func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, "    ")
		}
		out = append(out, b)
	}
	return out
}

func flow(nodes []deck.Node, f Frame) string {
	if len(nodes) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(nodes)*2)
	for i, n := range nodes {
		if i > 0 {
			boxes = append(boxes, borderStyle.Render(" ──▶ "))
		}
		boxes = append(boxes, cardStyle.Render(n.Label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, boxes...)
	if lipgloss.Width(row) > f.width() {
		labels := make([]string, 0, len(nodes))
		for _, n := range nodes {
			labels = append(labels, strings.ReplaceAll(n.Label, "\n", " "))
		}
		return bulletList(labels, f.width(), list.Arabic)
	}
	return row
}

// serviceTrees draws each service's directory sketch as a tree, packing the
// boxes into rows that fit the frame width.
func serviceTrees(services []deck.Service, f Frame) string {
	boxes := make([]string, 0, len(services))
	for _, svc := range services {
		head := strings.TrimSpace(svc.Icon + " " + svc.Name)
		accent := AccentFor(svc.Color)
		body := titleStyle(accent).Render(head)
		if svc.Tech != "" {
			body += "\n" + mutedStyle.Render(svc.Tech)
		}
		if t := structureTree(svc.Structure); t != nil {
			body += "\n" + t.EnumeratorStyle(borderStyle).ItemStyle(textStyle).RootStyle(textStyle).String()
		}
		boxes = append(boxes, cardStyle.BorderForeground(accent).Render(body))
	}

	var rows []string
	var line []string
	lineW := 0
	for _, b := range boxes {
		bw := lipgloss.Width(b) + 2
		if len(line) > 0 && lineW+bw > f.width() {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, lineW = nil, 0
		}
		if len(line) > 0 {
			line = append(line, "  ")
		}
		line = append(line, b)
		lineW += bw
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(rows, "\n")
}

var treeGlyphs = []string{"├── ", "└── ", "|-- ", "`-- "}

// structureTree rebuilds a tree from lines that already carry box-drawing
// prefixes ("├── ", "│   "). The first line is the root.
func structureTree(lines []string) *tree.Tree {
	if len(lines) == 0 {
		return nil
	}
	root := tree.Root(strings.TrimSpace(lines[0])).Enumerator(tree.RoundedEnumerator)
	parents := []*tree.Tree{root}
	for _, raw := range lines[1:] {
		depth, name := 1, raw
		for {
			if rest, ok := strings.CutPrefix(name, "│   "); ok {
				name, depth = rest, depth+1
				continue
			}
			if rest, ok := strings.CutPrefix(name, "    "); ok {
				name, depth = rest, depth+1
				continue
			}
			break
		}
		for _, g := range treeGlyphs {
			if rest, ok := strings.CutPrefix(name, g); ok {
				name = rest
				break
			}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for len(parents) > depth {
			parents = parents[:len(parents)-1]
		}
		node := tree.Root(name).Enumerator(tree.RoundedEnumerator)
		parents[len(parents)-1].Child(node)
		parents = append(parents, node)
	}
	return root
}

func renderTimeline(s deck.Slide, f Frame) string {
	c := contentOf[deck.Timeline](s)
	var steps string
	if len(c.Steps) > 0 {
		parts := make([]string, 0, len(c.Steps)*2)
		for i, st := range c.Steps {
			if i > 0 {
				parts = append(parts, borderStyle.Render("──▶"))
			}
			num := lipgloss.NewStyle().Foreground(f.accent).Bold(true).Render(fmt.Sprintf("%d", i+1))
			parts = append(parts, cardStyle.Align(lipgloss.Center).Render(num+"\n"+st))
		}
		steps = lipgloss.JoinHorizontal(lipgloss.Center, parts...)
		if lipgloss.Width(steps) > f.width() {
			steps = bulletList(c.Steps, f.width(), list.Arabic)
		}
	}
	var conclusion string
	if c.Conclusion != "" {
		conclusion = successStyle.Render(wrap(c.Conclusion, f.width()))
	}
	return stack(
		heading(c.Title, f),
		textStyle.Render(wrap(c.Intro, f.width())),
		steps,
		conclusion,
	)
}

func renderQuality(s deck.Slide, f Frame) string {
	c := contentOf[deck.Quality](s)
	var checks, kpis string
	half := f.width()
	sideBySide := f.width() >= 100 && len(c.Checklist) > 0 && len(c.KPIs.Rows) > 0
	if sideBySide {
		half = (f.width() - 2) / 2
	}
	if len(c.Checklist) > 0 {
		l := list.New().
			Enumerator(checkmark).
			EnumeratorStyle(successStyle.PaddingRight(1)).
			ItemStyle(textStyle.Width(max(10, half-4)))
		for _, it := range c.Checklist {
			l.Item(it)
		}
		checks = l.String()
	}
	if len(c.KPIs.Rows) > 0 {
		kpis = gridTable(c.KPIs.Headers, c.KPIs.Rows, half, f.accent, NoDetail)
	}
	if sideBySide {
		return stack(heading(c.Title, f), lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(half).Render(checks), "  ", kpis))
	}
	return stack(heading(c.Title, f), checks, kpis)
}
