package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a deck document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from a file extension. JSON is
// read through the YAML decoder.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

type presentationDoc struct {
	ID          string     `yaml:"id" toml:"id"`
	Title       string     `yaml:"title" toml:"title"`
	Description string     `yaml:"description" toml:"description"`
	Author      string     `yaml:"author" toml:"author"`
	Design      string     `yaml:"design" toml:"design"`
	Slides      []slideDoc `yaml:"slides" toml:"slides"`
}

type slideDoc struct {
	ID         string     `yaml:"id" toml:"id"`
	Type       string     `yaml:"type" toml:"type"`
	Content    contentDoc `yaml:"content" toml:"content"`
	Background string     `yaml:"background" toml:"background"`
	Animation  string     `yaml:"animation" toml:"animation"`
	Order      int        `yaml:"order" toml:"order"`
}

type contentDoc struct {
	Title         string          `yaml:"title" toml:"title"`
	Subtitle      string          `yaml:"subtitle" toml:"subtitle"`
	Content       string          `yaml:"content" toml:"content"`
	BulletPoints  []string        `yaml:"bulletPoints" toml:"bulletPoints"`
	ImageURL      string          `yaml:"imageUrl" toml:"imageUrl"`
	Quote         string          `yaml:"quote" toml:"quote"`
	Author        string          `yaml:"author" toml:"author"`
	ChapterNumber int             `yaml:"chapterNumber" toml:"chapterNumber"`
	Date          string          `yaml:"date" toml:"date"`
	Contact       string          `yaml:"contact" toml:"contact"`
	Email         string          `yaml:"email" toml:"email"`
	Website       string          `yaml:"website" toml:"website"`
	Message       string          `yaml:"message" toml:"message"`
	Items         []string        `yaml:"items" toml:"items"`
	TableData     *tableDoc       `yaml:"tableData" toml:"tableData"`
	Paragraphs    []string        `yaml:"paragraphs" toml:"paragraphs"`
	Intro         string          `yaml:"intro" toml:"intro"`
	Conclusion    string          `yaml:"conclusion" toml:"conclusion"`
	Schema        *schemaDoc      `yaml:"schema" toml:"schema"`
	Timeline      []string        `yaml:"timeline" toml:"timeline"`
	Checklist     []string        `yaml:"checklist" toml:"checklist"`
	KPIs          *gridDoc        `yaml:"kpis" toml:"kpis"`
	Technologies  []technologyDoc `yaml:"technologies" toml:"technologies"`
}

type tableDoc struct {
	Headers    []string       `yaml:"headers" toml:"headers"`
	Rows       [][]string     `yaml:"rows" toml:"rows"`
	RowImages  []*string      `yaml:"rowImages" toml:"rowImages"`
	RowDetails []rowDetailDoc `yaml:"rowDetails" toml:"rowDetails"`
}

type rowDetailDoc struct {
	Description  string   `yaml:"description" toml:"description"`
	Avantages    []string `yaml:"avantages" toml:"avantages"`
	Limites      []string `yaml:"limites" toml:"limites"`
	Technologies []string `yaml:"technologies" toml:"technologies"`
	Cout         string   `yaml:"cout" toml:"cout"`
	Reference    string   `yaml:"reference" toml:"reference"`
}

type schemaDoc struct {
	Type        string       `yaml:"type" toml:"type"`
	Description string       `yaml:"description" toml:"description"`
	Nodes       []nodeDoc    `yaml:"nodes" toml:"nodes"`
	Tree        string       `yaml:"tree" toml:"tree"`
	Services    []serviceDoc `yaml:"services" toml:"services"`
}

type nodeDoc struct {
	ID       string `yaml:"id" toml:"id"`
	Label    string `yaml:"label" toml:"label"`
	Position string `yaml:"position" toml:"position"`
}

type serviceDoc struct {
	Name      string   `yaml:"name" toml:"name"`
	Icon      string   `yaml:"icon" toml:"icon"`
	Tech      string   `yaml:"tech" toml:"tech"`
	Color     string   `yaml:"color" toml:"color"`
	Structure []string `yaml:"structure" toml:"structure"`
}

type gridDoc struct {
	Headers []string   `yaml:"headers" toml:"headers"`
	Rows    [][]string `yaml:"rows" toml:"rows"`
}

type technologyDoc struct {
	Domain      string `yaml:"domain" toml:"domain"`
	Name        string `yaml:"name" toml:"name"`
	Icon        string `yaml:"icon" toml:"icon"`
	Color       string `yaml:"color" toml:"color"`
	Description string `yaml:"description" toml:"description"`
}

// Parse decodes a single presentation document. It does not validate.
func Parse(data []byte, format Format) (*Presentation, error) {
	var doc presentationDoc
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported deck format %q", format)
	}
	return doc.presentation(), nil
}

// ReadFile reads and decodes a deck document, picking the format from the
// file extension.
func ReadFile(path string) (*Presentation, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported deck extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (d presentationDoc) presentation() *Presentation {
	p := &Presentation{
		ID:          strings.TrimSpace(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Author:      d.Author,
		Design:      d.Design,
		Slides:      make([]Slide, 0, len(d.Slides)),
	}
	for _, s := range d.Slides {
		t := Type(strings.TrimSpace(s.Type))
		p.Slides = append(p.Slides, Slide{
			ID:         strings.TrimSpace(s.ID),
			Type:       t,
			Content:    s.Content.content(t),
			Background: s.Background,
			Animation:  Animation(strings.ToLower(strings.TrimSpace(s.Animation))),
			Order:      s.Order,
		})
	}
	return p
}

func (c contentDoc) content(t Type) Content {
	switch t {
	case TypeCover:
		return Cover{Title: c.Title, Subtitle: c.Subtitle, Contact: c.Contact, Date: c.Date}
	case TypePlan:
		return Plan{Title: c.Title, Items: c.Items}
	case TypeChapter:
		return Chapter{Number: c.ChapterNumber, Title: c.Title, Subtitle: c.Subtitle}
	case TypeImage:
		return Image{Title: c.Title, ImageURL: c.ImageURL, Caption: c.Content}
	case TypeSplit:
		return Split{Title: c.Title, Points: c.BulletPoints}
	case TypeQuote:
		return Quote{Text: c.Quote, Author: c.Author}
	case TypeThanks:
		return Thanks{
			Title:    c.Title,
			Subtitle: c.Subtitle,
			Message:  c.Message,
			Contact:  c.Contact,
			Email:    c.Email,
			Website:  c.Website,
		}
	case TypeTable:
		return Table{Title: c.Title, Subtitle: c.Subtitle, Data: c.TableData.data()}
	case TypeParagraph:
		return Paragraphs{Title: c.Title, Body: c.Paragraphs}
	case TypeMixed:
		return Mixed{Title: c.Title, Intro: c.Intro, Items: c.Items, Conclusion: c.Conclusion}
	case TypeSchema:
		return Schema{Title: c.Title, Diagram: c.Schema.diagram()}
	case TypeTimeline:
		return Timeline{Title: c.Title, Intro: c.Intro, Steps: c.Timeline, Conclusion: c.Conclusion}
	case TypeQuality:
		q := Quality{Title: c.Title, Checklist: c.Checklist}
		if c.KPIs != nil {
			q.KPIs = Grid{Headers: c.KPIs.Headers, Rows: c.KPIs.Rows}
		}
		return q
	case TypeTechCarousel:
		techs := make([]Technology, 0, len(c.Technologies))
		for _, t := range c.Technologies {
			techs = append(techs, Technology(t))
		}
		return TechCarousel{Title: c.Title, Technologies: techs}
	default:
		return Bullets{Title: c.Title, Subtitle: c.Subtitle, Body: c.Content, Points: c.BulletPoints}
	}
}

func (t *tableDoc) data() TableData {
	if t == nil {
		return TableData{}
	}
	out := TableData{Headers: t.Headers, Rows: t.Rows}
	if t.RowImages != nil {
		out.RowImages = make([]string, len(t.RowImages))
		for i, img := range t.RowImages {
			if img != nil {
				out.RowImages[i] = *img
			}
		}
	}
	for _, d := range t.RowDetails {
		out.RowDetails = append(out.RowDetails, RowDetail{
			Description:  d.Description,
			Advantages:   d.Avantages,
			Limits:       d.Limites,
			Technologies: d.Technologies,
			Cost:         d.Cout,
			Reference:    d.Reference,
		})
	}
	return out
}

func (s *schemaDoc) diagram() Diagram {
	if s == nil {
		return Diagram{}
	}
	out := Diagram{
		Kind:        DiagramKind(s.Type),
		Description: s.Description,
		Tree:        s.Tree,
	}
	for _, n := range s.Nodes {
		out.Nodes = append(out.Nodes, Node(n))
	}
	for _, svc := range s.Services {
		out.Services = append(out.Services, Service(svc))
	}
	return out
}
