package deck

// Content is the type-dependent payload of a slide. Each variant reports the
// tag it belongs to.
type Content interface {
	Kind() Type
	Heading() string
}

type Cover struct {
	Title    string
	Subtitle string
	Contact  string
	Date     string
}

type Plan struct {
	Title string
	Items []string
}

type Chapter struct {
	Number   int
	Title    string
	Subtitle string
}

// Bullets is the generic text slide and the fallback for unknown tags.
type Bullets struct {
	Title    string
	Subtitle string
	Body     string
	Points   []string
}

type Image struct {
	Title    string
	ImageURL string
	Caption  string
}

type Split struct {
	Title  string
	Points []string
}

type Quote struct {
	Text   string
	Author string
}

type Thanks struct {
	Title    string
	Subtitle string
	Message  string
	Contact  string
	Email    string
	Website  string
}

type Table struct {
	Title    string
	Subtitle string
	Data     TableData
}

// TableData is a rectangular grid. RowImages and RowDetails, when set, are
// indexed like Rows; an empty RowImages entry means no image.
type TableData struct {
	Headers    []string
	Rows       [][]string
	RowImages  []string
	RowDetails []RowDetail
}

// HasDetails reports whether any row carries a detail card.
func (t TableData) HasDetails() bool {
	return len(t.RowDetails) > 0
}

type RowDetail struct {
	Description  string
	Advantages   []string
	Limits       []string
	Technologies []string
	Cost         string
	Reference    string
}

type Paragraphs struct {
	Title string
	Body  []string
}

type Mixed struct {
	Title      string
	Intro      string
	Items      []string
	Conclusion string
}

type Schema struct {
	Title   string
	Diagram Diagram
}

// DiagramKind selects how a schema slide is drawn.
type DiagramKind string

const (
	DiagramArchitecture DiagramKind = "architecture"
	DiagramTree         DiagramKind = "tree"
	DiagramFlow         DiagramKind = "flow"
	DiagramDetailedTree DiagramKind = "detailed-tree"
)

type Diagram struct {
	Kind        DiagramKind
	Description string
	Nodes       []Node
	Tree        string
	Services    []Service
}

type Node struct {
	ID       string
	Label    string
	Position string
}

type Service struct {
	Name      string
	Icon      string
	Tech      string
	Color     string
	Structure []string
}

type Timeline struct {
	Title      string
	Intro      string
	Steps      []string
	Conclusion string
}

type Quality struct {
	Title     string
	Checklist []string
	KPIs      Grid
}

// Grid is a headed table of plain cells.
type Grid struct {
	Headers []string
	Rows    [][]string
}

type TechCarousel struct {
	Title        string
	Technologies []Technology
}

type Technology struct {
	Domain      string
	Name        string
	Icon        string
	Color       string
	Description string
}

func (Cover) Kind() Type        { return TypeCover }
func (Plan) Kind() Type         { return TypePlan }
func (Chapter) Kind() Type      { return TypeChapter }
func (Bullets) Kind() Type      { return TypeContent }
func (Image) Kind() Type        { return TypeImage }
func (Split) Kind() Type        { return TypeSplit }
func (Quote) Kind() Type        { return TypeQuote }
func (Thanks) Kind() Type       { return TypeThanks }
func (Table) Kind() Type        { return TypeTable }
func (Paragraphs) Kind() Type   { return TypeParagraph }
func (Mixed) Kind() Type        { return TypeMixed }
func (Schema) Kind() Type       { return TypeSchema }
func (Timeline) Kind() Type     { return TypeTimeline }
func (Quality) Kind() Type      { return TypeQuality }
func (TechCarousel) Kind() Type { return TypeTechCarousel }

func (c Cover) Heading() string        { return c.Title }
func (c Plan) Heading() string         { return c.Title }
func (c Chapter) Heading() string      { return c.Title }
func (c Bullets) Heading() string      { return c.Title }
func (c Image) Heading() string        { return c.Title }
func (c Split) Heading() string        { return c.Title }
func (c Quote) Heading() string        { return c.Author }
func (c Thanks) Heading() string       { return c.Title }
func (c Table) Heading() string        { return c.Title }
func (c Paragraphs) Heading() string   { return c.Title }
func (c Mixed) Heading() string        { return c.Title }
func (c Schema) Heading() string       { return c.Title }
func (c Timeline) Heading() string     { return c.Title }
func (c Quality) Heading() string      { return c.Title }
func (c TechCarousel) Heading() string { return c.Title }
