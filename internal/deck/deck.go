// Package deck holds the presentation data model: presentations, slides and
// the per-type slide content variants.
package deck

import "slices"

// Type is the closed set of slide type tags.
type Type string

const (
	TypeCover        Type = "cover"
	TypePlan         Type = "plan"
	TypeChapter      Type = "chapter"
	TypeContent      Type = "content"
	TypeImage        Type = "image"
	TypeSplit        Type = "split"
	TypeQuote        Type = "quote"
	TypeThanks       Type = "thanks"
	TypeTable        Type = "table"
	TypeParagraph    Type = "paragraph"
	TypeMixed        Type = "mixed"
	TypeSchema       Type = "schema"
	TypeTimeline     Type = "timeline"
	TypeQuality      Type = "quality"
	TypeTechCarousel Type = "tech-carousel"
)

var knownTypes = []Type{
	TypeCover, TypePlan, TypeChapter, TypeContent, TypeImage,
	TypeSplit, TypeQuote, TypeThanks, TypeTable, TypeParagraph,
	TypeMixed, TypeSchema, TypeTimeline, TypeQuality, TypeTechCarousel,
}

// KnownTypes returns every recognised tag in declaration order.
func KnownTypes() []Type {
	return slices.Clone(knownTypes)
}

// Known reports whether t is one of the recognised tags.
func (t Type) Known() bool {
	return slices.Contains(knownTypes, t)
}

// Animation is the entrance animation token of a slide.
type Animation string

const (
	AnimationNone  Animation = ""
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
	AnimationZoom  Animation = "zoom"
	AnimationFlip  Animation = "flip"
)

// Presentation is an ordered, named collection of slides. It is immutable
// once built.
type Presentation struct {
	ID          string
	Title       string
	Description string
	Author      string
	Design      string
	Slides      []Slide
}

// Len returns the slide count.
func (p *Presentation) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Slides)
}

// At returns the slide at index i.
func (p *Presentation) At(i int) (Slide, bool) {
	if p == nil || i < 0 || i >= len(p.Slides) {
		return Slide{}, false
	}
	return p.Slides[i], true
}

// IndexOf returns the position of the slide with the given id, or -1.
func (p *Presentation) IndexOf(slideID string) int {
	if p == nil {
		return -1
	}
	return slices.IndexFunc(p.Slides, func(s Slide) bool { return s.ID == slideID })
}

// Slide is one addressable unit of a presentation. Type may hold a tag
// outside the known set; Content then holds a Bullets value.
type Slide struct {
	ID         string
	Type       Type
	Content    Content
	Background string
	Animation  Animation
	Order      int
}

// Heading returns the slide's display title, falling back to its id.
func (s Slide) Heading() string {
	if s.Content != nil {
		if h := s.Content.Heading(); h != "" {
			return h
		}
	}
	return s.ID
}
