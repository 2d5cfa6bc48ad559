package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyID        = errors.New("presentation id is empty")
	ErrNoSlides       = errors.New("presentation has no slides")
	ErrSlideID        = errors.New("slide id is empty or duplicated")
	ErrRaggedTable    = errors.New("table rows are not rectangular")
	ErrParallelLength = errors.New("row images or details do not match row count")
)

// Validate checks the structural invariants of a presentation. Missing
// optional content is never an error; templates render what is present.
func Validate(p *Presentation) error {
	if p == nil {
		return ErrNoSlides
	}
	var errs []error
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, ErrEmptyID)
	}
	if len(p.Slides) == 0 {
		errs = append(errs, fmt.Errorf("%s: %w", p.ID, ErrNoSlides))
	}
	seen := make(map[string]int, len(p.Slides))
	for i, s := range p.Slides {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("slide %d: %w", i+1, ErrSlideID))
		} else if prev, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("slide %d %q (first at %d): %w", i+1, s.ID, prev+1, ErrSlideID))
		} else {
			seen[s.ID] = i
		}
		if err := validateContent(s.Content); err != nil {
			errs = append(errs, fmt.Errorf("slide %q: %w", s.ID, err))
		}
	}
	return errors.Join(errs...)
}

func validateContent(c Content) error {
	switch v := c.(type) {
	case Table:
		return validateTable(v.Data)
	case Quality:
		if len(v.KPIs.Rows) == 0 {
			return nil
		}
		return checkRectangular(v.KPIs.Rows, len(v.KPIs.Headers))
	default:
		return nil
	}
}

func validateTable(t TableData) error {
	width := len(t.Headers)
	if width == 0 && len(t.Rows) > 0 {
		width = len(t.Rows[0])
	}
	if err := checkRectangular(t.Rows, width); err != nil {
		return err
	}
	if t.RowImages != nil && len(t.RowImages) != len(t.Rows) {
		return fmt.Errorf("%d images for %d rows: %w", len(t.RowImages), len(t.Rows), ErrParallelLength)
	}
	if t.RowDetails != nil && len(t.RowDetails) != len(t.Rows) {
		return fmt.Errorf("%d details for %d rows: %w", len(t.RowDetails), len(t.Rows), ErrParallelLength)
	}
	return nil
}

func checkRectangular(rows [][]string, width int) error {
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i+1, len(row), width, ErrRaggedTable)
		}
	}
	return nil
}
