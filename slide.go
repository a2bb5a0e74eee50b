package shotdeck

import "strings"

// Slide is one slide of a presentation. Shapes are drawn in the order
// they were added.
type Slide struct {
	name       string
	shapes     []Shape
	background *Fill
}

func newSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// NewSlide creates a detached slide. It becomes part of a presentation
// once passed to Presentation.AddSlide.
func NewSlide() *Slide {
	return newSlide()
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) { s.name = name }

// GetShapes returns the shapes on the slide.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetBackground returns the slide background fill, or nil when the slide
// follows the master background.
func (s *Slide) GetBackground() *Fill { return s.background }

// SetBackground sets the slide background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// CreateRichTextShape adds a text box to the slide.
func (s *Slide) CreateRichTextShape() *RichTextShape {
	rt := NewRichTextShape()
	s.shapes = append(s.shapes, rt)
	return rt
}

// CreateTableShape adds a rows x cols table to the slide.
func (s *Slide) CreateTableShape(rows, cols int) *TableShape {
	t := NewTableShape(rows, cols)
	s.shapes = append(s.shapes, t)
	return t
}

// CreatePlaceholderShape adds a placeholder of the given type to the slide.
func (s *Slide) CreatePlaceholderShape(phType PlaceholderType) *PlaceholderShape {
	ph := NewPlaceholderShape(phType)
	s.shapes = append(s.shapes, ph)
	return ph
}

// AddShape appends an existing shape.
func (s *Slide) AddShape(shape Shape) {
	s.shapes = append(s.shapes, shape)
}

// Title returns the title placeholder, or nil when the slide has none.
func (s *Slide) Title() *PlaceholderShape {
	for _, shape := range s.shapes {
		if ph, ok := shape.(*PlaceholderShape); ok && ph.phType == PlaceholderTitle {
			return ph
		}
	}
	return nil
}

// ExtractText returns the text of all shapes on the slide, one line per paragraph.
func (s *Slide) ExtractText() string {
	var parts []string
	for _, shape := range s.shapes {
		switch sh := shape.(type) {
		case *PlaceholderShape:
			parts = append(parts, extractParagraphsText(sh.paragraphs)...)
		case *RichTextShape:
			parts = append(parts, extractParagraphsText(sh.paragraphs)...)
		case *TableShape:
			for _, row := range sh.rows {
				cells := make([]string, len(row))
				for i, c := range row {
					cells[i] = c.Text()
				}
				parts = append(parts, strings.Join(cells, "\t"))
			}
		}
	}
	return joinNonEmpty(parts, "\n")
}
