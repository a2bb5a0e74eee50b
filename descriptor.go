package shotdeck

// PresentationDescriptor is the validated description of a whole deck.
type PresentationDescriptor struct {
	Title  string
	Slides []SlideDescriptor
}

// SlideDescriptor describes one slide. TableSlide and TextSlide are the
// only implementations.
type SlideDescriptor interface {
	SlideTitle() string
	slideDescriptor()
}

// TableSlide is a slide holding a header row and data rows.
type TableSlide struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t TableSlide) SlideTitle() string { return t.Title }
func (TableSlide) slideDescriptor()      {}

// TextSlide is a slide holding one paragraph per content line.
type TextSlide struct {
	Title   string
	Content []string
}

func (t TextSlide) SlideTitle() string { return t.Title }
func (TextSlide) slideDescriptor()      {}

// SkippedSlide records a slide entry whose type is not recognised.
type SkippedSlide struct {
	Index int
	Type  string
}

// Merge appends the slides of other to d. The title is kept unless d has none.
func (d *PresentationDescriptor) Merge(other PresentationDescriptor) {
	if d.Title == "" {
		d.Title = other.Title
	}
	d.Slides = append(d.Slides, other.Slides...)
}
