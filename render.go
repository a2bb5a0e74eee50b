package shotdeck

import "fmt"

// RowShapePolicy decides what happens to table rows whose length differs
// from the header count.
type RowShapePolicy int

const (
	// RowsReject fails the slide with RenderRowShapeMismatch.
	RowsReject RowShapePolicy = iota
	// RowsNormalize pads short rows with empty cells and truncates long ones.
	RowsNormalize
)

func (p RowShapePolicy) String() string {
	if p == RowsNormalize {
		return "normalize"
	}
	return "reject"
}

// ParseRowShapePolicy maps "reject" or "normalize" to a RowShapePolicy.
func ParseRowShapePolicy(s string) (RowShapePolicy, error) {
	switch s {
	case "reject", "":
		return RowsReject, nil
	case "normalize":
		return RowsNormalize, nil
	}
	return RowsReject, fmt.Errorf("unknown row policy %q (want reject or normalize)", s)
}

// Renderer draws slide descriptors onto slides.
type Renderer struct {
	Style     StyleConfig
	RowPolicy RowShapePolicy
}

// RenderSlide renders d onto slide with the given style, rejecting
// mismatched table rows.
func RenderSlide(slide *Slide, d SlideDescriptor, style *StyleConfig) error {
	r := Renderer{Style: *style}
	return r.RenderSlide(slide, d)
}

// RenderTable renders a table slide with the given style, rejecting
// mismatched rows.
func RenderTable(slide *Slide, title string, headers []string, rows [][]string, style *StyleConfig) error {
	r := Renderer{Style: *style}
	return r.RenderTable(slide, title, headers, rows)
}

// RenderText renders a text slide with the given style.
func RenderText(slide *Slide, title string, content []string, style *StyleConfig) error {
	r := Renderer{Style: *style}
	return r.RenderText(slide, title, content)
}

// RenderSlide dispatches on the descriptor variant.
func (r *Renderer) RenderSlide(slide *Slide, d SlideDescriptor) error {
	switch s := d.(type) {
	case TableSlide:
		return r.RenderTable(slide, s.Title, s.Headers, s.Rows)
	case *TableSlide:
		if s != nil {
			return r.RenderTable(slide, s.Title, s.Headers, s.Rows)
		}
	case TextSlide:
		return r.RenderText(slide, s.Title, s.Content)
	case *TextSlide:
		if s != nil {
			return r.RenderText(slide, s.Title, s.Content)
		}
	}
	return &RenderError{Kind: RenderUnknownVariant}
}

// RenderTable draws a white background, the title at TableTitleSize and a
// (1+len(rows)) x len(headers) table. Nothing is drawn when the input is
// rejected.
func (r *Renderer) RenderTable(slide *Slide, title string, headers []string, rows [][]string) error {
	if len(headers) == 0 {
		return &RenderError{Kind: RenderEmptyHeaders}
	}
	rows, err := r.shapeRows(rows, len(headers))
	if err != nil {
		return err
	}
	style := &r.Style

	slide.SetBackground(NewFill().SetSolid(style.Background))
	r.renderTitle(slide, title, style.TableTitleSize)

	table := slide.CreateTableShape(1+len(rows), len(headers))
	table.SetName("Table")
	table.SetRect(style.TableBox)
	table.SetAutoFit(false)

	colWidth := style.TableBox.Width / int64(len(headers))
	for c := range headers {
		table.SetColumnWidth(c, colWidth)
	}

	for c, h := range headers {
		styleCell(table.GetCell(0, c), h, style.HeaderFont, style.HeaderFill)
	}
	for i, row := range rows {
		for c, v := range row {
			styleCell(table.GetCell(i+1, c), v, style.BodyFont, style.BodyFill)
		}
	}
	return nil
}

// RenderText draws the title at TextTitleSize and one text box holding a
// paragraph per content line. The box keeps its initial empty paragraph,
// so it ends up with len(content)+1 paragraphs.
func (r *Renderer) RenderText(slide *Slide, title string, content []string) error {
	style := &r.Style
	r.renderTitle(slide, title, style.TextTitleSize)

	box := slide.CreateRichTextShape()
	box.SetName("TextBox")
	box.SetRect(style.TextBox)
	for _, line := range content {
		run := box.CreateParagraph().CreateTextRun(line)
		run.SetFont(NewFont().SetSize(style.TextSize))
	}
	return nil
}

func (r *Renderer) renderTitle(slide *Slide, title string, size int) {
	ph := slide.CreatePlaceholderShape(PlaceholderTitle)
	ph.SetName("Title")
	ph.SetRect(r.Style.TitleBox)
	ph.SetText(title).SetFont(NewFont().SetSize(size))
}

func (r *Renderer) shapeRows(rows [][]string, width int) ([][]string, error) {
	var out [][]string
	for i, row := range rows {
		if len(row) == width {
			continue
		}
		if r.RowPolicy != RowsNormalize {
			return nil, &RenderError{Kind: RenderRowShapeMismatch, Row: i, Got: len(row), Want: width}
		}
		if out == nil {
			out = make([][]string, len(rows))
			copy(out, rows)
		}
		fixed := make([]string, width)
		copy(fixed, row)
		out[i] = fixed
	}
	if out == nil {
		return rows, nil
	}
	return out, nil
}

func styleCell(cell *TableCell, text string, font Font, fill Color) {
	f := font
	cell.SetText(text).SetFont(&f)
	cell.SetFill(NewFill().SetSolid(fill))
}
