package shotdeck

import "strings"

// Shape is the interface that all shapes implement.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeRichText ShapeType = iota
	ShapeTypeTable
	ShapeTypePlaceholder
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name    string
	offsetX int64 // in EMU
	offsetY int64 // in EMU
	width   int64 // in EMU
	height  int64 // in EMU
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// SetRect sets position and size from r.
func (b *BaseShape) SetRect(r Rect) *BaseShape {
	return b.SetPosition(r.X, r.Y).SetSize(r.Width, r.Height)
}

// GetRect returns position and size as a Rect.
func (b *BaseShape) GetRect() Rect {
	return Rect{X: b.offsetX, Y: b.offsetY, Width: b.width, Height: b.height}
}

// RichTextShape represents a text box.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
}

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeRichText }

// NewRichTextShape creates a new text box holding one empty paragraph.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// GetActiveParagraph returns the active paragraph.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph appends a new paragraph and makes it active.
// Existing paragraphs, including an empty first one, are left in place.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *TextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// SetWordWrap sets word wrap.
func (r *RichTextShape) SetWordWrap(wrap bool) {
	r.wordWrap = wrap
}

// GetWordWrap returns word wrap setting.
func (r *RichTextShape) GetWordWrap() bool {
	return r.wordWrap
}

// Text returns the text of every paragraph joined by newlines.
func (r *RichTextShape) Text() string {
	lines := make([]string, len(r.paragraphs))
	for i, p := range r.paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	runs []*TextRun
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{runs: make([]*TextRun, 0)}
}

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.runs = append(p.runs, tr)
	return tr
}

// GetRuns returns the text runs of the paragraph.
func (p *Paragraph) GetRuns() []*TextRun {
	return p.runs
}

// Text returns the concatenated run text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// ApplyFont sets f as the font of every run in the paragraph.
func (p *Paragraph) ApplyFont(f Font) {
	for _, r := range p.runs {
		font := f
		r.font = &font
	}
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// TableShape represents a table shape.
type TableShape struct {
	BaseShape
	rows      [][]*TableCell
	numRows   int
	numCols   int
	colWidths []int64 // per-column widths in EMU; zero means an even share
	autoFit   bool
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape with rows x cols empty cells.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		numRows:   rows,
		numCols:   cols,
		rows:      make([][]*TableCell, rows),
		colWidths: make([]int64, cols),
		autoFit:   true,
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column, or nil when out of range.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= t.numRows || col < 0 || col >= t.numCols {
		return nil
	}
	return t.rows[row][col]
}

// GetRows returns all rows.
func (t *TableShape) GetRows() [][]*TableCell {
	return t.rows
}

// GetNumRows returns the number of rows.
func (t *TableShape) GetNumRows() int { return t.numRows }

// GetNumCols returns the number of columns.
func (t *TableShape) GetNumCols() int { return t.numCols }

// SetColumnWidth sets the width of column col in EMU.
func (t *TableShape) SetColumnWidth(col int, w int64) {
	if col < 0 || col >= t.numCols {
		return
	}
	t.colWidths[col] = w
}

// GetColumnWidth returns the width of column col in EMU. Columns without an
// explicit width get an even share of the table width.
func (t *TableShape) GetColumnWidth(col int) int64 {
	if col < 0 || col >= t.numCols {
		return 0
	}
	if w := t.colWidths[col]; w > 0 {
		return w
	}
	return t.width / int64(t.numCols)
}

// GetRowHeight returns the height of one row; the frame height is split
// evenly between rows.
func (t *TableShape) GetRowHeight() int64 {
	if t.numRows == 0 {
		return 0
	}
	return t.height / int64(t.numRows)
}

// SetAutoFit controls whether viewers may resize columns to fit content.
func (t *TableShape) SetAutoFit(fit bool) { t.autoFit = fit }

// GetAutoFit returns the autofit flag.
func (t *TableShape) GetAutoFit() bool { return t.autoFit }

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
}

// NewTableCell creates a new table cell.
func NewTableCell() *TableCell {
	return &TableCell{
		paragraphs: []*Paragraph{NewParagraph()},
		fill:       NewFill(),
	}
}

// SetText replaces the cell content with a single run of text.
func (tc *TableCell) SetText(text string) *TextRun {
	tc.paragraphs = []*Paragraph{NewParagraph()}
	return tc.paragraphs[0].CreateTextRun(text)
}

// Text returns the cell text.
func (tc *TableCell) Text() string {
	lines := make([]string, len(tc.paragraphs))
	for i, p := range tc.paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph {
	return tc.paragraphs
}

// GetFill returns the cell fill.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// SetFill sets the cell fill.
func (tc *TableCell) SetFill(f *Fill) { tc.fill = f }

// PlaceholderShape represents a layout placeholder (title, body, etc.).
type PlaceholderShape struct {
	RichTextShape
	phType PlaceholderType
	phIdx  int
}

func (p *PlaceholderShape) GetType() ShapeType { return ShapeTypePlaceholder }

// PlaceholderType represents the type of placeholder.
type PlaceholderType string

const (
	PlaceholderTitle PlaceholderType = "title"
	PlaceholderBody  PlaceholderType = "body"
)

// NewPlaceholderShape creates a new placeholder shape.
func NewPlaceholderShape(phType PlaceholderType) *PlaceholderShape {
	return &PlaceholderShape{
		RichTextShape: *NewRichTextShape(),
		phType:        phType,
	}
}

// GetPlaceholderType returns the placeholder type.
func (p *PlaceholderShape) GetPlaceholderType() PlaceholderType {
	return p.phType
}

// SetPlaceholderIndex sets the placeholder index.
func (p *PlaceholderShape) SetPlaceholderIndex(idx int) {
	p.phIdx = idx
}

// GetPlaceholderIndex returns the placeholder index.
func (p *PlaceholderShape) GetPlaceholderIndex() int {
	return p.phIdx
}

// SetText sets the placeholder text, replacing all existing content with a single paragraph.
func (p *PlaceholderShape) SetText(text string) *TextRun {
	p.paragraphs = []*Paragraph{NewParagraph()}
	p.activeParagraph = 0
	return p.paragraphs[0].CreateTextRun(text)
}
