package shotdeck

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// RenderOptions configures slide previews.
type RenderOptions struct {
	// Width is the output width in pixels; height follows the slide
	// aspect ratio. Default: 960.
	Width       int
	Format      ImageFormat
	JPEGQuality int
	// FontCache may be shared across renders. When nil, a new cache is
	// created over FontDirs and the system font directories.
	FontCache *FontCache
	FontDirs  []string
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Width:       960,
		Format:      ImageFormatPNG,
		JPEGQuality: 90,
	}
}

var (
	colorBlackRGBA = color.RGBA{A: 255}
	colorWhiteRGBA = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// SlideToImage draws a raster preview of one slide. It shows background,
// text and table geometry; it is not a faithful office renderer.
func (p *Presentation) SlideToImage(slideIndex int, opts *RenderOptions) (image.Image, error) {
	if slideIndex < 0 || slideIndex >= len(p.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", slideIndex, len(p.slides)-1)
	}
	o := DefaultRenderOptions()
	if opts != nil {
		*o = *opts
	}
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.FontCache == nil {
		o.FontCache = NewFontCache(o.FontDirs...)
	}

	layout := p.layout
	if layout == nil {
		layout = NewDocumentLayout()
	}
	slide := p.slides[slideIndex]

	imgW := o.Width
	imgH := int(float64(imgW) * float64(layout.CY) / float64(layout.CX))
	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))

	bg := colorWhiteRGBA
	if slide.background != nil && slide.background.Type == FillSolid {
		bg = argbToRGBA(slide.background.Color)
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	r := &renderer{
		img:       img,
		scaleX:    float64(imgW) / float64(layout.CX),
		scaleY:    float64(imgH) / float64(layout.CY),
		fontCache: o.FontCache,
	}
	for _, shape := range slide.shapes {
		r.renderShape(shape)
	}
	return img, nil
}

// SaveSlideAsImage renders a slide and saves it to a file.
func (p *Presentation) SaveSlideAsImage(slideIndex int, path string, opts *RenderOptions) error {
	img, err := p.SlideToImage(slideIndex, opts)
	if err != nil {
		return err
	}
	return saveImage(img, path, opts)
}

// SaveSlidesAsImages renders all slides and saves them to files. The
// pattern must contain %d for the 1-based slide number, e.g. "slide_%d.png".
// The returned paths are in slide order.
func (p *Presentation) SaveSlidesAsImages(pattern string, opts *RenderOptions) ([]string, error) {
	if !strings.Contains(pattern, "%d") {
		return nil, fmt.Errorf("pattern %q has no %%d verb", pattern)
	}
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	if opts.FontCache == nil {
		shared := *opts
		shared.FontCache = NewFontCache(opts.FontDirs...)
		opts = &shared
	}
	paths := make([]string, 0, len(p.slides))
	for i := range p.slides {
		path := fmt.Sprintf(pattern, i+1)
		if err := p.SaveSlideAsImage(i, path, opts); err != nil {
			return paths, fmt.Errorf("slide %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveImage(img image.Image, path string, opts *RenderOptions) error {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	switch opts.Format {
	case ImageFormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(f, img)
	}
}

// --- renderer ---

type renderer struct {
	img       *image.RGBA
	scaleX    float64
	scaleY    float64
	fontCache *FontCache
}

func (r *renderer) renderShape(shape Shape) {
	switch s := shape.(type) {
	case *PlaceholderShape:
		r.renderRichText(&s.RichTextShape)
	case *RichTextShape:
		r.renderRichText(s)
	case *TableShape:
		r.renderTable(s)
	}
}

func (r *renderer) emuToPixelX(emu int64) int {
	return int(float64(emu) * r.scaleX)
}

func (r *renderer) emuToPixelY(emu int64) int {
	return int(float64(emu) * r.scaleY)
}

func argbToRGBA(c Color) color.RGBA {
	return color.RGBA{
		R: c.GetRed(),
		G: c.GetGreen(),
		B: c.GetBlue(),
		A: c.GetAlpha(),
	}
}

func (r *renderer) renderRichText(s *RichTextShape) {
	x := r.emuToPixelX(s.offsetX)
	y := r.emuToPixelY(s.offsetY)
	w := r.emuToPixelX(s.width)
	h := r.emuToPixelY(s.height)
	r.drawParagraphs(s.paragraphs, x, y, w, h, s.wordWrap)
}

func (r *renderer) renderTable(s *TableShape) {
	if s.numRows == 0 || s.numCols == 0 {
		return
	}
	rowH := r.emuToPixelY(s.GetRowHeight())
	cy := r.emuToPixelY(s.offsetY)

	for row := 0; row < s.numRows; row++ {
		cx := r.emuToPixelX(s.offsetX)
		for col := 0; col < s.numCols; col++ {
			cellW := r.emuToPixelX(s.GetColumnWidth(col))
			cellRect := image.Rect(cx, cy, cx+cellW, cy+rowH)
			cell := s.rows[row][col]

			if cell.fill != nil && cell.fill.Type == FillSolid {
				draw.Draw(r.img, cellRect, &image.Uniform{argbToRGBA(cell.fill.Color)}, image.Point{}, draw.Over)
			}
			r.drawRect(cellRect, colorBlackRGBA)
			r.drawParagraphs(cell.paragraphs, cx+2, cy+2, cellW-4, rowH-4, true)
			cx += cellW
		}
		cy += rowH
	}
}

func (r *renderer) drawRect(rect image.Rectangle, c color.RGBA) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		r.setPixel(x, rect.Min.Y, c)
		r.setPixel(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		r.setPixel(rect.Min.X, y, c)
		r.setPixel(rect.Max.X-1, y, c)
	}
}

func (r *renderer) setPixel(x, y int, c color.RGBA) {
	if image.Pt(x, y).In(r.img.Bounds()) {
		r.img.SetRGBA(x, y, c)
	}
}

// --- Text rendering ---

// getFace returns a TrueType face for f, falling back to basicfont.
func (r *renderer) getFace(f *Font) font.Face {
	if f == nil {
		f = NewFont()
	}
	sizePt := float64(f.Size)
	if sizePt <= 0 {
		sizePt = 18
	}
	// Faces are built at 72 DPI, so points equal pixels.
	scaledPt := sizePt * float64(emuPerPoint) * r.scaleY

	name := f.Name
	if name == "" {
		name = "Calibri"
	}
	for _, candidate := range []string{name, "arial", "helvetica", "dejavu sans", "liberation sans", "noto sans"} {
		if face := r.fontCache.GetFace(candidate, scaledPt, f.Bold); face != nil {
			return face
		}
	}
	return basicfont.Face7x13
}

type textRun struct {
	text  string
	face  font.Face
	color color.RGBA
}

type textLine struct {
	runs   []textRun
	width  int
	height int
}

func buildTextLine(runs []textRun) textLine {
	totalW := 0
	maxH := 0
	for _, r := range runs {
		totalW += font.MeasureString(r.face, r.text).Ceil()
		if h := r.face.Metrics().Height.Ceil(); h > maxH {
			maxH = h
		}
	}
	if maxH <= 0 {
		maxH = 14
	}
	return textLine{runs: runs, width: totalW, height: maxH}
}

func (r *renderer) drawParagraphs(paragraphs []*Paragraph, x, y, w, h int, wrap bool) {
	var lines []textLine
	for _, para := range paragraphs {
		var runs []textRun
		for _, tr := range para.runs {
			tc := colorBlackRGBA
			if tr.font != nil && tr.font.Color.IsSet() {
				tc = argbToRGBA(tr.font.Color)
			}
			runs = append(runs, textRun{text: tr.text, face: r.getFace(tr.font), color: tc})
		}
		if len(runs) == 0 {
			lines = append(lines, textLine{height: 14})
			continue
		}
		line := buildTextLine(runs)
		if wrap && w > 0 && line.width > w {
			lines = append(lines, wrapRunLine(line, w)...)
			continue
		}
		lines = append(lines, line)
	}

	curY := y
	for _, line := range lines {
		curY += line.height
		if curY > y+h {
			break
		}
		drawX := x
		for _, run := range line.runs {
			d := &font.Drawer{
				Dst:  r.img,
				Src:  &image.Uniform{run.color},
				Face: run.face,
				Dot:  fixed.P(drawX, curY),
			}
			d.DrawString(run.text)
			drawX += font.MeasureString(run.face, run.text).Ceil()
		}
	}
}

// wrapRunLine breaks a line at word boundaries so each piece fits maxWidth.
func wrapRunLine(line textLine, maxWidth int) []textLine {
	var words []textRun
	gap := false
	for _, run := range line.runs {
		if run.text != "" && unicode.IsSpace(rune(run.text[0])) {
			gap = true
		}
		for i, w := range strings.Fields(run.text) {
			// Whitespace at a run boundary still separates words.
			if len(words) > 0 && (i > 0 || gap) {
				w = " " + w
			}
			words = append(words, textRun{text: w, face: run.face, color: run.color})
		}
		if run.text != "" {
			gap = unicode.IsSpace(rune(run.text[len(run.text)-1]))
		}
	}
	if len(words) == 0 {
		return []textLine{line}
	}

	var result []textLine
	var cur []textRun
	curWidth := 0
	for _, word := range words {
		ww := font.MeasureString(word.face, word.text).Ceil()
		if curWidth+ww > maxWidth && curWidth > 0 {
			result = append(result, buildTextLine(cur))
			cur = nil
			curWidth = 0
			word.text = strings.TrimLeft(word.text, " ")
			ww = font.MeasureString(word.face, word.text).Ceil()
		}
		cur = append(cur, word)
		curWidth += ww
	}
	if len(cur) > 0 {
		result = append(result, buildTextLine(cur))
	}
	return result
}
