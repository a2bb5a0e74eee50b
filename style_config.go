package shotdeck

// StyleConfig holds every visual constant used by the renderers. A
// StyleConfig is treated as immutable once passed to a Builder.
type StyleConfig struct {
	SlideWidth  int64
	SlideHeight int64

	Background Color

	// Title placeholder frame and sizes per variant.
	TitleBox       Rect
	TableTitleSize int
	TextTitleSize  int

	// TableBox is the whole table frame; columns share its width and rows
	// share its height evenly.
	TableBox Rect

	HeaderFill Color
	HeaderFont Font
	BodyFill   Color
	BodyFont   Font

	TextBox  Rect
	TextSize int
}

// DefaultStyle returns the stock ShotDeck look.
func DefaultStyle() StyleConfig {
	layout := NewDocumentLayout()
	return StyleConfig{
		SlideWidth:  layout.CX,
		SlideHeight: layout.CY,
		Background:  ColorWhite,

		TitleBox:       defaultTitleRect(layout),
		TableTitleSize: 18,
		TextTitleSize:  16,

		TableBox: Rect{X: Inch(1), Y: Inch(1.5), Width: Inch(8), Height: Inch(0.8)},

		HeaderFill: RGB(137, 163, 211),
		HeaderFont: Font{Name: "Arial", Size: 13, Bold: true, Color: ColorBlack},
		BodyFill:   ColorWhite,
		BodyFont:   Font{Name: "Arial", Size: 12},

		TextBox:  Rect{X: Inch(1), Y: Inch(3), Width: Inch(8), Height: Inch(4)},
		TextSize: 13,
	}
}

func (s *StyleConfig) layout() *DocumentLayout {
	l := NewDocumentLayout()
	if s.SlideWidth != l.CX || s.SlideHeight != l.CY {
		l.SetCustomLayout(s.SlideWidth, s.SlideHeight)
	}
	return l
}
