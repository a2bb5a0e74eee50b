package shotdeck

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/basicfont"
)

func TestSlideToImage_Dimensions(t *testing.T) {
	pres := buildQ1(t)
	img, err := pres.SlideToImage(0, nil)
	if err != nil {
		t.Fatalf("SlideToImage: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 960 {
		t.Errorf("expected width 960, got %d", bounds.Dx())
	}
	// 4:3 => 960:720
	if bounds.Dy() != 720 {
		t.Errorf("expected height 720, got %d", bounds.Dy())
	}
}

func TestSlideToImage_CustomWidth(t *testing.T) {
	style := DefaultStyle()
	style.SlideWidth = 12192000
	pres, err := NewBuilder(WithStyle(style)).Build(mixedDescriptor(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img, err := pres.SlideToImage(0, &RenderOptions{Width: 640})
	if err != nil {
		t.Fatalf("SlideToImage: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
		t.Errorf("expected 640x360, got %v", img.Bounds())
	}
}

func TestSlideToImage_OutOfRange(t *testing.T) {
	pres := buildQ1(t)
	for _, idx := range []int{-1, 1, 5} {
		if _, err := pres.SlideToImage(idx, nil); err == nil {
			t.Errorf("expected error for index %d", idx)
		}
	}
}

func TestSlideToImage_TableFills(t *testing.T) {
	pres := buildQ1(t)
	img, err := pres.SlideToImage(0, &RenderOptions{Width: 960, FontCache: NewFontCache()})
	if err != nil {
		t.Fatalf("SlideToImage: %v", err)
	}

	// Header row spans y 144..169 and the first column x 96..479.
	want := color.RGBA{R: 137, G: 163, B: 211, A: 255}
	if got := color.RGBAModel.Convert(img.At(460, 160)); got != want {
		t.Errorf("header pixel = %v, want %v", got, want)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := color.RGBAModel.Convert(img.At(5, 5)); got != white {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestSaveSlidesAsImages(t *testing.T) {
	pres, err := NewBuilder().Build(mixedDescriptor(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dir := t.TempDir()
	paths, err := pres.SaveSlidesAsImages(filepath.Join(dir, "preview", "slide_%d.png"), &RenderOptions{Width: 320})
	if err != nil {
		t.Fatalf("SaveSlidesAsImages: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(paths))
	}
	if filepath.Base(paths[2]) != "slide_3.png" {
		t.Errorf("unexpected third path %s", paths[2])
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if img.Bounds().Dx() != 320 {
			t.Errorf("%s: width %d, want 320", p, img.Bounds().Dx())
		}
	}
}

func TestSaveSlidesAsImages_PatternWithoutVerb(t *testing.T) {
	pres := buildQ1(t)
	if _, err := pres.SaveSlidesAsImages(filepath.Join(t.TempDir(), "slide.png"), nil); err == nil {
		t.Errorf("expected error for pattern without %%d")
	}
}

func TestSaveSlideAsImage_JPEG(t *testing.T) {
	pres := buildQ1(t)
	path := filepath.Join(t.TempDir(), "q1.jpg")
	opts := &RenderOptions{Width: 480, Format: ImageFormatJPEG, JPEGQuality: 150}
	if err := pres.SaveSlideAsImage(0, path, opts); err != nil {
		t.Fatalf("SaveSlideAsImage: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) < 3 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("output is not a JPEG")
	}
}

func TestWrapRunLine(t *testing.T) {
	face := basicfont.Face7x13
	line := buildTextLine([]textRun{{text: "aaa bbb ccc", face: face}})
	lines := wrapRunLine(line, 30)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if l.width > 30 {
			t.Errorf("line %d width %d exceeds 30", i, l.width)
		}
		if l.runs[0].text[0] == ' ' {
			t.Errorf("line %d starts with a space", i)
		}
	}
}

func TestWrapRunLine_AcrossRuns(t *testing.T) {
	face := basicfont.Face7x13
	texts := func(lines []textLine) []string {
		var out []string
		for _, l := range lines {
			var sb strings.Builder
			for _, r := range l.runs {
				sb.WriteString(r.text)
			}
			out = append(out, sb.String())
		}
		return out
	}

	line := buildTextLine([]textRun{{text: "aaa ", face: face}, {text: "bbb ccc", face: face}})
	assert.Equal(t, []string{"aaa bbb", "ccc"}, texts(wrapRunLine(line, 50)))

	line = buildTextLine([]textRun{{text: "aaa", face: face}, {text: " bbb", face: face}})
	assert.Equal(t, []string{"aaa bbb"}, texts(wrapRunLine(line, 100)))

	// A word split across runs with no whitespace stays whole.
	line = buildTextLine([]textRun{{text: "aaa bb", face: face}, {text: "b ccc", face: face}})
	assert.Equal(t, []string{"aaa bbb", "ccc"}, texts(wrapRunLine(line, 50)))
}
