package screenshots

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.PNG", "c.jpg", "notes.txt"} {
		writePNG(t, filepath.Join(dir, name), 2, 2)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	got, err := Discover(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.png")}, got)

	got, err = Discover(dir, []string{"jpg", ".png"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestLoadKeepsSmallPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	writePNG(t, path, 40, 30)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	img, err := Load(path, 100)
	require.NoError(t, err)
	assert.Equal(t, path, img.Path)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 30, img.Height)
	assert.Equal(t, raw, img.Data)
}

func TestLoadDownscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, path, 400, 100)

	img, err := Load(path, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 50, img.Height)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 50), decoded.Bounds())
}

func TestDecodeConvertsToPNG(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, solid(16, 32), nil))
	var bm bytes.Buffer
	require.NoError(t, bmp.Encode(&bm, solid(16, 32)))

	for name, data := range map[string][]byte{"jpeg": jpg.Bytes(), "bmp": bm.Bytes()} {
		t.Run(name, func(t *testing.T) {
			img, err := Decode(data, 0)
			require.NoError(t, err)
			_, format, err := image.Decode(bytes.NewReader(img.Data))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, 16, img.Width)
			assert.Equal(t, 32, img.Height)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"), 0)
	assert.Error(t, err)
}

func TestFitTallImage(t *testing.T) {
	out := Fit(solid(100, 400), 100)
	assert.Equal(t, image.Rect(0, 0, 25, 100), out.Bounds())
}

func TestDataURL(t *testing.T) {
	img := &Image{Data: []byte{0x89, 'P', 'N', 'G'}}
	url := img.DataURL()
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, img.Data, payload)
}
