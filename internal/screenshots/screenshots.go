// Package screenshots finds screenshot files and prepares them for upload
// to a vision model.
package screenshots

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultExtensions is used when Discover is given no extensions.
var DefaultExtensions = []string{".png"}

// maxFileSize bounds the size of a screenshot read from disk.
const maxFileSize = 50 << 20

// Image is a screenshot decoded and re-encoded as PNG.
type Image struct {
	// Path is the file the image was loaded from.
	Path string
	// Data holds the PNG encoding.
	Data []byte
	// Width and Height are the dimensions after any downscaling.
	Width  int
	Height int
}

// MIMEType is always image/png.
func (img *Image) MIMEType() string { return "image/png" }

// Base64 returns the standard base64 encoding of the PNG data.
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns a data: URL suitable for an image_url message part.
func (img *Image) DataURL() string {
	return "data:" + img.MIMEType() + ";base64," + img.Base64()
}

// Discover lists the files in dir whose extension matches exts (case
// insensitive), sorted by name. Subdirectories are not searched.
func Discover(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read screenshot directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads and decodes the image at path. Images whose long edge exceeds
// maxDim are scaled down to fit; maxDim <= 0 disables scaling.
func Load(path string, maxDim int) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%s: file too large (%d bytes, max %d)", path, info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, maxDim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img.Path = path
	return img, nil
}

// Decode decodes PNG, JPEG, GIF, BMP or WebP data and re-encodes it as PNG,
// scaling it down to maxDim when needed.
func Decode(data []byte, maxDim int) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := Fit(src, maxDim)
	if format == "png" && dst == src {
		b := src.Bounds()
		return &Image{Data: data, Width: b.Dx(), Height: b.Dy()}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	b := dst.Bounds()
	return &Image{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit returns src unchanged when its long edge is within maxDim, otherwise
// a CatmullRom-resampled copy that keeps the aspect ratio.
func Fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
