package shotdeck

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontCacheLoadFontData(t *testing.T) {
	fc := NewFontCache(t.TempDir())
	if err := fc.LoadFontData("GoRegular", goregular.TTF); err != nil {
		t.Fatalf("LoadFontData: %v", err)
	}

	face := fc.GetFace("goregular", 12, false)
	if face == nil {
		t.Fatal("expected a face for a loaded font")
	}
	if again := fc.GetFace("GoRegular", 12, false); again != face {
		t.Error("expected the cached face to be reused")
	}
	// Bold falls back to the regular face when no bold variant is loaded.
	if fc.GetFace("goregular", 12, true) == nil {
		t.Error("expected a regular face as bold fallback")
	}
	// The family name from the font's name table is registered too.
	if fc.GetFace("go", 10, false) == nil {
		t.Error("expected lookup by family name")
	}
}

func TestFontCacheUnknownFont(t *testing.T) {
	fc := NewFontCache()
	if face := fc.GetFace("no-such-font-zz9", 12, false); face != nil {
		t.Error("expected nil for an unknown font")
	}
	if err := fc.LoadFontData("broken", []byte("not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
}
