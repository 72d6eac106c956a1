package shadow

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/miraitools/shadowbaker/internal/scene"
)

func TestWritePNGRoundTrip(t *testing.T) {
	img := scene.NewImage("tex", 4, 4)
	img.Set(1, 2, 0, 0, 0, 1)
	img.Set(3, 0, 0, 0, 0, 0.5)

	path := filepath.Join(t.TempDir(), "sub", "baked_shadow.png")
	if err := WritePNG(img, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Errorf("expected 4x4 image, got %v", decoded.Bounds())
	}

	_, _, _, a := decoded.At(1, 2).RGBA()
	if a != 0xffff {
		t.Errorf("expected opaque pixel at (1,2), got alpha %d", a)
	}
	_, _, _, a = decoded.At(0, 0).RGBA()
	if a != 0xffff {
		t.Errorf("expected untouched white pixel opaque, got alpha %d", a)
	}
}
