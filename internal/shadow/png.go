package shadow

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// EncodePNG writes a float RGBA image as an 8-bit non-premultiplied PNG.
func EncodePNG(img *scene.Image, w io.Writer) error {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			i := out.PixOffset(x, y)
			out.Pix[i] = channelByte(r)
			out.Pix[i+1] = channelByte(g)
			out.Pix[i+2] = channelByte(b)
			out.Pix[i+3] = channelByte(a)
		}
	}
	return png.Encode(w, out)
}

// WritePNG saves the image to a PNG file, creating the destination directory
// if needed.
func WritePNG(img *scene.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodePNG(img, f); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
