package shadow

import (
	"github.com/miraitools/shadowbaker/internal/scene"
)

// Binarize converts a raw shadow bake into a contact-shadow alpha mask and
// returns it as a new image; the input buffer is left untouched. Every pixel
// becomes black with alpha 1-max(R,G,B): fully lit (white) pixels turn
// transparent, fully shadowed (black) pixels stay opaque, and near-white
// pixels keep a proportional partial alpha so shadow edges fall off softly.
// Pixels that are already pure black keep their alpha, so re-running on a
// converted mask changes nothing.
func Binarize(src *scene.Image) *scene.Image {
	out := src.Clone()
	for i := 0; i+3 < len(out.Pix); i += 4 {
		m := out.Pix[i]
		if out.Pix[i+1] > m {
			m = out.Pix[i+1]
		}
		if out.Pix[i+2] > m {
			m = out.Pix[i+2]
		}
		if m <= 0 {
			out.Pix[i] = 0
			out.Pix[i+1] = 0
			out.Pix[i+2] = 0
			continue
		}
		a := 1 - m
		if a < 0 {
			a = 0
		} else if a > 1 {
			a = 1
		}
		out.Pix[i] = 0
		out.Pix[i+1] = 0
		out.Pix[i+2] = 0
		out.Pix[i+3] = a
	}
	return out
}
