package scene

// Image is a float RGBA raster with channel values in [0,1], stored
// row-major as r,g,b,a quads.
type Image struct {
	Name   string
	Width  int
	Height int
	Pix    []float32
}

// NewImage allocates an image filled fully opaque white, the "no shadow yet"
// state a shadow bake darkens.
func NewImage(name string, width, height int) *Image {
	pix := make([]float32, width*height*4)
	for i := range pix {
		pix[i] = 1
	}
	return &Image{Name: name, Width: width, Height: height, Pix: pix}
}

// At returns the RGBA channels of pixel (x, y).
func (im *Image) At(x, y int) (r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3]
}

// Set writes the RGBA channels of pixel (x, y).
func (im *Image) Set(x, y int, r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	im.Pix[i] = r
	im.Pix[i+1] = g
	im.Pix[i+2] = b
	im.Pix[i+3] = a
}

// Clone returns a deep copy of the image.
func (im *Image) Clone() *Image {
	pix := make([]float32, len(im.Pix))
	copy(pix, im.Pix)
	return &Image{Name: im.Name, Width: im.Width, Height: im.Height, Pix: pix}
}
