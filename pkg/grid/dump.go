package grid

import(
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Dump saves the grid as a grayscale PNG, normalized over its own value
// range, with a caption in the corner. Debugging aid for eyeballing the
// intermediate fields the solver produces.
func (g *Grid)Dump(title, filename string) {
	min, max := g.MinMax()
	div := max - min
	if div < 1e-12 {
		div = 1.0
	}

	w := g.Dx()
	h := g.Dy()
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			v := (g.Get(x, y) - min) / div
			img.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535.0)})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 10, 20)
	dc.SavePNG(filename)
}
