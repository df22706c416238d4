package grid

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

func color8(v float64) color.Gray { return color.Gray{Y: uint8(v + 0.5)} }

// A Grid is a rectangular field of float64 values with a fixed row
// stride. It represents an intensity image, an illumination estimate,
// a residual, or a correction - anything the solver pushes around.
type Grid struct {
	stride int
	values []float64
}

func New(w, h int) *Grid {
	return &Grid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g *Grid)NewFromThis() *Grid          { return New(g.Dx(), g.Dy()) }
func (g *Grid)Set(x, y int, v float64)     { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) float64        { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                     { return g.stride }
func (g *Grid)Dy() int                     { return len(g.values) / g.stride }

func (g *Grid)Fill(v float64) {
	for i:=0; i<len(g.values); i++ {
		g.values[i] = v
	}
}

func (g1 *Grid)Copy() *Grid {
	g2 := Grid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Add returns the elementwise sum g1+g2, which must have identical dimensions.
func (g1 *Grid)Add(g2 *Grid) *Grid {
	g3 := g1.NewFromThis()
	for i:=0; i<len(g1.values); i++ {
		g3.values[i] = g1.values[i] + g2.values[i]
	}
	return g3
}

// Sub returns the elementwise difference g1-g2.
func (g1 *Grid)Sub(g2 *Grid) *Grid {
	g3 := g1.NewFromThis()
	for i:=0; i<len(g1.values); i++ {
		g3.values[i] = g1.values[i] - g2.values[i]
	}
	return g3
}

func (g *Grid)Mean() float64 {
	sum := 0.0
	for i:=0; i<len(g.values); i++ {
		sum += g.values[i]
	}
	return sum / float64(len(g.values))
}

// StdDev is the sample standard deviation (n-1 divisor).
func (g *Grid)StdDev(mean float64) float64 {
	if len(g.values) < 2 {
		return 0.0
	}
	v := 0.0
	for i:=0; i<len(g.values); i++ {
		d := g.values[i] - mean
		v += d*d
	}
	return math.Sqrt(v / float64(len(g.values)-1))
}

func (g *Grid)MinMax() (float64, float64) {
	min :=  math.MaxFloat64
	max := -math.MaxFloat64
	for i:=0; i<len(g.values); i++ {
		if g.values[i] < min { min = g.values[i] }
		if g.values[i] > max { max = g.values[i] }
	}
	return min, max
}

// Clamp limits every value to [lo,hi].
func (g *Grid)Clamp(lo, hi float64) {
	for i:=0; i<len(g.values); i++ {
		if g.values[i] < lo { g.values[i] = lo }
		if g.values[i] > hi { g.values[i] = hi }
	}
}

// Rescale maps the value range linearly onto [lo,hi]. A constant grid
// has no range to stretch, and comes out as all-lo.
func (g *Grid)Rescale(lo, hi float64) {
	min, max := g.MinMax()
	div := max - min
	if div < 1e-12 {
		div = 1.0
	}
	for i:=0; i<len(g.values); i++ {
		g.values[i] = lo + (g.values[i] - min) * (hi - lo) / div
	}
}

func (g *Grid)Stats() string {
	min, max := g.MinMax()
	return fmt.Sprintf("grid[%dx%d, vals{%f,%f}]", g.Dx(), g.Dy(), min, max)
}

// FromImage flattens an image into an intensity grid with values in
// [0,255]. Grayscale input is taken as-is; anything else goes through
// CIE XYZ and we keep the Y.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	g := New(w, h)

	if gray,ok := img.(*image.Gray); ok {
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				g.Set(x, y, float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return g
	}

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			col := colorful.Color{
				R: float64(r) / 65535.0,
				G: float64(gr) / 65535.0,
				B: float64(b) / 65535.0,
			}
			_, lum, _ := col.Xyz()
			g.Set(x, y, lum * 255.0)
		}
	}
	return g
}

// ToGray emits the grid as an 8-bit grayscale image, truncating values
// to [0,255]. Call Rescale first if the grid isn't in display range.
func (g *Grid)ToGray() *image.Gray {
	w := g.Dx()
	h := g.Dy()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			v := g.Get(x, y)
			if v < 0.0   { v = 0.0 }
			if v > 255.0 { v = 255.0 }
			img.SetGray(x, y, color8(v))
		}
	}
	return img
}
