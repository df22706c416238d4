// Package relight normalizes the contrast of an image by decomposing
// it into a smooth illumination field and a reflectance quotient. The
// illumination is estimated by solving (I + lambda*R)L = image with
// the multigrid V-cycle in pkg/multigrid; the visible output is the
// reflectance R = image/L, clipped and rescaled into display range.
package relight

import(
	"fmt"
	"image"
	"log"
	"math"

	"github.com/quotient-image/relight/pkg/grid"
	"github.com/quotient-image/relight/pkg/multigrid"
)

// lightEps guards the reflectance quotient: illumination this close to
// zero would blow the division up, so those pixels get reflectance 1.
const lightEps = 0.01

// A Normalizer runs the full pipeline on one image. The intermediate
// fields stay on the struct so callers (and the grid dumps) can look
// at them afterwards.
type Normalizer struct {
	Config      Config
	Input       image.Image

	Image       *grid.Grid  // the input flattened to intensity
	Light       *grid.Grid  // the solved illumination field
	Reflectance *grid.Grid  // image/light, after clipping
	Output      *image.Gray // reflectance rescaled to [0,255]
}

func New(img image.Image, c Config) *Normalizer {
	return &Normalizer{
		Config: c,
		Input:  img,
	}
}

// Normalize is the one-shot entry point.
func Normalize(img image.Image, c Config) (*image.Gray, error) {
	n := New(img, c)
	if err := n.Run(); err != nil {
		return nil, err
	}
	return n.Output, nil
}

func (n *Normalizer)Run() error {
	if err := n.Config.Finalize(); err != nil {
		return fmt.Errorf("config: %v", err)
	}
	if n.Input == nil {
		return fmt.Errorf("no input image")
	}
	b := n.Input.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return fmt.Errorf("input %dx%d is too small to normalize", b.Dx(), b.Dy())
	}

	n.Image = grid.FromImage(n.Input)
	if n.Config.Verbosity > 0 {
		log.Printf("relight: input %s\n", n.Image.Stats())
	}

	solver := multigrid.NewSolver(n.Config.Lambda, n.Config.NGrids, n.Config.Diff)
	solver.Sweeps = n.Config.Sweeps
	solver.Verbosity = n.Config.Verbosity

	light, err := solver.Solve(n.Image)
	if err != nil {
		return fmt.Errorf("illumination solve: %v", err)
	}
	n.Light = light
	if n.Config.Verbosity > 0 {
		log.Printf("relight: light %s\n", n.Light.Stats())
	}

	n.Reflectance = reflectance(n.Image, n.Light)
	clipExtremes(n.Reflectance, n.Config.ClipWidth)

	out := n.Reflectance.Copy()
	out.Rescale(0.0, 255.0)
	n.Output = out.ToGray()

	n.maybeDumpGrids()
	return nil
}

// reflectance builds R = image/light. Border pixels are forced to 1,
// as are pixels where the illumination is too near zero to divide by.
func reflectance(img, light *grid.Grid) *grid.Grid {
	w := img.Dx()
	h := img.Dy()
	r := img.NewFromThis()

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			if x == 0 || x == w-1 || y == 0 || y == h-1 {
				r.Set(x, y, 1.0)
				continue
			}
			l := light.Get(x, y)
			if math.Abs(l) <= lightEps {
				r.Set(x, y, 1.0)
			} else {
				r.Set(x, y, img.Get(x, y) / l)
			}
		}
	}
	return r
}

// clipExtremes clamps the field to [mean - k*std, mean + k*std], so a
// few runaway quotients can't eat the whole display range when we
// rescale. Sample standard deviation, matching the distribution the
// clip is quoted against.
func clipExtremes(g *grid.Grid, k float64) {
	mean := g.Mean()
	std := g.StdDev(mean)
	g.Clamp(mean - k*std, mean + k*std)
}

func (n *Normalizer)maybeDumpGrids() {
	if !n.Config.DumpGrids {
		return
	}
	n.Image.Dump("001-intensity", "001-intensity.png")
	n.Light.Dump("002-light", "002-light.png")
	n.Reflectance.Dump("003-reflectance", "003-reflectance.png")
}
