package multigrid

import(
	"fmt"
	"math"

	"github.com/quotient-image/relight/pkg/grid"
)

// Diffusion selects the coupling scheme used to derive the local
// stencil weights from the data. The operator is non-stationary: for
// anything but Flat the weights depend on the field it regularizes.
type Diffusion int

const (
	DiffFlat     Diffusion = iota // isotropic, 4 neighbors, unit weights
	DiffWeber                     // weights damped by local Weber contrast
	DiffGradient                  // Perona-Malik style gradient damping
	DiffFlat8                     // isotropic, 8 neighbors
)

const (
	weberEps = 0.01 // floor for the contrast denominator
	pmKappa  = 30.0 // gradient scale for DiffGradient, image values in [0,255]
)

func (d Diffusion)String() string {
	switch d {
	case DiffFlat:     return "flat"
	case DiffWeber:    return "weber"
	case DiffGradient: return "gradient"
	case DiffFlat8:    return "flat8"
	}
	return fmt.Sprintf("diffusion(%d)", int(d))
}

func ParseDiffusion(s string) (Diffusion, error) {
	switch s {
	case "flat":     return DiffFlat, nil
	case "weber":    return DiffWeber, nil
	case "gradient": return DiffGradient, nil
	case "flat8":    return DiffFlat8, nil
	}
	return DiffFlat, fmt.Errorf("no diffusion type named '%s'", s)
}

// A Stencil holds the coupling coefficients for one interior pixel.
// Neighbor entries are already scaled by lambda; Center carries the
// identity term plus the full neighbor sum, so the operator row is
//
//	Center*x(p) - N*x(up) - S*x(down) - E*x(right) - W*x(left) - <diagonals>
//
// which is (I + lambda*R) with Dirichlet boundaries. Center strictly
// dominates the off-diagonal sum, so Gauss-Seidel converges and the
// assembled matrix is nonsingular for any valid input.
type Stencil struct {
	Center         float64
	N, S, E, W     float64
	NE, NW, SE, SW float64
}

func weberWeight(a, b float64) float64 {
	min := a
	if b < min { min = b }
	if min < weberEps { min = weberEps }
	c := math.Abs(a-b) / min
	return 1.0 / (1.0 + c)
}

func gradientWeight(a, b float64) float64 {
	d := (a - b) / pmKappa
	return 1.0 / (1.0 + d*d)
}

// stencilAt computes the coupling coefficients for interior pixel
// (x,y), using the current right-hand-side field as the data the
// diffusion adapts to. Callers must keep 0 < x < Dx-1, 0 < y < Dy-1.
func stencilAt(rhs *grid.Grid, x, y int, lambda float64, diff Diffusion) Stencil {
	var st Stencil
	p := rhs.Get(x, y)

	switch diff {
	case DiffFlat:
		st.N, st.S, st.E, st.W = 1.0, 1.0, 1.0, 1.0
	case DiffWeber:
		st.N = weberWeight(p, rhs.Get(x, y-1))
		st.S = weberWeight(p, rhs.Get(x, y+1))
		st.E = weberWeight(p, rhs.Get(x+1, y))
		st.W = weberWeight(p, rhs.Get(x-1, y))
	case DiffGradient:
		st.N = gradientWeight(p, rhs.Get(x, y-1))
		st.S = gradientWeight(p, rhs.Get(x, y+1))
		st.E = gradientWeight(p, rhs.Get(x+1, y))
		st.W = gradientWeight(p, rhs.Get(x-1, y))
	case DiffFlat8:
		st.N, st.S, st.E, st.W = 1.0, 1.0, 1.0, 1.0
		st.NE, st.NW, st.SE, st.SW = 0.5, 0.5, 0.5, 0.5
	}

	st.N *= lambda
	st.S *= lambda
	st.E *= lambda
	st.W *= lambda
	st.NE *= lambda
	st.NW *= lambda
	st.SE *= lambda
	st.SW *= lambda
	st.Center = 1.0 + st.N + st.S + st.E + st.W + st.NE + st.NW + st.SE + st.SW
	return st
}

// Apply computes y = (I + lambda*R)x pixel by pixel, without ever
// materializing the matrix. Boundary pixels get the identity row. This
// must agree exactly with what BuildMatrix assembles, since residuals
// computed here become the coarse-grid right-hand side.
func Apply(rhs, x *grid.Grid, lambda float64, diff Diffusion) *grid.Grid {
	w := x.Dx()
	h := x.Dy()
	y := x.NewFromThis()

	for yy:=0; yy<h; yy++ {
		for xx:=0; xx<w; xx++ {
			if xx == 0 || xx == w-1 || yy == 0 || yy == h-1 {
				y.Set(xx, yy, x.Get(xx, yy))
				continue
			}
			st := stencilAt(rhs, xx, yy, lambda, diff)
			v := st.Center * x.Get(xx, yy)
			v -= st.N * x.Get(xx, yy-1)
			v -= st.S * x.Get(xx, yy+1)
			v -= st.E * x.Get(xx+1, yy)
			v -= st.W * x.Get(xx-1, yy)
			if diff == DiffFlat8 {
				v -= st.NE * x.Get(xx+1, yy-1)
				v -= st.NW * x.Get(xx-1, yy-1)
				v -= st.SE * x.Get(xx+1, yy+1)
				v -= st.SW * x.Get(xx-1, yy+1)
			}
			y.Set(xx, yy, v)
		}
	}
	return y
}

// Residual computes rhs - (I + lambda*R)x.
func Residual(rhs, x *grid.Grid, lambda float64, diff Diffusion) *grid.Grid {
	return rhs.Sub(Apply(rhs, x, lambda, diff))
}
