package multigrid

import(
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/quotient-image/relight/pkg/grid"
)

// SolveDense solves a*x = b by LU factorization, reshaping b and x
// between grid and vector form. A singular or hopelessly conditioned
// factorization is fatal to the whole cycle; there is no fallback.
func SolveDense(a *mat.Dense, b *grid.Grid) (*grid.Grid, error) {
	w := b.Dx()
	h := b.Dy()
	n := w * h

	bv := mat.NewVecDense(n, nil)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			bv.SetVec(y*w+x, b.Get(x, y))
		}
	}

	var lu mat.LU
	lu.Factorize(a)

	var xv mat.VecDense
	if err := lu.SolveVecTo(&xv, false, bv); err != nil {
		return nil, fmt.Errorf("LU solve of %dx%d system: %v", n, n, err)
	}

	x := grid.New(w, h)
	for y:=0; y<h; y++ {
		for xx:=0; xx<w; xx++ {
			x.Set(xx, y, xv.AtVec(y*w+xx))
		}
	}
	return x, nil
}
