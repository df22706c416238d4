package multigrid

import(
	"gonum.org/v1/gonum/mat"

	"github.com/quotient-image/relight/pkg/grid"
)

// BuildMatrix assembles the dense (W*H)x(W*H) system matrix for
// (I + lambda*R) on the coarsest grid, row p = y*W + x. Interior rows
// carry the stencil from stencilAt; boundary rows are identity, which
// pins the Dirichlet pixels. Only ever called at the deepest recursion
// level - everywhere else the operator is applied matrix-free.
func BuildMatrix(rhs *grid.Grid, lambda float64, diff Diffusion) *mat.Dense {
	w := rhs.Dx()
	h := rhs.Dy()
	n := w * h
	a := mat.NewDense(n, n, nil)

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			p := y*w + x
			if x == 0 || x == w-1 || y == 0 || y == h-1 {
				a.Set(p, p, 1.0)
				continue
			}
			st := stencilAt(rhs, x, y, lambda, diff)
			a.Set(p, p, st.Center)
			a.Set(p, p-w, -st.N)
			a.Set(p, p+w, -st.S)
			a.Set(p, p+1, -st.E)
			a.Set(p, p-1, -st.W)
			if diff == DiffFlat8 {
				a.Set(p, p-w+1, -st.NE)
				a.Set(p, p-w-1, -st.NW)
				a.Set(p, p+w+1, -st.SE)
				a.Set(p, p+w-1, -st.SW)
			}
		}
	}
	return a
}
