package multigrid

import(
	"github.com/quotient-image/relight/pkg/grid"
)

// Relax runs Gauss-Seidel sweeps on x against rhs, in place. Each
// interior pixel is updated from current neighbor values, so pixels
// already visited within a sweep contribute their new value. Boundary
// pixels are never touched; they hold the Dirichlet value.
func Relax(x, rhs *grid.Grid, lambda float64, diff Diffusion, sweeps int) {
	w := x.Dx()
	h := x.Dy()

	for s:=0; s<sweeps; s++ {
		for yy:=1; yy<h-1; yy++ {
			for xx:=1; xx<w-1; xx++ {
				st := stencilAt(rhs, xx, yy, lambda, diff)
				sum := rhs.Get(xx, yy)
				sum += st.N * x.Get(xx, yy-1)
				sum += st.S * x.Get(xx, yy+1)
				sum += st.E * x.Get(xx+1, yy)
				sum += st.W * x.Get(xx-1, yy)
				if diff == DiffFlat8 {
					sum += st.NE * x.Get(xx+1, yy-1)
					sum += st.NW * x.Get(xx-1, yy-1)
					sum += st.SE * x.Get(xx+1, yy+1)
					sum += st.SW * x.Get(xx-1, yy+1)
				}
				x.Set(xx, yy, sum / st.Center)
			}
		}
	}
}
