package multigrid

import(
	"github.com/quotient-image/relight/pkg/grid"
)

// Restrict transfers a field to the next coarser grid (half width,
// half height - the caller guarantees exact divisibility). Interior
// coarse pixels take the full-weighting average of the 3x3 fine
// neighborhood around their image point (1/4 center, 1/8 edges, 1/16
// corners); coarse pixels on the boundary just inject the co-located
// fine value.
func Restrict(fine *grid.Grid) *grid.Grid {
	cw := fine.Dx() / 2
	ch := fine.Dy() / 2
	coarse := grid.New(cw, ch)

	for j:=0; j<ch; j++ {
		for i:=0; i<cw; i++ {
			fx := 2 * i
			fy := 2 * j
			if i == 0 || i == cw-1 || j == 0 || j == ch-1 {
				coarse.Set(i, j, fine.Get(fx, fy))
				continue
			}
			v := 0.25 * fine.Get(fx, fy)
			v += 0.125 * (fine.Get(fx-1, fy) + fine.Get(fx+1, fy) + fine.Get(fx, fy-1) + fine.Get(fx, fy+1))
			v += 0.0625 * (fine.Get(fx-1, fy-1) + fine.Get(fx+1, fy-1) + fine.Get(fx-1, fy+1) + fine.Get(fx+1, fy+1))
			coarse.Set(i, j, v)
		}
	}
	return coarse
}

// Prolong transfers a correction to the next finer grid (double width,
// double height) by bilinear interpolation: even fine pixels coincide
// with coarse points, odd rows/columns average their coarse neighbors.
func Prolong(coarse *grid.Grid) *grid.Grid {
	cw := coarse.Dx()
	ch := coarse.Dy()
	fine := grid.New(cw*2, ch*2)

	for y:=0; y<ch*2; y++ {
		for x:=0; x<cw*2; x++ {
			i := x / 2
			j := y / 2
			i1 := i + 1
			j1 := j + 1
			if i1 > cw-1 { i1 = cw - 1 }
			if j1 > ch-1 { j1 = ch - 1 }

			var v float64
			switch {
			case x%2 == 0 && y%2 == 0:
				v = coarse.Get(i, j)
			case x%2 == 1 && y%2 == 0:
				v = 0.5 * (coarse.Get(i, j) + coarse.Get(i1, j))
			case x%2 == 0 && y%2 == 1:
				v = 0.5 * (coarse.Get(i, j) + coarse.Get(i, j1))
			default:
				v = 0.25 * (coarse.Get(i, j) + coarse.Get(i1, j) + coarse.Get(i, j1) + coarse.Get(i1, j1))
			}
			fine.Set(x, y, v)
		}
	}
	return fine
}
