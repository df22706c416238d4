// Package multigrid solves the regularized diffusion system
// (I + lambda*R)L = b on a 2-D grid with a recursive multigrid
// V-cycle: Gauss-Seidel relaxation on the fine grids, full-weighting
// restriction and bilinear prolongation between levels, and a dense LU
// solve on the coarsest grid. The scheme follows Briggs, "A Multigrid
// Tutorial".
package multigrid

import(
	"fmt"
	"log"

	"github.com/quotient-image/relight/pkg/grid"
)

// Solver holds the V-cycle configuration. Zero concurrency anywhere:
// each Solve call allocates its own fields, so one Solver may be used
// from multiple goroutines as long as they pass distinct grids.
type Solver struct {
	Lambda    float64   // strength of the smoothness constraint, > 0
	NGrids    int       // grid levels; 1 means a single direct solve
	Diffusion Diffusion
	Sweeps    int       // Gauss-Seidel sweeps per pre/post-smooth phase
	Verbosity int
}

func NewSolver(lambda float64, nGrids int, diff Diffusion) *Solver {
	return &Solver{
		Lambda:    lambda,
		NGrids:    nGrids,
		Diffusion: diff,
		Sweeps:    2,
	}
}

// Validate checks the solver config against the grid dimensions before
// any recursion happens. Every level must halve cleanly, and the
// coarsest grid still needs interior pixels for the stencil.
func (s *Solver)Validate(w, h int) error {
	if s.Lambda <= 0 {
		return fmt.Errorf("lambda must be > 0, got %g", s.Lambda)
	}
	if s.NGrids < 1 {
		return fmt.Errorf("ngrids must be >= 1, got %d", s.NGrids)
	}
	if s.Sweeps < 1 {
		return fmt.Errorf("sweeps must be >= 1, got %d", s.Sweeps)
	}

	cw, ch := w, h
	for level:=1; level<s.NGrids; level++ {
		if cw%2 != 0 || ch%2 != 0 {
			return fmt.Errorf("grid %dx%d does not halve at level %d (ngrids=%d)", cw, ch, level, s.NGrids)
		}
		cw /= 2
		ch /= 2
	}
	if cw < 3 || ch < 3 {
		return fmt.Errorf("coarsest grid %dx%d has no interior (ngrids=%d for %dx%d input)", cw, ch, s.NGrids, w, h)
	}
	return nil
}

// Solve runs one V-cycle from a zero initial guess and returns the
// illumination estimate for rhs. The result has the dimensions of rhs
// and exactly-zero boundary pixels.
func (s *Solver)Solve(rhs *grid.Grid) (*grid.Grid, error) {
	w := rhs.Dx()
	h := rhs.Dy()
	if err := s.Validate(w, h); err != nil {
		return nil, err
	}
	return s.mgv(rhs.NewFromThis(), rhs, w, h, 0)
}

// mgv is the recursive V-cycle step. Width and height are threaded as
// explicit parameters rather than kept on the Solver, so each frame is
// self-contained and the recursion is safely reentrant. The guess x is
// owned by the caller frame and may be relaxed in place.
func (s *Solver)mgv(x, rhs *grid.Grid, w, h, level int) (*grid.Grid, error) {
	if s.Verbosity > 1 {
		log.Printf("mgv level %d: %dx%d\n", level, w, h)
	}

	// Coarsest grid: assemble the operator and solve it exactly.
	if level == s.NGrids-1 {
		if s.Verbosity > 0 && w*h > 10000 {
			log.Printf("mgv: coarsest grid %dx%d is large for a dense solve, consider raising ngrids\n", w, h)
		}
		a := BuildMatrix(rhs, s.Lambda, s.Diffusion)
		res, err := SolveDense(a, rhs)
		if err != nil {
			return nil, fmt.Errorf("coarsest level %d (%dx%d): %v", level, w, h, err)
		}
		zeroBoundary(res, w, h)
		return res, nil
	}

	// Pre-smooth the guess, then work out what's left to solve.
	Relax(x, rhs, s.Lambda, s.Diffusion, s.Sweeps)
	r := Residual(rhs, x, s.Lambda, s.Diffusion)

	// Take the residual down a level and solve for the correction there.
	rc := Restrict(r)
	xc, err := s.mgv(grid.New(w/2, h/2), rc, w/2, h/2, level+1)
	if err != nil {
		return nil, err
	}

	// Bring the correction back up and fold it into the estimate.
	res := x.Add(Prolong(xc))
	Relax(res, rhs, s.Lambda, s.Diffusion, s.Sweeps)
	return res, nil
}

func zeroBoundary(g *grid.Grid, w, h int) {
	for x:=0; x<w; x++ {
		g.Set(x, 0, 0.0)
		g.Set(x, h-1, 0.0)
	}
	for y:=0; y<h; y++ {
		g.Set(0, y, 0.0)
		g.Set(w-1, y, 0.0)
	}
}
