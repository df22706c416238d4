package grid_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotient-image/relight/pkg/grid"
)

func TestBasics(t *testing.T) {
	g := grid.New(4, 3)
	require.Equal(t, 4, g.Dx())
	require.Equal(t, 3, g.Dy())

	g.Set(2, 1, 7.5)
	require.Equal(t, 7.5, g.Get(2, 1))
	require.Equal(t, 0.0, g.Get(3, 2))

	g.Fill(2.0)
	require.Equal(t, 2.0, g.Get(0, 0))
	require.Equal(t, 2.0, g.Get(3, 2))
}

func TestCopyIsIndependent(t *testing.T) {
	g1 := grid.New(3, 3)
	g1.Set(1, 1, 5.0)

	g2 := g1.Copy()
	g2.Set(1, 1, 9.0)

	require.Equal(t, 5.0, g1.Get(1, 1))
	require.Equal(t, 9.0, g2.Get(1, 1))
}

func TestAddSub(t *testing.T) {
	g1 := grid.New(2, 2)
	g2 := grid.New(2, 2)
	g1.Fill(3.0)
	g2.Fill(1.5)

	sum := g1.Add(g2)
	diff := g1.Sub(g2)
	require.Equal(t, 4.5, sum.Get(1, 1))
	require.Equal(t, 1.5, diff.Get(0, 1))

	// operands untouched
	require.Equal(t, 3.0, g1.Get(0, 0))
	require.Equal(t, 1.5, g2.Get(0, 0))
}

func TestMeanStdDev(t *testing.T) {
	g := grid.New(2, 2)
	g.Set(0, 0, 1.0)
	g.Set(1, 0, 2.0)
	g.Set(0, 1, 3.0)
	g.Set(1, 1, 4.0)

	mean := g.Mean()
	require.InDelta(t, 2.5, mean, 1e-12)

	// sample stddev: sqrt(5/3)
	require.InDelta(t, 1.2909944487358056, g.StdDev(mean), 1e-12)
}

func TestClamp(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, -5.0)
	g.Set(1, 0, 1.0)
	g.Set(2, 0, 99.0)

	g.Clamp(0.0, 10.0)
	require.Equal(t, 0.0, g.Get(0, 0))
	require.Equal(t, 1.0, g.Get(1, 0))
	require.Equal(t, 10.0, g.Get(2, 0))
}

func TestRescale(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, 0.0)
	g.Set(1, 0, 5.0)
	g.Set(2, 0, 10.0)

	g.Rescale(0.0, 255.0)
	require.InDelta(t, 0.0, g.Get(0, 0), 1e-12)
	require.InDelta(t, 127.5, g.Get(1, 0), 1e-12)
	require.InDelta(t, 255.0, g.Get(2, 0), 1e-12)
}

func TestRescaleConstant(t *testing.T) {
	g := grid.New(4, 4)
	g.Fill(42.0)

	g.Rescale(0.0, 255.0)
	min, max := g.MinMax()
	require.Equal(t, 0.0, min)
	require.Equal(t, 0.0, max)
}

func TestFromImageGrayPassthrough(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(2, 1, color.Gray{Y: 200})

	g := grid.FromImage(img)
	require.Equal(t, 3, g.Dx())
	require.Equal(t, 2, g.Dy())
	require.Equal(t, 10.0, g.Get(0, 0))
	require.Equal(t, 200.0, g.Get(2, 1))
}

func TestFromImageColorLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})

	g := grid.FromImage(img)
	require.InDelta(t, 255.0, g.Get(0, 0), 0.5) // white has XYZ Y = 1.0
	require.InDelta(t, 0.0, g.Get(1, 0), 0.5)
}

func TestToGrayTruncates(t *testing.T) {
	g := grid.New(2, 1)
	g.Set(0, 0, -10.0)
	g.Set(1, 0, 300.0)

	img := g.ToGray()
	require.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	require.Equal(t, uint8(255), img.GrayAt(1, 0).Y)
}

func TestStats(t *testing.T) {
	g := grid.New(4, 2)
	g.Set(0, 0, -1.0)
	g.Set(3, 1, 9.0)
	require.Contains(t, g.Stats(), "4x2")
}
