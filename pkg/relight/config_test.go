package relight_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotient-image/relight/pkg/multigrid"
	"github.com/quotient-image/relight/pkg/relight"
)

func TestNewConfigDefaultsAreValid(t *testing.T) {
	c := relight.NewConfig()
	require.NoError(t, c.Finalize())
	require.Equal(t, multigrid.DiffWeber, c.Diff)
	require.Equal(t, 5.0, c.Lambda)
	require.Equal(t, 1, c.NGrids)
}

func TestLoadConfig(t *testing.T) {
	contents := `
lambda: 2.5
ngrids: 3
diffusion: flat8
sweeps: 4
clipwidth: 3
outputfilename: normalized.png
`
	filename := filepath.Join(t.TempDir(), "relight.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0644))

	c, err := relight.LoadConfig(filename)
	require.NoError(t, err)
	require.Equal(t, 2.5, c.Lambda)
	require.Equal(t, 3, c.NGrids)
	require.Equal(t, multigrid.DiffFlat8, c.Diff)
	require.Equal(t, 4, c.Sweeps)
	require.Equal(t, 3.0, c.ClipWidth)
	require.Equal(t, "normalized.png", c.OutputFilename)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := relight.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFinalizeRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*relight.Config)
	}{
		{"ZeroLambda", func(c *relight.Config) { c.Lambda = 0 }},
		{"NegativeLambda", func(c *relight.Config) { c.Lambda = -3 }},
		{"ZeroGrids", func(c *relight.Config) { c.NGrids = 0 }},
		{"ZeroSweeps", func(c *relight.Config) { c.Sweeps = 0 }},
		{"ZeroClipWidth", func(c *relight.Config) { c.ClipWidth = 0 }},
		{"UnknownDiffusion", func(c *relight.Config) { c.Diffusion = "osmosis" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := relight.NewConfig()
			tc.mutate(&c)
			require.Error(t, c.Finalize())
		})
	}
}

func TestAsYamlRoundTrips(t *testing.T) {
	c := relight.NewConfig()
	c.Lambda = 7.0

	filename := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(c.AsYaml()), 0644))

	c2, err := relight.LoadConfig(filename)
	require.NoError(t, err)
	require.Equal(t, 7.0, c2.Lambda)
	require.Equal(t, c.Diffusion, c2.Diffusion)
}
