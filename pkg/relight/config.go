package relight

import(
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/quotient-image/relight/pkg/multigrid"
)

/* Example config file ...

lambda: 5.0
ngrids: 2
diffusion: weber
sweeps: 2
clipwidth: 4
outputfilename: out.png
dumpgrids: false

*/

type Config struct {
	Lambda         float64 // relative importance of the smoothness constraint
	NGrids         int     `yaml:"ngrids"`
	Diffusion      string  // flat, weber, gradient, flat8
	Sweeps         int     // Gauss-Seidel sweeps per smoothing phase
	ClipWidth      float64 `yaml:"clipwidth"` // reflectance clipped at mean +/- this many stddevs
	OutputFilename string
	DumpGrids      bool    // write PNGs of the intermediate fields
	Verbosity      int

	// Values we derive/compute
	Diff multigrid.Diffusion `yaml:"-"`
}

func NewConfig() Config {
	return Config{
		Lambda:         5.0,
		NGrids:         1,
		Diffusion:      "weber",
		Sweeps:         2,
		ClipWidth:      4.0,
		OutputFilename: "relit.png",
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents,err := ioutil.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, c.Finalize()
}

// Finalize does sanity checks and resolves the diffusion selector.
func (c *Config)Finalize() error {
	if c.Lambda <= 0 {
		return fmt.Errorf("lambda must be > 0, got %g", c.Lambda)
	}
	if c.NGrids < 1 {
		return fmt.Errorf("ngrids must be >= 1, got %d", c.NGrids)
	}
	if c.Sweeps < 1 {
		return fmt.Errorf("sweeps must be >= 1, got %d", c.Sweeps)
	}
	if c.ClipWidth <= 0 {
		return fmt.Errorf("clipwidth must be > 0, got %g", c.ClipWidth)
	}

	diff, err := multigrid.ParseDiffusion(c.Diffusion)
	if err != nil {
		return err
	}
	c.Diff = diff
	return nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}
