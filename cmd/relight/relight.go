package main

import(
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/quotient-image/relight/pkg/relight"
)

var(
	fConfig    string
	fLambda    float64
	fNGrids    int
	fDiffusion string
	fSweeps    int
	fClipWidth float64
	fOutput    string
	fDumpGrids bool
	fVerbosity int
)

func init() {
	defaults := relight.NewConfig()

	flag.StringVar(&fConfig, "config", "", "yaml config file (flags override it)")
	flag.Float64Var(&fLambda, "lambda", defaults.Lambda, "relative importance of the smoothness constraint")
	flag.IntVar(&fNGrids, "ngrids", defaults.NGrids, "number of grids used in the v-cycle")
	flag.StringVar(&fDiffusion, "diffusion", defaults.Diffusion, "type of diffusion: flat, weber, gradient, flat8")
	flag.IntVar(&fSweeps, "sweeps", defaults.Sweeps, "Gauss-Seidel sweeps per smoothing phase")
	flag.Float64Var(&fClipWidth, "clip", defaults.ClipWidth, "clip reflectance at mean +/- this many stddevs")
	flag.StringVar(&fOutput, "o", defaults.OutputFilename, "output PNG filename")
	flag.BoolVar(&fDumpGrids, "dump", false, "write PNGs of the intermediate grids")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.Parse()

	log.Printf("relight starting\n")
}

func main() {
	if flag.NArg() != 1 {
		log.Fatalf("usage: relight [flags] <image>\n")
	}

	c := relight.NewConfig()
	if fConfig != "" {
		var err error
		if c,err = relight.LoadConfig(fConfig); err != nil {
			log.Fatal(err)
		}
	}

	// Command line beats config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lambda":    c.Lambda = fLambda
		case "ngrids":    c.NGrids = fNGrids
		case "diffusion": c.Diffusion = fDiffusion
		case "sweeps":    c.Sweeps = fSweeps
		case "clip":      c.ClipWidth = fClipWidth
		case "o":         c.OutputFilename = fOutput
		case "dump":      c.DumpGrids = fDumpGrids
		case "v":         c.Verbosity = fVerbosity
		}
	})

	if c.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", c.AsYaml())
	}

	img, err := loadImage(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	out, err := relight.Normalize(img, c)
	if err != nil {
		log.Fatal(err)
	}

	dc := gg.NewContextForImage(out)
	if err := dc.SavePNG(c.OutputFilename); err != nil {
		log.Fatalf("save %s: %v\n", c.OutputFilename, err)
	}
	log.Printf("wrote %s\n", c.OutputFilename)
}

func loadImage(filename string) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	switch strings.ToLower(filepath.Ext(filename)) {

	case ".png":
		img, err := png.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("png loading '%s': %v", filename, err)
		}
		return img, nil

	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("jpeg loading '%s': %v", filename, err)
		}
		return orientFromExif(filename, img), nil

	case ".tif", ".tiff":
		img, err := tiff.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("tiff loading '%s': %v", filename, err)
		}
		return img, nil
	}

	return nil, fmt.Errorf("'%s': unhandled image extension", filename)
}

// orientFromExif undoes any camera rotation recorded in the EXIF
// metadata, so the normalization and output match what the user sees.
// Missing or unparseable EXIF just means no rotation.
func orientFromExif(filename string, img image.Image) image.Image {
	reader, err := os.Open(filename)
	if err != nil {
		return img
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return img
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return img
	}
	o, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch o {
	case 3:
		return rotate(img, func(b image.Rectangle, x, y int) (int, int) {
			return b.Max.X - 1 - x, b.Max.Y - 1 - y
		}, false)
	case 6:
		return rotate(img, func(b image.Rectangle, x, y int) (int, int) {
			return y, b.Max.X - 1 - x
		}, true)
	case 8:
		return rotate(img, func(b image.Rectangle, x, y int) (int, int) {
			return b.Max.Y - 1 - y, x
		}, true)
	default:
		if o != 1 {
			log.Printf("'%s': EXIF orientation %d unhandled, using image as stored\n", filename, o)
		}
		return img
	}
}

// rotate builds a new image whose pixel (x,y) comes from src at the
// remapped location; swap indicates the axes trade places.
func rotate(src image.Image, remap func(image.Rectangle, int, int) (int, int), swap bool) image.Image {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	if swap {
		w, h = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			sx, sy := remap(image.Rect(0, 0, w, h), x, y)
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
