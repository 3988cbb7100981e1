package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/vision-tools/internal/cascade"
	"github.com/ironsheep/vision-tools/internal/config"
	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/imaging"
	"github.com/ironsheep/vision-tools/internal/ocr"
	"github.com/ironsheep/vision-tools/internal/pipeline"
	"github.com/ironsheep/vision-tools/internal/present"
	"github.com/ironsheep/vision-tools/internal/raster"
	"github.com/ironsheep/vision-tools/internal/server"
)

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// loadConfig reads the config file, applies the environment and then the
// log level flag.
func loadConfig(path, logLevel string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// imageIO holds the -in and -out flags shared by the single-image commands.
type imageIO struct {
	in, out string
}

func (f *imageIO) register(fs *flag.FlagSet) {
	fs.StringVar(&f.in, "in", "", "input image path (required)")
	fs.StringVar(&f.out, "out", "", "output image path (required)")
}

func (f *imageIO) apply(op func(*raster.Raster) (*raster.Raster, error)) error {
	if f.in == "" || f.out == "" {
		return fmt.Errorf("%w: -in and -out are required", errUsage)
	}
	img, err := raster.Load(f.in)
	if err != nil {
		return err
	}
	out, err := op(img)
	if err != nil {
		return err
	}
	return raster.Save(f.out, out)
}

func runTransform(args []string, stderr io.Writer) error {
	fs := newFlagSet("transform", stderr)
	var files imageIO
	files.register(fs)
	op := fs.String("op", "", "translate, rotate, scale, shear, reflect or crop")
	dx := fs.Float64("dx", 0, "translate: horizontal shift")
	dy := fs.Float64("dy", 0, "translate: vertical shift")
	angle := fs.Float64("angle", 0, "rotate: degrees, counter-clockwise")
	factor := fs.Float64("factor", 1, "scale: factor, > 0")
	width := fs.Int("width", 0, "scale: explicit width (with -height)")
	height := fs.Int("height", 0, "scale: explicit height (with -width)")
	kx := fs.Float64("kx", 0, "shear: horizontal factor")
	ky := fs.Float64("ky", 0, "shear: vertical factor")
	axis := fs.String("axis", "horizontal", "reflect: horizontal, vertical or both")
	left := fs.Int("left", 0, "crop: left edge")
	right := fs.Int("right", 0, "crop: right edge (exclusive)")
	top := fs.Int("top", 0, "crop: top edge")
	bottom := fs.Int("bottom", 0, "crop: bottom edge (exclusive)")
	region := fs.String("region", "", "crop: named region (top-left, center, ...) instead of edges")
	if err := parse(fs, args); err != nil {
		return err
	}

	var fn func(*raster.Raster) (*raster.Raster, error)
	switch *op {
	case "translate":
		fn = func(r *raster.Raster) (*raster.Raster, error) { return imaging.Translate(r, *dx, *dy) }
	case "rotate":
		fn = func(r *raster.Raster) (*raster.Raster, error) { return imaging.Rotate(r, *angle) }
	case "scale":
		fn = func(r *raster.Raster) (*raster.Raster, error) {
			if *width != 0 || *height != 0 {
				return imaging.ScaleTo(r, *width, *height)
			}
			return imaging.Scale(r, *factor)
		}
	case "shear":
		fn = func(r *raster.Raster) (*raster.Raster, error) { return imaging.Shear(r, *kx, *ky) }
	case "reflect":
		a, err := imaging.ParseAxis(*axis)
		if err != nil {
			return err
		}
		fn = func(r *raster.Raster) (*raster.Raster, error) { return imaging.Reflect(r, a) }
	case "crop":
		fn = func(r *raster.Raster) (*raster.Raster, error) {
			if *region != "" {
				return imaging.CropRegion(r, *region)
			}
			return imaging.Crop(r, *left, *right, *top, *bottom)
		}
	default:
		return fmt.Errorf("%w: -op must be one of translate, rotate, scale, shear, reflect, crop", errUsage)
	}
	return files.apply(fn)
}

func runFilter(args []string, stderr io.Writer) error {
	fs := newFlagSet("filter", stderr)
	var files imageIO
	files.register(fs)
	name := fs.String("name", "", fmt.Sprintf("filter name %v", imaging.FilterNames))
	if err := parse(fs, args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: -name is required", errUsage)
	}
	return files.apply(func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Apply(r, *name)
	})
}

func runThreshold(args []string, stderr io.Writer) error {
	fs := newFlagSet("threshold", stderr)
	var files imageIO
	files.register(fs)
	cutoff := fs.Float64("t", imaging.DefaultThreshold, "cutoff; samples above it become 255")
	if err := parse(fs, args); err != nil {
		return err
	}
	return files.apply(func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Threshold(r, *cutoff)
	})
}

// skipOCR stands in for the engine when recognition is turned off.
type skipOCR struct{}

func (skipOCR) Recognize(context.Context, *raster.Raster) ([]detection.TextDetection, error) {
	return nil, nil
}

func runPlate(ctx context.Context, args []string, stdout, stderr io.Writer, useCascade bool) error {
	name := "plate"
	if useCascade {
		name = "cascade"
	}
	fs := newFlagSet(name, stderr)
	cfgPath := fs.String("config", "", "YAML config file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	out := fs.String("out", "", "write the annotated image here; {name} expands to the input file name")
	window := fs.Bool("window", false, "show the annotated image in a window until ESC (gocv builds)")
	jobs := fs.Int("jobs", 0, "files processed concurrently (default from config, 1)")
	noOCR := fs.Bool("no-ocr", false, "localize only; skip text recognition")
	threshold := fs.Float64("threshold", 0, "binarization cutoff before OCR (default 125)")
	lang := fs.String("lang", "", "Tesseract language (default eng)")

	var cannyLow, cannyHigh, denoise float64
	var cascadePath string
	var scaleFactor float64
	var minNeighbors, minSize, bilateral int
	if useCascade {
		fs.StringVar(&cascadePath, "cascade", "", "Haar cascade XML file")
		fs.Float64Var(&scaleFactor, "scale-factor", 0, "pyramid scale step (default 1.2)")
		fs.IntVar(&minNeighbors, "min-neighbors", 0, "overlapping hits per box (default 5)")
		fs.IntVar(&minSize, "min-size", 0, "smallest box side in pixels (default 25)")
	} else {
		fs.Float64Var(&cannyLow, "canny-low", 0, "lower Canny threshold (default 170)")
		fs.Float64Var(&cannyHigh, "canny-high", 0, "upper Canny threshold (default 200)")
		fs.IntVar(&bilateral, "bilateral", 0, "bilateral filter diameter after grayscale; 0 disables (default 15)")
		fs.Float64Var(&denoise, "denoise", 0, "Gaussian denoise sigma after grayscale (default 0, off)")
	}

	if err := parse(fs, args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("%w: %s needs at least one image file", errUsage, name)
	}

	cfg, err := loadConfig(*cfgPath, *logLevel)
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if set["out"] {
		cfg.Output.Path = *out
	}
	if set["window"] {
		cfg.Output.Window = *window
	}
	if set["jobs"] {
		cfg.Jobs = *jobs
	}
	if set["threshold"] {
		cfg.Plate.Threshold = *threshold
	}
	if set["lang"] {
		cfg.OCR.Language = *lang
	}
	if set["canny-low"] {
		cfg.Plate.CannyLow = cannyLow
	}
	if set["canny-high"] {
		cfg.Plate.CannyHigh = cannyHigh
	}
	if set["bilateral"] {
		cfg.Plate.Bilateral.Diameter = bilateral
	}
	if set["denoise"] {
		cfg.Plate.DenoiseSigma = denoise
	}
	if set["cascade"] {
		cfg.Cascade.Path = cascadePath
	}
	if set["scale-factor"] {
		cfg.Cascade.ScaleFactor = scaleFactor
	}
	if set["min-neighbors"] {
		cfg.Cascade.MinNeighbors = minNeighbors
	}
	if set["min-size"] {
		cfg.Cascade.MinSize = minSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.NewLogger(stderr)
	if cfg.Output.Window && cfg.Jobs > 1 {
		logger.Warn("window display runs one file at a time", "jobs", cfg.Jobs)
		cfg.Jobs = 1
	}
	if cfg.Output.Window && !present.WindowAvailable {
		logger.Warn("window display needs a gocv build; falling back to -out")
	}

	pcfg := pipeline.Config{
		Options: cfg.Plate,
		Logger:  logger,
		// Text is printed after all runs finish, in input order
		Presenter: &present.Presenter{
			Display: present.NewDisplay(cfg.Output.Window, cfg.Output.Path),
			Style:   cfg.Output.Style,
		},
	}

	if *noOCR {
		pcfg.Recognizer = skipOCR{}
	} else {
		tess, err := ocr.NewTesseract(cfg.OCR)
		if err != nil {
			return fmt.Errorf("%w (use -no-ocr to localize only)", err)
		}
		defer tess.Close()
		pcfg.Recognizer = tess
	}

	mode := pipeline.ModeContour
	if useCascade {
		if cfg.Cascade.Path == "" {
			return fmt.Errorf("%w: -cascade or %s is required", errUsage, config.EnvCascadePath)
		}
		det, err := cascade.Open(cfg.Cascade.Path, cfg.Cascade.Options)
		if err != nil {
			return err
		}
		defer det.Close()
		pcfg.Detector = det
		mode = pipeline.ModeCascade
	}

	p, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	results := p.RunFiles(ctx, paths, mode, cfg.Jobs)
	return report(stdout, logger, results, *noOCR)
}

// report prints every run in input order and returns an error if any failed.
func report(stdout io.Writer, logger *slog.Logger, results []pipeline.FileResult, noOCR bool) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("plate run failed", "path", r.Path, "error", r.Err)
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(stdout, "%s:\n", r.Path)
		}
		if noOCR {
			if c := r.Result.Candidate; c != nil {
				fmt.Fprintf(stdout, "plate %v (area %v)\n", c.Polygon, c.Area)
			}
			for _, b := range r.Result.Boxes {
				fmt.Fprintf(stdout, "plate %v\n", b)
			}
			continue
		}
		if err := present.PrintResults(stdout, r.Result.Detections); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	cfgPath := fs.String("config", "", "YAML config file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, *logLevel)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr; stdout carries the MCP protocol
	logger := cfg.NewLogger(stderr)
	logger.Debug("vision-tools starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv, err := server.New(server.Options{Config: cfg, Logger: logger, Version: Version})
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}
