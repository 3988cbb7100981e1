// Package pipeline chains the raster operations into the two plate reading
// runs: contour localization and cascade detection, each followed by OCR.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/imaging"
	"github.com/ironsheep/vision-tools/internal/raster"
)

// Default stage parameters.
const (
	DefaultCannyLow  = 170
	DefaultCannyHigh = 200
)

// ErrNoRecognizer is returned by a recognizing run on a pipeline built
// without a Recognizer.
var ErrNoRecognizer = errors.New("no recognizer configured")

// ErrNoDetector is returned by RunCascade on a pipeline built without a
// Detector.
var ErrNoDetector = errors.New("no cascade detector configured")

// Recognizer reads text from a preprocessed raster. Boxes are in the
// raster's coordinate space.
type Recognizer interface {
	Recognize(ctx context.Context, r *raster.Raster) ([]detection.TextDetection, error)
}

// Detector proposes plate boxes on a grayscale raster.
type Detector interface {
	Detect(gray *raster.Raster) ([]image.Rectangle, error)
}

// Presenter shows a finished run.
type Presenter interface {
	Present(ctx context.Context, res *Result) error
}

// Options holds the stage parameters.
type Options struct {
	CannyLow  float64 `json:"canny_low" yaml:"canny_low"`
	CannyHigh float64 `json:"canny_high" yaml:"canny_high"`
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Bilateral smooths the grayscale image before edge detection. A
	// diameter of 0 skips it.
	Bilateral imaging.BilateralOptions `json:"bilateral" yaml:"bilateral"`

	// DenoiseSigma adds a Gaussian blur after the bilateral filter; 0 skips it.
	DenoiseSigma float64 `json:"denoise_sigma" yaml:"denoise_sigma"`

	Candidate detection.CandidateOptions `json:"candidate" yaml:"candidate"`
}

// DefaultOptions returns the parameters of the reference pipeline.
func DefaultOptions() Options {
	return Options{
		CannyLow:  DefaultCannyLow,
		CannyHigh: DefaultCannyHigh,
		Threshold: imaging.DefaultThreshold,
		Bilateral: imaging.DefaultBilateral,
	}
}

// Validate reports out-of-range parameters.
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"canny_low":     o.CannyLow,
		"canny_high":    o.CannyHigh,
		"threshold":     o.Threshold,
		"denoise_sigma": o.DenoiseSigma,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s %v must be a finite non-negative number", raster.ErrInvalidArgument, name, v)
		}
	}
	if o.CannyLow > o.CannyHigh {
		return fmt.Errorf("%w: canny_low %v exceeds canny_high %v", raster.ErrInvalidArgument, o.CannyLow, o.CannyHigh)
	}
	if o.Threshold > 255 {
		return fmt.Errorf("%w: threshold %v exceeds 255", raster.ErrInvalidArgument, o.Threshold)
	}
	if o.Bilateral.Diameter != 0 {
		if err := o.Bilateral.Validate(); err != nil {
			return err
		}
	}
	return o.Candidate.Validate()
}

// Config assembles a Pipeline. Recognizer, Detector and Presenter are
// optional; runs that need a missing one fail at that stage.
type Config struct {
	Options    Options
	Recognizer Recognizer
	Detector   Detector
	Presenter  Presenter
	Logger     *slog.Logger
}

// Result is everything a run produced.
type Result struct {
	RunID string `json:"run_id"`
	Path  string `json:"path,omitempty"`

	// State is the last stage completed.
	State State `json:"-"`

	// Image is the original input.
	Image *raster.Raster `json:"-"`

	// Edges and Contours are set by contour runs.
	Edges    *raster.Raster      `json:"-"`
	Contours []detection.Contour `json:"-"`

	// Candidate and Mask are set by contour runs.
	Candidate *detection.Candidate `json:"candidate,omitempty"`
	Mask      *raster.Raster       `json:"-"`

	// Boxes are the cascade proposals of a cascade run.
	Boxes []image.Rectangle `json:"boxes,omitempty"`

	// Binary is the thresholded raster handed to OCR. For cascade runs it is
	// the binarized crop of the last box.
	Binary *raster.Raster `json:"-"`

	// Detections are in the coordinate space of Image.
	Detections []detection.TextDetection `json:"detections"`
}

// Pipeline runs plate reading with a fixed configuration. It holds no
// per-run state and is safe for concurrent use when its collaborators are.
type Pipeline struct {
	opts       Options
	recognizer Recognizer
	detector   Detector
	presenter  Presenter
	logger     *slog.Logger
}

// New validates cfg and returns a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		opts:       cfg.Options,
		recognizer: cfg.Recognizer,
		detector:   cfg.Detector,
		presenter:  cfg.Presenter,
		logger:     logger,
	}, nil
}

// Options returns the stage parameters.
func (p *Pipeline) Options() Options {
	return p.opts
}

// run tracks one pass through the stages.
type run struct {
	ctx    context.Context
	res    *Result
	logger *slog.Logger
}

func (p *Pipeline) start(ctx context.Context, path string, img *raster.Raster) (*run, error) {
	id := uuid.NewString()
	logger := p.logger.With("run_id", id)
	if path != "" {
		logger = logger.With("path", path)
	}
	if err := img.Validate(); err != nil {
		return nil, &StageError{State: Loaded, Err: err}
	}

	r := &run{
		ctx:    ctx,
		res:    &Result{RunID: id, Path: path, Image: img, State: Loaded},
		logger: logger,
	}
	logger.Debug("stage complete", "stage", Loaded, "width", img.Width, "height", img.Height)
	return r, nil
}

// enter checks for cancellation before a stage begins.
func (r *run) enter(s State) error {
	if err := r.ctx.Err(); err != nil {
		return &StageError{State: s, Err: err}
	}
	return nil
}

func (r *run) done(s State, attrs ...any) {
	r.res.State = s
	r.logger.Debug("stage complete", append([]any{"stage", s}, attrs...)...)
}

func (r *run) fail(s State, err error) error {
	r.logger.Debug("stage failed", "stage", s, "error", err)
	return &StageError{State: s, Err: err}
}

// Locate runs the contour localization stages up to and including
// Thresholded. No recognizer is needed.
func (p *Pipeline) Locate(ctx context.Context, img *raster.Raster) (*Result, error) {
	r, err := p.start(ctx, "", img)
	if err != nil {
		return nil, err
	}
	if err := p.locate(r); err != nil {
		return nil, err
	}
	return r.res, nil
}

func (p *Pipeline) locate(r *run) error {
	res := r.res

	if err := r.enter(Grayscaled); err != nil {
		return err
	}
	gray, err := imaging.Grayscale(res.Image)
	if err != nil {
		return r.fail(Grayscaled, err)
	}
	if p.opts.Bilateral.Diameter > 0 {
		if gray, err = imaging.Bilateral(gray, p.opts.Bilateral); err != nil {
			return r.fail(Grayscaled, err)
		}
	}
	if p.opts.DenoiseSigma > 0 {
		if gray, err = imaging.Denoise(gray, p.opts.DenoiseSigma); err != nil {
			return r.fail(Grayscaled, err)
		}
	}
	r.done(Grayscaled, "bilateral_diameter", p.opts.Bilateral.Diameter, "denoise_sigma", p.opts.DenoiseSigma)

	if err := r.enter(EdgeDetected); err != nil {
		return err
	}
	edges, err := imaging.Canny(gray, p.opts.CannyLow, p.opts.CannyHigh)
	if err != nil {
		return r.fail(EdgeDetected, err)
	}
	res.Edges = edges
	r.done(EdgeDetected, "low", p.opts.CannyLow, "high", p.opts.CannyHigh)

	if err := r.enter(ContoursExtracted); err != nil {
		return err
	}
	cand, contours, err := detection.LocateCandidate(edges, p.opts.Candidate)
	res.Contours = contours
	if err != nil {
		return r.fail(ContoursExtracted, err)
	}
	r.done(ContoursExtracted, "contours", len(contours))

	res.Candidate = cand
	r.done(CandidateSelected, "rank", cand.Rank, "area", cand.Area, "polygon", fmt.Sprint(cand.Polygon))

	if err := r.enter(MaskExtracted); err != nil {
		return err
	}
	mask, err := detection.Mask(gray.Width, gray.Height, cand.Polygon)
	if err != nil {
		return r.fail(MaskExtracted, err)
	}
	masked, err := detection.ApplyMask(res.Image, mask)
	if err != nil {
		return r.fail(MaskExtracted, err)
	}
	res.Mask = mask
	r.done(MaskExtracted)

	if err := r.enter(Thresholded); err != nil {
		return err
	}
	binary, err := imaging.Threshold(masked, p.opts.Threshold)
	if err != nil {
		return r.fail(Thresholded, err)
	}
	res.Binary = binary
	r.done(Thresholded, "cutoff", p.opts.Threshold)
	return nil
}

// RunContour localizes the plate by contours, reads it, and presents the
// result when a Presenter is configured.
func (p *Pipeline) RunContour(ctx context.Context, img *raster.Raster) (*Result, error) {
	return p.runContour(ctx, "", img)
}

func (p *Pipeline) runContour(ctx context.Context, path string, img *raster.Raster) (*Result, error) {
	r, err := p.start(ctx, path, img)
	if err != nil {
		return nil, err
	}
	if err := p.locate(r); err != nil {
		return nil, err
	}

	if err := r.enter(Recognized); err != nil {
		return nil, err
	}
	if p.recognizer == nil {
		return nil, r.fail(Recognized, ErrNoRecognizer)
	}
	dets, err := p.recognizer.Recognize(ctx, r.res.Binary)
	if err != nil {
		return nil, r.fail(Recognized, err)
	}
	r.res.Detections = dets
	r.done(Recognized, "words", len(dets))

	if err := p.present(r); err != nil {
		return nil, err
	}
	return r.res, nil
}

// RunCascade proposes plate boxes with the Detector, then binarizes and
// reads each box. Detections are translated into the space of img. A run
// with no boxes succeeds with no detections.
func (p *Pipeline) RunCascade(ctx context.Context, img *raster.Raster) (*Result, error) {
	return p.runCascade(ctx, "", img)
}

func (p *Pipeline) runCascade(ctx context.Context, path string, img *raster.Raster) (*Result, error) {
	r, err := p.start(ctx, path, img)
	if err != nil {
		return nil, err
	}
	res := r.res

	if err := r.enter(Grayscaled); err != nil {
		return nil, err
	}
	gray, err := imaging.Grayscale(img)
	if err != nil {
		return nil, r.fail(Grayscaled, err)
	}
	r.done(Grayscaled)

	if err := r.enter(CandidateSelected); err != nil {
		return nil, err
	}
	if p.detector == nil {
		return nil, r.fail(CandidateSelected, ErrNoDetector)
	}
	boxes, err := p.detector.Detect(gray)
	if err != nil {
		return nil, r.fail(CandidateSelected, err)
	}
	res.Boxes = boxes
	r.done(CandidateSelected, "boxes", len(boxes))

	if len(boxes) > 0 && p.recognizer == nil {
		return nil, r.fail(Recognized, ErrNoRecognizer)
	}

	res.Detections = []detection.TextDetection{}
	for i, box := range boxes {
		if err := r.enter(Thresholded); err != nil {
			return nil, err
		}
		crop, err := imaging.CropRect(img, box)
		if err != nil {
			return nil, r.fail(Thresholded, err)
		}
		binary, err := imaging.Threshold(crop, p.opts.Threshold)
		if err != nil {
			return nil, r.fail(Thresholded, err)
		}
		res.Binary = binary
		r.done(Thresholded, "box", i, "rect", box.String())

		if err := r.enter(Recognized); err != nil {
			return nil, err
		}
		dets, err := p.recognizer.Recognize(ctx, binary)
		if err != nil {
			return nil, r.fail(Recognized, err)
		}
		for _, d := range dets {
			res.Detections = append(res.Detections, d.Translate(box.Min))
		}
		r.done(Recognized, "box", i, "words", len(dets))
	}

	if err := p.present(r); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) present(r *run) error {
	if p.presenter == nil {
		return nil
	}
	if err := r.enter(Presented); err != nil {
		return err
	}
	if err := p.presenter.Present(r.ctx, r.res); err != nil {
		return r.fail(Presented, err)
	}
	r.done(Presented)
	return nil
}
