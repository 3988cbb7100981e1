//go:build gocv

package cascade

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Available reports whether a cascade backend is compiled in.
const Available = true

// Detector runs a loaded cascade classifier. It is safe for concurrent use;
// calls are serialized.
type Detector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	opts       Options
	path       string
}

// Open loads the cascade XML file at path.
func Open(path string, opts Options) (*Detector, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: cascade path cannot be empty", raster.ErrInvalidArgument)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("%w: failed to load cascade %s", raster.ErrNotFound, path)
	}
	return &Detector{classifier: classifier, opts: opts, path: path}, nil
}

// Detect returns the boxes proposed for gray, clipped to its bounds.
func (d *Detector) Detect(gray *raster.Raster) ([]image.Rectangle, error) {
	if err := gray.Validate(); err != nil {
		return nil, err
	}
	if !gray.IsGray() {
		return nil, fmt.Errorf("%w: cascade detection needs a single-channel raster", raster.ErrInvalidArgument)
	}

	mat, err := gocv.ImageGrayToMatGray(gray.Image().(*image.Gray))
	if err != nil {
		return nil, fmt.Errorf("failed to convert raster: %w", err)
	}
	defer mat.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	minSize := image.Pt(d.opts.MinSize, d.opts.MinSize)
	boxes := d.classifier.DetectMultiScaleWithParams(mat, d.opts.ScaleFactor, d.opts.MinNeighbors, 0, minSize, image.Point{})
	return clip(boxes, gray.Bounds()), nil
}

// Path returns the file the classifier was loaded from.
func (d *Detector) Path() string {
	return d.path
}

// Close releases the classifier.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
