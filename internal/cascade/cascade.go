// Package cascade wraps a pretrained Haar cascade classifier that proposes
// plate bounding boxes.
//
// The OpenCV binding is only compiled with the gocv build tag. Without it,
// Open returns ErrUnavailable so callers can fall back to contour-based
// localization.
package cascade

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// ErrUnavailable is returned when no cascade backend is compiled in.
var ErrUnavailable = errors.New("cascade detector unavailable (build with -tags gocv)")

// Options tunes multi-scale detection.
type Options struct {
	// ScaleFactor is the image shrink ratio between pyramid levels.
	ScaleFactor float64 `json:"scale_factor" yaml:"scale_factor"`

	// MinNeighbors is how many overlapping hits a box needs to be kept.
	MinNeighbors int `json:"min_neighbors" yaml:"min_neighbors"`

	// MinSize is the smallest box considered, in pixels per side.
	MinSize int `json:"min_size" yaml:"min_size"`
}

// DefaultOptions returns scale 1.2, 5 neighbors and a 25x25 minimum size.
func DefaultOptions() Options {
	return Options{ScaleFactor: 1.2, MinNeighbors: 5, MinSize: 25}
}

// Validate reports out-of-range options.
func (o Options) Validate() error {
	if !(o.ScaleFactor > 1) {
		return fmt.Errorf("%w: scale factor %v must be greater than 1", raster.ErrInvalidArgument, o.ScaleFactor)
	}
	if o.MinNeighbors < 0 {
		return fmt.Errorf("%w: min neighbors %d cannot be negative", raster.ErrInvalidArgument, o.MinNeighbors)
	}
	if o.MinSize < 0 {
		return fmt.Errorf("%w: min size %d cannot be negative", raster.ErrInvalidArgument, o.MinSize)
	}
	return nil
}

// clip intersects every box with bounds and drops the empty ones.
func clip(boxes []image.Rectangle, bounds image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(boxes))
	for _, b := range boxes {
		if b = b.Intersect(bounds); !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}
