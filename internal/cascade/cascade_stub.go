//go:build !gocv

package cascade

import (
	"image"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Available reports whether a cascade backend is compiled in.
const Available = false

// Detector is a placeholder; Open never returns one in this build.
type Detector struct {
	path string
}

// Open validates its arguments and returns ErrUnavailable.
func Open(path string, opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

// Detect returns ErrUnavailable.
func (d *Detector) Detect(gray *raster.Raster) ([]image.Rectangle, error) {
	return nil, ErrUnavailable
}

// Path returns the file the classifier was loaded from.
func (d *Detector) Path() string {
	return d.path
}

// Close is a no-op.
func (d *Detector) Close() error {
	return nil
}
