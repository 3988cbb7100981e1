//go:build !cgo

package ocr

import (
	"context"

	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/raster"
)

const backend = "none"

// Tesseract is a placeholder; NewTesseract never returns one in this build.
type Tesseract struct{}

// NewTesseract returns ErrUnavailable.
func NewTesseract(opts Options) (*Tesseract, error) {
	return nil, ErrUnavailable
}

// Recognize returns ErrUnavailable.
func (t *Tesseract) Recognize(ctx context.Context, r *raster.Raster) ([]detection.TextDetection, error) {
	return nil, ErrUnavailable
}

// Close is a no-op.
func (t *Tesseract) Close() error {
	return nil
}

// Version returns an empty string.
func Version() string {
	return ""
}

// GetInfo reports the engine as unavailable.
func GetInfo(opts Options) Info {
	return Info{Available: false, Error: ErrUnavailable.Error(), Backend: backend}
}
