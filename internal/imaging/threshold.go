package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Default binarization cutoff used before OCR.
const DefaultThreshold = 125

// Grayscale converts r to a single-channel raster using the luma weights
// 0.299 R + 0.587 G + 0.114 B. Grayscale input is returned as a copy.
func Grayscale(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.IsGray() {
		return r.Clone(), nil
	}
	return raster.FromImageAs(imaging.Grayscale(r.NRGBA()), 1), nil
}

// Threshold binarizes r: samples strictly greater than cutoff become 255 and
// all others become 0. Color input is converted with Grayscale first, so the
// result is always single-channel.
func Threshold(r *raster.Raster, cutoff float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("threshold", cutoff); err != nil {
		return nil, err
	}
	if cutoff < 0 || cutoff > 255 {
		return nil, fmt.Errorf("%w: threshold %v must be within [0, 255]", raster.ErrInvalidArgument, cutoff)
	}

	gray, err := Grayscale(r)
	if err != nil {
		return nil, err
	}
	for i, v := range gray.Pix {
		if float64(v) > cutoff {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
	return gray, nil
}
