package imaging

import (
	"fmt"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Default hysteresis thresholds for plate localization.
const (
	DefaultCannyLow  = 100
	DefaultCannyHigh = 200
)

// Canny detects edges in r and returns a single-channel raster in which edge
// pixels are 255 and everything else is 0.
//
// Color input is converted with Grayscale first. Thresholds are compared
// against the gradient magnitude of the 3x3 Sobel operator computed on the
// 0-255 sample scale, and must satisfy 0 <= low <= high.
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients,
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: a pixel survives only when its magnitude is at
//     least that of both neighbors along the gradient direction
//
//  3. Hysteresis: pixels at or above high are strong edges. Pixels at or above
//     low survive only if they are 8-connected to a strong edge through other
//     surviving pixels.
//
// No smoothing is applied; run Bilateral or Denoise first for noisy
// photographs. Builds with the gocv tag use OpenCV's Canny, which follows the
// same steps.
func Canny(r *raster.Raster, low, high float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("canny threshold", low, high); err != nil {
		return nil, err
	}
	if low < 0 || high < low {
		return nil, fmt.Errorf("%w: canny thresholds need 0 <= low <= high, got low=%v high=%v",
			raster.ErrInvalidArgument, low, high)
	}

	gray, err := Grayscale(r)
	if err != nil {
		return nil, err
	}
	return canny(gray, low, high)
}
