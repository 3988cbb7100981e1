package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// BilateralOptions configures Bilateral.
type BilateralOptions struct {
	// Diameter of the pixel neighborhood. Only offsets within Diameter/2 of
	// the center contribute.
	Diameter int `json:"diameter" yaml:"diameter"`

	// SigmaColor controls how quickly the weight falls off with intensity
	// difference.
	SigmaColor float64 `json:"sigma_color" yaml:"sigma_color"`

	// SigmaSpace controls how quickly the weight falls off with distance.
	SigmaSpace float64 `json:"sigma_space" yaml:"sigma_space"`
}

// DefaultBilateral is the edge-preserving smoothing used before plate edge
// detection.
var DefaultBilateral = BilateralOptions{Diameter: 15, SigmaColor: 20, SigmaSpace: 20}

// Validate reports out-of-range options.
func (o BilateralOptions) Validate() error {
	if o.Diameter < 1 {
		return fmt.Errorf("%w: bilateral diameter must be at least 1, got %d", raster.ErrInvalidArgument, o.Diameter)
	}
	if err := finite("bilateral sigma", o.SigmaColor, o.SigmaSpace); err != nil {
		return err
	}
	if o.SigmaColor <= 0 || o.SigmaSpace <= 0 {
		return fmt.Errorf("%w: bilateral sigmas must be positive, got color=%v space=%v",
			raster.ErrInvalidArgument, o.SigmaColor, o.SigmaSpace)
	}
	return nil
}

// Bilateral smooths r while keeping strong edges: each output sample is the
// average of its neighborhood weighted by both distance and intensity
// difference. Gray and RGB rasters are supported; for RGB the intensity
// difference is the sum of the per-channel differences.
func Bilateral(r *raster.Raster, opts BilateralOptions) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return bilateral(r, opts)
}

// bilateralWeights precomputes the spatial kernel and the color term for
// every possible summed difference.
func bilateralWeights(opts BilateralOptions, channels int) (offsets [][2]int, space, color []float64) {
	radius := opts.Diameter / 2
	spaceCoeff := -0.5 / (opts.SigmaSpace * opts.SigmaSpace)
	colorCoeff := -0.5 / (opts.SigmaColor * opts.SigmaColor)

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if d > float64(radius) {
				continue
			}
			offsets = append(offsets, [2]int{dx, dy})
			space = append(space, math.Exp(d*d*spaceCoeff))
		}
	}

	color = make([]float64, 255*channels+1)
	for i := range color {
		v := float64(i)
		color[i] = math.Exp(v * v * colorCoeff)
	}
	return offsets, space, color
}

// reflect101 maps i into [0, n) by reflecting about the edge samples
// without repeating them.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
