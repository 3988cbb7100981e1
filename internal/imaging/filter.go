package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Filter names accepted by Apply.
const (
	FilterSharpen   = "sharpen"
	FilterBoxBlur   = "box_blur"
	FilterGaussian  = "gaussian"
	FilterErode     = "erode"
	FilterDilate    = "dilate"
	FilterMidpoint  = "midpoint"
	FilterMean      = "mean"
	FilterMedian    = "median"
	FilterBilateral = "bilateral"
	FilterLaplacian = "laplacian"
	FilterSobel     = "sobel"
	FilterCanny     = "canny"
	FilterGrayscale = "grayscale"
)

// FilterNames lists every name Apply understands, in display order.
var FilterNames = []string{
	FilterSharpen, FilterBoxBlur, FilterGaussian, FilterErode, FilterDilate,
	FilterMidpoint, FilterMean, FilterMedian, FilterBilateral, FilterLaplacian, FilterSobel,
	FilterCanny, FilterGrayscale,
}

var (
	sharpenKernel = []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}
	gaussianKernel = []float64{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	}
	laplacianKernel = [3][3]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
	sobelXKernel = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelYKernel = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

func kernel(width, height int, values []float64) *convolution.Kernel {
	k := convolution.NewKernel(width, height)
	copy(k.Matrix, values)
	return k
}

func convolve(r *raster.Raster, k *convolution.Kernel) *raster.Raster {
	out := convolution.Convolve(r.Image(), k, &convolution.Options{KeepAlpha: true})
	return raster.FromImageAs(out, r.Channels)
}

func fromRGBA(out *image.RGBA, channels int) *raster.Raster {
	return raster.FromImageAs(out, channels)
}

// perChannel runs op on each channel of r as its own gray image and
// reassembles the results. bild's rank filters order whole pixels by
// luminance, so color input has to be split for per-sample minimum, maximum
// and median.
func perChannel(r *raster.Raster, op func(image.Image) *image.RGBA) *raster.Raster {
	out, _ := raster.New(r.Width, r.Height, r.Channels)
	plane := image.NewGray(r.Bounds())

	for c := 0; c < r.Channels; c++ {
		for i := range plane.Pix {
			plane.Pix[i] = r.Pix[i*r.Channels+c]
		}
		res := op(plane)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				out.Set(x, y, c, res.Pix[y*res.Stride+x*4])
			}
		}
	}
	return out
}

// Sharpen convolves r with the high-pass kernel [-1 -1 -1; -1 9 -1; -1 -1 -1].
func Sharpen(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return convolve(r, kernel(3, 3, sharpenKernel)), nil
}

// BoxBlur convolves r with a 4x4 averaging kernel (every weight 1/16).
func BoxBlur(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	values := make([]float64, 16)
	for i := range values {
		values[i] = 1.0 / 16
	}
	return convolve(r, kernel(4, 4, values)), nil
}

// GaussianSmooth convolves r with [1 2 1; 2 4 2; 1 2 1] / 16.
func GaussianSmooth(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return convolve(r, kernel(3, 3, gaussianKernel)), nil
}

// Erode replaces each sample with the minimum of that channel over its 3x3
// neighborhood (one iteration).
func Erode(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return perChannel(r, func(img image.Image) *image.RGBA {
		return effect.Erode(img, 1)
	}), nil
}

// Dilate replaces each sample with the maximum of that channel over its 3x3
// neighborhood (one iteration).
func Dilate(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return perChannel(r, func(img image.Image) *image.RGBA {
		return effect.Dilate(img, 1)
	}), nil
}

// Midpoint returns the per-sample average of Erode(r) and Dilate(r),
// rounded down.
func Midpoint(r *raster.Raster) (*raster.Raster, error) {
	lo, err := Erode(r)
	if err != nil {
		return nil, err
	}
	hi, err := Dilate(r)
	if err != nil {
		return nil, err
	}

	out := lo.Clone()
	for i := range out.Pix {
		out.Pix[i] = uint8((int(lo.Pix[i]) + int(hi.Pix[i])) / 2)
	}
	return out, nil
}

// Mean blurs r with a normalized 3x3 box filter.
func Mean(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return fromRGBA(blur.Box(r.Image(), 1), r.Channels), nil
}

// Median replaces each sample with the median of that channel over its 3x3
// neighborhood.
func Median(r *raster.Raster) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return perChannel(r, func(img image.Image) *image.RGBA {
		return effect.Median(img, 1)
	}), nil
}

// Denoise applies a Gaussian blur of the given radius. A radius of 0 returns
// an unmodified copy.
func Denoise(r *raster.Raster, radius float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("radius", radius); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius cannot be negative, got %v", raster.ErrInvalidArgument, radius)
	}
	if radius == 0 {
		return r.Clone(), nil
	}
	return fromRGBA(blur.Gaussian(r.Image(), radius), r.Channels), nil
}

// Laplacian returns the second derivative response of r using the 3x3
// aperture [0 1 0; 1 -4 1; 0 1 0].
func Laplacian(r *raster.Raster) (*raster.FloatRaster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return convolveFloat(r, laplacianKernel), nil
}

// Sobel returns the first derivative of r along X using the 3x3 Sobel kernel.
func Sobel(r *raster.Raster) (*raster.FloatRaster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return convolveFloat(r, sobelXKernel), nil
}

// SobelY returns the first derivative of r along Y.
func SobelY(r *raster.Raster) (*raster.FloatRaster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return convolveFloat(r, sobelYKernel), nil
}

// convolveFloat correlates every channel of r with k, replicating border
// samples, and keeps the signed result.
func convolveFloat(r *raster.Raster, k [3][3]float64) *raster.FloatRaster {
	out, _ := raster.NewFloat(r.Width, r.Height, r.Channels)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			for c := 0; c < r.Channels; c++ {
				var sum float64
				for ky := -1; ky <= 1; ky++ {
					py := clamp(y+ky, 0, r.Height-1)
					for kx := -1; kx <= 1; kx++ {
						px := clamp(x+kx, 0, r.Width-1)
						sum += float64(r.At(px, py, c)) * k[ky+1][kx+1]
					}
				}
				out.Set(x, y, c, sum)
			}
		}
	}
	return out
}

// Apply runs the named filter and returns an 8-bit raster. Float responses
// (laplacian, sobel) are converted with FloatRaster.ToRaster; canny uses its
// demo thresholds of 100 and 200 and bilateral uses DefaultBilateral.
func Apply(r *raster.Raster, name string) (*raster.Raster, error) {
	switch name {
	case FilterSharpen:
		return Sharpen(r)
	case FilterBoxBlur:
		return BoxBlur(r)
	case FilterGaussian:
		return GaussianSmooth(r)
	case FilterErode:
		return Erode(r)
	case FilterDilate:
		return Dilate(r)
	case FilterMidpoint:
		return Midpoint(r)
	case FilterMean:
		return Mean(r)
	case FilterMedian:
		return Median(r)
	case FilterBilateral:
		return Bilateral(r, DefaultBilateral)
	case FilterLaplacian:
		f, err := Laplacian(r)
		if err != nil {
			return nil, err
		}
		return f.ToRaster(), nil
	case FilterSobel:
		f, err := Sobel(r)
		if err != nil {
			return nil, err
		}
		return f.ToRaster(), nil
	case FilterCanny:
		return Canny(r, DefaultCannyLow, DefaultCannyHigh)
	case FilterGrayscale:
		return Grayscale(r)
	}
	return nil, fmt.Errorf("%w: unknown filter %q", raster.ErrInvalidArgument, name)
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
