package raster

import (
	"fmt"
	"math"
)

// FloatRaster holds floating-point samples in the same layout as Raster.
// Derivative filters produce it because their responses are signed and
// exceed the 8-bit range.
type FloatRaster struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
}

// NewFloat allocates a zero-filled float raster.
func NewFloat(width, height, channels int) (*FloatRaster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: channel count %d must be 1 or 3", ErrInvalidArgument, channels)
	}
	return &FloatRaster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float64, width*height*channels),
	}, nil
}

// At returns the sample of channel c at (x, y).
func (f *FloatRaster) At(x, y, c int) float64 {
	return f.Pix[(y*f.Width+x)*f.Channels+c]
}

// Set stores v as the sample of channel c at (x, y).
func (f *FloatRaster) Set(x, y, c int, v float64) {
	f.Pix[(y*f.Width+x)*f.Channels+c] = v
}

// ToRaster converts to 8 bits by taking the absolute value of each sample,
// rounding, and saturating at 255.
func (f *FloatRaster) ToRaster() *Raster {
	out := &Raster{Width: f.Width, Height: f.Height, Channels: f.Channels, Pix: make([]uint8, len(f.Pix))}
	for i, v := range f.Pix {
		a := math.Round(math.Abs(v))
		if a > 255 {
			a = 255
		}
		out.Pix[i] = uint8(a)
	}
	return out
}

// MinMax returns the smallest and largest sample.
func (f *FloatRaster) MinMax() (lo, hi float64) {
	if len(f.Pix) == 0 {
		return 0, 0
	}
	lo, hi = f.Pix[0], f.Pix[0]
	for _, v := range f.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
