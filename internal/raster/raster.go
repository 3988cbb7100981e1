package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidType is returned when an operation receives a nil raster or
	// one whose dimensions do not match its sample buffer.
	ErrInvalidType = errors.New("invalid raster")

	// ErrInvalidArgument is returned for out-of-range or non-finite parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a path does not resolve to a decodable image.
	ErrNotFound = errors.New("image not found")
)

// Raster is a 2-D (grayscale) or 3-D (RGB, channel-last) grid of 8-bit samples.
type Raster struct {
	// Width is the number of columns in pixels.
	Width int `json:"width"`

	// Height is the number of rows in pixels.
	Height int `json:"height"`

	// Channels is 1 for grayscale and 3 for RGB.
	Channels int `json:"channels"`

	// Pix holds Width*Height*Channels samples in row-major, channel-last order.
	Pix []uint8 `json:"-"`
}

// New allocates a zero-filled raster.
//
// Returns ErrInvalidArgument if either dimension is not positive or channels
// is not 1 or 3.
func New(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: channel count %d must be 1 or 3", ErrInvalidArgument, channels)
	}
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Validate reports whether r is usable as an operation input.
//
// A nil receiver is allowed and reported as ErrInvalidType.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: raster is nil", ErrInvalidType)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidType, r.Width, r.Height)
	}
	if r.Channels != 1 && r.Channels != 3 {
		return fmt.Errorf("%w: channel count %d must be 1 or 3", ErrInvalidType, r.Channels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("%w: buffer holds %d samples, want %d", ErrInvalidType, len(r.Pix), r.Width*r.Height*r.Channels)
	}
	return nil
}

// Offset returns the index in Pix of channel 0 of pixel (x, y).
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

// At returns the sample of channel c at (x, y). No bounds checking is performed.
func (r *Raster) At(x, y, c int) uint8 {
	return r.Pix[r.Offset(x, y)+c]
}

// Set stores v as the sample of channel c at (x, y). No bounds checking is performed.
func (r *Raster) Set(x, y, c int, v uint8) {
	r.Pix[r.Offset(x, y)+c] = v
}

// Bounds returns the raster extent as an image rectangle anchored at (0, 0).
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// IsGray reports whether the raster has a single channel.
func (r *Raster) IsGray() bool {
	return r.Channels == 1
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels, Pix: pix}
}

// Equal reports whether two rasters have the same shape and samples.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Width != o.Width || r.Height != o.Height || r.Channels != o.Channels {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// FromImage converts any image.Image into a raster.
//
// Grayscale images (*image.Gray) become single-channel rasters; every other
// type becomes a 3-channel RGB raster with alpha discarded.
func FromImage(img image.Image) *Raster {
	if g, ok := img.(*image.Gray); ok {
		return fromGray(g)
	}
	return FromImageAs(img, 3)
}

// FromImageAs converts img into a raster with the requested channel count.
//
// With channels == 1 the red channel is kept, which is exact for images whose
// channels are replicated (the output of grayscale filters run on RGBA
// buffers). Use imaging.Grayscale first for true luma conversion.
func FromImageAs(img image.Image, channels int) *Raster {
	if g, ok := img.(*image.Gray); ok && channels == 1 {
		return fromGray(g)
	}

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := &Raster{Width: w, Height: h, Channels: channels, Pix: make([]uint8, w*h*channels)}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			o := (y*w + x) * channels
			if channels == 1 {
				out.Pix[o] = row[x*4]
				continue
			}
			out.Pix[o] = row[x*4]
			out.Pix[o+1] = row[x*4+1]
			out.Pix[o+2] = row[x*4+2]
		}
	}
	return out
}

func fromGray(g *image.Gray) *Raster {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Raster{Width: w, Height: h, Channels: 1, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		start := (y+b.Min.Y-g.Rect.Min.Y)*g.Stride + (b.Min.X - g.Rect.Min.X)
		copy(out.Pix[y*w:(y+1)*w], g.Pix[start:start+w])
	}
	return out
}

// Image returns an image.Image view of a copy of the raster: *image.Gray for
// single-channel rasters and opaque *image.NRGBA for RGB rasters.
func (r *Raster) Image() image.Image {
	if r.Channels == 1 {
		g := image.NewGray(r.Bounds())
		copy(g.Pix, r.Pix)
		return g
	}
	return r.NRGBA()
}

// NRGBA returns an opaque *image.NRGBA copy. Gray samples are replicated into
// all three color channels.
func (r *Raster) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	r.fill(dst.Pix)
	return dst
}

// RGBA returns an opaque *image.RGBA copy. Gray samples are replicated into
// all three color channels.
func (r *Raster) RGBA() *image.RGBA {
	dst := image.NewRGBA(r.Bounds())
	r.fill(dst.Pix)
	return dst
}

// fill writes the raster into a tightly packed 4-byte-per-pixel buffer with
// full alpha. Opaque pixels are identical in premultiplied and straight form.
func (r *Raster) fill(pix []uint8) {
	n := r.Width * r.Height
	for i := 0; i < n; i++ {
		s := i * r.Channels
		d := i * 4
		if r.Channels == 1 {
			v := r.Pix[s]
			pix[d], pix[d+1], pix[d+2] = v, v, v
		} else {
			pix[d], pix[d+1], pix[d+2] = r.Pix[s], r.Pix[s+1], r.Pix[s+2]
		}
		pix[d+3] = 0xff
	}
}

// Color returns the color of pixel (x, y) as an opaque color.NRGBA.
func (r *Raster) Color(x, y int) color.NRGBA {
	o := r.Offset(x, y)
	if r.Channels == 1 {
		v := r.Pix[o]
		return color.NRGBA{R: v, G: v, B: v, A: 0xff}
	}
	return color.NRGBA{R: r.Pix[o], G: r.Pix[o+1], B: r.Pix[o+2], A: 0xff}
}
