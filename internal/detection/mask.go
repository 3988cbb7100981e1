package detection

import (
	"fmt"
	"image"

	"golang.org/x/image/vector"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// coverageCutoff is the minimum antialiased coverage for a pixel to count as
// inside the polygon.
const coverageCutoff = 0x80

// Mask returns a width x height single-channel raster that is 255 inside and
// on the boundary of polygon and 0 elsewhere. Every vertex must lie inside
// the raster.
func Mask(width, height int, polygon Contour) (*raster.Raster, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("%w: mask polygon needs at least 3 vertices, got %d", raster.ErrInvalidArgument, len(polygon))
	}
	mask, err := raster.New(width, height, 1)
	if err != nil {
		return nil, err
	}
	for _, p := range polygon {
		if !p.In(mask.Bounds()) {
			return nil, fmt.Errorf("%w: mask vertex %v lies outside %dx%d", raster.ErrInvalidArgument, p, width, height)
		}
	}

	// Contour points address pixel centers.
	z := vector.NewRasterizer(width, height)
	z.MoveTo(float32(polygon[0].X)+0.5, float32(polygon[0].Y)+0.5)
	for _, p := range polygon[1:] {
		z.LineTo(float32(p.X)+0.5, float32(p.Y)+0.5)
	}
	z.ClosePath()

	coverage := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})
	for i, a := range coverage.Pix {
		if a >= coverageCutoff {
			mask.Pix[i] = 255
		}
	}

	for i, p := range polygon {
		drawLine(mask, p, polygon[(i+1)%len(polygon)], 255)
	}
	return mask, nil
}

// drawLine sets every pixel of the Bresenham line a-b to v. Pixels outside r
// are skipped.
func drawLine(r *raster.Raster, a, b image.Point, v uint8) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		if x >= 0 && y >= 0 && x < r.Width && y < r.Height {
			r.Set(x, y, 0, v)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyMask returns a copy of src in which every pixel whose mask sample is 0
// is set to 0 in all channels. mask must be single-channel and the same size
// as src.
func ApplyMask(src, mask *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	if !mask.IsGray() {
		return nil, fmt.Errorf("%w: mask must be single-channel, got %d channels", raster.ErrInvalidArgument, mask.Channels)
	}
	if mask.Width != src.Width || mask.Height != src.Height {
		return nil, fmt.Errorf("%w: mask size %dx%d does not match image size %dx%d",
			raster.ErrInvalidArgument, mask.Width, mask.Height, src.Width, src.Height)
	}

	out := src.Clone()
	for i, m := range mask.Pix {
		if m != 0 {
			continue
		}
		o := i * out.Channels
		for c := 0; c < out.Channels; c++ {
			out.Pix[o+c] = 0
		}
	}
	return out, nil
}
