package detection

import (
	"image"
	"testing"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// createBinaryImage returns a width x height single-channel raster with the
// given rectangles (half-open) filled with 255.
func createBinaryImage(t *testing.T, width, height int, rects ...image.Rectangle) *raster.Raster {
	t.Helper()
	r, err := raster.New(width, height, 1)
	if err != nil {
		t.Fatalf("raster.New failed: %v", err)
	}
	for _, rect := range rects {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				r.Set(x, y, 0, 255)
			}
		}
	}
	return r
}

// createTriangleImage fills the right triangle with its right angle at the
// bottom-left, legs of length size, and top vertex at (ox, oy).
func createTriangleImage(t *testing.T, width, height, ox, oy, size int) *raster.Raster {
	t.Helper()
	r := createBinaryImage(t, width, height)
	for y := 0; y < size; y++ {
		for x := 0; x <= y; x++ {
			r.Set(ox+x, oy+y, 0, 255)
		}
	}
	return r
}

// createOutlineImage draws the one pixel wide border of rect.
func createOutlineImage(t *testing.T, width, height int, rect image.Rectangle) *raster.Raster {
	t.Helper()
	r := createBinaryImage(t, width, height)
	for x := rect.Min.X; x < rect.Max.X; x++ {
		r.Set(x, rect.Min.Y, 0, 255)
		r.Set(x, rect.Max.Y-1, 0, 255)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		r.Set(rect.Min.X, y, 0, 255)
		r.Set(rect.Max.X-1, y, 0, 255)
	}
	return r
}

func equalContour(a, b Contour) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsAll(c Contour, pts ...image.Point) bool {
	for _, p := range pts {
		found := false
		for _, q := range c {
			if p == q {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
