//go:build !gocv

package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func TestFindContours_FilledSquare(t *testing.T) {
	img := createBinaryImage(t, 10, 10, image.Rect(2, 3, 6, 7))

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	// Outer borders start at the top-left pixel and run down the left side
	want := Contour{{2, 3}, {2, 6}, {5, 6}, {5, 3}}
	if !equalContour(contours[0], want) {
		t.Errorf("contour: got %v, want %v", contours[0], want)
	}
	if got := contours[0].Area(); got != 9 {
		t.Errorf("area: got %v, want 9", got)
	}
	if got := contours[0].Perimeter(); got != 12 {
		t.Errorf("perimeter: got %v, want 12", got)
	}
}

func TestFindContours_MultipleComponents(t *testing.T) {
	img := createBinaryImage(t, 30, 20,
		image.Rect(15, 2, 20, 6),
		image.Rect(2, 10, 12, 18),
	)

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}

	// Raster order of the first pixel of each component
	if contours[0][0] != image.Pt(15, 2) {
		t.Errorf("first contour starts at %v, want (15,2)", contours[0][0])
	}
	if contours[1][0] != image.Pt(2, 10) {
		t.Errorf("second contour starts at %v, want (2,10)", contours[1][0])
	}
}

func TestFindContours_RingReportsOuterAndHoleBorders(t *testing.T) {
	img := createOutlineImage(t, 20, 20, image.Rect(3, 3, 15, 15))

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}

	outer := Contour{{3, 3}, {3, 14}, {14, 14}, {14, 3}}
	if !equalContour(contours[0], outer) {
		t.Errorf("outer border: got %v, want %v", contours[0], outer)
	}

	// The hole border runs through the ring pixels 8-adjacent to the hole,
	// so it skips the four corners.
	hole := Contour{{3, 4}, {4, 3}, {13, 3}, {14, 4}, {14, 13}, {13, 14}, {4, 14}, {3, 13}}
	if !equalContour(contours[1], hole) {
		t.Errorf("hole border: got %v, want %v", contours[1], hole)
	}
	if got := contours[1].Area(); got != 119 {
		t.Errorf("hole area: got %v, want 119", got)
	}
}

func TestFindContours_BlockWithTwoHoles(t *testing.T) {
	img := createBinaryImage(t, 20, 12, image.Rect(2, 2, 18, 10))
	for _, hole := range []image.Rectangle{image.Rect(4, 4, 7, 8), image.Rect(10, 4, 15, 8)} {
		for y := hole.Min.Y; y < hole.Max.Y; y++ {
			for x := hole.Min.X; x < hole.Max.X; x++ {
				img.Set(x, y, 0, 0)
			}
		}
	}

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 3 {
		t.Fatalf("got %d contours, want 3", len(contours))
	}

	wantArea := []float64{105, 18, 28}
	wantStart := []image.Point{{2, 2}, {3, 4}, {9, 4}}
	for i, c := range contours {
		if got := c.Area(); got != wantArea[i] {
			t.Errorf("contour %d area: got %v, want %v", i, got, wantArea[i])
		}
		if c[0] != wantStart[i] {
			t.Errorf("contour %d starts at %v, want %v", i, c[0], wantStart[i])
		}
	}
}

func TestFindContours_DegenerateShapes(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		want Contour
	}{
		{"single pixel", image.Rect(4, 4, 5, 5), Contour{{4, 4}}},
		{"horizontal line", image.Rect(1, 2, 6, 3), Contour{{1, 2}, {5, 2}}},
		{"vertical line", image.Rect(3, 1, 4, 5), Contour{{3, 1}, {3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours, err := FindContours(createBinaryImage(t, 8, 8, tt.rect))
			if err != nil {
				t.Fatalf("FindContours failed: %v", err)
			}
			if len(contours) != 1 {
				t.Fatalf("got %d contours, want 1", len(contours))
			}
			if !equalContour(contours[0], tt.want) {
				t.Errorf("contour: got %v, want %v", contours[0], tt.want)
			}
			if contours[0].Area() != 0 {
				t.Errorf("area: got %v, want 0", contours[0].Area())
			}
		})
	}
}

func TestFindContours_Triangle(t *testing.T) {
	contours, err := FindContours(createTriangleImage(t, 40, 40, 5, 5, 30))
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := Contour{{5, 5}, {5, 34}, {34, 34}}
	if !equalContour(contours[0], want) {
		t.Errorf("contour: got %v, want %v", contours[0], want)
	}
}

func TestFindContours_TouchingImageBorder(t *testing.T) {
	contours, err := FindContours(createBinaryImage(t, 6, 4, image.Rect(0, 0, 6, 4)))
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := Contour{{0, 0}, {0, 3}, {5, 3}, {5, 0}}
	if !equalContour(contours[0], want) {
		t.Errorf("contour: got %v, want %v", contours[0], want)
	}
}

func TestFindContours_Empty(t *testing.T) {
	contours, err := FindContours(createBinaryImage(t, 5, 5))
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 0 {
		t.Errorf("got %d contours, want 0", len(contours))
	}
}

func TestFindContours_Invalid(t *testing.T) {
	rgb, _ := raster.New(4, 4, 3)
	if _, err := FindContours(rgb); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("RGB input: got %v, want ErrInvalidArgument", err)
	}
	if _, err := FindContours(nil); !errors.Is(err, raster.ErrInvalidType) {
		t.Errorf("nil input: got %v, want ErrInvalidType", err)
	}
}
