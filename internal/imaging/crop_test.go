package imaging

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func TestCrop(t *testing.T) {
	src := patternRaster(t, 20, 15)

	out, err := Crop(src, 4, 12, 3, 10)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if out.Width != 8 || out.Height != 7 {
		t.Fatalf("dimensions: got %dx%d, want 8x7", out.Width, out.Height)
	}

	for j := 0; j < out.Height; j++ {
		for i := 0; i < out.Width; i++ {
			if !samePixel(out, i, j, src, 4+i, 3+j) {
				t.Fatalf("out(%d,%d) = %v, want src(%d,%d) = %v", i, j, out.Color(i, j), 4+i, 3+j, src.Color(4+i, 3+j))
			}
		}
	}
}

func TestCrop_Grayscale(t *testing.T) {
	src := newFilled(t, 10, 10, 1, 0)
	src.Set(5, 5, 0, 200)

	out, err := Crop(src, 5, 10, 5, 10)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if out.Channels != 1 {
		t.Fatalf("channels: got %d, want 1", out.Channels)
	}
	if out.At(0, 0, 0) != 200 {
		t.Errorf("sample: got %d, want 200", out.At(0, 0, 0))
	}
}

func TestCrop_FullImage(t *testing.T) {
	src := patternRaster(t, 30, 20)

	out, err := Crop(src, 0, 30, 0, 20)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("full-extent crop differs from input")
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	src := patternRaster(t, 100, 100)
	before := src.Clone()

	tests := []struct {
		name                     string
		left, right, top, bottom int
	}{
		{"left negative", -1, 50, 0, 50},
		{"top negative", 0, 50, -1, 50},
		{"right too large", 0, 101, 0, 50},
		{"bottom too large", 0, 50, 0, 101},
		{"all out of bounds", -1, 200, -1, 200},
		{"empty width", 20, 20, 0, 50},
		{"inverted width", 30, 20, 0, 50},
		{"empty height", 0, 50, 40, 40},
		{"inverted height", 0, 50, 60, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Crop(src, tt.left, tt.right, tt.top, tt.bottom)
			if !errors.Is(err, raster.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
			if out != nil {
				t.Error("Crop should return nil raster on error")
			}
		})
	}

	if !src.Equal(before) {
		t.Error("failed crops modified the input")
	}
}

func TestCrop_InvalidRaster(t *testing.T) {
	bad := &raster.Raster{Width: 4, Height: 4, Channels: 3, Pix: make([]uint8, 5)}
	if _, err := Crop(bad, 0, 2, 0, 2); !errors.Is(err, raster.ErrInvalidType) {
		t.Errorf("got %v, want ErrInvalidType", err)
	}
}

func TestCropRect(t *testing.T) {
	src := patternRaster(t, 10, 10)

	out, err := CropRect(src, image.Rect(2, 3, 6, 9))
	if err != nil {
		t.Fatalf("CropRect failed: %v", err)
	}
	if out.Width != 4 || out.Height != 6 {
		t.Errorf("dimensions: got %dx%d, want 4x6", out.Width, out.Height)
	}
	if !samePixel(out, 0, 0, src, 2, 3) {
		t.Errorf("origin: got %v, want %v", out.Color(0, 0), src.Color(2, 3))
	}
}

func TestRegionRect(t *testing.T) {
	tests := []struct {
		name string
		want image.Rectangle
	}{
		{"top-left", image.Rect(0, 0, 50, 40)},
		{"top-right", image.Rect(50, 0, 100, 40)},
		{"bottom-left", image.Rect(0, 40, 50, 80)},
		{"bottom-right", image.Rect(50, 40, 100, 80)},
		{"top-half", image.Rect(0, 0, 100, 40)},
		{"bottom-half", image.Rect(0, 40, 100, 80)},
		{"left-half", image.Rect(0, 0, 50, 80)},
		{"right-half", image.Rect(50, 0, 100, 80)},
		{"center", image.Rect(25, 20, 75, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegionRect(tt.name, 100, 80)
			if err != nil {
				t.Fatalf("RegionRect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCropRegion_OddDimensions(t *testing.T) {
	src := patternRaster(t, 101, 77)

	left, err := CropRegion(src, "left-half")
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	right, err := CropRegion(src, "right-half")
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}

	// The halves cover the full width without overlap
	if left.Width+right.Width != 101 {
		t.Errorf("half widths %d + %d, want 101", left.Width, right.Width)
	}
}

func TestCropRegion_InvalidRegion(t *testing.T) {
	src := patternRaster(t, 10, 10)

	for _, region := range []string{"invalid", "", "TOP-LEFT"} {
		if _, err := CropRegion(src, region); !errors.Is(err, raster.ErrInvalidArgument) {
			t.Errorf("CropRegion(%q): got %v, want ErrInvalidArgument", region, err)
		}
	}
}
