package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func TestMask_Rectangle(t *testing.T) {
	poly := Contour{{2, 3}, {12, 3}, {12, 9}, {2, 9}}

	mask, err := Mask(16, 12, poly)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if mask.Channels != 1 || mask.Width != 16 || mask.Height != 12 {
		t.Fatalf("shape: got %dx%dx%d, want 16x12x1", mask.Width, mask.Height, mask.Channels)
	}

	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			inside := x >= 2 && x <= 12 && y >= 3 && y <= 9
			want := uint8(0)
			if inside {
				want = 255
			}
			if got := mask.At(x, y, 0); got != want {
				t.Fatalf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestMask_QuadrilateralIsBinary(t *testing.T) {
	poly := Contour{{10, 2}, {28, 8}, {20, 27}, {3, 18}}

	mask, err := Mask(32, 32, poly)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	for i, v := range mask.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("Pix[%d] = %d, want 0 or 255", i, v)
		}
	}

	for _, p := range poly {
		if mask.At(p.X, p.Y, 0) != 255 {
			t.Errorf("vertex %v not covered", p)
		}
	}
	if mask.At(15, 15, 0) != 255 {
		t.Error("interior point (15,15) not covered")
	}
	for _, p := range []image.Point{{0, 0}, {31, 0}, {31, 31}, {0, 31}} {
		if mask.At(p.X, p.Y, 0) != 0 {
			t.Errorf("corner %v covered", p)
		}
	}
}

func TestMask_Invalid(t *testing.T) {
	if _, err := Mask(10, 10, Contour{{1, 1}, {5, 5}}); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("two vertices: got %v, want ErrInvalidArgument", err)
	}
	if _, err := Mask(0, 10, Contour{{1, 1}, {5, 5}, {1, 5}}); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("zero width: got %v, want ErrInvalidArgument", err)
	}
	if _, err := Mask(10, 10, Contour{{-5, -5}, {20, -5}, {20, 20}}); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("vertex outside: got %v, want ErrInvalidArgument", err)
	}
}

func TestApplyMask(t *testing.T) {
	src, _ := raster.New(4, 4, 3)
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	mask, _ := raster.New(4, 4, 1)
	mask.Set(1, 1, 0, 255)
	mask.Set(2, 1, 0, 255)

	out, err := ApplyMask(src, mask)
	if err != nil {
		t.Fatalf("ApplyMask failed: %v", err)
	}
	if out.Channels != 3 {
		t.Fatalf("channels: got %d, want 3", out.Channels)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if y == 1 && (x == 1 || x == 2) {
				want = 200
			}
			for c := 0; c < 3; c++ {
				if got := out.At(x, y, c); got != want {
					t.Fatalf("(%d,%d,%d): got %d, want %d", x, y, c, got, want)
				}
			}
		}
	}

	if src.At(0, 0, 0) != 200 {
		t.Error("ApplyMask modified its input")
	}
}

func TestApplyMask_Invalid(t *testing.T) {
	src, _ := raster.New(4, 4, 3)
	small, _ := raster.New(3, 4, 1)
	color, _ := raster.New(4, 4, 3)

	if _, err := ApplyMask(src, small); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("size mismatch: got %v, want ErrInvalidArgument", err)
	}
	if _, err := ApplyMask(src, color); !errors.Is(err, raster.ErrInvalidArgument) {
		t.Errorf("color mask: got %v, want ErrInvalidArgument", err)
	}
	if _, err := ApplyMask(nil, small); !errors.Is(err, raster.ErrInvalidType) {
		t.Errorf("nil source: got %v, want ErrInvalidType", err)
	}
}
