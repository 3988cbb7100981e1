package detection

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/ironsheep/vision-tools/internal/imaging"
	"github.com/ironsheep/vision-tools/internal/raster"
)

func nearestDistance(p image.Point, pts []image.Point) float64 {
	best := math.Inf(1)
	for _, q := range pts {
		best = math.Min(best, dist(p, q))
	}
	return best
}

func TestLocateCandidate_SyntheticPlate(t *testing.T) {
	// Bright plate on a black background
	src := createBinaryImage(t, 100, 100, image.Rect(20, 30, 80, 70))

	edges, err := imaging.Canny(src, 170, 200)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}

	cand, contours, err := LocateCandidate(edges, CandidateOptions{})
	if err != nil {
		t.Fatalf("LocateCandidate failed: %v", err)
	}
	if len(contours) == 0 {
		t.Fatal("no contours traced")
	}
	if len(cand.Polygon) != 4 {
		t.Fatalf("polygon has %d vertices, want 4", len(cand.Polygon))
	}
	if cand.Rank != 0 {
		t.Errorf("rank: got %d, want 0", cand.Rank)
	}

	corners := []image.Point{{20, 30}, {79, 30}, {79, 69}, {20, 69}}
	for _, c := range corners {
		if d := nearestDistance(c, cand.Polygon); d > 3 {
			t.Errorf("corner %v: nearest vertex %.1fpx away (polygon %v)", c, d, cand.Polygon)
		}
	}

	mask, err := Mask(edges.Width, edges.Height, cand.Polygon)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			inside := x >= 22 && x <= 77 && y >= 32 && y <= 67
			outside := x <= 16 || x >= 83 || y <= 26 || y >= 73
			v := mask.At(x, y, 0)
			if inside && v != 255 {
				t.Fatalf("mask (%d,%d) = %d, want 255", x, y, v)
			}
			if outside && v != 0 {
				t.Fatalf("mask (%d,%d) = %d, want 0", x, y, v)
			}
		}
	}
}

func TestLocateCandidate_SkewedQuadrilateral(t *testing.T) {
	corners := Contour{{15, 25}, {85, 35}, {80, 75}, {20, 65}}
	plate, err := Mask(100, 100, corners)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}

	// Straight from the filled region, then through edge detection
	edges, err := imaging.Canny(plate, 170, 200)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	for _, tt := range []struct {
		name      string
		img       *raster.Raster
		tolerance float64
	}{
		{"filled", plate, 2},
		{"edges", edges, 3},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cand, _, err := LocateCandidate(tt.img, CandidateOptions{})
			if err != nil {
				t.Fatalf("LocateCandidate failed: %v", err)
			}
			if len(cand.Polygon) != 4 {
				t.Fatalf("polygon has %d vertices, want 4", len(cand.Polygon))
			}
			for _, c := range corners {
				if d := nearestDistance(c, cand.Polygon); d > tt.tolerance {
					t.Errorf("corner %v: nearest vertex %.1fpx away (polygon %v)", c, d, cand.Polygon)
				}
			}
		})
	}
}

func TestLocateCandidate_HoleOfFrameTouchingOtherEdges(t *testing.T) {
	// One pixel plate frame with an edge running from its corner to the
	// image border. The outer border picks up the spur; the hole inside the
	// frame is still a clean quadrilateral.
	img := createOutlineImage(t, 100, 100, image.Rect(20, 30, 80, 70))
	for x := 0; x < 20; x++ {
		img.Set(x, 30, 0, 255)
	}

	cand, contours, err := LocateCandidate(img, CandidateOptions{})
	if err != nil {
		t.Fatalf("LocateCandidate failed: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want the outer and the hole border", len(contours))
	}
	if cand.Rank != 1 {
		t.Errorf("rank: got %d, want 1 (the spur keeps the outer border from qualifying)", cand.Rank)
	}
	if len(cand.Polygon) != 4 {
		t.Fatalf("polygon has %d vertices, want 4", len(cand.Polygon))
	}
	for _, c := range []image.Point{{20, 30}, {79, 30}, {79, 69}, {20, 69}} {
		if d := nearestDistance(c, cand.Polygon); d > 2 {
			t.Errorf("corner %v: nearest vertex %.1fpx away (polygon %v)", c, d, cand.Polygon)
		}
	}
}

func TestSelectCandidate_SkipsNonQuadrilaterals(t *testing.T) {
	img := createTriangleImage(t, 80, 50, 2, 2, 30)
	for y := 10; y < 20; y++ {
		for x := 50; x < 70; x++ {
			img.Set(x, y, 0, 255)
		}
	}

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}

	cand, err := SelectCandidate(contours, CandidateOptions{})
	if err != nil {
		t.Fatalf("SelectCandidate failed: %v", err)
	}
	if cand.Rank != 1 {
		t.Errorf("rank: got %d, want 1 (the triangle is larger)", cand.Rank)
	}
	want := []image.Point{{50, 10}, {69, 10}, {69, 19}, {50, 19}}
	if !containsAll(cand.Polygon, want...) {
		t.Errorf("polygon: got %v, want corners %v", cand.Polygon, want)
	}
	if cand.Area != 171 {
		t.Errorf("area: got %v, want 171", cand.Area)
	}

	// Only the triangle is examined
	_, err = SelectCandidate(contours, CandidateOptions{MaxCandidates: 1})
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("MaxCandidates=1: got %v, want ErrNoCandidate", err)
	}
}

func TestSelectCandidate_NoContours(t *testing.T) {
	if _, err := SelectCandidate(nil, CandidateOptions{}); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("got %v, want ErrNoCandidate", err)
	}
}

func TestLocateCandidate_BlankImage(t *testing.T) {
	edges := createBinaryImage(t, 20, 20)
	cand, contours, err := LocateCandidate(edges, CandidateOptions{})
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("got %v, want ErrNoCandidate", err)
	}
	if cand != nil || len(contours) != 0 {
		t.Errorf("blank image: got candidate %v and %d contours", cand, len(contours))
	}
}

func TestCandidateOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    CandidateOptions
		wantErr bool
	}{
		{"defaults", CandidateOptions{}, false},
		{"explicit", CandidateOptions{MaxCandidates: 10, EpsilonRatio: 0.05, Vertices: 4}, false},
		{"negative max", CandidateOptions{MaxCandidates: -1}, true},
		{"negative epsilon", CandidateOptions{EpsilonRatio: -0.1}, true},
		{"NaN epsilon", CandidateOptions{EpsilonRatio: math.NaN()}, true},
		{"two vertices", CandidateOptions{Vertices: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && !errors.Is(err, raster.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
