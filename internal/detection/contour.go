package detection

import (
	"fmt"
	"sort"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// FindContours returns every border of edges: the outer border of each
// 8-connected foreground component and the border of each hole inside one.
// Contours come out in the raster-scan order of their starting pixels.
//
// edges must be single-channel; any non-zero sample is foreground. Straight
// horizontal, vertical and diagonal runs are reduced to their end points.
func FindContours(edges *raster.Raster) ([]Contour, error) {
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	if !edges.IsGray() {
		return nil, fmt.Errorf("%w: contour extraction needs a single-channel raster, got %d channels",
			raster.ErrInvalidArgument, edges.Channels)
	}
	return findContours(edges)
}

// RankByArea returns the contours ordered by enclosed area, largest first.
// Contours with equal area keep their input order. The input is not modified.
func RankByArea(contours []Contour) []Contour {
	type scored struct {
		contour Contour
		area    float64
	}

	list := make([]scored, len(contours))
	for i, c := range contours {
		list[i] = scored{contour: c, area: c.Area()}
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].area > list[b].area
	})

	out := make([]Contour, len(list))
	for i, s := range list {
		out[i] = s.contour
	}
	return out
}
