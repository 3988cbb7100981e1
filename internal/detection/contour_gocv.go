//go:build gocv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func findContours(edges *raster.Raster) ([]Contour, error) {
	mat, err := gocv.ImageGrayToMatGray(edges.Image().(*image.Gray))
	if err != nil {
		return nil, fmt.Errorf("failed to convert raster: %w", err)
	}
	defer mat.Close()

	found := gocv.FindContours(mat, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for _, pts := range found.ToPoints() {
		contours = append(contours, Contour(pts))
	}
	return contours, nil
}
