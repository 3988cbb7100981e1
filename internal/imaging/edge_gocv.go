//go:build gocv

package imaging

import (
	"gocv.io/x/gocv"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func canny(gray *raster.Raster, low, high float64) (*raster.Raster, error) {
	src, err := toMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Canny(src, &dst, float32(low), float32(high))
	return fromMat(dst, gray)
}
