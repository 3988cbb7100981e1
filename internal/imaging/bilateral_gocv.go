//go:build gocv

package imaging

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func bilateral(r *raster.Raster, opts BilateralOptions) (*raster.Raster, error) {
	src, err := toMat(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.BilateralFilter(src, &dst, opts.Diameter, opts.SigmaColor, opts.SigmaSpace)
	return fromMat(dst, r)
}

// toMat copies r into an 8-bit Mat with the same channel count.
func toMat(r *raster.Raster) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC1
	if r.Channels == 3 {
		mt = gocv.MatTypeCV8UC3
	}
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	mat, err := gocv.NewMatFromBytes(r.Height, r.Width, mt, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert raster: %w", err)
	}
	return mat, nil
}

// fromMat copies an 8-bit Mat shaped like like back into a raster.
func fromMat(m gocv.Mat, like *raster.Raster) (*raster.Raster, error) {
	out, err := raster.New(like.Width, like.Height, m.Channels())
	if err != nil {
		return nil, err
	}
	data := m.ToBytes()
	if len(data) != len(out.Pix) {
		return nil, fmt.Errorf("unexpected mat size %d, want %d", len(data), len(out.Pix))
	}
	copy(out.Pix, data)
	return out, nil
}
