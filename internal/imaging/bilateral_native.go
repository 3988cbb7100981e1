//go:build !gocv

package imaging

import (
	"math"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func bilateral(r *raster.Raster, opts BilateralOptions) (*raster.Raster, error) {
	offsets, space, color := bilateralWeights(opts, r.Channels)
	out, _ := raster.New(r.Width, r.Height, r.Channels)
	sums := make([]float64, r.Channels)

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			center := r.Offset(x, y)
			for c := range sums {
				sums[c] = 0
			}
			var wsum float64

			for k, off := range offsets {
				px := reflect101(x+off[0], r.Width)
				py := reflect101(y+off[1], r.Height)
				o := r.Offset(px, py)

				diff := 0
				for c := 0; c < r.Channels; c++ {
					d := int(r.Pix[o+c]) - int(r.Pix[center+c])
					if d < 0 {
						d = -d
					}
					diff += d
				}
				w := space[k] * color[diff]
				for c := 0; c < r.Channels; c++ {
					sums[c] += w * float64(r.Pix[o+c])
				}
				wsum += w
			}

			for c := 0; c < r.Channels; c++ {
				out.Pix[center+c] = uint8(clamp(int(math.Round(sums[c]/wsum)), 0, 255))
			}
		}
	}
	return out, nil
}
