//go:build !gocv

package imaging

import (
	"math"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func canny(gray *raster.Raster, low, high float64) (*raster.Raster, error) {
	width, height := gray.Width, gray.Height
	gradX := convolveFloat(gray, sobelXKernel)
	gradY := convolveFloat(gray, sobelYKernel)

	magnitude := make([]float64, width*height)
	for i := range magnitude {
		gx, gy := gradX.Pix[i], gradY.Pix[i]
		magnitude[i] = math.Abs(gx) + math.Abs(gy)
	}

	suppressed := suppressNonMaxima(magnitude, gradX.Pix, gradY.Pix, width, height)

	out, _ := raster.New(width, height, 1)
	hysteresis(out.Pix, suppressed, width, height, low, high)
	return out, nil
}

// suppressNonMaxima thins the magnitude map to ridges along the gradient
// direction. Border pixels are always suppressed.
func suppressNonMaxima(mag, gx, gy []float64, width, height int) []float64 {
	out := make([]float64, len(mag))
	at := func(x, y int) float64 { return mag[y*width+x] }

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			m := mag[i]
			if m == 0 {
				continue
			}

			// Fold the direction into [0, 180) degrees; Y grows downward.
			angle := math.Atan2(gy[i], gx[i]) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}

			var n1, n2 float64
			switch {
			case angle < 22.5 || angle >= 157.5:
				n1, n2 = at(x-1, y), at(x+1, y)
			case angle < 67.5:
				n1, n2 = at(x+1, y+1), at(x-1, y-1)
			case angle < 112.5:
				n1, n2 = at(x, y-1), at(x, y+1)
			default:
				n1, n2 = at(x-1, y+1), at(x+1, y-1)
			}

			if m >= n1 && m >= n2 {
				out[i] = m
			}
		}
	}
	return out
}

// hysteresis marks strong pixels and grows them through connected weak pixels.
func hysteresis(dst []uint8, suppressed []float64, width, height int, low, high float64) {
	stack := make([]int, 0, 64)
	for i, v := range suppressed {
		if v > 0 && v >= high && dst[i] == 0 {
			dst[i] = 255
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if dst[j] == 0 && suppressed[j] > 0 && suppressed[j] >= low {
					dst[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
}
