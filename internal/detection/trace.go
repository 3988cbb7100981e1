//go:build !gocv

package detection

import (
	"image"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// neighbors lists the Moore neighborhood clockwise (Y grows downward),
// starting east.
var neighbors = [8]image.Point{
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
}

const (
	dirEast = 0
	dirWest = 4
)

// labels is the working image of the border follower: 0 is background, 1 is
// an unvisited foreground pixel, and +/-n marks a pixel on border n. It
// carries a one-pixel background frame so neighbor reads never leave it.
type labels struct {
	pix    []int32
	stride int
}

func newLabels(edges *raster.Raster) labels {
	l := labels{
		pix:    make([]int32, (edges.Width+2)*(edges.Height+2)),
		stride: edges.Width + 2,
	}
	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			if edges.Pix[y*edges.Width+x] != 0 {
				l.pix[(y+1)*l.stride+x+1] = 1
			}
		}
	}
	return l
}

func (l labels) at(p image.Point) int32 {
	return l.pix[p.Y*l.stride+p.X]
}

func (l labels) set(p image.Point, v int32) {
	l.pix[p.Y*l.stride+p.X] = v
}

// findContours is Suzuki and Abe's border following. A scan that meets a 0->1
// transition starts an outer border, one that meets a 1->0 transition starts
// a hole border; each border is walked once and labeled so it is not started
// again.
func findContours(edges *raster.Raster) ([]Contour, error) {
	img := newLabels(edges)
	nbd := int32(1)

	contours := make([]Contour, 0)
	for y := 1; y <= edges.Height; y++ {
		for x := 1; x <= edges.Width; x++ {
			p := image.Pt(x, y)
			v := img.at(p)
			if v == 0 {
				continue
			}

			var from int
			switch {
			case v == 1 && img.at(p.Add(neighbors[dirWest])) == 0:
				from = dirWest
			case v >= 1 && img.at(p.Add(neighbors[dirEast])) == 0:
				from = dirEast
			default:
				continue
			}

			nbd++
			border := followBorder(img, p, from, nbd)
			for i := range border {
				border[i] = border[i].Sub(image.Pt(1, 1))
			}
			contours = append(contours, compress(border))
		}
	}
	return contours, nil
}

// followBorder walks the border through start, whose neighbor in direction
// from is background, and labels it nbd. The returned points are in frame
// coordinates.
func followBorder(img labels, start image.Point, from int, nbd int32) Contour {
	first, ok := -1, false
	for k := 0; k < 8; k++ {
		d := (from + k) % 8
		if img.at(start.Add(neighbors[d])) != 0 {
			first, ok = d, true
			break
		}
	}
	if !ok {
		// Isolated pixel
		img.set(start, -nbd)
		return Contour{start}
	}

	firstPixel := start.Add(neighbors[first])
	cur, back := start, first
	var border Contour

	for {
		border = append(border, cur)

		// Examine the neighbors counter-clockwise, starting just past the
		// pixel we came from.
		var d int
		eastClear := false
		for k := 1; k <= 8; k++ {
			d = (back - k + 8) % 8
			if img.at(cur.Add(neighbors[d])) != 0 {
				break
			}
			if d == dirEast {
				eastClear = true
			}
		}

		switch {
		case eastClear:
			img.set(cur, -nbd)
		case img.at(cur) == 1:
			img.set(cur, nbd)
		}

		next := cur.Add(neighbors[d])
		if next == start && cur == firstPixel {
			return border
		}
		back = (d + 4) % 8
		cur = next
	}
}

// compress drops every point that continues the step direction of the point
// before it, leaving only the ends of straight runs.
func compress(c Contour) Contour {
	n := len(c)
	if n < 3 {
		return c
	}

	out := make(Contour, 0, n/2+1)
	for i, p := range c {
		prev := c[(i+n-1)%n]
		next := c[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return Contour{c[0]}
	}
	return out
}
