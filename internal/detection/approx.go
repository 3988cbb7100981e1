//go:build !gocv

package detection

import (
	"image"
	"math"
)

// ApproxPolygon simplifies the closed contour c with the Douglas-Peucker
// algorithm. Every dropped point lies within epsilon pixels of the
// simplified outline.
//
// The curve is first split at two mutually distant points: the point
// farthest from c[0], and the point farthest from that one. Each half is then
// simplified as an open polyline and the halves are joined.
func ApproxPolygon(c Contour, epsilon float64) Contour {
	n := len(c)
	if n < 3 {
		return c.Clone()
	}

	a := farthestFrom(c, c[0])
	b := farthestFrom(c, c[a])
	if a == b {
		return Contour{c[a]}
	}

	first := simplify(arc(c, a, b), epsilon)
	second := simplify(arc(c, b, a), epsilon)

	out := make(Contour, 0, len(first)+len(second))
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

// approxClosed approximates c with a tolerance of ratio times its perimeter.
func approxClosed(c Contour, ratio float64) Contour {
	return ApproxPolygon(c, ratio*c.Perimeter())
}

// farthestFrom returns the index of the point of c farthest from p. Ties go
// to the earliest index.
func farthestFrom(c Contour, p image.Point) int {
	best, bestDist := 0, -1.0
	for i, q := range c {
		if d := dist(p, q); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// arc returns the points of the closed contour from index i to index j
// inclusive, walking forward and wrapping at the end.
func arc(c Contour, i, j int) []image.Point {
	n := len(c)
	length := (j-i+n)%n + 1
	out := make([]image.Point, length)
	for k := range out {
		out[k] = c[(i+k)%n]
	}
	return out
}

// simplify runs Douglas-Peucker over an open polyline and returns the kept
// points in order. Both end points are always kept.
func simplify(pts []image.Point, epsilon float64) []image.Point {
	if len(pts) < 3 {
		return pts
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}

		idx, maxDist := -1, 0.0
		for i := s.lo + 1; i < s.hi; i++ {
			if d := segmentDistance(pts[i], pts[s.lo], pts[s.hi]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if idx >= 0 && maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
		}
	}

	out := make([]image.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return dist(p, a)
	}

	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	px := float64(a.X) + t*dx
	py := float64(a.Y) + t*dy
	return math.Hypot(float64(p.X)-px, float64(p.Y)-py)
}
