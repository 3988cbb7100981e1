//go:build gocv

package detection

import (
	"gocv.io/x/gocv"
)

// ApproxPolygon simplifies the closed contour c with OpenCV's approxPolyDP.
// Every dropped point lies within epsilon pixels of the simplified outline.
func ApproxPolygon(c Contour, epsilon float64) Contour {
	if len(c) < 3 {
		return c.Clone()
	}
	curve := gocv.NewPointVectorFromPoints(c)
	defer curve.Close()

	approx := gocv.ApproxPolyDP(curve, epsilon, true)
	defer approx.Close()
	return Contour(approx.ToPoints())
}

// approxClosed approximates c with a tolerance of ratio times its arc length.
func approxClosed(c Contour, ratio float64) Contour {
	if len(c) < 3 {
		return c.Clone()
	}
	curve := gocv.NewPointVectorFromPoints(c)
	defer curve.Close()

	approx := gocv.ApproxPolyDP(curve, ratio*gocv.ArcLength(curve, true), true)
	defer approx.Close()
	return Contour(approx.ToPoints())
}
