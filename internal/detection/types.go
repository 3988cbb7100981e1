package detection

import (
	"image"
	"math"
)

// TextDetection is one recognized word or line.
type TextDetection struct {
	// Box is the bounding box in the coordinate space of the image that was
	// handed to the recognizer.
	Box image.Rectangle `json:"box"`

	// Text is the recognized string, never empty.
	Text string `json:"text"`

	// Confidence is the recognizer confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Translate returns d with its box shifted by off.
func (d TextDetection) Translate(off image.Point) TextDetection {
	d.Box = d.Box.Add(off)
	return d
}

// Contour is a closed boundary given as an ordered list of pixel positions.
// The last point connects back to the first.
type Contour []image.Point

// Area returns the area enclosed by c using the shoelace formula.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum int
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the length of the closed polyline through c.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	var total float64
	for i, p := range c {
		total += dist(p, c[(i+1)%len(c)])
	}
	return total
}

// Bounds returns the smallest rectangle containing every pixel of c.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// Clone returns an independent copy of c.
func (c Contour) Clone() Contour {
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
