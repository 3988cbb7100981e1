package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Matrix is a 2x3 affine coefficient matrix.
//
// A source point (x, y) maps to the output point
//
//	(m[0][0]*x + m[0][1]*y + m[0][2], m[1][0]*x + m[1][1]*y + m[1][2])
type Matrix [2][3]float64

// TranslationMatrix returns [[1,0,dx],[0,1,dy]].
func TranslationMatrix(dx, dy float64) Matrix {
	return Matrix{{1, 0, dx}, {0, 1, dy}}
}

// RotationMatrix returns the matrix rotating by angle degrees about (cx, cy)
// and scaling by scale. Positive angles rotate counter-clockwise as seen on
// screen (Y grows downward).
func RotationMatrix(cx, cy, angle, scale float64) Matrix {
	rad := angle * math.Pi / 180
	a := scale * math.Cos(rad)
	b := scale * math.Sin(rad)
	return Matrix{
		{a, b, (1-a)*cx - b*cy},
		{-b, a, b*cx + (1-a)*cy},
	}
}

// ShearMatrix returns [[1,kx,0],[ky,1,0]].
func ShearMatrix(kx, ky float64) Matrix {
	return Matrix{{1, kx, 0}, {ky, 1, 0}}
}

// Axis selects the mirror line of a reflection.
type Axis int

const (
	// Horizontal mirrors left to right.
	Horizontal Axis = iota
	// Vertical mirrors top to bottom.
	Vertical
	// Both mirrors along both axes (a 180 degree rotation).
	Both
)

// String returns the axis name used by the CLI and the MCP tools.
func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis converts "horizontal", "vertical" or "both" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	case "both", "hv":
		return Both, nil
	}
	return 0, fmt.Errorf("%w: unknown reflection axis %q", raster.ErrInvalidArgument, s)
}

// ReflectionMatrix returns the mirror matrix for an image of the given size:
// [[-1,0,W],[0,1,0]], [[1,0,0],[0,-1,H]] or [[-1,0,W],[0,-1,H]].
func ReflectionMatrix(axis Axis, width, height int) Matrix {
	w, h := float64(width), float64(height)
	switch axis {
	case Vertical:
		return Matrix{{1, 0, 0}, {0, -1, h}}
	case Both:
		return Matrix{{-1, 0, w}, {0, -1, h}}
	default:
		return Matrix{{-1, 0, w}, {0, 1, 0}}
	}
}

func (m Matrix) aff3() f64.Aff3 {
	return f64.Aff3{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2]}
}

func (m Matrix) validate() error {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: matrix coefficient %v is not finite", raster.ErrInvalidArgument, v)
			}
		}
	}
	if m[0][0]*m[1][1]-m[0][1]*m[1][0] == 0 {
		return fmt.Errorf("%w: matrix %v is singular", raster.ErrInvalidArgument, m)
	}
	return nil
}

// WarpAffine applies m to r and returns a width x height raster.
//
// Each output pixel center is mapped back through the inverse of m and
// sampled with bilinear interpolation. Output pixels whose source lies
// outside r are 0. The channel count of r is preserved.
func WarpAffine(r *raster.Raster, m Matrix, width, height int) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d must be positive", raster.ErrInvalidArgument, width, height)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	src := r.RGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Transform(dst, m.aff3(), src, src.Bounds(), draw.Src, nil)

	return raster.FromImageAs(dst, r.Channels), nil
}

func finite(name string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", raster.ErrInvalidArgument, name, v)
		}
	}
	return nil
}

// Translate shifts r by (dx, dy) pixels. The output keeps the input size.
func Translate(r *raster.Raster, dx, dy float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("offset", dx, dy); err != nil {
		return nil, err
	}
	return WarpAffine(r, TranslationMatrix(dx, dy), r.Width, r.Height)
}

// Rotate rotates r by angle degrees about its center with scale 1.
// The output keeps the input size; corners rotated out of frame are lost.
func Rotate(r *raster.Raster, angle float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("angle", angle); err != nil {
		return nil, err
	}
	m := RotationMatrix(float64(r.Width)/2, float64(r.Height)/2, angle, 1)
	return WarpAffine(r, m, r.Width, r.Height)
}

// Shear applies [[1,kx,0],[ky,1,0]]. The output keeps the input size.
//
// Factors with kx*ky == 1 collapse the image onto a line and are rejected.
func Shear(r *raster.Raster, kx, ky float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("shear factor", kx, ky); err != nil {
		return nil, err
	}
	return WarpAffine(r, ShearMatrix(kx, ky), r.Width, r.Height)
}

// Reflect mirrors r about the given axis.
func Reflect(r *raster.Raster, axis Axis) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if axis < Horizontal || axis > Both {
		return nil, fmt.Errorf("%w: unknown reflection axis %d", raster.ErrInvalidArgument, int(axis))
	}
	return WarpAffine(r, ReflectionMatrix(axis, r.Width, r.Height), r.Width, r.Height)
}

// ReflectHorizontal mirrors r left to right.
func ReflectHorizontal(r *raster.Raster) (*raster.Raster, error) {
	return Reflect(r, Horizontal)
}

// ReflectVertical mirrors r top to bottom.
func ReflectVertical(r *raster.Raster) (*raster.Raster, error) {
	return Reflect(r, Vertical)
}

// ReflectBoth mirrors r along both axes.
func ReflectBoth(r *raster.Raster) (*raster.Raster, error) {
	return Reflect(r, Both)
}

// Scale resizes r by factor in both dimensions.
//
// The factor must be finite and positive, and the resulting dimensions,
// round(W*factor) x round(H*factor), must each be at least one pixel.
func Scale(r *raster.Raster, factor float64) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := finite("scale", factor); err != nil {
		return nil, err
	}
	if factor <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive, got %v", raster.ErrInvalidArgument, factor)
	}

	w := int(math.Round(float64(r.Width) * factor))
	h := int(math.Round(float64(r.Height) * factor))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: scale %v reduces %dx%d to nothing", raster.ErrInvalidArgument, factor, r.Width, r.Height)
	}
	return resize(r, w, h), nil
}

// ScaleTo resizes r to exactly width x height.
func ScaleTo(r *raster.Raster, width, height int) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d must be positive", raster.ErrInvalidArgument, width, height)
	}
	return resize(r, width, height), nil
}

func resize(r *raster.Raster, width, height int) *raster.Raster {
	return raster.FromImageAs(imaging.Resize(r.Image(), width, height, imaging.Linear), r.Channels)
}
