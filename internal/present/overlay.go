package present

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/raster"
)

// Style controls how annotations are drawn. Colors are hex strings such as
// "#00FF00" or "#00FF0080".
type Style struct {
	BoxColor     string `json:"box_color" yaml:"box_color"`
	OutlineColor string `json:"outline_color" yaml:"outline_color"`
	LabelColor   string `json:"label_color" yaml:"label_color"`
	LabelBgColor string `json:"label_bg_color" yaml:"label_bg_color"`
	Thickness    int    `json:"thickness" yaml:"thickness"`

	// Palette colors each OCR word box with its own hue instead of BoxColor.
	Palette bool `json:"palette" yaml:"palette"`
}

// DefaultStyle draws white cascade boxes and a green plate outline.
func DefaultStyle() Style {
	return Style{
		BoxColor:     "#FFFFFF",
		OutlineColor: "#00FF00",
		LabelColor:   "#FFFFFF",
		LabelBgColor: "#000000B4",
		Thickness:    2,
	}
}

// Annotations are the shapes drawn by Annotate.
type Annotations struct {
	// Boxes are cascade proposals.
	Boxes []image.Rectangle

	// Outline is the plate polygon, drawn closed.
	Outline detection.Contour

	// Detections are OCR words; each gets its box and a text label.
	Detections []detection.TextDetection
}

// Annotate returns an RGB copy of r with ann drawn on it.
func Annotate(r *raster.Raster, ann Annotations, style Style) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if style.Thickness < 1 {
		return nil, fmt.Errorf("%w: thickness %d must be at least 1", raster.ErrInvalidArgument, style.Thickness)
	}

	boxColor, err := parseHexColor(style.BoxColor)
	if err != nil {
		return nil, err
	}
	outlineColor, err := parseHexColor(style.OutlineColor)
	if err != nil {
		return nil, err
	}
	labelColor, err := parseHexColor(style.LabelColor)
	if err != nil {
		return nil, err
	}
	bgColor, err := parseHexColor(style.LabelBgColor)
	if err != nil {
		return nil, err
	}

	canvas := r.RGBA()

	for _, b := range ann.Boxes {
		drawRect(canvas, b, boxColor, style.Thickness)
	}

	for i, p := range ann.Outline {
		q := ann.Outline[(i+1)%len(ann.Outline)]
		drawLine(canvas, p, q, outlineColor, style.Thickness)
	}

	for i, d := range ann.Detections {
		c := boxColor
		if style.Palette {
			c = paletteColor(i, len(ann.Detections))
		}
		drawRect(canvas, d.Box, c, 1)
		drawLabel(canvas, d.Box.Min.X, d.Box.Min.Y, d.Text, labelColor, bgColor)
	}

	return raster.FromImageAs(canvas, 3), nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	alpha := uint8(255)

	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: invalid alpha in color %q", raster.ErrInvalidArgument, hex)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.RGBA{}, fmt.Errorf("%w: invalid hex color %q", raster.ErrInvalidArgument, hex)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %v", raster.ErrInvalidArgument, err)
	}
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: alpha}, nil
}

// paletteColor spreads n hues evenly around the color wheel.
func paletteColor(i, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	red, green, blue := colorful.Hsv(360*float64(i)/float64(n), 0.8, 1).RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// blend paints c over the pixel at (x, y), honoring c's alpha. Points off
// the canvas are ignored.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	if c.A == 255 {
		img.SetRGBA(x, y, c)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
	}
	img.SetRGBA(x, y, color.RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 255})
}

// drawRect draws the border of rect, thickness pixels wide, inside rect.
func drawRect(img *image.RGBA, rect image.Rectangle, c color.RGBA, thickness int) {
	rect = rect.Canon()
	for t := 0; t < thickness; t++ {
		r := image.Rect(rect.Min.X+t, rect.Min.Y+t, rect.Max.X-t, rect.Max.Y-t)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			blend(img, x, r.Min.Y, c)
			blend(img, x, r.Max.Y-1, c)
		}
		for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
			blend(img, r.Min.X, y, c)
			blend(img, r.Max.X-1, y, c)
		}
	}
}

// drawLine draws a Bresenham line from a to b with a square brush.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA, thickness int) {
	lo := -(thickness - 1) / 2
	hi := lo + thickness

	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		for oy := lo; oy < hi; oy++ {
			for ox := lo; ox < hi; ox++ {
				if image.Pt(x+ox, y+oy).In(img.Bounds()) {
					img.SetRGBA(x+ox, y+oy, c)
				}
			}
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawLabel draws text with a background box whose bottom-left corner is at
// (x, y). Labels that would leave the top of the image are drawn below y.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Height

	top := y - height - 2
	if top < img.Bounds().Min.Y {
		top = y
	}
	box := image.Rect(x, top, x+width+2, top+height+2)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			blend(img, px, py, bg)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(box.Min.X+1, box.Min.Y+1+face.Ascent),
	}
	d.DrawString(text)
}
