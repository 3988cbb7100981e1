package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Crop extracts the columns [left, right) and rows [top, bottom) of r.
//
// Every bound must lie in [0, extent], with right > left and bottom > top.
// The output pixel (i, j) equals the input pixel (left+i, top+j).
func Crop(r *raster.Raster, left, right, top, bottom int) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if left < 0 || right < 0 || top < 0 || bottom < 0 {
		return nil, fmt.Errorf("%w: crop bounds (l=%d r=%d t=%d b=%d) cannot be negative",
			raster.ErrInvalidArgument, left, right, top, bottom)
	}
	if left > r.Width || right > r.Width || top > r.Height || bottom > r.Height {
		return nil, fmt.Errorf("%w: crop bounds (l=%d r=%d t=%d b=%d) exceed image size %dx%d",
			raster.ErrInvalidArgument, left, right, top, bottom, r.Width, r.Height)
	}
	if right <= left {
		return nil, fmt.Errorf("%w: right (%d) must be greater than left (%d)", raster.ErrInvalidArgument, right, left)
	}
	if bottom <= top {
		return nil, fmt.Errorf("%w: bottom (%d) must be greater than top (%d)", raster.ErrInvalidArgument, bottom, top)
	}

	cropped := imaging.Crop(r.Image(), image.Rect(left, top, right, bottom))
	return raster.FromImageAs(cropped, r.Channels), nil
}

// CropRect is Crop with the bounds taken from rect.
func CropRect(r *raster.Raster, rect image.Rectangle) (*raster.Raster, error) {
	return Crop(r, rect.Min.X, rect.Max.X, rect.Min.Y, rect.Max.Y)
}

// RegionRect returns the rectangle of a named region of a width x height image.
//
// Supported names: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half, center (the middle 50%).
func RegionRect(region string, width, height int) (image.Rectangle, error) {
	midX := width / 2
	midY := height / 2

	switch region {
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, width, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, height), nil
	case "bottom-right":
		return image.Rect(midX, midY, width, height), nil
	case "top-half":
		return image.Rect(0, 0, width, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, width, height), nil
	case "left-half":
		return image.Rect(0, 0, midX, height), nil
	case "right-half":
		return image.Rect(midX, 0, width, height), nil
	case "center":
		qW, qH := width/4, height/4
		return image.Rect(qW, qH, width-qW, height-qH), nil
	}
	return image.Rectangle{}, fmt.Errorf("%w: unknown region %q", raster.ErrInvalidArgument, region)
}

// CropRegion extracts a named region of r. See RegionRect for the names.
func CropRegion(r *raster.Raster, region string) (*raster.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rect, err := RegionRect(region, r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	return CropRect(r, rect)
}
