//go:build gocv

package present

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// WindowAvailable reports whether NewDisplay can open windows.
const WindowAvailable = true

const escKey = 27

// Window shows images in a HighGUI window.
type Window struct{}

// Show blocks until ESC is pressed in the window.
func (Window) Show(title string, r *raster.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	mat, err := gocv.ImageToMatRGB(r.RGBA())
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(mat)
	for window.WaitKey(0) != escKey {
	}
	return nil
}

// NewDisplay returns a Window when window is set, otherwise a FileDisplay
// writing to path.
func NewDisplay(window bool, path string) Display {
	if window {
		return Window{}
	}
	return FileDisplay{Path: path}
}
