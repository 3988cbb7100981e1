//go:build !gocv

package present

// WindowAvailable reports whether NewDisplay can open windows.
const WindowAvailable = false

// NewDisplay returns a FileDisplay writing to path. Windows need the gocv
// build tag, so window is ignored.
func NewDisplay(window bool, path string) Display {
	return FileDisplay{Path: path}
}
