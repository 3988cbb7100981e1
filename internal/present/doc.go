// Package present draws plate reading results over the input image, prints
// recognized text, and displays or saves the annotated image.
//
// Display shows a blocking window that closes on ESC when built with the
// gocv tag. Other builds write the annotated image to a file, or do nothing
// when no output path is configured.
package present
