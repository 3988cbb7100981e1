// Package raster defines the in-memory pixel grid shared by every stage of the
// vision pipeline, together with the loader that decodes image files into it.
//
// # Layout
//
// A Raster stores 8-bit samples in row-major, channel-last order. Channels is
// either 1 (grayscale) or 3 (RGB). The sample for channel c of pixel (x, y)
// lives at Pix[(y*Width+x)*Channels+c]. Coordinates are 0-based with the origin
// at the top-left corner, X increasing rightward and Y increasing downward.
//
// Alpha is not represented: decoded images with transparency are flattened to
// their straight (non-premultiplied) color values.
//
// # Errors
//
// The package exports the sentinel errors used across the module:
//   - ErrInvalidType: a nil raster or one whose shape does not match its buffer
//   - ErrInvalidArgument: an out-of-range or non-finite numeric parameter
//   - ErrNotFound: a path that does not resolve to a decodable image
//
// Operations wrap these with context; test for them with errors.Is.
//
// # Thread Safety
//
// Rasters are plain values and are not synchronized. Operations in this module
// never mutate their inputs, so a raster may be shared between readers. The
// Cache type is safe for concurrent use.
package raster
