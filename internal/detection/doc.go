// Package detection finds and extracts plate candidates in edge images.
//
// The package covers the geometric half of plate localization: tracing the
// borders of connected foreground regions and of the holes inside them,
// ranking them by enclosed area, approximating each with a polygon, and
// turning the chosen quadrilateral into a mask that selects the plate from
// the source image.
//
// # Algorithm Overview
//
//  1. Contour Extraction: FindContours follows every border of a binary
//     raster (any non-zero sample is foreground), outer and hole borders
//     alike, and compresses straight runs to their endpoints.
//  2. Ranking: contours are ordered by their shoelace area, largest first.
//  3. Approximation: ApproxPolygon simplifies a closed contour with the
//     Douglas-Peucker algorithm.
//  4. Selection: SelectCandidate returns the first ranked contour whose
//     approximation has exactly four vertices, or ErrNoCandidate.
//  5. Extraction: Mask fills the polygon and ApplyMask zeroes every pixel
//     outside it.
//
// # Backends
//
// The default build traces borders with a pure Go implementation of Suzuki
// and Abe's border following and simplifies them with its own
// Douglas-Peucker. Building with the gocv tag hands both steps to OpenCV
// (findContours with RETR_LIST and CHAIN_APPROX_SIMPLE, approxPolyDP).
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Contour points are pixel indices; rectangles use inclusive top-left and
//     exclusive bottom-right
//
// # Confidence Scores
//
// TextDetection carries the recognizer confidence normalized to [0, 1].
package detection
