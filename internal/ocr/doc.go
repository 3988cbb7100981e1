// Package ocr recognizes text in plate crops using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). The binding
// needs cgo; in builds without cgo NewTesseract returns ErrUnavailable and
// GetInfo reports the engine as unavailable.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// Options.TessdataPrefix (or VISION_TESSDATA_PREFIX) points the engine at a
// non-standard tessdata directory.
//
// # Results
//
// Recognize returns one detection.TextDetection per word, using Tesseract's
// RIL_WORD iterator level. Boxes are in the coordinate space of the raster
// passed in; use Translate to move them into the space of a larger image.
// Words that are empty after trimming are dropped and confidences are
// normalized from Tesseract's 0-100 scale to 0-1.
//
// # Performance Considerations
//
// OCR is computationally expensive. Crop to the plate region and binarize it
// before recognition.
package ocr
