package ocr

import (
	"errors"
	"image"
	"math"
	"strings"

	"github.com/ironsheep/vision-tools/internal/detection"
)

// ErrUnavailable is returned when the OCR engine is not compiled in.
var ErrUnavailable = errors.New("ocr engine unavailable (build with cgo and install tesseract)")

// DefaultLanguage is the Tesseract language code used when none is given.
const DefaultLanguage = "eng"

// Options configures a Tesseract recognizer.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "deu".
	Language string `json:"language" yaml:"language"`

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string `json:"tessdata_prefix" yaml:"tessdata_prefix"`

	// Whitelist restricts recognition to these characters when non-empty.
	Whitelist string `json:"whitelist" yaml:"whitelist"`

	// MinConfidence drops words below this normalized confidence.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	return o
}

// Info describes the OCR subsystem.
type Info struct {
	Available    bool   `json:"available"`
	Version      string `json:"version,omitempty"`
	Error        string `json:"error,omitempty"`
	Backend      string `json:"backend"`
	TessdataPath string `json:"tessdata_path,omitempty"`
}

// word is one engine result with its confidence on the 0-100 scale.
type word struct {
	box        image.Rectangle
	text       string
	confidence float64
}

// toDetections normalizes engine words into detections.
func toDetections(words []word, minConfidence float64) []detection.TextDetection {
	out := make([]detection.TextDetection, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.text)
		if text == "" {
			continue
		}
		conf := math.Max(0, math.Min(1, w.confidence/100))
		if conf < minConfidence {
			continue
		}
		out = append(out, detection.TextDetection{Box: w.box, Text: text, Confidence: conf})
	}
	return out
}

// Translate shifts every box by off, mapping results for a crop back into
// the space of the image it was cut from.
func Translate(dets []detection.TextDetection, off image.Point) []detection.TextDetection {
	out := make([]detection.TextDetection, len(dets))
	for i, d := range dets {
		out[i] = d.Translate(off)
	}
	return out
}
