//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/raster"
)

const backend = "gosseract"

// Tesseract recognizes words with a single gosseract client. Calls are
// serialized; the client is not safe for concurrent use.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	opts   Options
}

// NewTesseract creates a client configured with opts.
func NewTesseract(opts Options) (*Tesseract, error) {
	opts = opts.withDefaults()

	client := gosseract.NewClient()
	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	return &Tesseract{client: client, opts: opts}, nil
}

// Recognize runs OCR on r and returns its words in r's coordinate space.
func (t *Tesseract) Recognize(ctx context.Context, r *raster.Raster) ([]detection.TextDetection, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := raster.EncodePNG(r)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, word{box: b.Box, text: b.Word, confidence: b.Confidence})
	}
	return toDetections(words, t.opts.MinConfidence), nil
}

// Close releases the engine.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// GetInfo reports OCR availability.
func GetInfo(opts Options) Info {
	t, err := NewTesseract(opts)
	if err != nil {
		return Info{Available: false, Error: err.Error(), Backend: backend, TessdataPath: opts.TessdataPrefix}
	}
	defer t.Close()

	return Info{
		Available:    true,
		Version:      t.client.Version(),
		Backend:      backend,
		TessdataPath: opts.TessdataPrefix,
	}
}
