package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// Load decodes the image file at path into a raster.
//
// The format is detected from the file contents (PNG, JPEG, GIF, TIFF, BMP).
// JPEG EXIF orientation is applied. Grayscale sources load as a single
// channel raster, everything else as RGB.
//
// # Errors
//
//   - ErrInvalidArgument if path is empty
//   - ErrNotFound if the file does not exist, cannot be read, or cannot be decoded
func Load(path string) (*Raster, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image path is empty", ErrInvalidArgument)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrNotFound, path, err)
	}

	return FromImage(img), nil
}

// Save encodes r to path. The format is chosen from the file extension.
func Save(path string, r *Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := imaging.Save(r.Image(), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodePNG returns the PNG encoding of r.
func EncodePNG(r *Raster) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64PNG returns the PNG encoding of r as standard base64.
func EncodeBase64PNG(r *Raster) (string, error) {
	data, err := EncodePNG(r)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Cache provides thread-safe caching of loaded rasters keyed by file path.
//
// Cached rasters are shared between callers and must be treated as read-only.
// They remain in memory until removed with Evict or Clear.
type Cache struct {
	mu      sync.RWMutex
	rasters map[string]*Raster
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		rasters: make(map[string]*Raster),
	}
}

// Load returns the cached raster for path, decoding the file on first use.
//
// The cache key is the exact path string, so relative and absolute paths to
// the same file are cached separately.
func (c *Cache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	r, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rasters[path] = r
	c.mu.Unlock()

	return r, nil
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rasters)
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// Clear removes every cached raster.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*Raster)
	c.mu.Unlock()
}

// Info describes an image file without exposing its samples.
type Info struct {
	Width         int   `json:"width"`
	Height        int   `json:"height"`
	Channels      int   `json:"channels"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Stat loads path through the cache and reports its dimensions and size on disk.
func (c *Cache) Stat(path string) (*Info, error) {
	r, err := c.Load(path)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &Info{
		Width:         r.Width,
		Height:        r.Height,
		Channels:      r.Channels,
		FileSizeBytes: st.Size(),
	}, nil
}
