// Package config loads vision-tools settings from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/vision-tools/internal/cascade"
	"github.com/ironsheep/vision-tools/internal/ocr"
	"github.com/ironsheep/vision-tools/internal/pipeline"
	"github.com/ironsheep/vision-tools/internal/present"
	"github.com/ironsheep/vision-tools/internal/raster"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel       = "VISION_LOG_LEVEL"
	EnvTessdataPrefix = "VISION_TESSDATA_PREFIX"
	EnvCascadePath    = "VISION_CASCADE_PATH"
	EnvOCRLanguage    = "VISION_OCR_LANGUAGE"
)

// Config is the full vision-tools configuration. CLI flags are applied on
// top of it.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Jobs bounds concurrent file runs.
	Jobs int `yaml:"jobs"`

	Plate   pipeline.Options `yaml:"plate"`
	OCR     ocr.Options      `yaml:"ocr"`
	Cascade Cascade          `yaml:"cascade"`
	Output  Output           `yaml:"output"`
}

// Cascade configures the Haar cascade detector used by cascade runs.
type Cascade struct {
	// Path is the Haar cascade XML file.
	Path string `yaml:"path"`

	cascade.Options `yaml:",inline"`
}

// Output controls where annotated results go.
type Output struct {
	// Path receives the annotated image; "{name}" expands to the input name.
	Path string `yaml:"path"`

	// Window shows the annotated image in a window (gocv builds only).
	Window bool `yaml:"window"`

	Style present.Style `yaml:"style"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Jobs:     1,
		Plate:    pipeline.DefaultOptions(),
		OCR:      ocr.Options{Language: ocr.DefaultLanguage},
		Cascade:  Cascade{Options: cascade.DefaultOptions()},
		Output:   Output{Style: present.DefaultStyle()},
	}
}

// Load reads path over the defaults. ${VAR} references in the file are
// expanded from the environment and unknown fields are rejected. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides fields from VISION_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTessdataPrefix); v != "" {
		c.OCR.TessdataPrefix = v
	}
	if v := os.Getenv(EnvCascadePath); v != "" {
		c.Cascade.Path = v
	}
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		c.OCR.Language = v
	}
}

// Validate reports invalid settings.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs %d must be at least 1", raster.ErrInvalidArgument, c.Jobs)
	}
	if err := c.Plate.Validate(); err != nil {
		return fmt.Errorf("plate: %w", err)
	}
	if err := c.Cascade.Options.Validate(); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if v := c.OCR.MinConfidence; !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: ocr min_confidence %v must be in [0,1]", raster.ErrInvalidArgument, v)
	}
	if c.Output.Style.Thickness < 1 {
		return fmt.Errorf("%w: output thickness %d must be at least 1", raster.ErrInvalidArgument, c.Output.Style.Thickness)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", raster.ErrInvalidArgument, s)
}

// NewLogger returns a text logger on w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
