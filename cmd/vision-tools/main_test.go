package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// writePlate saves a 100x100 image with a white plate at (20,30)-(80,70).
func writePlate(t *testing.T, dir, name string) string {
	t.Helper()
	r, err := raster.New(100, 100, 3)
	require.NoError(t, err)
	for y := 30; y < 70; y++ {
		for x := 20; x < 80; x++ {
			for c := 0; c < 3; c++ {
				r.Set(x, y, c, 255)
			}
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, raster.Save(path, r))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_HelpAndVersion(t *testing.T) {
	out, _, err := runCLI(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "plate")

	out, _, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vision-tools dev")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"detect"}},
		{"bad flag", []string{"filter", "-bogus"}},
		{"missing files", []string{"filter", "-name", "median"}},
		{"missing op", []string{"transform", "-in", "a.png", "-out", "b.png"}},
		{"plate without files", []string{"plate", "-no-ocr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRun_Transform(t *testing.T) {
	dir := t.TempDir()
	in := writePlate(t, dir, "in.png")
	out := filepath.Join(dir, "out.png")

	_, _, err := runCLI(t, "transform", "-op", "scale", "-factor", "0.5", "-in", in, "-out", out)
	require.NoError(t, err)

	img, err := raster.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Width)
	assert.Equal(t, 50, img.Height)

	_, _, err = runCLI(t, "transform", "-op", "crop", "-left", "10", "-right", "5", "-in", in, "-out", out)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestRun_FilterAndThreshold(t *testing.T) {
	dir := t.TempDir()
	in := writePlate(t, dir, "in.png")

	filtered := filepath.Join(dir, "median.png")
	_, _, err := runCLI(t, "filter", "-name", "median", "-in", in, "-out", filtered)
	require.NoError(t, err)

	binary := filepath.Join(dir, "binary.png")
	_, _, err = runCLI(t, "threshold", "-t", "100", "-in", in, "-out", binary)
	require.NoError(t, err)

	img, err := raster.Load(binary)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Channels)
	assert.EqualValues(t, 255, img.At(50, 50, 0))
	assert.EqualValues(t, 0, img.At(5, 5, 0))
}

func TestRun_PlateLocalizeOnly(t *testing.T) {
	dir := t.TempDir()
	a := writePlate(t, dir, "a.png")
	b := writePlate(t, dir, "b.png")

	out, _, err := runCLI(t, "plate", "-no-ocr", "-jobs", "2", "-out", filepath.Join(dir, "{name}-annotated.png"), a, b)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, a+":", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "plate ["), lines[1])
	assert.Equal(t, b+":", lines[2])

	for _, name := range []string{"a-annotated.png", "b-annotated.png"} {
		_, err := raster.Load(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_PlateMissingFile(t *testing.T) {
	_, stderr, err := runCLI(t, "plate", "-no-ocr", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, stderr, "plate run failed")
}

func TestRun_PlateInvalidConfig(t *testing.T) {
	a := writePlate(t, t.TempDir(), "a.png")
	_, _, err := runCLI(t, "plate", "-no-ocr", "-canny-low", "300", a)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestRun_PlateBilateralFlag(t *testing.T) {
	dir := t.TempDir()
	a := writePlate(t, dir, "a.png")

	_, _, err := runCLI(t, "plate", "-no-ocr", "-bilateral", "-3", a)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)

	_, _, err = runCLI(t, "plate", "-no-ocr", "-bilateral", "0", "-out", filepath.Join(dir, "{name}-off.png"), a)
	require.NoError(t, err)
}

func TestRun_CascadeNeedsModel(t *testing.T) {
	t.Setenv("VISION_CASCADE_PATH", "")
	a := writePlate(t, t.TempDir(), "a.png")
	_, _, err := runCLI(t, "cascade", "-no-ocr", a)
	assert.ErrorIs(t, err, errUsage)
}
