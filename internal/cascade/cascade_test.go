package cascade

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/vision-tools/internal/raster"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 1.2, opts.ScaleFactor)
	assert.Equal(t, 5, opts.MinNeighbors)
	assert.Equal(t, 25, opts.MinSize)
	require.NoError(t, opts.Validate())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"scale of one", Options{ScaleFactor: 1, MinNeighbors: 5, MinSize: 25}},
		{"NaN scale", Options{ScaleFactor: math.NaN(), MinNeighbors: 5, MinSize: 25}},
		{"negative neighbors", Options{ScaleFactor: 1.1, MinNeighbors: -1}},
		{"negative size", Options{ScaleFactor: 1.1, MinSize: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.opts.Validate(), raster.ErrInvalidArgument)
		})
	}
}

func TestOpen_InvalidOptions(t *testing.T) {
	_, err := Open("plates.xml", Options{})
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open("/nonexistent/cascade.xml", DefaultOptions())
	require.Error(t, err)
	if Available {
		assert.ErrorIs(t, err, raster.ErrNotFound)
	} else {
		assert.True(t, errors.Is(err, ErrUnavailable))
	}
}

func TestClip(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	boxes := []image.Rectangle{
		image.Rect(10, 10, 40, 30),
		image.Rect(90, 40, 130, 80),
		image.Rect(200, 200, 220, 220),
	}

	got := clip(boxes, bounds)
	require.Len(t, got, 2)
	assert.Equal(t, image.Rect(10, 10, 40, 30), got[0])
	assert.Equal(t, image.Rect(90, 40, 100, 50), got[1])
}
