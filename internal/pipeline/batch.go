package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// Mode selects the localization variant of a file run.
type Mode string

const (
	ModeContour Mode = "contour"
	ModeCascade Mode = "cascade"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeContour, ModeCascade:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q (use contour or cascade)", raster.ErrInvalidArgument, s)
}

// FileResult is the outcome of one file in RunFiles.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// RunFile loads path and runs the chosen variant on it.
func (p *Pipeline) RunFile(ctx context.Context, path string, mode Mode) (*Result, error) {
	img, err := raster.Load(path)
	if err != nil {
		p.logger.Debug("stage failed", "stage", Loaded, "path", path, "error", err)
		return nil, &StageError{State: Loaded, Err: err}
	}

	switch mode {
	case ModeCascade:
		return p.runCascade(ctx, path, img)
	case ModeContour, "":
		return p.runContour(ctx, path, img)
	}
	return nil, &StageError{State: Loaded, Err: fmt.Errorf("%w: unknown mode %q", raster.ErrInvalidArgument, mode)}
}

// RunFiles runs every path independently with at most jobs runs in flight.
// Results are returned in input order; a failed file does not stop the others.
func (p *Pipeline) RunFiles(ctx context.Context, paths []string, mode Mode, jobs int) []FileResult {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			res, err := p.RunFile(ctx, path, mode)
			results[i] = FileResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
