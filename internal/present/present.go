package present

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/pipeline"
	"github.com/ironsheep/vision-tools/internal/raster"
)

// PrintResults writes one "text (confidence)" line per detection.
func PrintResults(w io.Writer, dets []detection.TextDetection) error {
	for _, d := range dets {
		if _, err := fmt.Fprintf(w, "%s (%v)\n", d.Text, d.Confidence); err != nil {
			return err
		}
	}
	return nil
}

// Display shows an image to the user.
type Display interface {
	Show(title string, r *raster.Raster) error
}

// FileDisplay writes each image to Path. An empty Path discards the image.
// When Path contains "{name}" it is replaced by the title, so a batch of
// runs does not overwrite one file.
type FileDisplay struct {
	Path string
}

// Show saves r.
func (d FileDisplay) Show(title string, r *raster.Raster) error {
	if d.Path == "" {
		return nil
	}
	path := strings.ReplaceAll(d.Path, "{name}", sanitize(title))
	if err := raster.Save(path, r); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	return nil
}

func sanitize(title string) string {
	base := filepath.Base(title)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Presenter prints and displays pipeline results. It implements
// pipeline.Presenter.
type Presenter struct {
	Out     io.Writer
	Display Display
	Style   Style
}

// Present annotates res.Image, prints the recognized text, and shows the
// annotated image.
func (p *Presenter) Present(ctx context.Context, res *pipeline.Result) error {
	ann := Annotations{Boxes: res.Boxes, Detections: res.Detections}
	if res.Candidate != nil {
		ann.Outline = res.Candidate.Polygon
	}

	out, err := Annotate(res.Image, ann, p.Style)
	if err != nil {
		return err
	}

	if p.Out != nil {
		if err := PrintResults(p.Out, res.Detections); err != nil {
			return err
		}
	}

	if p.Display == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	title := res.Path
	if title == "" {
		title = "image"
	}
	return p.Display.Show(title, out)
}
