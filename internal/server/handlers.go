package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/vision-tools/internal/cascade"
	"github.com/ironsheep/vision-tools/internal/detection"
	"github.com/ironsheep/vision-tools/internal/imaging"
	"github.com/ironsheep/vision-tools/internal/ocr"
	"github.com/ironsheep/vision-tools/internal/pipeline"
	"github.com/ironsheep/vision-tools/internal/present"
	"github.com/ironsheep/vision-tools/internal/raster"
)

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/pipeline function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	// Image Information
	case "image_info":
		return s.handleImageInfo(args)

	// Geometric Transforms
	case "image_translate":
		return s.handleImageTranslate(args)
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_scale":
		return s.handleImageScale(args)
	case "image_shear":
		return s.handleImageShear(args)
	case "image_reflect":
		return s.handleImageReflect(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Filtering
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_threshold":
		return s.handleImageThreshold(args)

	// License Plates
	case "plate_localize":
		return s.handlePlateLocalize(ctx, args)
	case "plate_read":
		return s.handlePlateRead(ctx, args)
	case "plate_read_cascade":
		return s.handlePlateReadCascade(ctx, args)
	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func unmarshalArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", raster.ErrInvalidArgument, err)
	}
	return nil
}

// ImageResult carries an output image.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
}

// imageResult saves r to outputPath, or encodes it when outputPath is empty.
func imageResult(r *raster.Raster, outputPath string) (*ImageResult, error) {
	res := &ImageResult{Width: r.Width, Height: r.Height, Channels: r.Channels}
	if outputPath != "" {
		if err := raster.Save(outputPath, r); err != nil {
			return nil, err
		}
		res.OutputPath = outputPath
		return res, nil
	}

	data, err := raster.EncodeBase64PNG(r)
	if err != nil {
		return nil, err
	}
	res.ImageBase64 = data
	res.MimeType = "image/png"
	return res, nil
}

// imageArgs are shared by every tool that reads one image.
type imageArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

func (a imageArgs) load(s *Server) (*raster.Raster, error) {
	return s.cache.Load(a.Path)
}

// === Image Information Handlers ===

func (s *Server) handleImageInfo(args json.RawMessage) (any, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.cache.Stat(a.Path)
}

// === Geometric Transform Handlers ===

// transform loads the image named in args, applies op, and returns the output image.
func (s *Server) transform(a imageArgs, op func(*raster.Raster) (*raster.Raster, error)) (any, error) {
	img, err := a.load(s)
	if err != nil {
		return nil, err
	}
	out, err := op(img)
	if err != nil {
		return nil, err
	}
	return imageResult(out, a.OutputPath)
}

type imageTranslateArgs struct {
	imageArgs
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleImageTranslate(args json.RawMessage) (any, error) {
	var a imageTranslateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Translate(r, a.DX, a.DY)
	})
}

type imageRotateArgs struct {
	imageArgs
	Angle float64 `json:"angle"`
}

func (s *Server) handleImageRotate(args json.RawMessage) (any, error) {
	var a imageRotateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Rotate(r, a.Angle)
	})
}

type imageScaleArgs struct {
	imageArgs
	Factor float64 `json:"factor"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func (s *Server) handleImageScale(args json.RawMessage) (any, error) {
	var a imageScaleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		if a.Width != 0 || a.Height != 0 {
			return imaging.ScaleTo(r, a.Width, a.Height)
		}
		return imaging.Scale(r, a.Factor)
	})
}

type imageShearArgs struct {
	imageArgs
	KX float64 `json:"kx"`
	KY float64 `json:"ky"`
}

func (s *Server) handleImageShear(args json.RawMessage) (any, error) {
	var a imageShearArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Shear(r, a.KX, a.KY)
	})
}

type imageReflectArgs struct {
	imageArgs
	Axis string `json:"axis"`
}

func (s *Server) handleImageReflect(args json.RawMessage) (any, error) {
	var a imageReflectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	axis, err := imaging.ParseAxis(a.Axis)
	if err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Reflect(r, axis)
	})
}

type imageCropArgs struct {
	imageArgs
	Left   int    `json:"left"`
	Right  int    `json:"right"`
	Top    int    `json:"top"`
	Bottom int    `json:"bottom"`
	Region string `json:"region"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (any, error) {
	var a imageCropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		if a.Region != "" {
			return imaging.CropRegion(r, a.Region)
		}
		return imaging.Crop(r, a.Left, a.Right, a.Top, a.Bottom)
	})
}

// === Filtering Handlers ===

type imageFilterArgs struct {
	imageArgs
	Filter string `json:"filter"`
}

func (s *Server) handleImageFilter(args json.RawMessage) (any, error) {
	var a imageFilterArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Apply(r, a.Filter)
	})
}

type imageThresholdArgs struct {
	imageArgs
	Threshold *float64 `json:"threshold"`
}

func (s *Server) handleImageThreshold(args json.RawMessage) (any, error) {
	var a imageThresholdArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	cutoff := float64(imaging.DefaultThreshold)
	if a.Threshold != nil {
		cutoff = *a.Threshold
	}
	return s.transform(a.imageArgs, func(r *raster.Raster) (*raster.Raster, error) {
		return imaging.Threshold(r, cutoff)
	})
}

// === License Plate Handlers ===

type plateArgs struct {
	imageArgs
	CannyLow          *float64 `json:"canny_low"`
	CannyHigh         *float64 `json:"canny_high"`
	BilateralDiameter *int     `json:"bilateral_diameter"`
	DenoiseSigma      *float64 `json:"denoise_sigma"`
	Threshold         *float64 `json:"threshold"`
}

// options overlays the call's parameters on the configured ones.
func (a plateArgs) options(base pipeline.Options) pipeline.Options {
	if a.CannyLow != nil {
		base.CannyLow = *a.CannyLow
	}
	if a.CannyHigh != nil {
		base.CannyHigh = *a.CannyHigh
	}
	if a.BilateralDiameter != nil {
		base.Bilateral.Diameter = *a.BilateralDiameter
	}
	if a.DenoiseSigma != nil {
		base.DenoiseSigma = *a.DenoiseSigma
	}
	if a.Threshold != nil {
		base.Threshold = *a.Threshold
	}
	return base
}

// PlateResult is returned by the plate tools.
type PlateResult struct {
	RunID      string                    `json:"run_id"`
	Polygon    []image.Point             `json:"polygon,omitempty"`
	Area       float64                   `json:"area,omitempty"`
	Rank       int                       `json:"rank,omitempty"`
	Contours   int                       `json:"contours,omitempty"`
	Boxes      []image.Rectangle         `json:"boxes,omitempty"`
	Detections []detection.TextDetection `json:"detections"`
	Annotated  *ImageResult              `json:"annotated"`
	Mask       *ImageResult              `json:"mask,omitempty"`
}

func (s *Server) plateResult(res *pipeline.Result, outputPath string) (*PlateResult, error) {
	out := &PlateResult{
		RunID:      res.RunID,
		Contours:   len(res.Contours),
		Boxes:      res.Boxes,
		Detections: res.Detections,
	}
	if out.Detections == nil {
		out.Detections = []detection.TextDetection{}
	}

	ann := present.Annotations{Boxes: res.Boxes, Detections: res.Detections}
	if c := res.Candidate; c != nil {
		out.Polygon = c.Polygon
		out.Area = c.Area
		out.Rank = c.Rank
		ann.Outline = c.Polygon
	}

	annotated, err := present.Annotate(res.Image, ann, s.cfg.Output.Style)
	if err != nil {
		return nil, err
	}
	if out.Annotated, err = imageResult(annotated, outputPath); err != nil {
		return nil, err
	}
	return out, nil
}

// ocrEngine returns the OCR engine or the reason it is missing.
func (s *Server) ocrEngine() (pipeline.Recognizer, error) {
	if s.recognizer != nil {
		return s.recognizer, nil
	}
	if s.ocrErr != nil {
		return nil, s.ocrErr
	}
	return nil, pipeline.ErrNoRecognizer
}

type plateLocalizeArgs struct {
	plateArgs
	IncludeMask bool `json:"include_mask"`
}

func (s *Server) handlePlateLocalize(ctx context.Context, args json.RawMessage) (any, error) {
	var a plateLocalizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := a.load(s)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.Config{Options: a.options(s.cfg.Plate), Logger: s.logger})
	if err != nil {
		return nil, err
	}

	res, err := p.Locate(ctx, img)
	if err != nil {
		return nil, err
	}
	out, err := s.plateResult(res, a.OutputPath)
	if err != nil {
		return nil, err
	}
	if a.IncludeMask {
		if out.Mask, err = imageResult(res.Mask, ""); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Server) handlePlateRead(ctx context.Context, args json.RawMessage) (any, error) {
	var a plateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	rec, err := s.ocrEngine()
	if err != nil {
		return nil, err
	}
	img, err := a.load(s)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.Config{Options: a.options(s.cfg.Plate), Recognizer: rec, Logger: s.logger})
	if err != nil {
		return nil, err
	}

	res, err := p.RunContour(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.plateResult(res, a.OutputPath)
}

type plateReadCascadeArgs struct {
	imageArgs
	CascadePath  string   `json:"cascade_path"`
	ScaleFactor  *float64 `json:"scale_factor"`
	MinNeighbors *int     `json:"min_neighbors"`
	MinSize      *int     `json:"min_size"`
	Threshold    *float64 `json:"threshold"`
}

func (s *Server) handlePlateReadCascade(ctx context.Context, args json.RawMessage) (any, error) {
	var a plateReadCascadeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	path := a.CascadePath
	if path == "" {
		path = s.cfg.Cascade.Path
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no cascade_path given and none configured", raster.ErrInvalidArgument)
	}

	copts := s.cfg.Cascade.Options
	if a.ScaleFactor != nil {
		copts.ScaleFactor = *a.ScaleFactor
	}
	if a.MinNeighbors != nil {
		copts.MinNeighbors = *a.MinNeighbors
	}
	if a.MinSize != nil {
		copts.MinSize = *a.MinSize
	}

	popts := s.cfg.Plate
	if a.Threshold != nil {
		popts.Threshold = *a.Threshold
	}

	rec, err := s.ocrEngine()
	if err != nil {
		return nil, err
	}
	img, err := a.load(s)
	if err != nil {
		return nil, err
	}

	det, err := s.openDetector(path, copts)
	if err != nil {
		if errors.Is(err, cascade.ErrUnavailable) {
			return nil, fmt.Errorf("%w; use plate_read for contour localization", err)
		}
		return nil, err
	}
	defer det.Close()

	p, err := pipeline.New(pipeline.Config{Options: popts, Recognizer: rec, Detector: det, Logger: s.logger})
	if err != nil {
		return nil, err
	}
	res, err := p.RunCascade(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.plateResult(res, a.OutputPath)
}

// OCRInfo is returned by ocr_info.
type OCRInfo struct {
	ocr.Info
	Language string `json:"language"`
	Cascade  bool   `json:"cascade_available"`
}

func (s *Server) handleOCRInfo() (any, error) {
	return OCRInfo{
		Info:     ocr.GetInfo(s.cfg.OCR),
		Language: s.cfg.OCR.Language,
		Cascade:  cascade.Available,
	}, nil
}
