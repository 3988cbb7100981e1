package server

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/vision-tools/internal/imaging"
)

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	if required == nil {
		required = []string{}
	}
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func num(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: desc}
}

func integer(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func boolean(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func enum(desc string, values ...string) *jsonschema.Schema {
	s := str(desc)
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

// withImage adds the path and output_path properties shared by every image tool.
func withImage(props map[string]*jsonschema.Schema) map[string]*jsonschema.Schema {
	props["path"] = str("Absolute path to the image file")
	props["output_path"] = str("Write the result image here instead of returning it base64-encoded")
	return props
}

func plateProps(props map[string]*jsonschema.Schema) map[string]*jsonschema.Schema {
	props = withImage(props)
	props["canny_low"] = num("Lower Canny hysteresis threshold (default: 170)")
	props["canny_high"] = num("Upper Canny hysteresis threshold (default: 200)")
	props["bilateral_diameter"] = integer("Bilateral filter diameter applied after grayscale; 0 disables (default: 15)")
	props["denoise_sigma"] = num("Gaussian denoise sigma applied after grayscale; 0 disables (default: 0)")
	props["threshold"] = num("Binarization cutoff before OCR (default: 125)")
	return props
}

// ToolDefinitions returns all available tools.
func ToolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		// Image Information
		{
			Name:        "image_info",
			Description: "Load an image file and return its width, height, channel count and file size.",
			InputSchema: object([]string{"path"}, map[string]*jsonschema.Schema{
				"path": str("Absolute path to the image file"),
			}),
		},

		// Geometric Transforms
		{
			Name:        "image_translate",
			Description: "Shift an image by (dx, dy) pixels. Uncovered pixels become black; output size is unchanged.",
			InputSchema: object([]string{"path", "dx", "dy"}, withImage(map[string]*jsonschema.Schema{
				"dx": num("Horizontal shift in pixels (positive moves right)"),
				"dy": num("Vertical shift in pixels (positive moves down)"),
			})),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image about its center. Positive angles rotate counter-clockwise; output size is unchanged.",
			InputSchema: object([]string{"path", "angle"}, withImage(map[string]*jsonschema.Schema{
				"angle": num("Rotation angle in degrees"),
			})),
		},
		{
			Name:        "image_scale",
			Description: "Resize an image by a factor, or to an explicit width and height.",
			InputSchema: object([]string{"path"}, withImage(map[string]*jsonschema.Schema{
				"factor": num("Scale factor, must be > 0 (ignored when width and height are given)"),
				"width":  integer("Target width in pixels"),
				"height": integer("Target height in pixels"),
			})),
		},
		{
			Name:        "image_shear",
			Description: "Shear an image with the matrix [[1,kx,0],[ky,1,0]]. Output size is unchanged.",
			InputSchema: object([]string{"path"}, withImage(map[string]*jsonschema.Schema{
				"kx": num("Horizontal shear factor (default: 0)"),
				"ky": num("Vertical shear factor (default: 0)"),
			})),
		},
		{
			Name:        "image_reflect",
			Description: "Mirror an image horizontally, vertically, or both.",
			InputSchema: object([]string{"path", "axis"}, withImage(map[string]*jsonschema.Schema{
				"axis": enum("Mirror axis", "horizontal", "vertical", "both"),
			})),
		},
		{
			Name:        "image_crop",
			Description: "Extract the rectangle [left,right) x [top,bottom), or a named region such as top-left or center.",
			InputSchema: object([]string{"path"}, withImage(map[string]*jsonschema.Schema{
				"left":   integer("Left edge (inclusive)"),
				"right":  integer("Right edge (exclusive)"),
				"top":    integer("Top edge (inclusive)"),
				"bottom": integer("Bottom edge (exclusive)"),
				"region": enum("Named region; overrides the edges when set",
					"top-left", "top-right", "bottom-left", "bottom-right",
					"top-half", "bottom-half", "left-half", "right-half", "center"),
			})),
		},

		// Filtering
		{
			Name:        "image_filter",
			Description: "Apply a named filter. laplacian and sobel return the absolute response saturated to 8 bits; canny returns a binary edge map.",
			InputSchema: object([]string{"path", "filter"}, withImage(map[string]*jsonschema.Schema{
				"filter": enum("Filter name", imaging.FilterNames...),
			})),
		},
		{
			Name:        "image_threshold",
			Description: "Convert to grayscale and binarize: samples above the cutoff become 255, the rest 0.",
			InputSchema: object([]string{"path"}, withImage(map[string]*jsonschema.Schema{
				"threshold": num("Cutoff in [0,255] (default: 125)"),
			})),
		},

		// License Plates
		{
			Name:        "plate_localize",
			Description: "Locate a license plate by edge detection and contour analysis. Returns the plate quadrilateral and an annotated image.",
			InputSchema: object([]string{"path"}, plateProps(map[string]*jsonschema.Schema{
				"include_mask": boolean("Also return the plate mask image (default: false)"),
			})),
		},
		{
			Name:        "plate_read",
			Description: "Locate a license plate by contours and read it with OCR. Returns recognized words with confidences and an annotated image.",
			InputSchema: object([]string{"path"}, plateProps(map[string]*jsonschema.Schema{})),
		},
		{
			Name:        "plate_read_cascade",
			Description: "Propose plates with a Haar cascade classifier and read each with OCR. Requires a build with OpenCV support.",
			InputSchema: object([]string{"path"}, withImage(map[string]*jsonschema.Schema{
				"cascade_path":  str("Haar cascade XML file (default: configured cascade path)"),
				"scale_factor":  num("Pyramid scale step, > 1 (default: 1.2)"),
				"min_neighbors": integer("Overlapping hits required per box (default: 5)"),
				"min_size":      integer("Smallest box side in pixels (default: 25)"),
				"threshold":     num("Binarization cutoff before OCR (default: 125)"),
			})),
		},
		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available, its version and language.",
			InputSchema: object(nil, map[string]*jsonschema.Schema{}),
		},
	}
}
