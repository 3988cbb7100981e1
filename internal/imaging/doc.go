// Package imaging provides the geometric transforms and filters applied to
// rasters by the CLI, the MCP server, and the plate pipeline.
//
// Every operation takes a *raster.Raster, validates it and its numeric
// parameters before doing any work, and returns a new raster. Inputs are never
// modified. On failure the returned raster is nil and the error wraps one of
// raster.ErrInvalidType or raster.ErrInvalidArgument.
//
// # Geometric Transforms
//
// Translate, Rotate, Shear and the reflections are expressed as 2x3 affine
// coefficient matrices and applied with WarpAffine, which maps every output
// pixel center back into the source and samples it with bilinear
// interpolation. Output pixels that fall outside the source are black.
// Scale resamples with a linear filter, and Crop copies a sub-grid exactly.
//
// Pixel centers sit at half-integer coordinates, so a reflection about the
// full width maps column x onto column W-1-x without resampling and applying
// it twice restores the input exactly.
//
// # Filters
//
// The convolution filters (Sharpen, BoxBlur, GaussianSmooth), the rank filters
// (Erode, Dilate, Median, Midpoint), and the mean filter preserve the channel
// count. Laplacian and Sobel return signed float responses. Canny and
// Threshold convert to grayscale first and return a binary single-channel
// raster holding only 0 and 255.
//
// Borders are handled by replicating the outermost pixels.
package imaging
