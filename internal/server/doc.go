// Package server implements the MCP (Model Context Protocol) server for the
// vision tools.
//
// The server exposes the raster operations and the plate reading pipeline
// as MCP tools over stdio, using the official Go SDK. It's designed to work
// with Claude and other MCP-compatible clients.
//
// # Available Tools
//
// Image Information:
//   - image_info: Get width, height, channels and file size
//
// Geometric Transforms:
//   - image_translate: Shift by (dx, dy)
//   - image_rotate: Rotate about the center, counter-clockwise in degrees
//   - image_scale: Resize by a factor or to an explicit size
//   - image_shear: Shear by (kx, ky)
//   - image_reflect: Mirror horizontally, vertically or both
//   - image_crop: Extract a rectangle or a named region
//
// Filtering:
//   - image_filter: Apply a named filter (sharpen, gaussian, median, canny, ...)
//   - image_threshold: Binarize at a cutoff
//
// License Plates:
//   - plate_localize: Find the plate quadrilateral by contours
//   - plate_read: Localize by contours and read the plate with OCR
//   - plate_read_cascade: Propose plates with a Haar cascade and read them
//   - ocr_info: Report OCR engine availability
//
// # Results
//
// Tool results are JSON text content. Images are returned base64-encoded as
// PNG in an image_base64 field, or written to output_path when one is given.
// Failed calls return a result with IsError set and the error text.
//
// # Image Caching
//
// Input images are cached by path and reused across tool calls. The cache
// persists for the lifetime of the server process.
//
// # Usage
//
//	srv, err := server.New(server.Options{Config: cfg, Logger: logger})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
