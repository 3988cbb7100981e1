package pipeline

import "fmt"

// State names a pipeline stage. A run passes through the states in order.
type State int

// Pipeline stages. Cascade runs skip the contour states and go from
// Grayscaled to CandidateSelected.
const (
	// Loaded: the input raster is valid.
	Loaded State = iota
	// Grayscaled: luma conversion and smoothing are done.
	Grayscaled
	// EdgeDetected: Canny produced the binary edge map.
	EdgeDetected
	// ContoursExtracted: every border of the edge map has been traced.
	ContoursExtracted
	// CandidateSelected: a plate quadrilateral or cascade boxes were found.
	CandidateSelected
	// MaskExtracted: everything outside the candidate is zeroed.
	MaskExtracted
	// Thresholded: the plate region is binarized for OCR.
	Thresholded
	// Recognized: OCR has run.
	Recognized
	// Presented: the result was printed or displayed.
	Presented
)

var stateNames = [...]string{
	Loaded:            "loaded",
	Grayscaled:        "grayscaled",
	EdgeDetected:      "edge_detected",
	ContoursExtracted: "contours_extracted",
	CandidateSelected: "candidate_selected",
	MaskExtracted:     "mask_extracted",
	Thresholded:       "thresholded",
	Recognized:        "recognized",
	Presented:         "presented",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StageError reports the stage a run failed in.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
