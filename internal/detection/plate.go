package detection

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/vision-tools/internal/raster"
)

// ErrNoCandidate is returned when none of the ranked contours approximates to
// a quadrilateral.
var ErrNoCandidate = errors.New("no plate candidate found")

// Candidate selection defaults.
const (
	DefaultMaxCandidates = 30
	DefaultEpsilonRatio  = 0.02
	DefaultVertices      = 4
)

// CandidateOptions controls SelectCandidate. Zero fields take the defaults.
type CandidateOptions struct {
	// MaxCandidates is how many of the largest contours are examined.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// EpsilonRatio scales each contour's perimeter into the Douglas-Peucker
	// tolerance.
	EpsilonRatio float64 `json:"epsilon_ratio" yaml:"epsilon_ratio"`

	// Vertices is the vertex count a candidate polygon must have.
	Vertices int `json:"vertices" yaml:"vertices"`
}

func (o CandidateOptions) withDefaults() CandidateOptions {
	if o.MaxCandidates == 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.EpsilonRatio == 0 {
		o.EpsilonRatio = DefaultEpsilonRatio
	}
	if o.Vertices == 0 {
		o.Vertices = DefaultVertices
	}
	return o
}

// Validate reports out-of-range options.
func (o CandidateOptions) Validate() error {
	o = o.withDefaults()
	if o.MaxCandidates < 0 {
		return fmt.Errorf("%w: max_candidates %d cannot be negative", raster.ErrInvalidArgument, o.MaxCandidates)
	}
	if math.IsNaN(o.EpsilonRatio) || math.IsInf(o.EpsilonRatio, 0) || o.EpsilonRatio < 0 {
		return fmt.Errorf("%w: epsilon_ratio %v must be a finite non-negative number", raster.ErrInvalidArgument, o.EpsilonRatio)
	}
	if o.Vertices < 3 {
		return fmt.Errorf("%w: a polygon needs at least 3 vertices, got %d", raster.ErrInvalidArgument, o.Vertices)
	}
	return nil
}

// Candidate is the contour chosen as the plate outline.
type Candidate struct {
	// Contour is the traced border the polygon was derived from.
	Contour Contour `json:"-"`

	// Polygon is the simplified outline with exactly the requested vertices.
	Polygon Contour `json:"polygon"`

	// Area is the shoelace area of Contour.
	Area float64 `json:"area"`

	// Rank is the position of Contour in the area ranking, 0 for the largest.
	Rank int `json:"rank"`
}

// SelectCandidate ranks contours by area, keeps the MaxCandidates largest, and
// returns the first whose approximation has exactly Vertices points.
//
// Returns ErrNoCandidate (wrapped) when no contour qualifies.
func SelectCandidate(contours []Contour, opts CandidateOptions) (*Candidate, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	ranked := RankByArea(contours)
	if len(ranked) > opts.MaxCandidates {
		ranked = ranked[:opts.MaxCandidates]
	}

	for i, c := range ranked {
		poly := approxClosed(c, opts.EpsilonRatio)
		if len(poly) == opts.Vertices {
			return &Candidate{Contour: c, Polygon: poly, Area: c.Area(), Rank: i}, nil
		}
	}
	return nil, fmt.Errorf("%w among %d contours", ErrNoCandidate, len(ranked))
}

// LocateCandidate traces the contours of a binary edge raster and selects the
// plate candidate among them. The traced contours are returned even when
// selection fails.
func LocateCandidate(edges *raster.Raster, opts CandidateOptions) (*Candidate, []Contour, error) {
	contours, err := FindContours(edges)
	if err != nil {
		return nil, nil, err
	}
	cand, err := SelectCandidate(contours, opts)
	return cand, contours, err
}
