package domain

// An ordered sequence of grid points from a source to a destination.
//
// Invariants: the first point is the source, the last is the destination,
// and Cost is the sum of unit step costs along the points (so a segment
// from a point to itself holds exactly that one point with cost 0).
// Segments are read-only after construction; the path matrix stores one
// shared segment for both directions of a pair.
type PathSegment struct {
	Points []Point
	Cost   int
}

// NewTrivialSegment returns the one-point, zero-cost segment used for the
// matrix diagonal and for start == goal lookups.
func NewTrivialSegment(p Point) *PathSegment {
	return &PathSegment{Points: []Point{p}, Cost: 0}
}

// Source returns the first point of the segment.
func (s *PathSegment) Source() Point { return s.Points[0] }

// Destination returns the last point of the segment.
func (s *PathSegment) Destination() Point { return s.Points[len(s.Points)-1] }
