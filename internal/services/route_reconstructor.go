package services

import (
	"fmt"

	"store-route-optimizer/internal/domain"
)

// ReconstructionGapError reports that the chosen tour needs an edge whose
// segment was never computed (pruned by the distance threshold or
// unreachable). The route is incomplete and the request must fail with the
// offending POI indices rather than silently skip the gap.
type ReconstructionGapError struct {
	From int
	To   int
}

func (e *ReconstructionGapError) Error() string {
	return fmt.Sprintf("route reconstruction: no stored path between poi %d and poi %d", e.From, e.To)
}

// ReconstructRoute expands a tour into one continuous sequence of grid
// points using the path matrix.
//
// Each consecutive tour pair contributes its segment's points, dropping
// the first point of every segment after the first so junction points are
// not duplicated. Because both directions of a pair share one stored
// segment, each edge is re-oriented to start at its tour source before it
// is appended. Costs accumulate across edges.
func ReconstructRoute(tour *domain.Tour, paths *domain.PathMatrix, pois []domain.Point) (*domain.Route, error) {
	route := &domain.Route{Points: make([]domain.Point, 0, 64)}

	if len(tour.Order) < 2 {
		if len(tour.Order) == 1 {
			route.Points = append(route.Points, pois[tour.Order[0]])
		}
		return route, nil
	}

	for i := 0; i+1 < len(tour.Order); i++ {
		from, to := tour.Order[i], tour.Order[i+1]
		seg := paths.At(from, to)
		if seg == nil {
			return nil, &ReconstructionGapError{From: from, To: to}
		}

		points := orientSegment(seg, pois[from])
		if i > 0 {
			points = points[1:]
		}
		route.Points = append(route.Points, points...)
		route.TotalCost += seg.Cost
	}

	return route, nil
}

// orientSegment returns the segment's points running away from source.
// The shared symmetric segment is stored in one direction only; the
// reversed view is materialized here without touching the original.
func orientSegment(seg *domain.PathSegment, source domain.Point) []domain.Point {
	if seg.Source() == source || len(seg.Points) < 2 {
		return seg.Points
	}
	out := make([]domain.Point, len(seg.Points))
	for i, p := range seg.Points {
		out[len(out)-1-i] = p
	}
	return out
}
