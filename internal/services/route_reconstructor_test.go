package services

import (
	"errors"
	"testing"

	"store-route-optimizer/internal/domain"
)

func TestReconstructRouteDeduplicatesJunctions(t *testing.T) {
	pois := []domain.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}
	pm := domain.NewPathMatrix(2)

	seg := &domain.PathSegment{
		Points: []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		Cost:   2,
	}
	pm.SetSymmetric(0, 1, seg)

	tour := &domain.Tour{Order: []int{0, 1, 0}, TotalDistance: 4}
	route, err := ReconstructRoute(tour, pm, pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two 3-point segments sharing one junction: 3 + (3-1) = 5 points.
	want := []domain.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 1, Y: 0}, {X: 0, Y: 0},
	}
	if len(route.Points) != len(want) {
		t.Fatalf("route has %d points, want %d", len(route.Points), len(want))
	}
	for i, p := range want {
		if route.Points[i] != p {
			t.Fatalf("point %d = %v, want %v", i, route.Points[i], p)
		}
	}
	if route.TotalCost != 4 {
		t.Fatalf("total cost = %d, want 4", route.TotalCost)
	}
}

func TestReconstructRouteOrientsSharedSegments(t *testing.T) {
	// The stored segment runs 0 -> 1; the edge 1 -> 0 must walk it
	// backwards without mutating the shared object.
	pois := []domain.Point{{X: 0, Y: 0}, {X: 0, Y: 2}}
	pm := domain.NewPathMatrix(2)

	seg := &domain.PathSegment{
		Points: []domain.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		Cost:   2,
	}
	pm.SetSymmetric(0, 1, seg)

	tour := &domain.Tour{Order: []int{1, 0}}
	route, err := ReconstructRoute(tour, pm, pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.Points[0] != pois[1] {
		t.Fatalf("route starts at %v, want %v", route.Points[0], pois[1])
	}
	if route.Points[len(route.Points)-1] != pois[0] {
		t.Fatalf("route ends at %v, want %v", route.Points[len(route.Points)-1], pois[0])
	}
	if seg.Points[0] != (domain.Point{X: 0, Y: 0}) {
		t.Fatal("the shared segment must not be reversed in place")
	}
}

func TestReconstructRouteReportsGaps(t *testing.T) {
	pois := []domain.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}
	pm := domain.NewPathMatrix(2)

	tour := &domain.Tour{Order: []int{0, 1, 0}}
	_, err := ReconstructRoute(tour, pm, pois)

	var gap *ReconstructionGapError
	if !errors.As(err, &gap) {
		t.Fatalf("want ReconstructionGapError, got %v", err)
	}
	if gap.From != 0 || gap.To != 1 {
		t.Fatalf("gap reported between %d and %d, want 0 and 1", gap.From, gap.To)
	}
}

func TestReconstructRouteTrivialTours(t *testing.T) {
	pois := []domain.Point{{X: 3, Y: 4}}
	pm := domain.NewPathMatrix(1)

	route, err := ReconstructRoute(&domain.Tour{Order: []int{}}, pm, pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Points) != 0 {
		t.Fatalf("empty tour should yield an empty route, got %v", route.Points)
	}

	route, err = ReconstructRoute(&domain.Tour{Order: []int{0}}, pm, pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Points) != 1 || route.Points[0] != pois[0] {
		t.Fatalf("single-poi tour should yield just that poi, got %v", route.Points)
	}
}
