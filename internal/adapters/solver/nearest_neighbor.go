package solver

import (
	"context"
	"errors"
	"math"

	"store-route-optimizer/internal/domain"
)

// NearestNeighbor is the deterministic fallback tour backend.
//
// Starting at POI 0, it repeatedly visits the closest unvisited POI by
// the precomputed distance matrix and finally closes the loop back to 0.
// Ties break toward the lowest index so the result is reproducible. It
// never fails on a well-formed matrix: pairs with +Inf distance are still
// visited (picking the first unvisited candidate), leaving the gap to be
// reported by route reconstruction instead of hanging here.
type NearestNeighbor struct{}

func NewNearestNeighbor() *NearestNeighbor { return &NearestNeighbor{} }

func (s *NearestNeighbor) Name() string { return "nearest-neighbor" }

func (s *NearestNeighbor) Solve(ctx context.Context, distances *domain.DistanceMatrix) (*domain.Tour, error) {
	n := distances.Size()
	if n < 1 {
		return nil, errors.New("nearest neighbor: empty distance matrix")
	}

	order := make([]int, 0, n+1)
	visited := make([]bool, n)

	order = append(order, 0)
	visited[0] = true
	total := 0.0

	for len(order) < n {
		current := order[len(order)-1]
		next := -1
		minDist := float32(math.Inf(1))

		// Lowest index wins ties (strict less), so the walk is stable.
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			d := distances.At(current, j)
			if next == -1 || d < minDist {
				next = j
				minDist = d
			}
		}

		order = append(order, next)
		visited[next] = true
		total += float64(minDist)
	}

	// Close the loop back to the anchor POI.
	total += float64(distances.At(order[len(order)-1], 0))
	order = append(order, 0)

	return &domain.Tour{Order: order, TotalDistance: total}, nil
}
