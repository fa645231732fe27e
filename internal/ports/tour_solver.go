package ports

import (
	"context"

	"store-route-optimizer/internal/domain"
)

// Port: one strategy for ordering POIs into a closed tour.
//
// A backend receives the precomputed distance matrix and returns a tour
// starting and ending at POI 0. Backends are allowed to fail (an external
// solver may be missing, time out, or emit garbage); selection and
// fallback between backends is the tour solver service's job, not the
// caller's.
type TourSolverBackend interface {
	// Short identifier used in degraded-mode log lines.
	Name() string
	// Compute a closed tour over the matrix.
	Solve(ctx context.Context, distances *domain.DistanceMatrix) (*domain.Tour, error)
}
