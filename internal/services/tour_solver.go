package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/domain"
	"store-route-optimizer/internal/ports"
)

// SolveTour computes a visiting order over the distance matrix.
//
// Backends are tried in order; the first success wins. Any backend failure
// (solver not installed, timeout, bad exit, unparsable output) is logged
// as a degraded-mode notice and the next backend is tried. The caller is
// expected to put the deterministic nearest-neighbor backend last so a
// tour is always produced; usedFallback reports whether the first backend
// was the one that succeeded.
//
// Fewer than two POIs short-circuits to a trivial tour without invoking
// any backend.
func SolveTour(
	ctx context.Context,
	distances *domain.DistanceMatrix,
	backends ...ports.TourSolverBackend,
) (tour *domain.Tour, usedFallback bool, err error) {
	n := distances.Size()
	if n < 2 {
		order := make([]int, 0, 1)
		if n == 1 {
			order = append(order, 0)
		}
		return &domain.Tour{Order: order, TotalDistance: 0}, false, nil
	}

	if len(backends) == 0 {
		return nil, false, errors.New("solve tour: no backends configured")
	}

	for i, backend := range backends {
		t, solveErr := backend.Solve(ctx, distances)
		if solveErr != nil {
			logrus.Warnf("tour backend failed backend=%s err=%v", backend.Name(), solveErr)
			continue
		}
		return t, i > 0, nil
	}

	return nil, false, errors.New("solve tour: all backends failed")
}
