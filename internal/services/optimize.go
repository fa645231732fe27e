package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/domain"
	"store-route-optimizer/internal/platform/obs"
	"store-route-optimizer/internal/ports"
)

// InvalidInputError marks fatal input-validation failures (missing or
// malformed layouts, POIs breaking grid invariants). They are reported
// before any pathfinding begins and are never retried.
type InvalidInputError struct{ Err error }

func (e *InvalidInputError) Error() string { return e.Err.Error() }

func (e *InvalidInputError) Unwrap() error { return e.Err }

// OptimizeRequest describes one end-to-end optimization run.
type OptimizeRequest struct {
	StoreID           string
	DistanceThreshold float64
	UsePathCache      bool
}

// OptimizeDeps are the collaborators OptimizeTour is composed from. Repo
// and Backends are required; the caches are optional.
type OptimizeDeps struct {
	Repo        ports.LayoutRepository
	PathCache   ports.PathCache
	ResultCache ports.ResultCache
	Backends    []ports.TourSolverBackend
}

// OptimizeTour is the single coarse-grained engine operation: load a
// layout, build the all-pairs matrices (optionally through the on-disk
// path cache), solve the visiting order, and expand it into a route.
//
// The returned result holds plain values only, no live handles, so it can
// cross the API boundary and the result cache unchanged.
func OptimizeTour(ctx context.Context, req OptimizeRequest, deps OptimizeDeps) (_ *ports.OptimizeResult, err error) {
	defer obs.Time(ctx, "services.OptimizeTour")(&err)

	grid, err := deps.Repo.GetLayout(ctx, req.StoreID)
	if err != nil {
		return nil, &InvalidInputError{Err: fmt.Errorf("optimize tour: load layout %q: %w", req.StoreID, err)}
	}
	if err := grid.Validate(); err != nil {
		return nil, &InvalidInputError{Err: fmt.Errorf("optimize tour: %w", err)}
	}

	fingerprint := grid.Fingerprint()

	if deps.ResultCache != nil {
		cached, ok, cacheErr := deps.ResultCache.Get(ctx, fingerprint, req.DistanceThreshold)
		if cacheErr != nil {
			logrus.Warnf("result cache read failed store=%s err=%v", req.StoreID, cacheErr)
		} else if ok {
			logrus.Debugf("result cache hit store=%s fingerprint=%016x", req.StoreID, fingerprint)
			return cached, nil
		}
	}

	var pathCache ports.PathCache
	if req.UsePathCache {
		pathCache = deps.PathCache
	}

	distances, paths, err := ComputeAllPaths(ctx, grid, req.DistanceThreshold, pathCache)
	if err != nil {
		return nil, fmt.Errorf("optimize tour: %w", err)
	}

	tour, usedFallback, err := SolveTour(ctx, distances, deps.Backends...)
	if err != nil {
		return nil, fmt.Errorf("optimize tour: %w", err)
	}

	route, err := ReconstructRoute(tour, paths, grid.POIs)
	if err != nil {
		return nil, fmt.Errorf("optimize tour: %w", err)
	}

	res := &ports.OptimizeResult{
		Tour:          tour.Order,
		TotalDistance: tour.TotalDistance * float64(grid.CellSize),
		Route:         flattenRoute(route),
		POICount:      len(grid.POIs),
		CellSize:      grid.CellSize,
		Fingerprint:   fingerprint,
		UsedFallback:  usedFallback,
	}

	if deps.ResultCache != nil {
		if cacheErr := deps.ResultCache.Put(ctx, fingerprint, req.DistanceThreshold, res); cacheErr != nil {
			logrus.Warnf("result cache write failed store=%s err=%v", req.StoreID, cacheErr)
		}
	}

	return res, nil
}

func flattenRoute(route *domain.Route) [][2]int {
	out := make([][2]int, len(route.Points))
	for i, p := range route.Points {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}
