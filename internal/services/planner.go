package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/domain"
	"store-route-optimizer/internal/ports"
)

// poiPair is one unordered POI pair scheduled for pathfinding.
type poiPair struct {
	i, j int
}

// ComputeAllPaths builds the complete distance and path matrices for every
// POI pair of the grid.
//
// Pairs whose straight-line Euclidean distance exceeds threshold are
// skipped entirely: their distance stays +Inf and no segment is stored,
// since pairs that far apart are not worth full pathfinding for tour
// construction. The diagonal is always
// a trivial zero-cost segment and is never thresholded. Both directions of
// a computed pair reference the same segment.
//
// When a cache is supplied, a valid entry for the grid's fingerprint and
// POI count short-circuits all computation; otherwise the fresh result is
// persisted before returning (a failed write is logged, never fatal).
func ComputeAllPaths(
	ctx context.Context,
	grid *domain.Grid,
	threshold float64,
	cache ports.PathCache,
) (*domain.DistanceMatrix, *domain.PathMatrix, error) {
	n := len(grid.POIs)
	fingerprint := grid.Fingerprint()

	if cache != nil {
		dm, pm, ok, err := cache.Load(fingerprint, n)
		if err != nil {
			return nil, nil, fmt.Errorf("compute all paths: load cache: %w", err)
		}
		if ok {
			logrus.Debugf("path cache hit fingerprint=%016x poi_count=%d", fingerprint, n)
			return dm, pm, nil
		}
	}

	dm := domain.NewDistanceMatrix(n)
	pm := domain.NewPathMatrix(n)

	// Diagonal first: a POI trivially reaches itself.
	for i, p := range grid.POIs {
		dm.Set(i, i, 0)
		pm.Set(i, i, domain.NewTrivialSegment(p))
	}

	pairs := make([]poiPair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if grid.EuclideanDistance(grid.POIs[i], grid.POIs[j]) > threshold {
				continue
			}
			pairs = append(pairs, poiPair{i: i, j: j})
		}
	}

	// Pairs are independent and each writes a disjoint pair of write-once
	// matrix cells, so the pool needs no locking.
	sem := make(chan struct{}, 8)
	errCh := make(chan error, len(pairs))
	var wg sync.WaitGroup

	for _, pair := range pairs {
		wg.Add(1)
		go func(p poiPair) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			seg, err := FindPath(grid, grid.POIs[p.i], grid.POIs[p.j])
			if err != nil {
				if errors.Is(err, ErrUnreachable) {
					// Recorded as +Inf / absent; only fatal if the tour
					// later needs this edge.
					return
				}
				errCh <- fmt.Errorf("compute all paths: pair (%d,%d): %w", p.i, p.j, err)
				return
			}

			dm.SetSymmetric(p.i, p.j, float32(seg.Cost))
			pm.SetSymmetric(p.i, p.j, seg)
		}(pair)
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("compute all paths: %w", err)
	}

	if cache != nil {
		if err := cache.Save(fingerprint, dm, pm); err != nil {
			logrus.Warnf("path cache write failed fingerprint=%016x err=%v", fingerprint, err)
		}
	}

	return dm, pm, nil
}
