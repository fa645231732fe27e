package ports

import "store-route-optimizer/internal/domain"

// Port: persistence for a complete all-pairs path computation.
//
// A cache entry is only valid for one exact grid: Load must return
// ok=false (a miss, not an error) whenever the stored fingerprint, POI
// count, or format differs from what the caller expects. The caller then
// recomputes from scratch; a cache is never partially trusted.
type PathCache interface {
	// Persist both matrices for the given grid fingerprint.
	Save(fingerprint uint64, distances *domain.DistanceMatrix, paths *domain.PathMatrix) error
	// Load a previously saved computation, or report a miss.
	Load(fingerprint uint64, poiCount int) (*domain.DistanceMatrix, *domain.PathMatrix, bool, error)
}
