package ports

import "context"

// A fully computed optimization outcome, composed of plain values only so
// it can be cached, serialized, and returned across the API boundary.
type OptimizeResult struct {
	Tour          []int    `json:"tour"`
	TotalDistance float64  `json:"total_distance"`
	Route         [][2]int `json:"route"`
	POICount      int      `json:"poi_count"`
	CellSize      float32  `json:"cell_size"`
	Fingerprint   uint64   `json:"fingerprint"`
	UsedFallback  bool     `json:"used_fallback"`
}

// Port: an optional cache of optimization results keyed by grid
// fingerprint and distance threshold. A miss is (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, fingerprint uint64, threshold float64) (*OptimizeResult, bool, error)
	Put(ctx context.Context, fingerprint uint64, threshold float64, res *OptimizeResult) error
}
