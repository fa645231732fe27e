package dto

type OptimizeRequest struct {
	StoreID           string  `json:"store_id"`
	DistanceThreshold float64 `json:"distance_threshold"`
	UseCache          bool    `json:"use_cache"`
}

type OptimizeResponse struct {
	Tour          []int    `json:"tour"`
	TotalDistance float64  `json:"total_distance"`
	Route         [][2]int `json:"route"`
	POICount      int      `json:"poi_count"`
	CellSize      float32  `json:"cell_size"`
	UsedFallback  bool     `json:"used_fallback"`
}
