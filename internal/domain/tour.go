package domain

// An ordering of POIs to visit, as indices into Grid.POIs.
//
// A non-trivial tour always starts at index 0 and closes back to it, so a
// full tour over n POIs has n+1 entries. TotalDistance is the matrix cost
// of the tour in cell units.
type Tour struct {
	Order         []int
	TotalDistance float64
}

// The fully expanded, point-by-point walk corresponding to a Tour, with
// junction points between consecutive segments de-duplicated. TotalCost is
// the accumulated integer step cost.
type Route struct {
	Points    []Point
	TotalCost int
}
