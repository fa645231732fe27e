package domain

import "math"

// Square matrix of pairwise segment costs between POIs, indexed by POI
// position in Grid.POIs. Entries start at +Inf; reachable pairs are filled
// symmetrically by the planner and the matrix is read-only afterwards.
type DistanceMatrix struct {
	n    int
	data []float32
}

func NewDistanceMatrix(poiCount int) *DistanceMatrix {
	data := make([]float32, poiCount*poiCount)
	inf := float32(math.Inf(1))
	for i := range data {
		data[i] = inf
	}
	return &DistanceMatrix{n: poiCount, data: data}
}

// Size returns the number of POIs the matrix covers.
func (m *DistanceMatrix) Size() int { return m.n }

func (m *DistanceMatrix) At(i, j int) float32 { return m.data[i*m.n+j] }

func (m *DistanceMatrix) Set(i, j int, v float32) { m.data[i*m.n+j] = v }

// SetSymmetric writes both directions of a pair in one step.
func (m *DistanceMatrix) SetSymmetric(i, j int, v float32) {
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v
}

// Data exposes the row-major backing storage for serialization.
func (m *DistanceMatrix) Data() []float32 { return m.data }

// Square matrix of path segments, index-aligned with DistanceMatrix.
// A nil entry means the pair was pruned by the distance threshold or is
// unreachable. Both directions of a reachable pair hold the same segment
// pointer; consumers re-orient it as needed instead of copying it.
type PathMatrix struct {
	n    int
	segs []*PathSegment
}

func NewPathMatrix(poiCount int) *PathMatrix {
	return &PathMatrix{n: poiCount, segs: make([]*PathSegment, poiCount*poiCount)}
}

func (m *PathMatrix) Size() int { return m.n }

func (m *PathMatrix) At(i, j int) *PathSegment { return m.segs[i*m.n+j] }

func (m *PathMatrix) Set(i, j int, s *PathSegment) { m.segs[i*m.n+j] = s }

// SetSymmetric stores one segment for both directions of a pair.
func (m *PathMatrix) SetSymmetric(i, j int, s *PathSegment) {
	m.segs[i*m.n+j] = s
	m.segs[j*m.n+i] = s
}
