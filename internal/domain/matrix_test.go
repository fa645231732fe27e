package domain

import (
	"math"
	"testing"
)

func TestDistanceMatrixStartsAtInfinity(t *testing.T) {
	m := NewDistanceMatrix(3)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !math.IsInf(float64(m.At(i, j)), 1) {
				t.Fatalf("entry (%d,%d) should start at +Inf, got %v", i, j, m.At(i, j))
			}
		}
	}
}

func TestDistanceMatrixSetSymmetric(t *testing.T) {
	m := NewDistanceMatrix(3)
	m.SetSymmetric(0, 2, 7)

	if m.At(0, 2) != 7 || m.At(2, 0) != 7 {
		t.Fatalf("symmetric write failed: (0,2)=%v (2,0)=%v", m.At(0, 2), m.At(2, 0))
	}
	if !math.IsInf(float64(m.At(0, 1)), 1) {
		t.Fatal("untouched entry must stay +Inf")
	}
}

func TestPathMatrixSharesSegment(t *testing.T) {
	m := NewPathMatrix(2)
	seg := &PathSegment{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, Cost: 1}
	m.SetSymmetric(0, 1, seg)

	if m.At(0, 1) != m.At(1, 0) {
		t.Fatal("both directions must reference the same segment")
	}
	if m.At(0, 0) != nil {
		t.Fatal("diagonal should stay nil until the planner fills it")
	}
}
