package domain

import (
	"math"
	"testing"
)

func testGrid() *Grid {
	// 4x3, one obstacle at (2,1), POIs at (0,0) and (3,2).
	cells := []int8{
		CellPOI, CellFree, CellFree, CellFree,
		CellFree, CellFree, CellObstacle, CellFree,
		CellFree, CellFree, CellFree, CellPOI,
	}
	return &Grid{
		Width:    4,
		Height:   3,
		Cells:    cells,
		CellSize: 0.5,
		POIs:     []Point{{X: 0, Y: 0}, {X: 3, Y: 2}},
	}
}

func TestGridCellOutOfBounds(t *testing.T) {
	g := testGrid()

	outside := []Point{
		{X: -1, Y: 0},
		{X: 4, Y: 0},
		{X: 0, Y: -1},
		{X: 0, Y: 3},
	}
	for _, p := range outside {
		if g.Cell(p) != CellObstacle {
			t.Fatalf("cell (%d,%d) should read as obstacle", p.X, p.Y)
		}
		if g.IsNavigable(p) {
			t.Fatalf("point (%d,%d) should not be navigable", p.X, p.Y)
		}
	}

	if g.Cell(Point{X: 2, Y: 1}) != CellObstacle {
		t.Fatal("expected obstacle at (2,1)")
	}
	if !g.IsNavigable(Point{X: 1, Y: 1}) {
		t.Fatal("expected (1,1) to be navigable")
	}
}

func TestGridFingerprintDeterministic(t *testing.T) {
	a := testGrid()
	b := testGrid()

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("identical grids must share a fingerprint")
	}
}

func TestGridFingerprintChangesWithCells(t *testing.T) {
	a := testGrid()
	b := testGrid()
	b.Cells[5] = CellObstacle

	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("changing a cell must change the fingerprint")
	}
}

func TestGridFingerprintChangesWithPOICount(t *testing.T) {
	a := testGrid()
	b := testGrid()
	b.POIs = append(b.POIs, Point{X: 1, Y: 1})

	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("changing the poi count must change the fingerprint")
	}
}

func TestGridDistances(t *testing.T) {
	g := testGrid()
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 2}

	if got := g.ManhattanDistance(a, b); got != 5 {
		t.Fatalf("manhattan = %d, want 5", got)
	}
	want := math.Sqrt(13)
	if got := g.EuclideanDistance(a, b); math.Abs(got-want) > 1e-9 {
		t.Fatalf("euclidean = %v, want %v", got, want)
	}
}

func TestGridValidate(t *testing.T) {
	if err := testGrid().Validate(); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Grid)
	}{
		{"zero width", func(g *Grid) { g.Width = 0 }},
		{"cell buffer mismatch", func(g *Grid) { g.Cells = g.Cells[:5] }},
		{"non-positive cell size", func(g *Grid) { g.CellSize = 0 }},
		{"poi out of bounds", func(g *Grid) { g.POIs[0] = Point{X: 9, Y: 0} }},
		{"poi on obstacle", func(g *Grid) { g.POIs[0] = Point{X: 2, Y: 1} }},
		{"poi on unmarked cell", func(g *Grid) { g.POIs[0] = Point{X: 1, Y: 0} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := testGrid()
			tc.mutate(g)
			if err := g.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
