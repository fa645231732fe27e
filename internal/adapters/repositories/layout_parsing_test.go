package repositories

import (
	"testing"

	"store-route-optimizer/internal/domain"
)

func TestParseLayoutRows(t *testing.T) {
	grid, err := ParseLayoutRows([]string{
		"P.#",
		"..P",
	}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid.Width != 3 || grid.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", grid.Width, grid.Height)
	}
	if grid.CellSize != 0.5 {
		t.Fatalf("cell size = %v, want 0.5", grid.CellSize)
	}

	wantCells := []int8{
		domain.CellPOI, domain.CellFree, domain.CellObstacle,
		domain.CellFree, domain.CellFree, domain.CellPOI,
	}
	for i, c := range wantCells {
		if grid.Cells[i] != c {
			t.Fatalf("cell %d = %d, want %d", i, grid.Cells[i], c)
		}
	}

	// Row-major scan order fixes poi indices.
	wantPOIs := []domain.Point{{X: 0, Y: 0}, {X: 2, Y: 1}}
	if len(grid.POIs) != len(wantPOIs) {
		t.Fatalf("pois = %v, want %v", grid.POIs, wantPOIs)
	}
	for i, p := range wantPOIs {
		if grid.POIs[i] != p {
			t.Fatalf("poi %d = %v, want %v", i, grid.POIs[i], p)
		}
	}

	if err := grid.Validate(); err != nil {
		t.Fatalf("parsed grid must validate: %v", err)
	}
}

func TestParseLayoutRowsDefaultsCellSize(t *testing.T) {
	grid, err := ParseLayoutRows([]string{".."}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.CellSize != 1.0 {
		t.Fatalf("cell size = %v, want 1.0", grid.CellSize)
	}
}

func TestParseLayoutRowsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"ragged rows", []string{"...", ".."}},
		{"unknown cell", []string{".X."}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLayoutRows(tc.rows, 1.0); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCellByteRoundTrip(t *testing.T) {
	cells := []int8{domain.CellFree, domain.CellPOI, domain.CellObstacle}

	got := bytesToCells(cellsToBytes(cells))
	if len(got) != len(cells) {
		t.Fatalf("length = %d, want %d", len(got), len(cells))
	}
	for i, c := range cells {
		if got[i] != c {
			t.Fatalf("cell %d = %d, want %d", i, got[i], c)
		}
	}
}
