package domain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Cell states of a store layout grid.
const (
	CellFree     int8 = 0
	CellPOI      int8 = 1
	CellObstacle int8 = -1
)

// A single cell coordinate on the grid.
type Point struct {
	X int
	Y int
}

// Immutable discretized store layout.
//
// Cells is row-major (index y*Width+x). CellSize is the real-world edge
// length of one cell in metres. POIs is the ordered list of points of
// interest; its order defines the indices used by the distance and path
// matrices. A Grid is built once by a layout repository and never mutated
// afterwards, so it is safe to share across goroutines.
type Grid struct {
	Width    int
	Height   int
	Cells    []int8
	CellSize float32
	POIs     []Point
}

// Cell returns the state of the cell at p. Out-of-bounds points are
// reported as obstacles so callers fail closed.
func (g *Grid) Cell(p Point) int8 {
	if p.X < 0 || p.X >= g.Width || p.Y < 0 || p.Y >= g.Height {
		return CellObstacle
	}
	return g.Cells[p.Y*g.Width+p.X]
}

// IsNavigable reports whether p is an in-bounds, non-obstacle cell.
func (g *Grid) IsNavigable(p Point) bool {
	return g.Cell(p) != CellObstacle
}

// Fingerprint hashes the full cell contents plus the POI count.
//
// It is a pure function of the grid's structure: two layouts loaded
// independently from the same source produce the same value, which is what
// makes on-disk path caches reusable across processes. It is not
// cryptographic; it exists only for cache invalidation.
func (g *Grid) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.Write(int8sToBytes(g.Cells))

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(g.POIs)))
	_, _ = h.Write(buf[:])

	return h.Sum64()
}

// EuclideanDistance is the straight-line distance between two cells,
// measured in cell units.
func (g *Grid) EuclideanDistance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanDistance is the 4-connected step distance between two cells.
func (g *Grid) ManhattanDistance(a, b Point) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// Validate checks the structural invariants a planning run relies on.
// It is called once after loading; any failure is a fatal input error and
// no pathfinding is attempted.
func (g *Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("validate grid: invalid dimensions %dx%d", g.Width, g.Height)
	}
	if len(g.Cells) != g.Width*g.Height {
		return fmt.Errorf(
			"validate grid: cell buffer has %d cells, want %d (%dx%d)",
			len(g.Cells), g.Width*g.Height, g.Width, g.Height,
		)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("validate grid: cell size must be positive, got %v", g.CellSize)
	}

	for i, p := range g.POIs {
		if p.X < 0 || p.X >= g.Width || p.Y < 0 || p.Y >= g.Height {
			return fmt.Errorf(
				"validate grid: poi %d at (%d,%d) is outside the %dx%d grid",
				i, p.X, p.Y, g.Width, g.Height,
			)
		}
		switch g.Cell(p) {
		case CellObstacle:
			return fmt.Errorf("validate grid: poi %d at (%d,%d) collides with an obstacle", i, p.X, p.Y)
		case CellPOI:
			// ok
		default:
			return fmt.Errorf("validate grid: poi %d at (%d,%d) is not marked as a poi cell", i, p.X, p.Y)
		}
	}

	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// int8sToBytes reinterprets the cell buffer for hashing. Cell values are
// single bytes, so the conversion is a defined two's-complement view.
func int8sToBytes(cells []int8) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = byte(c)
	}
	return out
}
