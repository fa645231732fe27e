package services

import (
	"container/heap"
	"errors"
	"fmt"

	"store-route-optimizer/internal/domain"
)

// ErrUnreachable reports that no route exists between two navigable cells.
// Callers treat it as a pathfinding gap, not a failure of the search.
var ErrUnreachable = errors.New("no route between points")

// The four axis directions of the Manhattan step metric: E, N, W, S.
var directions = [4]domain.Point{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}

// A jump point on the A* frontier. Parent links are at jump-point
// granularity; the straight runs between them are re-expanded when the
// final segment is built.
type jumpNode struct {
	pos    domain.Point
	g      int
	f      int
	parent *jumpNode
	index  int
}

// Min-heap over f cost. Lower g wins ties so finished paths surface first.
type jumpQueue []*jumpNode

func (q jumpQueue) Len() int { return len(q) }
func (q jumpQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].g > q[j].g
}
func (q jumpQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *jumpQueue) Push(x any) {
	n := x.(*jumpNode)
	n.index = len(*q)
	*q = append(*q, n)
}
func (q *jumpQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// FindPath computes a shortest obstacle-avoiding path between two cells
// using a 4-direction jump point search.
//
// The search runs A* over jump points with a Manhattan heuristic, which is
// consistent for the unit step cost, so the returned cost is the minimal
// achievable one. Straight-line scans are iterative and every finalized
// point goes into a closed set, so no point is ever revisited. A pair of
// navigable cells with no route between them yields ErrUnreachable;
// non-navigable endpoints are an input error.
func FindPath(grid *domain.Grid, start, goal domain.Point) (*domain.PathSegment, error) {
	if !grid.IsNavigable(start) {
		return nil, fmt.Errorf("find path: start (%d,%d) is not navigable", start.X, start.Y)
	}
	if !grid.IsNavigable(goal) {
		return nil, fmt.Errorf("find path: goal (%d,%d) is not navigable", goal.X, goal.Y)
	}

	if start == goal {
		return domain.NewTrivialSegment(start), nil
	}

	open := make(jumpQueue, 0, 64)
	openByPos := make(map[domain.Point]*jumpNode)
	closed := make(map[domain.Point]struct{})

	root := &jumpNode{pos: start, g: 0, f: grid.ManhattanDistance(start, goal)}
	heap.Push(&open, root)
	openByPos[start] = root

	for open.Len() > 0 {
		cur := heap.Pop(&open).(*jumpNode)
		delete(openByPos, cur.pos)
		closed[cur.pos] = struct{}{}

		if cur.pos == goal {
			return expandSegment(cur, start), nil
		}

		for _, dir := range successorDirections(cur) {
			jp, dist, ok := jumpScan(grid, cur.pos, dir, goal)
			if !ok {
				continue
			}
			if _, done := closed[jp]; done {
				continue
			}

			tentative := cur.g + dist
			if known, seen := openByPos[jp]; seen {
				if tentative < known.g {
					known.g = tentative
					known.f = tentative + grid.ManhattanDistance(jp, goal)
					known.parent = cur
					heap.Fix(&open, known.index)
				}
				continue
			}

			n := &jumpNode{
				pos:    jp,
				g:      tentative,
				f:      tentative + grid.ManhattanDistance(jp, goal),
				parent: cur,
			}
			heap.Push(&open, n)
			openByPos[jp] = n
		}
	}

	return nil, ErrUnreachable
}

// successorDirections prunes only the direction pointing straight back at
// the parent; the closed set makes wider pruning unnecessary for
// correctness.
func successorDirections(n *jumpNode) []domain.Point {
	if n.parent == nil {
		return directions[:]
	}
	back := domain.Point{X: sign(n.parent.pos.X - n.pos.X), Y: sign(n.parent.pos.Y - n.pos.Y)}
	out := make([]domain.Point, 0, 3)
	for _, d := range directions {
		if d != back {
			out = append(out, d)
		}
	}
	return out
}

// jumpScan walks from the cell after `from` in direction d until it finds
// the next jump point. The scan stops at the goal, at goal row/column
// alignment (so the search can turn toward the goal), at any cell where a
// perpendicular turn first opens up past an obstacle (forced-neighbor
// rule), or at the last free cell before a blocked one. ok is false when
// the very first step is blocked.
func jumpScan(grid *domain.Grid, from, d, goal domain.Point) (domain.Point, int, bool) {
	p := from
	dist := 0
	for {
		next := domain.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if !grid.IsNavigable(next) {
			if dist == 0 {
				return domain.Point{}, 0, false
			}
			return p, dist, true
		}
		prev := p
		p = next
		dist++

		if p == goal {
			return p, dist, true
		}
		if p.X == goal.X || p.Y == goal.Y {
			return p, dist, true
		}
		if hasForcedNeighbor(grid, prev, p, d) {
			return p, dist, true
		}
	}
}

// hasForcedNeighbor reports whether p opens a turn that prev did not
// have: a perpendicular neighbor of prev is an obstacle while the same
// side of p is free. Any optimal path that has to turn mid-scan can be
// rearranged to turn at such a cell (or at the scan origin), so these
// are the only mid-scan cells that need to become jump points.
func hasForcedNeighbor(grid *domain.Grid, prev, p, d domain.Point) bool {
	var offsets [2]domain.Point
	if d.X != 0 {
		offsets = [2]domain.Point{{Y: 1}, {Y: -1}}
	} else {
		offsets = [2]domain.Point{{X: 1}, {X: -1}}
	}
	for _, o := range offsets {
		behind := domain.Point{X: prev.X + o.X, Y: prev.Y + o.Y}
		beside := domain.Point{X: p.X + o.X, Y: p.Y + o.Y}
		if isObstacleInBounds(grid, behind) && grid.IsNavigable(beside) {
			return true
		}
	}
	return false
}

func isObstacleInBounds(grid *domain.Grid, p domain.Point) bool {
	if p.X < 0 || p.X >= grid.Width || p.Y < 0 || p.Y >= grid.Height {
		return false
	}
	return grid.Cell(p) == domain.CellObstacle
}

// expandSegment rebuilds the full point-by-point path from the jump-point
// parent chain. Consecutive jump points always share a row or column, so
// the runs between them are straight unit steps.
func expandSegment(goalNode *jumpNode, start domain.Point) *domain.PathSegment {
	waypoints := make([]domain.Point, 0, 16)
	for n := goalNode; n != nil; n = n.parent {
		waypoints = append(waypoints, n.pos)
	}
	reversePoints(waypoints)

	points := make([]domain.Point, 0, goalNode.g+1)
	points = append(points, start)
	for i := 1; i < len(waypoints); i++ {
		prev, next := waypoints[i-1], waypoints[i]
		step := domain.Point{X: sign(next.X - prev.X), Y: sign(next.Y - prev.Y)}
		for p := prev; p != next; {
			p = domain.Point{X: p.X + step.X, Y: p.Y + step.Y}
			points = append(points, p)
		}
	}

	return &domain.PathSegment{Points: points, Cost: goalNode.g}
}

func reversePoints(ps []domain.Point) {
	for i, j := 0, len(ps)-1; i < j; i, j = i+1, j-1 {
		ps[i], ps[j] = ps[j], ps[i]
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
