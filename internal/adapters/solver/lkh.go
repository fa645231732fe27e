package solver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"store-route-optimizer/internal/domain"
)

// Costs are scaled to integers for the TSPLIB format; missing or zero
// off-diagonal entries become a large finite weight so the solver never
// prefers an edge the planner did not compute.
const (
	lkhCostScale   = 1000.0
	lkhMissingCost = 999999
)

// LKH runs the external LKH solver as a subprocess.
//
// The distance matrix is serialized as a TSPLIB problem with explicit
// full-matrix weights into a temp dir, the solver runs under a hard
// wall-clock timeout, and its tour file is parsed back. Every failure mode
// (binary not installed, timeout, non-zero exit, unparsable or incomplete
// tour) surfaces as an error, which the tour solver service turns into a
// fallback to the next backend.
type LKH struct {
	binary    string
	timeLimit time.Duration
}

// NewLKH builds the backend. binary defaults to "LKH" and timeLimit to
// 30 seconds when zero values are passed.
func NewLKH(binary string, timeLimit time.Duration) *LKH {
	if binary == "" {
		binary = "LKH"
	}
	if timeLimit <= 0 {
		timeLimit = 30 * time.Second
	}
	return &LKH{binary: binary, timeLimit: timeLimit}
}

func (s *LKH) Name() string { return "lkh" }

func (s *LKH) Solve(ctx context.Context, distances *domain.DistanceMatrix) (*domain.Tour, error) {
	if _, err := exec.LookPath(s.binary); err != nil {
		return nil, fmt.Errorf("lkh: locate %q: %w", s.binary, err)
	}

	dir, err := os.MkdirTemp("", "lkh-tour-*")
	if err != nil {
		return nil, fmt.Errorf("lkh: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	problemPath := filepath.Join(dir, "problem.tsp")
	paramPath := filepath.Join(dir, "problem.par")
	tourPath := filepath.Join(dir, "solution.tour")

	if err := writeProblemFile(problemPath, distances); err != nil {
		return nil, fmt.Errorf("lkh: %w", err)
	}
	if err := writeParamFile(paramPath, problemPath, tourPath, s.timeLimit); err != nil {
		return nil, fmt.Errorf("lkh: %w", err)
	}

	// Grace period on top of the solver's own TIME_LIMIT; once the
	// context fires the process is killed and the fallback takes over.
	runCtx, cancel := context.WithTimeout(ctx, s.timeLimit+5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.binary, paramPath)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("lkh: run solver: %w", err)
	}

	order, err := parseTourFile(tourPath, distances.Size())
	if err != nil {
		return nil, fmt.Errorf("lkh: %w", err)
	}

	// Recompute the total from our own matrix rather than trusting the
	// solver's integer-scaled restatement.
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += float64(distances.At(order[i], order[i+1]))
	}

	return &domain.Tour{Order: order, TotalDistance: total}, nil
}

func writeProblemFile(path string, distances *domain.DistanceMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create problem file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeProblem(w, distances); err != nil {
		return fmt.Errorf("write problem file: %w", err)
	}
	return w.Flush()
}

// writeProblem emits a TSPLIB instance with explicit full-matrix weights.
func writeProblem(w io.Writer, distances *domain.DistanceMatrix) error {
	n := distances.Size()

	header := fmt.Sprintf(
		"NAME: store_route\nTYPE: TSP\nDIMENSION: %d\nEDGE_WEIGHT_TYPE: EXPLICIT\nEDGE_WEIGHT_FORMAT: FULL_MATRIX\nEDGE_WEIGHT_SECTION\n",
		n,
	)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	row := make([]string, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			row[j] = strconv.Itoa(scaledCost(distances.At(i, j), i == j))
		}
		if _, err := io.WriteString(w, strings.Join(row, " ")+"\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "EOF\n")
	return err
}

func scaledCost(v float32, diagonal bool) int {
	f := float64(v)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return lkhMissingCost
	}
	cost := int(f * lkhCostScale)
	if cost == 0 && !diagonal {
		return lkhMissingCost
	}
	return cost
}

func writeParamFile(path, problemPath, tourPath string, timeLimit time.Duration) error {
	content := fmt.Sprintf(
		"PROBLEM_FILE = %s\nTOUR_FILE = %s\nRUNS = 1\nTIME_LIMIT = %d\nTRACE_LEVEL = 0\n",
		problemPath, tourPath, int(timeLimit.Seconds()),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write param file: %w", err)
	}
	return nil
}

// parseTourFile reads the solver's TOUR_SECTION (1-based node ids,
// terminated by -1), validates a full permutation, and returns a closed
// 0-based tour rotated to start at POI 0.
func parseTourFile(path string, n int) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tour file: %w", err)
	}
	defer f.Close()

	return parseTour(f, n)
}

func parseTour(r io.Reader, n int) ([]int, error) {
	nodes := make([]int, 0, n)
	inTourSection := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !inTourSection {
			if strings.HasPrefix(line, "TOUR_SECTION") {
				inTourSection = true
			}
			continue
		}

		city, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("parse tour: bad node line %q", line)
		}
		if city == -1 {
			break
		}
		if city < 1 || city > n {
			return nil, fmt.Errorf("parse tour: node %d out of range 1..%d", city, n)
		}
		nodes = append(nodes, city-1)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse tour: %w", err)
	}

	if len(nodes) != n {
		return nil, fmt.Errorf("parse tour: got %d nodes, want %d", len(nodes), n)
	}
	seen := make([]bool, n)
	for _, v := range nodes {
		if seen[v] {
			return nil, fmt.Errorf("parse tour: node %d repeated", v+1)
		}
		seen[v] = true
	}

	// Rotate so the tour starts at the anchor POI, then close the loop.
	at := 0
	for i, v := range nodes {
		if v == 0 {
			at = i
			break
		}
	}
	order := make([]int, 0, n+1)
	order = append(order, nodes[at:]...)
	order = append(order, nodes[:at]...)
	order = append(order, 0)

	return order, nil
}
