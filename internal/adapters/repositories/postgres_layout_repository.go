package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"store-route-optimizer/internal/domain"
	"store-route-optimizer/internal/platform/obs"
)

// Postgres-backed implementation of the LayoutRepository port.
//
// Cell buffers are stored as bytea (one byte per cell, two's complement)
// and POIs as a jsonb array of [x, y] pairs, index order preserved.
type PostgresLayoutRepository struct{ DB *sql.DB }

func NewPostgresLayoutRepository(db *sql.DB) *PostgresLayoutRepository {
	return &PostgresLayoutRepository{DB: db}
}

// GetLayout returns the fully populated grid for one store.
func (r *PostgresLayoutRepository) GetLayout(ctx context.Context, storeID string) (_ *domain.Grid, err error) {
	defer obs.Time(ctx, "repositories.GetLayout")(&err)

	if r.DB == nil {
		return nil, errors.New("layout repository: DB is nil")
	}
	if storeID == "" {
		return nil, errors.New("get layout: store id must not be empty")
	}

	query := `
	SELECT width, height, cell_size, cells, pois
	FROM store_layouts
	WHERE store_id = $1;
	`

	var (
		width, height int
		cellSize      float32
		cellBytes     []byte
		poiJSON       []byte
	)
	row := r.DB.QueryRowContext(ctx, query, storeID)
	if err := row.Scan(&width, &height, &cellSize, &cellBytes, &poiJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get layout: no layout for store %q", storeID)
		}
		return nil, fmt.Errorf("get layout: query store_layouts: %w", err)
	}

	var poiPairs [][2]int
	if err := json.Unmarshal(poiJSON, &poiPairs); err != nil {
		return nil, fmt.Errorf("get layout: parse pois for store %q: %w", storeID, err)
	}
	pois := make([]domain.Point, len(poiPairs))
	for i, p := range poiPairs {
		pois[i] = domain.Point{X: p[0], Y: p[1]}
	}

	grid := &domain.Grid{
		Width:    width,
		Height:   height,
		Cells:    bytesToCells(cellBytes),
		CellSize: cellSize,
		POIs:     pois,
	}

	// Structural problems in stored data are input-validation errors and
	// must surface before any pathfinding starts.
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("get layout: store %q: %w", storeID, err)
	}

	return grid, nil
}

func bytesToCells(b []byte) []int8 {
	cells := make([]int8, len(b))
	for i, v := range b {
		cells[i] = int8(v)
	}
	return cells
}

func cellsToBytes(cells []int8) []byte {
	b := make([]byte, len(cells))
	for i, v := range cells {
		b[i] = byte(v)
	}
	return b
}
