package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"store-route-optimizer/internal/domain"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLayoutsQuery := `
	CREATE TABLE IF NOT EXISTS store_layouts (
		store_id  TEXT PRIMARY KEY,
		width     INTEGER NOT NULL,
		height    INTEGER NOT NULL,
		cell_size REAL NOT NULL,
		cells     BYTEA NOT NULL,
		pois      JSONB NOT NULL
	);
	`

	if _, err := tx.Exec(createLayoutsQuery); err != nil {
		return fmt.Errorf("init schema: create store_layouts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LayoutSeed is one store layout in a seed file. Rows use '.' for free
// cells, '#' for obstacles and 'P' for points of interest; POI index order
// follows a row-major scan, matching how layouts are digitized.
type LayoutSeed struct {
	StoreID  string   `json:"store_id"`
	CellSize float32  `json:"cell_size"`
	Rows     []string `json:"rows"`
}

// Populate the database with layout data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed layouts: read %q: %w", jsonPath, err)
	}

	var data []LayoutSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed layouts: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed layouts: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO store_layouts (store_id, width, height, cell_size, cells, pois)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (store_id) DO UPDATE
	SET width = EXCLUDED.width,
		height = EXCLUDED.height,
		cell_size = EXCLUDED.cell_size,
		cells = EXCLUDED.cells,
		pois = EXCLUDED.pois;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed layouts: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, seed := range data {
		storeID := strings.TrimSpace(seed.StoreID)
		if storeID == "" {
			return fmt.Errorf("seed layouts: item %d: store_id cannot be empty", i+1)
		}

		grid, err := ParseLayoutRows(seed.Rows, seed.CellSize)
		if err != nil {
			return fmt.Errorf("seed layouts: store %q: %w", storeID, err)
		}

		poiPairs := make([][2]int, len(grid.POIs))
		for j, p := range grid.POIs {
			poiPairs[j] = [2]int{p.X, p.Y}
		}
		poiJSON, err := json.Marshal(poiPairs)
		if err != nil {
			return fmt.Errorf("seed layouts: store %q: marshal pois: %w", storeID, err)
		}

		if _, err := stmt.Exec(storeID, grid.Width, grid.Height, grid.CellSize, cellsToBytes(grid.Cells), poiJSON); err != nil {
			return fmt.Errorf("seed layouts: insert store %q: %w", storeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed layouts: commit tx: %w", err)
	}

	return nil
}

// ParseLayoutRows converts the textual row form into a grid, collecting
// POIs in row-major scan order.
func ParseLayoutRows(rows []string, cellSize float32) (*domain.Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New("parse layout: no rows")
	}
	if cellSize <= 0 {
		cellSize = 1.0
	}

	width := len(rows[0])
	height := len(rows)
	cells := make([]int8, 0, width*height)
	pois := make([]domain.Point, 0, 8)

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parse layout: row %d has %d cells, want %d", y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '.':
				cells = append(cells, domain.CellFree)
			case '#':
				cells = append(cells, domain.CellObstacle)
			case 'P':
				cells = append(cells, domain.CellPOI)
				pois = append(pois, domain.Point{X: x, Y: y})
			default:
				return nil, fmt.Errorf("parse layout: row %d col %d: unknown cell %q", y, x, string(c))
			}
		}
	}

	return &domain.Grid{
		Width:    width,
		Height:   height,
		Cells:    cells,
		CellSize: cellSize,
		POIs:     pois,
	}, nil
}
