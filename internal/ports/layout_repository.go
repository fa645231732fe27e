package ports

import (
	"context"

	"store-route-optimizer/internal/domain"
)

// Port: a boundary for retrieving store layout grids from a data source.
type LayoutRepository interface {
	// Return the fully populated grid for one store.
	GetLayout(ctx context.Context, storeID string) (*domain.Grid, error)
}
