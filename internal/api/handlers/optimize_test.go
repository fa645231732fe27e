package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"store-route-optimizer/internal/domain"
	"store-route-optimizer/internal/ports"
	"store-route-optimizer/internal/services"
)

type emptyLayoutRepo struct{}

func (emptyLayoutRepo) GetLayout(ctx context.Context, storeID string) (*domain.Grid, error) {
	return nil, fmt.Errorf("no layout for store %q", storeID)
}

type noopBackend struct{}

func (noopBackend) Name() string { return "noop" }

func (noopBackend) Solve(ctx context.Context, distances *domain.DistanceMatrix) (*domain.Tour, error) {
	return &domain.Tour{}, nil
}

func newTestHandler() *OptimizeHandler {
	return &OptimizeHandler{Deps: services.OptimizeDeps{
		Repo:     emptyLayoutRepo{},
		Backends: []ports.TourSolverBackend{noopBackend{}},
	}}
}

func doOptimize(t *testing.T, method, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/optimize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestHandler().Optimize(rec, req)
	return rec
}

func TestOptimizeRejectsWrongMethod(t *testing.T) {
	rec := doOptimize(t, http.MethodGet, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestOptimizeRejectsUnknownFields(t *testing.T) {
	rec := doOptimize(t, http.MethodPost, `{"store_id":"s1","surprise":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOptimizeRejectsTrailingData(t *testing.T) {
	rec := doOptimize(t, http.MethodPost, `{"store_id":"s1"}{"store_id":"s2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOptimizeRequiresStoreID(t *testing.T) {
	rec := doOptimize(t, http.MethodPost, `{"store_id":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOptimizeRejectsNegativeThreshold(t *testing.T) {
	rec := doOptimize(t, http.MethodPost, `{"store_id":"s1","distance_threshold":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOptimizeUnknownStoreIsUnprocessable(t *testing.T) {
	rec := doOptimize(t, http.MethodPost, `{"store_id":"ghost"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q, want application/json", ct)
	}
}
