package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/api/dto"
	"store-route-optimizer/internal/services"
)

type OptimizeHandler struct {
	Deps services.OptimizeDeps
}

// Optimize runs the single coarse-grained engine operation: load a store
// layout, compute the all-pairs matrices, solve the tour and reconstruct
// the route.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	storeID := strings.TrimSpace(req.StoreID)
	if storeID == "" {
		writeError(w, r, http.StatusBadRequest, "store_id is required")
		return
	}

	threshold := req.DistanceThreshold
	if threshold == 0 {
		threshold = math.Inf(1)
	}
	if threshold < 0 {
		writeError(w, r, http.StatusBadRequest, "distance_threshold must be non-negative")
		return
	}

	svcReq := services.OptimizeRequest{
		StoreID:           storeID,
		DistanceThreshold: threshold,
		UsePathCache:      req.UseCache,
	}

	res, err := services.OptimizeTour(r.Context(), svcReq, h.Deps)
	if err != nil {
		var invalid *services.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, r, http.StatusUnprocessableEntity, invalid.Error())
			return
		}
		var gap *services.ReconstructionGapError
		if errors.As(err, &gap) {
			writeError(w, r, http.StatusUnprocessableEntity, gap.Error())
			return
		}
		logrus.Errorf("optimize failed store=%s err=%v", storeID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		Tour:          res.Tour,
		TotalDistance: res.TotalDistance,
		Route:         res.Route,
		POICount:      res.POICount,
		CellSize:      res.CellSize,
		UsedFallback:  res.UsedFallback,
	})
}
