package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// InsuranceHandler serves the read-mostly plan catalog.
type InsuranceHandler struct {
	store *store.Store
}

func NewInsuranceHandler(st *store.Store) *InsuranceHandler {
	return &InsuranceHandler{store: st}
}

// Plans handles GET /api/insurance/plans.
func (h *InsuranceHandler) Plans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := h.store.Plans.Active(ctx)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load insurance plans", "")
		return
	}
	utils.RespondData(w, http.StatusOK, plans)
}

// Stats handles GET /api/insurance/stats: plan count, price range and
// per-category counts for the pricing page.
func (h *InsuranceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := h.store.Plans.Active(ctx)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load insurance plans", "")
		return
	}

	stats := map[string]interface{}{
		"totalPlans": len(plans),
		"categories": map[string]int{},
	}
	categories := stats["categories"].(map[string]int)

	var minPrice, maxPrice float64
	for i, p := range plans {
		if i == 0 || p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
		categories[p.Category]++
	}
	if len(plans) > 0 {
		stats["minPrice"] = minPrice
		stats["maxPrice"] = maxPrice
	}

	utils.RespondData(w, http.StatusOK, stats)
}
