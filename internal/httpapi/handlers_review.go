package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/radarobras/radar_api/internal/review"
)

type ReviewService interface {
	Run(ctx context.Context) (*review.Result, error)
}

type ReviewHandler struct {
	Service ReviewService
}

// Run Review
// @Summary Run an AI code review over the deployed source (admin)
// @Tags review
// @Produce json
// @Security SessionAuth
// @Success 200 {object} review.Result
// @Failure 403 {string} string
// @Failure 500 {string} string
// @Router /review [post]
func (h *ReviewHandler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Run(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
