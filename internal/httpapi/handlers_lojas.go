package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/radarobras/radar_api/internal/lojas"
)

type LojasService interface {
	Create(ctx context.Context, name string, neighborhoods []string) (*lojas.Loja, error)
	GetByID(ctx context.Context, id string) (*lojas.Loja, error)
	List(ctx context.Context) ([]*lojas.Loja, error)
	Rename(ctx context.Context, id, name string) (*lojas.Loja, error)
	AddNeighborhood(ctx context.Context, id, neighborhood string) (*lojas.Loja, error)
	RemoveNeighborhood(ctx context.Context, id, neighborhood string) (*lojas.Loja, error)
}

type LojasHandler struct {
	Service LojasService
}

// Create Loja
// @Summary Create loja (admin)
// @Tags lojas
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param body body LojaCreateDTO true "loja"
// @Success 201 {object} lojas.Loja
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 500 {string} string
// @Router /lojas [post]
func (h *LojasHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LojaCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loja, err := h.Service.Create(r.Context(), req.Name, req.Neighborhoods)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(loja)
}

// List Lojas
// @Summary List lojas
// @Tags lojas
// @Produce json
// @Security SessionAuth
// @Success 200 {array} lojas.Loja
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /lojas [get]
func (h *LojasHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetByID Loja
// @Summary Get loja by id
// @Tags lojas
// @Produce json
// @Security SessionAuth
// @Param id path string true "loja id"
// @Success 200 {object} lojas.Loja
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /lojas/{id} [get]
func (h *LojasHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	loja, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loja)
}

// Rename Loja
// @Summary Rename loja (admin)
// @Tags lojas
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "loja id"
// @Param body body LojaRenameDTO true "name"
// @Success 200 {object} lojas.Loja
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /lojas/{id} [put]
func (h *LojasHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req LojaRenameDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loja, err := h.Service.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loja)
}

// AddNeighborhood Loja
// @Summary Add neighborhood to loja (admin)
// @Tags lojas
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "loja id"
// @Param body body NeighborhoodDTO true "neighborhood"
// @Success 200 {object} lojas.Loja
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /lojas/{id}/neighborhoods [post]
func (h *LojasHandler) AddNeighborhood(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req NeighborhoodDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loja, err := h.Service.AddNeighborhood(r.Context(), id, req.Neighborhood)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loja)
}

// RemoveNeighborhood Loja
// @Summary Remove neighborhood from loja (admin)
// @Tags lojas
// @Produce json
// @Security SessionAuth
// @Param id path string true "loja id"
// @Param neighborhood query string true "neighborhood"
// @Success 200 {object} lojas.Loja
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /lojas/{id}/neighborhoods [delete]
func (h *LojasHandler) RemoveNeighborhood(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	neighborhood := strings.TrimSpace(r.URL.Query().Get("neighborhood"))

	loja, err := h.Service.RemoveNeighborhood(r.Context(), id, neighborhood)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loja)
}
