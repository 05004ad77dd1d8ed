package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/radarobras/radar_api/internal/users"
)

type UsersService interface {
	Create(ctx context.Context, req users.CreateUserRequest) (*users.User, error)
	Me(ctx context.Context) (*users.User, error)
	GetByID(ctx context.Context, id string) (*users.User, error)
	List(ctx context.Context, f users.UserFilter) ([]*users.User, error)
	UpdateSelf(ctx context.Context, input users.UpdateUserInput) error
	UpdateByID(ctx context.Context, targetID string, input users.UpdateUserInput) error
	DeleteByID(ctx context.Context, targetID string) error
}

type UsersHandler struct {
	Service UsersService
}

// Create User
// @Summary Create user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param body body UserCreateDTO true "user"
// @Success 201 {object} users.User
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /users [post]
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req UserCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.Service.Create(r.Context(), users.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
		Role:     users.UserRole(req.Role),
		LojaID:   req.LojaID,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}

// Me User
// @Summary Current user
// @Tags users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} users.User
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /users/me [get]
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Me(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// List Users
// @Summary List users
// @Tags users
// @Produce json
// @Security SessionAuth
// @Param q query string false "search"
// @Param loja query string false "loja id"
// @Param role query string false "role"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} users.User
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	f := users.UserFilter{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		LojaID: strings.TrimSpace(r.URL.Query().Get("loja")),
		Role:   users.UserRole(strings.TrimSpace(r.URL.Query().Get("role"))),
	}
	if l := strings.TrimSpace(r.URL.Query().Get("limit")); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			f.Limit = v
		}
	}
	if o := strings.TrimSpace(r.URL.Query().Get("offset")); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			f.Offset = v
		}
	}

	list, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// UpdateMe User
// @Summary Update current user
// @Tags users
// @Accept json
// @Security SessionAuth
// @Param body body UserUpdateDTO true "fields"
// @Success 204
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 500 {string} string
// @Router /users/me [put]
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateSelf(r.Context(), updateInputFromDTO(req)); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Update User
// @Summary Update user (admin)
// @Tags users
// @Accept json
// @Security SessionAuth
// @Param id path string true "user id"
// @Param body body UserUpdateDTO true "fields"
// @Success 204
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /users/{id} [put]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateByID(r.Context(), id, updateInputFromDTO(req)); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete User
// @Summary Delete user (admin)
// @Tags users
// @Security SessionAuth
// @Param id path string true "user id"
// @Success 204
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /users/{id} [delete]
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Service.DeleteByID(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func updateInputFromDTO(req UserUpdateDTO) users.UpdateUserInput {
	return users.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
		Role:     req.Role,
		LojaID:   req.LojaID,
	}
}
