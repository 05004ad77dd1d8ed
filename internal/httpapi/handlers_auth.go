package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/radarobras/radar_api/internal/auth"
	"github.com/radarobras/radar_api/internal/session"
	"github.com/radarobras/radar_api/internal/telemetry"
)

type AuthHandler struct {
	Service *auth.Service
	Cookie  session.CookieConfig
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID           string `json:"userId"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	LojaID           string `json:"lojaId,omitempty"`
	SessionExpiresAt string `json:"sessionExpiresAt"` // RFC3339
}

// Login Auth
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 429 {string} string
// @Failure 500 {string} string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		http.Error(w, "auth not configured", http.StatusInternalServerError)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	res, err := h.Service.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: clientIP(r),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.Cookie.Write(w, res.Session.ID, res.Session.ExpiresAt)

	telemetry.LogInfo(r.Context(), "user login",
		telemetry.LogString("event", "user.login"),
		telemetry.LogString("user.id", res.UserID),
		telemetry.LogString("user.email", res.UserEmail),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{
		UserID:           res.UserID,
		Name:             res.UserName,
		Email:            res.UserEmail,
		Role:             res.UserRole,
		LojaID:           res.LojaID,
		SessionExpiresAt: res.Session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout Auth
// @Summary Logout
// @Tags auth
// @Success 204
// @Failure 500 {string} string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		http.Error(w, "auth not configured", http.StatusInternalServerError)
		return
	}

	name := h.Cookie.Name
	if name == "" {
		name = session.DefaultCookieName
	}

	cookie, err := r.Cookie(name)
	if err == nil && cookie.Value != "" {
		_ = h.Service.Logout(r.Context(), cookie.Value)
	}

	h.Cookie.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	// middleware.RealIP already rewrote RemoteAddr from the proxy headers.
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}
