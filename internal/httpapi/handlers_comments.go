package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/radarobras/radar_api/internal/comments"
	"github.com/radarobras/radar_api/internal/telemetry"
)

type CommentsService interface {
	Create(ctx context.Context, obraID string, req comments.CreateCommentRequest) (*comments.Comment, error)
	ListByObra(ctx context.Context, obraID string) ([]*comments.Comment, error)
	Delete(ctx context.Context, obraID, commentID string) error
}

type CommentsHandler struct {
	Service        CommentsService
	Hub            *comments.Hub
	AllowedOrigins []string
}

// Create Comment
// @Summary Comment on an obra
// @Tags comments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param body body CommentCreateDTO true "comment"
// @Success 201 {object} comments.Comment
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/comments [post]
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	obraID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req CommentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.Service.Create(r.Context(), obraID, comments.CreateCommentRequest{Text: req.Text})
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// List Comments
// @Summary List comments of an obra, newest first
// @Tags comments
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Success 200 {array} comments.Comment
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/comments [get]
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	obraID := strings.TrimSpace(chi.URLParam(r, "id"))

	list, err := h.Service.ListByObra(r.Context(), obraID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Delete Comment
// @Summary Delete a comment (author or manager)
// @Tags comments
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param commentId path string true "comment id"
// @Success 204
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/comments/{commentId} [delete]
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	obraID := strings.TrimSpace(chi.URLParam(r, "id"))
	commentID := strings.TrimSpace(chi.URLParam(r, "commentId"))

	if err := h.Service.Delete(r.Context(), obraID, commentID); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentsHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// Stream Comments
// @Summary Live comment stream over websocket
// @Tags comments
// @Security SessionAuth
// @Param id path string true "obra id"
// @Success 101
// @Failure 400 {string} string
// @Router /obras/{id}/comments/stream [get]
func (h *CommentsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	obraID := strings.TrimSpace(chi.URLParam(r, "id"))
	if obraID == "" {
		http.Error(w, "missing obra id", http.StatusBadRequest)
		return
	}
	if h.Hub == nil {
		http.Error(w, "streaming not configured", http.StatusInternalServerError)
		return
	}

	upgrader := h.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.LogWarn(r.Context(), "websocket upgrade failed",
			telemetry.LogString("obra.id", obraID),
			telemetry.LogString("error", err.Error()),
		)
		return
	}
	defer ws.Close()

	ch, cancel := h.Hub.Subscribe(obraID)
	defer cancel()

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return
			}
			if err := ws.WriteJSON(c); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
