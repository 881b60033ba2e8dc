package handler

import (
	"encoding/json"
	"net/http"

	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/service"
)

type Handler struct {
	auth       service.AuthService
	posts      service.PostService
	comments   service.CommentService
	engagement service.EngagementService
	cfg        *config.Config
}

func New(auth service.AuthService, posts service.PostService, comments service.CommentService,
	engagement service.EngagementService, cfg *config.Config) *Handler {
	return &Handler{auth, posts, comments, engagement, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
