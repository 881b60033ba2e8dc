package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/middleware"
)

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.engagement.Like(middleware.GetUserFromContext(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Post liked successfully",
		"likes_count": count,
	})
}

func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.engagement.Unlike(middleware.GetUserFromContext(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Post unliked successfully",
		"likes_count": count,
	})
}
