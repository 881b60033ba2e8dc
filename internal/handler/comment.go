package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body commentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Create(middleware.GetUserFromContext(r), id, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}
