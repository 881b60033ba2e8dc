package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/middleware"
)

func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Ban(middleware.GetUserFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User banned")
}

func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Unban(middleware.GetUserFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User unbanned")
}
