package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type postRequest struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Content string  `json:"content" validate:"required"`
	Image   *string `json:"image"` // path reference into the blob store
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body postRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(middleware.GetUserFromContext(r), body.Title, body.Content, body.Image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := domain.PostQuery{
		OrderBy: r.URL.Query().Get("filter"),
		PerPage: h.cfg.Public.PostsPerPage,
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	if rawId := r.URL.Query().Get("user_id"); rawId != "" {
		id, err := parseIntParam(rawId, "user_id")
		if err != nil {
			writeError(w, err)
			return
		}
		q.AuthorId = &id
	}

	posts, err := h.posts.List(q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetForEdit(middleware.GetUserFromContext(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var body postRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(middleware.GetUserFromContext(r), chi.URLParam(r, "slug"), body.Title, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(middleware.GetUserFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Post deleted")
}
