package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc func(name, email, password string) (domain.User, error)
	VerifyFunc   func(token string) (domain.User, error)
	ResendFunc   func(email domain.Email) error
	LoginFunc    func(email domain.Email, password string) (string, domain.User, error)
	LogoutFunc   func(token string) error
	BanFunc      func(actor *domain.User, userId domain.UserId) error
	UnbanFunc    func(actor *domain.User, userId domain.UserId) error
}

func (m *MockAuthService) Register(name, email, password string) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(name, email, password)
	}
	return domain.User{Id: 1, Name: name, Email: email, Role: domain.RoleUser}, nil
}

func (m *MockAuthService) Verify(token string) (domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return domain.User{Id: 1}, nil
}

func (m *MockAuthService) Resend(email domain.Email) error {
	if m.ResendFunc != nil {
		return m.ResendFunc(email)
	}
	return nil
}

func (m *MockAuthService) Login(email domain.Email, password string) (string, domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password)
	}
	return "session-token", domain.User{Id: 1, Email: email}, nil
}

func (m *MockAuthService) Logout(token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(token)
	}
	return nil
}

func (m *MockAuthService) Ban(actor *domain.User, userId domain.UserId) error {
	if m.BanFunc != nil {
		return m.BanFunc(actor, userId)
	}
	return nil
}

func (m *MockAuthService) Unban(actor *domain.User, userId domain.UserId) error {
	if m.UnbanFunc != nil {
		return m.UnbanFunc(actor, userId)
	}
	return nil
}

type MockPostService struct {
	CreateFunc     func(actor *domain.User, title, content string, image *string) (domain.Post, error)
	GetBySlugFunc  func(slug string) (domain.Post, error)
	GetForEditFunc func(actor *domain.User, slug string) (domain.Post, error)
	ListFunc       func(q domain.PostQuery) ([]domain.Post, error)
	UpdateFunc     func(actor *domain.User, slug, title, content string) (domain.Post, error)
	DeleteFunc     func(actor *domain.User, id domain.PostId) error
}

func (m *MockPostService) Create(actor *domain.User, title, content string, image *string) (domain.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(actor, title, content, image)
	}
	return domain.Post{Id: 1, Title: title, Content: content}, nil
}

func (m *MockPostService) GetBySlug(slug string) (domain.Post, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(slug)
	}
	return domain.Post{Id: 1, Slug: slug}, nil
}

func (m *MockPostService) GetForEdit(actor *domain.User, slug string) (domain.Post, error) {
	if m.GetForEditFunc != nil {
		return m.GetForEditFunc(actor, slug)
	}
	return domain.Post{Id: 1, Slug: slug}, nil
}

func (m *MockPostService) List(q domain.PostQuery) ([]domain.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(q)
	}
	return nil, nil
}

func (m *MockPostService) Update(actor *domain.User, slug, title, content string) (domain.Post, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(actor, slug, title, content)
	}
	return domain.Post{Id: 1, Title: title}, nil
}

func (m *MockPostService) Delete(actor *domain.User, id domain.PostId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(actor, id)
	}
	return nil
}

type MockCommentService struct {
	CreateFunc func(actor *domain.User, postId domain.PostId, content string) (domain.Comment, error)
}

func (m *MockCommentService) Create(actor *domain.User, postId domain.PostId, content string) (domain.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(actor, postId, content)
	}
	return domain.Comment{Id: 1, PostId: postId, Content: content}, nil
}

type MockEngagementService struct {
	LikeFunc   func(actor *domain.User, postId domain.PostId) (int64, error)
	UnlikeFunc func(actor *domain.User, postId domain.PostId) (int64, error)
}

func (m *MockEngagementService) Like(actor *domain.User, postId domain.PostId) (int64, error) {
	if m.LikeFunc != nil {
		return m.LikeFunc(actor, postId)
	}
	return 1, nil
}

func (m *MockEngagementService) Unlike(actor *domain.User, postId domain.PostId) (int64, error) {
	if m.UnlikeFunc != nil {
		return m.UnlikeFunc(actor, postId)
	}
	return 0, nil
}

// --- Helpers ---

type testDeps struct {
	auth       *MockAuthService
	posts      *MockPostService
	comments   *MockCommentService
	engagement *MockEngagementService
}

func newTestHandler(deps testDeps) *Handler {
	if deps.auth == nil {
		deps.auth = &MockAuthService{}
	}
	if deps.posts == nil {
		deps.posts = &MockPostService{}
	}
	if deps.comments == nil {
		deps.comments = &MockCommentService{}
	}
	if deps.engagement == nil {
		deps.engagement = &MockEngagementService{}
	}
	cfg := &config.Config{Public: config.Public{PostsPerPage: 12}}
	return New(deps.auth, deps.posts, deps.comments, deps.engagement, cfg)
}

// testRouter mounts the handler under the same patterns the real router uses
// and injects actor into the request context.
func testRouter(h *Handler, actor *domain.User) chi.Router {
	r := chi.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), middleware.UserKey, actor)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Post("/v1/register", h.Register)
	r.Get("/v1/email/verify/{token}", h.Verify)
	r.Post("/v1/email/resend", h.Resend)
	r.Post("/v1/login", h.Login)
	r.Post("/v1/logout", h.Logout)
	r.Get("/v1/user", h.Me)
	r.Get("/v1/posts", h.ListPosts)
	r.Post("/v1/posts", h.CreatePost)
	r.Get("/v1/posts/{slug}", h.GetPost)
	r.Get("/v1/posts/{slug}/edit", h.EditPost)
	r.Put("/v1/posts/{slug}", h.UpdatePost)
	r.Delete("/v1/posts/{id}", h.DeletePost)
	r.Post("/v1/posts/{id}/like", h.LikePost)
	r.Delete("/v1/posts/{id}/like", h.UnlikePost)
	r.Post("/v1/posts/{id}/comments", h.CreateComment)
	r.Post("/v1/users/{id}/ban", h.BanUser)
	r.Post("/v1/users/{id}/unban", h.UnbanUser)
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doRequestWithCookie(t *testing.T, router chi.Router, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	return decoded
}
