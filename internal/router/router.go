package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/middleware/metrics"
	"github.com/inkwell-dev/inkwell/internal/setup"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) chi.Router {
	cfg := deps.Config
	h := deps.Handler
	authMw := deps.AuthMiddleware

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(cfg.Public.SecureCookies))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Account lifecycle
		r.Post("/register", h.Register)
		r.Get("/email/verify/{token}", h.Verify)
		r.Post("/email/resend", h.Resend)

		// Login is rate-limited per client IP before credentials are looked at
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(deps.LoginLimiter, "login", utils.GetIP))
			r.Post("/login", h.Login)
		})

		// Public reads; a valid token still populates the actor context
		r.Group(func(r chi.Router) {
			r.Use(authMw.OptionalAuth())
			r.Get("/posts", h.ListPosts)
			r.Get("/posts/{slug}", h.GetPost)
		})

		// Content actions, gated by the authorization policy in the services
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Post("/logout", h.Logout)
			r.Get("/user", h.Me)
			r.Post("/posts", h.CreatePost)
			r.Get("/posts/{slug}/edit", h.EditPost)
			r.Put("/posts/{slug}", h.UpdatePost)
			r.Delete("/posts/{id}", h.DeletePost)
			r.Post("/posts/{id}/like", h.LikePost)
			r.Delete("/posts/{id}/like", h.UnlikePost)
			r.Post("/posts/{id}/comments", h.CreateComment)
		})

		// Moderation
		r.Group(func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Post("/users/{id}/ban", h.BanUser)
			r.Post("/users/{id}/unban", h.UnbanUser)
		})
	})

	return r
}
