package setup

import (
	"time"

	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/email"
	"github.com/inkwell-dev/inkwell/internal/handler"
	"github.com/inkwell-dev/inkwell/internal/markdown"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/ratelimit"
	"github.com/inkwell-dev/inkwell/internal/service"
	"github.com/inkwell-dev/inkwell/internal/storage/pg"
)

// Dependencies wires storage, services, handlers and middleware together.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	LoginLimiter   *ratelimit.KeyedLimiter
}

// Stale limiter windows are garbage collected after this long without traffic.
const limiterExpiration = time.Hour

func Setup(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Public)
	if err != nil {
		return nil, err
	}

	sessions := service.NewSessions(storage, cfg.JwtKey(), cfg.Public.SessionTTL*time.Second)
	mailer := email.New(cfg.EmailConfig())
	renderer := markdown.New()

	auth := service.NewAuth(storage, mailer, sessions, &cfg.Public)
	posts := service.NewPost(storage, renderer)
	comments := service.NewComment(storage)
	engagement := service.NewEngagement(storage)

	h := handler.New(auth, posts, comments, engagement, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(sessions),
		LoginLimiter: ratelimit.New(cfg.Public.LoginAttempts,
			cfg.Public.LoginWindow*time.Second, limiterExpiration),
	}, nil
}

// Cleanup releases resources held by the dependency graph.
func (d *Dependencies) Cleanup() error {
	d.LoginLimiter.Stop()
	return d.Storage.Cleanup()
}
