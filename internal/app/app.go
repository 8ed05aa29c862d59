// Package app wires stores, services and handlers into the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	authHandler "postboard/internal/auth/handler"
	"postboard/internal/auth/password"
	authService "postboard/internal/auth/service"
	userStore "postboard/internal/auth/store/user"
	jwttoken "postboard/internal/jwt_token"
	"postboard/internal/platform/config"
	"postboard/internal/platform/metrics"
	postHandler "postboard/internal/posts/handler"
	postService "postboard/internal/posts/service"
	postStore "postboard/internal/posts/store"
	httptransport "postboard/internal/transport/http"
)

// App is the fully wired service.
type App struct {
	Router  http.Handler
	Metrics *metrics.Metrics
}

type options struct {
	now func() time.Time
}

// Option configures New.
type Option func(*options)

// WithClock overrides the clock used to issue and verify tokens and to stamp seed data.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New builds the application from cfg. Demo accounts and posts are seeded when
// cfg.SeedDemoData is set.
func New(ctx context.Context, cfg config.Server, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	users := userStore.New()
	posts := postStore.New()
	hasher := password.NewHasher(cfg.BcryptCost)
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL, jwttoken.WithClock(o.now))
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	if cfg.SeedDemoData {
		if err := seed(ctx, users, posts, hasher, o.now()); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "seeded demo data", "users", 2, "posts", 2)
	}

	authSvc := authService.New(users, hasher, jwtService)
	postSvc := postService.New(posts)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:             logger,
		Metrics:            m,
		Gatherer:           registry,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	},
		authHandler.New(authSvc, logger, m, jwtValidator),
		postHandler.New(postSvc, logger, m, jwtValidator,
			postHandler.WithProtectedMutations(cfg.ProtectPostMutations)),
	)

	return &App{Router: router, Metrics: m}, nil
}

func seed(ctx context.Context, users *userStore.InMemoryUserStore, posts *postStore.InMemoryPostStore, hasher *password.Hasher, now time.Time) error {
	seededUsers, err := userStore.SeedDemoUsers(ctx, users, hasher)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	authorIDs := make([]int64, len(seededUsers))
	for i, u := range seededUsers {
		authorIDs[i] = u.ID
	}
	if _, err := postStore.SeedDemoPosts(ctx, posts, authorIDs, now); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	return nil
}
