package app

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	grpcapp "oauthd/internal/app/grpc"
	httpapp "oauthd/internal/app/http"
	"oauthd/internal/config"
	"oauthd/internal/http/middlewares"
	oauthhttp "oauthd/internal/http/oauth"
	"oauthd/internal/lib/health"
	"oauthd/internal/lib/metrics"
	"oauthd/internal/services/access"
	"oauthd/internal/services/grant"
	"oauthd/internal/services/validation"
	"oauthd/internal/storage/postgres"
	"oauthd/internal/storage/redis"
)

type App struct {
	GRPCSrv *grpcapp.App
	HTTPSrv *httpapp.App

	storage *postgres.Storage
	cache   *redis.Cache
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgres.New(ctx, cfg.StoragePath)
	if err != nil {
		panic(err)
	}
	cache := redis.NewCache(&cfg.Redis)

	if err = metrics.Register(prometheus.DefaultRegisterer); err != nil {
		panic(err)
	}

	validator := validation.New(storage, storage, cfg.OAuth.RequireRedirectURI)
	accessService := access.New(log, storage, storage, cfg.OAuth.AccessTokenTTL)
	engine := grant.New(
		log,
		validator,
		storage,
		storage,
		cache,
		cache,
		storage,
		accessService,
		grant.Config{
			StateTTL:             cfg.OAuth.StateTTL,
			CodeTTL:              cfg.OAuth.CodeTTL,
			SkipConsentIfGranted: cfg.OAuth.SkipConsentIfGranted,
			RequestedPermissions: cfg.OAuth.RequestedPermissions,
		},
	)

	checker := health.NewChecker(map[string]health.Pinger{
		"postgres": storage,
		"redis":    cache,
	})

	router := chi.NewRouter()
	router.Use(middlewares.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middlewares.Logger(log))

	limiter := middlewares.NewRateLimiter(cfg.OAuth.TokenRateLimit.RPS, cfg.OAuth.TokenRateLimit.Burst)
	oauthhttp.Register(router, log, engine, accessService, limiter.Middleware)

	router.Get("/healthz", healthz(checker))
	router.Handle("/metrics", promhttp.Handler())

	return &App{
		GRPCSrv: grpcapp.New(log, checker, cfg.GRPC.Port),
		HTTPSrv: httpapp.New(log, router, cfg.HTTP),
		storage: storage,
		cache:   cache,
	}
}

// Close releases storage connections, call after servers are stopped
func (a *App) Close() {
	a.storage.CloseStorage()
	_ = a.cache.Close()
}

func healthz(checker *health.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := checker.Check(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
