package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"oauthd/internal/config"
)

type App struct {
	log    *slog.Logger
	server *http.Server
}

// New creates new HTTP server app
func New(log *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *App {
	return &App{
		log: log,
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// MustRun runs HTTP server and panic if any occurs
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

// Run http server, returns nil after Stop
func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.With(slog.String("op", op)).Info("starting HTTP server", slog.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done
func (a *App) Stop(ctx context.Context) {
	const op = "httpapp.Stop"

	log := a.log.With(slog.String("op", op))
	log.Info("stopping HTTP server")
	if err := a.server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown HTTP server", slog.String("error", err.Error()))
	}
}
