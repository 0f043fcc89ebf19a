package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/healthcalc/calcchain"
	"github.com/healthcalc/calcchain/internal/config"
	httpadapter "github.com/healthcalc/calcchain/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler exposes a Runtime over HTTP.
func NewHTTPHandler(rt *Runtime, cfg config.Config, logger *slog.Logger) http.Handler {
	return httpadapter.NewHandler(rt.Service.Sessions(),
		httpadapter.WithLogger(logger),
		httpadapter.WithResultsPath(cfg.ResultsPath),
		httpadapter.WithCookie(httpadapter.DefaultCookieName, cfg.CookieSecure, cfg.SessionTTL),
		httpadapter.WithAllowedOrigins(cfg.AllowedOrigins...),
		httpadapter.WithHealthCheck(rt.Health),
		httpadapter.WithMetricsHandler(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})),
		httpadapter.WithVersion(calcchain.Version),
	)
}

// Serve runs the HTTP service until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	rt, err := NewRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Service.Close(); err != nil {
			logger.Warn("Failed to close backend", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHTTPHandler(rt, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting calcchain server", "addr", srv.Addr, "backend", cfg.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}
