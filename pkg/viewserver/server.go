package viewserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/internal/config"
)

const shutdownTimeout = 5 * time.Second

// NewRouter creates the router serving the read-only projection API
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/week", h.GetWeek)
			r.Get("/month", h.GetMonth)
		})

		r.Route("/guards", func(r chi.Router) {
			r.Get("/", h.GetGuards)
			r.Get("/{id}/restrictions", h.GetGuardRestrictions)
		})

		r.Get("/me/shifts", h.GetMyShifts)
		r.Get("/conflicts", h.GetConflicts)
		r.Get("/audit", h.GetAudit)
		r.Get("/restrictions/reasons", h.GetReasons)
	})

	return r
}

// requestLogger logs one entry per request through zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("Served request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// Serve runs the view server until ctx is cancelled
func Serve(ctx context.Context, cfg config.ServerConfig, h *Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(h, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("View server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("view server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down view server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down view server: %w", err)
	}
	return nil
}
