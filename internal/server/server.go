// Package server exposes the insight operations as a JSON HTTP API for the
// web dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/marketmind/growth-api/internal/config"
	"github.com/marketmind/growth-api/internal/insight"
	"github.com/marketmind/growth-api/internal/pricing"
)

// Server wires the HTTP surface to the insight service and pricing engine.
// Collaborators are passed explicitly at construction; there is no ambient
// singleton.
type Server struct {
	cfg     config.ServerConfig
	insight *insight.Service
	pricing *pricing.Engine
}

// New creates the API server.
func New(cfg config.ServerConfig, svc *insight.Service, eng *pricing.Engine) *Server {
	return &Server{cfg: cfg, insight: svc, pricing: eng}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(metricsMiddleware)

	r.Get("/api/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/market/sentiment", s.handleSentiment)
		r.Post("/market/benchmark", s.handleBenchmark)
		r.Post("/pricing/optimize", s.handlePricing)
		r.Post("/compliance/check", s.handleCompliance)
		r.Post("/chat", s.handleChat)
		r.Post("/predict/customer", s.handlePrediction)
		r.Post("/personalize", s.handlePersonalize)

		r.Post("/generator/marketing-campaign", s.handleGeneratorCampaign)
		r.Post("/generator/sales-pitch", s.handleGeneratorPitch)
		r.Post("/generator/lead-score", s.handleGeneratorLeadScore)

		r.Post("/generate-campaign", s.handleGenerateCampaign)
		r.Post("/generate-pitch", s.handleGeneratePitch)
		r.Post("/score-lead", s.handleScoreLeadLegacy)

		// Legacy text routes kept for backward compatibility.
		r.Post("/campaign", s.handleLegacyCampaign)
		r.Post("/pitch", s.handleLegacyPitch)
		r.Post("/score", s.handleLegacyScore)
	})

	return r
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}

	return nil
}

// requestID tags every request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDKey struct{}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestLogger logs each completed request with its status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		zap.L().Info("request",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// recoverer converts handler panics into a JSON 500 so nothing escapes the
// API boundary uncaught.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("handler panic",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
				)
				respondError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
