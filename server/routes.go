// Package server wires the mock endpoints into an HTTP router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"mock_gateway/apidoc"
	"mock_gateway/config"
	"mock_gateway/logging"
	"mock_gateway/mail"
	"mock_gateway/response"
	"mock_gateway/sms"
)

// NewRouter builds the HTTP surface of the gateway.
func NewRouter(cfg *config.AppConfig, logger *slog.Logger) *chi.Mux {
	logger = logging.OrNop(logger)
	errorBehavior := cfg.ErrorBehavior
	if errorBehavior == nil {
		errorBehavior = config.EnvErrorBehavior
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, apidoc.Build(errorBehavior()))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := apidoc.YAML(apidoc.Build(errorBehavior()))
		if err != nil {
			logger.Error("failed to render api document", "error", err)
			response.WriteError(w, http.StatusInternalServerError, response.MessageInternalError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	})

	r.Get(apidoc.PathDocs, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(apidoc.DocsPage))
	})

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			rl := NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit)
			r.Use(rl.LimitMiddleware)
		}

		r.Post(apidoc.PathSMS, sms.NewHandler(errorBehavior, logger.With("endpoint", "sms")))
		r.Post(apidoc.PathEmail, mail.NewHandler(errorBehavior, logger.With("endpoint", "email")))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusNotFound, "Not Found")
	})

	return r
}

// requestLogger records one line per request once the response is written.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
