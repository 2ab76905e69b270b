package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidsnap/bot/internal/history"
	"github.com/vidsnap/bot/internal/progress"
)

const recentJobLimit = 50

// NewRouter creates the admin API router: job history, the live progress
// stream, and a health check.
func NewRouter(jobs *history.Repository, stream *progress.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		}))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs", listJobs(jobs))
		r.Get("/jobs/{id}", getJob(jobs))
		r.Get("/jobs/stream", stream.Events)
	})

	return r
}

func listJobs(jobs *history.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recent, err := jobs.Recent(r.Context(), recentJobLimit)
		if err != nil {
			slog.Error("listing jobs", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list jobs")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"jobs": recent})
	}
}

func getJob(jobs *history.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, history.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		if err != nil {
			slog.Error("fetching job", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch job")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// RequestLogger logs one line per request at debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
