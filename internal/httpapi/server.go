package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/challenge"
	"catalogcalc/internal/logging"
	"catalogcalc/internal/metrics"
	"catalogcalc/internal/problem"
	"catalogcalc/internal/solver"
)

const maxBodyBytes = 1 << 20

type StatsProvider interface {
	Stats() challenge.Stats
}

type Evaluator interface {
	SolveSpec(ctx context.Context, spec *problem.Specification) (*calc.Evaluation, error)
}

type Config struct {
	Stats     StatsProvider
	Evaluator Evaluator
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Version   string
}

// NewHandler builds the status and evaluation API.
func NewHandler(cfg Config) http.Handler {
	logger := logging.OrDefault(cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok", "version": cfg.Version})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Stats == nil {
			writeJSON(w, logger, http.StatusOK, challenge.Stats{Attempts: []challenge.Attempt{}})
			return
		}
		writeJSON(w, logger, http.StatusOK, cfg.Stats.Stats())
	})

	r.Post("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Evaluator == nil {
			writeError(w, logger, http.StatusServiceUnavailable, "evaluation is not enabled")
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			status := http.StatusBadRequest
			if errors.As(err, new(*http.MaxBytesError)) {
				status = http.StatusRequestEntityTooLarge
			}
			writeError(w, logger, status, err.Error())
			return
		}
		spec, err := problem.Parse(body)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		eval, err := cfg.Evaluator.SolveSpec(r.Context(), spec)
		if err != nil && !errors.Is(err, calc.ErrChainEvaluation) {
			logger.Warn("evaluation failed", "error", err)
		}
		writeJSON(w, logger, http.StatusOK, solver.NewReport(eval, err))
	})

	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}
