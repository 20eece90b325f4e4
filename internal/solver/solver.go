package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/catalog"
	"catalogcalc/internal/logging"
	"catalogcalc/internal/metrics"
	"catalogcalc/internal/problem"
)

// FallbackAnswer is reported when every attempt at a problem fails.
const FallbackAnswer = "0"

const DefaultAttempts = 2

type Analyzer interface {
	Analyze(ctx context.Context, text string) (*problem.Specification, error)
}

type Config struct {
	Analyzer    Analyzer
	Fetcher     catalog.Fetcher
	Concurrency int
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

type Solver struct {
	analyzer    Analyzer
	fetcher     catalog.Fetcher
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(cfg Config) *Solver {
	return &Solver{
		analyzer:    cfg.Analyzer,
		fetcher:     cfg.Fetcher,
		concurrency: cfg.Concurrency,
		metrics:     cfg.Metrics,
		logger:      logging.OrDefault(cfg.Logger),
	}
}

// SolveSpec resolves the specification's entities and evaluates its chain.
func (s *Solver) SolveSpec(ctx context.Context, spec *problem.Specification) (*calc.Evaluation, error) {
	if spec == nil {
		return nil, fmt.Errorf("specification is required")
	}
	entities, err := catalog.Resolve(ctx, s.fetcher, spec.Entities, s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("resolving entities: %w", err)
	}

	eval, err := calc.Evaluate(entities, spec.Operations)
	for _, outcome := range eval.Outcomes {
		if outcome.OK() {
			continue
		}
		s.metrics.OperationFailed(calc.FailureKind(outcome.Err))
		s.logger.Debug("operation failed",
			"operation", outcome.Key,
			"description", outcome.Description,
			"error", outcome.Err,
		)
	}
	return eval, err
}

// SolveText analyzes text into a specification and solves it.
func (s *Solver) SolveText(ctx context.Context, text string) (*calc.Evaluation, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("no analyzer configured")
	}
	spec, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyzing problem: %w", err)
	}
	return s.SolveSpec(ctx, spec)
}

// Solve runs SolveText up to attempts times. When all attempts fail it
// returns FallbackAnswer together with the last error.
func (s *Solver) Solve(ctx context.Context, text string, attempts int) (string, error) {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	start := time.Now()
	defer func() { s.metrics.ObserveSolve(time.Since(start)) }()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		eval, err := s.SolveText(ctx, text)
		s.metrics.Attempt(err == nil)
		if err == nil {
			s.metrics.ProblemHandled("solved")
			return eval.Answer, nil
		}
		lastErr = err
		s.logger.Warn("attempt failed", "attempt", attempt, "of", attempts, "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	s.metrics.ProblemHandled("fallback")
	return FallbackAnswer, lastErr
}
