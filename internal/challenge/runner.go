package challenge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"catalogcalc/internal/logging"
	"catalogcalc/internal/solver"
)

type Source interface {
	NextProblem(ctx context.Context) (*Problem, error)
	Submit(ctx context.Context, problemID, answer string) error
}

type Solver interface {
	Solve(ctx context.Context, text string, attempts int) (string, error)
}

type Attempt struct {
	ID        string    `json:"id"`
	Answer    string    `json:"answer,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	Total    int       `json:"total"`
	Errors   int       `json:"errors"`
	Attempts []Attempt `json:"attempts"`
}

type RunnerConfig struct {
	Duration       time.Duration
	Interval       time.Duration
	Attempts       int
	ProblemTimeout time.Duration
	Logger         *slog.Logger
}

// Runner polls a problem source at a fixed interval and answers every
// problem it receives. Problems are handled concurrently.
type Runner struct {
	source Source
	solver Solver
	cfg    RunnerConfig
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats
}

func NewRunner(source Source, s Solver, cfg RunnerConfig) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = solver.DefaultAttempts
	}
	return &Runner{
		source: source,
		solver: s,
		cfg:    cfg,
		logger: logging.OrDefault(cfg.Logger),
		stats:  Stats{Attempts: []Attempt{}},
	}
}

// Run polls until Duration elapses (forever when zero) or ctx is done, then
// waits for in-flight problems and returns the final stats.
func (r *Runner) Run(ctx context.Context) Stats {
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	r.logger.Info("challenge started", "duration", r.cfg.Duration, "interval", r.cfg.Interval)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.handle(context.WithoutCancel(ctx))
			}()
		}
	}
	wg.Wait()

	stats := r.Stats()
	r.logger.Info("challenge finished", "total", stats.Total, "errors", stats.Errors)
	return stats
}

// handle runs one fetch-solve-submit cycle. In-flight problems outlive the
// polling window but are bounded by ProblemTimeout.
func (r *Runner) handle(ctx context.Context) {
	if r.cfg.ProblemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ProblemTimeout)
		defer cancel()
	}

	p, err := r.source.NextProblem(ctx)
	if err != nil {
		r.logger.Error("fetching problem failed", "error", err)
		r.submit(ctx, UnknownProblemID, solver.FallbackAnswer)
		r.record(Attempt{ID: UnknownProblemID, Error: err.Error()}, true)
		return
	}
	id := p.ID
	if id == "" {
		id = UnknownProblemID
	}
	r.logger.Debug("problem received", "problem_id", id)

	answer, err := r.solver.Solve(ctx, p.Text, r.cfg.Attempts)
	r.submit(ctx, id, answer)
	if err != nil {
		r.logger.Warn("problem answered with fallback", "problem_id", id, "error", err)
		r.record(Attempt{ID: id, Answer: answer, Error: err.Error()}, true)
		return
	}
	r.logger.Info("problem solved", "problem_id", id, "answer", answer)
	r.record(Attempt{ID: id, Answer: answer}, false)
}

func (r *Runner) submit(ctx context.Context, id, answer string) {
	if err := r.source.Submit(ctx, id, answer); err != nil {
		r.logger.Error("submitting solution failed", "problem_id", id, "error", err)
	}
}

func (r *Runner) record(a Attempt, failed bool) {
	a.Timestamp = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Total++
	if failed {
		r.stats.Errors++
	}
	r.stats.Attempts = append(r.stats.Attempts, a)
}

// Stats returns a copy of the statistics gathered so far.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.stats
	out.Attempts = append([]Attempt(nil), r.stats.Attempts...)
	if out.Attempts == nil {
		out.Attempts = []Attempt{}
	}
	return out
}
