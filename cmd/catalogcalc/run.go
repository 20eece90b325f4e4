package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"catalogcalc/internal/challenge"
	"catalogcalc/internal/httpapi"
	"catalogcalc/internal/metrics"
)

func runCmd() *cobra.Command {
	var duration time.Duration
	var noServer bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the challenge endpoint, answer problems, and serve status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChallenge(duration, noServer)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "How long to poll (default from config)")
	cmd.Flags().BoolVar(&noServer, "no-server", false, "Do not start the status HTTP server")
	return cmd
}

func runChallenge(duration time.Duration, noServer bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	cc := a.cfg.Challenge
	if cc.ProblemURL == "" || cc.SolutionURL == "" {
		return fmt.Errorf("challenge.problem_url and challenge.solution_url are required")
	}
	if a.cfg.Analyzer.URL == "" {
		return fmt.Errorf("analyzer.url is required to solve challenge problems")
	}
	if duration <= 0 {
		duration = cc.Duration
	}

	m := metrics.New()
	s, err := a.solver(ctx, m)
	if err != nil {
		return err
	}
	source := challenge.NewClient(cc.ProblemURL, cc.SolutionURL, cc.Token, &http.Client{Timeout: a.cfg.Catalog.Timeout})
	runner := challenge.NewRunner(source, s, challenge.RunnerConfig{
		Duration:       duration,
		Interval:       cc.Interval,
		Attempts:       cc.Attempts,
		ProblemTimeout: cc.ProblemTimeout,
		Logger:         a.logger,
	})

	server := &http.Server{
		Addr: a.cfg.Server.Addr,
		Handler: httpapi.NewHandler(httpapi.Config{
			Stats:     runner,
			Evaluator: s,
			Metrics:   m,
			Logger:    a.logger,
			Version:   version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	runDone := make(chan struct{})
	if !noServer {
		g.Go(func() error {
			a.logger.Info("status server listening", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-runDone:
			case <-gctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	var stats challenge.Stats
	g.Go(func() error {
		defer close(runDone)
		stats = runner.Run(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Run complete.")
	fmt.Fprintf(os.Stdout, "  Problems handled: %d\n", stats.Total)
	fmt.Fprintf(os.Stdout, "  Errors: %d\n", stats.Errors)
	return nil
}
