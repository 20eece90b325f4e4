package main

import (
	"context"
	"log/slog"
	"net/http"

	"catalogcalc/internal/analyzer"
	"catalogcalc/internal/catalog"
	"catalogcalc/internal/config"
	"catalogcalc/internal/logging"
	"catalogcalc/internal/metrics"
	"catalogcalc/internal/solver"
	"catalogcalc/internal/store"
)

type app struct {
	cfg    *config.ProjectConfig
	logger *slog.Logger
	db     store.Store
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: logging.New(level, cfg.Log.Format),
	}, nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := openStore(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) close(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.Close(ctx); err != nil {
		a.logger.Warn("closing store", "error", err)
	}
}

func (a *app) fetcher(ctx context.Context) (catalog.Fetcher, error) {
	if a.cfg.Catalog.Source == config.SourceStore {
		db, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.NewStoreFetcher(db), nil
	}
	client := &http.Client{Timeout: a.cfg.Catalog.Timeout}
	return catalog.NewHTTPFetcher(a.cfg.Catalog.CreatureURL, a.cfg.Catalog.SciFiURL, client), nil
}

func (a *app) solver(ctx context.Context, m *metrics.Metrics) (*solver.Solver, error) {
	fetcher, err := a.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	cfg := solver.Config{
		Fetcher:     fetcher,
		Concurrency: a.cfg.Catalog.Concurrency,
		Metrics:     m,
		Logger:      a.logger,
	}
	if a.cfg.Analyzer.URL != "" {
		client := &http.Client{Timeout: a.cfg.Analyzer.Timeout}
		cfg.Analyzer = analyzer.New(a.cfg.Analyzer.URL, a.cfg.Analyzer.Token, a.cfg.Analyzer.Model, client)
	}
	return solver.New(cfg), nil
}
