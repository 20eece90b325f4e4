package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "catalogcalc.yaml"

const (
	SourceHTTP  = "http"
	SourceStore = "store"
)

type ProjectConfig struct {
	Project   string          `yaml:"project"`
	Version   int             `yaml:"version"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
	Challenge ChallengeConfig `yaml:"challenge"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

type AnalyzerConfig struct {
	URL     string        `yaml:"url" env:"ANALYZER_URL"`
	Token   string        `yaml:"token" env:"ANALYZER_TOKEN"`
	Model   string        `yaml:"model" env:"ANALYZER_MODEL"`
	Timeout time.Duration `yaml:"timeout"`
}

type CatalogConfig struct {
	Source      string        `yaml:"source"`
	CreatureURL string        `yaml:"creature_url"`
	SciFiURL    string        `yaml:"scifi_url"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	Paths       []string      `yaml:"paths"`
	Exclude     []string      `yaml:"exclude"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN"`
}

type ChallengeConfig struct {
	ProblemURL     string        `yaml:"problem_url" env:"PROBLEM_URL"`
	SolutionURL    string        `yaml:"solution_url" env:"SOLUTION_URL"`
	Token          string        `yaml:"token"`
	Duration       time.Duration `yaml:"duration"`
	Interval       time.Duration `yaml:"interval"`
	Attempts       int           `yaml:"attempts"`
	ProblemTimeout time.Duration `yaml:"problem_timeout"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"SERVER_ADDR"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format"`
}

// Default returns a configuration usable without a project file.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Project: "catalogcalc",
		Version: 1,
		Analyzer: AnalyzerConfig{
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:      SourceHTTP,
			CreatureURL: "https://pokeapi.co/api/v2",
			SciFiURL:    "https://swapi.dev/api",
			Concurrency: 4,
			Timeout:     15 * time.Second,
		},
		Challenge: ChallengeConfig{
			Duration:       3 * time.Minute,
			Interval:       time.Second,
			Attempts:       2,
			ProblemTimeout: 2 * time.Minute,
		},
		Server: ServerConfig{Addr: ":3000"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadProjectConfig reads the YAML file at path over the defaults, then
// applies environment overrides.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	if err := finish(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return cfg, nil
}

// Load behaves like LoadProjectConfig, except that a missing file at the
// default path falls back to defaults plus environment.
func Load(path string) (*ProjectConfig, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg, err := LoadProjectConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path != DefaultPath || !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg = Default()
	if err := finish(cfg); err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}
	return cfg, nil
}

func finish(cfg *ProjectConfig) error {
	if err := ParseEnv(cfg); err != nil {
		return err
	}
	cfg.Catalog.Source = strings.ToLower(strings.TrimSpace(cfg.Catalog.Source))
	return validateProjectConfig(cfg)
}

// ParseEnv overrides fields tagged with env from the process environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	switch cfg.Catalog.Source {
	case SourceHTTP:
	case SourceStore:
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return fmt.Errorf("catalog source %q requires database.dsn", SourceStore)
		}
	default:
		return fmt.Errorf("unsupported catalog source: %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Concurrency < 0 {
		return fmt.Errorf("catalog concurrency must not be negative")
	}
	if cfg.Challenge.Attempts < 1 {
		return fmt.Errorf("challenge attempts must be at least 1")
	}

	durations := map[string]time.Duration{
		"analyzer.timeout":          cfg.Analyzer.Timeout,
		"catalog.timeout":           cfg.Catalog.Timeout,
		"challenge.duration":        cfg.Challenge.Duration,
		"challenge.interval":        cfg.Challenge.Interval,
		"challenge.problem_timeout": cfg.Challenge.ProblemTimeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
