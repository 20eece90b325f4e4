package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	var source string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter catalogcalc config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, source)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&source, "source", "http", "Catalog source (http or store)")
	return cmd
}

func runInit(projectName, source string) error {
	switch source {
	case "http", "store":
	default:
		return fmt.Errorf("unsupported catalog source: %q", source)
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents := fmt.Sprintf(configTemplate, projectName, source)
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", configPath)
	return nil
}

const configTemplate = `project: %s
version: 1

analyzer:
  url: https://api.openai.com/v1/chat/completions
  model: gpt-4o-mini
  timeout: 60s

catalog:
  source: %s
  creature_url: https://pokeapi.co/api/v2
  scifi_url: https://swapi.dev/api
  concurrency: 4
  timeout: 15s
  paths:
    - ./catalog/

database:
  dsn: sqlite://catalogcalc.db

challenge:
  duration: 3m
  interval: 1s
  attempts: 2
  problem_timeout: 2m

server:
  addr: ":3000"

log:
  level: info
  format: text
`
