package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func solveCmd() *cobra.Command {
	var file string
	var attempts int
	cmd := &cobra.Command{
		Use:   "solve [problem text]",
		Short: "Analyze a natural-language problem and print its answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if file != "" {
				data, err := readInput(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("problem text is required")
			}
			return runSolve(text, attempts)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read the problem text from a file (- for stdin)")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "Attempts before falling back (default from config)")
	return cmd
}

func runSolve(text string, attempts int) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if a.cfg.Analyzer.URL == "" {
		return fmt.Errorf("analyzer.url is required to solve problem text")
	}
	s, err := a.solver(ctx, nil)
	if err != nil {
		return err
	}
	if attempts < 1 {
		attempts = a.cfg.Challenge.Attempts
	}

	answer, err := s.Solve(ctx, text, attempts)
	fmt.Fprintln(os.Stdout, answer)
	if err != nil {
		return fmt.Errorf("solving failed, reported fallback answer: %w", err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
