package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/problem"
	"catalogcalc/internal/solver"
)

func evalCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "eval <spec.json>",
		Short: "Evaluate a structured problem specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full evaluation report as JSON")
	return cmd
}

func runEval(path string, asJSON bool) error {
	ctx := context.Background()

	data, err := readInput(path)
	if err != nil {
		return err
	}
	spec, err := problem.Parse(data)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	s, err := a.solver(ctx, nil)
	if err != nil {
		return err
	}
	report := solver.NewReport(s.SolveSpec(ctx, spec))

	if asJSON {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(payload))
	} else {
		printReport(report)
	}

	if report.Error != "" {
		return fmt.Errorf("evaluation failed: %s", report.Error)
	}
	return nil
}

func printReport(report solver.Report) {
	for _, o := range report.Outcomes {
		marker := " "
		if o.Final {
			marker = "*"
		}
		expr := fmt.Sprintf("%s %s %s", o.Left, o.Operator, o.Right)
		if o.Result != nil {
			fmt.Fprintf(os.Stdout, "%s %s: %s = %s\n", marker, o.Key, expr, calc.FormatDecimal(*o.Result))
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s failed: %s\n", marker, o.Key, expr, o.Error)
	}
	fmt.Fprintf(os.Stdout, "Answer: %s\n", report.Answer)
}
