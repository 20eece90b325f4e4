package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/catalog"
	"catalogcalc/internal/ingest"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog mirror",
	}
	cmd.AddCommand(catalogIngestCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogShowCmd())
	cmd.AddCommand(catalogSQLCmd())
	return cmd
}

func catalogIngestCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load catalog record files into the mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(full)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Force full re-ingestion (ignore incremental hashes)")
	return cmd
}

func runIngest(full bool) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	result, err := ingest.Run(ctx, a.cfg.Catalog, db, ingest.Options{Full: full})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Entities upserted: %d\n", result.EntitiesUpserted)
	fmt.Fprintf(os.Stdout, "  Entities removed: %d\n", result.EntitiesRemoved)
	fmt.Fprintf(os.Stdout, "  Files skipped: %d\n", result.FilesSkipped)
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "  Errors (%d):\n", len(result.Errors))
		for _, ingestErr := range result.Errors {
			fmt.Fprintf(os.Stdout, "    - %s\n", ingestErr)
		}
		return fmt.Errorf("ingestion completed with errors")
	}
	return nil
}

func catalogListCmd() *cobra.Command {
	var universe string
	var entityType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities in the mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(universe, entityType)
		},
	}
	cmd.Flags().StringVar(&universe, "universe", "", "Universe to filter (creature or scifi)")
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to filter")
	return cmd
}

func runCatalogList(universe, entityType string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	ref := catalog.EntityRef{Universe: universe, Type: entityType}.Canonical()
	entities, err := db.ListEntities(ctx, ref.Universe, ref.Type)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		fmt.Fprintln(os.Stdout, "No entities found.")
		return nil
	}

	for _, entity := range entities {
		fmt.Fprintf(os.Stdout, "%s (%s) [%s]\n", entity.Name, entity.EntityType, entity.Universe)
	}
	return nil
}

func catalogShowCmd() *cobra.Command {
	var universe string
	var entityType string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Display an entity and its numeric attributes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(strings.Join(args, " "), universe, entityType)
		},
	}
	cmd.Flags().StringVar(&universe, "universe", "", "Universe to disambiguate")
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to disambiguate")
	return cmd
}

func runCatalogShow(name, universe, entityType string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	if universe != "" {
		ref := catalog.EntityRef{Name: name, Universe: universe, Type: entityType}.Canonical()
		universe, entityType = ref.Universe, ref.Type
	}
	entity, err := db.GetEntity(ctx, name, universe, entityType)
	if err != nil {
		return err
	}
	if entity == nil {
		fmt.Fprintf(os.Stdout, "No entity found for %q.\n", name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Name: %s\n", entity.Name)
	fmt.Fprintf(os.Stdout, "Universe: %s\n", entity.Universe)
	fmt.Fprintf(os.Stdout, "Type: %s\n", entity.EntityType)
	if entity.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", entity.SourceFile)
	}

	numeric := calc.Project(entity.Attributes, entity.Universe, entity.EntityType)
	if len(numeric) == 0 {
		return nil
	}

	keys := make([]string, 0, len(numeric))
	for key := range numeric {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(os.Stdout, "Attributes:")
	for _, key := range keys {
		fmt.Fprintf(os.Stdout, "  %s: %s\n", key, calc.FormatDecimal(numeric[key]))
	}
	return nil
}

func catalogSQLCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a read-only SQL query against the mirror",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParamPairs(paramPairs)
			if err != nil {
				return err
			}
			return runSQL(strings.Join(args, " "), params)
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Positional parameter as n=value (repeatable)")
	return cmd
}

func runSQL(query string, params map[string]any) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	rows, err := db.RunSQL(ctx, query, params)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func parseParamPairs(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
