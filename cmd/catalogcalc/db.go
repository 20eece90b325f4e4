package main

import (
	"context"
	"fmt"
	"strings"

	"catalogcalc/internal/store"
	"catalogcalc/internal/store/postgres"
	"catalogcalc/internal/store/sqlite"
)

func openStore(ctx context.Context, dsn string) (store.Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("database.dsn is required")
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
