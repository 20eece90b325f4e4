package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogcalc/internal/catalog"
	"catalogcalc/internal/logging"
	"catalogcalc/internal/store"
)

// Querier is the read side of the catalog mirror. It may be nil, in which
// case the catalog tools report that no store is configured.
type Querier interface {
	GetEntity(ctx context.Context, name, universe, entityType string) (*store.Entity, error)
	ListEntities(ctx context.Context, universe, entityType string) ([]store.EntitySummary, error)
}

type Server struct {
	db          Querier
	concurrency int
	logger      *slog.Logger
	mcp         *sdk.Server
}

func NewServer(db Querier, version string, logger *slog.Logger) *Server {
	s := &Server{
		db:          db,
		concurrency: 4,
		logger:      logging.OrDefault(logger),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "catalogcalc",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}

func (s *Server) fetcher() catalog.Fetcher {
	if s.db == nil {
		return nil
	}
	return catalog.NewStoreFetcher(s.db)
}
