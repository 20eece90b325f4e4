package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/catalog"
	"catalogcalc/internal/problem"
	"catalogcalc/internal/solver"
	"catalogcalc/internal/store"
)

type EvaluateChainInput struct {
	Entities   []problem.EntitySpec `json:"entities" jsonschema:"entities referenced by the operations; give attributes inline or rely on the catalog store"`
	Operations []map[string]any     `json:"operations" jsonschema:"operations with description, operator, elements.left, elements.right and optional final"`
}

type OutcomeOutput struct {
	Key         string   `json:"key"`
	Description string   `json:"description,omitempty"`
	Expression  string   `json:"expression"`
	Result      *float64 `json:"result,omitempty"`
	Error       string   `json:"error,omitempty"`
	Failure     string   `json:"failure,omitempty"`
}

type EvaluateChainOutput struct {
	Answer   string          `json:"answer"`
	Error    string          `json:"error,omitempty"`
	Outcomes []OutcomeOutput `json:"outcomes"`
}

type ProjectAttributesInput struct {
	Universe string         `json:"universe" jsonschema:"creature or scifi (pokemon and starwars are accepted)"`
	Type     string         `json:"type,omitempty" jsonschema:"planet or person for scifi entities"`
	Record   map[string]any `json:"record" jsonschema:"raw catalog record"`
}

type ProjectAttributesOutput struct {
	Whitelist  []string           `json:"whitelist"`
	Attributes map[string]float64 `json:"attributes"`
}

type GetEntityInput struct {
	Name     string `json:"name" jsonschema:"entity name"`
	Universe string `json:"universe,omitempty" jsonschema:"optional universe"`
	Type     string `json:"type,omitempty" jsonschema:"optional entity type"`
}

type EntityOutput struct {
	Name       string             `json:"name"`
	Universe   string             `json:"universe"`
	EntityType string             `json:"type"`
	SourceFile string             `json:"source_file"`
	Attributes map[string]any     `json:"attributes"`
	Numeric    map[string]float64 `json:"numeric"`
}

type ListEntitiesInput struct {
	Universe string `json:"universe,omitempty" jsonschema:"universe filter"`
	Type     string `json:"type,omitempty" jsonschema:"entity type filter"`
}

type EntitySummaryOutput struct {
	Name       string `json:"name"`
	Universe   string `json:"universe"`
	EntityType string `json:"type"`
}

type ListEntitiesOutput struct {
	Entities []EntitySummaryOutput `json:"entities"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "evaluate_chain",
		Description: "Evaluate an operation chain over catalog entities and return the formatted answer",
	}, s.handleEvaluateChain)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "project_attributes",
		Description: "Extract the whitelisted numeric attributes from a raw catalog record",
	}, s.handleProjectAttributes)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity",
		Description: "Retrieve a mirrored catalog entity and its attributes",
	}, s.handleGetEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List mirrored catalog entities with optional filters",
	}, s.handleListEntities)
}

func (s *Server) handleEvaluateChain(ctx context.Context, req *sdk.CallToolRequest, input EvaluateChainInput) (*sdk.CallToolResult, EvaluateChainOutput, error) {
	ops := make([]any, 0, len(input.Operations))
	for _, op := range input.Operations {
		ops = append(ops, op)
	}
	spec, err := problem.FromMap(map[string]any{"entities": []any{}, "operations": ops})
	if err != nil {
		return nil, EvaluateChainOutput{}, err
	}
	spec.Entities = input.Entities

	eval, err := solver.New(solver.Config{
		Fetcher:     s.fetcher(),
		Concurrency: s.concurrency,
		Logger:      s.logger,
	}).SolveSpec(ctx, spec)
	return nil, evaluateChainOutputFromReport(solver.NewReport(eval, err)), nil
}

func (s *Server) handleProjectAttributes(ctx context.Context, req *sdk.CallToolRequest, input ProjectAttributesInput) (*sdk.CallToolResult, ProjectAttributesOutput, error) {
	if calc.ParseUniverse(input.Universe) == "" {
		return nil, ProjectAttributesOutput{}, fmt.Errorf("unknown universe %q", input.Universe)
	}
	whitelist := append([]string{}, calc.Whitelist(input.Universe, input.Type)...)
	return nil, ProjectAttributesOutput{
		Whitelist:  whitelist,
		Attributes: calc.Project(input.Record, input.Universe, input.Type),
	}, nil
}

func (s *Server) handleGetEntity(ctx context.Context, req *sdk.CallToolRequest, input GetEntityInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.Name == "" {
		return nil, EntityOutput{}, fmt.Errorf("name is required")
	}
	if s.db == nil {
		return nil, EntityOutput{}, fmt.Errorf("no catalog store configured")
	}
	ref := catalog.EntityRef{Name: input.Name, Universe: input.Universe, Type: input.Type}
	if input.Universe != "" {
		ref = ref.Canonical()
	}
	entity, err := s.db.GetEntity(ctx, ref.Name, ref.Universe, ref.Type)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	if entity == nil {
		return nil, EntityOutput{}, fmt.Errorf("entity not found")
	}
	return nil, entityOutputFromStore(entity), nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	if s.db == nil {
		return nil, ListEntitiesOutput{}, fmt.Errorf("no catalog store configured")
	}
	universe := input.Universe
	if u := calc.ParseUniverse(universe); u != "" {
		universe = string(u)
	}
	items, err := s.db.ListEntities(ctx, universe, calc.NormalizeType(input.Type))
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntitySummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, EntitySummaryOutput{
			Name:       item.Name,
			Universe:   item.Universe,
			EntityType: item.EntityType,
		})
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func evaluateChainOutputFromReport(report solver.Report) EvaluateChainOutput {
	out := EvaluateChainOutput{
		Answer:   report.Answer,
		Error:    report.Error,
		Outcomes: make([]OutcomeOutput, 0, len(report.Outcomes)),
	}
	for _, o := range report.Outcomes {
		out.Outcomes = append(out.Outcomes, OutcomeOutput{
			Key:         o.Key,
			Description: o.Description,
			Expression:  fmt.Sprintf("%s %s %s", o.Left, o.Operator, o.Right),
			Result:      o.Result,
			Error:       o.Error,
			Failure:     o.Failure,
		})
	}
	return out
}

func entityOutputFromStore(entity *store.Entity) EntityOutput {
	attributes := map[string]any{}
	for key, value := range entity.Attributes {
		attributes[key] = value
	}
	return EntityOutput{
		Name:       entity.Name,
		Universe:   entity.Universe,
		EntityType: entity.EntityType,
		SourceFile: entity.SourceFile,
		Attributes: attributes,
		Numeric:    calc.Project(entity.Attributes, entity.Universe, entity.EntityType),
	}
}
