package store

type EntityInput struct {
	Name       string
	Universe   string
	EntityType string
	SourceFile string
	SourceHash string
	Attributes map[string]any
}

type Entity struct {
	Name       string
	Universe   string
	EntityType string
	SourceFile string
	SourceHash string
	Attributes map[string]any
}

type EntitySummary struct {
	Name       string
	Universe   string
	EntityType string
}
