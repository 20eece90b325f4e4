package sqlite

import (
	"context"
	"errors"
	"testing"

	"catalogcalc/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return c
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "sqlite://:memory:", want: ":memory:"},
		{dsn: "sqlite://catalog.db", want: "./catalog.db"},
		{dsn: "sqlite:///var/lib/catalog.db", want: "/var/lib/catalog.db"},
		{dsn: "sqlite://data/my%20catalog.db?_txlock=immediate", want: "./data/my catalog.db?_txlock=immediate"},
		{dsn: "postgres://localhost/db", wantErr: true},
		{dsn: "sqlite://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDSN(%q) succeeded, want error", tt.dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDSN(%q): %v", tt.dsn, err)
			}
			if got != tt.want {
				t.Fatalf("parseDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestUpsertAndGetEntity(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	err := c.UpsertEntity(ctx, store.EntityInput{
		Name:       "Pikachu",
		Universe:   "creature",
		EntityType: "creature",
		SourceFile: "creatures/pikachu.yaml",
		SourceHash: "abc",
		Attributes: map[string]any{"weight": 60, "height": 4},
	})
	if err != nil {
		t.Fatalf("UpsertEntity: %v", err)
	}

	e, err := c.GetEntity(ctx, "  PIKACHU ", "", "")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if e == nil {
		t.Fatal("GetEntity returned nil")
	}
	if e.Name != "Pikachu" || e.Universe != "creature" {
		t.Fatalf("unexpected entity: %+v", e)
	}
	if e.Attributes["weight"] != float64(60) {
		t.Fatalf("weight = %v, want 60", e.Attributes["weight"])
	}

	// second upsert replaces the attribute bag
	err = c.UpsertEntity(ctx, store.EntityInput{
		Name:       "pikachu",
		Universe:   "creature",
		EntityType: "creature",
		SourceFile: "creatures/pikachu.yaml",
		SourceHash: "def",
		Attributes: map[string]any{"weight": 61},
	})
	if err != nil {
		t.Fatalf("UpsertEntity: %v", err)
	}
	e, err = c.GetEntity(ctx, "pikachu", "creature", "creature")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if e.SourceHash != "def" || e.Attributes["weight"] != float64(61) {
		t.Fatalf("upsert did not replace entity: %+v", e)
	}
	if _, ok := e.Attributes["height"]; ok {
		t.Fatal("stale attribute survived upsert")
	}
}

func TestGetEntityMissing(t *testing.T) {
	c := newTestClient(t)
	e, err := c.GetEntity(context.Background(), "missingno", "", "")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if e != nil {
		t.Fatalf("GetEntity = %+v, want nil", e)
	}
}

func TestGetEntityAmbiguous(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	for _, typ := range []string{"planet", "person"} {
		err := c.UpsertEntity(ctx, store.EntityInput{Name: "Naboo", Universe: "scifi", EntityType: typ})
		if err != nil {
			t.Fatalf("UpsertEntity: %v", err)
		}
	}

	if _, err := c.GetEntity(ctx, "naboo", "scifi", ""); err == nil {
		t.Fatal("expected ambiguity error")
	}
	e, err := c.GetEntity(ctx, "naboo", "scifi", "planet")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if e == nil || e.EntityType != "planet" {
		t.Fatalf("GetEntity = %+v, want planet", e)
	}
}

func TestListEntitiesFilters(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	inputs := []store.EntityInput{
		{Name: "Tatooine", Universe: "scifi", EntityType: "planet"},
		{Name: "Luke Skywalker", Universe: "scifi", EntityType: "person"},
		{Name: "Bulbasaur", Universe: "creature", EntityType: "creature"},
		{Name: "Alderaan", Universe: "scifi", EntityType: "planet"},
	}
	for _, in := range inputs {
		if err := c.UpsertEntity(ctx, in); err != nil {
			t.Fatalf("UpsertEntity(%s): %v", in.Name, err)
		}
	}

	all, err := c.ListEntities(ctx, "", "")
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d entities, want 4", len(all))
	}

	planets, err := c.ListEntities(ctx, "scifi", "planet")
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(planets) != 2 || planets[0].Name != "Alderaan" || planets[1].Name != "Tatooine" {
		t.Fatalf("planets = %+v", planets)
	}
}

func TestRemoveStaleEntities(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	inputs := []store.EntityInput{
		{Name: "Tatooine", Universe: "scifi", EntityType: "planet", SourceFile: "a.yaml", SourceHash: "1"},
		{Name: "Hoth", Universe: "scifi", EntityType: "planet", SourceFile: "b.yaml", SourceHash: "2"},
	}
	for _, in := range inputs {
		if err := c.UpsertEntity(ctx, in); err != nil {
			t.Fatalf("UpsertEntity: %v", err)
		}
	}

	hashes, err := c.GetSourceHashes(ctx)
	if err != nil {
		t.Fatalf("GetSourceHashes: %v", err)
	}
	if hashes["a.yaml"] != "1" || hashes["b.yaml"] != "2" {
		t.Fatalf("hashes = %v", hashes)
	}

	removed, err := c.RemoveStaleEntities(ctx, []string{"a.yaml"})
	if err != nil {
		t.Fatalf("RemoveStaleEntities: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	e, err := c.GetEntity(ctx, "hoth", "", "")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if e != nil {
		t.Fatal("stale entity still present")
	}
}

func TestRunSQLReadOnly(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	if err := c.UpsertEntity(ctx, store.EntityInput{Name: "Hoth", Universe: "scifi", EntityType: "planet"}); err != nil {
		t.Fatalf("UpsertEntity: %v", err)
	}

	rows, err := c.RunSQL(ctx, "SELECT name FROM catalog_entities WHERE universe = ?", map[string]any{"1": "scifi"})
	if err != nil {
		t.Fatalf("RunSQL: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Hoth" {
		t.Fatalf("rows = %v", rows)
	}

	_, err = c.RunSQL(ctx, "DELETE FROM catalog_entities", nil)
	if !errors.Is(err, store.ErrWriteStatement) {
		t.Fatalf("RunSQL(DELETE) = %v, want ErrWriteStatement", err)
	}
}
