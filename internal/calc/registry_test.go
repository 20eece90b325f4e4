package calc

import "testing"

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	registry := NewRegistry([]Entity{
		{Name: "Pikachu", Universe: UniverseCreature, Attributes: map[string]float64{"weight": 60}},
	})

	for _, name := range []string{"pikachu", "PIKACHU", " Pikachu "} {
		entity, ok := registry.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) missed", name)
		}
		if entity.Name != "Pikachu" {
			t.Fatalf("Lookup(%q) = %s", name, entity.Name)
		}
	}
}

func TestRegistry_LastWriteWins(t *testing.T) {
	registry := NewRegistry([]Entity{
		{Name: "Pikachu", Attributes: map[string]float64{"weight": 60}},
		{Name: "pikachu", Attributes: map[string]float64{"weight": 61}},
	})

	if registry.Len() != 1 {
		t.Fatalf("Len = %d, want 1", registry.Len())
	}
	entity, ok := registry.Lookup("PIKACHU")
	if !ok || entity.Name != "pikachu" {
		t.Fatalf("Lookup = %+v, %v", entity, ok)
	}
	if weight, ok := entity.Attribute("weight"); !ok || weight != 61 {
		t.Fatalf("weight = %v, %v; want 61", weight, ok)
	}
}

func TestRegistry_SkipsUnnamed(t *testing.T) {
	registry := NewRegistry([]Entity{
		{Name: "", Attributes: map[string]float64{"weight": 1}},
		{Name: "   ", Attributes: map[string]float64{"weight": 2}},
		{Name: "Tatooine"},
	})
	if registry.Len() != 1 {
		t.Fatalf("Len = %d, want 1", registry.Len())
	}
	if _, ok := registry.Lookup(""); ok {
		t.Fatal("empty name should not resolve")
	}
}

func TestRegistry_OwnsAttributes(t *testing.T) {
	attrs := map[string]float64{"Weight": 60}
	registry := NewRegistry([]Entity{{Name: "pikachu", Attributes: attrs}})
	attrs["weight"] = 1

	entity, ok := registry.Lookup("pikachu")
	if !ok {
		t.Fatal("pikachu missing")
	}
	if weight, ok := entity.Attribute("WEIGHT"); !ok || weight != 60 {
		t.Fatalf("weight = %v, %v; want 60", weight, ok)
	}
}

func TestRegistry_NilLookup(t *testing.T) {
	var registry *Registry
	if _, ok := registry.Lookup("anything"); ok {
		t.Fatal("nil registry resolved a name")
	}
	if registry.Len() != 0 {
		t.Fatalf("Len = %d", registry.Len())
	}
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("Ångström") != NormalizeName("ÅNGSTRÖM") {
		t.Fatal("case folding should ignore case for non-ASCII names")
	}
	if got := NormalizeName("  Luke Skywalker "); got != "luke skywalker" {
		t.Fatalf("NormalizeName = %q", got)
	}
}
