package calc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testRegistry() *Registry {
	return NewRegistry([]Entity{
		{Name: "pikachu", Universe: UniverseCreature, Attributes: map[string]float64{"weight": 6.0}},
		{Name: "Tatooine", Universe: UniverseSciFi, Type: TypePlanet, Attributes: map[string]float64{"population": 200000}},
	})
}

func TestResolve(t *testing.T) {
	registry := testRegistry()
	results := Results{"op1": 6000}

	tests := []struct {
		name    string
		ref     Operand
		want    float64
		wantErr string
	}{
		{name: "literal", ref: Literal(1000), want: 1000},
		{name: "attribute", ref: AttributeRef("Pikachu", "Weight"), want: 6},
		{name: "result", ref: ResultRef("op1"), want: 6000},
		{name: "missing result", ref: ResultRef("op2"), wantErr: `no intermediate result for key "op2"`},
		{name: "missing entity", ref: AttributeRef("Hoth", "diameter"), wantErr: "entity not found: Hoth"},
		{name: "missing attribute", ref: AttributeRef("tatooine", "gravity"), wantErr: "attribute not found: tatooine.gravity"},
		{name: "unrecognized", ref: Unrecognized(`"ten"`), wantErr: "unrecognized operand shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.ref, registry, results)
			if tt.wantErr != "" {
				if !errors.Is(err, ErrUnresolvedReference) {
					t.Fatalf("err = %v, want ErrUnresolvedReference", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %q, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_DoesNotMutate(t *testing.T) {
	results := Results{"op1": 1}
	if _, err := Resolve(ResultRef("op2"), testRegistry(), results); err == nil {
		t.Fatal("expected error for missing result")
	}
	if len(results) != 1 || results["op1"] != 1 {
		t.Fatalf("results mutated: %v", results)
	}
}

func TestKeyPosition(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"op1", 1, true},
		{"op12", 12, true},
		{" op3 ", 3, true},
		{"op0", 0, false},
		{"op", 0, false},
		{"result1", 0, false},
		{"op-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := KeyPosition(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("KeyPosition(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
	if key := ResultKey(7); key != "op7" {
		t.Fatalf("ResultKey(7) = %q", key)
	}
}

func TestOperand_MarshalJSON(t *testing.T) {
	ops := []Operand{Literal(2.5), AttributeRef("pikachu", "weight"), ResultRef("op1"), Unrecognized("true")}
	payload, err := json.Marshal(ops)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[2.5,{"entity":"pikachu","property":"weight"},{"ref":"op1"},{"unrecognized":"true"}]`
	if string(payload) != want {
		t.Fatalf("payload = %s, want %s", payload, want)
	}
}

func TestOperand_String(t *testing.T) {
	tests := []struct {
		operand Operand
		want    string
	}{
		{Literal(1000), "1000"},
		{AttributeRef("pikachu", "weight"), "pikachu.weight"},
		{ResultRef("op2"), "op2"},
	}
	for _, tt := range tests {
		if got := tt.operand.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
	if got := OperandResult.String(); got != "result" {
		t.Fatalf("OperandResult.String() = %q", got)
	}
}
