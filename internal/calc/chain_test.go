package calc

import (
	"errors"
	"testing"
)

func TestProcess_StoresResultsByPosition(t *testing.T) {
	ops := []Operation{
		{Description: "grams", Operator: OpMultiply, Left: AttributeRef("pikachu", "weight"), Right: Literal(1000)},
		{Description: "per person", Operator: OpDivide, Left: ResultRef("op1"), Right: AttributeRef("tatooine", "population")},
	}

	outcomes := Process(ops, testRegistry())
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}

	first := outcomes[0]
	if !first.OK() || first.Result != 6000 || first.Key != "op1" || first.Description != "grams" {
		t.Fatalf("op1 = %+v", first)
	}
	second := outcomes[1]
	if !second.OK() || second.Result != 0.03 || second.Position != 2 {
		t.Fatalf("op2 = %+v", second)
	}
}

func TestProcess_FailureDoesNotHaltChain(t *testing.T) {
	ops := []Operation{
		{Description: "bad", Operator: OpDivide, Left: Literal(1), Right: Literal(0)},
		{Description: "independent", Operator: OpAdd, Left: Literal(2), Right: Literal(3)},
	}

	outcomes := Process(ops, testRegistry())
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if !errors.Is(outcomes[0].Err, ErrDivisionByZero) {
		t.Fatalf("op1 err = %v, want ErrDivisionByZero", outcomes[0].Err)
	}
	if outcomes[0].Result != 0 {
		t.Fatalf("failed op1 carries result %v", outcomes[0].Result)
	}
	if outcomes[1].Err != nil || outcomes[1].Result != 5 {
		t.Fatalf("op2 = %+v", outcomes[1])
	}
}

func TestProcess_ReferenceToFailedOperation(t *testing.T) {
	ops := []Operation{
		{Operator: OpAdd, Left: AttributeRef("pikachu", "mass"), Right: Literal(1)},
		{Operator: OpMultiply, Left: ResultRef("op1"), Right: Literal(2)},
		{Operator: OpSubtract, Left: ResultRef("op2"), Right: Literal(2)},
	}

	outcomes := Process(ops, testRegistry())
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	for _, outcome := range outcomes {
		if !errors.Is(outcome.Err, ErrUnresolvedReference) {
			t.Fatalf("%s err = %v, want ErrUnresolvedReference", outcome.Key, outcome.Err)
		}
	}
}

func TestProcess_ForwardReferenceFails(t *testing.T) {
	ops := []Operation{
		{Operator: OpAdd, Left: ResultRef("op2"), Right: Literal(1)},
		{Operator: OpAdd, Left: Literal(1), Right: Literal(1)},
		{Operator: OpAdd, Left: ResultRef("op3"), Right: Literal(1)},
	}

	outcomes := Process(ops, nil)
	if !errors.Is(outcomes[0].Err, ErrUnresolvedReference) {
		t.Fatalf("op1 err = %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil {
		t.Fatalf("op2 err = %v", outcomes[1].Err)
	}
	if !errors.Is(outcomes[2].Err, ErrUnresolvedReference) {
		t.Fatalf("op3 err = %v", outcomes[2].Err)
	}
}

func TestProcess_LengthAndOrder(t *testing.T) {
	ops := make([]Operation, 0, 20)
	for i := 0; i < 20; i++ {
		op := Operation{Description: ResultKey(i + 1), Operator: OpAdd, Left: Literal(float64(i)), Right: Literal(1)}
		if i%3 == 0 {
			op.Operator = Operator("%")
		}
		ops = append(ops, op)
	}

	outcomes := Process(ops, nil)
	if len(outcomes) != len(ops) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(ops))
	}
	for i, outcome := range outcomes {
		if outcome.Description != ops[i].Description || outcome.Position != i+1 {
			t.Fatalf("outcome %d out of order: %+v", i, outcome)
		}
		if failed := outcome.Err != nil; failed != (i%3 == 0) {
			t.Fatalf("outcome %d failed = %v", i, failed)
		}
	}
}

func TestProcess_Empty(t *testing.T) {
	if outcomes := Process(nil, nil); len(outcomes) != 0 {
		t.Fatalf("outcomes = %+v, want none", outcomes)
	}
}

func TestProcess_IsolatedAcrossCalls(t *testing.T) {
	first := []Operation{{Operator: OpAdd, Left: Literal(1), Right: Literal(1)}}
	second := []Operation{{Operator: OpAdd, Left: ResultRef("op1"), Right: Literal(1)}, {Operator: OpAdd, Left: ResultRef("op1"), Right: Literal(1)}}

	if err := Process(first, nil)[0].Err; err != nil {
		t.Fatalf("first chain: %v", err)
	}
	outcomes := Process(second, nil)
	for _, outcome := range outcomes {
		if !errors.Is(outcome.Err, ErrUnresolvedReference) {
			t.Fatalf("%s err = %v, want ErrUnresolvedReference", outcome.Key, outcome.Err)
		}
	}
}
