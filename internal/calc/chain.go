package calc

// Operation is one step of a chain.
type Operation struct {
	Description string
	Operator    Operator
	Left        Operand
	Right       Operand
	Final       bool
}

// Outcome records what happened to one operation. Exactly one of Result and
// Err is meaningful: Err is nil when the operation succeeded.
type Outcome struct {
	Position    int
	Key         string
	Description string
	Result      float64
	Operation   Operation
	Err         error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Process evaluates operations in order. Each success is stored under its
// positional key for later operations; a failure is recorded on its outcome,
// stores nothing, and does not stop the remaining operations. The returned
// slice has one outcome per operation, in input order.
func Process(operations []Operation, registry *Registry) []Outcome {
	results := make(Results, len(operations))
	outcomes := make([]Outcome, 0, len(operations))

	for i, op := range operations {
		position := i + 1
		outcome := Outcome{
			Position:    position,
			Key:         ResultKey(position),
			Description: op.Description,
			Operation:   op,
		}

		value, err := execute(op, registry, results)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		results[outcome.Key] = value
		outcome.Result = value
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func execute(op Operation, registry *Registry, results Results) (float64, error) {
	left, err := Resolve(op.Left, registry, results)
	if err != nil {
		return 0, err
	}
	right, err := Resolve(op.Right, registry, results)
	if err != nil {
		return 0, err
	}
	return Apply(op.Operator, left, right)
}
