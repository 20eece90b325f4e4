package calc

import (
	"fmt"
	"math"
)

type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

func (o Operator) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Apply evaluates left <op> right. Division by an exact zero and unknown
// operators fail; results are not rounded.
func Apply(op Operator, left, right float64) (float64, error) {
	var result float64
	switch op {
	case OpAdd:
		result = left + right
	case OpSubtract:
		result = left - right
	case OpMultiply:
		result = left * right
	case OpDivide:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		result = left / right
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, string(op))
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %g %s %g", ErrNonFiniteResult, left, op, right)
	}
	return result, nil
}
