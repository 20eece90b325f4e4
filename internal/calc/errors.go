package calc

import "errors"

// Per-operation failures. They are captured in the operation's Outcome and
// never stop the chain.
var (
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrNonFiniteResult     = errors.New("non-finite result")
)

// ErrChainEvaluation is returned when the selected final outcome carries an
// error, or when there is no outcome to select.
var ErrChainEvaluation = errors.New("chain evaluation failed")

// FailureKind names the per-operation failure wrapped by err, for labels and
// reports. It returns "" for nil and "other" for anything unrecognized.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnresolvedReference):
		return "unresolved_reference"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrUnsupportedOperator):
		return "unsupported_operator"
	case errors.Is(err, ErrNonFiniteResult):
		return "non_finite_result"
	}
	return "other"
}
