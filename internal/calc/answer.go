package calc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const decimalPlaces = 10

// Evaluation is the full result of evaluating one chain.
type Evaluation struct {
	Outcomes []Outcome
	Final    Outcome
	Answer   string
}

// Evaluate builds a registry from entities, processes the operations, and
// formats the selected final result. On a terminal failure the returned
// Evaluation still carries the outcomes.
func Evaluate(entities []Entity, operations []Operation) (*Evaluation, error) {
	outcomes := Process(operations, NewRegistry(entities))
	eval := &Evaluation{Outcomes: outcomes}

	final, err := SelectFinal(outcomes)
	if err != nil {
		return eval, err
	}
	eval.Final = final
	eval.Answer = FormatDecimal(final.Result)
	return eval, nil
}

// SelectFinal returns the first outcome whose operation is flagged final, or
// the last outcome when none is. A failed selection is terminal.
func SelectFinal(outcomes []Outcome) (Outcome, error) {
	if len(outcomes) == 0 {
		return Outcome{}, fmt.Errorf("%w: no operations", ErrChainEvaluation)
	}

	selected := outcomes[len(outcomes)-1]
	for _, outcome := range outcomes {
		if outcome.Operation.Final {
			selected = outcome
			break
		}
	}

	if selected.Err != nil {
		return selected, fmt.Errorf("%w: %s (%s): %w", ErrChainEvaluation, selected.Key, selected.Description, selected.Err)
	}
	return selected, nil
}

// FormatDecimal rounds the exact binary value of v to ten decimal places,
// with exact ties rounded away from zero, and trims trailing zeros while
// keeping at least one fractional digit. Values that round to zero render as
// "0.0" regardless of sign.
func FormatDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	abs := math.Abs(v)
	s := strconv.FormatFloat(abs, 'f', decimalPlaces, 64)
	if tie, ok := exactTie(abs); ok {
		s = roundUpLastDigit(tie[:len(tie)-1])
	}

	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if s == "0.0" || !math.Signbit(v) {
		return s
	}
	return "-" + s
}

// exactTie reports whether abs lies exactly halfway between two ten-place
// decimals, returning its exact eleven-place rendering. strconv resolves
// such ties to even.
func exactTie(abs float64) (string, bool) {
	s := strconv.FormatFloat(abs, 'f', decimalPlaces+1, 64)
	if s[len(s)-1] != '5' {
		return "", false
	}
	rendered, ok := new(big.Rat).SetString(s)
	if !ok || rendered.Cmp(new(big.Rat).SetFloat64(abs)) != 0 {
		return "", false
	}
	return s, true
}

// roundUpLastDigit adds one unit in the last place of a non-negative decimal
// string, carrying into the integer part as needed.
func roundUpLastDigit(s string) string {
	digits := []byte(s)
	for i := len(digits) - 1; i >= 0; i-- {
		switch {
		case digits[i] == '.':
			continue
		case digits[i] == '9':
			digits[i] = '0'
		default:
			digits[i]++
			return string(digits)
		}
	}
	return "1" + string(digits)
}
