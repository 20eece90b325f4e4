package calc

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrDivisionByZero, "division_by_zero"},
		{fmt.Errorf("%w: entity not found: x", ErrUnresolvedReference), "unresolved_reference"},
		{fmt.Errorf("%w: %q", ErrUnsupportedOperator, "^"), "unsupported_operator"},
		{ErrNonFiniteResult, "non_finite_result"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := FailureKind(tt.err); got != tt.want {
			t.Fatalf("FailureKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
