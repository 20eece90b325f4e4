package store

import (
	"errors"
	"fmt"
	"strings"
)

var ErrWriteStatement = errors.New("only read-only statements are allowed")

// CheckReadOnly rejects anything that is not a single SELECT, WITH or
// EXPLAIN statement. The catalog mirror is written by ingest only.
func CheckReadOnly(query string) error {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	if q == "" {
		return fmt.Errorf("%w: empty query", ErrWriteStatement)
	}
	if strings.Contains(q, ";") {
		return fmt.Errorf("%w: multiple statements", ErrWriteStatement)
	}
	first, _, _ := strings.Cut(q, " ")
	first = strings.ToUpper(strings.TrimSpace(strings.SplitN(first, "\n", 2)[0]))
	switch first {
	case "SELECT", "WITH", "EXPLAIN", "VALUES":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrWriteStatement, first)
}

// PositionalArgs orders params keyed "1", "2", ... into a slice.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		if val, ok := params[fmt.Sprint(i)]; ok {
			args = append(args, val)
		}
	}
	return args
}
