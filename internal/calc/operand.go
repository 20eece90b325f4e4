package calc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type OperandKind uint8

const (
	OperandUnrecognized OperandKind = iota
	OperandLiteral
	OperandAttribute
	OperandResult
)

func (k OperandKind) String() string {
	switch k {
	case OperandLiteral:
		return "literal"
	case OperandAttribute:
		return "attribute"
	case OperandResult:
		return "result"
	default:
		return "unrecognized"
	}
}

// Operand is one side of an operation. Kind selects which fields are
// meaningful: Value for literals, Entity and Attribute for attribute
// references, Key for references to an earlier operation's result. An
// unrecognized operand keeps a rendering of its source in Raw and fails when
// resolved.
type Operand struct {
	Kind      OperandKind
	Value     float64
	Entity    string
	Attribute string
	Key       string
	Raw       string
}

func Literal(value float64) Operand {
	return Operand{Kind: OperandLiteral, Value: value}
}

func AttributeRef(entity, attribute string) Operand {
	return Operand{Kind: OperandAttribute, Entity: entity, Attribute: attribute}
}

func ResultRef(key string) Operand {
	return Operand{Kind: OperandResult, Key: key}
}

func Unrecognized(raw string) Operand {
	return Operand{Kind: OperandUnrecognized, Raw: raw}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandLiteral:
		return strconv.FormatFloat(o.Value, 'g', -1, 64)
	case OperandAttribute:
		return o.Entity + "." + o.Attribute
	case OperandResult:
		return o.Key
	default:
		return fmt.Sprintf("unrecognized(%s)", o.Raw)
	}
}

// MarshalJSON renders the operand in the analyzer's operand shape.
func (o Operand) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case OperandLiteral:
		return json.Marshal(o.Value)
	case OperandAttribute:
		return json.Marshal(map[string]string{"entity": o.Entity, "property": o.Attribute})
	case OperandResult:
		return json.Marshal(map[string]string{"ref": o.Key})
	default:
		return json.Marshal(map[string]string{"unrecognized": o.Raw})
	}
}

// ResultKey is the positional key under which the operation at position
// (1-indexed) stores its result.
func ResultKey(position int) string {
	return "op" + strconv.Itoa(position)
}

// KeyPosition parses a positional key back into its 1-indexed position.
func KeyPosition(key string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(key), "op")
	if !ok || rest == "" {
		return 0, false
	}
	position, err := strconv.Atoi(rest)
	if err != nil || position < 1 {
		return 0, false
	}
	return position, true
}

// Results holds the values of the operations that succeeded so far, by
// positional key.
type Results map[string]float64

// Resolve turns an operand into a number using the registry and the results
// produced earlier in the same chain.
func Resolve(ref Operand, registry *Registry, results Results) (float64, error) {
	switch ref.Kind {
	case OperandLiteral:
		return ref.Value, nil
	case OperandResult:
		value, ok := results[ref.Key]
		if !ok {
			return 0, fmt.Errorf("%w: no intermediate result for key %q", ErrUnresolvedReference, ref.Key)
		}
		return value, nil
	case OperandAttribute:
		entity, ok := registry.Lookup(ref.Entity)
		if !ok {
			return 0, fmt.Errorf("%w: entity not found: %s", ErrUnresolvedReference, ref.Entity)
		}
		value, ok := entity.Attribute(ref.Attribute)
		if !ok {
			return 0, fmt.Errorf("%w: attribute not found: %s.%s", ErrUnresolvedReference, ref.Entity, ref.Attribute)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized operand shape: %s", ErrUnresolvedReference, ref.Raw)
	}
}
