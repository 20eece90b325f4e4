package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"catalogcalc/internal/calc"
)

var ErrInvalidSpecification = errors.New("invalid specification")

var codeFence = regexp.MustCompile("^```[a-zA-Z]*\\s*|\\s*```$")

// EntitySpec names an entity the operations refer to. Attributes, when
// present, is the entity's raw attribute bag supplied inline instead of
// being fetched from a catalog.
type EntitySpec struct {
	Name              string         `mapstructure:"name" json:"name"`
	Universe          string         `mapstructure:"universe" json:"universe"`
	Type              string         `mapstructure:"type" json:"type"`
	NumericProperties []string       `mapstructure:"numeric_properties" json:"numeric_properties,omitempty"`
	Attributes        map[string]any `mapstructure:"attributes" json:"attributes,omitempty"`
}

type Specification struct {
	Entities   []EntitySpec
	Operations []calc.Operation
}

type rawSpecification struct {
	Entities   []EntitySpec   `mapstructure:"entities"`
	Operations []rawOperation `mapstructure:"operations"`
}

type rawOperation struct {
	Description string      `mapstructure:"description"`
	Operator    string      `mapstructure:"operator"`
	Elements    rawElements `mapstructure:"elements"`
	Final       bool        `mapstructure:"final"`
}

type rawElements struct {
	Left  any `mapstructure:"left"`
	Right any `mapstructure:"right"`
}

type attributeOperand struct {
	Entity   string `mapstructure:"entity"`
	Property string `mapstructure:"property"`
}

// Parse decodes an analyzer reply. Surrounding markdown code fences are
// ignored.
func Parse(data []byte) (*Specification, error) {
	cleaned := StripCodeFence(string(data))

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.UseNumber()

	var doc map[string]any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
	}
	return FromMap(doc)
}

// FromMap decodes an already unmarshalled specification document.
func FromMap(doc map[string]any) (*Specification, error) {
	if doc["entities"] == nil {
		return nil, fmt.Errorf("%w: missing entities", ErrInvalidSpecification)
	}
	if doc["operations"] == nil {
		return nil, fmt.Errorf("%w: missing operations", ErrInvalidSpecification)
	}

	var raw rawSpecification
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
	}

	spec := &Specification{
		Entities:   raw.Entities,
		Operations: make([]calc.Operation, 0, len(raw.Operations)),
	}
	for _, op := range raw.Operations {
		spec.Operations = append(spec.Operations, calc.Operation{
			Description: op.Description,
			Operator:    calc.Operator(op.Operator),
			Left:        ParseOperand(op.Elements.Left),
			Right:       ParseOperand(op.Elements.Right),
			Final:       op.Final,
		})
	}
	if spec.Entities == nil {
		spec.Entities = []EntitySpec{}
	}
	return spec, nil
}

// ParseOperand discriminates an operand value: a number is a literal, an
// object with a non-empty "ref" is a result reference, and an object with
// "entity" and "property" is an attribute reference. Anything else is
// unrecognized.
func ParseOperand(value any) calc.Operand {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return calc.Unrecognized(render(value))
		}
		return literal(f, value)
	case float64:
		return literal(v, value)
	case float32:
		return literal(float64(v), value)
	case int:
		return calc.Literal(float64(v))
	case int64:
		return calc.Literal(float64(v))
	case map[string]any:
		if ref, ok := v["ref"].(string); ok && strings.TrimSpace(ref) != "" {
			return calc.ResultRef(strings.TrimSpace(ref))
		}
		var attr attributeOperand
		if err := mapstructure.Decode(v, &attr); err == nil &&
			strings.TrimSpace(attr.Entity) != "" && strings.TrimSpace(attr.Property) != "" {
			return calc.AttributeRef(strings.TrimSpace(attr.Entity), strings.TrimSpace(attr.Property))
		}
	}
	return calc.Unrecognized(render(value))
}

func literal(f float64, value any) calc.Operand {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return calc.Unrecognized(render(value))
	}
	return calc.Literal(f)
}

func render(value any) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(payload)
}

// StripCodeFence removes a leading ```lang marker and a trailing ``` marker.
func StripCodeFence(s string) string {
	return codeFence.ReplaceAllString(strings.TrimSpace(s), "")
}
