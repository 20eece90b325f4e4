package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"catalogcalc/internal/calc"
)

// Record is one catalog entity as stored in a record file. JSON files are
// read by the YAML decoder.
type Record struct {
	Name       string
	Universe   string
	EntityType string
	Attributes map[string]any
	SourceFile string
}

var (
	ErrEmptyDocument   = errors.New("empty record document")
	ErrInvalidDocument = errors.New("invalid record document")
	ErrMissingName     = errors.New("record missing required 'name' field")
	ErrMissingUniverse = errors.New("record missing required 'universe' field")
	ErrUnknownUniverse = errors.New("record has unknown universe")
	ErrMissingType     = errors.New("scifi record requires 'type' planet or person")
)

func ParseFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	rec.SourceFile = path
	return rec, nil
}

func Parse(content []byte) (*Record, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	if len(bytes.TrimSpace(trimmed)) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc map[string]any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	name, _ := doc["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	rawUniverse, _ := doc["universe"].(string)
	if strings.TrimSpace(rawUniverse) == "" {
		return nil, ErrMissingUniverse
	}
	universe := calc.ParseUniverse(rawUniverse)

	rec := &Record{Name: name, Universe: string(universe)}
	switch universe {
	case calc.UniverseCreature:
		rec.EntityType = string(calc.UniverseCreature)
	case calc.UniverseSciFi:
		rawType, _ := doc["type"].(string)
		rec.EntityType = calc.NormalizeType(rawType)
		if rec.EntityType != calc.TypePlanet && rec.EntityType != calc.TypePerson {
			return nil, ErrMissingType
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUniverse, rawUniverse)
	}

	attrs, err := parseAttributes(doc["attributes"])
	if err != nil {
		return nil, err
	}
	rec.Attributes = attrs
	return rec, nil
}

func parseAttributes(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		attrs := make(map[string]any, len(v))
		for key, val := range v {
			if _, nested := val.(map[string]any); nested {
				return nil, fmt.Errorf("%w: attribute %q must be a scalar", ErrInvalidDocument, key)
			}
			if _, list := val.([]any); list {
				return nil, fmt.Errorf("%w: attribute %q must be a scalar", ErrInvalidDocument, key)
			}
			attrs[strings.ToLower(strings.TrimSpace(key))] = val
		}
		return attrs, nil
	default:
		return nil, fmt.Errorf("%w: attributes must be a mapping", ErrInvalidDocument)
	}
}
