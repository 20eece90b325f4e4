package validate

import (
	"fmt"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/problem"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeNoOperations        = "no_operations"
	codeUnsupportedOperator = "unsupported_operator"
	codeUnrecognizedOperand = "unrecognized_operand"
	codeForwardReference    = "forward_reference"
	codeUnknownEntity       = "unknown_entity"
	codeAttributeNotAllowed = "attribute_not_whitelisted"
	codeUnknownUniverse     = "unknown_universe"
	codeMultipleFinal       = "multiple_final"
	codeMissingEntityName   = "missing_entity_name"
)

type Issue struct {
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Operation string   `json:"operation,omitempty"`
	Entity    string   `json:"entity,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run checks a specification without evaluating it. Errors mark operations
// that are certain to fail; warnings mark likely analyzer mistakes.
func Run(spec *problem.Specification) (*Report, error) {
	if spec == nil {
		return nil, fmt.Errorf("specification is required")
	}

	issues := make([]Issue, 0)
	entities := make(map[string]problem.EntitySpec, len(spec.Entities))
	for i, entity := range spec.Entities {
		name := calc.NormalizeName(entity.Name)
		if name == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeMissingEntityName,
				Message:  fmt.Sprintf("entity %d has no name and is ignored", i+1),
			})
			continue
		}
		if calc.ParseUniverse(entity.Universe) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownUniverse,
				Message:  fmt.Sprintf("universe %q has no numeric attributes", entity.Universe),
				Entity:   entity.Name,
			})
		}
		entities[name] = entity
	}

	if len(spec.Operations) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNoOperations,
			Message:  "specification has no operations",
		})
		return &Report{Issues: issues}, nil
	}

	finals := 0
	for i, op := range spec.Operations {
		position := i + 1
		key := calc.ResultKey(position)
		if op.Final {
			finals++
		}
		if !op.Operator.Valid() {
			issues = append(issues, Issue{
				Severity:  SeverityError,
				Code:      codeUnsupportedOperator,
				Message:   fmt.Sprintf("unsupported operator %q", op.Operator),
				Operation: key,
			})
		}
		for _, operand := range []calc.Operand{op.Left, op.Right} {
			issues = append(issues, checkOperand(operand, position, entities)...)
		}
	}

	if finals > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeMultipleFinal,
			Message:  fmt.Sprintf("%d operations are marked final, the first one wins", finals),
		})
	}

	return &Report{Issues: issues}, nil
}

func checkOperand(operand calc.Operand, position int, entities map[string]problem.EntitySpec) []Issue {
	key := calc.ResultKey(position)
	switch operand.Kind {
	case calc.OperandLiteral:
		return nil
	case calc.OperandResult:
		target, ok := calc.KeyPosition(operand.Key)
		if !ok || target >= position {
			return []Issue{{
				Severity:  SeverityError,
				Code:      codeForwardReference,
				Message:   fmt.Sprintf("reference %q does not name an earlier operation", operand.Key),
				Operation: key,
			}}
		}
		return nil
	case calc.OperandAttribute:
		entity, ok := entities[calc.NormalizeName(operand.Entity)]
		if !ok {
			return []Issue{{
				Severity:  SeverityError,
				Code:      codeUnknownEntity,
				Message:   fmt.Sprintf("entity %q is not declared", operand.Entity),
				Operation: key,
				Entity:    operand.Entity,
			}}
		}
		if !calc.IsWhitelisted(entity.Universe, entity.Type, operand.Attribute) {
			return []Issue{{
				Severity:  SeverityWarn,
				Code:      codeAttributeNotAllowed,
				Message:   fmt.Sprintf("attribute %q is not kept for %s/%s", operand.Attribute, entity.Universe, entity.Type),
				Operation: key,
				Entity:    operand.Entity,
			}}
		}
		return nil
	default:
		return []Issue{{
			Severity:  SeverityError,
			Code:      codeUnrecognizedOperand,
			Message:   fmt.Sprintf("operand %s is neither a number, a reference nor an attribute", operand.Raw),
			Operation: key,
		}}
	}
}
