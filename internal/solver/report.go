package solver

import (
	"catalogcalc/internal/calc"
)

// Report is the wire form of an evaluation used by the HTTP and MCP
// surfaces.
type Report struct {
	Answer   string          `json:"answer"`
	Error    string          `json:"error,omitempty"`
	Outcomes []OutcomeReport `json:"outcomes"`
}

type OutcomeReport struct {
	Key         string       `json:"key"`
	Description string       `json:"description,omitempty"`
	Operator    string       `json:"operator"`
	Left        calc.Operand `json:"left"`
	Right       calc.Operand `json:"right"`
	Final       bool         `json:"final,omitempty"`
	Result      *float64     `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
	Failure     string       `json:"failure,omitempty"`
}

// NewReport renders an evaluation and its terminal error. A nil eval with an
// error yields the fallback answer and no outcomes.
func NewReport(eval *calc.Evaluation, err error) Report {
	r := Report{Outcomes: []OutcomeReport{}}
	if err != nil {
		r.Answer = FallbackAnswer
		r.Error = err.Error()
	}
	if eval == nil {
		return r
	}
	if err == nil {
		r.Answer = eval.Answer
	}
	for _, o := range eval.Outcomes {
		out := OutcomeReport{
			Key:         o.Key,
			Description: o.Description,
			Operator:    string(o.Operation.Operator),
			Left:        o.Operation.Left,
			Right:       o.Operation.Right,
			Final:       o.Operation.Final,
		}
		if o.OK() {
			result := o.Result
			out.Result = &result
		} else {
			out.Error = o.Err.Error()
			out.Failure = calc.FailureKind(o.Err)
		}
		r.Outcomes = append(r.Outcomes, out)
	}
	return r
}
