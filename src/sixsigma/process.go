package sixsigma

import "fmt"

// Process is one quality sample to evaluate: the total number of tests run
// and how many of them were qualified as failed. Name is an opaque optional
// label; no character-set restriction is imposed on it.
type Process struct {
	Tests int    `json:"tests"`
	Fails int    `json:"fails"`
	Name  string `json:"name,omitempty"`
}

// ValidationError reports a client input error: the offending field and the
// constraint it violated. It is always recoverable by correcting the input.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

// Validate checks per-field ranges first; the cross-field invariant
// fails <= tests is evaluated only after both fields pass on their own.
func (p Process) Validate() error {
	if p.Tests <= 0 {
		return &ValidationError{Field: "tests", Constraint: "must be greater than zero"}
	}
	if p.Fails < 0 {
		return &ValidationError{Field: "fails", Constraint: "must not be negative"}
	}
	if p.Fails > p.Tests {
		return &ValidationError{Field: "fails", Constraint: "must not exceed tests"}
	}
	return nil
}

// EvaluatedProcess extends Process with its derived attributes. All three are
// computed once at construction and never mutated afterwards; evaluating the
// same Process twice yields bit-identical results.
type EvaluatedProcess struct {
	Process
	DefectRate float64
	Sigma      float64
	Label      string
}

// Evaluate validates p and derives its defect rate, sigma and quality label.
// A zero or full defect rate is not an error: sigma becomes +Inf or -Inf and
// classification still applies (+Inf -> terminal tier, -Inf -> lowest tier).
func Evaluate(p Process) (EvaluatedProcess, error) {
	if err := p.Validate(); err != nil {
		return EvaluatedProcess{}, err
	}
	rate := float64(p.Fails) / float64(p.Tests)
	sigma := Quantile(1 - rate)
	return EvaluatedProcess{
		Process:    p,
		DefectRate: rate,
		Sigma:      sigma,
		Label:      ClassifySigma(sigma),
	}, nil
}
