package risk

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRiskType  = errors.New("unknown risk type")
	ErrInputMissing     = errors.New("required input missing")
	ErrModelUnavailable = errors.New("model unavailable")
)

// InputMissingError names the first required field absent from the raw inputs.
type InputMissingError struct {
	RiskType RiskType
	Field    string
}

func (e *InputMissingError) Error() string {
	return fmt.Sprintf("%s: %s requires %q", ErrInputMissing, e.RiskType, e.Field)
}

func (e *InputMissingError) Unwrap() error {
	return ErrInputMissing
}

// ModelError wraps a failure to load or call the predictor for a risk type.
type ModelError struct {
	RiskType RiskType
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrModelUnavailable, e.RiskType, e.Err)
}

func (e *ModelError) Unwrap() []error {
	return []error{ErrModelUnavailable, e.Err}
}
