package risk

import (
	"context"
	"fmt"
	"math"
)

// RawInputs holds the numeric values submitted by the form, keyed by field name.
type RawInputs map[string]float64

func (r RawInputs) lookup(f Feature) (float64, bool) {
	if v, ok := r[f.Field]; ok {
		return v, true
	}
	v, ok := r[f.Name]
	return v, ok
}

// Get returns the value for a raw field, if present.
func (r RawInputs) Get(field string) (float64, bool) {
	v, ok := r[field]
	return v, ok
}

// Value resolves a raw field the way feature selection does: the form name
// first, then any model-facing name bound to that field.
func (r RawInputs) Value(field string) (float64, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	for _, name := range modelNames[field] {
		if v, ok := r[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// FeatureVector is the ordered input handed to a predictor.
type FeatureVector struct {
	Names  []string
	Values []float64
}

func (fv FeatureVector) Len() int {
	return len(fv.Names)
}

func (fv FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(fv.Names))
	for i, name := range fv.Names {
		m[name] = fv.Values[i]
	}
	return m
}

// Predictor is the capability every trained classifier exposes.
type Predictor interface {
	PredictProbability(ctx context.Context, fv FeatureVector) (float64, error)
}

// BuildFeatureVector selects and orders the inputs the model for rt expects.
func BuildFeatureVector(rt RiskType, raw RawInputs) (FeatureVector, error) {
	features, ok := schemas[rt]
	if !ok {
		return FeatureVector{}, fmt.Errorf("%w: %q", ErrUnknownRiskType, string(rt))
	}

	fv := FeatureVector{
		Names:  make([]string, 0, len(features)),
		Values: make([]float64, 0, len(features)),
	}
	for _, f := range features {
		v, ok := raw.lookup(f)
		if !ok {
			return FeatureVector{}, &InputMissingError{RiskType: rt, Field: f.Field}
		}
		fv.Names = append(fv.Names, f.Name)
		fv.Values = append(fv.Values, v)
	}
	return fv, nil
}

// Evaluator routes each risk type to its predictor. Predictors are read-only
// after construction, so one Evaluator serves any number of goroutines.
type Evaluator struct {
	predictors map[RiskType]Predictor
}

func NewEvaluator(predictors map[RiskType]Predictor) *Evaluator {
	p := make(map[RiskType]Predictor, len(predictors))
	for rt, pred := range predictors {
		p[rt] = pred
	}
	return &Evaluator{predictors: p}
}

func (e *Evaluator) Evaluate(ctx context.Context, rt RiskType, raw RawInputs) (PredictionResult, error) {
	if !rt.Valid() {
		return PredictionResult{}, fmt.Errorf("%w: %q", ErrUnknownRiskType, string(rt))
	}

	fv, err := BuildFeatureVector(rt, raw)
	if err != nil {
		return PredictionResult{}, err
	}

	predictor, ok := e.predictors[rt]
	if !ok || predictor == nil {
		return PredictionResult{}, &ModelError{RiskType: rt, Err: fmt.Errorf("no model registered")}
	}

	p, err := predictor.PredictProbability(ctx, fv)
	if err != nil {
		return PredictionResult{}, &ModelError{RiskType: rt, Err: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return PredictionResult{}, &ModelError{RiskType: rt, Err: fmt.Errorf("probability %v outside [0,1]", p)}
	}

	return PredictionResult{
		RiskType:    rt,
		Probability: p,
		Label:       Classify(p),
	}, nil
}
