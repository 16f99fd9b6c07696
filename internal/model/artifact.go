package model

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/Skufu/GoRisk/internal/risk"
	"gopkg.in/yaml.v3"
)

// Scaler is a fitted standard scaler applied before the linear term.
type Scaler struct {
	Mean  []float64 `yaml:"mean" json:"mean"`
	Scale []float64 `yaml:"scale" json:"scale"`
}

// Artifact is an exported logistic-regression classifier. Files may be JSON
// or YAML.
type Artifact struct {
	RiskType     risk.RiskType `yaml:"risk_type" json:"risk_type"`
	Version      string        `yaml:"version" json:"version"`
	Features     []string      `yaml:"features" json:"features"`
	Scaler       *Scaler       `yaml:"scaler,omitempty" json:"scaler,omitempty"`
	Coefficients []float64     `yaml:"coefficients" json:"coefficients"`
	Intercept    float64       `yaml:"intercept" json:"intercept"`
}

func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return &a, nil
}

// Logistic evaluates an Artifact in-process.
type Logistic struct {
	riskType  risk.RiskType
	version   string
	features  []string
	mean      []float64
	scale     []float64
	coef      []float64
	intercept float64
}

// NewLogistic checks the artifact against the canonical feature order for
// its risk type. A model trained on different columns is rejected here rather
// than producing silently wrong probabilities.
func NewLogistic(a *Artifact) (*Logistic, error) {
	if a == nil {
		return nil, fmt.Errorf("nil artifact")
	}
	if !a.RiskType.Valid() {
		return nil, fmt.Errorf("%w: %q", risk.ErrUnknownRiskType, string(a.RiskType))
	}

	want := risk.FeatureNames(a.RiskType)
	if !slices.Equal(a.Features, want) {
		return nil, fmt.Errorf("model %s expects features %v, service provides %v", a.RiskType, a.Features, want)
	}
	if len(a.Coefficients) != len(a.Features) {
		return nil, fmt.Errorf("model %s has %d coefficients for %d features", a.RiskType, len(a.Coefficients), len(a.Features))
	}

	l := &Logistic{
		riskType:  a.RiskType,
		version:   a.Version,
		features:  slices.Clone(a.Features),
		coef:      slices.Clone(a.Coefficients),
		intercept: a.Intercept,
	}

	if a.Scaler != nil {
		if len(a.Scaler.Mean) != len(a.Features) || len(a.Scaler.Scale) != len(a.Features) {
			return nil, fmt.Errorf("model %s scaler does not match %d features", a.RiskType, len(a.Features))
		}
		for i, s := range a.Scaler.Scale {
			if s == 0 {
				return nil, fmt.Errorf("model %s scaler has zero scale for %s", a.RiskType, a.Features[i])
			}
		}
		l.mean = slices.Clone(a.Scaler.Mean)
		l.scale = slices.Clone(a.Scaler.Scale)
	}

	return l, nil
}

func (l *Logistic) Version() string {
	return l.version
}

func (l *Logistic) PredictProbability(_ context.Context, fv risk.FeatureVector) (float64, error) {
	if !slices.Equal(fv.Names, l.features) {
		return 0, fmt.Errorf("feature order %v does not match model %v", fv.Names, l.features)
	}

	z := l.intercept
	for i, x := range fv.Values {
		if l.scale != nil {
			x = (x - l.mean[i]) / l.scale[i]
		}
		z += l.coef[i] * x
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
