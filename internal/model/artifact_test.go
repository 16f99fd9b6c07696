package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadArtifactJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "d.json", `{ "risk_type": "diabetes", "version": "v1", "features": ["age", "bmi", "blood_glucose_level", "hba1c_level"], "coefficients": [0.1, 0.2, 0.3, 0.4], "intercept": -1.5 }`)
	yamlPath := writeFile(t, dir, "d.yaml", `
risk_type: diabetes
version: v1
features: [age, bmi, blood_glucose_level, hba1c_level]
coefficients: [0.1, 0.2, 0.3, 0.4]
intercept: -1.5
`)

	fromJSON, err := LoadArtifact(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadArtifact(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, risk.Diabetes, fromJSON.RiskType)
	assert.Nil(t, fromJSON.Scaler)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewLogisticRejectsWrongFeatureOrder(t *testing.T) {
	_, err := NewLogistic(&Artifact{
		RiskType:     risk.HeartDisease,
		Features:     []string{"age", "trestbps", "chol", "thalach", "oldpeak", "ca"},
		Coefficients: []float64{1, 1, 1, 1, 1, 1},
	})
	assert.ErrorContains(t, err, "expects features")
}

func TestNewLogisticValidation(t *testing.T) {
	features := risk.FeatureNames(risk.CancerRisk)
	tests := []struct {
		name string
		a    *Artifact
	}{
		{name: "nil", a: nil},
		{name: "unknown risk type", a: &Artifact{RiskType: "flu", Features: features, Coefficients: []float64{1, 1, 1, 1}}},
		{name: "coefficient count", a: &Artifact{RiskType: risk.CancerRisk, Features: features, Coefficients: []float64{1}}},
		{name: "scaler length", a: &Artifact{RiskType: risk.CancerRisk, Features: features, Coefficients: []float64{1, 1, 1, 1}, Scaler: &Scaler{Mean: []float64{0}, Scale: []float64{1}}}},
		{name: "zero scale", a: &Artifact{RiskType: risk.CancerRisk, Features: features, Coefficients: []float64{1, 1, 1, 1}, Scaler: &Scaler{Mean: []float64{0, 0, 0, 0}, Scale: []float64{1, 0, 1, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogistic(tt.a)
			assert.Error(t, err)
		})
	}
}

func TestLogisticPredictProbability(t *testing.T) {
	l, err := NewLogistic(&Artifact{
		RiskType:     risk.Diabetes,
		Features:     risk.FeatureNames(risk.Diabetes),
		Scaler:       &Scaler{Mean: []float64{45, 28, 150, 7.2}, Scale: []float64{10, 5, 40, 1}},
		Coefficients: []float64{1, 1, 1, 1},
		Intercept:    0,
	})
	require.NoError(t, err)

	fv, err := risk.BuildFeatureVector(risk.Diabetes, risk.RawInputs{"age": 45, "bmi": 28, "glucose": 150, "hba1c": 7.2})
	require.NoError(t, err)
	p, err := l.PredictProbability(context.Background(), fv)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	fv.Values[3] = 9.2
	p, err = l.PredictProbability(context.Background(), fv)
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(2), p, 1e-9)
	assert.Greater(t, p, 0.5)
}

func TestLogisticRejectsMisorderedVector(t *testing.T) {
	l, err := NewLogistic(&Artifact{
		RiskType:     risk.Diabetes,
		Features:     risk.FeatureNames(risk.Diabetes),
		Coefficients: []float64{1, 1, 1, 1},
	})
	require.NoError(t, err)

	_, err = l.PredictProbability(context.Background(), risk.FeatureVector{
		Names:  []string{"bmi", "age", "blood_glucose_level", "hba1c_level"},
		Values: []float64{1, 2, 3, 4},
	})
	assert.Error(t, err)
}

func TestLoadShippedModels(t *testing.T) {
	reg := Load(Options{Dir: filepath.Join("..", "..", "models")})
	require.True(t, reg.Healthy(), "status: %v", reg.Status())

	ev := risk.NewEvaluator(reg.Predictors())
	raw := risk.RawInputs{
		"age": 45, "bmi": 28, "glucose": 150, "hba1c": 7.2, "cholesterol": 210, "blood_pressure": 130,
	}
	for _, rt := range risk.All {
		res, err := ev.Evaluate(context.Background(), rt, raw)
		require.NoError(t, err, rt)
		assert.GreaterOrEqual(t, res.Probability, 0.0)
		assert.LessOrEqual(t, res.Probability, 1.0)
	}
}

func TestLoadMissingModelIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "diabetes_model.json", `{ "features": ["age", "bmi", "blood_glucose_level", "hba1c_level"], "coefficients": [0, 0, 0, 0] }`)

	reg := Load(Options{Dir: dir})
	assert.False(t, reg.Healthy())

	status := reg.Status()
	assert.Equal(t, "ok", status["diabetes"])
	assert.NotEqual(t, "ok", status["heart_disease"])
	assert.NotEqual(t, "ok", status["cancer_risk"])

	ev := risk.NewEvaluator(reg.Predictors())
	raw := risk.RawInputs{"age": 45, "bmi": 28, "glucose": 150, "hba1c": 7.2}

	res, err := ev.Evaluate(context.Background(), risk.Diabetes, raw)
	require.NoError(t, err)
	assert.Equal(t, risk.High, res.Label)

	_, err = ev.Evaluate(context.Background(), risk.CancerRisk, raw)
	assert.ErrorIs(t, err, risk.ErrModelUnavailable)
}

func TestLoadRejectsArtifactForOtherRiskType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cancer_model.json", `{ "risk_type": "diabetes", "features": ["age", "bmi", "blood_glucose_level", "hba1c_level"], "coefficients": [0, 0, 0, 0] }`)

	reg := Load(Options{Dir: dir})
	assert.Contains(t, reg.Status()["cancer_risk"], "expected cancer_risk")
}
