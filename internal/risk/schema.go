package risk

import "slices"

// Raw input field names as submitted by the form.
const (
	FieldAge           = "age"
	FieldBMI           = "bmi"
	FieldGlucose       = "glucose"
	FieldHbA1c         = "hba1c"
	FieldCholesterol   = "cholesterol"
	FieldBloodPressure = "blood_pressure"
	FieldMaxHeartRate  = "max_heart_rate"
	FieldSTDepression  = "st_depression"
	FieldVesselCount   = "vessel_count"
)

// Feature binds a model-facing column name to the raw form field it is read from.
type Feature struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

// Bounds are the range clamps the form applies to a field. The evaluator
// never enforces them.
type Bounds struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"default"`
}

// One canonical schema per model. Order matches the column order the shipped
// artifacts were trained on.
var schemas = map[RiskType][]Feature{
	Diabetes: {
		{Name: "age", Field: FieldAge},
		{Name: "bmi", Field: FieldBMI},
		{Name: "blood_glucose_level", Field: FieldGlucose},
		{Name: "hba1c_level", Field: FieldHbA1c},
	},
	HeartDisease: {
		{Name: "age", Field: FieldAge},
		{Name: "trestbps", Field: FieldBloodPressure},
		{Name: "chol", Field: FieldCholesterol},
		{Name: "bmi", Field: FieldBMI},
	},
	CancerRisk: {
		{Name: "age", Field: FieldAge},
		{Name: "bmi", Field: FieldBMI},
		{Name: "blood_glucose_level", Field: FieldGlucose},
		{Name: "hba1c_level", Field: FieldHbA1c},
	},
}

var fieldBounds = []Bounds{
	{Field: FieldAge, Label: "Age", Min: 0, Max: 100, Step: 1, Value: 30},
	{Field: FieldBMI, Label: "BMI", Min: 10, Max: 60, Step: 0.1, Value: 25},
	{Field: FieldGlucose, Label: "Glucose Level", Min: 50, Max: 300, Step: 1, Value: 100},
	{Field: FieldHbA1c, Label: "HbA1c Level", Min: 4, Max: 14, Step: 0.1, Value: 6},
	{Field: FieldCholesterol, Label: "Cholesterol Level", Min: 100, Max: 400, Step: 1, Value: 200},
	{Field: FieldBloodPressure, Label: "Blood Pressure", Min: 80, Max: 200, Step: 1, Value: 120},
	{Field: FieldMaxHeartRate, Label: "Max Heart Rate", Min: 60, Max: 220, Step: 1, Value: 150},
	{Field: FieldSTDepression, Label: "ST Depression", Min: 0, Max: 10, Step: 0.1, Value: 1},
	{Field: FieldVesselCount, Label: "Major Vessels", Min: 0, Max: 4, Step: 1, Value: 0},
}

// modelNames maps a raw field to the model-facing names that read it, when
// they differ from the field name.
var modelNames = func() map[string][]string {
	out := make(map[string][]string)
	for _, rt := range All {
		for _, f := range schemas[rt] {
			if f.Name != f.Field && !slices.Contains(out[f.Field], f.Name) {
				out[f.Field] = append(out[f.Field], f.Name)
			}
		}
	}
	return out
}()

// HeartOnlyFields are collected by the form but only meaningful for heart
// disease evaluations; sinks store them as NULL otherwise.
var HeartOnlyFields = []string{FieldMaxHeartRate, FieldSTDepression, FieldVesselCount}

// Schema returns a copy of the canonical feature list for rt, or nil when rt is unknown.
func Schema(rt RiskType) []Feature {
	features, ok := schemas[rt]
	if !ok {
		return nil
	}
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}

// FeatureNames returns the model-facing column names for rt in order.
func FeatureNames(rt RiskType) []string {
	features := schemas[rt]
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name)
	}
	return names
}

func FieldBounds() []Bounds {
	out := make([]Bounds, len(fieldBounds))
	copy(out, fieldBounds)
	return out
}
