package sink

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/google/uuid"
)

// PredictionRecord is one finished prediction plus the inputs that produced it.
type PredictionRecord struct {
	ID            uuid.UUID     `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	RiskType      risk.RiskType `json:"risk_type"`
	Probability   float64       `json:"probability"`
	Label         risk.Label    `json:"label"`
	Age           *float64      `json:"age"`
	BMI           *float64      `json:"bmi"`
	Glucose       *float64      `json:"glucose"`
	HbA1c         *float64      `json:"hba1c"`
	Cholesterol   *float64      `json:"cholesterol"`
	BloodPressure *float64      `json:"blood_pressure"`
	MaxHeartRate  *float64      `json:"max_heart_rate"`
	STDepression  *float64      `json:"st_depression"`
	VesselCount   *float64      `json:"vessel_count"`
}

// NewRecord stamps a result with an id and time. Heart-only inputs are kept
// only for heart disease predictions.
func NewRecord(res risk.PredictionResult, raw risk.RawInputs, now time.Time) PredictionRecord {
	field := func(name string) *float64 {
		if res.RiskType != risk.HeartDisease && slices.Contains(risk.HeartOnlyFields, name) {
			return nil
		}
		v, ok := raw.Value(name)
		if !ok {
			return nil
		}
		return &v
	}

	return PredictionRecord{
		ID:            uuid.New(),
		CreatedAt:     now.UTC(),
		RiskType:      res.RiskType,
		Probability:   res.Probability,
		Label:         res.Label,
		Age:           field(risk.FieldAge),
		BMI:           field(risk.FieldBMI),
		Glucose:       field(risk.FieldGlucose),
		HbA1c:         field(risk.FieldHbA1c),
		Cholesterol:   field(risk.FieldCholesterol),
		BloodPressure: field(risk.FieldBloodPressure),
		MaxHeartRate:  field(risk.FieldMaxHeartRate),
		STDepression:  field(risk.FieldSTDepression),
		VesselCount:   field(risk.FieldVesselCount),
	}
}

type Sink interface {
	Name() string
	Write(ctx context.Context, rec PredictionRecord) error
}

// PersistenceError reports a sink write that failed. It is never returned to
// the prediction caller.
type PersistenceError struct {
	Sink string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist prediction to %s: %v", e.Sink, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
