package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool the warehouse sink needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertPredictionLog = `
INSERT INTO prediction_logs (
	id, created_at, risk_type, probability, label,
	age, bmi, glucose, hba1c, cholesterol, blood_pressure,
	max_heart_rate, st_depression, vessel_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// WarehouseSink inserts each record as a row of prediction_logs.
type WarehouseSink struct {
	db Execer
}

func NewWarehouseSink(db Execer) *WarehouseSink {
	return &WarehouseSink{db: db}
}

func (w *WarehouseSink) Name() string {
	return "warehouse"
}

func (w *WarehouseSink) Write(ctx context.Context, rec PredictionRecord) error {
	_, err := w.db.Exec(ctx, insertPredictionLog,
		rec.ID, rec.CreatedAt, string(rec.RiskType), rec.Probability, string(rec.Label),
		rec.Age, rec.BMI, rec.Glucose, rec.HbA1c, rec.Cholesterol, rec.BloodPressure,
		rec.MaxHeartRate, rec.STDepression, rec.VesselCount,
	)
	if err != nil {
		return fmt.Errorf("insert prediction_logs: %w", err)
	}
	return nil
}
