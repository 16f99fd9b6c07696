package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Skufu/GoRisk/internal/metrics"
	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/Skufu/GoRisk/internal/sink"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const genericFailure = "Prediction failed. Please check your inputs and try again."

type handler struct {
	deps Deps
}

type predictRequest struct {
	RiskType string             `json:"risk_type" binding:"required"`
	Inputs   map[string]float64 `json:"inputs" binding:"required"`
}

type predictResponse struct {
	PredictionID       string        `json:"prediction_id,omitempty"`
	RiskType           risk.RiskType `json:"risk_type"`
	Probability        float64       `json:"probability"`
	ProbabilityPercent string        `json:"probability_percent"`
	Label              risk.Label    `json:"label"`
	Display            string        `json:"display"`
	Color              string        `json:"color"`
	Warnings           []string      `json:"warnings"`
}

type riskTypeInfo struct {
	ID       risk.RiskType  `json:"id"`
	Name     string         `json:"name"`
	Features []risk.Feature `json:"features"`
}

func (h *handler) riskTypes(c *gin.Context) {
	types := make([]riskTypeInfo, 0, len(risk.All))
	for _, rt := range risk.All {
		types = append(types, riskTypeInfo{
			ID:       rt,
			Name:     rt.DisplayName(),
			Features: risk.Schema(rt),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"risk_types": types,
		"fields":     risk.FieldBounds(),
		"threshold":  risk.Threshold,
	})
}

func (h *handler) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": genericFailure})
		return
	}

	rt, err := risk.ParseRiskType(req.RiskType)
	if err != nil {
		metrics.PredictionErrors.WithLabelValues("unknown", "unknown_risk_type").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_risk_type", "message": genericFailure})
		return
	}

	raw := risk.RawInputs(req.Inputs)
	start := time.Now()
	result, err := h.deps.Evaluator.Evaluate(c.Request.Context(), rt, raw)
	metrics.PredictionDuration.WithLabelValues(rt.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		h.predictFailed(c, rt, err)
		return
	}
	metrics.PredictionsTotal.WithLabelValues(rt.String(), string(result.Label)).Inc()

	resp := predictResponse{
		RiskType:           result.RiskType,
		Probability:        result.Probability,
		ProbabilityPercent: result.ProbabilityPercent(),
		Label:              result.Label,
		Display:            result.Label.Display(),
		Color:              result.Label.Color(),
		Warnings:           []string{},
	}

	if h.deps.Recorder.Enabled() {
		rec := sink.NewRecord(result, raw, h.deps.Now())
		resp.PredictionID = rec.ID.String()
		for _, failure := range h.deps.Recorder.Record(context.WithoutCancel(c.Request.Context()), rec) {
			resp.Warnings = append(resp.Warnings, "prediction could not be saved to "+failure.Sink)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) predictFailed(c *gin.Context, rt risk.RiskType, err error) {
	var missing *risk.InputMissingError
	switch {
	case errors.As(err, &missing):
		metrics.PredictionErrors.WithLabelValues(rt.String(), "input_missing").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "input_missing",
			"field":   missing.Field,
			"message": genericFailure,
		})
	case errors.Is(err, risk.ErrModelUnavailable):
		metrics.PredictionErrors.WithLabelValues(rt.String(), "model_unavailable").Inc()
		log.Error().Err(err).Str("risk_type", rt.String()).Msg("prediction failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "model_unavailable",
			"message": "Prediction is temporarily unavailable. Please try again later.",
		})
	default:
		metrics.PredictionErrors.WithLabelValues(rt.String(), "internal").Inc()
		log.Error().Err(err).Str("risk_type", rt.String()).Msg("prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": genericFailure})
	}
}
