package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skufu/GoRisk/internal/risk"
	fscb "github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/rs/zerolog/log"
)

var ErrCircuitOpen = errors.New("model service circuit open")

type remoteRequest struct {
	RiskType risk.RiskType      `json:"risk_type"`
	Features map[string]float64 `json:"features"`
	Order    []string           `json:"order"`
}

type remoteResponse struct {
	Probability *float64 `json:"probability"`
}

// Remote calls a model server that hosts the trained classifiers.
type Remote struct {
	riskType   risk.RiskType
	url        string
	httpClient *http.Client
	breaker    fscb.CircuitBreaker[any]
}

func NewRemote(baseURL string, rt risk.RiskType, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	name := "model-" + string(rt)
	breaker := fscb.Builder[any]().
		WithFailureThreshold(5).
		WithDelay(30 * time.Second).
		OnStateChanged(func(event fscb.StateChangedEvent) {
			log.Warn().Str("breaker", name).
				Str("from", event.OldState.String()).
				Str("to", event.NewState.String()).
				Msg("model service circuit changed state")
		}).
		Build()

	return &Remote{
		riskType:   rt,
		url:        fmt.Sprintf("%s/predict/%s", strings.TrimRight(baseURL, "/"), rt),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// PredictProbability calls the model service through the circuit breaker.
// Calls abandoned by the caller say nothing about the service and are not
// counted, except that a half-open trial permit is always given back.
func (r *Remote) PredictProbability(ctx context.Context, fv risk.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !r.breaker.TryAcquirePermit() {
		return 0, ErrCircuitOpen
	}

	p, err := r.call(ctx, fv)
	if err != nil {
		if ctx.Err() == nil || r.breaker.IsHalfOpen() {
			r.breaker.RecordFailure()
		}
		return 0, err
	}
	r.breaker.RecordSuccess()
	return p, nil
}

func (r *Remote) call(ctx context.Context, fv risk.FeatureVector) (float64, error) {
	body, err := json.Marshal(remoteRequest{
		RiskType: r.riskType,
		Features: fv.Map(),
		Order:    fv.Names,
	})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call model service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("model service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Probability == nil {
		return 0, fmt.Errorf("model service response has no probability")
	}
	return *out.Probability, nil
}
