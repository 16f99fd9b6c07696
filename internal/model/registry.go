package model

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/rs/zerolog/log"
)

// Unavailable stands in for a model that failed to load, so the remaining
// risk types keep serving.
type Unavailable struct {
	Err error
}

func (u Unavailable) PredictProbability(context.Context, risk.FeatureVector) (float64, error) {
	return 0, u.Err
}

// artifact file stems, one per classifier
var fileStems = map[risk.RiskType]string{
	risk.Diabetes:     "diabetes",
	risk.HeartDisease: "heart",
	risk.CancerRisk:   "cancer",
}

func ArtifactPath(dir string, rt risk.RiskType) string {
	return filepath.Join(dir, fileStems[rt]+"_model.json")
}

type Options struct {
	Dir        string
	ServiceURL string
	Timeout    time.Duration
}

// Registry holds one predictor per risk type plus the load outcome of each.
type Registry struct {
	predictors map[risk.RiskType]risk.Predictor
	status     map[risk.RiskType]error
}

// Load builds predictors for every risk type. A failed load is recorded and
// replaced by an Unavailable predictor; it never aborts startup.
func Load(opts Options) *Registry {
	reg := &Registry{
		predictors: make(map[risk.RiskType]risk.Predictor, len(risk.All)),
		status:     make(map[risk.RiskType]error, len(risk.All)),
	}

	for _, rt := range risk.All {
		if opts.ServiceURL != "" {
			reg.predictors[rt] = NewRemote(opts.ServiceURL, rt, opts.Timeout)
			reg.status[rt] = nil
			log.Info().Str("risk_type", rt.String()).Str("url", opts.ServiceURL).Msg("using remote model")
			continue
		}

		path := ArtifactPath(opts.Dir, rt)
		pred, err := loadLogistic(path, rt)
		if err != nil {
			log.Error().Err(err).Str("risk_type", rt.String()).Str("path", path).Msg("model load failed")
			reg.predictors[rt] = Unavailable{Err: err}
			reg.status[rt] = err
			continue
		}
		log.Info().Str("risk_type", rt.String()).Str("path", path).Str("version", pred.Version()).Msg("model loaded")
		reg.predictors[rt] = pred
		reg.status[rt] = nil
	}

	return reg
}

func loadLogistic(path string, rt risk.RiskType) (*Logistic, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	if a.RiskType == "" {
		a.RiskType = rt
	}
	if a.RiskType != rt {
		return nil, fmt.Errorf("model %s is for %s, expected %s", path, a.RiskType, rt)
	}
	return NewLogistic(a)
}

func (r *Registry) Predictors() map[risk.RiskType]risk.Predictor {
	out := make(map[risk.RiskType]risk.Predictor, len(r.predictors))
	for rt, p := range r.predictors {
		out[rt] = p
	}
	return out
}

// Status reports "ok" or the load error for each risk type.
func (r *Registry) Status() map[string]string {
	out := make(map[string]string, len(r.status))
	for rt, err := range r.status {
		if err != nil {
			out[rt.String()] = err.Error()
			continue
		}
		out[rt.String()] = "ok"
	}
	return out
}

func (r *Registry) Healthy() bool {
	for _, err := range r.status {
		if err != nil {
			return false
		}
	}
	return true
}
