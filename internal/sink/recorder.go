package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/Skufu/GoRisk/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Recorder fans a record out to every configured sink. Failures are logged,
// counted and handed back as warnings; they never fail the prediction.
type Recorder struct {
	sinks   []Sink
	timeout time.Duration
}

func NewRecorder(timeout time.Duration, sinks ...Sink) *Recorder {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Recorder{sinks: active, timeout: timeout}
}

func (r *Recorder) Enabled() bool {
	return r != nil && len(r.sinks) > 0
}

func (r *Recorder) Record(ctx context.Context, rec PredictionRecord) []*PersistenceError {
	if !r.Enabled() {
		return nil
	}

	var failures []*PersistenceError
	for _, s := range r.sinks {
		if err := r.write(ctx, s, rec); err != nil {
			perr := &PersistenceError{Sink: s.Name(), Err: err}
			metrics.SinkFailures.WithLabelValues(s.Name()).Inc()
			log.Warn().Err(err).
				Str("sink", s.Name()).
				Str("prediction_id", rec.ID.String()).
				Msg("prediction not persisted")
			failures = append(failures, perr)
		}
	}
	return failures
}

func (r *Recorder) write(ctx context.Context, s Sink, rec PredictionRecord) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panicked: %v", p)
		}
	}()
	return s.Write(ctx, rec)
}
