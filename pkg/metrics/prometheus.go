package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	trainingRuns *prometheus.CounterVec
	predictions  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastProb     *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		trainingRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_training_runs_total",
				Help: "Total number of completed training invocations",
			},
			[]string{"symbol"},
		),
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_predictions_total",
				Help: "Total number of predictions served",
			},
			[]string{"symbol", "predicted"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_errors_total",
				Help: "Total number of pipeline errors by kind",
			},
			[]string{"kind"},
		),
		lastProb: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendcast_last_prob_up",
				Help: "Last predicted probability of the up class per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTrainingRun counts a completed training invocation.
func (r *Recorder) RecordTrainingRun(symbol string) {
	r.trainingRuns.WithLabelValues(symbol).Inc()
}

// RecordPrediction counts a served prediction by outcome.
func (r *Recorder) RecordPrediction(symbol string, predicted int) {
	r.predictions.WithLabelValues(symbol, strconv.Itoa(predicted)).Inc()
}

// RecordError counts an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency observes operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordLastProb records the most recent up probability for a symbol.
func (r *Recorder) RecordLastProb(symbol string, prob float64) {
	r.lastProb.WithLabelValues(symbol).Set(prob)
}

// Noop discards all metrics; used where observability is not wired.
type Noop struct{}

func (Noop) RecordTrainingRun(string)      {}
func (Noop) RecordPrediction(string, int)  {}
func (Noop) RecordError(string)            {}
func (Noop) RecordLatency(string, float64) {}
func (Noop) RecordLastProb(string, float64) {}
