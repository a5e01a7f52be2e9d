package observer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver records prediction latency and outcome counters
type PrometheusObserver struct {
	inferenceLatency *prometheus.HistogramVec
	requestLatency   *prometheus.HistogramVec
	predictions      *prometheus.CounterVec
	stores           *prometheus.CounterVec
}

// NewPrometheusObserver registers the service metrics on reg
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		inferenceLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pose_inference_duration_milliseconds",
				Help:    "Serving function wall-clock time in milliseconds",
				Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"variant"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pose_request_duration_milliseconds",
				Help:    "Predict request time in milliseconds, including preprocessing and decoding",
				Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
			[]string{"variant"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pose_predictions_total",
				Help: "Predictions served, by variant and outcome",
			},
			[]string{"variant", "status"},
		),
		stores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pose_results_stored_total",
				Help: "Result store attempts, by backend and outcome",
			},
			[]string{"backend", "status"},
		),
	}

	for _, c := range []prometheus.Collector{o.inferenceLatency, o.requestLatency, o.predictions, o.stores} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnEvent updates the collectors for the event
func (o *PrometheusObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	switch event.EventType {
	case PredictionCompleted:
		o.inferenceLatency.WithLabelValues(event.Variant).Observe(event.InferenceMs)
		o.requestLatency.WithLabelValues(event.Variant).Observe(event.TotalMs)
		o.predictions.WithLabelValues(event.Variant, "ok").Inc()
	case PredictionFailed:
		o.predictions.WithLabelValues(event.Variant, "error").Inc()
	case ResultStored:
		o.stores.WithLabelValues(event.Backend, "ok").Inc()
	case StoreFailed:
		o.stores.WithLabelValues(event.Backend, "error").Inc()
	}
}

// GetObserverName returns the observer name
func (o *PrometheusObserver) GetObserverName() string {
	return "prometheus_observer"
}
