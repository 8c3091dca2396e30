package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"infracheck/pkg/domain"
)

// MetricsRecorder receives the outcome of validation passes.
type MetricsRecorder interface {
	ObservePass(duration time.Duration, err error)
	ObserveErrors(objType domain.ObjectType, errType domain.ErrorType, count int)
}

type noopMetrics struct{}

func (noopMetrics) ObservePass(time.Duration, error)                       {}
func (noopMetrics) ObserveErrors(domain.ObjectType, domain.ErrorType, int) {}

// PrometheusRecorder exports pass latency and finding counts.
type PrometheusRecorder struct {
	passDuration *prometheus.HistogramVec
	passes       *prometheus.CounterVec
	findings     *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "infracheck_pass_duration_seconds",
			Help:    "Duration of validation passes",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infracheck_passes_total",
			Help: "Validation passes by outcome",
		}, []string{"status"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infracheck_findings_total",
			Help: "Infrastructure errors found, by object type and error type",
		}, []string{"obj_type", "error_type"}),
	}
	for _, c := range []prometheus.Collector{r.passDuration, r.passes, r.findings} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObservePass implements MetricsRecorder.
func (r *PrometheusRecorder) ObservePass(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.passDuration.WithLabelValues(status).Observe(duration.Seconds())
	r.passes.WithLabelValues(status).Inc()
}

// ObserveErrors implements MetricsRecorder.
func (r *PrometheusRecorder) ObserveErrors(objType domain.ObjectType, errType domain.ErrorType, count int) {
	if count <= 0 {
		return
	}
	r.findings.WithLabelValues(string(objType), string(errType)).Add(float64(count))
}
