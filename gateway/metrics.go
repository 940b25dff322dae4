package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend call outcomes used as the latency histogram label.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors for the transcription route.
type Metrics struct {
	Requests       *prometheus.CounterVec
	BackendLatency *prometheus.HistogramVec
	UploadBytes    prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "asr_gateway_transcriptions_total",
			Help: "Transcription requests by outcome status and error code",
		}, []string{"status", "code"}),
		BackendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asr_gateway_backend_request_duration_seconds",
			Help:    "Latency of calls to the ASR backend",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 11), // 50ms to ~51s
		}, []string{"outcome"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "asr_gateway_upload_size_bytes",
			Help:    "Size of accepted audio uploads",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 12), // 16KB to ~32MB
		}),
	}
}

func (m *Metrics) observeOutcome(status Status, code string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(string(status), code).Inc()
}

func (m *Metrics) observeBackend(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.BackendLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) observeUpload(size int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(size))
}
