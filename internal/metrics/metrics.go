package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avtriage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avtriage_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "avtriage_uploads_total",
			Help: "Total number of accepted video uploads",
		},
	)

	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avtriage_upload_size_bytes",
			Help:    "Size of uploaded videos in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 10), // 1MB to 512MB
		},
	)

	UploadsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avtriage_uploads_rejected_total",
			Help: "Total number of uploads rejected by validation",
		},
		[]string{"reason"},
	)

	// Analysis Metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avtriage_analyses_total",
			Help: "Total number of completed analyses by sync status",
		},
		[]string{"sync_status"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avtriage_probe_duration_seconds",
			Help:    "ffprobe invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
	)

	ProbeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avtriage_probe_failures_total",
			Help: "Total number of failed ffprobe invocations",
		},
		[]string{"kind"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "avtriage_cache_hits_total",
			Help: "Total number of report cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "avtriage_cache_misses_total",
			Help: "Total number of report cache misses",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its duration
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordUpload records an accepted upload
func RecordUpload(sizeBytes int64) {
	UploadsTotal.Inc()
	UploadSizeBytes.Observe(float64(sizeBytes))
}

// RecordRejectedUpload records a validation rejection
func RecordRejectedUpload(reason string) {
	UploadsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordAnalysis records a completed analysis
func RecordAnalysis(syncStatus string) {
	AnalysesTotal.WithLabelValues(syncStatus).Inc()
}

// RecordProbe records an ffprobe invocation
func RecordProbe(duration float64) {
	ProbeDuration.Observe(duration)
}

// RecordProbeFailure records a failed ffprobe invocation
func RecordProbeFailure(kind string) {
	ProbeFailuresTotal.WithLabelValues(kind).Inc()
}
