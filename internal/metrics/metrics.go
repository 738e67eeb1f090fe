package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RemoteRequests counts calls to the remote asset directory by operation
	// and status class ("2xx", "4xx", "5xx", or "error" for transport failures).
	RemoteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_directory_requests_total",
			Help: "Total number of remote asset directory requests",
		},
		[]string{"operation", "status"},
	)

	// SnapshotRefreshes counts full inventory refetches by reason (cold, expired, forced).
	SnapshotRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_snapshot_refreshes_total",
			Help: "Total number of asset snapshot refreshes",
		},
		[]string{"reason"},
	)

	// SnapshotAssets is the asset count in the most recent snapshot.
	SnapshotAssets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_snapshot_assets",
			Help: "Number of assets in the current snapshot",
		},
	)

	// AuditsSubmitted counts submitted audits by computed status (match, mismatch).
	AuditsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audits_submitted_total",
			Help: "Total number of audits submitted",
		},
		[]string{"status"},
	)

	// AuditResolutions counts per-id outcomes of resolve batches (resolved, failed).
	AuditResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_resolutions_total",
			Help: "Total number of audit resolution attempts by outcome",
		},
		[]string{"outcome"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			RemoteRequests,
			SnapshotRefreshes, SnapshotAssets,
			AuditsSubmitted, AuditResolutions,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /v1/audits/123 -> /v1/audits/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordRemoteRequest records one remote directory call. statusCode 0 means
// the request never produced a response (transport error).
func RecordRemoteRequest(operation string, statusCode int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode/100) + "xx"
	}
	RemoteRequests.WithLabelValues(operation, status).Inc()
}

// IncSnapshotRefresh counts one full refetch. reason is cold, expired, or forced.
func IncSnapshotRefresh(reason string) {
	SnapshotRefreshes.WithLabelValues(reason).Inc()
}

// SetSnapshotAssets records the size of the snapshot just stored.
func SetSnapshotAssets(n int) {
	SnapshotAssets.Set(float64(n))
}

// IncAuditSubmitted counts a submitted audit by its computed status.
func IncAuditSubmitted(status string) {
	AuditsSubmitted.WithLabelValues(status).Inc()
}

// IncAuditResolution counts one per-id resolve outcome (resolved or failed).
func IncAuditResolution(outcome string) {
	AuditResolutions.WithLabelValues(outcome).Inc()
}
