// Package observability holds the Prometheus collectors shared by the storage
// backends and the file service.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	storageOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "storage",
		Name:      "operations_total",
		Help:      "Storage operations by backend, operation and result.",
	}, []string{"backend", "operation", "result"})

	fileServiceRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "fileservice",
		Name:      "requests_total",
		Help:      "File service requests by endpoint and status code.",
	}, []string{"endpoint", "code"})

	fileServiceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymlog",
		Subsystem: "fileservice",
		Name:      "request_duration_seconds",
		Help:      "File service request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(storageOperations, fileServiceRequests, fileServiceDuration)
}

// RecordStorageOperation counts one storage call. A nil err is recorded as "ok".
func RecordStorageOperation(backend, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storageOperations.WithLabelValues(backend, operation, result).Inc()
}

// RecordFileServiceRequest counts one HTTP request and observes its latency.
func RecordFileServiceRequest(endpoint string, code int, elapsed time.Duration) {
	fileServiceRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	fileServiceDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// StorageOperations exposes the counter for tests.
func StorageOperations() *prometheus.CounterVec { return storageOperations }

// FileServiceRequests exposes the counter for tests.
func FileServiceRequests() *prometheus.CounterVec { return fileServiceRequests }
