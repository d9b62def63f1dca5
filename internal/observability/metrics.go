package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	launches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neobuild",
			Subsystem: "process",
			Name:      "launches_total",
			Help:      "Shell launches by shell and result.",
		},
		[]string{"shell", "result"},
	)
	terminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neobuild",
			Subsystem: "process",
			Name:      "terminations_total",
			Help:      "Reaped child processes by termination reason.",
		},
		[]string{"reason"},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neobuild",
			Subsystem: "process",
			Name:      "run_duration_seconds",
			Help:      "Synchronous run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shell", "reason"},
	)
	rebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neobuild",
			Subsystem: "rebuild",
			Name:      "checks_total",
			Help:      "Self-rebuild checks by final state.",
		},
		[]string{"state"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neobuild",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(launches, terminations, runDuration, rebuilds, httpRequests)
	})
}

func RecordLaunch(shell string, ok bool) {
	RegisterMetrics()
	result := "ok"
	if !ok {
		result = "failed"
	}
	launches.WithLabelValues(shell, result).Inc()
}

func RecordTermination(reason string) {
	RegisterMetrics()
	terminations.WithLabelValues(reason).Inc()
}

func RecordRun(shell, reason string, duration time.Duration) {
	RegisterMetrics()
	runDuration.WithLabelValues(shell, reason).Observe(duration.Seconds())
}

func RecordRebuild(state string) {
	RegisterMetrics()
	rebuilds.WithLabelValues(state).Inc()
}

func RecordHTTPRequest(method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
