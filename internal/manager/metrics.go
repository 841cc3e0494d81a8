package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	discoveryPassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "camerad",
		Subsystem: "discovery",
		Name:      "passes_total",
		Help:      "Total discovery passes attempted",
	})

	discoveryDevicesPublished = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "discovery",
		Name:      "devices_published",
		Help:      "Devices published by the last successful discovery pass",
	})

	discoveryDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "camerad",
		Subsystem: "discovery",
		Name:      "devices_dropped_total",
		Help:      "Devices dropped by health checks across all passes",
	})

	sessionStartRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "camerad",
		Subsystem: "session",
		Name:      "start_retries_total",
		Help:      "Session start retries across all sessions",
	})

	sessionStartFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camerad",
		Subsystem: "session",
		Name:      "start_failures_total",
		Help:      "Terminal session start failures by device category",
	}, []string{"category"})

	sessionsRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "session",
		Name:      "running",
		Help:      "Capture sessions currently running",
	})

	windowsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "windows",
		Name:      "open",
		Help:      "Camera windows currently open",
	})
)

func init() {
	prometheus.MustRegister(
		discoveryPassesTotal,
		discoveryDevicesPublished,
		discoveryDroppedTotal,
		sessionStartRetriesTotal,
		sessionStartFailuresTotal,
		sessionsRunning,
		windowsOpen,
	)
}
