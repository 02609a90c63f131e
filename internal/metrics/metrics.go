package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_job_cycle_duration_seconds",
			Help:    "Duration of each job cycle in seconds, retries included.",
			Buckets: []float64{1, 10, 60, 300, 900, 1800},
		},
		[]string{"job"},
	)
	CycleOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_job_cycles_total",
			Help: "Total number of finished job cycles by outcome.",
		},
		[]string{"job", "outcome"},
	)
	RetriedAttemptsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_job_retried_attempts_total",
			Help: "Total number of failed attempts that were retried within a cycle.",
		},
		[]string{"job"},
	)
	DiscoveredEventsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "monitor_events_discovered_total",
			Help: "Total number of newly discovered events.",
		},
	)
	NotificationsSentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_notifications_sent_total",
			Help: "Total number of delivered notifications.",
		},
		[]string{"channel"},
	)
	NotificationsFailedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_notifications_failed_total",
			Help: "Total number of notification deliveries that failed.",
		},
		[]string{"channel"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(CycleOutcomes)
	prometheus.MustRegister(RetriedAttemptsCounter)
	prometheus.MustRegister(DiscoveredEventsCounter)
	prometheus.MustRegister(NotificationsSentCounter)
	prometheus.MustRegister(NotificationsFailedCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}
