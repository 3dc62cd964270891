package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all gatherhub metrics
const namespace = "gatherhub"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels (always set to 1)
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"service", "version", "commit", "build_date"},
)

// HTTPRequestsTotal counts HTTP requests by method, path pattern and status
var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration tracks request latency by method and path pattern
var HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// EventsCreated counts events created through the lifecycle engine
var EventsCreated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total events created",
	},
)

// EventsPublished counts administrative publish transitions
var EventsPublished = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total events published by admins",
	},
)

// RequestsConfirmed counts participation requests confirmed, either at
// creation or through batch moderation
var RequestsConfirmed = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participation_requests_confirmed_total",
		Help:      "Total participation requests confirmed",
	},
)

// RequestsRejected counts participation requests rejected by moderation
var RequestsRejected = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participation_requests_rejected_total",
		Help:      "Total participation requests rejected",
	},
)

// HitsRecorded counts view hits successfully forwarded to the stats service
var HitsRecorded = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_hits_recorded_total",
		Help:      "Total view hits forwarded to the stats service",
	},
)

// StatHitsStored counts hits persisted by the stats service
var StatHitsStored = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stat_hits_stored_total",
		Help:      "Total endpoint hits stored by the stats service",
	},
)

// Init registers runtime collectors and stamps build info.
func Init(service, version, commit, buildDate string) {
	AppInfo.WithLabelValues(service, version, commit, buildDate).Set(1)
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
