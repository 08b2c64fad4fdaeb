package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	noticeEventsTotal     *prometheus.CounterVec
	eligibilityChecks     *prometheus.CounterVec
	cacheLookupsTotal     *prometheus.CounterVec
	liveClientsActive     prometheus.Gauge
	resumeUploadsTotal    *prometheus.CounterVec
	resumeUploadBytes     prometheus.Histogram
	statisticsAggregation prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		noticeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_notice_events_total",
			Help: "Notice events published or received, by type and origin.",
		}, []string{"type", "origin"})

		eligibilityChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_eligibility_checks_total",
			Help: "Eligible-notice listings served, by outcome.",
		}, []string{"outcome"})

		cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_cache_lookups_total",
			Help: "Redis cache lookups by cache and result.",
		}, []string{"cache", "result"})

		liveClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_live_clients_active",
			Help: "Websocket clients subscribed to the live notice feed.",
		})

		resumeUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_resume_uploads_total",
			Help: "Resume uploads by result.",
		}, []string{"result"})

		resumeUploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_resume_upload_bytes",
			Help:    "Size of accepted resume uploads.",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
		})

		statisticsAggregation = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_statistics_aggregation_seconds",
			Help:    "Time spent aggregating placement statistics from the store.",
			Buckets: prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			noticeEventsTotal,
			eligibilityChecks,
			cacheLookupsTotal,
			liveClientsActive,
			resumeUploadsTotal,
			resumeUploadBytes,
			statisticsAggregation,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// NoticeEvents exposes the notice event counter.
func NoticeEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return noticeEventsTotal
}

// EligibilityChecks exposes the eligible-listing counter.
func EligibilityChecks() *prometheus.CounterVec {
	RegisterMetrics()
	return eligibilityChecks
}

// CacheLookups exposes the cache hit/miss counter.
func CacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return cacheLookupsTotal
}

// LiveClientsActive exposes the live feed gauge.
func LiveClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return liveClientsActive
}

// ResumeUploads exposes the resume upload counter.
func ResumeUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return resumeUploadsTotal
}

// ResumeUploadBytes exposes the resume size histogram.
func ResumeUploadBytes() prometheus.Histogram {
	RegisterMetrics()
	return resumeUploadBytes
}

// StatisticsAggregation exposes the aggregation latency histogram.
func StatisticsAggregation() prometheus.Histogram {
	RegisterMetrics()
	return statisticsAggregation
}

// MetricsHandler serves the default registry in the Prometheus text or OpenMetrics format.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}
