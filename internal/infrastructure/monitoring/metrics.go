// Package monitoring provides Prometheus metrics collection
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/ports/outbound"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	plansGeneratedTotal  *prometheus.CounterVec
	replacementsTotal    *prometheus.CounterVec
	planCacheHitsTotal   *prometheus.CounterVec
	composeDuration      prometheus.Histogram
	corpusRecipes        prometheus.Gauge
	corpusReloadsTotal   *prometheus.CounterVec
	corpusLoadDuration   prometheus.Histogram
}

var _ outbound.EngineMetrics = (*MetricsCollector)(nil)

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		plansGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plans_generated_total",
				Help: "Total number of meal plans generated",
			},
			[]string{"goal", "diet_type", "status"},
		),
		replacementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_replacements_total",
				Help: "Total number of single-meal replacements",
			},
			[]string{"slot", "status"},
		),
		planCacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_cache_requests_total",
				Help: "Plan cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		composeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "plan_compose_duration_seconds",
				Help:    "Time spent composing a full plan",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		corpusRecipes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "corpus_recipes",
				Help: "Number of recipes in the active corpus snapshot",
			},
		),
		corpusReloadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_reloads_total",
				Help: "Corpus reload attempts by outcome",
			},
			[]string{"status"},
		),
		corpusLoadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "corpus_load_duration_seconds",
				Help:    "Dataset load and index build time",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
	}
}

// HTTPRequest records a completed HTTP request
func (m *MetricsCollector) HTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// PlanGenerated records a plan generation attempt
func (m *MetricsCollector) PlanGenerated(goal, dietType, status string, duration time.Duration) {
	m.plansGeneratedTotal.WithLabelValues(goal, dietType, status).Inc()
	if status == "success" {
		m.composeDuration.Observe(duration.Seconds())
	}
}

// MealReplaced records a replacement attempt
func (m *MetricsCollector) MealReplaced(slot, status string) {
	m.replacementsTotal.WithLabelValues(slot, status).Inc()
}

// PlanCacheLookup records a cache hit or miss
func (m *MetricsCollector) PlanCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.planCacheHitsTotal.WithLabelValues(outcome).Inc()
}

// CorpusReloaded records a reload outcome and the resulting corpus size
func (m *MetricsCollector) CorpusReloaded(recipes int, loadSeconds float64, err error) {
	if err != nil {
		m.corpusReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.corpusReloadsTotal.WithLabelValues("success").Inc()
	m.corpusRecipes.Set(float64(recipes))
	m.corpusLoadDuration.Observe(loadSeconds)
}

// Handler returns the Prometheus scrape handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
