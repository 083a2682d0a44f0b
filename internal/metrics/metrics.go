package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	GenerationsCreated  *prometheus.CounterVec
	GenerationsFinished *prometheus.CounterVec
	CreditsDeducted     prometheus.Counter
	CreditsAdded        *prometheus.CounterVec
	RefundsIssued       prometheus.Counter
	WebhookEvents       *prometheus.CounterVec
	ProviderCalls       *prometheus.CounterVec

	// Database Metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueriesTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visualizer_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "visualizer_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		GenerationsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_generations_created_total",
				Help: "Total number of generations accepted",
			},
			[]string{"style"},
		),
		GenerationsFinished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_generations_finished_total",
				Help: "Total number of generations reaching a terminal status",
			},
			[]string{"status"},
		),
		CreditsDeducted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "visualizer_credits_deducted_total",
				Help: "Total credits deducted for generations",
			},
		),
		CreditsAdded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_credits_added_total",
				Help: "Total credits added to user accounts",
			},
			[]string{"tx_type"},
		),
		RefundsIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "visualizer_refunds_issued_total",
				Help: "Total refunds issued for failed generations",
			},
		),
		WebhookEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_webhook_events_total",
				Help: "Total webhook deliveries by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ProviderCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_provider_calls_total",
				Help: "Total image provider calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visualizer_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordGenerationCreated(style string) {
	m.GenerationsCreated.WithLabelValues(style).Inc()
}

func (m *Metrics) RecordGenerationFinished(status string) {
	m.GenerationsFinished.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordCreditsDeducted(amount int64) {
	m.CreditsDeducted.Add(float64(amount))
}

func (m *Metrics) RecordCreditsAdded(txType string, amount int64) {
	m.CreditsAdded.WithLabelValues(txType).Add(float64(amount))
}

func (m *Metrics) RecordRefundIssued() {
	m.RefundsIssued.Inc()
}

func (m *Metrics) RecordWebhookEvent(source, outcome string) {
	m.WebhookEvents.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) RecordProviderCall(operation, outcome string) {
	m.ProviderCalls.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
