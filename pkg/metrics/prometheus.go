package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry              *prometheus.Registry
	transactionsProcessed prometheus.Counter
	transactionsFlagged   prometheus.Counter
	transactionsFailed    prometheus.Counter
	fraudScores           prometheus.Histogram
	evaluateDuration      prometheus.Histogram
	logger                *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		transactionsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_processed_total",
			Help: "Total number of scored and persisted transactions",
		}),
		transactionsFlagged: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_flagged_total",
			Help: "Total number of transactions flagged as fraudulent",
		}),
		transactionsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_failed_total",
			Help: "Total number of transactions rejected before persistence",
		}),
		fraudScores: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "transaction_fraud_score_distribution",
			Help:    "Distribution of fraud scores",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		evaluateDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_evaluate_duration_seconds",
			Help:    "Time taken by a fraud evaluation",
			Buckets: prometheus.DefBuckets,
		}),
		logger: logger,
	}
}

func (m *MetricsCollector) RecordTransaction(duration time.Duration, score float64, flagged bool) {
	m.transactionsProcessed.Inc()
	if flagged {
		m.transactionsFlagged.Inc()
	}
	m.fraudScores.Observe(score)
	m.evaluateDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordFailure() {
	m.transactionsFailed.Inc()
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}
