package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transliteration metrics, shared by every front end.
var (
	TransliterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fidel_transliterations_total",
		Help: "Transliteration requests by source and whether the text changed",
	}, []string{"source", "outcome"})

	TransliterationInputRunes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fidel_transliteration_input_runes",
		Help:    "Length of transliterated input in runes",
		Buckets: []float64{8, 32, 128, 512, 1024, 4096, 10000},
	}, []string{"source"})

	TransliterationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fidel_transliteration_duration_seconds",
		Help:    "Time spent inside the transliteration engine",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	HistoryWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fidel_history_write_failures_total",
		Help: "Failed attempts to record a transliteration",
	}, []string{"source"})

	HistoryRowsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fidel_history_rows_pruned_total",
		Help: "History rows deleted by the retention cleaner",
	})
)

// Discord bot metrics.
var (
	BotRateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fidel_bot_rate_limit_hits_total",
		Help: "Bot requests rejected by the per-user rate limiter",
	})

	BotInteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fidel_bot_interactions_total",
		Help: "Discord interactions by command and result",
	}, []string{"command", "result"})
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fidel_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fidel_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "method"})

	HTTPRateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fidel_http_rate_limit_hits_total",
		Help: "Total HTTP rate limit rejections",
	})
)

// Database pool metrics (gauges updated periodically).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fidel_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fidel_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fidel_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})

	DBPoolMaxConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fidel_db_pool_max_conns",
		Help: "Maximum number of connections in the pool",
	})
)

// Outcome returns the outcome label for a transliteration.
func Outcome(input, output string) string {
	if input == output {
		return "unchanged"
	}
	return "changed"
}
