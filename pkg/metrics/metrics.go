package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	URLsInQueue         prometheus.Gauge
	EnrichmentsTotal    *prometheus.CounterVec
	EnrichmentDuration  *prometheus.HistogramVec
	FeatureExtractions  *prometheus.CounterVec
	LookupsTotal        *prometheus.CounterVec
	VariantsGenerated   prometheus.Counter

	initOnce sync.Once
)

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	URLsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "urls_in_queue",
			Help: "Current number of URLs waiting for enrichment.",
		},
	)

	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichments_total",
			Help: "Total number of URL enrichment attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Duration of each enrichment stage.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"}, // features, dns, whois, total
	)

	FeatureExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_extractions_total",
			Help: "Lexical feature extractions by outcome.",
		},
		[]string{"result"}, // parsed, fallback
	)

	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookups_total",
			Help: "External lookups by source and outcome.",
		},
		[]string{"source", "status"}, // source: dns_a, dns_mx, geo, whois, llm
	)

	VariantsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synthetic_variants_generated_total",
			Help: "Total number of synthetic URL variants parsed from model output.",
		},
	)
}
