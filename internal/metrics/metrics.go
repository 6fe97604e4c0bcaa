package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors plus Go/process stats.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ranker",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ranker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ranker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"method", "path"})

	scoringRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ranker",
		Subsystem: "scoring",
		Name:      "requests_total",
		Help:      "Daily scoring runs by outcome (scored, empty, fallback, error).",
	}, []string{"outcome"})

	chatStreams = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ranker",
		Subsystem: "chat",
		Name:      "streams_total",
		Help:      "Chat streams by outcome (done, early_error, late_error, canceled).",
	}, []string{"outcome"})

	llmDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ranker",
		Subsystem: "llm",
		Name:      "call_duration_seconds",
		Help:      "Latency of text-generation calls.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"mode", "success"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight, httpRequests, httpDuration,
		scoringRequests, chatStreams, llmDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() { httpInFlight.Inc() }

func RequestFinished(method, path string, status int, elapsed time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func ScoringOutcome(outcome string) { scoringRequests.WithLabelValues(outcome).Inc() }

func ChatOutcome(outcome string) { chatStreams.WithLabelValues(outcome).Inc() }

func LLMCall(mode string, success bool, elapsed time.Duration) {
	llmDuration.WithLabelValues(mode, strconv.FormatBool(success)).Observe(elapsed.Seconds())
}
