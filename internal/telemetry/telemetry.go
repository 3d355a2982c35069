package telemetry

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/cardwise/config"
)

// Telemetry provides monitoring for the recommendation pipeline: search
// calls, per-model completion attempts and whole runs.
type Telemetry struct {
	config   config.TelemetryConfig
	logger   *log.Logger
	registry *prometheus.Registry
	mu       sync.RWMutex
	metrics  *Metrics

	requestsTotal *prometheus.CounterVec
	attemptsTotal *prometheus.CounterVec
	searchTotal   *prometheus.CounterVec
}

// Metrics holds an in-memory snapshot of pipeline performance.
type Metrics struct {
	TotalRequests         int64
	SuccessfulRequests    int64
	FailedRequests        int64
	AverageProcessingTime time.Duration

	ModelAttempts  map[string]int64
	ModelSuccesses map[string]int64

	SearchRequests int64
	SearchFailures int64
}

// RecommendationEvent represents one full pipeline run.
type RecommendationEvent struct {
	ID             string
	StartTime      time.Time
	EndTime        time.Time
	ProcessingTime time.Duration
	Success        bool
	Error          string
	ModelsTried    []string
	SnippetCount   int
}

// ModelAttemptEvent represents a single model trial.
type ModelAttemptEvent struct {
	Model     string
	Duration  time.Duration
	Success   bool
	ErrorKind string
}

// SearchEvent represents an offer search, including retries.
type SearchEvent struct {
	Provider string
	Query    string
	Duration time.Duration
	Success  bool
	Results  int
}

// NewTelemetry creates a new telemetry instance with its own prometheus
// registry so instances stay independent in tests.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		config:   cfg,
		logger:   log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		registry: reg,
		metrics: &Metrics{
			ModelAttempts:  make(map[string]int64),
			ModelSuccesses: make(map[string]int64),
		},
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardwise_recommendations_total",
			Help: "Recommendation pipeline runs by outcome.",
		}, []string{"outcome"}),
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardwise_model_attempts_total",
			Help: "Completion attempts by model and outcome.",
		}, []string{"model", "outcome"}),
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardwise_search_requests_total",
			Help: "Offer searches by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
	reg.MustRegister(t.requestsTotal, t.attemptsTotal, t.searchTotal)
	return t
}

// MetricsHandler exposes the registry for the /metrics endpoint.
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordRecommendationEvent records a complete pipeline run.
func (t *Telemetry) RecordRecommendationEvent(event RecommendationEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalRequests++
	outcome := "success"
	if event.Success {
		t.metrics.SuccessfulRequests++
	} else {
		t.metrics.FailedRequests++
		outcome = "failure"
	}
	t.requestsTotal.WithLabelValues(outcome).Inc()

	if t.metrics.TotalRequests == 1 {
		t.metrics.AverageProcessingTime = event.ProcessingTime
	} else {
		total := t.metrics.AverageProcessingTime * time.Duration(t.metrics.TotalRequests-1)
		t.metrics.AverageProcessingTime = (total + event.ProcessingTime) / time.Duration(t.metrics.TotalRequests)
	}

	t.logger.Printf("Recommendation Event: ID=%s, Success=%t, Duration=%v, ModelsTried=%d, Snippets=%d",
		event.ID, event.Success, event.ProcessingTime, len(event.ModelsTried), event.SnippetCount)
}

// RecordModelAttempt records a single model trial.
func (t *Telemetry) RecordModelAttempt(event ModelAttemptEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.ModelAttempts[event.Model]++
	outcome := "success"
	if event.Success {
		t.metrics.ModelSuccesses[event.Model]++
	} else {
		outcome = string(event.ErrorKind)
		if outcome == "" {
			outcome = "failure"
		}
	}
	t.attemptsTotal.WithLabelValues(event.Model, outcome).Inc()

	t.logger.Printf("Model Attempt: Model=%s, Success=%t, Duration=%v, ErrorKind=%s",
		event.Model, event.Success, event.Duration, event.ErrorKind)
}

// RecordSearchEvent records an offer search.
func (t *Telemetry) RecordSearchEvent(event SearchEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.SearchRequests++
	outcome := "success"
	if !event.Success {
		t.metrics.SearchFailures++
		outcome = "failure"
	}
	t.searchTotal.WithLabelValues(event.Provider, outcome).Inc()

	t.logger.Printf("Search Event: Provider=%s, Success=%t, Duration=%v, Results=%d",
		event.Provider, event.Success, event.Duration, event.Results)
}

// GetMetrics returns a snapshot of current metrics.
func (t *Telemetry) GetMetrics() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	metrics := *t.metrics
	metrics.ModelAttempts = make(map[string]int64, len(t.metrics.ModelAttempts))
	metrics.ModelSuccesses = make(map[string]int64, len(t.metrics.ModelSuccesses))
	for k, v := range t.metrics.ModelAttempts {
		metrics.ModelAttempts[k] = v
	}
	for k, v := range t.metrics.ModelSuccesses {
		metrics.ModelSuccesses[k] = v
	}
	return metrics
}
