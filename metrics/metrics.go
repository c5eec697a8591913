// Package metrics exposes Prometheus instrumentation for batch runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors. One instance is shared
// across a batch run; labels separate axes and outcomes.
type Metrics struct {
	registry *prometheus.Registry

	ArticlesProcessed *prometheus.CounterVec
	AnalysisCalls     *prometheus.CounterVec
	AnalysisRetries   prometheus.Counter
	Tokens            *prometheus.CounterVec
	CostDollars       prometheus.Counter
}

// New creates a Metrics instance backed by its own registry, so batch runs
// and tests never collide on collector registration.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ArticlesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogaudit",
			Name:      "articles_processed_total",
			Help:      "Articles processed by outcome (processed, skipped, failed).",
		}, []string{"outcome"}),
		AnalysisCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogaudit",
			Name:      "analysis_calls_total",
			Help:      "Analysis axis results by axis and outcome (success, failure).",
		}, []string{"axis", "outcome"}),
		AnalysisRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "blogaudit",
			Name:      "analysis_retries_total",
			Help:      "Analysis calls that needed at least one retry.",
		}),
		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogaudit",
			Name:      "analysis_tokens_total",
			Help:      "Token usage reported by the analysis service, by direction (input, output).",
		}, []string{"direction"}),
		CostDollars: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "blogaudit",
			Name:      "analysis_cost_dollars_total",
			Help:      "Estimated analysis spend in dollars.",
		}),
	}
}

// Handler returns an HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordArticle counts one article by outcome.
func (m *Metrics) RecordArticle(outcome string) {
	m.ArticlesProcessed.WithLabelValues(outcome).Inc()
}

// RecordAxis counts one axis result.
func (m *Metrics) RecordAxis(axis string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.AnalysisCalls.WithLabelValues(axis, outcome).Inc()
}

// RecordUsage counts token usage and spend for one article.
func (m *Metrics) RecordUsage(inputTokens, outputTokens int, costDollars float64) {
	m.Tokens.WithLabelValues("input").Add(float64(inputTokens))
	m.Tokens.WithLabelValues("output").Add(float64(outputTokens))
	m.CostDollars.Add(costDollars)
}
