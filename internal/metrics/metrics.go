// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	registry = prometheus.NewRegistry()

	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "versewise",
		Name:      "provider_requests_total",
		Help:      "Requests to external scripture and lexicon providers by outcome.",
	}, []string{"provider", "outcome"})

	LLMRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "versewise",
		Name:      "llm_requests_total",
		Help:      "Generative model calls by backend and outcome.",
	}, []string{"backend", "outcome"})

	Answers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "versewise",
		Name:      "assistant_answers_total",
		Help:      "Answered messages, split by whether any grounding context was found.",
	}, []string{"grounded"})
)

func init() {
	registry.MustRegister(ProviderRequests, LLMRequests, Answers)
}

// Handler serves the collectors in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
