package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	InboundMessages  *prometheus.CounterVec
	OutboundMessages *prometheus.CounterVec
	DuplicateHits    prometheus.Counter
	IntentMatches    *prometheus.CounterVec
	KBLookups        *prometheus.CounterVec
	LLMRequests      *prometheus.CounterVec
	LLMLatency       *prometheus.HistogramVec
	OrdersCreated    *prometheus.CounterVec
	Errors           *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			InboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wa_inbound_messages_total",
				Help:      "Total inbound WhatsApp messages processed.",
			}, []string{"type"}),
			OutboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wa_outbound_messages_total",
				Help:      "Total outbound WhatsApp messages sent.",
			}, []string{"type"}),
			DuplicateHits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wa_duplicate_messages_total",
				Help:      "Total redelivered messages answered from the idempotency marker.",
			}),
			IntentMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intent_matches_total",
				Help:      "Total intent classifications by label.",
			}, []string{"intent"}),
			KBLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kb_lookups_total",
				Help:      "Total knowledge base lookups by outcome.",
			}, []string{"outcome"}),
			LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Total LLM requests by provider and outcome.",
			}, []string{"provider", "status"}),
			LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Latency distribution for LLM provider calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"provider", "status"}),
			OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_total",
				Help:      "Total orders by resulting status.",
			}, []string{"status"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.InboundMessages,
			metricsInstance.OutboundMessages,
			metricsInstance.DuplicateHits,
			metricsInstance.IntentMatches,
			metricsInstance.KBLookups,
			metricsInstance.LLMRequests,
			metricsInstance.LLMLatency,
			metricsInstance.OrdersCreated,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
