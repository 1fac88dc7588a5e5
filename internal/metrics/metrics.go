package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooksink_webhooks_received_total",
		Help: "Total number of webhook deliveries that reached the ingestion endpoint.",
	})

	WebhooksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooksink_webhooks_rejected_total",
		Help: "Total number of rejected deliveries, labelled by outcome.",
	}, []string{"outcome"})

	DocumentsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooksink_documents_persisted_total",
		Help: "Total number of successful merge-upserts into the event collection.",
	})

	SyntheticKeys = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooksink_synthetic_keys_total",
		Help: "Writes keyed by a synthetic fallback id; these cannot be deduplicated across retries.",
	})

	PersistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hooksink_persist_duration_ms",
		Help:    "Document upsert latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
