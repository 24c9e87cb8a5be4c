// Package metrics exposes operational counters on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry *prometheus.Registry

	RecordsCreated   *prometheus.CounterVec
	RecordsDeleted   prometheus.Counter
	SyncUploads      prometheus.Counter
	OfflineFallbacks prometheus.Counter
	AssistantTurns   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RecordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prodtrack_records_created_total",
			Help: "Records created, by installation type.",
		}, []string{"type"}),
		RecordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prodtrack_records_deleted_total",
			Help: "Records deleted.",
		}),
		SyncUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prodtrack_sync_uploads_total",
			Help: "Pending records uploaded on reconnect.",
		}),
		OfflineFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prodtrack_offline_fallbacks_total",
			Help: "Operations that degraded to the local cache path.",
		}),
		AssistantTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prodtrack_assistant_turns_total",
			Help: "Conversational turns, by extracted intent.",
		}, []string{"intent"}),
	}

	registry.MustRegister(
		m.RecordsCreated,
		m.RecordsDeleted,
		m.SyncUploads,
		m.OfflineFallbacks,
		m.AssistantTurns,
	)
	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
