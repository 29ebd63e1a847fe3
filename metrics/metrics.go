// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "division_inventory"

var Registry = prometheus.NewRegistry()

var (
	// Fetches counts collection reads by collection and result (ok|error).
	Fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "fetches_total",
		Help:      "Collection fetches issued against the backend.",
	}, []string{"collection", "result"})

	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "notifications_total",
		Help:      "Table change notifications relayed from Postgres.",
	}, []string{"table", "event"})

	SignIns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "sign_ins_total",
		Help:      "Password sign-in attempts by result.",
	}, []string{"result"})

	OpenStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "open_streams",
		Help:      "Dashboard SSE streams currently open.",
	})
)

func init() {
	Registry.MustRegister(
		Fetches,
		Notifications,
		SignIns,
		OpenStreams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Result labels an outcome for the *_total counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
