package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// hostnameLabel identifies the target on every exported series.
const hostnameLabel = "hostname"

// Registry holds the exporter's gauge set on a private Prometheus registry.
// It is constructed once at startup and shared by reference between the
// collector (writes) and the metrics server (reads) — no package-level
// metric state, so tests can build isolated instances.
//
// client_golang vectors are safe for concurrent use, and each target owns a
// disjoint hostname label within a cycle, so no further locking is needed.
type Registry struct {
	reg *prometheus.Registry

	TotalAccesses *prometheus.GaugeVec
	CPULoad       *prometheus.GaugeVec
	Uptime        *prometheus.GaugeVec
	ReqPerSec     *prometheus.GaugeVec
	BytesPerSec   *prometheus.GaugeVec
	BusyWorkers   *prometheus.GaugeVec
	IdleWorkers   *prometheus.GaugeVec
	WorkerRatio   *prometheus.GaugeVec

	// Up reports whether the last collection cycle succeeded for a target.
	// The apache_* gauges above keep their last-success values on failure;
	// Up is how a failed target is visible to the scraper.
	Up *prometheus.GaugeVec

	// ScrapeErrors counts failed collection attempts per target.
	ScrapeErrors *prometheus.CounterVec
}

// New creates a Registry with all metric vectors registered.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.TotalAccesses = r.gauge("apache_total_accesses", "Total number of accesses")
	r.CPULoad = r.gauge("apache_cpu_load", "CPU load")
	r.Uptime = r.gauge("apache_uptime", "Uptime in seconds")
	r.ReqPerSec = r.gauge("apache_req_per_sec", "Requests per second")
	r.BytesPerSec = r.gauge("apache_bytes_per_sec", "Bytes transferred per second")
	r.BusyWorkers = r.gauge("apache_busy_workers", "Number of busy workers")
	r.IdleWorkers = r.gauge("apache_idle_workers", "Number of idle workers")
	r.WorkerRatio = r.gauge("apache_worker_ratio", "Ratio of busy to idle workers")
	r.Up = r.gauge("apache_up", "Whether the last status fetch for this target succeeded")

	r.ScrapeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apache_scrape_errors_total",
		Help: "Total number of failed status fetches per target",
	}, []string{hostnameLabel})
	r.reg.MustRegister(r.ScrapeErrors)

	return r
}

func (r *Registry) gauge(name, help string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help},
		[]string{hostnameLabel})
	r.reg.MustRegister(g)
	return g
}

// Handler returns the HTTP handler serving the registry in the Prometheus
// text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for exposition and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
