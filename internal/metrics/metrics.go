// Package metrics exports Prometheus counters for remote writes and
// initial loads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder receives controller events.
type Recorder interface {
	// RemoteWrite records one finished Phase-2 call.
	RemoteWrite(op string, err error, elapsed time.Duration)
	// InitialLoad records the outcome of loading a user's records.
	InitialLoad(err error)
	// Pending sets the number of queued remote writes.
	Pending(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RemoteWrite(string, error, time.Duration) {}

func (Nop) InitialLoad(error) {}

func (Nop) Pending(int) {}

// Compile-time interface checks.
var (
	_ Recorder = Nop{}
	_ Recorder = (*Prometheus)(nil)
)

// Prometheus is a Recorder backed by its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	writes       *prometheus.CounterVec
	writeSeconds *prometheus.HistogramVec
	loads        *prometheus.CounterVec
	pending      prometheus.Gauge
}

// NewPrometheus registers the collectors on a fresh registry. Set
// withRuntime to also export Go runtime and process metrics.
func NewPrometheus(withRuntime bool) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutriveda",
			Name:      "remote_writes_total",
			Help:      "Remote store writes by operation and result.",
		}, []string{"op", "result"}),
		writeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nutriveda",
			Name:      "remote_write_seconds",
			Help:      "Latency of remote store writes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutriveda",
			Name:      "initial_loads_total",
			Help:      "Initial loads of a user's remote records by result.",
		}, []string{"result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nutriveda",
			Name:      "pending_writes",
			Help:      "Remote writes queued but not yet finished.",
		}),
	}
	p.registry.MustRegister(p.writes, p.writeSeconds, p.loads, p.pending)
	if withRuntime {
		p.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) RemoteWrite(op string, err error, elapsed time.Duration) {
	p.writes.WithLabelValues(op, result(err)).Inc()
	p.writeSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (p *Prometheus) InitialLoad(err error) {
	p.loads.WithLabelValues(result(err)).Inc()
}

func (p *Prometheus) Pending(n int) {
	p.pending.Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
