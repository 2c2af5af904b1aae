package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-heartbeat/internal/domain/entity"
)

const namespace = "heartbeat"

const (
	ResultPublished = "published"
	ResultProjected = "projected"
	ResultFailed    = "failed"
)

// Metrics holds the process collectors on a registry of its own.
type Metrics struct {
	registry      *prometheus.Registry
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	components    *prometheus.CounterVec
	projections   *prometheus.CounterVec
	keysWritten   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_cycles_total",
			Help:      "Publish cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_cycle_duration_seconds",
			Help:      "Time spent probing, auditing and publishing one heartbeat.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		components: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_checks_total",
			Help:      "Component statuses reported by kind and status.",
		}, []string{"kind", "status"}),
		projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Heartbeat messages projected into the status store by result.",
		}, []string{"result"}),
		keysWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_keys_written_total",
			Help:      "Status keys written into the store.",
		}),
	}

	m.registry.MustRegister(
		m.cycles, m.cycleDuration, m.components, m.projections, m.keysWritten,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCycle records one publish cycle and the statuses of its report.
func (m *Metrics) ObserveCycle(report entity.HeartbeatReport, duration time.Duration, err error) {
	m.cycleDuration.Observe(duration.Seconds())
	if err != nil {
		m.cycles.WithLabelValues(ResultFailed).Inc()
	} else {
		m.cycles.WithLabelValues(ResultPublished).Inc()
	}

	m.countStatuses("host", report.Hosts)
	m.countStatuses("service", report.RMQConsumers.ServicesStatus)
	m.countStatuses("queue", report.RMQConsumers.QueuesStatus)
}

func (m *Metrics) countStatuses(kind string, statuses []entity.ComponentStatus) {
	for _, s := range statuses {
		m.components.WithLabelValues(kind, string(s.Status)).Inc()
	}
}

// ObserveProjection records one consumed message.
func (m *Metrics) ObserveProjection(keysWritten int, err error) {
	m.keysWritten.Add(float64(keysWritten))
	if err != nil {
		m.projections.WithLabelValues(ResultFailed).Inc()
		return
	}
	m.projections.WithLabelValues(ResultProjected).Inc()
}
