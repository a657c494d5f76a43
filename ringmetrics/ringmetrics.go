package ringmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stats is the read-only view of a ring the gauges are copied from.
type Stats interface {
	Len() int
	Cap() int
}

// Metrics counts what happens to a ring. The ring is not synchronized, so
// its owner calls Observe after mutating it rather than letting the
// collector read the ring from the scrape goroutine.
type Metrics struct {
	Pushes    prometheus.Counter
	Removals  prometheus.Counter
	Evictions prometheus.Counter
	Skipped   prometheus.Counter
	Size      prometheus.Gauge
	Capacity  prometheus.Gauge
}

func New(namespace string) *Metrics {
	return &Metrics{
		Pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_total",
			Help:      "Number of values pushed",
		}),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removals_total",
			Help:      "Number of absent slots pushed",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Number of oldest entries overwritten by a push",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_total",
			Help:      "Number of inputs dropped before reaching the ring",
		}),
		Size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "size",
			Help:      "Number of occupied slots",
		}),
		Capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capacity",
			Help:      "Maximum number of retained entries",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Pushes, m.Removals, m.Evictions, m.Skipped, m.Size, m.Capacity}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe copies the ring's size and capacity into the gauges.
func (m *Metrics) Observe(s Stats) {
	m.Size.Set(float64(s.Len()))
	m.Capacity.Set(float64(s.Cap()))
}
