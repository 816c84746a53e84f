// Package metrics exports search statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	astar "github.com/pdrpinto/astargraph"
)

// Collector implements astar.Observer on top of Prometheus metrics.
type Collector struct {
	SearchesTotal *prometheus.CounterVec
	Expanded      prometheus.Histogram
	Duration      prometheus.Histogram
}

// New creates the collectors and registers them with reg together with the
// Go and process collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astar_searches_total",
			Help: "Finished searches by outcome",
		}, []string{"outcome"}),
		Expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "astar_expanded_nodes",
			Help:    "Nodes expanded per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "astar_search_duration_seconds",
			Help:    "Wall time per search",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	toRegister := []prometheus.Collector{
		c.SearchesTotal, c.Expanded, c.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, col := range toRegister {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveSearch implements astar.Observer.
func (c *Collector) ObserveSearch(stats astar.Stats) {
	outcome := "no_path"
	if stats.Found() {
		outcome = "found"
	}
	c.SearchesTotal.WithLabelValues(outcome).Inc()
	c.Expanded.Observe(float64(stats.Expanded))
	c.Duration.Observe(stats.Duration.Seconds())
}
