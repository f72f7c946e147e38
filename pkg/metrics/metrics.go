/*
Package metrics exports view activity to Prometheus.
*/
package metrics

import (
	"github.com/mkenney/k8s-view/pkg/events"
	"github.com/mkenney/k8s-view/pkg/subcollection"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "k8s_view"

/*
Collector records recomputation passes and relayed events per view. It
implements subcollection.Observer.
*/
type Collector struct {
	passes   *prometheus.CounterVec
	events   *prometheus.CounterVec
	length   *prometheus.GaugeVec
	filtered *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

/*
New creates the collectors and registers them with reg.
*/
func New(reg prometheus.Registerer) *Collector {
	collector := &Collector{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_total",
			Help:      "Number of view recomputation passes.",
		}, []string{"view"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of events emitted by views, by kind.",
		}, []string{"view", "kind"}),
		length: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "length",
			Help:      "Current number of view members.",
		}, []string{"view"}),
		filtered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_length",
			Help:      "Number of records matching the view filters before windowing.",
		}, []string{"view"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_seconds",
			Help:      "Duration of view recomputation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"view"}),
	}
	reg.MustRegister(
		collector.passes,
		collector.events,
		collector.length,
		collector.filtered,
		collector.duration,
	)
	return collector
}

// ObservePass implements subcollection.Observer.
func (collector *Collector) ObservePass(view string, stats subcollection.Stats) {
	collector.passes.WithLabelValues(view).Inc()
	collector.duration.WithLabelValues(view).Observe(stats.Duration.Seconds())
	collector.length.WithLabelValues(view).Set(float64(stats.Len))

	filtered := stats.Len
	if stats.Windowed {
		filtered = stats.FilteredLen
	}
	collector.filtered.WithLabelValues(view).Set(float64(filtered))

	if stats.Added > 0 {
		collector.events.WithLabelValues(view, events.Add.String()).Add(float64(stats.Added))
	}
	if stats.Removed > 0 {
		collector.events.WithLabelValues(view, events.Remove.String()).Add(float64(stats.Removed))
	}
	if stats.Sorted {
		collector.events.WithLabelValues(view, events.Sort.String()).Inc()
	}
}

// ObserveRelay implements subcollection.Observer.
func (collector *Collector) ObserveRelay(view string, kind events.Kind) {
	collector.events.WithLabelValues(view, kind.String()).Inc()
}
