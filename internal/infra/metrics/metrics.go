package metrics

import (
	"net/http"
	"time"

	"deadline_notification_bot/internal/app"
	"deadline_notification_bot/internal/domain/notification"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deadline_bot"

// Collector records delivery and digest metrics on a private registry.
type Collector struct {
	registry         *prometheus.Registry
	deliveries       *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
	digests          prometheus.Counter
	digestItems      *prometheus.GaugeVec
	lastDigest       prometheus.Gauge
}

var _ app.Metrics = (*Collector)(nil)

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Delivery attempts by outcome.",
		}, []string{"outcome"}),
		deliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent on one delivery attempt.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		digests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_composed_total",
			Help:      "Digests composed.",
		}),
		digestItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "digest_items",
			Help:      "Deadline counts in the most recent digest by bucket.",
		}, []string{"bucket"}),
		lastDigest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_digest_timestamp_seconds",
			Help:      "Unix time of the most recent digest.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.deliveries,
		c.deliveryDuration,
		c.digests,
		c.digestItems,
		c.lastDigest,
	)
	return c
}

func (c *Collector) ObserveDelivery(outcome notification.Outcome, elapsed time.Duration) {
	c.deliveries.WithLabelValues(string(outcome)).Inc()
	c.deliveryDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveDigest(agg app.Aggregation) {
	c.digests.Inc()
	c.digestItems.WithLabelValues("soon").Set(float64(len(agg.Soon)))
	c.digestItems.WithLabelValues("overdue").Set(float64(len(agg.Overdue)))
	c.digestItems.WithLabelValues("ok").Set(float64(agg.OK))
	c.digestItems.WithLabelValues("skipped").Set(float64(agg.Skipped))
	c.digestItems.WithLabelValues("subjects").Set(float64(agg.Subjects))
	c.lastDigest.Set(float64(agg.Now.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
