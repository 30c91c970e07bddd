// Package promcollector exports pipeline metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/hupe1980/bagtensor"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bagtensor"

// Collector implements bagtensor.MetricsCollector on Prometheus metrics.
type Collector struct {
	stageDuration *prometheus.HistogramVec
	stageItems    *prometheus.CounterVec
	shards        *prometheus.CounterVec
	shardBytes    *prometheus.CounterVec
	shardReviews  *prometheus.CounterVec
	shardValues   *prometheus.CounterVec
	shardDuration *prometheus.HistogramVec
	repairs       *prometheus.CounterVec
}

var _ bagtensor.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg registers nothing.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		stageItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_items_total",
			Help:      "Items processed per pipeline stage",
		}, []string{"stage"}),
		shards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shards_written_total",
			Help:      "Shards written per mode",
		}, []string{"mode", "status"}),
		shardBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shard_bytes_total",
			Help:      "Bytes written to shards per mode",
		}, []string{"mode"}),
		shardReviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shard_reviews_total",
			Help:      "Reviews written to shards per mode",
		}, []string{"mode"}),
		shardValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shard_values_total",
			Help:      "Word counts written to shards per mode",
		}, []string{"mode"}),
		shardDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shard_write_duration_seconds",
			Help:      "Time to encode and store one shard",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_repairs_total",
			Help:      "Reviews moved from test to train to keep coverage",
		}, []string{"kind"}),
	}

	if reg != nil {
		for _, m := range c.collectors() {
			if err := reg.Register(m); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.stageDuration,
		c.stageItems,
		c.shards,
		c.shardBytes,
		c.shardReviews,
		c.shardValues,
		c.shardDuration,
		c.repairs,
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordStage implements bagtensor.MetricsCollector.
func (c *Collector) RecordStage(stage string, items int, duration time.Duration, err error) {
	c.stageDuration.WithLabelValues(stage, status(err)).Observe(duration.Seconds())
	c.stageItems.WithLabelValues(stage).Add(float64(items))
}

// RecordShard implements bagtensor.MetricsCollector.
func (c *Collector) RecordShard(mode string, reviews, values int, bytes int64, duration time.Duration, err error) {
	c.shards.WithLabelValues(mode, status(err)).Inc()
	c.shardDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		return
	}
	c.shardBytes.WithLabelValues(mode).Add(float64(bytes))
	c.shardReviews.WithLabelValues(mode).Add(float64(reviews))
	c.shardValues.WithLabelValues(mode).Add(float64(values))
}

// RecordRepairs implements bagtensor.MetricsCollector.
func (c *Collector) RecordRepairs(users, items, words, skipped int) {
	c.repairs.WithLabelValues("user").Add(float64(users))
	c.repairs.WithLabelValues("item").Add(float64(items))
	c.repairs.WithLabelValues("word").Add(float64(words))
	c.repairs.WithLabelValues("skipped").Add(float64(skipped))
}
