// Package prometheus exports search metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := promcollector.New(reg)
//	s, err := bip39crack.New(dict, target, bip39crack.WithMetricsCollector(collector))
package prometheus

import (
	"strconv"
	"time"

	"github.com/hupe1980/bip39crack"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bip39crack"

// Collector implements bip39crack.MetricsCollector with Prometheus metrics.
type Collector struct {
	attempts       prometheus.Counter
	checksumPasses prometheus.Counter
	matches        prometheus.Counter
	workerAttempts *prometheus.GaugeVec
	workerDuration *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	hashrate       prometheus.Gauge
}

var _ bip39crack.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Orderings examined.",
		}),
		checksumPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checksum_passes_total",
			Help:      "Orderings that passed the checksum filter and were derived.",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Sentences whose master digest matched the target.",
		}),
		workerAttempts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_attempts",
			Help:      "Attempts of each worker in the last run.",
		}, []string{"worker"}),
		workerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_duration_seconds",
			Help:      "Wall time of finished workers.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 12),
		}, []string{"status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 12),
		}),
		hashrate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_hashrate",
			Help:      "Attempts per second of the last completed run.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.attempts, c.checksumPasses, c.matches, c.workerAttempts,
		c.workerDuration, c.runs, c.runDuration, c.hashrate,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) RecordAttempts(n int64) {
	if n > 0 {
		c.attempts.Add(float64(n))
	}
}

func (c *Collector) RecordChecksumPass() { c.checksumPasses.Inc() }

func (c *Collector) RecordMatch() { c.matches.Inc() }

func (c *Collector) RecordWorker(worker int, attempts int64, d time.Duration, err error) {
	c.workerAttempts.WithLabelValues(strconv.Itoa(worker)).Set(float64(attempts))
	c.workerDuration.WithLabelValues(status(err)).Observe(d.Seconds())
}

func (c *Collector) RecordRun(attempts int64, d time.Duration, err error) {
	c.runs.WithLabelValues(status(err)).Inc()
	c.runDuration.Observe(d.Seconds())
	if d > 0 {
		c.hashrate.Set(float64(attempts) / d.Seconds())
	}
}
