package bip39crack

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting search metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package metrics/prometheus).
//
// Workers call RecordAttempts and RecordChecksumPass concurrently;
// implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordAttempts adds n examined orderings. Workers report in batches.
	RecordAttempts(n int64)

	// RecordChecksumPass is called for every ordering that passed the
	// checksum filter and went through key derivation.
	RecordChecksumPass()

	// RecordMatch is called by the aggregator for every digest match.
	RecordMatch()

	// RecordWorker is called once per worker when it finishes.
	RecordWorker(worker int, attempts int64, duration time.Duration, err error)

	// RecordRun is called once at the end of a run.
	RecordRun(attempts int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAttempts(int64)                          {}
func (NoopMetricsCollector) RecordChecksumPass()                           {}
func (NoopMetricsCollector) RecordMatch()                                  {}
func (NoopMetricsCollector) RecordWorker(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(int64, time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Attempts       atomic.Int64
	ChecksumPasses atomic.Int64
	Matches        atomic.Int64
	Workers        atomic.Int64
	WorkerErrors   atomic.Int64
	Runs           atomic.Int64
	RunErrors      atomic.Int64
	RunTotalNanos  atomic.Int64
}

// RecordAttempts implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAttempts(n int64) {
	b.Attempts.Add(n)
}

// RecordChecksumPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChecksumPass() {
	b.ChecksumPasses.Add(1)
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch() {
	b.Matches.Add(1)
}

// RecordWorker implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWorker(_ int, _ int64, _ time.Duration, err error) {
	b.Workers.Add(1)
	if err != nil {
		b.WorkerErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ int64, duration time.Duration, err error) {
	b.Runs.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Attempts:       b.Attempts.Load(),
		ChecksumPasses: b.ChecksumPasses.Load(),
		Matches:        b.Matches.Load(),
		Workers:        b.Workers.Load(),
		WorkerErrors:   b.WorkerErrors.Load(),
		Runs:           b.Runs.Load(),
		RunErrors:      b.RunErrors.Load(),
		PassRate:       b.passRate(),
	}
}

func (b *BasicMetricsCollector) passRate() float64 {
	attempts := b.Attempts.Load()
	if attempts == 0 {
		return 0
	}
	return float64(b.ChecksumPasses.Load()) / float64(attempts)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Attempts       int64
	ChecksumPasses int64
	Matches        int64
	Workers        int64
	WorkerErrors   int64
	Runs           int64
	RunErrors      int64
	// PassRate is ChecksumPasses/Attempts; about 1/16 for random orderings.
	PassRate float64
}
