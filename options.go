package bip39crack

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultCheckpointInterval = 30 * time.Second
	defaultEventBuffer        = 256
	tracerName                = "github.com/hupe1980/bip39crack"
)

type options struct {
	workers            int
	tryLimit           int64
	verbose            bool
	passphrase         string
	wide               bool
	logger             *Logger
	metricsCollector   MetricsCollector
	progress           ProgressSink
	matches            MatchSink
	checkpoint         Checkpoint
	checkpointInterval time.Duration
	tracer             trace.Tracer
	eventBuffer        int
	runID              string
}

// Option configures a Searcher.
type Option func(*options)

// WithWorkers sets the number of concurrent workers (default 1).
// Run clamps it to the number of candidates.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTryLimit caps the orderings each worker examines. -1 (the default)
// means unlimited.
//
// The limit is enforced per worker: a worker that reaches it abandons all of
// its remaining candidates, while other workers keep going. A run with W
// workers may therefore examine up to W*limit orderings.
func WithTryLimit(limit int64) Option {
	return func(o *options) {
		o.tryLimit = limit
	}
}

// WithVerbose enables EventTrying for every ordering that passes the checksum.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithPassphrase sets the optional BIP39 passphrase used for seed derivation.
func WithPassphrase(passphrase string) Option {
	return func(o *options) {
		o.passphrase = passphrase
	}
}

// WithWideCandidates accepts candidates with more than 12 indices. Each is
// searched over all ordered selections of 12 of its indices.
func WithWideCandidates(wide bool) Option {
	return func(o *options) {
		o.wide = wide
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bip39crack.NewJSONLogger(slog.LevelInfo)
//	s, _ := bip39crack.New(dict, target, bip39crack.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bip39crack.BasicMetricsCollector{}
//	s, _ := bip39crack.New(dict, target, bip39crack.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Attempts: %d, pass rate: %.4f\n", stats.Attempts, stats.PassRate)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithProgressSink receives every worker event. See package progress for
// ready-made sinks.
func WithProgressSink(sink ProgressSink) Option {
	return func(o *options) {
		if sink == nil {
			sink = noopProgress{}
		}
		o.progress = sink
	}
}

// WithMatchSink receives matched sentences as they are found.
func WithMatchSink(sink MatchSink) Option {
	return func(o *options) {
		o.matches = sink
	}
}

// WithCheckpoint skips candidates cp already marks as done and records newly
// exhausted ones. cp is saved at most once per interval while running and
// once more at the end. An interval of 0 saves after every exhausted
// candidate; a negative interval selects 30s.
func WithCheckpoint(cp Checkpoint, interval time.Duration) Option {
	return func(o *options) {
		if interval < 0 {
			interval = defaultCheckpointInterval
		}
		o.checkpoint = cp
		o.checkpointInterval = interval
	}
}

// WithTracer sets the OpenTelemetry tracer for run and worker spans.
// Defaults to the global tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithEventBuffer sets the capacity of the worker -> aggregator channel.
// EventTrying is dropped instead of blocking when the buffer is full.
func WithEventBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventBuffer = n
		}
	}
}

// WithRunID sets the run identifier used in logs, spans and the Result.
// By default every Run gets a fresh UUID. Reusing one Searcher with a fixed
// run ID gives every run the same identifier.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:            1,
		tryLimit:           -1,
		logger:             NoopLogger(),
		metricsCollector:   NoopMetricsCollector{},
		progress:           noopProgress{},
		checkpointInterval: defaultCheckpointInterval,
		eventBuffer:        defaultEventBuffer,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}
