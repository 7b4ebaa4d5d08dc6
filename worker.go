package bip39crack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/bip39crack/entropy"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/permute"
	"github.com/hupe1980/bip39crack/seed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// flushEvery is how many attempts a worker batches before it reports them to
// the metrics collector and checks for cancellation. Must be a power of two.
const flushEvery = 1024

// worker searches its share of the candidates. All fields are read-only
// after construction except the per-worker scratch state built in run.
type worker struct {
	id         int
	positions  []int
	candidates []Candidate
	dict       *mnemonic.Dictionary
	target     seed.PartialDigest
	passphrase string
	tryLimit   int64
	verbose    bool
	events     chan<- Event
	metrics    MetricsCollector
	logger     *Logger
	tracer     trace.Tracer
}

// run walks every assigned candidate and always ends with exactly one
// EventFinished.
func (w *worker) run(ctx context.Context) (err error) {
	ctx, span := w.tracer.Start(ctx, "search.worker", trace.WithAttributes(
		attribute.Int("worker", w.id),
		attribute.Int("candidates", len(w.positions)),
	))
	start := time.Now()

	var attempts, unflushed int64
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil && !isContextErr(err) {
			err = &WorkerError{Worker: w.id, cause: err}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int64("attempts", attempts))
		span.End()

		w.metrics.RecordAttempts(unflushed)
		w.metrics.RecordWorker(w.id, attempts, time.Since(start), err)
		w.logger.LogWorkerFinished(ctx, attempts, err)
		w.events <- Event{Kind: EventFinished, Worker: w.id, Attempts: attempts, Err: err}
	}()

	builder := mnemonic.NewSentenceBuilder(w.dict)
	checker := seed.NewChecker(w.target)

	var idx [entropy.WordCount]uint16
	for _, pos := range w.positions {
		it := permute.New(w.candidates[pos], entropy.WordCount).Iter()

		for sel, ok := it.Next(); ok; sel, ok = it.Next() {
			if w.tryLimit >= 0 && attempts >= w.tryLimit {
				return nil
			}

			copy(idx[:], sel)
			attempts++
			unflushed++
			if unflushed == flushEvery {
				w.metrics.RecordAttempts(unflushed)
				unflushed = 0
				if err := ctx.Err(); err != nil {
					return err
				}
				w.try(Event{Kind: EventProgress, Worker: w.id, Candidate: pos, Attempts: attempts})
			}

			if entropy.Checksum(entropy.Pack(&idx)) != entropy.ChecksumNibble(&idx) {
				continue
			}
			w.metrics.RecordChecksumPass()

			sentence, err := builder.Build(idx[:])
			if err != nil {
				return fmt.Errorf("candidate %d: %w", pos, err)
			}

			if w.verbose {
				w.try(Event{Kind: EventTrying, Worker: w.id, Candidate: pos, Sentence: sentence, Attempts: attempts})
			}

			s := seed.Derive(sentence, w.passphrase)
			if checker.Match(&s) {
				w.events <- Event{Kind: EventMatched, Worker: w.id, Candidate: pos, Sentence: sentence, Attempts: attempts}
			}
		}

		w.events <- Event{Kind: EventExhausted, Worker: w.id, Candidate: pos, Attempts: attempts}
	}

	return nil
}

// try delivers a Trying or Progress event without blocking; it is dropped
// when the aggregator is behind.
func (w *worker) try(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
