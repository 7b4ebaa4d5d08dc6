package bip39crack

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/bip39crack/entropy"
	"github.com/hupe1980/bip39crack/internal/partition"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/seed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Candidate is one line of the index file: the word indices whose order is
// unknown. It has exactly 12 entries, or more with WithWideCandidates.
type Candidate []uint16

// Searcher runs permutation searches against one dictionary and target.
// A Searcher is immutable; Run may be called repeatedly.
type Searcher struct {
	dict   *mnemonic.Dictionary
	target seed.PartialDigest
	opts   options
}

// New creates a Searcher.
func New(dict *mnemonic.Dictionary, target seed.PartialDigest, optFns ...Option) (*Searcher, error) {
	if dict == nil {
		return nil, ErrNilDictionary
	}
	target, err := seed.NewPartialDigest(target)
	if err != nil {
		return nil, err
	}

	o := applyOptions(optFns)
	if o.workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, o.workers)
	}
	if o.tryLimit < -1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTryLimit, o.tryLimit)
	}

	return &Searcher{
		dict:   dict,
		target: target,
		opts:   o,
	}, nil
}

// Run searches candidates and blocks until every worker has finished.
//
// Matches are handed to the MatchSink as they arrive. Run returns the first
// worker fault (a *WorkerError) or MatchSink error after all workers are
// done. If ctx is canceled, workers stop at their next batch boundary and
// Run returns the partial Result together with ctx.Err(). A cancellation
// that arrives after every worker completed is ignored.
//
// When the checkpoint already marks every candidate, Run returns an empty
// Result without starting workers.
func (s *Searcher) Run(ctx context.Context, candidates []Candidate) (*Result, error) {
	for i, c := range candidates {
		if len(c) < entropy.WordCount || (!s.opts.wide && len(c) != entropy.WordCount) {
			return nil, &ErrInvalidCandidate{Position: i, Len: len(c), Wide: s.opts.wide}
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	runID := s.opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := s.opts.logger.WithRun(runID)

	pending, skipped := s.pending(candidates)
	if len(pending) == 0 {
		now := time.Now()
		logger.InfoContext(ctx, "all candidates already searched", "skipped", skipped)
		return &Result{RunID: runID, Skipped: skipped, Started: now, Finished: now}, nil
	}

	workers := partition.Workers(s.opts.workers, len(pending))

	ctx, span := s.opts.tracer.Start(ctx, "search.run", trace.WithAttributes(
		attribute.String("run", runID),
		attribute.Int("workers", workers),
		attribute.Int("candidates", len(pending)),
		attribute.Int("skipped", skipped),
	))
	defer span.End()

	res := &Result{
		RunID:      runID,
		Workers:    workers,
		Candidates: len(pending),
		Skipped:    skipped,
		Started:    time.Now(),
	}
	logger.LogRunStart(ctx, workers, len(pending), skipped, s.opts.tryLimit)

	events := make(chan Event, max(s.opts.eventBuffer, workers))

	var (
		g       errgroup.Group
		stopped atomic.Bool
	)
	for wid, part := range partition.Stride(pending, workers) {
		positions := make([]int, len(part))
		for i, p := range part {
			positions[i] = pending[p]
		}

		w := &worker{
			id:         wid,
			positions:  positions,
			candidates: candidates,
			dict:       s.dict,
			target:     s.target.Clone(),
			passphrase: s.opts.passphrase,
			tryLimit:   s.opts.tryLimit,
			verbose:    s.opts.verbose,
			events:     events,
			metrics:    s.opts.metricsCollector,
			logger:     logger.WithWorker(wid),
			tracer:     s.opts.tracer,
		}
		g.Go(func() error {
			err := w.run(ctx)
			if isContextErr(err) {
				stopped.Store(true)
			}
			return err
		})
	}

	sinkErr := s.aggregate(ctx, logger, events, workers, res)
	workerErr := g.Wait()
	res.Finished = time.Now()

	// Canceled only if a worker actually stopped on ctx.
	var err error
	switch {
	case stopped.Load():
		err = ctx.Err()
	case workerErr != nil:
		err = workerErr
	default:
		err = sinkErr
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int64("attempts", res.Attempts), attribute.Int("matches", len(res.Matches)))

	s.opts.metricsCollector.RecordRun(res.Attempts, res.Elapsed(), err)
	logger.LogRunFinished(ctx, res.Attempts, len(res.Matches), res.Elapsed(), err)

	return res, err
}

// pending returns the positions of candidates not yet marked done.
func (s *Searcher) pending(candidates []Candidate) ([]int, int) {
	out := make([]int, 0, len(candidates))
	for i := range candidates {
		if s.opts.checkpoint != nil && s.opts.checkpoint.Done(i) {
			continue
		}
		out = append(out, i)
	}
	return out, len(candidates) - len(out)
}

// aggregate drains events until it has seen one EventFinished per worker.
// It is the only goroutine touching the sinks and the checkpoint. It returns
// the first sink or checkpoint error but keeps draining so workers never stall.
func (s *Searcher) aggregate(ctx context.Context, logger *Logger, events <-chan Event, workers int, res *Result) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	cp := s.opts.checkpoint
	lastSave := time.Now()
	save := func() {
		err := cp.Save(context.WithoutCancel(ctx))
		logger.LogCheckpoint(ctx, cp.Len(), err)
		if err != nil {
			keep(fmt.Errorf("save checkpoint: %w", err))
		}
		lastSave = time.Now()
	}

	for finished := 0; finished < workers; {
		ev := <-events
		s.opts.progress.Report(ev.Worker, ev)

		switch ev.Kind {
		case EventMatched:
			res.Matches = append(res.Matches, ev.Sentence)
			s.opts.metricsCollector.RecordMatch()
			logger.LogMatch(ctx, ev.Worker, ev.Candidate)
			if s.opts.matches != nil {
				if err := s.opts.matches.Match(ev.Sentence); err != nil {
					keep(fmt.Errorf("match sink: %w", err))
				}
			}
		case EventExhausted:
			if cp != nil {
				cp.Mark(ev.Candidate)
				if time.Since(lastSave) >= s.opts.checkpointInterval {
					save()
				}
			}
		case EventFinished:
			res.Attempts += ev.Attempts
			finished++
		}
	}

	if cp != nil {
		save()
	}
	return firstErr
}
