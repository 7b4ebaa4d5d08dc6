// Command bip39crack recovers the word order of a 12-word BIP39 mnemonic from
// the known words and a fragment of the master chain code.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/hupe1980/bip39crack/blobstore/resolve"
	"github.com/hupe1980/bip39crack/checkpoint"
	"github.com/hupe1980/bip39crack/input"
	promcollector "github.com/hupe1980/bip39crack/metrics/prometheus"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/progress"
	"github.com/hupe1980/bip39crack/report"
	"github.com/hupe1980/bip39crack/seed"
	"github.com/hupe1980/bip39crack/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitInterrupt = 130

	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app holds the collaborators of one invocation.
type app struct {
	cfg      config
	resolver resolve.Resolver
	logger   *bip39crack.Logger
	stdout   io.Writer
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "bip39crack: %v\n", err)
		return exitUsage
	}

	a := &app{
		cfg:    cfg,
		logger: newLogger(cfg, stderr),
		stdout: stdout,
	}

	res, err := a.search(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		if res != nil {
			fmt.Fprintf(stdout, "interrupted after %d attempts, %d match(es)\n", res.Attempts, len(res.Matches))
		}
		return exitInterrupt
	case err != nil:
		a.logger.Error("bip39crack failed", "error", err)
		return exitError
	}

	fmt.Fprintf(stdout, "%d match(es) in %d attempts (%.2f hashes/s)\n", len(res.Matches), res.Attempts, res.Hashrate())
	return exitOK
}

func newLogger(cfg config, w io.Writer) *bip39crack.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return bip39crack.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return bip39crack.NewLogger(slog.NewTextHandler(w, opts))
}

func (a *app) search(ctx context.Context) (*bip39crack.Result, error) {
	dict, err := a.loadDictionary(ctx)
	if err != nil {
		return nil, err
	}

	target, err := a.loadDigest(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := a.loadCandidates(ctx, dict)
	if err != nil {
		return nil, err
	}

	var cp *checkpoint.Checkpoint
	if a.cfg.Checkpoint != "" {
		if cp, err = a.openCheckpoint(ctx, candidates); err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	started := time.Now()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc, err := promcollector.New(reg)
	if err != nil {
		return nil, err
	}

	board := progress.NewBoard()
	term := progress.NewTerminal(a.stdout)
	defer term.Flush()

	if a.cfg.StatusAddr != "" {
		srv, err := server.Start(a.cfg.StatusAddr, server.NewRouter(server.NewHandler(board, reg, runID, started)))
		if err != nil {
			return nil, fmt.Errorf("status server: %w", err)
		}
		a.logger.Info("status server listening", "addr", srv.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("status server shutdown", "error", err)
			}
		}()
	}

	out, err := a.createOutput(ctx)
	if err != nil {
		return nil, err
	}
	sink := report.NewSink(out)
	if err := sink.Start(started); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("write result: %w", err)
	}

	optFns := []bip39crack.Option{
		bip39crack.WithRunID(runID),
		bip39crack.WithWorkers(a.cfg.Threads),
		bip39crack.WithTryLimit(a.cfg.TryLimit),
		bip39crack.WithVerbose(a.cfg.Verbose),
		bip39crack.WithPassphrase(a.cfg.Passphrase),
		bip39crack.WithWideCandidates(a.cfg.Wide),
		bip39crack.WithLogger(a.logger),
		bip39crack.WithMetricsCollector(mc),
		bip39crack.WithProgressSink(progress.Multi(board, term)),
		bip39crack.WithMatchSink(sink),
	}

	if cp != nil {
		optFns = append(optFns, bip39crack.WithCheckpoint(cp, a.cfg.CheckpointInterval))
	}

	s, err := bip39crack.New(dict, target, optFns...)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	res, runErr := s.Run(ctx, candidates)
	if res != nil {
		if err := sink.Summary(res); err != nil && runErr == nil {
			runErr = fmt.Errorf("write result: %w", err)
		}
	}
	if err := out.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close result: %w", err)
	}
	return res, runErr
}

func (a *app) loadDictionary(ctx context.Context) (*mnemonic.Dictionary, error) {
	if a.cfg.DictFile == builtinEnglish {
		return mnemonic.English(), nil
	}
	store, name, err := a.resolver.Open(ctx, a.cfg.DictFile)
	if err != nil {
		return nil, err
	}
	return input.LoadDictionary(ctx, store, name)
}

func (a *app) loadDigest(ctx context.Context) (seed.PartialDigest, error) {
	store, name, err := a.resolver.Open(ctx, a.cfg.HashFile)
	if err != nil {
		return nil, err
	}
	return input.LoadDigest(ctx, store, name)
}

func (a *app) loadCandidates(ctx context.Context, dict *mnemonic.Dictionary) ([]bip39crack.Candidate, error) {
	store, name, err := a.resolver.Open(ctx, a.cfg.IndexFile)
	if err != nil {
		return nil, err
	}
	return input.LoadCandidates(ctx, store, name, dict, input.CandidateOptions{Wide: a.cfg.Wide})
}

func (a *app) openCheckpoint(ctx context.Context, candidates []bip39crack.Candidate) (*checkpoint.Checkpoint, error) {
	store, name, err := a.resolver.Open(ctx, a.cfg.Checkpoint)
	if err != nil {
		return nil, err
	}
	cp, err := checkpoint.Open(ctx, store, name, checkpoint.Fingerprint(candidates))
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", a.cfg.Checkpoint, err)
	}
	if n := cp.Len(); n > 0 {
		a.logger.Info("resuming from checkpoint", "exhausted", n)
	}
	return cp, nil
}

type appender interface {
	Append(ctx context.Context, name string) (blobstore.WritableBlob, error)
}

// createOutput appends to local result files and replaces remote ones.
func (a *app) createOutput(ctx context.Context) (blobstore.WritableBlob, error) {
	store, name, err := a.resolver.Open(ctx, a.cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	var out blobstore.WritableBlob
	if ap, ok := store.(appender); ok {
		out, err = ap.Append(ctx, name)
	} else {
		out, err = store.Create(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("open result %s: %w", a.cfg.OutputFile, err)
	}
	return out, nil
}
