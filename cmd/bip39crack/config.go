package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"
)

const (
	envPrefix       = "BIP39CRACK_"
	builtinEnglish  = "builtin:english"
	defaultInterval = 30 * time.Second
)

// config is the resolved command line configuration. Every flag default can
// be overridden with a BIP39CRACK_* environment variable; explicit flags win.
type config struct {
	Threads            int
	DictFile           string
	IndexFile          string
	HashFile           string
	OutputFile         string
	TryLimit           int64
	Verbose            bool
	Passphrase         string
	Wide               bool
	Checkpoint         string
	CheckpointInterval time.Duration
	StatusAddr         string
	LogFormat          string
	LogLevel           slog.Level
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) string(name, def string) string {
	if v := e.getenv(envPrefix + name); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(name string, def int64) int64 {
	v := e.getenv(envPrefix + name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return def
	}
	return n
}

func (e *envReader) bool(name string, def bool) bool {
	v := e.getenv(envPrefix + name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return def
	}
	return b
}

func (e *envReader) duration(name string, def time.Duration) time.Duration {
	v := e.getenv(envPrefix + name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return def
	}
	return d
}

func (e *envReader) level(name string, def slog.Level) slog.Level {
	v := e.getenv(envPrefix + name)
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return def
	}
	return l
}

// parseConfig reads flags from args on top of environment defaults.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	env := &envReader{getenv: getenv}

	var cfg config
	threads := int(env.int("THREAD_COUNT", 1))
	dictFile := env.string("DICT_FILE", "dict.txt")
	indexFile := env.string("INDEX_FILE", "index.txt")
	hashFile := env.string("HASH_FILE", "hash.txt")
	outputFile := env.string("OUTPUT_FILE", "result.txt")
	tryLimit := env.int("TRY_LIMIT", -1)
	verbose := env.bool("VERBOSE", false)
	wide := env.bool("WIDE", false)
	checkpoint := env.string("CHECKPOINT", "")
	interval := env.duration("CHECKPOINT_INTERVAL", defaultInterval)
	statusAddr := env.string("STATUS_ADDR", "")
	logFormat := env.string("LOG_FORMAT", "text")
	logLevel := env.level("LOG_LEVEL", slog.LevelInfo)
	cfg.Passphrase = env.string("PASSPHRASE", "")

	if err := errors.Join(env.errs...); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("bip39crack", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: bip39crack [flags]\n\n"+
			"Recovers the word order of a 12-word BIP39 mnemonic.\n"+
			"File flags accept local paths, s3://bucket/key and minio://host/bucket/key.\n\n")
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.Threads, "t", threads, "number of worker threads (shorthand)")
	fs.IntVar(&cfg.Threads, "thread-count", threads, "number of worker threads")
	fs.StringVar(&cfg.DictFile, "dict-file", dictFile, "dictionary file, or "+builtinEnglish)
	fs.StringVar(&cfg.IndexFile, "index-file", indexFile, "candidate index file")
	fs.StringVar(&cfg.HashFile, "hash-file", hashFile, "target digest file")
	fs.StringVar(&cfg.OutputFile, "o", outputFile, "result file (shorthand)")
	fs.StringVar(&cfg.OutputFile, "output-file", outputFile, "result file")
	fs.Int64Var(&cfg.TryLimit, "try-limit", tryLimit, "orderings per worker, -1 for unlimited")
	fs.BoolVar(&cfg.Verbose, "v", verbose, "show every candidate sentence (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", verbose, "show every candidate sentence")
	fs.StringVar(&cfg.Passphrase, "passphrase", cfg.Passphrase, "BIP39 passphrase (prefer "+envPrefix+"PASSPHRASE)")
	fs.BoolVar(&cfg.Wide, "wide", wide, "accept candidates with more than 12 indices")
	fs.StringVar(&cfg.Checkpoint, "checkpoint", checkpoint, "checkpoint file for resuming")
	fs.DurationVar(&cfg.CheckpointInterval, "checkpoint-interval", interval, "minimum time between checkpoint saves")
	fs.StringVar(&cfg.StatusAddr, "status-addr", statusAddr, "serve /status, /metrics and /healthz on this address")
	fs.StringVar(&cfg.LogFormat, "log-format", logFormat, "log format: text or json")
	fs.TextVar(&cfg.LogLevel, "log-level", logLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("thread count must be positive, got %d", c.Threads))
	}
	if c.TryLimit < -1 {
		errs = append(errs, fmt.Errorf("try limit must be -1 or non-negative, got %d", c.TryLimit))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}
	for name, v := range map[string]string{"dict-file": c.DictFile, "index-file": c.IndexFile, "hash-file": c.HashFile, "output-file": c.OutputFile} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	return errors.Join(errs...)
}
