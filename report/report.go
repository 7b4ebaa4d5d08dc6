// Package report writes the human-readable result file of a run.
//
// A result file contains, in order:
//
//	Start: 2026-01-02T15:04:05Z
//	Match: abandon abandon ... about
//	End: 2026-01-02T15:09:05Z
//	Hashrate: 1234.56 hashes/s (370368000 attempts in 5m0s)
//
// Each record is formatted in full and then written with a single Write
// under a mutex, so concurrent callers never interleave partial lines.
package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/hupe1980/bip39crack"
)

// Sink appends records to a writer.
type Sink struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

var _ bip39crack.MatchSink = (*Sink)(nil)

// NewSink returns a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// write formats one record with fn and writes it in one call.
func (s *Sink) write(fn func(b []byte) []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = fn(s.buf[:0])
	s.buf = append(s.buf, '\n')
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// Start records the start of a run.
func (s *Sink) Start(t time.Time) error {
	return s.write(func(b []byte) []byte {
		return t.AppendFormat(append(b, "Start: "...), time.RFC3339)
	})
}

// Match records a matched sentence. It implements bip39crack.MatchSink.
func (s *Sink) Match(sentence string) error {
	return s.write(func(b []byte) []byte {
		return append(append(b, "Match: "...), sentence...)
	})
}

// End records the end of a run.
func (s *Sink) End(t time.Time) error {
	return s.write(func(b []byte) []byte {
		return t.AppendFormat(append(b, "End: "...), time.RFC3339)
	})
}

// Hashrate records the overall rate. A zero elapsed time reports a rate of 0.
func (s *Sink) Hashrate(attempts int64, elapsed time.Duration) error {
	var rate float64
	if elapsed > 0 {
		rate = float64(attempts) / elapsed.Seconds()
	}
	return s.write(func(b []byte) []byte {
		b = append(b, "Hashrate: "...)
		b = strconv.AppendFloat(b, rate, 'f', 2, 64)
		b = append(b, " hashes/s ("...)
		b = strconv.AppendInt(b, attempts, 10)
		b = append(b, " attempts in "...)
		b = append(b, elapsed.Round(time.Millisecond).String()...)
		return append(b, ')')
	})
}

// Summary writes End and Hashrate for a finished run.
func (s *Sink) Summary(res *bip39crack.Result) error {
	if err := s.End(res.Finished); err != nil {
		return err
	}
	return s.Hashrate(res.Attempts, res.Elapsed())
}
