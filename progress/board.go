package progress

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/bip39crack"
)

// State is the lifecycle state of a worker.
type State uint8

const (
	Idle State = iota
	Searching
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "searching":
		*s = Searching
	case "finished":
		*s = Finished
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("progress: unknown state %q", text)
	}
	return nil
}

// Status is the last known state of one worker.
type Status struct {
	Worker    int    `json:"worker"`
	State     State  `json:"state"`
	Attempts  int64  `json:"attempts"`
	Candidate int    `json:"candidate"`
	Current   string `json:"current,omitempty"`
	Matches   int    `json:"matches"`
	Exhausted int    `json:"exhausted"`
	Error     string `json:"error,omitempty"`
}

// Board collects worker status. It implements bip39crack.ProgressSink and
// is safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	workers map[int]*Status
}

var _ bip39crack.ProgressSink = (*Board)(nil)

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{workers: make(map[int]*Status)}
}

// Report updates the status of worker from ev.
func (b *Board) Report(worker int, ev bip39crack.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.workers[worker]
	if !ok {
		st = &Status{Worker: worker}
		b.workers[worker] = st
	}
	apply(st, ev)
}

func apply(st *Status, ev bip39crack.Event) {
	st.Attempts = max(st.Attempts, ev.Attempts)

	switch ev.Kind {
	case bip39crack.EventTrying:
		st.State = Searching
		st.Candidate = ev.Candidate
		st.Current = ev.Sentence
	case bip39crack.EventMatched:
		st.State = Searching
		st.Candidate = ev.Candidate
		st.Current = ev.Sentence
		st.Matches++
	case bip39crack.EventProgress:
		st.State = Searching
		st.Candidate = ev.Candidate
	case bip39crack.EventExhausted:
		st.State = Searching
		st.Exhausted++
	case bip39crack.EventFinished:
		st.State = Finished
		st.Attempts = ev.Attempts
		st.Current = ""
		if ev.Err != nil {
			st.State = Failed
			st.Error = ev.Err.Error()
		}
	}
}

// Snapshot returns a copy of all records sorted by worker id.
func (b *Board) Snapshot() []Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Status, 0, len(b.workers))
	for _, st := range b.workers {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Worker < out[j].Worker })
	return out
}

// Totals sums attempts and matches over all workers.
func (b *Board) Totals() (attempts int64, matches int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, st := range b.workers {
		attempts += st.Attempts
		matches += st.Matches
	}
	return attempts, matches
}

// Reset forgets all workers.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.workers)
}

type multi []bip39crack.ProgressSink

func (m multi) Report(worker int, ev bip39crack.Event) {
	for _, s := range m {
		s.Report(worker, ev)
	}
}

// Multi returns a sink that forwards every event to each non-nil sink.
func Multi(sinks ...bip39crack.ProgressSink) bip39crack.ProgressSink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}
