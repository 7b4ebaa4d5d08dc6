package bip39crack

import "context"

// EventKind identifies a worker event.
type EventKind uint8

const (
	// EventTrying is emitted in verbose mode before key derivation for an
	// ordering that passed the checksum filter.
	EventTrying EventKind = iota + 1
	// EventMatched carries a sentence whose master digest matched the target.
	EventMatched
	// EventExhausted reports that every ordering of one candidate was examined.
	EventExhausted
	// EventFinished is the last event of a worker. It carries the final
	// attempt count and the worker's fault, if any.
	EventFinished
	// EventProgress carries the running attempt count every flushEvery
	// attempts. Like EventTrying it is dropped when the aggregator is behind.
	EventProgress
)

func (k EventKind) String() string {
	switch k {
	case EventTrying:
		return "trying"
	case EventMatched:
		return "matched"
	case EventExhausted:
		return "exhausted"
	case EventFinished:
		return "finished"
	case EventProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Event is a progress message from one worker to the aggregator.
type Event struct {
	Kind   EventKind
	Worker int
	// Candidate is the position of the candidate in the list passed to Run.
	Candidate int
	Sentence  string
	// Attempts is the worker's running attempt count.
	Attempts int64
	Err      error
}

// ProgressSink receives every event the aggregator observes, in arrival
// order. It is called from the aggregating goroutine only.
type ProgressSink interface {
	Report(worker int, ev Event)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(worker int, ev Event)

// Report implements ProgressSink.
func (f ProgressFunc) Report(worker int, ev Event) { f(worker, ev) }

type noopProgress struct{}

func (noopProgress) Report(int, Event) {}

// MatchSink receives matched sentences as soon as the aggregator sees them.
type MatchSink interface {
	Match(sentence string) error
}

// MatchFunc adapts a function to MatchSink.
type MatchFunc func(sentence string) error

// Match implements MatchSink.
func (f MatchFunc) Match(sentence string) error { return f(sentence) }

// Checkpoint tracks candidates whose ordering space was fully examined.
// Positions refer to the candidate list passed to Run. It is only used from
// the aggregating goroutine.
type Checkpoint interface {
	Done(position int) bool
	Mark(position int)
	Len() int
	Save(ctx context.Context) error
}
