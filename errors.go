package bip39crack

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidates is returned when Run is called without candidates left to search.
	ErrNoCandidates = errors.New("no candidates to search")

	// ErrInvalidWorkers is returned when the configured worker count is not positive.
	ErrInvalidWorkers = errors.New("worker count must be positive")

	// ErrInvalidTryLimit is returned for try limits below -1.
	ErrInvalidTryLimit = errors.New("try limit must be -1 (unlimited) or non-negative")

	// ErrNilDictionary is returned when New is called without a dictionary.
	ErrNilDictionary = errors.New("dictionary is nil")
)

// ErrInvalidCandidate indicates a candidate with the wrong number of indices.
type ErrInvalidCandidate struct {
	Position int
	Len      int
	Wide     bool
}

func (e *ErrInvalidCandidate) Error() string {
	if e.Wide {
		return fmt.Sprintf("candidate %d: has %d indices, need at least 12", e.Position, e.Len)
	}
	return fmt.Sprintf("candidate %d: has %d indices, need exactly 12", e.Position, e.Len)
}

// WorkerError reports a fault that stopped one worker.
//
// The original underlying error can be accessed via errors.Unwrap.
type WorkerError struct {
	Worker int
	cause  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.cause)
}

func (e *WorkerError) Unwrap() error { return e.cause }
