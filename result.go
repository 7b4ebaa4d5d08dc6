package bip39crack

import "time"

// Result summarizes a search run.
type Result struct {
	RunID string
	// Matches holds matched sentences in the order the aggregator saw them.
	Matches []string
	// Attempts is the sum of the final counts of all workers.
	Attempts   int64
	Workers    int
	Candidates int
	// Skipped counts candidates a checkpoint already marked as done.
	Skipped  int
	Started  time.Time
	Finished time.Time
}

// Elapsed returns the wall-clock duration of the run.
func (r *Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Hashrate returns attempts per second over the whole run.
func (r *Result) Hashrate() float64 {
	secs := r.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Attempts) / secs
}
