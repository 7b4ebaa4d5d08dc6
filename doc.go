// Package bip39crack recovers a 12-word BIP39 mnemonic from partial knowledge.
//
// The searcher knows which words the mnemonic uses (possibly a few extra
// candidates) but not their order, and holds a fragment of the master digest
// derived from the correct phrase. bip39crack enumerates the orderings,
// filters them through the 4-bit checksum and runs the expensive key
// derivation only for the ~1/16 that pass.
//
// # Quick Start
//
//	dict := mnemonic.English()
//	target, _ := seed.NewPartialDigest(fragment)
//
//	s, _ := bip39crack.New(dict, target, bip39crack.WithWorkers(runtime.NumCPU()))
//	res, err := s.Run(ctx, []bip39crack.Candidate{{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}})
//	for _, m := range res.Matches {
//	    fmt.Println(m)
//	}
//
// # Pipeline
//
// Each worker drives every assigned candidate through
//
//	permute -> entropy.Pack -> entropy.Checksum -> mnemonic.SentenceBuilder
//	        -> seed.Derive -> seed.Checker
//
// # Workers and Events
//
// Candidates are split across workers by striding (worker i takes candidates
// i, i+W, i+2W, ...). Workers share no mutable state and report through one
// event channel that a single aggregator drains. The aggregator forwards every
// event to the configured ProgressSink, hands matches to the MatchSink as soon
// as they arrive and stops after it has seen one EventFinished per worker.
//
// # Try Limit
//
// WithTryLimit caps attempts per worker, not per run: with W workers a run
// examines at most W*limit orderings.
//
// # Resuming
//
// WithCheckpoint records candidates whose ordering space was exhausted and
// skips them on the next run. See package checkpoint.
package bip39crack
