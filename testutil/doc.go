// Package testutil provides testing utilities for bip39crack.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG for generating word-index tuples and the
// published BIP39 vectors the packages are checked against.
//
// # Random Tuples
//
//	rng := testutil.NewRNG(seed)
//	idx := rng.Indices()          // 12 indices in [0, 2047]
//	set := rng.Distinct(15)       // 15 distinct indices
//
// # Vectors
//
//	for _, v := range testutil.TrezorVectors { ... }
package testutil
