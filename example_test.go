package bip39crack_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/report"
	"github.com/hupe1980/bip39crack/seed"
)

// targetFor returns the first four chain code bytes of sentence.
func targetFor(sentence string) seed.PartialDigest {
	s := seed.Derive(sentence, "")
	digest := seed.MasterDigest(&s)
	return seed.PartialDigest(digest[:4])
}

// Example demonstrates recovering a mnemonic from its words and a chain code fragment.
func Example() {
	target := targetFor("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")

	s, err := bip39crack.New(mnemonic.English(), target,
		bip39crack.WithWorkers(2),
		bip39crack.WithTryLimit(1),
		bip39crack.WithLogger(bip39crack.NoopLogger()),
	)
	if err != nil {
		log.Fatal(err)
	}

	// The first ordering examined is the candidate as written.
	res, err := s.Run(context.Background(), []bip39crack.Candidate{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Workers, res.Matches[0])
	// Output: 1 abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about
}

// Example_reportSink demonstrates writing matches to a result file as they are found.
func Example_reportSink() {
	var buf bytes.Buffer
	sink := report.NewSink(&buf)

	s, err := bip39crack.New(mnemonic.English(), targetFor("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"),
		bip39crack.WithTryLimit(1),
		bip39crack.WithMatchSink(sink),
		bip39crack.WithLogger(bip39crack.NoopLogger()),
	)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := s.Run(context.Background(), []bip39crack.Candidate{{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}}); err != nil {
		log.Fatal(err)
	}
	_ = sink.Hashrate(1, 500*time.Millisecond)
	fmt.Print(buf.String())
	// Output:
	// Match: abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about
	// Hashrate: 2.00 hashes/s (1 attempts in 500ms)
}
