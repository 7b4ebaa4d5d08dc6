package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, b.Snapshot())

	b.Report(1, bip39crack.Event{Kind: bip39crack.EventTrying, Worker: 1, Candidate: 3, Sentence: "a b c", Attempts: 10})
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventMatched, Worker: 0, Candidate: 0, Sentence: "x y z", Attempts: 5})
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventExhausted, Worker: 0, Candidate: 0, Attempts: 7})
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventFinished, Worker: 0, Attempts: 9})
	b.Report(1, bip39crack.Event{Kind: bip39crack.EventFinished, Worker: 1, Attempts: 12, Err: errors.New("boom")})

	snap := b.Snapshot()
	require.Len(t, snap, 2)

	assert.Equal(t, Status{Worker: 0, State: Finished, Attempts: 9, Candidate: 0, Matches: 1, Exhausted: 1}, snap[0])
	assert.Equal(t, Status{Worker: 1, State: Failed, Attempts: 12, Candidate: 3, Error: "boom"}, snap[1])

	attempts, matches := b.Totals()
	assert.Equal(t, int64(21), attempts)
	assert.Equal(t, 1, matches)

	// Snapshots are copies.
	snap[0].Matches = 99
	assert.Equal(t, 1, b.Snapshot()[0].Matches)

	b.Reset()
	assert.Empty(t, b.Snapshot())
}

func TestBoardStaleTryingDoesNotLowerAttempts(t *testing.T) {
	b := NewBoard()
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventExhausted, Attempts: 100})
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventTrying, Sentence: "s", Attempts: 50})
	assert.Equal(t, int64(100), b.Snapshot()[0].Attempts)
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(Status{Worker: 2, State: Searching, Attempts: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"worker":2,"state":"searching","attempts":4,"candidate":0,"matches":0,"exhausted":0}`, string(data))
}

func TestStateText(t *testing.T) {
	for _, want := range []State{Idle, Searching, Finished, Failed} {
		text, err := want.MarshalText()
		require.NoError(t, err)

		var got State
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, want, got)
	}

	var st Status
	require.NoError(t, json.Unmarshal([]byte(`{"worker":1,"state":"failed","error":"boom"}`), &st))
	assert.Equal(t, Failed, st.State)

	var s State
	assert.Error(t, s.UnmarshalText([]byte("paused")))
	assert.Error(t, json.Unmarshal([]byte(`{"state":"state(9)"}`), &st))
}

func TestMulti(t *testing.T) {
	a, b := NewBoard(), NewBoard()
	sink := Multi(a, nil, b)

	sink.Report(0, bip39crack.Event{Kind: bip39crack.EventFinished, Attempts: 3})
	assert.Len(t, a.Snapshot(), 1)
	assert.Len(t, b.Snapshot(), 1)
}

func TestBoardProgress(t *testing.T) {
	b := NewBoard()
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventProgress, Candidate: 2, Attempts: 1024})
	b.Report(0, bip39crack.Event{Kind: bip39crack.EventProgress, Candidate: 2, Attempts: 2048})

	attempts, matches := b.Totals()
	assert.Equal(t, int64(2048), attempts)
	assert.Zero(t, matches)

	snap := b.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, Searching, snap[0].State)
	assert.Equal(t, 2, snap[0].Candidate)
	assert.Empty(t, snap[0].Current)
}

func TestBoardConcurrent(t *testing.T) {
	b := NewBoard()
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				b.Report(w, bip39crack.Event{Kind: bip39crack.EventTrying, Worker: w, Attempts: int64(i)})
				_ = b.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, b.Snapshot(), 4)
}

func TestTerminalPlain(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, WithRefresh(time.Hour))

	term.Report(0, bip39crack.Event{Kind: bip39crack.EventTrying, Sentence: "first"})
	term.Report(0, bip39crack.Event{Kind: bip39crack.EventTrying, Sentence: "throttled"})
	term.Report(0, bip39crack.Event{Kind: bip39crack.EventProgress, Attempts: 1024})
	term.Report(1, bip39crack.Event{Kind: bip39crack.EventMatched, Sentence: "found it"})
	term.Report(1, bip39crack.Event{Kind: bip39crack.EventExhausted, Candidate: 1, Attempts: 24})
	term.Report(0, bip39crack.Event{Kind: bip39crack.EventFinished, Attempts: 42})
	term.Report(1, bip39crack.Event{Kind: bip39crack.EventFinished, Err: errors.New("lookup failed")})

	want := "worker 0: first\n" +
		"worker 1: MATCH found it\n" +
		"worker 1: candidate 1 exhausted after 24 attempts\n" +
		"worker 0: finished (42 attempts)\n" +
		"worker 1: FAILED lookup failed\n"
	assert.Equal(t, want, buf.String())
}

func TestTerminalTTY(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, WithTTY(true, 20), WithRefresh(time.Hour))

	term.Report(0, bip39crack.Event{Kind: bip39crack.EventTrying, Sentence: "abandon abandon abandon"})
	out := buf.String()
	assert.Equal(t, "\r\x1b[2Kworker 0: abandon ab\n", out)

	buf.Reset()
	term.Report(1, bip39crack.Event{Kind: bip39crack.EventFinished, Attempts: 1})
	out = buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[1A"), "cursor moves up over the previous block")
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "worker 1: ")

	buf.Reset()
	term.Flush()
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[2A"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "äö", truncate("äöü", 2))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "searching", Searching.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestBoardTracksNonVerboseRun(t *testing.T) {
	board := NewBoard()
	var beforeFinished int64
	sink := bip39crack.ProgressFunc(func(w int, ev bip39crack.Event) {
		if ev.Kind == bip39crack.EventFinished {
			beforeFinished, _ = board.Totals()
		}
		board.Report(w, ev)
	})

	s, err := bip39crack.New(mnemonic.English(), seed.PartialDigest{0xFF, 0xFF},
		bip39crack.WithTryLimit(5000),
		bip39crack.WithProgressSink(sink),
	)
	require.NoError(t, err)

	res, err := s.Run(context.Background(), []bip39crack.Candidate{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}})
	require.NoError(t, err)
	require.Equal(t, int64(5000), res.Attempts)

	// Attempts are visible at every 1024-attempt boundary, long before the
	// worker finishes.
	assert.Equal(t, int64(4096), beforeFinished)
	total, _ := board.Totals()
	assert.Equal(t, int64(5000), total)
}
